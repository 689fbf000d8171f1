package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alnoorcollection/storefront/internal/domain"
	"github.com/alnoorcollection/storefront/internal/repository"
)

func TestShouldRestoreStock(t *testing.T) {
	cases := []struct {
		name string
		prev domain.OrderStatus
		next domain.OrderStatus
		want bool
	}{
		{"pending to cancelled restores", domain.OrderStatusPending, domain.OrderStatusCancelled, true},
		{"processing to cancelled restores", domain.OrderStatusProcessing, domain.OrderStatusCancelled, true},
		{"completed to cancelled restores", domain.OrderStatusCompleted, domain.OrderStatusCancelled, true},
		{"cancelled to cancelled does not restore again", domain.OrderStatusCancelled, domain.OrderStatusCancelled, false},
		{"cancelled to pending does not restore", domain.OrderStatusCancelled, domain.OrderStatusPending, false},
		{"pending to processing does not restore", domain.OrderStatusPending, domain.OrderStatusProcessing, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, shouldRestoreStock(tc.prev, tc.next))
		})
	}
}

func TestOrderAdmin_ChangeStatus_InvalidStatus_Failed(t *testing.T) {
	svc := NewOrderAdminService(nil, nil, nil, nil, zap.NewNop())

	err := svc.ChangeStatus(context.Background(), 1, domain.OrderStatus("returned"))

	require.ErrorIs(t, err, ErrInvalidOrderStatus)
}

func TestOrderAdmin_List_InvalidStatusFilter_Failed(t *testing.T) {
	svc := NewOrderAdminService(nil, nil, nil, nil, zap.NewNop())

	_, err := svc.List(context.Background(), repository.OrderFilter{Status: "returned"})

	require.ErrorIs(t, err, ErrInvalidOrderStatus)
}
