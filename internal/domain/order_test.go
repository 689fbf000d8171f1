package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrder_CalculateTotals(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{ProductID: 1, Quantity: 2, Price: 2500},
			{ProductID: 2, Quantity: 1, Price: 4500},
		},
	}

	order.CalculateTotals(150)

	require.Equal(t, int64(9500), order.Subtotal)
	require.Equal(t, int64(150), order.DeliveryCharges)
	require.Equal(t, int64(9650), order.Total)
	require.Equal(t, order.Subtotal+order.DeliveryCharges, order.Total)
}

func TestOrder_CalculateTotals_SingleItemMultipleQuantity(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{ProductID: 7, Quantity: 3, Price: 3999},
		},
	}

	order.CalculateTotals(150)

	require.Equal(t, int64(11997), order.Subtotal)
	require.Equal(t, int64(12147), order.Total)
}

func TestOrder_CalculateTotals_EmptyItems(t *testing.T) {
	order := &Order{}

	order.CalculateTotals(150)

	require.Equal(t, int64(0), order.Subtotal)
	require.Equal(t, int64(150), order.Total)
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, status := range []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusCompleted,
		OrderStatusCancelled,
	} {
		require.True(t, status.Valid(), string(status))
	}

	require.False(t, OrderStatus("shipped").Valid())
	require.False(t, OrderStatus("").Valid())
	require.False(t, OrderStatus("Pending").Valid())
}
