package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alnoorcollection/storefront/internal/domain"
)

func TestMemoryCartStore_EmptyForUnknownSession(t *testing.T) {
	store := NewMemoryCartStore()

	cart, err := store.Get(context.Background(), "nobody")

	require.NoError(t, err)
	require.NotNil(t, cart)
	require.Empty(t, cart.Lines)
}

func TestMemoryCartStore_SaveAndGet(t *testing.T) {
	store := NewMemoryCartStore()
	ctx := context.Background()

	cart := &domain.Cart{}
	cart.Add(&domain.Product{ID: 1, Name: "Embroidered Shirt", Price: 2500})

	require.NoError(t, store.Save(ctx, "session-a", cart))

	got, err := store.Get(ctx, "session-a")
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	require.Equal(t, int64(2500), got.Lines[0].Price)
}

func TestMemoryCartStore_SessionsIsolated(t *testing.T) {
	store := NewMemoryCartStore()
	ctx := context.Background()

	cart := &domain.Cart{}
	cart.Add(&domain.Product{ID: 1, Name: "Embroidered Shirt", Price: 2500})
	require.NoError(t, store.Save(ctx, "session-a", cart))

	other, err := store.Get(ctx, "session-b")
	require.NoError(t, err)
	require.Empty(t, other.Lines)
}

func TestMemoryCartStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryCartStore()
	ctx := context.Background()

	cart := &domain.Cart{}
	cart.Add(&domain.Product{ID: 1, Name: "Embroidered Shirt", Price: 2500})
	require.NoError(t, store.Save(ctx, "session-a", cart))

	got, err := store.Get(ctx, "session-a")
	require.NoError(t, err)

	got.Lines[0].Quantity = 99

	again, err := store.Get(ctx, "session-a")
	require.NoError(t, err)
	require.Equal(t, int64(1), again.Lines[0].Quantity)
}

func TestMemoryCartStore_Clear(t *testing.T) {
	store := NewMemoryCartStore()
	ctx := context.Background()

	cart := &domain.Cart{}
	cart.Add(&domain.Product{ID: 1, Name: "Embroidered Shirt", Price: 2500})
	require.NoError(t, store.Save(ctx, "session-a", cart))

	require.NoError(t, store.Clear(ctx, "session-a"))

	got, err := store.Get(ctx, "session-a")
	require.NoError(t, err)
	require.Empty(t, got.Lines)

	require.NoError(t, store.Clear(ctx, "session-a"))
}
