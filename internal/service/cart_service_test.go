package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alnoorcollection/storefront/internal/domain"
	"github.com/alnoorcollection/storefront/internal/repository"
)

type fakeCatalog struct {
	CatalogService
	products map[int64]*domain.Product
}

func (f *fakeCatalog) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	return product, nil
}

func newCartForTest() CartService {
	catalog := &fakeCatalog{products: map[int64]*domain.Product{
		1: {ID: 1, Name: "Embroidered Shirt", Price: 2500, ImageUrl: "shirt.jpg"},
		2: {ID: 2, Name: "Silk Dupatta", Price: 4500, ImageUrl: "dupatta.jpg"},
	}}

	return NewCartService(NewMemoryCartStore(), catalog, zap.NewNop())
}

func TestCartService_AddItem(t *testing.T) {
	svc := newCartForTest()
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "s-1", 1)

	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	require.Equal(t, "Embroidered Shirt", cart.Lines[0].Name)
	require.Equal(t, int64(2500), cart.Lines[0].Price)
}

func TestCartService_AddItem_Twice_Aggregates(t *testing.T) {
	svc := newCartForTest()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s-1", 1)
	require.NoError(t, err)

	cart, err := svc.AddItem(ctx, "s-1", 1)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	require.Equal(t, int64(2), cart.Lines[0].Quantity)
}

func TestCartService_AddItem_UnknownProduct_Failed(t *testing.T) {
	svc := newCartForTest()

	cart, err := svc.AddItem(context.Background(), "s-1", 404)

	require.Nil(t, cart)
	require.ErrorIs(t, err, ErrCartProductNotFound)
}

func TestCartService_AddItem_SurvivesReload(t *testing.T) {
	svc := newCartForTest()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s-1", 1)
	require.NoError(t, err)

	cart, err := svc.GetCart(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	svc := newCartForTest()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s-1", 1)
	require.NoError(t, err)

	cart, err := svc.UpdateQuantity(ctx, "s-1", 1, 4)
	require.NoError(t, err)
	require.Equal(t, int64(4), cart.Lines[0].Quantity)
	require.Equal(t, int64(10000), cart.TotalPrice())
}

func TestCartService_UpdateQuantity_ZeroRemoves(t *testing.T) {
	svc := newCartForTest()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s-1", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "s-1", 2)
	require.NoError(t, err)

	cart, err := svc.UpdateQuantity(ctx, "s-1", 1, 0)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	require.Equal(t, int64(2), cart.Lines[0].ProductID)
}

func TestCartService_ClearCart(t *testing.T) {
	svc := newCartForTest()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s-1", 1)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, "s-1"))

	cart, err := svc.GetCart(ctx, "s-1")
	require.NoError(t, err)
	require.Empty(t, cart.Lines)
}
