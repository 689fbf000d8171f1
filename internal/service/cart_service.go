package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/alnoorcollection/storefront/internal/domain"
	"github.com/alnoorcollection/storefront/internal/repository"
	"github.com/alnoorcollection/storefront/pkg/mylogger"
)

var ErrCartProductNotFound = errors.New("product not found")

type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	AddItem(ctx context.Context, sessionID string, productID int64) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID, quantity int64) (*domain.Cart, error)
	ClearCart(ctx context.Context, sessionID string) error
}

type cartService struct {
	store   CartStore
	catalog CatalogService
	logger  *zap.Logger
}

func NewCartService(store CartStore, catalog CatalogService, logger *zap.Logger) CartService {
	return &cartService{
		store:   store,
		catalog: catalog,
		logger:  logger,
	}
}

func (s *cartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.store.Get(ctx, sessionID)
}

func (s *cartService) AddItem(ctx context.Context, sessionID string, productID int64) (*domain.Cart, error) {
	product, err := s.catalog.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrCartProductNotFound
		}

		mylogger.Error(
			ctx,
			s.logger,
			"Failed to load product for cart",
			zap.Int64("product_id", productID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.Add(product)

	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, sessionID string, productID, quantity int64) (*domain.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.UpdateQuantity(productID, quantity)

	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

func (s *cartService) ClearCart(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}
