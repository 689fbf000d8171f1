package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/alnoorcollection/storefront/internal/domain"
	"github.com/alnoorcollection/storefront/internal/repository"
	"github.com/alnoorcollection/storefront/pkg/mylogger"
	outboxDomain "github.com/alnoorcollection/storefront/pkg/outbox/domain"
	"github.com/alnoorcollection/storefront/pkg/outbox/worker"
)

type CatalogService interface {
	Create(ctx context.Context, product *domain.Product) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, limit, offset int64, search string) ([]domain.Product, int64, error)
	Update(ctx context.Context, id int64, input *domain.UpdateProductInput) error
	Delete(ctx context.Context, id int64) error
}

type catalogService struct {
	productRepo repository.ProductRepository
	outboxRepo  worker.OutboxRepository
	pool        *pgxpool.Pool
	logger      *zap.Logger
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	outboxRepo worker.OutboxRepository,
	pool *pgxpool.Pool,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		pool:        pool,
		logger:      logger,
	}
}

func (s *catalogService) Create(ctx context.Context, product *domain.Product) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		mylogger.Error(ctx, s.logger, "Error starting transaction", zap.Error(err))
		return 0, err
	}
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)
		err := tx.Rollback(cleanupCtx)

		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			mylogger.Warn(
				cleanupCtx,
				s.logger,
				"Error rolling back transaction",
				zap.Error(err),
				zap.String("method_name", "Create"),
			)
		}
	}()

	id, err := s.productRepo.Create(ctx, tx, product)
	if err != nil {
		mylogger.Error(ctx, s.logger, "create error", zap.Error(err))
		return 0, fmt.Errorf("error creating product: %w", err)
	}

	envelope := map[string]any{
		"event": "ProductCreated",
		"payload": domain.ProductCreatedEvent{
			ProductID: id,
			Name:      product.Name,
		},
	}

	payloadBytes, err := json.Marshal(envelope)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	outboxEvent := &outboxDomain.OutboxEvent{
		AggregateType: "Product",
		AggregateID:   fmt.Sprintf("%d", id),
		EventType:     "ProductCreated",
		Payload:       payloadBytes,
		Topic:         "catalog_events",
	}

	if err := s.outboxRepo.SaveOutboxEvent(ctx, tx, outboxEvent); err != nil {
		mylogger.Error(ctx, s.logger, "Failed to save outbox event", zap.Error(err))
		return 0, fmt.Errorf("failed to save outbox event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		mylogger.Error(ctx, s.logger, "Failed to commit transaction", zap.Error(err))
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

func (s *catalogService) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *catalogService) List(ctx context.Context, limit, offset int64, search string) ([]domain.Product, int64, error) {
	return s.productRepo.List(ctx, limit, offset, search)
}

func (s *catalogService) Update(ctx context.Context, id int64, input *domain.UpdateProductInput) error {
	err := s.productRepo.Update(ctx, id, input)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			s.logger.Warn("product not found", zap.Int64("product_id", id))
			return err
		}

		s.logger.Error("error updating product", zap.Error(err))
		return err
	}

	return nil
}

func (s *catalogService) Delete(ctx context.Context, id int64) error {
	err := s.productRepo.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			s.logger.Warn("product not found", zap.Int64("product_id", id))
			return err
		}

		s.logger.Error("error deleting product", zap.Error(err))
		return err
	}

	return nil
}
