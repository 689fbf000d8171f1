package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/alnoorcollection/storefront/internal/domain"
	"github.com/alnoorcollection/storefront/internal/repository"
	"github.com/alnoorcollection/storefront/pkg/mylogger"
	outboxDomain "github.com/alnoorcollection/storefront/pkg/outbox/domain"
	"github.com/alnoorcollection/storefront/pkg/outbox/worker"
)

var ErrInvalidOrderStatus = errors.New("invalid order status")

type OrderAdminService interface {
	List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ChangeStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error
}

type orderAdminService struct {
	pool       *pgxpool.Pool
	orderRepo  repository.OrderRepository
	stockRepo  repository.ProductRepository
	outboxRepo worker.OutboxRepository
	logger     *zap.Logger
}

func NewOrderAdminService(
	pool *pgxpool.Pool,
	orderRepo repository.OrderRepository,
	stockRepo repository.ProductRepository,
	outboxRepo worker.OutboxRepository,
	logger *zap.Logger,
) OrderAdminService {
	return &orderAdminService{
		pool:       pool,
		orderRepo:  orderRepo,
		stockRepo:  stockRepo,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

func (s *orderAdminService) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidOrderStatus
	}

	return s.orderRepo.List(ctx, filter)
}

func (s *orderAdminService) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// shouldRestoreStock reports whether moving from prev to next is the
// transition that returns reserved items to stock. Only the first move
// into cancelled restores; cancelled-to-cancelled or leaving cancelled
// must not touch stock again.
func shouldRestoreStock(prev, next domain.OrderStatus) bool {
	return next == domain.OrderStatusCancelled && prev != domain.OrderStatusCancelled
}

// ChangeStatus mutates only the status column. Cancelling an order returns
// its items to stock in the same transaction. The previous status is read
// under a row lock so concurrent transitions cannot restore stock twice.
func (s *orderAdminService) ChangeStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	if !status.Valid() {
		return ErrInvalidOrderStatus
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		mylogger.Error(ctx, s.logger, "Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
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
				zap.String("method_name", "ChangeStatus"),
			)
		}
	}()

	orderNumber, prevStatus, err := s.orderRepo.LockOrderStatus(ctx, tx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			mylogger.Warn(
				ctx,
				s.logger,
				"Order not found",
				zap.Int64("order_id", orderID),
			)

			return err
		}

		return err
	}

	if err := s.orderRepo.ChangeOrderStatus(ctx, tx, orderID, status); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if shouldRestoreStock(prevStatus, status) {
		items, err := s.orderRepo.GetAllItemsOfOrder(ctx, tx, orderID)
		if err != nil {
			return fmt.Errorf("failed to query items of order: %w", err)
		}

		for _, item := range items {
			if err := s.stockRepo.IncreaseStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				mylogger.Warn(
					ctx,
					s.logger,
					"Failed to return stock",
					zap.Int64("product_id", item.ProductID),
					zap.Int64("quantity", item.Quantity),
				)

				return err
			}
		}
	}

	envelope := map[string]any{
		"event": "OrderStatusChanged",
		"payload": domain.OrderStatusChangedEvent{
			OrderID:     orderID,
			OrderNumber: orderNumber,
			Status:      status,
			ChangedAt:   time.Now(),
		},
	}

	payloadBytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	outboxEvent := &outboxDomain.OutboxEvent{
		AggregateType: "Order",
		AggregateID:   fmt.Sprintf("%d", orderID),
		EventType:     "OrderStatusChanged",
		Payload:       payloadBytes,
		Topic:         "order_events",
	}

	if err := s.outboxRepo.SaveOutboxEvent(ctx, tx, outboxEvent); err != nil {
		return fmt.Errorf("failed to save outbox event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		mylogger.Error(ctx, s.logger, "Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
