package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/alnoorcollection/storefront/internal/domain"
	"github.com/alnoorcollection/storefront/internal/repository"
	"github.com/alnoorcollection/storefront/internal/storage"
	"github.com/alnoorcollection/storefront/pkg/mylogger"
	outboxDomain "github.com/alnoorcollection/storefront/pkg/outbox/domain"
	"github.com/alnoorcollection/storefront/pkg/outbox/worker"
)

var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrPaymentMethodRequired = errors.New("a payment method must be selected for advance payment")
	ErrPaymentProofRequired  = errors.New("a payment proof image is required for advance payment")
	ErrProofTooLarge         = errors.New("payment proof exceeds the size limit")
	ErrPaymentMethodDisabled = errors.New("selected payment method is not available")
	ErrCheckoutInFlight      = errors.New("a checkout for this session is already in progress")
)

// ProofUpload carries an attached payment-proof image. Size must be known
// before any byte is sent to storage.
type ProofUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// BuyNowInput orders a single product directly, bypassing the session cart.
type BuyNowInput struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"gte=0"`
}

type CheckoutInput struct {
	SessionID string `validate:"required"`

	CustomerName string `json:"name" validate:"required,min=2,max=100"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"required,min=5,max=30"`
	Address      string `json:"address" validate:"required,min=5,max=300"`
	City         string `json:"city" validate:"required,min=2,max=100"`
	PostalCode   string `json:"postal_code" validate:"max=20"`
	Country      string `json:"country" validate:"max=100"`
	Notes        string `json:"notes" validate:"max=1000"`

	PaymentType     domain.PaymentType `json:"payment_type" validate:"required,oneof=cash_on_delivery advance_payment"`
	PaymentMethodID *int64             `json:"payment_method_id"`
	Proof           *ProofUpload

	BuyNow *BuyNowInput `json:"buy_now"`
}

type CheckoutService interface {
	PlaceOrder(ctx context.Context, input *CheckoutInput) (*domain.Order, error)
}

type checkoutService struct {
	pool        *pgxpool.Pool
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	methodRepo  repository.PaymentMethodRepository
	cartStore   CartStore
	uploader    storage.Uploader
	outboxRepo  worker.OutboxRepository
	validate    *validator.Validate
	logger      *zap.Logger

	proofsBucket    string
	deliveryCharges int64
	maxProofBytes   int64

	inflight sync.Map
}

type CheckoutConfig struct {
	ProofsBucket    string
	DeliveryCharges int64
	MaxProofBytes   int64
}

func NewCheckoutService(
	pool *pgxpool.Pool,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	methodRepo repository.PaymentMethodRepository,
	cartStore CartStore,
	uploader storage.Uploader,
	outboxRepo worker.OutboxRepository,
	logger *zap.Logger,
	cfg CheckoutConfig,
) CheckoutService {
	return &checkoutService{
		pool:            pool,
		orderRepo:       orderRepo,
		productRepo:     productRepo,
		methodRepo:      methodRepo,
		cartStore:       cartStore,
		uploader:        uploader,
		outboxRepo:      outboxRepo,
		validate:        validator.New(),
		logger:          logger,
		proofsBucket:    cfg.ProofsBucket,
		deliveryCharges: cfg.DeliveryCharges,
		maxProofBytes:   cfg.MaxProofBytes,
	}
}

// PlaceOrder validates the submission, uploads the proof if one is attached
// and records the order header plus item snapshots in one transaction. The
// session cart is cleared only after a successful commit, and only for cart
// checkouts. A second submission for the same session while one is running
// is rejected outright.
func (s *checkoutService) PlaceOrder(ctx context.Context, input *CheckoutInput) (*domain.Order, error) {
	if _, loaded := s.inflight.LoadOrStore(input.SessionID, struct{}{}); loaded {
		return nil, ErrCheckoutInFlight
	}
	defer s.inflight.Delete(input.SessionID)

	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	method, err := s.resolvePayment(ctx, input)
	if err != nil {
		return nil, err
	}

	items, err := s.collectItems(ctx, input)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		OrderNumber:  generateOrderNumber(),
		CustomerName: strings.TrimSpace(input.CustomerName),
		Email:        strings.TrimSpace(input.Email),
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		City:         strings.TrimSpace(input.City),
		PostalCode:   strings.TrimSpace(input.PostalCode),
		Country:      strings.TrimSpace(input.Country),
		Notes:        strings.TrimSpace(input.Notes),
		Status:       domain.OrderStatusPending,
		Items:        items,
	}
	if method != nil {
		order.PaymentMethodID = &method.ID
	}

	order.CalculateTotals(s.deliveryCharges)

	if input.Proof != nil {
		key := fmt.Sprintf("%s_%s%s", order.OrderNumber, uuid.New().String(), path.Ext(input.Proof.Filename))

		url, err := s.uploader.Upload(ctx, s.proofsBucket, key, input.Proof.ContentType, input.Proof.Content)
		if err != nil {
			mylogger.Error(
				ctx,
				s.logger,
				"Payment proof upload failed",
				zap.String("order_number", order.OrderNumber),
				zap.Error(err),
			)

			return nil, fmt.Errorf("failed to upload payment proof: %w", err)
		}

		order.PaymentProofUrl = url
	}

	if err := s.persistOrder(ctx, order); err != nil {
		return nil, err
	}

	if input.BuyNow == nil {
		if err := s.cartStore.Clear(ctx, input.SessionID); err != nil {
			mylogger.Warn(
				ctx,
				s.logger,
				"Failed to clear cart after order",
				zap.String("session_id", input.SessionID),
				zap.Error(err),
			)
		}
	}

	mylogger.Info(
		ctx,
		s.logger,
		"Order placed",
		zap.String("order_number", order.OrderNumber),
		zap.Int64("total", order.Total),
		zap.Int("items", len(order.Items)),
	)

	return order, nil
}

func (s *checkoutService) resolvePayment(ctx context.Context, input *CheckoutInput) (*domain.PaymentMethod, error) {
	if input.Proof != nil && input.Proof.Size > s.maxProofBytes {
		return nil, ErrProofTooLarge
	}

	if input.PaymentType != domain.PaymentTypeAdvancePayment {
		return nil, nil
	}

	if input.PaymentMethodID == nil {
		return nil, ErrPaymentMethodRequired
	}

	if input.Proof == nil {
		return nil, ErrPaymentProofRequired
	}

	method, err := s.methodRepo.GetByID(ctx, *input.PaymentMethodID)
	if err != nil {
		return nil, err
	}

	if !method.IsEnabled || method.Type != domain.PaymentTypeAdvancePayment {
		return nil, ErrPaymentMethodDisabled
	}

	return method, nil
}

func (s *checkoutService) collectItems(ctx context.Context, input *CheckoutInput) ([]domain.OrderItem, error) {
	if input.BuyNow != nil {
		product, err := s.productRepo.GetByID(ctx, input.BuyNow.ProductID)
		if err != nil {
			return nil, err
		}

		quantity := input.BuyNow.Quantity
		if quantity < 1 {
			quantity = 1
		}

		return []domain.OrderItem{{
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductImage: product.ImageUrl,
			Quantity:     quantity,
			Price:        product.Price,
		}}, nil
	}

	cart, err := s.cartStore.Get(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]domain.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, domain.OrderItem{
			ProductID:    line.ProductID,
			ProductName:  line.Name,
			ProductImage: line.ImageUrl,
			Quantity:     line.Quantity,
			Price:        line.Price,
		})
	}

	return items, nil
}

func (s *checkoutService) persistOrder(ctx context.Context, order *domain.Order) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
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
				zap.String("method_name", "persistOrder"),
			)
		}
	}()

	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"Failed to create order",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err),
		)

		return fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range order.Items {
		if err := s.productRepo.DecreaseStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				mylogger.Warn(
					ctx,
					s.logger,
					"Insufficient stock",
					zap.Int64("product_id", item.ProductID),
					zap.Int64("quantity", item.Quantity),
				)

				return err
			}

			return fmt.Errorf("failed to decrease stock: %w", err)
		}
	}

	eventItems := make([]domain.OrderItemEvent, len(order.Items))
	for i, item := range order.Items {
		eventItems[i] = domain.OrderItemEvent{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	envelope := map[string]any{
		"event": "OrderPlaced",
		"payload": domain.OrderPlacedEvent{
			OrderID:      order.ID,
			OrderNumber:  order.OrderNumber,
			CustomerName: order.CustomerName,
			Total:        order.Total,
			Items:        eventItems,
			PlacedAt:     time.Now(),
		},
	}

	payloadBytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	outboxEvent := &outboxDomain.OutboxEvent{
		AggregateType: "Order",
		AggregateID:   fmt.Sprintf("%d", order.ID),
		EventType:     "OrderPlaced",
		Payload:       payloadBytes,
		Topic:         "order_events",
	}

	if err := s.outboxRepo.SaveOutboxEvent(ctx, tx, outboxEvent); err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"Failed to save outbox event",
			zap.Error(err),
		)

		return fmt.Errorf("failed to save outbox event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		mylogger.Error(ctx, s.logger, "Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// generateOrderNumber uses wall-clock millis plus a random suffix so two
// concurrent submissions cannot collide.
func generateOrderNumber() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), strings.ToUpper(suffix))
}
