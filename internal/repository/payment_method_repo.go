package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/alnoorcollection/storefront/internal/domain"
	"github.com/alnoorcollection/storefront/pkg/mylogger"
)

type PaymentMethodRepository interface {
	Create(ctx context.Context, method *domain.PaymentMethod) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.PaymentMethod, error)
	ListAll(ctx context.Context) ([]domain.PaymentMethod, error)
	ListEnabled(ctx context.Context) ([]domain.PaymentMethod, error)
	SetEnabled(ctx context.Context, id int64, enabled bool) error
	UpdateAccountNumber(ctx context.Context, id int64, accountNumber string) error
	UpdateQRCodeUrl(ctx context.Context, id int64, qrCodeUrl *string) error
}

type paymentMethodRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewPaymentMethodRepository(pool *pgxpool.Pool, logger *zap.Logger) PaymentMethodRepository {
	return &paymentMethodRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("contract/payment_method_repo"),
	}
}

const methodColumns = `id, name, type, method_key, is_enabled,
		COALESCE(account_number, ''), COALESCE(qr_code_url, ''), display_order, created_at, updated_at`

func scanMethod(row pgx.Row, m *domain.PaymentMethod) error {
	return row.Scan(
		&m.ID,
		&m.Name,
		&m.Type,
		&m.MethodKey,
		&m.IsEnabled,
		&m.AccountNumber,
		&m.QRCodeUrl,
		&m.DisplayOrder,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
}

// Create assigns display_order = max + 1 inside the insert so concurrent
// creates cannot race to the same slot.
func (r *paymentMethodRepo) Create(ctx context.Context, method *domain.PaymentMethod) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "PaymentMethodRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("method_key", method.MethodKey),
	)

	query := `
		INSERT INTO payment_methods (name, type, method_key, is_enabled, account_number, display_order)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), (SELECT COALESCE(MAX(display_order), 0) + 1 FROM payment_methods))
		RETURNING id, display_order;
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		method.Name,
		string(method.Type),
		method.MethodKey,
		method.IsEnabled,
		method.AccountNumber,
	).Scan(&method.ID, &method.DisplayOrder)
	if err != nil {
		var pgError *pgconn.PgError
		if errors.As(err, &pgError) && pgError.Code == "23505" {
			mylogger.Warn(
				ctx,
				r.logger,
				"Method key already exists",
				zap.String("method_key", method.MethodKey),
			)

			return 0, ErrMethodKeyTaken
		}

		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error creating payment method",
			zap.Error(err),
		)

		return 0, fmt.Errorf("error creating payment method: %w", err)
	}

	return method.ID, nil
}

func (r *paymentMethodRepo) GetByID(ctx context.Context, id int64) (*domain.PaymentMethod, error) {
	ctx, span := r.tracer.Start(ctx, "PaymentMethodRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `
		SELECT ` + methodColumns + `
		FROM payment_methods
		WHERE id = $1;
	`

	var m domain.PaymentMethod
	if err := scanMethod(r.pool.QueryRow(ctx, query, id), &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentMethodNotFound
		}

		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error getting payment method",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting payment method: %w", err)
	}

	return &m, nil
}

func (r *paymentMethodRepo) list(ctx context.Context, spanName, query string) ([]domain.PaymentMethod, error) {
	ctx, span := r.tracer.Start(ctx, spanName)
	defer span.End()

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error listing payment methods",
			zap.Error(err),
		)

		return nil, fmt.Errorf("error listing payment methods: %w", err)
	}
	defer rows.Close()

	var methods []domain.PaymentMethod
	for rows.Next() {
		var m domain.PaymentMethod
		if err := scanMethod(rows, &m); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("error scanning payment method: %w", err)
		}
		methods = append(methods, m)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	span.SetAttributes(
		attribute.Int("result_count", len(methods)),
	)

	return methods, nil
}

func (r *paymentMethodRepo) ListAll(ctx context.Context) ([]domain.PaymentMethod, error) {
	query := `
		SELECT ` + methodColumns + `
		FROM payment_methods
		ORDER BY display_order ASC;
	`

	return r.list(ctx, "PaymentMethodRepository.ListAll", query)
}

func (r *paymentMethodRepo) ListEnabled(ctx context.Context) ([]domain.PaymentMethod, error) {
	query := `
		SELECT ` + methodColumns + `
		FROM payment_methods
		WHERE is_enabled = TRUE
		ORDER BY display_order ASC;
	`

	return r.list(ctx, "PaymentMethodRepository.ListEnabled", query)
}

func (r *paymentMethodRepo) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	ctx, span := r.tracer.Start(ctx, "PaymentMethodRepository.SetEnabled")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
		attribute.Bool("enabled", enabled),
	)

	query := `
		UPDATE payment_methods
		SET is_enabled = $1, updated_at = NOW()
		WHERE id = $2;
	`

	commandTag, err := r.pool.Exec(ctx, query, enabled, id)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to toggle payment method",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("failed to toggle payment method: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrPaymentMethodNotFound
	}

	return nil
}

func (r *paymentMethodRepo) UpdateAccountNumber(ctx context.Context, id int64, accountNumber string) error {
	ctx, span := r.tracer.Start(ctx, "PaymentMethodRepository.UpdateAccountNumber")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `
		UPDATE payment_methods
		SET account_number = NULLIF($1, ''), updated_at = NOW()
		WHERE id = $2;
	`

	commandTag, err := r.pool.Exec(ctx, query, accountNumber, id)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to update account number",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("failed to update account number: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrPaymentMethodNotFound
	}

	return nil
}

func (r *paymentMethodRepo) UpdateQRCodeUrl(ctx context.Context, id int64, qrCodeUrl *string) error {
	ctx, span := r.tracer.Start(ctx, "PaymentMethodRepository.UpdateQRCodeUrl")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `
		UPDATE payment_methods
		SET qr_code_url = $1, updated_at = NOW()
		WHERE id = $2;
	`

	commandTag, err := r.pool.Exec(ctx, query, qrCodeUrl, id)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to update qr code url",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("failed to update qr code url: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrPaymentMethodNotFound
	}

	return nil
}
