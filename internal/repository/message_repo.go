package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/alnoorcollection/storefront/internal/domain"
	"github.com/alnoorcollection/storefront/pkg/mylogger"
)

type MessageFilter struct {
	Search string
	Status domain.MessageStatus
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.ContactMessage) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.ContactMessage, error)
	List(ctx context.Context, filter MessageFilter) ([]domain.ContactMessage, error)
	ChangeStatus(ctx context.Context, id int64, status domain.MessageStatus) error
	DeleteByID(ctx context.Context, id int64) error
}

type messageRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewMessageRepository(pool *pgxpool.Pool, logger *zap.Logger) MessageRepository {
	return &messageRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("contract/message_repo"),
	}
}

const messageColumns = `id, name, email, COALESCE(phone, ''), message, status, created_at, updated_at`

func scanMessage(row pgx.Row, m *domain.ContactMessage) error {
	return row.Scan(
		&m.ID,
		&m.Name,
		&m.Email,
		&m.Phone,
		&m.Message,
		&m.Status,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
}

func (r *messageRepo) Create(ctx context.Context, msg *domain.ContactMessage) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "MessageRepository.Create")
	defer span.End()

	query := `
		INSERT INTO contact_messages (name, email, phone, message, status)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		RETURNING id, created_at, updated_at;
	`

	if err := r.pool.QueryRow(
		ctx,
		query,
		msg.Name,
		msg.Email,
		msg.Phone,
		msg.Message,
		string(msg.Status),
	).Scan(&msg.ID, &msg.CreatedAt, &msg.UpdatedAt); err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error creating contact message",
			zap.Error(err),
		)

		return 0, fmt.Errorf("error creating contact message: %w", err)
	}

	return msg.ID, nil
}

func (r *messageRepo) GetByID(ctx context.Context, id int64) (*domain.ContactMessage, error) {
	ctx, span := r.tracer.Start(ctx, "MessageRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `
		SELECT ` + messageColumns + `
		FROM contact_messages
		WHERE id = $1;
	`

	var m domain.ContactMessage
	if err := scanMessage(r.pool.QueryRow(ctx, query, id), &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMessageNotFound
		}

		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error getting contact message",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting contact message: %w", err)
	}

	return &m, nil
}

func (r *messageRepo) List(ctx context.Context, filter MessageFilter) ([]domain.ContactMessage, error) {
	ctx, span := r.tracer.Start(ctx, "MessageRepository.List")
	defer span.End()

	span.SetAttributes(
		attribute.String("search", filter.Search),
		attribute.String("status", string(filter.Status)),
	)

	query := `
		SELECT ` + messageColumns + `
		FROM contact_messages
		WHERE 1=1`

	var args []interface{}
	argId := 1

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", argId, argId)
		args = append(args, "%"+filter.Search+"%")
		argId++
	}

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argId)
		args = append(args, string(filter.Status))
		argId++
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error listing contact messages",
			zap.Error(err),
		)

		return nil, fmt.Errorf("error listing contact messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.ContactMessage
	for rows.Next() {
		var m domain.ContactMessage
		if err := scanMessage(rows, &m); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("error scanning contact message: %w", err)
		}

		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return messages, nil
}

func (r *messageRepo) ChangeStatus(ctx context.Context, id int64, status domain.MessageStatus) error {
	ctx, span := r.tracer.Start(ctx, "MessageRepository.ChangeStatus")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
		attribute.String("status", string(status)),
	)

	query := `
		UPDATE contact_messages
		SET status = $1, updated_at = NOW()
		WHERE id = $2;
	`

	commandTag, err := r.pool.Exec(ctx, query, string(status), id)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to update contact message",
			zap.Error(err),
		)

		return fmt.Errorf("failed to update contact message: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrMessageNotFound
	}

	return nil
}

func (r *messageRepo) DeleteByID(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "MessageRepository.DeleteByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `
		DELETE FROM contact_messages
		WHERE id = $1;
	`

	commandTag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to delete contact message",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("failed to delete contact message: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrMessageNotFound
	}

	return nil
}
