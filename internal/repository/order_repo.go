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

type OrderFilter struct {
	Search string
	Status domain.OrderStatus
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, tx pgx.Tx, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	LockOrderStatus(ctx context.Context, tx pgx.Tx, orderID int64) (string, domain.OrderStatus, error)
	ChangeOrderStatus(ctx context.Context, tx pgx.Tx, orderID int64, status domain.OrderStatus) error
	GetAllItemsOfOrder(ctx context.Context, tx pgx.Tx, orderID int64) ([]domain.OrderItem, error)
}

type orderRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewOrderRepository(pool *pgxpool.Pool, logger *zap.Logger) OrderRepository {
	return &orderRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("order_repository"),
	}
}

func (r *orderRepo) CreateOrder(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.CreateOrder")
	defer span.End()

	span.SetAttributes(
		attribute.String("order_number", order.OrderNumber),
		attribute.Int("items_count", len(order.Items)),
	)

	queryOrder := `
		INSERT INTO orders (order_number, customer_name, email, phone, address, city, postal_code,
			country, notes, payment_method_id, payment_proof_url, subtotal, delivery_charges, total, status)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''),
			$10, NULLIF($11, ''), $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`

	if err := tx.QueryRow(
		ctx,
		queryOrder,
		order.OrderNumber,
		order.CustomerName,
		order.Email,
		order.Phone,
		order.Address,
		order.City,
		order.PostalCode,
		order.Country,
		order.Notes,
		order.PaymentMethodID,
		order.PaymentProofUrl,
		order.Subtotal,
		order.DeliveryCharges,
		order.Total,
		string(order.Status),
	).Scan(
		&order.ID,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		span.RecordError(err)

		mylogger.Warn(
			ctx,
			r.logger,
			"Failed to insert order",
			zap.Error(err),
		)

		return err
	}

	queryItem := `
		INSERT INTO order_items (order_id, product_id, product_name, product_image, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID

		if err := tx.QueryRow(
			ctx,
			queryItem,
			order.ID,
			item.ProductID,
			item.ProductName,
			item.ProductImage,
			item.Quantity,
			item.Price,
		).Scan(&item.ID); err != nil {
			span.RecordError(err)

			mylogger.Error(
				ctx,
				r.logger,
				"Failed to insert item",
				zap.Error(err),
			)

			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return nil
}

const orderColumns = `o.id, o.order_number, o.customer_name, COALESCE(o.email, ''), o.phone,
		o.address, o.city, COALESCE(o.postal_code, ''), COALESCE(o.country, ''), COALESCE(o.notes, ''),
		o.payment_method_id, COALESCE(pm.name, 'Cash on Delivery'), COALESCE(pm.type, 'cash_on_delivery'),
		COALESCE(o.payment_proof_url, ''), o.subtotal, o.delivery_charges, o.total, o.status,
		o.created_at, o.updated_at`

func scanOrder(row pgx.Row, o *domain.Order) error {
	return row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.CustomerName,
		&o.Email,
		&o.Phone,
		&o.Address,
		&o.City,
		&o.PostalCode,
		&o.Country,
		&o.Notes,
		&o.PaymentMethodID,
		&o.PaymentMethod,
		&o.PaymentType,
		&o.PaymentProofUrl,
		&o.Subtotal,
		&o.DeliveryCharges,
		&o.Total,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		LEFT JOIN payment_methods pm ON pm.id = o.payment_method_id
		WHERE o.id = $1;
	`

	var o domain.Order
	if err := scanOrder(r.pool.QueryRow(ctx, query, id), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}

		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error getting order",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting order: %w", err)
	}

	items, err := r.loadItems(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]

	return &o, nil
}

func (r *orderRepo) List(ctx context.Context, filter OrderFilter) ([]domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.List")
	defer span.End()

	span.SetAttributes(
		attribute.String("search", filter.Search),
		attribute.String("status", string(filter.Status)),
	)

	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		LEFT JOIN payment_methods pm ON pm.id = o.payment_method_id
		WHERE 1=1`

	var args []interface{}
	argId := 1

	if filter.Search != "" {
		query += fmt.Sprintf(
			" AND (o.order_number ILIKE $%d OR o.customer_name ILIKE $%d OR o.email ILIKE $%d)",
			argId, argId, argId,
		)
		args = append(args, "%"+filter.Search+"%")
		argId++
	}

	if filter.Status != "" {
		query += fmt.Sprintf(" AND o.status = $%d", argId)
		args = append(args, string(filter.Status))
		argId++
	}

	query += " ORDER BY o.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error listing orders",
			zap.Error(err),
		)

		return nil, fmt.Errorf("error listing orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	var orderIDs []int64
	for rows.Next() {
		var o domain.Order
		if err := scanOrder(rows, &o); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("error scanning order: %w", err)
		}

		orders = append(orders, o)
		orderIDs = append(orderIDs, o.ID)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	itemsByOrder, err := r.loadItems(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
	}

	span.SetAttributes(
		attribute.Int("result_count", len(orders)),
	)

	return orders, nil
}

func (r *orderRepo) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, product_image, quantity, price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id ASC;
	`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		mylogger.Error(
			ctx,
			r.logger,
			"Failed to query order_items",
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.OrderItem)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.ProductImage,
			&item.Quantity,
			&item.Price,
		); err != nil {
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}

		result[item.OrderID] = append(result[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// LockOrderStatus reads the order number and current status under a row
// lock, so a status transition can be decided and applied atomically.
func (r *orderRepo) LockOrderStatus(ctx context.Context, tx pgx.Tx, orderID int64) (string, domain.OrderStatus, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.LockOrderStatus")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
	)

	query := `
		SELECT order_number, status
		FROM orders
		WHERE id = $1
		FOR UPDATE;
	`

	var orderNumber string
	var status domain.OrderStatus
	if err := tx.QueryRow(ctx, query, orderID).Scan(&orderNumber, &status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", ErrOrderNotFound
		}

		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to lock order row",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)

		return "", "", fmt.Errorf("failed to lock order row: %w", err)
	}

	return orderNumber, status, nil
}

func (r *orderRepo) ChangeOrderStatus(ctx context.Context, tx pgx.Tx, orderID int64, status domain.OrderStatus) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.ChangeOrderStatus")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
		attribute.String("status", string(status)),
	)

	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2;
	`

	commandTag, err := tx.Exec(ctx, query, string(status), orderID)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to update order",
			zap.Error(err),
		)

		return fmt.Errorf("failed to update order: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		mylogger.Warn(
			ctx,
			r.logger,
			"Order not found",
			zap.Int64("order_id", orderID),
		)

		return ErrOrderNotFound
	}

	return nil
}

func (r *orderRepo) GetAllItemsOfOrder(ctx context.Context, tx pgx.Tx, orderID int64) ([]domain.OrderItem, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.GetAllItemsOfOrder")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
	)

	query := `
		SELECT id, order_id, product_id, product_name, product_image, quantity, price
		FROM order_items
		WHERE order_id = $1;
	`

	rows, err := tx.Query(ctx, query, orderID)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to query order_items",
			zap.Error(err),
		)

		return nil, err
	}
	defer rows.Close()

	var result []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.ProductImage,
			&item.Quantity,
			&item.Price,
		); err != nil {
			span.RecordError(err)

			return nil, err
		}

		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		mylogger.Error(
			ctx,
			r.logger,
			"Rows error",
			zap.Error(err),
		)

		return nil, err
	}

	return result, nil
}
