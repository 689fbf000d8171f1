package domain

import "time"

type OrderPlacedEvent struct {
	OrderID      int64            `json:"order_id"`
	OrderNumber  string           `json:"order_number"`
	CustomerName string           `json:"customer_name"`
	Total        int64            `json:"total"`
	Items        []OrderItemEvent `json:"items"`
	PlacedAt     time.Time        `json:"placed_at"`
}

type OrderItemEvent struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
	Price     int64 `json:"price"`
}

type OrderStatusChangedEvent struct {
	OrderID     int64       `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	Status      OrderStatus `json:"status"`
	ChangedAt   time.Time   `json:"changed_at"`
}

type ProductCreatedEvent struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
}
