package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}

	return false
}

type Order struct {
	ID              int64       `json:"id" db:"id"`
	OrderNumber     string      `json:"order_number" db:"order_number"`
	CustomerName    string      `json:"customer_name" db:"customer_name"`
	Email           string      `json:"email,omitempty" db:"email"`
	Phone           string      `json:"phone" db:"phone"`
	Address         string      `json:"address" db:"address"`
	City            string      `json:"city" db:"city"`
	PostalCode      string      `json:"postal_code,omitempty" db:"postal_code"`
	Country         string      `json:"country,omitempty" db:"country"`
	Notes           string      `json:"notes,omitempty" db:"notes"`
	PaymentMethodID *int64      `json:"payment_method_id,omitempty" db:"payment_method_id"`
	PaymentMethod   string      `json:"payment_method,omitempty"`
	PaymentType     string      `json:"payment_type,omitempty"`
	PaymentProofUrl string      `json:"payment_proof_url,omitempty" db:"payment_proof_url"`
	Subtotal        int64       `json:"subtotal" db:"subtotal"`
	DeliveryCharges int64       `json:"delivery_charges" db:"delivery_charges"`
	Total           int64       `json:"total" db:"total"`
	Status          OrderStatus `json:"status" db:"status"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderItem snapshots name, image and unit price at purchase time; later
// catalog edits must not change placed orders.
type OrderItem struct {
	ID           int64  `json:"id" db:"id"`
	OrderID      int64  `json:"order_id" db:"order_id"`
	ProductID    int64  `json:"product_id" db:"product_id"`
	ProductName  string `json:"product_name" db:"product_name"`
	ProductImage string `json:"product_image" db:"product_image"`
	Quantity     int64  `json:"quantity" db:"quantity"`
	Price        int64  `json:"price" db:"price"`
}

// CalculateTotals derives subtotal from the item snapshots and keeps the
// total = subtotal + delivery invariant.
func (o *Order) CalculateTotals(deliveryCharges int64) {
	var subtotal int64
	for _, item := range o.Items {
		subtotal += item.Price * item.Quantity
	}

	o.Subtotal = subtotal
	o.DeliveryCharges = deliveryCharges
	o.Total = subtotal + deliveryCharges
}
