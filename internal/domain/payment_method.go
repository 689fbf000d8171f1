package domain

import (
	"strings"
	"time"
)

type PaymentType string

const (
	PaymentTypeCashOnDelivery PaymentType = "cash_on_delivery"
	PaymentTypeAdvancePayment PaymentType = "advance_payment"
)

type PaymentMethod struct {
	ID            int64       `json:"id" db:"id"`
	Name          string      `json:"name" db:"name"`
	Type          PaymentType `json:"type" db:"type"`
	MethodKey     string      `json:"method_key" db:"method_key"`
	IsEnabled     bool        `json:"is_enabled" db:"is_enabled"`
	AccountNumber string      `json:"account_number,omitempty" db:"account_number"`
	QRCodeUrl     string      `json:"qr_code_url,omitempty" db:"qr_code_url"`
	DisplayOrder  int32       `json:"display_order" db:"display_order"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// DeriveMethodKey lowercases the display name and collapses whitespace runs
// into underscores: "PayPal" -> "paypal", "Pay Pal" -> "pay_pal".
func DeriveMethodKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}
