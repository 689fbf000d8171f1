package repository

import "errors"

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrOrderNotFound         = errors.New("order not found")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrMethodKeyTaken        = errors.New("method key already exists")
	ErrMessageNotFound       = errors.New("message not found")
)
