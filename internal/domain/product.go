package domain

import "time"

type Product struct {
	ID            int64      `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Category      string     `json:"category" db:"category"`
	Price         int64      `json:"price" db:"price"`
	OriginalPrice *int64     `json:"original_price,omitempty" db:"original_price"`
	ImageUrl      string     `json:"image_url" db:"image_url"`
	Badge         *string    `json:"badge,omitempty" db:"badge"`
	Rating        *int16     `json:"rating,omitempty" db:"rating"`
	StockQuantity int64      `json:"stock_quantity" db:"stock_quantity"`
	Description   string     `json:"description" db:"description"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time `json:"-" db:"deleted_at"`
}

type UpdateProductInput struct {
	Name          *string `json:"name"`
	Category      *string `json:"category"`
	Price         *int64  `json:"price"`
	OriginalPrice *int64  `json:"original_price"`
	ImageUrl      *string `json:"image_url"`
	Badge         *string `json:"badge"`
	Rating        *int16  `json:"rating"`
	StockQuantity *int64  `json:"stock_quantity"`
	Description   *string `json:"description"`
}
