package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Product struct {
	ID                string     `json:"product_id" db:"product_id"`
	Name              string     `json:"name" db:"name"`
	Description       string     `json:"description" db:"description"`
	Price             float64    `json:"price" db:"price"`
	OriginalPrice     *float64   `json:"original_price,omitempty" db:"original_price"`
	Unit              string     `json:"unit" db:"unit"` // "kg", "litre", "pièce"...
	StockQuantity     int        `json:"stock_quantity" db:"stock_quantity"`
	LowStockThreshold int        `json:"low_stock_threshold" db:"low_stock_threshold"`
	CategoryID        gocql.UUID `json:"category_id" db:"category_id"`
	CategoryName      string     `json:"category_name,omitempty"`
	ImageURL          string     `json:"image_url,omitempty" db:"image_url"`
	IsActive          bool       `json:"is_active" db:"is_active"`
	CreatedAt         *time.Time `json:"created_at,omitempty" db:"created_at"`
}
