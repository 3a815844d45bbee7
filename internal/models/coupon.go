package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Coupon struct {
	ID           gocql.UUID `json:"id"`
	Code         string     `json:"code"`
	Description  string     `json:"description,omitempty"`
	DiscountType string     `json:"discount_type"` // "percentage", "flat"
	Value        float64    `json:"discount_value"`
	MinOrder     float64    `json:"min_order_value"`
	MaxDiscount  *float64   `json:"max_discount,omitempty"` // Plafond de réduction
	UsageLimit   int        `json:"usage_limit"`
	UsedCount    int        `json:"used_count"`
	ValidUntil   *time.Time `json:"valid_until,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
}

type CouponValidation struct {
	IsValid      bool    `json:"is_valid"`
	ErrorMessage string  `json:"error_message,omitempty"`
	Discount     float64 `json:"discount"`
	Code         string  `json:"code"`
}
