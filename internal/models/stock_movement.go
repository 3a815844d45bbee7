package models

import (
	"time"

	"github.com/gocql/gocql"
)

// StockMovement trace chaque variation de stock pour l'audit admin
type StockMovement struct {
	ID        gocql.UUID `json:"id"`
	ProductID string     `json:"product_id"`
	Type      string     `json:"type"` // "restock", "adjustment"
	Quantity  int        `json:"quantity"`
	PrevStock int        `json:"prev_stock"`
	NewStock  int        `json:"new_stock"`
	Reason    string     `json:"reason"`
	UserID    string     `json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
}
