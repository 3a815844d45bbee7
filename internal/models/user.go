package models

import "time"

type User struct {
	ID            string     `json:"user_id"`
	Name          string     `json:"name"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone"`
	PasswordHash  string     `json:"-"`
	IsAdmin       bool       `json:"is_admin,omitempty"`
	LoyaltyPoints int        `json:"loyalty_points"`
	Provider      string     `json:"provider,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
}
