package models

type Favorites struct {
	UserID string    `json:"user_id"`
	Items  []Product `json:"items"`
}
