package models

import "github.com/gocql/gocql"

type Address struct {
	ID          gocql.UUID `json:"id"`
	UserID      string     `json:"user_id"`
	AddressType string     `json:"address_type"` // "home", "office", "other"
	FullAddress string     `json:"full_address"`
	Landmark    string     `json:"landmark,omitempty"`
	Pincode     string     `json:"pincode"`
	IsDefault   bool       `json:"is_default"`
}
