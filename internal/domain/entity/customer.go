package entity

import "time"

// Customer is a buyer billed by a user.
type Customer struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	Phone     string
	GSTIN     string // empty for B2C customers
	Address   string
	City      string
	State     string
	Pincode   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
