package entity

import "time"

// User statuses.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User is an account holder. Every customer, invoice and profile belongs to one user.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Status       string // active, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
