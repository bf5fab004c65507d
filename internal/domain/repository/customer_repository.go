package repository

import (
	"context"

	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
)

// CustomerFilter scopes a customer listing to one user.
type CustomerFilter struct {
	UserID string
	Search string // case-insensitive substring on name, email, phone, gstin
	Limit  int
	Offset int
}

// CustomerRepository is the persistence port for Customer. Every read is scoped by user.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, userID, id string) (*entity.Customer, error)
	GetByGSTIN(ctx context.Context, userID, gstin string) (*entity.Customer, error)
	List(ctx context.Context, filter CustomerFilter) ([]*entity.Customer, int, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, userID, id string) error
	// CountInvoices returns how many invoices reference the customer.
	CountInvoices(ctx context.Context, userID, customerID string) (int, error)
	CountForUser(ctx context.Context, userID string) (int, error)
}
