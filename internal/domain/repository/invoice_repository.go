package repository

import (
	"context"

	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
)

// InvoiceFilter scopes an invoice listing to one user.
type InvoiceFilter struct {
	UserID     string
	Status     string
	CustomerID string
	Search     string // invoice number or customer name
	Limit      int
	Offset     int
}

// InvoiceRepository is the persistence port for invoices and their items.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItems(ctx context.Context, items []*entity.InvoiceItem) error
	// Update rewrites header fields and totals. The invoice number is never changed.
	// Writes below only apply while the stored status still equals the status the
	// caller read (invoice.Status, from, status); otherwise they return ErrConflict.
	Update(ctx context.Context, invoice *entity.Invoice) error
	UpdateStatus(ctx context.Context, userID, id, from, to string) error
	Delete(ctx context.Context, userID, id, status string) error
	DeleteItems(ctx context.Context, invoiceID string) error
	GetByID(ctx context.Context, userID, id string) (*entity.Invoice, error)
	GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
	List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, int, error)

	// CountInvoicesForUser counts every invoice the user has ever created.
	CountInvoicesForUser(ctx context.Context, userID string) (int, error)
	NumberExists(ctx context.Context, userID, number string) (bool, error)
	// LockUserSequence serializes number allocation for one user until the
	// surrounding transaction ends. Outside a transaction it is a no-op.
	LockUserSequence(ctx context.Context, userID string) error
}
