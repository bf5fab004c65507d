package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
)

// BillingTotals aggregates invoice amounts. Cancelled invoices are excluded.
type BillingTotals struct {
	InvoiceCount int
	Billed       decimal.Decimal
	Paid         decimal.Decimal
	Tax          decimal.Decimal
}

// DashboardRepository holds the read-only queries behind the dashboard.
type DashboardRepository interface {
	// GetTotals sums invoices dated in [from, to). Zero times mean unbounded.
	GetTotals(ctx context.Context, userID string, from, to time.Time) (BillingTotals, error)
	CountCustomers(ctx context.Context, userID string) (int, error)
	RecentInvoices(ctx context.Context, userID string, limit int) ([]*entity.Invoice, error)
}
