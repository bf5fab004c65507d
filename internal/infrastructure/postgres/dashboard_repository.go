package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
	"github.com/jhoicas/gst-billing-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo implements the read-only dashboard queries.
type DashboardRepo struct {
	q        Querier
	invoices *InvoiceRepo
	customer *CustomerRepo
}

// NewDashboardRepository builds the adapter over the pool.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q, invoices: NewInvoiceRepository(q), customer: NewCustomerRepository(q)}
}

// GetTotals uses COALESCE so an empty period yields zeros.
func (r *DashboardRepo) GetTotals(ctx context.Context, userID string, from, to time.Time) (repository.BillingTotals, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(grand_total), 0),
		       COALESCE(SUM(grand_total) FILTER (WHERE status = 'paid'), 0),
		       COALESCE(SUM(cgst + sgst + igst), 0)
		FROM invoices
		WHERE user_id = $1 AND status <> 'cancelled'`
	args := []any{userID}
	if !from.IsZero() {
		args = append(args, from)
		query += fmt.Sprintf(" AND invoice_date >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += fmt.Sprintf(" AND invoice_date < $%d", len(args))
	}

	var t repository.BillingTotals
	if err := r.q.QueryRow(ctx, query, args...).Scan(&t.InvoiceCount, &t.Billed, &t.Paid, &t.Tax); err != nil {
		return repository.BillingTotals{}, fmt.Errorf("dashboard totals: %w", err)
	}
	return t, nil
}

func (r *DashboardRepo) CountCustomers(ctx context.Context, userID string) (int, error) {
	return r.customer.CountForUser(ctx, userID)
}

func (r *DashboardRepo) RecentInvoices(ctx context.Context, userID string, limit int) ([]*entity.Invoice, error) {
	return r.invoices.queryInvoices(ctx,
		invoiceSelect+` WHERE i.user_id = $1 ORDER BY i.created_at DESC LIMIT $2`, userID, limit)
}
