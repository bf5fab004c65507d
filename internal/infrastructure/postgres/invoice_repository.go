package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
	"github.com/jhoicas/gst-billing-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implements InvoiceRepository (pool or tx).
type InvoiceRepo struct {
	q    Querier
	inTx bool
}

// NewInvoiceRepository builds the adapter over the pool.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

func newTxInvoiceRepository(tx pgx.Tx) *InvoiceRepo {
	return &InvoiceRepo{q: tx, inTx: true}
}

const invoiceSelect = `
	SELECT i.id, i.user_id, i.customer_id, i.invoice_number, i.invoice_date, i.due_date,
	       i.status, i.supply_type, i.place_of_supply, i.subtotal, i.cgst, i.sgst, i.igst,
	       i.grand_total, i.notes, c.name, i.created_at, i.updated_at
	FROM invoices i
	JOIN customers c ON c.id = i.customer_id`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.CustomerID, &inv.InvoiceNumber, &inv.InvoiceDate, &inv.DueDate,
		&inv.Status, &inv.SupplyType, &inv.PlaceOfSupply, &inv.Subtotal, &inv.CGST, &inv.SGST, &inv.IGST,
		&inv.GrandTotal, &inv.Notes, &inv.CustomerName, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	const query = `
		INSERT INTO invoices (id, user_id, customer_id, invoice_number, invoice_date, due_date,
		                      status, supply_type, place_of_supply, subtotal, cgst, sgst, igst,
		                      grand_total, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.UserID, inv.CustomerID, inv.InvoiceNumber, inv.InvoiceDate, inv.DueDate,
		inv.Status, inv.SupplyType, inv.PlaceOfSupply, inv.Subtotal, inv.CGST, inv.SGST, inv.IGST,
		inv.GrandTotal, inv.Notes, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number %s already exists: %w", inv.InvoiceNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItems inserts all lines in one round trip.
func (r *InvoiceRepo) CreateItems(ctx context.Context, items []*entity.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(items))
	for _, it := range items {
		rows = append(rows, []any{
			it.ID, it.InvoiceID, it.Position, it.Description, it.HSNCode, it.Unit,
			it.Quantity, it.Rate, it.GSTRate, it.Amount, it.CGST, it.SGST, it.IGST, it.Total,
		})
	}
	_, err := r.copyFrom(ctx, rows)
	if err != nil {
		return fmt.Errorf("insert invoice items: %w", err)
	}
	return nil
}

// copyFrom uses COPY when the querier supports it and falls back to INSERTs.
func (r *InvoiceRepo) copyFrom(ctx context.Context, rows [][]any) (int64, error) {
	columns := []string{"id", "invoice_id", "position", "description", "hsn_code", "unit",
		"quantity", "rate", "gst_rate", "amount", "cgst", "sgst", "igst", "total"}
	if copier, ok := r.q.(interface {
		CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error)
	}); ok {
		return copier.CopyFrom(ctx, pgx.Identifier{"invoice_items"}, columns, pgx.CopyFromRows(rows))
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(`INSERT INTO invoice_items (%s) VALUES (%s)`,
		strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	var n int64
	for _, row := range rows {
		if _, err := r.q.Exec(ctx, query, row...); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Update only matches while the stored status still equals inv.Status.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	const query = `
		UPDATE invoices
		SET customer_id = $3, invoice_date = $4, due_date = $5, supply_type = $6,
		    place_of_supply = $7, subtotal = $8, cgst = $9, sgst = $10, igst = $11,
		    grand_total = $12, notes = $13, updated_at = $14
		WHERE user_id = $1 AND id = $2 AND status = $15`
	tag, err := r.q.Exec(ctx, query,
		inv.UserID, inv.ID, inv.CustomerID, inv.InvoiceDate, inv.DueDate, inv.SupplyType,
		inv.PlaceOfSupply, inv.Subtotal, inv.CGST, inv.SGST, inv.IGST,
		inv.GrandTotal, inv.Notes, inv.UpdatedAt, inv.Status,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.staleOrMissing(ctx, inv.UserID, inv.ID)
	}
	return nil
}

func (r *InvoiceRepo) UpdateStatus(ctx context.Context, userID, id, from, to string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE invoices SET status = $4, updated_at = now() WHERE user_id = $1 AND id = $2 AND status = $3`,
		userID, id, from, to)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.staleOrMissing(ctx, userID, id)
	}
	return nil
}

// Delete removes the invoice; items go with it through ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(ctx context.Context, userID, id, status string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE user_id = $1 AND id = $2 AND status = $3`, userID, id, status)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.staleOrMissing(ctx, userID, id)
	}
	return nil
}

// staleOrMissing explains a write that matched no row: ErrNotFound when the
// invoice is gone, ErrConflict when its status moved since it was read.
func (r *InvoiceRepo) staleOrMissing(ctx context.Context, userID, id string) error {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE user_id = $1 AND id = $2)`, userID, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check invoice: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: invoice status changed concurrently", domain.ErrConflict)
}

func (r *InvoiceRepo) DeleteItems(ctx context.Context, invoiceID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, userID, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, invoiceSelect+` WHERE i.user_id = $1 AND i.id = $2`, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepo) GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	const query = `
		SELECT id, invoice_id, position, description, hsn_code, unit, quantity, rate, gst_rate,
		       amount, cgst, sgst, igst, total
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	var list []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Position, &it.Description, &it.HSNCode, &it.Unit,
			&it.Quantity, &it.Rate, &it.GSTRate, &it.Amount, &it.CGST, &it.SGST, &it.IGST, &it.Total); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List returns newest invoices first. The total ignores limit and offset.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	conds := []string{"i.user_id = $1"}
	args := []any{f.UserID}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("i.status = $%d", len(args)))
	}
	if f.CustomerID != "" {
		args = append(args, f.CustomerID)
		conds = append(conds, fmt.Sprintf("i.customer_id = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, likePattern(f.Search))
		conds = append(conds, fmt.Sprintf("(i.invoice_number ILIKE $%d OR c.name ILIKE $%d)", len(args), len(args)))
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM invoices i JOIN customers c ON c.id = i.customer_id` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := invoiceSelect + where +
		fmt.Sprintf(` ORDER BY i.invoice_date DESC, i.created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	list, err := r.queryInvoices(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *InvoiceRepo) queryInvoices(ctx context.Context, query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func (r *InvoiceRepo) CountInvoicesForUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

func (r *InvoiceRepo) NumberExists(ctx context.Context, userID, number string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE user_id = $1 AND invoice_number = $2)`,
		userID, number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check invoice number: %w", err)
	}
	return exists, nil
}

// LockUserSequence takes a transaction-scoped advisory lock keyed on the user.
func (r *InvoiceRepo) LockUserSequence(ctx context.Context, userID string) error {
	if !r.inTx {
		return nil
	}
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
		return fmt.Errorf("lock invoice sequence: %w", err)
	}
	return nil
}
