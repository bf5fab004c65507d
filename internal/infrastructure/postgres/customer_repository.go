package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
	"github.com/jhoicas/gst-billing-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implements CustomerRepository (pool or tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository builds the adapter over a pool or a tx.
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, user_id, name, email, phone, gstin, address, city, state, pincode, created_at, updated_at`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.GSTIN,
		&c.Address, &c.City, &c.State, &c.Pincode, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.UserID, c.Name, c.Email, c.Phone, c.GSTIN,
		c.Address, c.City, c.State, c.Pincode, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, userID, id string) (*entity.Customer, error) {
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE user_id = $1 AND id = $2`, userID, id)
}

func (r *CustomerRepo) GetByGSTIN(ctx context.Context, userID, gstin string) (*entity.Customer, error) {
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE user_id = $1 AND gstin = $2`, userID, gstin)
}

func (r *CustomerRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// List orders by name. The total ignores limit and offset.
func (r *CustomerRepo) List(ctx context.Context, f repository.CustomerFilter) ([]*entity.Customer, int, error) {
	where := `WHERE user_id = $1`
	args := []any{f.UserID}
	if f.Search != "" {
		args = append(args, likePattern(f.Search))
		where += ` AND (name ILIKE $2 OR email ILIKE $2 OR phone ILIKE $2 OR gstin ILIKE $2)`
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM customers `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM customers %s ORDER BY name, id LIMIT $%d OFFSET $%d`,
		customerColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Customer, 0, f.Limit)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE customers
		SET name = $3, email = $4, phone = $5, gstin = $6, address = $7,
		    city = $8, state = $9, pincode = $10, updated_at = $11
		WHERE user_id = $1 AND id = $2`,
		c.UserID, c.ID, c.Name, c.Email, c.Phone, c.GSTIN, c.Address,
		c.City, c.State, c.Pincode, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CustomerRepo) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM customers WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CustomerRepo) CountInvoices(ctx context.Context, userID, customerID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE user_id = $1 AND customer_id = $2`,
		userID, customerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count customer invoices: %w", err)
	}
	return n, nil
}

func (r *CustomerRepo) CountForUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}
