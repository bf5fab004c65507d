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

var _ repository.BusinessProfileRepository = (*BusinessProfileRepo)(nil)

// BusinessProfileRepo implements BusinessProfileRepository.
type BusinessProfileRepo struct {
	q Querier
}

// NewBusinessProfileRepository builds the adapter over a pool or a tx.
func NewBusinessProfileRepository(q Querier) *BusinessProfileRepo {
	return &BusinessProfileRepo{q: q}
}

func (r *BusinessProfileRepo) GetByUserID(ctx context.Context, userID string) (*entity.BusinessProfile, error) {
	const query = `
		SELECT id, user_id, business_name, gstin, pan, address, city, state, pincode,
		       phone, email, logo_path, invoice_prefix, bank_name, account_number, ifsc,
		       upi_id, terms, created_at, updated_at
		FROM business_profiles WHERE user_id = $1`
	var p entity.BusinessProfile
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.BusinessName, &p.GSTIN, &p.PAN, &p.Address, &p.City, &p.State, &p.Pincode,
		&p.Phone, &p.Email, &p.LogoPath, &p.InvoicePrefix, &p.BankName, &p.AccountNumber, &p.IFSC,
		&p.UPIID, &p.Terms, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business profile: %w", err)
	}
	return &p, nil
}

// Upsert keys on user_id; logo_path is owned by UpdateLogo.
func (r *BusinessProfileRepo) Upsert(ctx context.Context, p *entity.BusinessProfile) error {
	const query = `
		INSERT INTO business_profiles (
			id, user_id, business_name, gstin, pan, address, city, state, pincode,
			phone, email, invoice_prefix, bank_name, account_number, ifsc, upi_id, terms,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (user_id) DO UPDATE SET
			business_name  = EXCLUDED.business_name,
			gstin          = EXCLUDED.gstin,
			pan            = EXCLUDED.pan,
			address        = EXCLUDED.address,
			city           = EXCLUDED.city,
			state          = EXCLUDED.state,
			pincode        = EXCLUDED.pincode,
			phone          = EXCLUDED.phone,
			email          = EXCLUDED.email,
			invoice_prefix = EXCLUDED.invoice_prefix,
			bank_name      = EXCLUDED.bank_name,
			account_number = EXCLUDED.account_number,
			ifsc           = EXCLUDED.ifsc,
			upi_id         = EXCLUDED.upi_id,
			terms          = EXCLUDED.terms,
			updated_at     = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.UserID, p.BusinessName, p.GSTIN, p.PAN, p.Address, p.City, p.State, p.Pincode,
		p.Phone, p.Email, p.InvoicePrefix, p.BankName, p.AccountNumber, p.IFSC, p.UPIID, p.Terms,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert business profile: %w", err)
	}
	return nil
}

func (r *BusinessProfileRepo) UpdateLogo(ctx context.Context, userID, logoPath string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE business_profiles SET logo_path = $2, updated_at = now() WHERE user_id = $1`,
		userID, logoPath)
	if err != nil {
		return fmt.Errorf("update logo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileRequired
	}
	return nil
}
