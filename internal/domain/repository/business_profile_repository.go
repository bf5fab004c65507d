package repository

import (
	"context"

	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
)

// BusinessProfileRepository is the persistence port for the seller profile (one per user).
type BusinessProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*entity.BusinessProfile, error)
	// Upsert inserts or replaces the profile keyed by user_id. LogoPath is left untouched.
	Upsert(ctx context.Context, profile *entity.BusinessProfile) error
	UpdateLogo(ctx context.Context, userID, logoPath string) error
}
