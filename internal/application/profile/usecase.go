// Package profile manages the seller business profile printed on invoices.
package profile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
	"github.com/jhoicas/gst-billing-api/internal/domain/gst"
	"github.com/jhoicas/gst-billing-api/internal/domain/repository"
)

var allowedLogoExt = map[string]string{
	".png":  ".png",
	".jpg":  ".jpg",
	".jpeg": ".jpg",
}

// logoContentExt maps sniffed content types to the stored extension.
var logoContentExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

const sniffLen = 512

// ProfileUseCase reads and writes the business profile.
type ProfileUseCase struct {
	repo          repository.BusinessProfileRepository
	logos         LogoStore
	maxLogoBytes  int64
	defaultPrefix string
	log           zerolog.Logger
	now           func() time.Time
}

// NewProfileUseCase builds the use case. maxLogoBytes caps uploads.
func NewProfileUseCase(repo repository.BusinessProfileRepository, logos LogoStore, maxLogoBytes int64, defaultPrefix string, log zerolog.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		repo:          repo,
		logos:         logos,
		maxLogoBytes:  maxLogoBytes,
		defaultPrefix: gst.NormalizePrefix(defaultPrefix),
		log:           log,
		now:           time.Now,
	}
}

// Get returns the profile or ErrProfileRequired when none was saved yet.
func (uc *ProfileUseCase) Get(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	p, err := uc.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProfileRequired
	}
	return ToProfileResponse(p), nil
}

// Upsert validates and stores the profile. Tax ids are stored normalized.
// When state is empty it is derived from the GSTIN.
func (uc *ProfileUseCase) Upsert(ctx context.Context, userID string, in dto.UpsertProfileRequest) (*dto.ProfileResponse, error) {
	p := &entity.BusinessProfile{
		UserID:        userID,
		BusinessName:  strings.TrimSpace(in.BusinessName),
		GSTIN:         gst.NormalizeTaxID(in.GSTIN),
		PAN:           gst.NormalizeTaxID(in.PAN),
		Address:       strings.TrimSpace(in.Address),
		City:          strings.TrimSpace(in.City),
		State:         strings.TrimSpace(in.State),
		Pincode:       strings.TrimSpace(in.Pincode),
		Phone:         strings.TrimSpace(in.Phone),
		Email:         strings.TrimSpace(in.Email),
		BankName:      strings.TrimSpace(in.BankName),
		AccountNumber: strings.TrimSpace(in.AccountNumber),
		IFSC:          strings.ToUpper(strings.TrimSpace(in.IFSC)),
		UPIID:         strings.TrimSpace(in.UPIID),
		Terms:         strings.TrimSpace(in.Terms),
	}
	if in.InvoicePrefix != "" {
		p.InvoicePrefix = gst.NormalizePrefix(in.InvoicePrefix)
	} else {
		p.InvoicePrefix = uc.defaultPrefix
	}
	if p.State == "" && p.GSTIN != "" {
		p.State, _ = gst.StateFromGSTIN(p.GSTIN)
	}
	if err := validateProfile(p); err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if existing != nil {
		p.ID = existing.ID
		p.LogoPath = existing.LogoPath
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = uuid.New().String()
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if err := uc.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return ToProfileResponse(p), nil
}

// UploadLogo stores a png or jpg logo and replaces the previous one.
func (uc *ProfileUseCase) UploadLogo(ctx context.Context, userID, filename string, size int64, r io.Reader) (*dto.ProfileResponse, error) {
	ext, ok := allowedLogoExt[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return nil, domain.NewValidationError("logo", "must be a png or jpg image")
	}
	if size <= 0 || size > uc.maxLogoBytes {
		return nil, domain.NewValidationError("logo", fmt.Sprintf("must be between 1 byte and %d bytes", uc.maxLogoBytes))
	}
	p, err := uc.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProfileRequired
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read logo: %w", err)
	}
	head = head[:n]
	if logoContentExt[http.DetectContentType(head)] != ext {
		return nil, domain.NewValidationError("logo", "content is not a "+strings.TrimPrefix(ext, ".")+" image")
	}

	body := io.MultiReader(bytes.NewReader(head), r)
	path, err := uc.logos.Save(ctx, userID, ext, io.LimitReader(body, uc.maxLogoBytes))
	if err != nil {
		return nil, fmt.Errorf("save logo: %w", err)
	}
	if err := uc.repo.UpdateLogo(ctx, userID, path); err != nil {
		_ = uc.logos.Remove(path)
		return nil, err
	}
	if p.LogoPath != "" && p.LogoPath != path {
		if err := uc.logos.Remove(p.LogoPath); err != nil {
			uc.log.Warn().Err(err).Str("path", p.LogoPath).Msg("could not remove previous logo")
		}
	}
	p.LogoPath = path
	return ToProfileResponse(p), nil
}

func validateProfile(p *entity.BusinessProfile) error {
	if p.BusinessName == "" {
		return domain.NewValidationError("business_name", "is required")
	}
	if p.State == "" {
		return domain.NewValidationError("state", "is required")
	}
	if p.GSTIN != "" && !gst.ValidateGSTNumber(p.GSTIN) {
		return domain.NewValidationError("gstin", "is not a valid GSTIN")
	}
	if p.PAN != "" && !gst.ValidatePAN(p.PAN) {
		return domain.NewValidationError("pan", "is not a valid PAN")
	}
	if p.Phone != "" && !gst.ValidatePhone(p.Phone) {
		return domain.NewValidationError("phone", "must be a 10 digit mobile number")
	}
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			return domain.NewValidationError("email", "is not a valid address")
		}
	}
	return nil
}

// ToProfileResponse maps the entity to its DTO.
func ToProfileResponse(p *entity.BusinessProfile) *dto.ProfileResponse {
	code, _ := gst.StateCodeFromGSTIN(p.GSTIN)
	return &dto.ProfileResponse{
		ID:            p.ID,
		BusinessName:  p.BusinessName,
		GSTIN:         p.GSTIN,
		PAN:           p.PAN,
		Address:       p.Address,
		City:          p.City,
		State:         p.State,
		StateCode:     code,
		Pincode:       p.Pincode,
		Phone:         p.Phone,
		Email:         p.Email,
		HasLogo:       p.LogoPath != "",
		InvoicePrefix: p.InvoicePrefix,
		BankName:      p.BankName,
		AccountNumber: p.AccountNumber,
		IFSC:          p.IFSC,
		UPIID:         p.UPIID,
		Terms:         p.Terms,
		UpdatedAt:     p.UpdatedAt,
	}
}
