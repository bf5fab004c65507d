package billing

import (
	"context"
	"fmt"
	"net/mail"
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

// CustomerUseCase manages the buyers of a user.
type CustomerUseCase struct {
	repo    repository.CustomerRepository
	summary SummaryInvalidator
	log     zerolog.Logger
	now     func() time.Time
}

// NewCustomerUseCase builds the use case. summary may be nil.
func NewCustomerUseCase(repo repository.CustomerRepository, summary SummaryInvalidator, log zerolog.Logger) *CustomerUseCase {
	if summary == nil {
		summary = noopInvalidator{}
	}
	return &CustomerUseCase{repo: repo, summary: summary, log: log, now: time.Now}
}

// Create stores a customer. A GSTIN already used by another customer yields ErrDuplicate.
func (uc *CustomerUseCase) Create(ctx context.Context, userID string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c := customerFromRequest(in)
	if err := validateCustomer(c); err != nil {
		return nil, err
	}
	if err := uc.checkGSTINFree(ctx, userID, c.GSTIN, ""); err != nil {
		return nil, err
	}
	now := uc.now()
	c.ID = uuid.New().String()
	c.UserID = userID
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, userID)
	return ToCustomerResponse(c), nil
}

// Get returns one customer of the user.
func (uc *CustomerUseCase) Get(ctx context.Context, userID, id string) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponse(c), nil
}

// List returns a page of customers matching the search text.
func (uc *CustomerUseCase) List(ctx context.Context, userID string, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, repository.CustomerFilter{
		UserID: userID,
		Search: strings.TrimSpace(page.Search),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.CustomerListResponse{
		Items: make([]dto.CustomerResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, c := range list {
		out.Items = append(out.Items, *ToCustomerResponse(c))
	}
	return out, nil
}

// Update replaces the editable fields of a customer.
func (uc *CustomerUseCase) Update(ctx context.Context, userID, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	current, err := uc.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	c := customerFromRequest(in)
	if err := validateCustomer(c); err != nil {
		return nil, err
	}
	if err := uc.checkGSTINFree(ctx, userID, c.GSTIN, id); err != nil {
		return nil, err
	}
	c.ID = current.ID
	c.UserID = userID
	c.CreatedAt = current.CreatedAt
	c.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	// recent invoices on the dashboard carry the customer name
	uc.invalidate(ctx, userID)
	return ToCustomerResponse(c), nil
}

// Delete removes a customer. Customers referenced by invoices yield ErrConflict.
func (uc *CustomerUseCase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uc.load(ctx, userID, id); err != nil {
		return err
	}
	n, err := uc.repo.CountInvoices(ctx, userID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: customer has %d invoices", domain.ErrConflict, n)
	}
	if err := uc.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	uc.invalidate(ctx, userID)
	return nil
}

func (uc *CustomerUseCase) load(ctx context.Context, userID, id string) (*entity.Customer, error) {
	c, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (uc *CustomerUseCase) checkGSTINFree(ctx context.Context, userID, gstin, selfID string) error {
	if gstin == "" {
		return nil
	}
	existing, err := uc.repo.GetByGSTIN(ctx, userID, gstin)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.ErrDuplicate
	}
	return nil
}

func (uc *CustomerUseCase) invalidate(ctx context.Context, userID string) {
	if err := uc.summary.Invalidate(ctx, userID); err != nil {
		uc.log.Warn().Err(err).Str("user_id", userID).Msg("dashboard cache invalidation failed")
	}
}

func customerFromRequest(in dto.CustomerRequest) *entity.Customer {
	c := &entity.Customer{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		GSTIN:   gst.NormalizeTaxID(in.GSTIN),
		Address: strings.TrimSpace(in.Address),
		City:    strings.TrimSpace(in.City),
		State:   strings.TrimSpace(in.State),
		Pincode: strings.TrimSpace(in.Pincode),
	}
	if c.State == "" && c.GSTIN != "" {
		c.State, _ = gst.StateFromGSTIN(c.GSTIN)
	}
	return c
}

func validateCustomer(c *entity.Customer) error {
	if c.Name == "" {
		return domain.NewValidationError("name", "is required")
	}
	if c.GSTIN != "" && !gst.ValidateGSTNumber(c.GSTIN) {
		return domain.NewValidationError("gstin", "is not a valid GSTIN")
	}
	if c.Phone != "" && !gst.ValidatePhone(c.Phone) {
		return domain.NewValidationError("phone", "must be a 10 digit mobile number")
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return domain.NewValidationError("email", "is not a valid address")
		}
	}
	return nil
}

// ToCustomerResponse maps the entity to its DTO.
func ToCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		GSTIN:     c.GSTIN,
		Address:   c.Address,
		City:      c.City,
		State:     c.State,
		Pincode:   c.Pincode,
		CreatedAt: c.CreatedAt,
	}
}
