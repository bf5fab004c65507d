package billing

import (
	"context"
	"fmt"
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

const (
	dateLayout = "2006-01-02"
	// maxNumberProbes bounds the search for a free number when the count-based
	// sequence collides with numbers left behind by deleted invoices.
	maxNumberProbes = 1000
)

// InvoiceUseCase creates, edits and moves invoices through their lifecycle.
type InvoiceUseCase struct {
	txRunner     BillingTxRunner
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	profileRepo  repository.BusinessProfileRepository
	summary      SummaryInvalidator
	metrics      InvoiceMetrics
	log          zerolog.Logger
	now          func() time.Time
}

// InvoiceDeps groups the collaborators of InvoiceUseCase. Summary and Metrics may be nil.
type InvoiceDeps struct {
	TxRunner     BillingTxRunner
	InvoiceRepo  repository.InvoiceRepository
	CustomerRepo repository.CustomerRepository
	ProfileRepo  repository.BusinessProfileRepository
	Summary      SummaryInvalidator
	Metrics      InvoiceMetrics
	Logger       zerolog.Logger
	Clock        func() time.Time
}

// NewInvoiceUseCase builds the use case.
func NewInvoiceUseCase(deps InvoiceDeps) *InvoiceUseCase {
	uc := &InvoiceUseCase{
		txRunner:     deps.TxRunner,
		invoiceRepo:  deps.InvoiceRepo,
		customerRepo: deps.CustomerRepo,
		profileRepo:  deps.ProfileRepo,
		summary:      deps.Summary,
		metrics:      deps.Metrics,
		log:          deps.Logger,
		now:          deps.Clock,
	}
	if uc.summary == nil {
		uc.summary = noopInvalidator{}
	}
	if uc.metrics == nil {
		uc.metrics = noopMetrics{}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc
}

// Calculate previews the totals of a request without storing anything.
func (uc *InvoiceUseCase) Calculate(ctx context.Context, userID string, in dto.InvoiceRequest) (*dto.TotalsResponse, error) {
	if err := validateInvoiceItems(in.Items); err != nil {
		return nil, err
	}
	seller, buyer, err := uc.parties(ctx, userID, in.CustomerID)
	if err != nil {
		return nil, err
	}
	supply, _ := resolveSupply(seller, buyer, in.PlaceOfSupply)
	return PreviewTotals(in.Items, supply)
}

// Create stores a draft invoice with the next number of the user.
// Number allocation and inserts share one transaction guarded by a per-user lock.
func (uc *InvoiceUseCase) Create(ctx context.Context, userID string, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := validateInvoiceItems(in.Items); err != nil {
		return nil, err
	}
	invoiceDate, dueDate, err := uc.parseDates(in)
	if err != nil {
		return nil, err
	}
	seller, buyer, err := uc.parties(ctx, userID, in.CustomerID)
	if err != nil {
		return nil, err
	}

	supply, place := resolveSupply(seller, buyer, in.PlaceOfSupply)
	totals := gst.CalculateInvoiceTotals(lineItems(in.Items), supply.IsInterState())

	now := uc.now()
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		UserID:        userID,
		CustomerID:    buyer.ID,
		InvoiceDate:   invoiceDate,
		DueDate:       dueDate,
		Status:        entity.InvoiceStatusDraft,
		SupplyType:    string(supply),
		PlaceOfSupply: place,
		Notes:         strings.TrimSpace(in.Notes),
		CustomerName:  buyer.Name,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	applyTotals(inv, totals)
	items := buildItems(inv.ID, in.Items, totals)

	err = uc.txRunner.RunBilling(ctx, func(_ repository.CustomerRepository, invoiceRepo repository.InvoiceRepository) error {
		if err := invoiceRepo.LockUserSequence(ctx, userID); err != nil {
			return err
		}
		number, err := uc.allocateNumber(ctx, invoiceRepo, userID, seller.InvoicePrefix)
		if err != nil {
			return err
		}
		inv.InvoiceNumber = number
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		return invoiceRepo.CreateItems(ctx, items)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.InvoiceCreated(inv.SupplyType, inv.GrandTotal)
	uc.invalidate(ctx, userID)
	uc.log.Info().
		Str("user_id", userID).
		Str("invoice_number", inv.InvoiceNumber).
		Str("supply_type", inv.SupplyType).
		Str("grand_total", inv.GrandTotal.StringFixed(2)).
		Msg("invoice created")

	return toInvoiceResponse(inv, items, buyer), nil
}

// Get returns an invoice with its lines and customer.
func (uc *InvoiceUseCase) Get(ctx context.Context, userID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.invoiceRepo.GetItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	buyer, err := uc.customerRepo.GetByID(ctx, userID, inv.CustomerID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items, buyer), nil
}

// List returns a page of invoice summaries, newest first.
func (uc *InvoiceUseCase) List(ctx context.Context, userID, status, customerID string, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && !isKnownStatus(status) {
		return nil, domain.NewValidationError("status", "is not a known invoice status")
	}
	page.DefaultPage()
	list, total, err := uc.invoiceRepo.List(ctx, repository.InvoiceFilter{
		UserID:     userID,
		Status:     status,
		CustomerID: customerID,
		Search:     strings.TrimSpace(page.Search),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceListResponse{
		Items: make([]dto.InvoiceSummaryResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, inv := range list {
		out.Items = append(out.Items, ToInvoiceSummary(inv))
	}
	return out, nil
}

// Update replaces the lines and header of a draft invoice. The number is kept.
func (uc *InvoiceUseCase) Update(ctx context.Context, userID, id string, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !inv.IsEditable() {
		return nil, fmt.Errorf("%w: only draft invoices can be edited", domain.ErrConflict)
	}
	if err := validateInvoiceItems(in.Items); err != nil {
		return nil, err
	}
	invoiceDate, dueDate, err := uc.parseDates(in)
	if err != nil {
		return nil, err
	}
	if in.CustomerID == "" {
		in.CustomerID = inv.CustomerID
	}
	seller, buyer, err := uc.parties(ctx, userID, in.CustomerID)
	if err != nil {
		return nil, err
	}

	supply, place := resolveSupply(seller, buyer, in.PlaceOfSupply)
	totals := gst.CalculateInvoiceTotals(lineItems(in.Items), supply.IsInterState())

	inv.CustomerID = buyer.ID
	inv.CustomerName = buyer.Name
	inv.InvoiceDate = invoiceDate
	inv.DueDate = dueDate
	inv.SupplyType = string(supply)
	inv.PlaceOfSupply = place
	inv.Notes = strings.TrimSpace(in.Notes)
	inv.UpdatedAt = uc.now()
	applyTotals(inv, totals)
	items := buildItems(inv.ID, in.Items, totals)

	err = uc.txRunner.RunBilling(ctx, func(_ repository.CustomerRepository, invoiceRepo repository.InvoiceRepository) error {
		if err := invoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		if err := invoiceRepo.DeleteItems(ctx, inv.ID); err != nil {
			return err
		}
		return invoiceRepo.CreateItems(ctx, items)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, userID)
	return toInvoiceResponse(inv, items, buyer), nil
}

// UpdateStatus moves an invoice along draft → sent → paid, or cancels it.
// Paid invoices cannot be cancelled; invalid moves yield ErrConflict.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, userID, id, status string) (*dto.InvoiceSummaryResponse, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !isKnownStatus(status) {
		return nil, domain.NewValidationError("status", "is not a known invoice status")
	}
	inv, err := uc.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == status {
		s := ToInvoiceSummary(inv)
		return &s, nil
	}
	if !inv.CanTransition(status) {
		return nil, fmt.Errorf("%w: cannot move invoice from %s to %s", domain.ErrConflict, inv.Status, status)
	}
	if err := uc.invoiceRepo.UpdateStatus(ctx, userID, id, inv.Status, status); err != nil {
		return nil, err
	}
	uc.metrics.InvoiceStatusChanged(status)
	uc.invalidate(ctx, userID)
	uc.log.Info().Str("invoice_number", inv.InvoiceNumber).Str("from", inv.Status).Str("to", status).Msg("invoice status changed")

	inv.Status = status
	s := ToInvoiceSummary(inv)
	return &s, nil
}

// Delete removes a draft or cancelled invoice.
func (uc *InvoiceUseCase) Delete(ctx context.Context, userID, id string) error {
	inv, err := uc.load(ctx, userID, id)
	if err != nil {
		return err
	}
	if !inv.IsDeletable() {
		return fmt.Errorf("%w: only draft or cancelled invoices can be deleted", domain.ErrConflict)
	}
	if err := uc.invoiceRepo.Delete(ctx, userID, id, inv.Status); err != nil {
		return err
	}
	uc.invalidate(ctx, userID)
	return nil
}

func (uc *InvoiceUseCase) load(ctx context.Context, userID, id string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// parties loads the seller profile and the buyer, which must belong to the user.
func (uc *InvoiceUseCase) parties(ctx context.Context, userID, customerID string) (*entity.BusinessProfile, *entity.Customer, error) {
	if customerID == "" {
		return nil, nil, domain.NewValidationError("customer_id", "is required")
	}
	seller, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if seller == nil {
		return nil, nil, domain.ErrProfileRequired
	}
	buyer, err := uc.customerRepo.GetByID(ctx, userID, customerID)
	if err != nil {
		return nil, nil, err
	}
	if buyer == nil {
		return nil, nil, fmt.Errorf("customer %s: %w", customerID, domain.ErrNotFound)
	}
	return seller, buyer, nil
}

// allocateNumber takes count+1 and skips numbers that already exist.
func (uc *InvoiceUseCase) allocateNumber(ctx context.Context, repo repository.InvoiceRepository, userID, prefix string) (string, error) {
	gen := gst.NewInvoiceNumberGenerator(repo).WithClock(uc.now)
	seq, err := gen.NextSequence(ctx, userID)
	if err != nil {
		return "", err
	}
	at := gen.Now()
	for i := 0; i < maxNumberProbes; i++ {
		number := gst.FormatInvoiceNumber(prefix, at, seq+i)
		taken, err := repo.NumberExists(ctx, userID, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", fmt.Errorf("%w: no free invoice number after %d attempts", domain.ErrConflict, maxNumberProbes)
}

func (uc *InvoiceUseCase) parseDates(in dto.InvoiceRequest) (time.Time, *time.Time, error) {
	invoiceDate := truncateDay(uc.now())
	if s := strings.TrimSpace(in.InvoiceDate); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return time.Time{}, nil, domain.NewValidationError("invoice_date", "must be YYYY-MM-DD")
		}
		invoiceDate = t
	}
	s := strings.TrimSpace(in.DueDate)
	if s == "" {
		return invoiceDate, nil, nil
	}
	due, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, nil, domain.NewValidationError("due_date", "must be YYYY-MM-DD")
	}
	if due.Before(invoiceDate) {
		return time.Time{}, nil, domain.NewValidationError("due_date", "must not be before invoice_date")
	}
	return invoiceDate, &due, nil
}

func (uc *InvoiceUseCase) invalidate(ctx context.Context, userID string) {
	if err := uc.summary.Invalidate(ctx, userID); err != nil {
		uc.log.Warn().Err(err).Str("user_id", userID).Msg("dashboard cache invalidation failed")
	}
}

// resolveSupply picks the buyer state from the explicit place of supply, the
// customer state, or the customer GSTIN, in that order. Without any of them the
// sale is treated as local.
func resolveSupply(seller *entity.BusinessProfile, buyer *entity.Customer, placeOfSupply string) (gst.SupplyType, string) {
	place := strings.TrimSpace(placeOfSupply)
	if place == "" && buyer != nil {
		place = buyer.State
		if place == "" {
			place, _ = gst.StateFromGSTIN(buyer.GSTIN)
		}
	}
	if place == "" {
		place = seller.State
	}
	return gst.GetGstType(seller.State, place), place
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isKnownStatus(s string) bool {
	switch s {
	case entity.InvoiceStatusDraft, entity.InvoiceStatusSent, entity.InvoiceStatusPaid, entity.InvoiceStatusCancelled:
		return true
	}
	return false
}

func lineItems(items []dto.InvoiceItemRequest) []gst.LineItem {
	out := make([]gst.LineItem, len(items))
	for i, it := range items {
		out[i] = gst.LineItem{Quantity: it.Quantity, Rate: it.Rate, GSTRate: it.GSTRate}
	}
	return out
}

func applyTotals(inv *entity.Invoice, totals gst.InvoiceTotals) {
	inv.Subtotal = totals.Subtotal
	inv.CGST = totals.TotalCGST
	inv.SGST = totals.TotalSGST
	inv.IGST = totals.TotalIGST
	inv.GrandTotal = totals.GrandTotal
}

func buildItems(invoiceID string, in []dto.InvoiceItemRequest, totals gst.InvoiceTotals) []*entity.InvoiceItem {
	items := make([]*entity.InvoiceItem, 0, len(in))
	for i, r := range totals.Items {
		items = append(items, &entity.InvoiceItem{
			ID:          uuid.New().String(),
			InvoiceID:   invoiceID,
			Position:    i + 1,
			Description: strings.TrimSpace(in[i].Description),
			HSNCode:     strings.TrimSpace(in[i].HSNCode),
			Unit:        strings.TrimSpace(in[i].Unit),
			Quantity:    r.Quantity,
			Rate:        r.Rate,
			GSTRate:     r.GSTRate,
			Amount:      r.Amount,
			CGST:        r.CGST,
			SGST:        r.SGST,
			IGST:        r.IGST,
			Total:       r.Total,
		})
	}
	return items
}

func toInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem, buyer *entity.Customer) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		InvoiceDate:    inv.InvoiceDate.Format(dateLayout),
		Status:         inv.Status,
		PlaceOfSupply:  inv.PlaceOfSupply,
		Notes:          inv.Notes,
		TotalsResponse: storedTotalsResponse(inv, items),
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
	if inv.DueDate != nil {
		out.DueDate = inv.DueDate.Format(dateLayout)
	}
	if buyer != nil {
		out.Customer = ToCustomerResponse(buyer)
	}
	return out
}

// ToInvoiceSummary maps an invoice to a listing row.
func ToInvoiceSummary(inv *entity.Invoice) dto.InvoiceSummaryResponse {
	return dto.InvoiceSummaryResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate.Format(dateLayout),
		Status:        inv.Status,
		CustomerID:    inv.CustomerID,
		CustomerName:  inv.CustomerName,
		GrandTotal:    inv.GrandTotal.Round(2),
	}
}
