// Package analytics builds the dashboard figures of a user.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/gst-billing-api/internal/application/billing"
	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/domain/repository"
)

const dashboardRecentInvoices = 5

// SummaryCache stores computed summaries. A miss returns (nil, nil).
type SummaryCache interface {
	Get(ctx context.Context, userID string) (*dto.DashboardSummaryDTO, error)
	Set(ctx context.Context, userID string, summary *dto.DashboardSummaryDTO) error
}

// DashboardUseCase builds the summary shown on the dashboard.
type DashboardUseCase struct {
	repo  repository.DashboardRepository
	cache SummaryCache
	log   zerolog.Logger
	now   func() time.Time
}

// NewDashboardUseCase builds the use case. cache may be nil.
func NewDashboardUseCase(repo repository.DashboardRepository, cache SummaryCache, log zerolog.Logger) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, cache: cache, log: log, now: time.Now}
}

// GetSummary returns the cached summary or computes it with four parallel queries:
//  1. all-time totals
//  2. totals of the current month
//  3. customer count
//  4. most recent invoices
//
// Cache failures are logged and never fail the request.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, userID string) (*dto.DashboardSummaryDTO, error) {
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, userID)
		if err != nil {
			uc.log.Warn().Err(err).Str("user_id", userID).Msg("dashboard cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	type totalsResult struct {
		totals repository.BillingTotals
		err    error
	}
	type countResult struct {
		n   int
		err error
	}
	type recentResult struct {
		summaries []dto.InvoiceSummaryResponse
		err       error
	}

	allCh := make(chan totalsResult, 1)
	monthCh := make(chan totalsResult, 1)
	customersCh := make(chan countResult, 1)
	recentCh := make(chan recentResult, 1)

	go func() {
		t, err := uc.repo.GetTotals(ctx, userID, time.Time{}, time.Time{})
		allCh <- totalsResult{t, err}
	}()
	go func() {
		t, err := uc.repo.GetTotals(ctx, userID, monthStart, monthEnd)
		monthCh <- totalsResult{t, err}
	}()
	go func() {
		n, err := uc.repo.CountCustomers(ctx, userID)
		customersCh <- countResult{n, err}
	}()
	go func() {
		list, err := uc.repo.RecentInvoices(ctx, userID, dashboardRecentInvoices)
		if err != nil {
			recentCh <- recentResult{err: err}
			return
		}
		out := make([]dto.InvoiceSummaryResponse, 0, len(list))
		for _, inv := range list {
			out = append(out, billing.ToInvoiceSummary(inv))
		}
		recentCh <- recentResult{summaries: out}
	}()

	all := <-allCh
	month := <-monthCh
	customers := <-customersCh
	recent := <-recentCh

	if all.err != nil {
		return nil, fmt.Errorf("dashboard: totals: %w", all.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: month totals: %w", month.err)
	}
	if customers.err != nil {
		return nil, fmt.Errorf("dashboard: customers: %w", customers.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: recent invoices: %w", recent.err)
	}

	summary := &dto.DashboardSummaryDTO{
		InvoiceCount:   all.totals.InvoiceCount,
		CustomerCount:  customers.n,
		TotalBilled:    all.totals.Billed.Round(2),
		TotalPaid:      all.totals.Paid.Round(2),
		Outstanding:    all.totals.Billed.Sub(all.totals.Paid).Round(2),
		MonthBilled:    month.totals.Billed.Round(2),
		MonthTax:       month.totals.Tax.Round(2),
		MonthLabel:     now.Format("January 2006"),
		RecentInvoices: recent.summaries,
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, userID, summary); err != nil {
			uc.log.Warn().Err(err).Str("user_id", userID).Msg("dashboard cache write failed")
		}
	}
	return summary, nil
}
