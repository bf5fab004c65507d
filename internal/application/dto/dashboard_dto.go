package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO is the body of GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	InvoiceCount  int             `json:"invoice_count"`
	CustomerCount int             `json:"customer_count"`
	TotalBilled   decimal.Decimal `json:"total_billed"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	Outstanding   decimal.Decimal `json:"outstanding"`

	MonthBilled decimal.Decimal `json:"month_billed"`
	MonthTax    decimal.Decimal `json:"month_tax"`
	MonthLabel  string          `json:"month_label"` // e.g. "March 2025"

	RecentInvoices []InvoiceSummaryResponse `json:"recent_invoices"`
}
