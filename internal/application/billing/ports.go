package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
	"github.com/jhoicas/gst-billing-api/internal/domain/repository"
)

// BillingTxRunner runs fn inside one database transaction with repositories bound to it.
// A non-nil error from fn rolls the transaction back.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		customerRepo repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// InvoiceDocument is everything needed to render an invoice.
type InvoiceDocument struct {
	Invoice       *entity.Invoice
	Items         []*entity.InvoiceItem
	Seller        *entity.BusinessProfile
	Buyer         *entity.Customer
	AmountInWords string
}

// InvoicePDFGenerator renders the printable tax invoice.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc *InvoiceDocument) ([]byte, error)
}

// InvoiceXMLExporter renders an accounting voucher and returns its content digest.
type InvoiceXMLExporter interface {
	ExportInvoiceXML(ctx context.Context, doc *InvoiceDocument) (xml []byte, digest string, err error)
}

// SummaryInvalidator drops cached dashboard data after writes.
type SummaryInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// InvoiceMetrics records business counters.
type InvoiceMetrics interface {
	InvoiceCreated(supplyType string, grandTotal decimal.Decimal)
	InvoiceStatusChanged(status string)
	DocumentRendered(format string)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, string) error { return nil }

type noopMetrics struct{}

func (noopMetrics) InvoiceCreated(string, decimal.Decimal) {}
func (noopMetrics) InvoiceStatusChanged(string)            {}
func (noopMetrics) DocumentRendered(string)                {}
