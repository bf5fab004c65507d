package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice statuses.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice is the header of a tax invoice. Amounts are stored unrounded.
type Invoice struct {
	ID            string
	UserID        string
	CustomerID    string
	InvoiceNumber string // PREFIX-YYMM-NNNN, immutable once issued
	InvoiceDate   time.Time
	DueDate       *time.Time
	Status        string
	SupplyType    string // inter | intra
	PlaceOfSupply string
	Subtotal      decimal.Decimal
	CGST          decimal.Decimal
	SGST          decimal.Decimal
	IGST          decimal.Decimal
	GrandTotal    decimal.Decimal
	Notes         string
	CustomerName  string // filled by read queries that join customers
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TotalTax returns CGST + SGST + IGST.
func (i *Invoice) TotalTax() decimal.Decimal {
	return i.CGST.Add(i.SGST).Add(i.IGST)
}

// IsEditable reports whether lines and totals may still change.
func (i *Invoice) IsEditable() bool {
	return i.Status == InvoiceStatusDraft
}

// CanTransition reports whether the status change is allowed:
// draft → sent → paid, and any non-paid status → cancelled.
func (i *Invoice) CanTransition(to string) bool {
	switch to {
	case InvoiceStatusSent:
		return i.Status == InvoiceStatusDraft
	case InvoiceStatusPaid:
		return i.Status == InvoiceStatusSent
	case InvoiceStatusCancelled:
		return i.Status != InvoiceStatusPaid && i.Status != InvoiceStatusCancelled
	case InvoiceStatusDraft:
		return false
	}
	return false
}

// IsDeletable reports whether the invoice may be removed.
func (i *Invoice) IsDeletable() bool {
	return i.Status == InvoiceStatusDraft || i.Status == InvoiceStatusCancelled
}
