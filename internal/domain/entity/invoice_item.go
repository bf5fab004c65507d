package entity

import "github.com/shopspring/decimal"

// InvoiceItem is one line of an invoice with its computed tax split.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	Position    int
	Description string
	HSNCode     string
	Unit        string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	GSTRate     decimal.Decimal
	Amount      decimal.Decimal
	CGST        decimal.Decimal
	SGST        decimal.Decimal
	IGST        decimal.Decimal
	Total       decimal.Decimal
}
