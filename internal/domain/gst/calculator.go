// Package gst holds the Indian GST business rules: per-line tax split, invoice numbering,
// amount in words (lakh/crore) and GSTIN, PAN and phone validators.
// It has no infrastructure dependencies; everything is pure except the injected invoice counter.
package gst

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)
var two = decimal.NewFromInt(2)

// Standard GST slabs (percent). The calculator does not enforce them.
var standardSlabs = []decimal.Decimal{
	decimal.Zero,
	decimal.NewFromInt(5),
	decimal.NewFromInt(12),
	decimal.NewFromInt(18),
	decimal.NewFromInt(28),
}

// LineItem is the raw input of one invoice line.
type LineItem struct {
	Quantity decimal.Decimal
	Rate     decimal.Decimal // unit price before tax
	GSTRate  decimal.Decimal // percent, e.g. 18
}

// LineItemResult is a LineItem with its computed amounts.
// Either CGST+SGST or IGST is non-zero, never both.
type LineItemResult struct {
	LineItem
	Amount decimal.Decimal // Quantity * Rate
	CGST   decimal.Decimal
	SGST   decimal.Decimal
	IGST   decimal.Decimal
	Total  decimal.Decimal // Amount + CGST + SGST + IGST
}

// TaxAmount returns the total tax of the line.
func (r LineItemResult) TaxAmount() decimal.Decimal {
	return r.CGST.Add(r.SGST).Add(r.IGST)
}

// InvoiceTotals aggregates the per-line results.
type InvoiceTotals struct {
	Items      []LineItemResult
	Subtotal   decimal.Decimal
	TotalCGST  decimal.Decimal
	TotalSGST  decimal.Decimal
	TotalIGST  decimal.Decimal
	GrandTotal decimal.Decimal
}

// TotalTax returns CGST + SGST + IGST.
func (t InvoiceTotals) TotalTax() decimal.Decimal {
	return t.TotalCGST.Add(t.TotalSGST).Add(t.TotalIGST)
}

// CalculateLineItem computes amount and tax split for a single line.
func CalculateLineItem(item LineItem, isInterState bool) LineItemResult {
	amount := item.Quantity.Mul(item.Rate)
	gstAmount := amount.Mul(item.GSTRate).Div(hundred)

	res := LineItemResult{
		LineItem: item,
		Amount:   amount,
		CGST:     decimal.Zero,
		SGST:     decimal.Zero,
		IGST:     decimal.Zero,
		Total:    amount.Add(gstAmount),
	}
	if isInterState {
		res.IGST = gstAmount
	} else {
		half := gstAmount.Div(two)
		res.CGST = half
		res.SGST = half
	}
	return res
}

// CalculateInvoiceTotals computes every line and the invoice aggregates.
// No rounding is applied; callers round when rendering.
func CalculateInvoiceTotals(items []LineItem, isInterState bool) InvoiceTotals {
	totals := InvoiceTotals{
		Items:      make([]LineItemResult, 0, len(items)),
		Subtotal:   decimal.Zero,
		TotalCGST:  decimal.Zero,
		TotalSGST:  decimal.Zero,
		TotalIGST:  decimal.Zero,
		GrandTotal: decimal.Zero,
	}
	for _, item := range items {
		res := CalculateLineItem(item, isInterState)
		totals.Items = append(totals.Items, res)
		totals.Subtotal = totals.Subtotal.Add(res.Amount)
		totals.TotalCGST = totals.TotalCGST.Add(res.CGST)
		totals.TotalSGST = totals.TotalSGST.Add(res.SGST)
		totals.TotalIGST = totals.TotalIGST.Add(res.IGST)
	}
	totals.GrandTotal = totals.Subtotal.Add(totals.TotalCGST).Add(totals.TotalSGST).Add(totals.TotalIGST)
	return totals
}

// IsStandardSlab reports whether rate is one of 0, 5, 12, 18 or 28 percent.
func IsStandardSlab(rate decimal.Decimal) bool {
	for _, s := range standardSlabs {
		if rate.Equal(s) {
			return true
		}
	}
	return false
}
