package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
	"github.com/jhoicas/gst-billing-api/internal/domain/gst"
	"github.com/jhoicas/gst-billing-api/pkg/money"
)

// PreviewTotals runs the calculator over request lines without the invoice rules:
// any non-negative rate is accepted and an empty list yields zero totals.
func PreviewTotals(items []dto.InvoiceItemRequest, supply gst.SupplyType) (*dto.TotalsResponse, error) {
	lines := make([]gst.LineItem, 0, len(items))
	for i, it := range items {
		if it.Quantity.IsNegative() {
			return nil, domain.NewValidationError(itemField(i, "quantity"), "must not be negative")
		}
		if it.Rate.IsNegative() {
			return nil, domain.NewValidationError(itemField(i, "rate"), "must not be negative")
		}
		if it.GSTRate.IsNegative() {
			return nil, domain.NewValidationError(itemField(i, "gst_rate"), "must not be negative")
		}
		lines = append(lines, gst.LineItem{Quantity: it.Quantity, Rate: it.Rate, GSTRate: it.GSTRate})
	}
	totals := gst.CalculateInvoiceTotals(lines, supply.IsInterState())
	return totalsResponse(supply, items, totals), nil
}

// validateInvoiceItems applies the stricter rules used for stored invoices.
func validateInvoiceItems(items []dto.InvoiceItemRequest) error {
	if len(items) == 0 {
		return domain.NewValidationError("items", "at least one item is required")
	}
	for i, it := range items {
		if it.Description == "" {
			return domain.NewValidationError(itemField(i, "description"), "is required")
		}
		if !it.Quantity.IsPositive() {
			return domain.NewValidationError(itemField(i, "quantity"), "must be greater than zero")
		}
		if it.Rate.IsNegative() {
			return domain.NewValidationError(itemField(i, "rate"), "must not be negative")
		}
		if !gst.IsStandardSlab(it.GSTRate) {
			return domain.NewValidationError(itemField(i, "gst_rate"), "must be one of 0, 5, 12, 18, 28")
		}
	}
	return nil
}

func itemField(i int, name string) string {
	return fmt.Sprintf("items[%d].%s", i, name)
}

func totalsResponse(supply gst.SupplyType, items []dto.InvoiceItemRequest, totals gst.InvoiceTotals) *dto.TotalsResponse {
	out := &dto.TotalsResponse{
		SupplyType: string(supply),
		Items:      make([]dto.InvoiceItemResponse, 0, len(totals.Items)),
	}
	for i, r := range totals.Items {
		out.Items = append(out.Items, dto.InvoiceItemResponse{
			Description: items[i].Description,
			HSNCode:     items[i].HSNCode,
			Unit:        items[i].Unit,
			Quantity:    r.Quantity,
			Rate:        r.Rate,
			GSTRate:     r.GSTRate,
			Amount:      money.Paise(r.Amount),
			CGST:        money.Paise(r.CGST),
			SGST:        money.Paise(r.SGST),
			IGST:        money.Paise(r.IGST),
			Total:       money.Paise(r.Total),
		})
	}
	fillSummary(out, totals.Subtotal, totals.TotalCGST, totals.TotalSGST, totals.TotalIGST, totals.GrandTotal)
	return out
}

func storedTotalsResponse(inv *entity.Invoice, items []*entity.InvoiceItem) dto.TotalsResponse {
	out := dto.TotalsResponse{
		SupplyType: inv.SupplyType,
		Items:      make([]dto.InvoiceItemResponse, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.InvoiceItemResponse{
			Description: it.Description,
			HSNCode:     it.HSNCode,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			GSTRate:     it.GSTRate,
			Amount:      money.Paise(it.Amount),
			CGST:        money.Paise(it.CGST),
			SGST:        money.Paise(it.SGST),
			IGST:        money.Paise(it.IGST),
			Total:       money.Paise(it.Total),
		})
	}
	fillSummary(&out, inv.Subtotal, inv.CGST, inv.SGST, inv.IGST, inv.GrandTotal)
	return out
}

func fillSummary(out *dto.TotalsResponse, subtotal, cgst, sgst, igst, grand decimal.Decimal) {
	out.Subtotal = money.Paise(subtotal)
	out.TotalCGST = money.Paise(cgst)
	out.TotalSGST = money.Paise(sgst)
	out.TotalIGST = money.Paise(igst)
	out.TotalTax = money.Paise(cgst.Add(sgst).Add(igst))
	out.GrandTotal = money.Paise(grand)
	out.GrandTotalText = money.FormatINR(grand)
	out.AmountInWords = gst.NumberToWords(grand)
}
