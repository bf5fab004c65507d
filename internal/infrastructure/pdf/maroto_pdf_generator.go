// Package pdf renders GST tax invoices with Maroto v2.
//
// A4 layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  [logo] Seller name, GSTIN, address │ TAX INVOICE, no., date │
//	│  Bill to: buyer name, GSTIN, state  │ Place of supply        │
//	│  # | Description | HSN | Qty | Rate | GST% | Amount          │
//	│  Taxable value / CGST / SGST or IGST / Grand total           │
//	│  Amount in words                                             │
//	│  Bank details + UPI QR          │ For <seller> signatory     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"net/url"
	"os"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-billing-api/internal/application/billing"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
	"github.com/jhoicas/gst-billing-api/internal/domain/gst"
	"github.com/jhoicas/gst-billing-api/pkg/money"
)

var _ billing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 19, Green: 78, Blue: 94}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// MarotoPDFGenerator implements billing.InvoicePDFGenerator.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator builds the generator.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF renders doc and returns the PDF bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, doc *billing.InvoiceDocument) ([]byte, error) {
	inv, seller, buyer := doc.Invoice, doc.Seller, doc.Buyer

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Tax Invoice "+inv.InvoiceNumber, true).
		WithAuthor(seller.BusinessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv, seller))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(inv, buyer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(doc.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv))
	m.AddRows(wordsRow(doc.AmountInWords))
	m.AddRows(line.NewRow(3))
	m.AddRows(paymentRow(inv, seller))
	if seller.Terms != "" {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Terms: "+seller.Terms, props.Text{Size: 7, Color: colorGray, Top: 2}),
		)))
	}
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("This is a computer generated invoice.", props.Text{
			Size: 6.5, Color: colorGray, Align: align.Center, Top: 3,
		}),
	)))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return out.GetBytes(), nil
}

func headerRow(inv *entity.Invoice, seller *entity.BusinessProfile) core.Row {
	sellerCol := col.New(6)
	var logoCol core.Col
	if hasFile(seller.LogoPath) {
		logoCol = image.NewFromFileCol(2, seller.LogoPath, props.Rect{Percent: 90, Center: true})
		sellerCol = col.New(4)
	}
	sellerCol.Add(
		text.New(seller.BusinessName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
	)
	offset := 8.0
	if seller.GSTIN != "" {
		sellerCol.Add(text.New("GSTIN: "+seller.GSTIN, props.Text{Size: 8, Top: offset, Color: colorGray}))
		offset += 4
	}
	sellerCol.Add(text.New(joinNonEmpty(seller.Address, seller.City, seller.State, seller.Pincode), props.Text{
		Size: 8, Top: offset, Color: colorGray,
	}))
	offset += 4
	sellerCol.Add(text.New(joinNonEmpty(seller.Phone, seller.Email), props.Text{Size: 8, Top: offset, Color: colorGray}))

	dates := "Date: " + inv.InvoiceDate.Format("02 Jan 2006")
	if inv.DueDate != nil {
		dates += "   Due: " + inv.DueDate.Format("02 Jan 2006")
	}
	invoiceCol := col.New(6).Add(
		text.New("TAX INVOICE", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1}),
		text.New(inv.InvoiceNumber, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
		text.New(dates, props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		text.New("Status: "+inv.Status, props.Text{Size: 8, Align: align.Right, Top: 18, Color: colorGray}),
	)

	if logoCol != nil {
		return row.New(26).Add(logoCol, sellerCol, invoiceCol)
	}
	return row.New(26).Add(sellerCol, invoiceCol)
}

func partiesRow(inv *entity.Invoice, buyer *entity.Customer) core.Row {
	buyerCol := col.New(7).Add(
		text.New("BILL TO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		text.New(buyer.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		text.New(joinNonEmpty(buyer.Address, buyer.City, buyer.State, buyer.Pincode), props.Text{
			Size: 8, Top: 12, Color: colorGray,
		}),
		text.New(joinNonEmpty(labelled("GSTIN", buyer.GSTIN), buyer.Phone, buyer.Email), props.Text{
			Size: 8, Top: 16, Color: colorGray,
		}),
	)

	supply := "Intra-state (CGST + SGST)"
	if gst.SupplyType(inv.SupplyType).IsInterState() {
		supply = "Inter-state (IGST)"
	}
	place := inv.PlaceOfSupply
	if code, ok := gst.StateCodeFromGSTIN(buyer.GSTIN); ok && gst.GetGstType(buyer.State, place) == gst.SupplyIntraState {
		place = fmt.Sprintf("%s (%s)", place, code)
	}
	supplyCol := col.New(5).Add(
		text.New("PLACE OF SUPPLY", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
		text.New(place, props.Text{Size: 9, Align: align.Right, Top: 6}),
		text.New(supply, props.Text{Size: 8, Align: align.Right, Top: 12, Color: colorGray}),
	)
	return row.New(22).Add(buyerCol, supplyCol)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Description", 3, align.Left),
		h("HSN/SAC", 1, align.Center),
		h("Qty", 1, align.Right),
		h("Rate", 2, align.Right),
		h("GST %", 1, align.Center),
		h("Amount", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func itemRows(items []*entity.InvoiceItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, it := range items {
		qty := it.Quantity.String()
		if it.Unit != "" {
			qty += " " + it.Unit
		}
		rows = append(rows, row.New(7).Add(
			cell(fmt.Sprintf("%d", it.Position), 1, align.Center),
			cell(it.Description, 3, align.Left),
			cell(it.HSNCode, 1, align.Center),
			cell(qty, 1, align.Right),
			cell(rupees(it.Rate), 2, align.Right),
			cell(it.GSTRate.String()+"%", 1, align.Center),
			cell(rupees(it.Amount), 3, align.Right),
		))
	}
	return rows
}

func totalsRow(inv *entity.Invoice) core.Row {
	labels := col.New(3)
	values := col.New(3)
	top := 1.0
	add := func(label string, amount decimal.Decimal, bold bool) {
		style := fontstyle.Normal
		size := 9.0
		var color *props.Color
		if bold {
			style, size, color = fontstyle.Bold, 10, colorPrimary
		}
		labels.Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: size, Align: align.Right, Right: 2, Top: top, Color: color}))
		values.Add(text.New(rupees(amount), props.Text{Style: style, Size: size, Align: align.Right, Right: 1, Top: top, Color: color}))
		top += 5
	}

	add("Taxable value:", inv.Subtotal, false)
	if gst.SupplyType(inv.SupplyType).IsInterState() {
		add("IGST:", inv.IGST, false)
	} else {
		add("CGST:", inv.CGST, false)
		add("SGST:", inv.SGST, false)
	}
	add("Grand total:", inv.GrandTotal, true)

	return row.New(top+3).Add(col.New(6), labels, values)
}

func wordsRow(words string) core.Row {
	return row.New(9).Add(col.New(12).Add(
		text.New("Amount in words: "+words, props.Text{Style: fontstyle.Italic, Size: 8, Top: 2}),
	))
}

func paymentRow(inv *entity.Invoice, seller *entity.BusinessProfile) core.Row {
	bank := col.New(5)
	if seller.BankName != "" || seller.AccountNumber != "" {
		bank.Add(
			text.New("BANK DETAILS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(labelled("Bank", seller.BankName), props.Text{Size: 8, Top: 6}),
			text.New(labelled("A/c", seller.AccountNumber), props.Text{Size: 8, Top: 10}),
			text.New(labelled("IFSC", seller.IFSC), props.Text{Size: 8, Top: 14}),
		)
	}

	qr := col.New(3)
	if seller.UPIID != "" {
		qr.Add(code.NewQr(upiLink(seller, inv), props.Rect{Percent: 90, Center: true}))
	}

	sign := col.New(4).Add(
		text.New("For "+seller.BusinessName, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1}),
		text.New("Authorised Signatory", props.Text{Size: 8, Align: align.Right, Top: 24, Color: colorGray}),
	)
	return row.New(32).Add(bank, qr, sign)
}

// upiLink builds a UPI deep link for the payable amount.
func upiLink(seller *entity.BusinessProfile, inv *entity.Invoice) string {
	q := url.Values{}
	q.Set("pa", seller.UPIID)
	q.Set("pn", seller.BusinessName)
	q.Set("am", money.Paise(inv.GrandTotal).StringFixed(2))
	q.Set("cu", "INR")
	q.Set("tn", inv.InvoiceNumber)
	return "upi://pay?" + q.Encode()
}

// rupees uses "Rs." because the core PDF fonts have no rupee glyph.
func rupees(d decimal.Decimal) string {
	return "Rs. " + money.FormatGrouped(d)
}

func labelled(label, value string) string {
	if value == "" {
		return ""
	}
	return label + ": " + value
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}

func hasFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
