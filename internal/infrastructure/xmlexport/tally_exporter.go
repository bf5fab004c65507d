// Package xmlexport writes invoices as Tally-compatible sales vouchers.
package xmlexport

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/gst-billing-api/internal/application/billing"
	"github.com/jhoicas/gst-billing-api/internal/domain/gst"
	"github.com/jhoicas/gst-billing-api/pkg/money"
)

var _ billing.InvoiceXMLExporter = (*TallyExporter)(nil)

const (
	salesLedger = "Sales"
	cgstLedger  = "Output CGST"
	sgstLedger  = "Output SGST"
	igstLedger  = "Output IGST"
)

// TallyExporter builds an ENVELOPE/IMPORTDATA voucher and a SHA-256 digest
// of its canonical form.
type TallyExporter struct{}

func NewTallyExporter() *TallyExporter { return &TallyExporter{} }

// ExportInvoiceXML implements billing.InvoiceXMLExporter. The digest is the hex
// SHA-256 of the unindented voucher after C14N.
func (e *TallyExporter) ExportInvoiceXML(_ context.Context, doc *billing.InvoiceDocument) ([]byte, string, error) {
	if doc == nil || doc.Invoice == nil || doc.Seller == nil || doc.Buyer == nil {
		return nil, "", fmt.Errorf("xmlexport: invoice, seller and buyer are required")
	}

	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	envelope := out.CreateElement("ENVELOPE")

	header := envelope.CreateElement("HEADER")
	header.CreateElement("TALLYREQUEST").SetText("Import Data")

	importData := envelope.CreateElement("BODY").CreateElement("IMPORTDATA")
	desc := importData.CreateElement("REQUESTDESC")
	desc.CreateElement("REPORTNAME").SetText("Vouchers")
	desc.CreateElement("STATICVARIABLES").CreateElement("SVCURRENTCOMPANY").SetText(doc.Seller.BusinessName)

	msg := importData.CreateElement("REQUESTDATA").CreateElement("TALLYMESSAGE")
	msg.CreateAttr("xmlns:UDF", "TallyUDF")
	writeVoucher(msg.CreateElement("VOUCHER"), doc)

	digest, err := digestOf(envelope)
	if err != nil {
		return nil, "", err
	}

	out.Indent(2)
	raw, err := out.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("xmlexport: write voucher: %w", err)
	}
	return raw, digest, nil
}

// digestOf hashes the canonical form of root, taken before indentation.
func digestOf(root *etree.Element) (string, error) {
	bare := etree.NewDocument()
	bare.SetRoot(root.Copy())
	data, err := bare.WriteToBytes()
	if err != nil {
		return "", fmt.Errorf("xmlexport: write voucher: %w", err)
	}
	canonical, err := canonicalize(data)
	if err != nil {
		return "", fmt.Errorf("xmlexport: canonicalize: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func writeVoucher(v *etree.Element, doc *billing.InvoiceDocument) {
	inv, seller, buyer := doc.Invoice, doc.Seller, doc.Buyer

	v.CreateAttr("VCHTYPE", "Sales")
	v.CreateAttr("ACTION", "Create")
	v.CreateElement("DATE").SetText(inv.InvoiceDate.Format("20060102"))
	v.CreateElement("VOUCHERTYPENAME").SetText("Sales")
	v.CreateElement("VOUCHERNUMBER").SetText(inv.InvoiceNumber)
	v.CreateElement("REFERENCE").SetText(inv.ID)
	v.CreateElement("PARTYLEDGERNAME").SetText(buyer.Name)
	v.CreateElement("PARTYNAME").SetText(buyer.Name)
	if buyer.GSTIN != "" {
		v.CreateElement("PARTYGSTIN").SetText(buyer.GSTIN)
		v.CreateElement("GSTREGISTRATIONTYPE").SetText("Regular")
	} else {
		v.CreateElement("GSTREGISTRATIONTYPE").SetText("Consumer")
	}
	v.CreateElement("STATENAME").SetText(buyer.State)
	v.CreateElement("PLACEOFSUPPLY").SetText(inv.PlaceOfSupply)
	v.CreateElement("CMPGSTIN").SetText(seller.GSTIN)
	v.CreateElement("CMPGSTSTATE").SetText(seller.State)
	if inv.Notes != "" {
		v.CreateElement("NARRATION").SetText(inv.Notes)
	}
	v.CreateElement("AMOUNTINWORDS").SetText(doc.AmountInWords)

	// Party is debited with the invoice total; Tally marks debits with negative amounts.
	party := v.CreateElement("LEDGERENTRIES.LIST")
	party.CreateElement("LEDGERNAME").SetText(buyer.Name)
	party.CreateElement("ISDEEMEDPOSITIVE").SetText("Yes")
	party.CreateElement("ISPARTYLEDGER").SetText("Yes")
	party.CreateElement("AMOUNT").SetText(amount(inv.GrandTotal.Neg()))

	for _, it := range doc.Items {
		entry := v.CreateElement("ALLINVENTORYENTRIES.LIST")
		entry.CreateElement("STOCKITEMNAME").SetText(it.Description)
		if it.HSNCode != "" {
			entry.CreateElement("HSNCODE").SetText(it.HSNCode)
		}
		entry.CreateElement("GSTRATE").SetText(it.GSTRate.String())
		entry.CreateElement("ISDEEMEDPOSITIVE").SetText("No")
		unit := it.Unit
		if unit == "" {
			unit = "Nos"
		}
		entry.CreateElement("RATE").SetText(amount(it.Rate) + "/" + unit)
		entry.CreateElement("ACTUALQTY").SetText(it.Quantity.String() + " " + unit)
		entry.CreateElement("BILLEDQTY").SetText(it.Quantity.String() + " " + unit)
		entry.CreateElement("AMOUNT").SetText(amount(it.Amount))

		alloc := entry.CreateElement("ACCOUNTINGALLOCATIONS.LIST")
		alloc.CreateElement("LEDGERNAME").SetText(salesLedger)
		alloc.CreateElement("ISDEEMEDPOSITIVE").SetText("No")
		alloc.CreateElement("AMOUNT").SetText(amount(it.Amount))
	}

	if gst.SupplyType(inv.SupplyType).IsInterState() {
		taxEntry(v, igstLedger, inv.IGST)
		return
	}
	taxEntry(v, cgstLedger, inv.CGST)
	taxEntry(v, sgstLedger, inv.SGST)
}

func taxEntry(v *etree.Element, ledger string, tax decimal.Decimal) {
	if tax.IsZero() {
		return
	}
	e := v.CreateElement("LEDGERENTRIES.LIST")
	e.CreateElement("LEDGERNAME").SetText(ledger)
	e.CreateElement("ISDEEMEDPOSITIVE").SetText("No")
	e.CreateElement("AMOUNT").SetText(amount(tax))
}

func amount(d decimal.Decimal) string {
	return money.Paise(d).StringFixed(2)
}

func canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}
