package xmlexport_test

import (
	"context"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gst-billing-api/internal/application/billing"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
	"github.com/jhoicas/gst-billing-api/internal/infrastructure/xmlexport"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func document(supply string) *billing.InvoiceDocument {
	inv := &entity.Invoice{
		ID:            "inv-1",
		InvoiceNumber: "INV-2503-0001",
		InvoiceDate:   time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
		SupplyType:    supply,
		PlaceOfSupply: "Karnataka",
		Subtotal:      dec("93.31"),
		GrandTotal:    dec("97.9755"),
	}
	if supply == "inter" {
		inv.IGST = dec("4.6655")
	} else {
		inv.CGST = dec("2.33275")
		inv.SGST = dec("2.33275")
	}
	return &billing.InvoiceDocument{
		Invoice: inv,
		Items: []*entity.InvoiceItem{{
			Position: 1, Description: "Pens & Pencils", HSNCode: "9608",
			Quantity: dec("7"), Rate: dec("13.33"), GSTRate: dec("5"), Amount: dec("93.31"),
		}},
		Seller:        &entity.BusinessProfile{BusinessName: "Acme", GSTIN: "29ABCDE1234F1Z5", State: "Karnataka"},
		Buyer:         &entity.Customer{Name: "Local Buyer", State: "Karnataka"},
		AmountInWords: "Ninety Seven Rupees and Ninety Eight Paise Only",
	}
}

func TestExportInvoiceXML_IntraState(t *testing.T) {
	raw, digest, err := xmlexport.NewTallyExporter().ExportInvoiceXML(context.Background(), document("intra"))
	require.NoError(t, err)
	assert.Len(t, digest, 64)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(raw))

	v := doc.FindElement("//VOUCHER")
	require.NotNil(t, v)
	assert.Equal(t, "Sales", v.SelectAttrValue("VCHTYPE", ""))
	assert.Equal(t, "20250314", v.FindElement("DATE").Text())
	assert.Equal(t, "INV-2503-0001", v.FindElement("VOUCHERNUMBER").Text())
	assert.Equal(t, "Consumer", v.FindElement("GSTREGISTRATIONTYPE").Text())
	assert.Equal(t, "Pens & Pencils", v.FindElement("ALLINVENTORYENTRIES.LIST/STOCKITEMNAME").Text())

	ledgers := v.FindElements("LEDGERENTRIES.LIST")
	require.Len(t, ledgers, 3, "party + CGST + SGST")
	assert.Equal(t, "-97.98", ledgers[0].FindElement("AMOUNT").Text())
	assert.Equal(t, "Output CGST", ledgers[1].FindElement("LEDGERNAME").Text())
	assert.Equal(t, "2.33", ledgers[1].FindElement("AMOUNT").Text())
}

func TestExportInvoiceXML_InterStateUsesIGSTLedger(t *testing.T) {
	raw, _, err := xmlexport.NewTallyExporter().ExportInvoiceXML(context.Background(), document("inter"))
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(raw))
	ledgers := doc.FindElements("//VOUCHER/LEDGERENTRIES.LIST")
	require.Len(t, ledgers, 2)
	assert.Equal(t, "Output IGST", ledgers[1].FindElement("LEDGERNAME").Text())
	assert.Equal(t, "4.67", ledgers[1].FindElement("AMOUNT").Text())
}

func TestExportInvoiceXML_DigestIsStable(t *testing.T) {
	exp := xmlexport.NewTallyExporter()
	_, first, err := exp.ExportInvoiceXML(context.Background(), document("intra"))
	require.NoError(t, err)
	_, second, err := exp.ExportInvoiceXML(context.Background(), document("intra"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, other, err := exp.ExportInvoiceXML(context.Background(), document("inter"))
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestExportInvoiceXML_RequiresParties(t *testing.T) {
	_, _, err := xmlexport.NewTallyExporter().ExportInvoiceXML(context.Background(), &billing.InvoiceDocument{})
	assert.Error(t, err)
}
