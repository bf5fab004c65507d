package billing

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"

	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/gst"
	"github.com/jhoicas/gst-billing-api/internal/domain/repository"
)

// DocumentUseCase renders stored invoices as PDF or accounting XML.
type DocumentUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	profileRepo  repository.BusinessProfileRepository
	pdf          InvoicePDFGenerator
	xml          InvoiceXMLExporter
	metrics      InvoiceMetrics
}

// NewDocumentUseCase builds the use case. metrics may be nil.
func NewDocumentUseCase(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	profileRepo repository.BusinessProfileRepository,
	pdf InvoicePDFGenerator,
	xml InvoiceXMLExporter,
	metrics InvoiceMetrics,
) *DocumentUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &DocumentUseCase{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		profileRepo:  profileRepo,
		pdf:          pdf,
		xml:          xml,
		metrics:      metrics,
	}
}

// DownloadPDF returns the PDF bytes and a download filename.
func (uc *DocumentUseCase) DownloadPDF(ctx context.Context, userID, invoiceID string) ([]byte, string, error) {
	doc, err := uc.loadDocument(ctx, userID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	out, err := uc.pdf.GenerateInvoicePDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: render %s: %w", doc.Invoice.InvoiceNumber, err)
	}
	uc.metrics.DocumentRendered("pdf")
	return out, documentFilename(doc, "pdf"), nil
}

// ExportXML returns the voucher XML, its filename and the canonical SHA-256 digest.
func (uc *DocumentUseCase) ExportXML(ctx context.Context, userID, invoiceID string) ([]byte, string, string, error) {
	doc, err := uc.loadDocument(ctx, userID, invoiceID)
	if err != nil {
		return nil, "", "", err
	}
	out, digest, err := uc.xml.ExportInvoiceXML(ctx, doc)
	if err != nil {
		return nil, "", "", fmt.Errorf("xml: export %s: %w", doc.Invoice.InvoiceNumber, err)
	}
	uc.metrics.DocumentRendered("xml")
	return out, documentFilename(doc, "xml"), digest, nil
}

func (uc *DocumentUseCase) loadDocument(ctx context.Context, userID, invoiceID string) (*InvoiceDocument, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("load invoice: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	seller, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if seller == nil {
		return nil, domain.ErrProfileRequired
	}
	buyer, err := uc.customerRepo.GetByID(ctx, userID, inv.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	if buyer == nil {
		return nil, fmt.Errorf("customer %s: %w", inv.CustomerID, domain.ErrNotFound)
	}
	items, err := uc.invoiceRepo.GetItems(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	return &InvoiceDocument{
		Invoice:       inv,
		Items:         items,
		Seller:        seller,
		Buyer:         buyer,
		AmountInWords: gst.NumberToWords(inv.GrandTotal),
	}, nil
}

// documentFilename yields e.g. "inv-2503-0004-sharma-traders.pdf".
func documentFilename(doc *InvoiceDocument, ext string) string {
	return slug.Make(doc.Invoice.InvoiceNumber+" "+doc.Buyer.Name) + "." + ext
}
