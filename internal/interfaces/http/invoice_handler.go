package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gst-billing-api/internal/application/billing"
	"github.com/jhoicas/gst-billing-api/internal/application/dto"
)

// HeaderContentDigest carries the SHA-256 of the canonical XML export.
const HeaderContentDigest = "X-Content-Digest"

// InvoiceHandler handles invoices and their documents.
type InvoiceHandler struct {
	uc   *billing.InvoiceUseCase
	docs *billing.DocumentUseCase
}

func NewInvoiceHandler(uc *billing.InvoiceUseCase, docs *billing.DocumentUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, docs: docs}
}

// Calculate godoc
// @Summary      Preview invoice totals without saving
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.InvoiceRequest  true  "invoice"
// @Success      200   {object}  dto.TotalsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invoices/calculate [post]
func (h *InvoiceHandler) Calculate(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Calculate(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Create an invoice
// @Description  Computes GST, assigns the next PREFIX-YYMM-NNNN number and stores a draft.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.InvoiceRequest  true  "invoice"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        status       query  string  false  "draft, sent, paid or cancelled"
// @Param        customer_id  query  string  false  "customer id"
// @Param        search       query  string  false  "invoice number or customer name"
// @Param        limit        query  int     false  "page size"
// @Param        offset       query  int     false  "offset"
// @Success      200  {object}  dto.InvoiceListResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "VALIDATION", "invalid query parameters")
	}
	out, err := h.uc.List(c.Context(), userID, c.Query("status"), c.Query("customer_id"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Get an invoice with its items
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "invoice id"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Get(c.Context(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Replace a draft invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string              true  "invoice id"
// @Param        body  body  dto.InvoiceRequest  true  "invoice"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.Context(), userID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Change invoice status
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                   true  "invoice id"
// @Param        body  body  dto.UpdateStatusRequest  true  "status"
// @Success      200  {object}  dto.InvoiceSummaryResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateStatus(c.Context(), userID, c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Delete a draft or cancelled invoice
// @Tags         invoices
// @Security     BearerAuth
// @Param        id  path  string  true  "invoice id"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	if err := h.uc.Delete(c.Context(), userID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadPDF godoc
// @Summary      Download the tax invoice PDF
// @Tags         invoices
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  string  true  "invoice id"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	data, filename, err := h.docs.DownloadPDF(c.Context(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(data)
}

// ExportXML godoc
// @Summary      Export the invoice as a Tally voucher
// @Tags         invoices
// @Produce      application/xml
// @Security     BearerAuth
// @Param        id  path  string  true  "invoice id"
// @Success      200  {file}  binary
// @Header       200  {string}  X-Content-Digest  "SHA-256 of the canonical XML"
// @Router       /api/invoices/{id}/xml [get]
func (h *InvoiceHandler) ExportXML(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	data, filename, digest, err := h.docs.ExportXML(c.Context(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(HeaderContentDigest, "sha-256="+digest)
	return c.Send(data)
}
