package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-billing-api/internal/application/billing"
	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/gst"
)

// GSTHandler exposes the stateless GST helpers. No authentication required.
type GSTHandler struct{}

func NewGSTHandler() *GSTHandler { return &GSTHandler{} }

// Words godoc
// @Summary      Amount in words (Indian numbering)
// @Tags         gst
// @Produce      json
// @Param        amount  query  string  true  "amount in rupees, e.g. 1180.50"
// @Success      200  {object}  dto.WordsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/gst/words [get]
func (h *GSTHandler) Words(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Query("amount"))
	if raw == "" {
		return badRequest(c, "VALIDATION", "amount is required")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return badRequest(c, "VALIDATION", "amount must be a number")
	}
	if !gst.WordsAmountInRange(amount) {
		return writeError(c, domain.NewValidationError("amount",
			fmt.Sprintf("must have at most %d integer digits and %d decimal places", gst.MaxWordsDigits, gst.MaxWordsScale)))
	}
	return c.JSON(dto.WordsResponse{Amount: amount, Words: gst.NumberToWords(amount)})
}

// SupplyType godoc
// @Summary      Inter- or intra-state supply
// @Tags         gst
// @Produce      json
// @Param        seller  query  string  true  "seller state"
// @Param        buyer   query  string  true  "buyer state"
// @Success      200  {object}  dto.SupplyTypeResponse
// @Router       /api/gst/supply-type [get]
func (h *GSTHandler) SupplyType(c *fiber.Ctx) error {
	seller, buyer := c.Query("seller"), c.Query("buyer")
	if strings.TrimSpace(seller) == "" || strings.TrimSpace(buyer) == "" {
		return badRequest(c, "VALIDATION", "seller and buyer are required")
	}
	st := gst.GetGstType(seller, buyer)
	return c.JSON(dto.SupplyTypeResponse{SupplyType: string(st), IsInterState: st.IsInterState()})
}

// Validate godoc
// @Summary      Validate GSTIN, PAN and phone formats
// @Tags         gst
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateRequest  true  "fields to check"
// @Success      200  {object}  dto.ValidateResponse
// @Router       /api/gst/validate [post]
func (h *GSTHandler) Validate(c *fiber.Ctx) error {
	var in dto.ValidateRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	var out dto.ValidateResponse
	if in.GSTIN != "" {
		ok := gst.ValidateGSTNumber(in.GSTIN)
		out.GSTIN = &ok
		if ok {
			out.GSTINState, _ = gst.StateFromGSTIN(in.GSTIN)
		}
	}
	if in.PAN != "" {
		ok := gst.ValidatePAN(in.PAN)
		out.PAN = &ok
	}
	if in.Phone != "" {
		ok := gst.ValidatePhone(in.Phone)
		out.Phone = &ok
	}
	return c.JSON(out)
}

// Calculate godoc
// @Summary      Compute GST totals for line items
// @Tags         gst
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CalculateRequest  true  "items"
// @Success      200  {object}  dto.TotalsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/gst/calculate [post]
func (h *GSTHandler) Calculate(c *fiber.Ctx) error {
	var in dto.CalculateRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	supply := gst.SupplyIntraState
	if in.IsInterState {
		supply = gst.SupplyInterState
	}
	out, err := billing.PreviewTotals(in.Items, supply)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
