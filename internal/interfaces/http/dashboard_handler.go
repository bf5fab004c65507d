package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/gst-billing-api/internal/application/analytics"
)

// DashboardHandler serves the dashboard summary.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Dashboard summary
// @Description  Invoice and customer counts, billed/paid/outstanding totals, this month's billing and tax, recent invoices.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	summary, err := h.uc.GetSummary(c.Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
