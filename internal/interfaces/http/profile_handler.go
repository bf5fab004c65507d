package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/application/profile"
)

// ProfileHandler manages the seller's business profile.
type ProfileHandler struct {
	uc *profile.ProfileUseCase
}

func NewProfileHandler(uc *profile.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// Get godoc
// @Summary      Business profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ProfileResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Get(c.Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Upsert godoc
// @Summary      Create or update the business profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.UpsertProfileRequest  true  "profile"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/profile [put]
func (h *ProfileHandler) Upsert(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	var in dto.UpsertProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Upsert(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UploadLogo godoc
// @Summary      Upload the logo printed on invoices
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        logo  formData  file  true  "PNG or JPEG"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/profile/logo [post]
func (h *ProfileHandler) UploadLogo(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	fh, err := c.FormFile("logo")
	if err != nil {
		return badRequest(c, "VALIDATION", "logo file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()

	out, err := h.uc.UploadLogo(c.Context(), userID, fh.Filename, fh.Size, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
