package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/retencion-ar/internal/application/dto"
	"github.com/tu-usuario/retencion-ar/internal/application/reports"
)

// ReportHandler maneja los reportes de gestión.
type ReportHandler struct {
	uc *reports.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Jurisdiction godoc
// @Summary      Listado de retenciones/percepciones por jurisdicción
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from         query  string  true  "YYYY-MM-DD"
// @Param        to           query  string  true  "YYYY-MM-DD"
// @Param        subdivision  query  string  true  "código de jurisdicción"
// @Success      200   {object}  dto.JurisdictionReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/jurisdiction [get]
func (h *ReportHandler) Jurisdiction(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var req dto.JurisdictionReportRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	if req.From == "" || req.To == "" || req.Subdivision == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from, to y subdivision son requeridos"})
	}
	out, err := h.uc.Jurisdiction(c.Context(), companyID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
