package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/retencion-ar/internal/application/dto"
	"github.com/tu-usuario/retencion-ar/internal/application/sicore"
)

// SICOREHandler maneja la exportación del archivo regulatorio SICORE.
type SICOREHandler struct {
	uc *sicore.UseCase
}

// NewSICOREHandler construye el handler.
func NewSICOREHandler(uc *sicore.UseCase) *SICOREHandler {
	return &SICOREHandler{uc: uc}
}

// Export godoc
// @Summary      Exportar retenciones emitidas al formato SICORE
// @Description  Genera el archivo del período en ISO 8859-1. Las retenciones
// @Description  sin comprobante de origen se informan en skipped, no cortan
// @Description  la exportación.
// @Tags         sicore
// @Security     Bearer
// @Accept       json
// @Produce      application/octet-stream
// @Param        body  body  dto.SICOREExportRequest  true  "Rango de fechas"
// @Success      200   {file}  binary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sicore/export [post]
func (h *SICOREHandler) Export(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.SICOREExportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.From == "" || in.To == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from y to son requeridos"})
	}
	out, err := h.uc.Export(c.Context(), companyID, in)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/octet-stream; charset=ISO-8859-1")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+out.Filename+`"`)
	// Los diagnósticos de líneas quitadas viajan como headers para no
	// mezclar texto UTF-8 con el cuerpo ISO 8859-1.
	c.Set("X-Sicore-Lines", strconv.Itoa(out.Lines))
	if len(out.Skipped) > 0 {
		c.Set("X-Sicore-Skipped", strconv.Itoa(len(out.Skipped)))
	}
	return c.Send(out.Content)
}

// ExportSummary godoc
// @Summary      Previsualizar la exportación SICORE sin descargar el archivo
// @Tags         sicore
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SICOREExportRequest  true  "Rango de fechas"
// @Success      200   {object}  dto.SICOREExportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sicore/summary [post]
func (h *SICOREHandler) ExportSummary(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.SICOREExportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.From == "" || in.To == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from y to son requeridos"})
	}
	out, err := h.uc.Export(c.Context(), companyID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SICOREExportResponse{
		Filename: out.Filename,
		Lines:    out.Lines,
		Skipped:  out.Skipped,
	})
}
