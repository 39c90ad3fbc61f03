package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/retencion-ar/internal/application/dto"
	"github.com/tu-usuario/retencion-ar/internal/application/reports"
	"github.com/tu-usuario/retencion-ar/internal/application/withholding"
)

// WithholdingHandler maneja el listado de retenciones/percepciones,
// el borrado de líneas en borrador y la emisión de certificados PDF.
type WithholdingHandler struct {
	uc      *withholding.UseCase
	reports *reports.UseCase
}

// NewWithholdingHandler construye el handler.
func NewWithholdingHandler(uc *withholding.UseCase, reports *reports.UseCase) *WithholdingHandler {
	return &WithholdingHandler{uc: uc, reports: reports}
}

// List godoc
// @Summary      Listar retenciones y percepciones con filtros
// @Tags         withholdings
// @Security     Bearer
// @Produce      json
// @Param        party_id   query  string  false  "Tercero"
// @Param        regime_id  query  string  false  "Régimen"
// @Param        state      query  string  false  "draft | issued | held | cancelled"
// @Param        kind       query  string  false  "retencion | percepcion"
// @Param        from       query  string  false  "YYYY-MM-DD"
// @Param        to         query  string  false  "YYYY-MM-DD"
// @Success      200        {array}  dto.WithholdingResponse
// @Router       /api/withholdings [get]
func (h *WithholdingHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var req dto.ListWithholdingsRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.List(companyID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar línea de retención en borrador
// @Tags         withholdings
// @Security     Bearer
// @Param        id   path  string  true  "ID de la retención"
// @Success      204  "sin contenido"
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/withholdings/{id} [delete]
func (h *WithholdingHandler) Delete(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.DeleteLine(c.Context(), companyID, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Certificate godoc
// @Summary      Descargar certificado de retención en PDF
// @Tags         withholdings
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la retención"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/withholdings/{id}/certificate [get]
func (h *WithholdingHandler) Certificate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	pdf, err := h.reports.Certificate(c.Context(), companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="certificado-`+id+`.pdf"`)
	return c.Send(pdf)
}
