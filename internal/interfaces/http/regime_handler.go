package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/retencion-ar/internal/application/dto"
	"github.com/tu-usuario/retencion-ar/internal/application/usecase"
)

// RegimeHandler maneja las peticiones HTTP para regímenes (protegido).
type RegimeHandler struct {
	uc *usecase.RegimeUseCase
}

// NewRegimeHandler construye el handler.
func NewRegimeHandler(uc *usecase.RegimeUseCase) *RegimeHandler {
	return &RegimeHandler{uc: uc}
}

// Create godoc
// @Summary      Crear régimen de retención/percepción
// @Tags         regimes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRegimeRequest  true  "Datos del régimen"
// @Success      201   {object}  dto.RegimeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/regimes [post]
func (h *RegimeHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.CreateRegimeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(companyID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener régimen por ID
// @Tags         regimes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del régimen"
// @Success      200  {object}  dto.RegimeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/regimes/{id} [get]
func (h *RegimeHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "régimen no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar regímenes de la empresa
// @Tags         regimes
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.RegimeResponse
// @Router       /api/regimes [get]
func (h *RegimeHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	limit, offset := pageParams(c)
	out, err := h.uc.List(companyID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar régimen (incluye escala)
// @Tags         regimes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del régimen"
// @Param        body  body  dto.UpdateRegimeRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.RegimeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/regimes/{id} [put]
func (h *RegimeHandler) Update(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateRegimeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(companyID, id, in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "régimen no encontrado"})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar régimen
// @Tags         regimes
// @Security     Bearer
// @Param        id   path  string  true  "ID del régimen"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/regimes/{id} [delete]
func (h *RegimeHandler) Delete(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Delete(companyID, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// pageParams lee limit/offset de la query con los topes del listado.
func pageParams(c *fiber.Ctx) (int, int) {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
