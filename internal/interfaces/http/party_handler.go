package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/retencion-ar/internal/application/dto"
	"github.com/tu-usuario/retencion-ar/internal/application/usecase"
)

// PartyHandler maneja las peticiones HTTP para terceros (protegido).
type PartyHandler struct {
	uc *usecase.PartyUseCase
}

// NewPartyHandler construye el handler.
func NewPartyHandler(uc *usecase.PartyUseCase) *PartyHandler {
	return &PartyHandler{uc: uc}
}

// Create godoc
// @Summary      Crear tercero con su encuadre fiscal
// @Tags         parties
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartyRequest  true  "Datos del tercero"
// @Success      201   {object}  dto.PartyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/parties [post]
func (h *PartyHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.CreatePartyRequest
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
// @Summary      Obtener tercero por ID
// @Tags         parties
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del tercero"
// @Success      200  {object}  dto.PartyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parties/{id} [get]
func (h *PartyHandler) GetByID(c *fiber.Ctx) error {
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
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tercero no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar terceros de la empresa
// @Tags         parties
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.PartyResponse
// @Router       /api/parties [get]
func (h *PartyHandler) List(c *fiber.Ctx) error {
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
// @Summary      Actualizar tercero, exenciones y jurisdicciones IIBB
// @Tags         parties
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del tercero"
// @Param        body  body  dto.UpdatePartyRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.PartyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/parties/{id} [put]
func (h *PartyHandler) Update(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdatePartyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(companyID, id, in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tercero no encontrado"})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar tercero
// @Tags         parties
// @Security     Bearer
// @Param        id   path  string  true  "ID del tercero"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parties/{id} [delete]
func (h *PartyHandler) Delete(c *fiber.Ctx) error {
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
