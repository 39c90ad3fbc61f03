package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/retencion-ar/internal/application/dto"
	"github.com/tu-usuario/retencion-ar/internal/application/withholding"
)

// VoucherHandler maneja comprobantes de pago/cobranza y su ciclo de vida:
// cálculo de retenciones, contabilización y cancelación.
type VoucherHandler struct {
	uc *withholding.UseCase
}

// NewVoucherHandler construye el handler.
func NewVoucherHandler(uc *withholding.UseCase) *VoucherHandler {
	return &VoucherHandler{uc: uc}
}

// Create godoc
// @Summary      Crear comprobante en borrador
// @Tags         vouchers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateVoucherRequest  true  "Datos del comprobante"
// @Success      201   {object}  dto.VoucherResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/vouchers [post]
func (h *VoucherHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.CreateVoucherRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateVoucher(companyID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener comprobante con sus retenciones
// @Tags         vouchers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.VoucherResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id} [get]
func (h *VoucherHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetVoucher(companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "comprobante no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar comprobantes de la empresa
// @Tags         vouchers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.VoucherResponse
// @Router       /api/vouchers [get]
func (h *VoucherHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	limit, offset := pageParams(c)
	out, err := h.uc.ListVouchers(companyID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar comprobante en borrador
// @Tags         vouchers
// @Security     Bearer
// @Param        id   path  string  true  "ID del comprobante"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id} [delete]
func (h *VoucherHandler) Delete(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.DeleteVoucher(c.Context(), companyID, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Calculate godoc
// @Summary      Recalcular retenciones del comprobante en borrador
// @Tags         vouchers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del comprobante"
// @Param        body  body  dto.CalculateVoucherRequest  false  "Base explícita opcional"
// @Success      200   {array}  dto.WithholdingResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id}/calculate [post]
func (h *VoucherHandler) Calculate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.CalculateVoucherRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	out, err := h.uc.CalculateVoucher(c.Context(), companyID, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Post godoc
// @Summary      Contabilizar comprobante: numera y emite las retenciones
// @Tags         vouchers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del comprobante"
// @Param        body  body  dto.PostVoucherRequest  false  "Números manuales opcionales"
// @Success      200   {object}  dto.VoucherResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id}/post [post]
func (h *VoucherHandler) Post(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.PostVoucherRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	if err := h.uc.PostVoucher(c.Context(), companyID, id, in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.GetVoucher(companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar comprobante: anula sus retenciones
// @Tags         vouchers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.VoucherResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id}/cancel [post]
func (h *VoucherHandler) Cancel(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.CancelVoucher(c.Context(), companyID, id); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.GetVoucher(companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddWithholding godoc
// @Summary      Cargar a mano una retención sufrida en un recibo
// @Tags         vouchers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del comprobante"
// @Param        body  body  dto.AddManualWithholdingRequest  true  "Régimen, número e importe"
// @Success      201   {object}  dto.WithholdingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id}/withholdings [post]
func (h *VoucherHandler) AddWithholding(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.AddManualWithholdingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AddManualLine(c.Context(), companyID, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
