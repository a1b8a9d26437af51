package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-location-api/internal/application/dto"
	appsalary "github.com/jhoicas/erp-location-api/internal/application/salary"
)

// SalaryHandler tablero de salarios (protegido, solo admin).
type SalaryHandler struct {
	uc  *appsalary.UseCase
	now func() time.Time
}

// NewSalaryHandler construye el handler.
func NewSalaryHandler(uc *appsalary.UseCase, now func() time.Time) *SalaryHandler {
	return &SalaryHandler{uc: uc, now: now}
}

// Board godoc
// @Summary      Estado de pago de los trabajadores
// @Tags         ouvriers
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SalaryBoardResponse
// @Router       /api/ouvriers/salary-status [get]
func (h *SalaryHandler) Board(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Board(c.Context(), tenantID, h.now())
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// SetPayDay godoc
// @Summary      Fijar o borrar el día de pago
// @Tags         ouvriers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del trabajador"
// @Param        body  body  dto.SetPayDayRequest  true  "pay_day 1..28 o null"
// @Success      200   {object}  dto.SalaryStatusDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/ouvriers/{id}/pay-day [put]
func (h *SalaryHandler) SetPayDay(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in dto.SetPayDayRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SetPayDay(c.Context(), tenantID, c.Params("id"), in.PayDay, h.now())
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// RecordPayment godoc
// @Summary      Registrar pago de salario
// @Tags         ouvriers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del trabajador"
// @Param        body  body  dto.RecordPaymentRequest  true  "amount, period YYYY-MM opcional"
// @Success      201   {object}  dto.SalaryPaymentDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/ouvriers/{id}/payments [post]
func (h *SalaryHandler) RecordPayment(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RecordPayment(c.Context(), tenantID, c.Params("id"), in, h.now())
	if err != nil {
		return writeError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPayments godoc
// @Summary      Pagos de un trabajador
// @Tags         ouvriers
// @Security     Bearer
// @Produce      json
// @Param        id   path   string  true  "ID del trabajador"
// @Success      200  {array}  dto.SalaryPaymentDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ouvriers/{id}/payments [get]
func (h *SalaryHandler) ListPayments(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.ListPayments(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}
