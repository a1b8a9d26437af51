package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-location-api/internal/application/dto"
	apprental "github.com/jhoicas/erp-location-api/internal/application/rental"
	appservice "github.com/jhoicas/erp-location-api/internal/application/service"
)

// RentalHandler reconciliación y devoluciones de alquileres (protegido).
type RentalHandler struct {
	uc  *apprental.ReconcilerUseCase
	now func() time.Time
}

// NewRentalHandler construye el handler. now define "hoy" en la zona horaria de la app.
func NewRentalHandler(uc *apprental.ReconcilerUseCase, now func() time.Time) *RentalHandler {
	return &RentalHandler{uc: uc, now: now}
}

// Reconcile godoc
// @Summary      Reconciliar alquileres del tenant
// @Description  Aplica los inicios vencidos y luego devuelve los alquileres expirados. Idempotente.
// @Tags         rentals
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  rental.Summary
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/rentals/reconcile [post]
func (h *RentalHandler) Reconcile(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	sum, err := h.uc.ReconcileTenant(c.Context(), tenantID, h.now())
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(sum)
}

// Returnable godoc
// @Summary      Ítems devolvibles de un servicio
// @Description  Estado de cada línea (scheduled, due, started, returned) y si puede devolverse ahora.
// @Tags         rentals
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del servicio"
// @Success      200  {object}  dto.ReturnableResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/services/{id}/returnable [get]
func (h *RentalHandler) Returnable(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	view, err := h.uc.ReturnCandidates(c.Context(), tenantID, c.Params("id"), h.now())
	if err != nil {
		return writeError(c, err, "")
	}
	out := dto.ReturnableResponse{
		ServiceID: view.Service.ID,
		Status:    view.Service.Status,
		Legacy:    view.Legacy,
		Items:     make([]dto.ServiceItemResponse, 0, len(view.Items)),
	}
	for _, cand := range view.Items {
		it := appservice.ToItemResponse(cand.Item)
		it.State = string(cand.State)
		it.Returnable = cand.Returnable
		out.Items = append(out.Items, it)
	}
	return c.JSON(out)
}

// Return godoc
// @Summary      Devolver ítems de un servicio
// @Description  Sin item_ids devuelve todos los ítems devolvibles. Los IDs no devolvibles se ignoran.
// @Tags         rentals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true   "ID del servicio"
// @Param        body  body  dto.ReturnRequest  false  "item_ids opcional"
// @Success      200   {object}  dto.ReturnResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/services/{id}/return [post]
func (h *RentalHandler) Return(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in dto.ReturnRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	res, err := h.uc.PerformReturn(c.Context(), tenantID, c.Params("id"), in.ItemIDs, h.now())
	if err != nil {
		return writeError(c, err, "ALREADY_RETURNED")
	}
	out := dto.ReturnResponse{
		ServiceID:       res.ServiceID,
		Status:          res.Status,
		Legacy:          res.Legacy,
		Returned:        make([]string, 0, len(res.Returned)),
		Ignored:         res.Ignored,
		AlreadyReturned: res.AlreadyReturned,
		Remaining:       res.Remaining,
		ServiceReturned: res.ServiceReturned,
	}
	for _, it := range res.Returned {
		out.Returned = append(out.Returned, it.ID)
	}
	return c.JSON(out)
}
