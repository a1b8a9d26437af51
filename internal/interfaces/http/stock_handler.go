package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-location-api/internal/application/dto"
	appstock "github.com/jhoicas/erp-location-api/internal/application/stock"
)

// StockHandler stock derivado del ledger (protegido).
type StockHandler struct {
	uc  *appstock.UseCase
	now func() time.Time
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *appstock.UseCase, now func() time.Time) *StockHandler {
	return &StockHandler{uc: uc, now: now}
}

// Overview godoc
// @Summary      Stock disponible por artículo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockLevelDTO
// @Router       /api/stock [get]
func (h *StockHandler) Overview(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Overview(c.Context(), tenantID)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Movimientos de un artículo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        articleId  path   string  true   "ID del artículo"
// @Param        limit      query  int     false  "Tamaño de página (máx. 100)"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.StockHistoryResponse
// @Router       /api/stock/{articleId}/movements [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	out, err := h.uc.History(c.Context(), tenantID, c.Params("articleId"), page)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockAdjustmentRequest  true  "article_id, qty con signo, reason"
// @Success      201   {object}  dto.StockLevelDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in dto.StockAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Adjust(c.Context(), tenantID, in, h.now())
	if err != nil {
		return writeError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
