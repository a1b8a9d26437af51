package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-location-api/internal/application/dto"
	appservice "github.com/jhoicas/erp-location-api/internal/application/service"
)

// ServiceHandler servicios de alquiler y venta (protegido).
type ServiceHandler struct {
	uc  *appservice.UseCase
	now func() time.Time
}

// NewServiceHandler construye el handler.
func NewServiceHandler(uc *appservice.UseCase, now func() time.Time) *ServiceHandler {
	return &ServiceHandler{uc: uc, now: now}
}

// List godoc
// @Summary      Listar servicios
// @Description  Reconcilia los alquileres del tenant (sin bloquear si falla) y lista los servicios.
// @Tags         services
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (máx. 100)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.ServiceListResponse
// @Router       /api/services [get]
func (h *ServiceHandler) List(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	out, err := h.uc.List(c.Context(), tenantID, page, h.now())
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear servicio
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateServiceRequest  true  "type rental|sale, client_id, líneas"
// @Success      201   {object}  dto.ServiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/services [post]
func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in dto.CreateServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), tenantID, in, h.now())
	if err != nil {
		return writeError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener servicio con sus líneas
// @Tags         services
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del servicio"
// @Success      200  {object}  dto.ServiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/services/{id} [get]
func (h *ServiceHandler) GetByID(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}
