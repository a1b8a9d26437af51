package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	apprental "github.com/jhoicas/erp-location-api/internal/application/rental"
	appsalary "github.com/jhoicas/erp-location-api/internal/application/salary"
	appservice "github.com/jhoicas/erp-location-api/internal/application/service"
	appstock "github.com/jhoicas/erp-location-api/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Reconciler *apprental.ReconcilerUseCase
	Services   *appservice.UseCase
	Stock      *appstock.UseCase
	Salary     *appsalary.UseCase
	JWTSecret  string
	// Now reloj de la app, ya convertido a la zona horaria configurada.
	Now func() time.Time
}

// Router registra las rutas de la API. Todas requieren Bearer Token con tenant_id.
func Router(app *fiber.App, deps RouterDeps) {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	api := app.Group("/api")
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	staff := RequireRole(RoleAdmin, RoleOperator)

	rentalHandler := NewRentalHandler(deps.Reconciler, now)
	protected.Post("/rentals/reconcile", staff, rentalHandler.Reconcile)

	// Services (alquiler y venta)
	services := protected.Group("/services", staff)
	serviceHandler := NewServiceHandler(deps.Services, now)
	services.Get("/", serviceHandler.List)
	services.Post("/", serviceHandler.Create)
	services.Get("/:id", serviceHandler.GetByID)
	services.Get("/:id/returnable", rentalHandler.Returnable)
	services.Post("/:id/return", rentalHandler.Return)

	// Stock (derivado del ledger)
	stock := protected.Group("/stock", staff)
	stockHandler := NewStockHandler(deps.Stock, now)
	stock.Get("/", stockHandler.Overview)
	stock.Get("/:articleId/movements", stockHandler.History)
	stock.Post("/adjustments", RequireRole(RoleAdmin), stockHandler.Adjust)

	// Salarios (solo admin)
	ouvriers := protected.Group("/ouvriers", RequireRole(RoleAdmin))
	salaryHandler := NewSalaryHandler(deps.Salary, now)
	ouvriers.Get("/salary-status", salaryHandler.Board)
	ouvriers.Put("/:id/pay-day", salaryHandler.SetPayDay)
	ouvriers.Get("/:id/payments", salaryHandler.ListPayments)
	ouvriers.Post("/:id/payments", salaryHandler.RecordPayment)
}
