package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apprental "github.com/jhoicas/erp-location-api/internal/application/rental"
	appsalary "github.com/jhoicas/erp-location-api/internal/application/salary"
	appservice "github.com/jhoicas/erp-location-api/internal/application/service"
	appstock "github.com/jhoicas/erp-location-api/internal/application/stock"
	"github.com/jhoicas/erp-location-api/internal/bootstrap"
	"github.com/jhoicas/erp-location-api/internal/infrastructure/metrics"
	httpRouter "github.com/jhoicas/erp-location-api/internal/interfaces/http"
	"github.com/jhoicas/erp-location-api/pkg/config"
	"github.com/jhoicas/erp-location-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Str("timezone", cfg.App.Location.String()).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	ctx := context.Background()
	stores, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer stores.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	var recorder apprental.Recorder
	if cfg.Metrics.Enabled {
		recorder = metrics.NewRecorder(reg)
	}

	reconciler := bootstrap.Reconciler(stores, cfg, log, recorder)
	serviceUC := appservice.NewUseCase(stores.Tx, stores.Services, stores.Items, reconciler)
	stockUC := appstock.NewUseCase(stores.Movements, log.Component("stock"))
	salaryUC := appsalary.NewUseCase(stores.Ouvriers, stores.Payments, log.Component("salary"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "ERP Location API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	loc := cfg.App.Location
	httpRouter.Router(app, httpRouter.RouterDeps{
		Reconciler: reconciler,
		Services:   serviceUC,
		Stock:      stockUC,
		Salary:     salaryUC,
		JWTSecret:  cfg.JWT.Secret,
		Now:        func() time.Time { return time.Now().In(loc) },
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
