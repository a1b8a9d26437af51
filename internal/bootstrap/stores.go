// Package bootstrap arma los repositorios según STORE_DRIVER para cmd/api y cmd/reconcile.
package bootstrap

import (
	"context"
	"fmt"

	apprental "github.com/jhoicas/erp-location-api/internal/application/rental"
	"github.com/jhoicas/erp-location-api/internal/domain/repository"
	"github.com/jhoicas/erp-location-api/internal/infrastructure/memory"
	"github.com/jhoicas/erp-location-api/internal/infrastructure/postgres"
	"github.com/jhoicas/erp-location-api/pkg/config"
	"github.com/jhoicas/erp-location-api/pkg/logger"
)

// Stores repositorios y TxRunner de un mismo almacenamiento.
type Stores struct {
	Tx        apprental.TxRunner
	Services  repository.ServiceRepository
	Items     repository.ServiceItemRepository
	Movements repository.StockMovementRepository
	Ouvriers  repository.OuvrierRepository
	Payments  repository.SalaryPaymentRepository
	// Close libera conexiones; no-op en memoria.
	Close func()
}

// Open abre el almacenamiento configurado. Con postgres aplica las migraciones si DB_AUTO_MIGRATE.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Stores, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Warn().Msg("STORE_DRIVER=memory: los datos no se persisten")
		return memoryStores(memory.New()), nil
	case config.DriverPostgres:
		return postgresStores(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("driver de almacenamiento %q no soportado", cfg.Store.Driver)
	}
}

func memoryStores(store *memory.Store) *Stores {
	return &Stores{
		Tx:        store,
		Services:  store.Services(),
		Items:     store.Items(),
		Movements: store.Movements(),
		Ouvriers:  store.Ouvriers(),
		Payments:  store.Payments(),
		Close:     func() {},
	}
}

func postgresStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Stores, error) {
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.DB.ConnectionString(), log); err != nil {
			return nil, err
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &Stores{
		Tx:        postgres.NewTxRunner(pool),
		Services:  postgres.NewServiceRepository(pool),
		Items:     postgres.NewServiceItemRepository(pool),
		Movements: postgres.NewStockMovementRepository(pool),
		Ouvriers:  postgres.NewOuvrierRepository(pool),
		Payments:  postgres.NewSalaryPaymentRepository(pool),
		Close:     pool.Close,
	}, nil
}

// Reconciler construye el caso de uso de reconciliación con la configuración de reintentos.
func Reconciler(s *Stores, cfg *config.Config, log *logger.Logger, rec apprental.Recorder) *apprental.ReconcilerUseCase {
	opts := []apprental.Option{
		apprental.WithLogger(log.Component("reconciler")),
		apprental.WithRetry(apprental.RetryConfig{
			MaxRetries: uint64(cfg.Reconcile.MaxRetries),
			Base:       cfg.Reconcile.RetryBase,
		}),
	}
	if rec != nil {
		opts = append(opts, apprental.WithRecorder(rec))
	}
	return apprental.NewReconcilerUseCase(s.Tx, s.Services, s.Items, s.Movements, opts...)
}
