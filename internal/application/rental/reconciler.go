package rental

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/jhoicas/erp-location-api/internal/domain"
	"github.com/jhoicas/erp-location-api/internal/domain/entity"
	"github.com/jhoicas/erp-location-api/internal/domain/rental"
	"github.com/jhoicas/erp-location-api/internal/domain/repository"
	"github.com/jhoicas/erp-location-api/pkg/logger"
)

// RetryConfig reintentos acotados ante fallas transitorias del almacén. Nunca se reintenta un conflicto.
type RetryConfig struct {
	MaxRetries uint64
	Base       time.Duration
}

// ReconcilerUseCase reconcilia el stock de los alquileres con el ledger de movimientos:
// aplica inicios vencidos, devuelve alquileres expirados y atiende devoluciones manuales.
type ReconcilerUseCase struct {
	serviceRepo repository.ServiceRepository
	itemRepo    repository.ServiceItemRepository
	movRepo     repository.StockMovementRepository
	txRunner    TxRunner
	log         *logger.Logger
	recorder    Recorder
	retry       RetryConfig
}

// Option configura el caso de uso.
type Option func(*ReconcilerUseCase)

// WithLogger inyecta el logger.
func WithLogger(l *logger.Logger) Option {
	return func(uc *ReconcilerUseCase) { uc.log = l }
}

// WithRecorder inyecta el receptor de métricas.
func WithRecorder(r Recorder) Option {
	return func(uc *ReconcilerUseCase) { uc.recorder = r }
}

// WithRetry configura los reintentos de ReconcileTenant.
func WithRetry(cfg RetryConfig) Option {
	return func(uc *ReconcilerUseCase) { uc.retry = cfg }
}

// NewReconcilerUseCase construye el caso de uso.
func NewReconcilerUseCase(
	txRunner TxRunner,
	serviceRepo repository.ServiceRepository,
	itemRepo repository.ServiceItemRepository,
	movRepo repository.StockMovementRepository,
	opts ...Option,
) *ReconcilerUseCase {
	uc := &ReconcilerUseCase{
		serviceRepo: serviceRepo,
		itemRepo:    itemRepo,
		movRepo:     movRepo,
		txRunner:    txRunner,
		log:         logger.Nop(),
		recorder:    nopRecorder{},
		retry:       RetryConfig{MaxRetries: 3, Base: 100 * time.Millisecond},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// StartResult resultado del barrido de inicios.
type StartResult struct {
	Due           int `json:"due"`
	Started       int `json:"started"`
	Duplicates    int `json:"duplicates"`
	SkippedLegacy int `json:"skipped_legacy"`
}

// ApplyDueRentalStarts agrega un rental_start (-qty) por cada ítem de alquiler confirmado cuyo inicio
// ya llegó y que aún no tiene uno. Idempotente: repetirlo el mismo día no agrega filas.
func (uc *ReconcilerUseCase) ApplyDueRentalStarts(ctx context.Context, tenantID string, now time.Time) (StartResult, error) {
	var res StartResult
	if tenantID == "" {
		return res, domain.ErrInvalidInput
	}

	serviceIDs, err := uc.serviceRepo.ListActiveRentalIDs(ctx, tenantID)
	if err != nil {
		return res, err
	}
	if len(serviceIDs) == 0 {
		return res, nil
	}

	// Servicios con inicio antiguo por servicio ya descontaron su stock.
	legacy, err := uc.movRepo.FindLegacyMarks(ctx, tenantID, serviceIDs)
	if err != nil {
		return res, err
	}
	eligible := make([]string, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		if legacy[id].Start {
			res.SkippedLegacy++
			continue
		}
		eligible = append(eligible, id)
	}
	if len(eligible) == 0 {
		return res, nil
	}

	due, err := uc.itemRepo.FindDueRentalItems(ctx, tenantID, eligible, rental.Day(now))
	if err != nil {
		return res, err
	}
	res.Due = len(due)
	if len(due) == 0 {
		return res, nil
	}

	err = uc.txRunner.Run(ctx, func(
		_ repository.ServiceRepository,
		_ repository.ServiceItemRepository,
		movRepo repository.StockMovementRepository,
	) error {
		marks, err := movRepo.FindItemMarks(ctx, tenantID, itemIDs(due))
		if err != nil {
			return err
		}
		var batch []entity.StockMovement
		for _, it := range due {
			if marks.IsStarted(it.ID) {
				continue
			}
			batch = append(batch, rental.StartMovement(it, now))
		}
		if len(batch) == 0 {
			return nil
		}
		inserted, err := movRepo.AppendRentalMarks(ctx, batch)
		if err != nil {
			return err
		}
		res.Started = len(inserted)
		res.Duplicates = len(batch) - len(inserted)
		return nil
	})
	if err != nil {
		return StartResult{Due: res.Due, SkippedLegacy: res.SkippedLegacy}, fmt.Errorf("aplicar inicios de alquiler: %w", err)
	}
	return res, nil
}

// SweepResult resultado del barrido de expirados.
type SweepResult struct {
	Expired          int `json:"expired"`
	ItemsReturned    int `json:"items_returned"`
	ServicesReturned int `json:"services_returned"`
	Duplicates       int `json:"duplicates"`
	Failed           int `json:"failed"`
}

// AutoReturnExpired devuelve todos los ítems iniciados y no devueltos de los alquileres confirmados
// cuyo rental_end de servicio ya pasó, y marca returned los que quedan sin pendientes.
// Debe correr después de ApplyDueRentalStarts en la misma pasada.
func (uc *ReconcilerUseCase) AutoReturnExpired(ctx context.Context, tenantID string, now time.Time) (SweepResult, error) {
	var res SweepResult
	if tenantID == "" {
		return res, domain.ErrInvalidInput
	}
	expired, err := uc.serviceRepo.ListExpiredRentalIDs(ctx, tenantID, rental.Day(now))
	if err != nil {
		return res, err
	}
	res.Expired = len(expired)

	var errs []error
	for _, serviceID := range expired {
		out, err := uc.returnItems(ctx, tenantID, serviceID, nil, now)
		if err != nil && !errors.Is(err, domain.ErrConflict) {
			res.Failed++
			errs = append(errs, fmt.Errorf("servicio %s: %w", serviceID, err))
			continue
		}
		res.ItemsReturned += len(out.Returned)
		res.Duplicates += out.Duplicates
		if out.ServiceReturned {
			res.ServicesReturned++
		}
	}
	return res, errors.Join(errs...)
}

// Summary resultado de una pasada completa para un tenant.
type Summary struct {
	TenantID string      `json:"tenant_id"`
	Date     string      `json:"date"`
	Starts   StartResult `json:"starts"`
	Returns  SweepResult `json:"returns"`
}

// ReconcileTenant pasada completa: inicios y luego expirados. Si los inicios fallan no se evalúan
// los expirados (un ítem que empieza y termina hoy debe estar iniciado antes de devolverse).
func (uc *ReconcilerUseCase) ReconcileTenant(ctx context.Context, tenantID string, now time.Time) (*Summary, error) {
	began := time.Now()
	sum := &Summary{TenantID: tenantID, Date: rental.Day(now).Format(time.DateOnly)}

	err := uc.withRetry(ctx, func(ctx context.Context) error {
		res, err := uc.ApplyDueRentalStarts(ctx, tenantID, now)
		sum.Starts = res
		return err
	})
	if err != nil {
		uc.recorder.ObservePass(sum, err, time.Since(began))
		return sum, err
	}

	err = uc.withRetry(ctx, func(ctx context.Context) error {
		res, err := uc.AutoReturnExpired(ctx, tenantID, now)
		sum.Returns = res
		return err
	})
	if err != nil {
		err = fmt.Errorf("devolver alquileres expirados: %w", err)
	}
	uc.recorder.ObservePass(sum, err, time.Since(began))
	return sum, err
}

// SyncBestEffort pasada en segundo plano (carga de la app o del listado): los errores se registran y se descartan.
func (uc *ReconcilerUseCase) SyncBestEffort(ctx context.Context, tenantID string, now time.Time) *Summary {
	sum, err := uc.ReconcileTenant(ctx, tenantID, now)
	log := uc.log.Tenant(tenantID)
	if err != nil {
		log.Warn().Err(err).Msg("sincronización de alquileres omitida")
		return sum
	}
	if sum.Starts.Started > 0 || sum.Returns.ItemsReturned > 0 {
		log.Info().
			Int("started", sum.Starts.Started).
			Int("returned", sum.Returns.ItemsReturned).
			Int("services_returned", sum.Returns.ServicesReturned).
			Msg("alquileres reconciliados")
	}
	return sum
}

func (uc *ReconcilerUseCase) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	if uc.retry.MaxRetries == 0 {
		return fn(ctx)
	}
	b := retry.WithMaxRetries(uc.retry.MaxRetries, retry.NewExponential(uc.retry.Base))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if isTransient(err) {
			uc.log.Debug().Err(err).Msg("falla transitoria, reintentando")
			return retry.RetryableError(err)
		}
		return err
	})
}

func isTransient(err error) bool {
	return err != nil && errors.Is(err, domain.ErrTransientStore) && !errors.Is(err, domain.ErrConflict)
}

func itemIDs(items []entity.ServiceItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}
