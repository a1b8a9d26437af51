package rental

import (
	"context"
	"time"

	"github.com/jhoicas/erp-location-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// La lectura de marcas y la inserción en el ledger ocurren en la misma transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		serviceRepo repository.ServiceRepository,
		itemRepo repository.ServiceItemRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// Recorder recibe el resultado de cada pasada y de cada devolución manual (métricas).
type Recorder interface {
	ObservePass(summary *Summary, err error, elapsed time.Duration)
	ObserveReturn(result *ReturnResult, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObservePass(*Summary, error, time.Duration) {}
func (nopRecorder) ObserveReturn(*ReturnResult, error)         {}
