// Package metrics publica en Prometheus el resultado de las pasadas de reconciliación.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	apprental "github.com/jhoicas/erp-location-api/internal/application/rental"
	"github.com/jhoicas/erp-location-api/internal/domain"
)

var _ apprental.Recorder = (*Recorder)(nil)

// Recorder colectores del reconciliador de alquileres.
type Recorder struct {
	passes     *prometheus.CounterVec
	duration   prometheus.Histogram
	movements  *prometheus.CounterVec
	duplicates prometheus.Counter
	services   prometheus.Counter
	returns    *prometheus.CounterVec
}

// NewRecorder registra los colectores en reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "erp",
			Subsystem: "rental",
			Name:      "reconcile_passes_total",
			Help:      "Pasadas de reconciliación por resultado.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "erp",
			Subsystem: "rental",
			Name:      "reconcile_duration_seconds",
			Help:      "Duración de una pasada de reconciliación.",
			Buckets:   prometheus.DefBuckets,
		}),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "erp",
			Subsystem: "rental",
			Name:      "movements_appended_total",
			Help:      "Marcas de alquiler insertadas en el ledger.",
		}, []string{"reason"}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "erp",
			Subsystem: "rental",
			Name:      "duplicate_marks_total",
			Help:      "Marcas descartadas por la restricción de unicidad.",
		}),
		services: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "erp",
			Subsystem: "rental",
			Name:      "services_returned_total",
			Help:      "Servicios marcados como devueltos.",
		}),
		returns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "erp",
			Subsystem: "rental",
			Name:      "manual_returns_total",
			Help:      "Devoluciones manuales por resultado.",
		}, []string{"result"}),
	}
	reg.MustRegister(r.passes, r.duration, r.movements, r.duplicates, r.services, r.returns)
	return r
}

// ObservePass registra una pasada completa.
func (r *Recorder) ObservePass(sum *apprental.Summary, err error, elapsed time.Duration) {
	r.passes.WithLabelValues(result(err)).Inc()
	r.duration.Observe(elapsed.Seconds())
	if sum == nil {
		return
	}
	r.movements.WithLabelValues("rental_start").Add(float64(sum.Starts.Started))
	r.movements.WithLabelValues("rental_return").Add(float64(sum.Returns.ItemsReturned))
	r.duplicates.Add(float64(sum.Starts.Duplicates + sum.Returns.Duplicates))
	r.services.Add(float64(sum.Returns.ServicesReturned))
}

// ObserveReturn registra una devolución manual.
func (r *Recorder) ObserveReturn(res *apprental.ReturnResult, err error) {
	r.returns.WithLabelValues(result(err)).Inc()
	if res == nil {
		return
	}
	r.movements.WithLabelValues("rental_return").Add(float64(len(res.Returned)))
	r.duplicates.Add(float64(res.Duplicates))
	if res.ServiceReturned {
		r.services.Inc()
	}
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrTransientStore):
		return "transient"
	default:
		return "error"
	}
}
