// Package salary calcula el ciclo de pago mensual de los trabajadores.
//
// Un día de pago D etiqueta el periodo por el mes de la obligación: antes del día D
// el ciclo vigente sigue siendo el del mes anterior. Todas las funciones son puras y
// reciben "hoy" explícitamente.
package salary

import (
	"fmt"
	"time"

	"github.com/jhoicas/erp-location-api/internal/domain"
	"github.com/jhoicas/erp-location-api/internal/domain/entity"
)

// Rango permitido del día de pago. Sin 29-31 para no depender del largo del mes.
const (
	MinPayDay = 1
	MaxPayDay = 28
)

// Status estado de pago de un trabajador en su ciclo vigente.
type Status string

const (
	StatusNone    Status = "none"
	StatusPaid    Status = "paid"
	StatusDue     Status = "due"
	StatusOverdue Status = "overdue"
)

// Period etiqueta "YYYY-MM" de un ciclo de pago.
type Period string

// NewPeriod construye el periodo de un año y mes.
func NewPeriod(year int, month time.Month) Period {
	return Period(fmt.Sprintf("%04d-%02d", year, int(month)))
}

// ParsePeriod valida una etiqueta "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return "", fmt.Errorf("periodo %q: %w", s, domain.ErrInvalidInput)
	}
	return NewPeriod(t.Year(), t.Month()), nil
}

// CalendarPeriod periodo del mes calendario de date.
func CalendarPeriod(date time.Time) Period {
	return NewPeriod(date.Year(), date.Month())
}

func (p Period) String() string { return string(p) }

// ValidatePayDay rechaza días fuera de 1..28 (no se recortan).
func ValidatePayDay(day int) error {
	if day < MinPayDay || day > MaxPayDay {
		return fmt.Errorf("día de pago %d fuera de %d..%d: %w", day, MinPayDay, MaxPayDay, domain.ErrInvalidInput)
	}
	return nil
}

// PaymentCycle periodo que cubre date para un día de pago: si el día del mes es anterior
// a payDay el ciclo es el mes anterior (enero retrocede a diciembre del año previo).
func PaymentCycle(date time.Time, payDay int) Period {
	year, month, day := date.Date()
	if day < payDay {
		month--
		if month < time.January {
			month = time.December
			year--
		}
	}
	return NewPeriod(year, month)
}

// NextPaymentDate próxima fecha de pago a partir de today (incluido). nil si el trabajador
// no tiene día de pago.
func NextPaymentDate(w *entity.Ouvrier, today time.Time) *time.Time {
	if w == nil || w.PayDay == nil {
		return nil
	}
	payDay := *w.PayDay
	year, month, day := today.Date()
	if day > payDay {
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
	next := time.Date(year, month, payDay, 0, 0, 0, 0, today.Location())
	return &next
}

// PaymentStatus estado del ciclo vigente: paid si algún pago del trabajador tiene el periodo,
// overdue pasado el día de pago, due el mismo día, none antes o sin día de pago.
func PaymentStatus(w *entity.Ouvrier, payments []entity.SalaryPayment, today time.Time) Status {
	if w == nil || w.PayDay == nil {
		return StatusNone
	}
	payDay := *w.PayDay
	period := PaymentCycle(today, payDay)
	if IsPaid(w.ID, payments, period) {
		return StatusPaid
	}
	switch day := today.Day(); {
	case day > payDay:
		return StatusOverdue
	case day == payDay:
		return StatusDue
	default:
		return StatusNone
	}
}

// IsPaid indica si existe algún pago del trabajador para el periodo.
func IsPaid(ouvrierID string, payments []entity.SalaryPayment, period Period) bool {
	for _, p := range payments {
		if p.OuvrierID == ouvrierID && p.Period == string(period) {
			return true
		}
	}
	return false
}

// NeedsAttention trabajadores a resaltar en el tablero (due u overdue).
func (s Status) NeedsAttention() bool {
	return s == StatusDue || s == StatusOverdue
}
