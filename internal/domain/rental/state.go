// Package rental contiene la máquina de estados de stock de los ítems alquilados.
//
// El ledger de movimientos es la única fuente de verdad: un ítem está iniciado si existe
// un movimiento rental_start que lo referencia y devuelto si existe un rental_return.
// Nada en este paquete hace I/O; los casos de uso cargan las marcas y deciden con estas funciones.
package rental

import (
	"time"

	"github.com/jhoicas/erp-location-api/internal/domain/entity"
)

// ItemState estado de un ítem de alquiler respecto al ledger.
type ItemState string

const (
	StateIneligible ItemState = "ineligible" // sin fechas de alquiler
	StateScheduled  ItemState = "scheduled"  // inicio en el futuro
	StateDue        ItemState = "due"        // inicio alcanzado, sin rental_start todavía
	StateStarted    ItemState = "started"
	StateReturned   ItemState = "returned"
)

// Day normaliza t a la medianoche UTC de su fecha calendario.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// OnOrBefore indica si la fecha de d es anterior o igual a la de today.
func OnOrBefore(d, today time.Time) bool {
	return !Day(d).After(Day(today))
}

// Marks marcas estructuradas del ledger por ID de ítem.
type Marks struct {
	started  map[string]struct{}
	returned map[string]struct{}
}

// NewMarks construye marcas vacías.
func NewMarks() Marks {
	return Marks{started: map[string]struct{}{}, returned: map[string]struct{}{}}
}

// MarksFromMovements arma las marcas a partir de movimientos rental_start/rental_return sobre service_items.
func MarksFromMovements(movements []entity.StockMovement) Marks {
	m := NewMarks()
	for _, mv := range movements {
		if mv.RefTable == nil || mv.RefID == nil || *mv.RefTable != entity.RefTableServiceItems {
			continue
		}
		switch mv.Reason {
		case entity.ReasonRentalStart:
			m.started[*mv.RefID] = struct{}{}
		case entity.ReasonRentalReturn:
			m.returned[*mv.RefID] = struct{}{}
		}
	}
	return m
}

func (m Marks) MarkStarted(itemID string)  { m.started[itemID] = struct{}{} }
func (m Marks) MarkReturned(itemID string) { m.returned[itemID] = struct{}{} }

func (m Marks) IsStarted(itemID string) bool {
	_, ok := m.started[itemID]
	return ok
}

func (m Marks) IsReturned(itemID string) bool {
	_, ok := m.returned[itemID]
	return ok
}

// Classify estado de un ítem para el día today.
func Classify(item *entity.ServiceItem, marks Marks, today time.Time) ItemState {
	if !item.IsRentalEligible() {
		return StateIneligible
	}
	switch {
	case marks.IsReturned(item.ID):
		return StateReturned
	case marks.IsStarted(item.ID):
		return StateStarted
	case OnOrBefore(*item.RentalStart, today):
		return StateDue
	default:
		return StateScheduled
	}
}

// StartMovement movimiento que descuenta el stock al iniciar el alquiler del ítem.
func StartMovement(item entity.ServiceItem, now time.Time) entity.StockMovement {
	return itemMovement(item, -item.Qty, entity.ReasonRentalStart, now)
}

// ReturnMovement movimiento que repone el stock al devolver el ítem.
func ReturnMovement(item entity.ServiceItem, now time.Time) entity.StockMovement {
	return itemMovement(item, item.Qty, entity.ReasonRentalReturn, now)
}

func itemMovement(item entity.ServiceItem, delta int, reason string, now time.Time) entity.StockMovement {
	refTable := entity.RefTableServiceItems
	refID := item.ID
	return entity.StockMovement{
		TenantID:  item.TenantID,
		ArticleID: item.ArticleID,
		QtyDelta:  delta,
		Reason:    reason,
		RefTable:  &refTable,
		RefID:     &refID,
		CreatedAt: now,
	}
}
