package rental

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/erp-location-api/internal/domain/entity"
)

// Compatibilidad con datos antiguos: antes de las marcas por ítem, el alquiler se registraba con un
// movimiento por servicio (ref_table = services) cuyo motivo era texto libre. Medida provisional;
// los datos nuevos usan siempre marcas por ítem.
const (
	LegacyStartPrefix  = "location #"
	LegacyReturnPrefix = "location_return #"
)

var fold = cases.Fold()

// LegacyMarks marcadores antiguos de un servicio.
type LegacyMarks struct {
	Start  bool
	Return bool
}

// Active el servicio tiene un inicio antiguo sin devolución antigua: todos sus ítems son devolvibles en bloque.
func (l LegacyMarks) Active() bool {
	return l.Start && !l.Return
}

// ClassifyLegacyReason compara el motivo por prefijo sin distinguir mayúsculas.
func ClassifyLegacyReason(reason string) (start, ret bool) {
	r := fold.String(strings.TrimSpace(reason))
	switch {
	case strings.HasPrefix(r, fold.String(LegacyReturnPrefix)):
		return false, true
	case strings.HasPrefix(r, fold.String(LegacyStartPrefix)):
		return true, false
	}
	return false, false
}

// LegacyMarksFromMovements agrupa por servicio los marcadores antiguos presentes en movements.
func LegacyMarksFromMovements(movements []entity.StockMovement) map[string]LegacyMarks {
	out := make(map[string]LegacyMarks)
	for _, mv := range movements {
		if mv.RefTable == nil || mv.RefID == nil || *mv.RefTable != entity.RefTableServices {
			continue
		}
		start, ret := ClassifyLegacyReason(mv.Reason)
		if !start && !ret {
			continue
		}
		lm := out[*mv.RefID]
		lm.Start = lm.Start || start
		lm.Return = lm.Return || ret
		out[*mv.RefID] = lm
	}
	return out
}
