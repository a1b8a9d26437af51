package rental

import "github.com/jhoicas/erp-location-api/internal/domain/entity"

// Selection resultado de evaluar qué ítems de un servicio pueden devolverse.
type Selection struct {
	// Legacy true si se usó la vía de compatibilidad (marcadores por servicio).
	Legacy bool
	// Returnable ítems iniciados y no devueltos.
	Returnable []entity.ServiceItem
	// Eligible ítems que participan en el ciclo de alquiler.
	Eligible int
	// Outstanding ítems elegibles aún sin rental_return (iniciados o no).
	Outstanding int
}

// Select decide los ítems devolvibles. Dos vías explícitas, nunca combinadas: la antigua cuando el
// servicio tiene un inicio por servicio sin devolución por servicio; la estructurada en otro caso.
func Select(items []entity.ServiceItem, marks Marks, legacy LegacyMarks) Selection {
	if legacy.Active() {
		return selectLegacy(items, marks)
	}
	return selectStructured(items, marks)
}

// selectLegacy todos los ítems del servicio salvo los que ya tienen rental_return por ítem.
func selectLegacy(items []entity.ServiceItem, marks Marks) Selection {
	sel := Selection{Legacy: true, Eligible: len(items)}
	for _, it := range items {
		if marks.IsReturned(it.ID) {
			continue
		}
		sel.Returnable = append(sel.Returnable, it)
		sel.Outstanding++
	}
	return sel
}

func selectStructured(items []entity.ServiceItem, marks Marks) Selection {
	var sel Selection
	for _, it := range items {
		if !it.IsRentalEligible() {
			continue
		}
		sel.Eligible++
		if marks.IsReturned(it.ID) {
			continue
		}
		sel.Outstanding++
		if marks.IsStarted(it.ID) {
			sel.Returnable = append(sel.Returnable, it)
		}
	}
	return sel
}

// Restrict intersección de los devolvibles con itemIDs. Sin itemIDs devuelve todos; los IDs
// que no son devolvibles se ignoran.
func (s Selection) Restrict(itemIDs []string) []entity.ServiceItem {
	if len(itemIDs) == 0 {
		return s.Returnable
	}
	wanted := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = struct{}{}
	}
	var out []entity.ServiceItem
	for _, it := range s.Returnable {
		if _, ok := wanted[it.ID]; ok {
			out = append(out, it)
		}
	}
	return out
}

// Completed todos los ítems elegibles tienen devolución: el servicio puede pasar a returned.
func (s Selection) Completed() bool {
	return s.Eligible > 0 && s.Outstanding == 0
}
