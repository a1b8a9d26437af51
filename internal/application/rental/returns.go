package rental

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/erp-location-api/internal/domain"
	"github.com/jhoicas/erp-location-api/internal/domain/entity"
	"github.com/jhoicas/erp-location-api/internal/domain/rental"
	"github.com/jhoicas/erp-location-api/internal/domain/repository"
)

// ItemCandidate estado de un ítem para el operador que elige qué devolver.
type ItemCandidate struct {
	Item       entity.ServiceItem
	State      rental.ItemState
	Returnable bool
}

// ReturnCandidates vista de devolución de un servicio.
type ReturnCandidates struct {
	Service *entity.Service
	Legacy  bool
	Items   []ItemCandidate
}

// ReturnResult resultado de una devolución.
type ReturnResult struct {
	ServiceID string
	Status    string
	Legacy    bool
	// Returned ítems con rental_return insertado en esta llamada.
	Returned []entity.ServiceItem
	// Ignored IDs pedidos que no eran devolvibles.
	Ignored []string
	// AlreadyReturned IDs considerados que ya tenían rental_return.
	AlreadyReturned []string
	// Duplicates marcas descartadas por la restricción de unicidad (otra pasada ganó).
	Duplicates int
	// Remaining ítems elegibles aún sin devolver.
	Remaining       int
	ServiceReturned bool
}

type selectionState struct {
	service *entity.Service
	items   []entity.ServiceItem
	marks   rental.Marks
	legacy  rental.LegacyMarks
}

func (s selectionState) selection() rental.Selection {
	return rental.Select(s.items, s.marks, s.legacy)
}

func loadSelection(
	ctx context.Context,
	serviceRepo repository.ServiceRepository,
	itemRepo repository.ServiceItemRepository,
	movRepo repository.StockMovementRepository,
	tenantID, serviceID string,
) (selectionState, error) {
	var st selectionState
	if tenantID == "" || serviceID == "" {
		return st, domain.ErrInvalidInput
	}
	svc, err := serviceRepo.GetByID(ctx, tenantID, serviceID)
	if err != nil {
		return st, err
	}
	if svc == nil || svc.TenantID != tenantID {
		return st, domain.ErrNotFound
	}
	items, err := itemRepo.ListByService(ctx, tenantID, serviceID)
	if err != nil {
		return st, err
	}
	marks, err := movRepo.FindItemMarks(ctx, tenantID, itemIDs(items))
	if err != nil {
		return st, err
	}
	legacy, err := movRepo.FindLegacyMarks(ctx, tenantID, []string{serviceID})
	if err != nil {
		return st, err
	}
	return selectionState{service: svc, items: items, marks: marks, legacy: legacy[serviceID]}, nil
}

// GetReturnableItems ítems iniciados y no devueltos del servicio (vacío si no hay).
func (uc *ReconcilerUseCase) GetReturnableItems(ctx context.Context, tenantID, serviceID string) ([]entity.ServiceItem, error) {
	st, err := loadSelection(ctx, uc.serviceRepo, uc.itemRepo, uc.movRepo, tenantID, serviceID)
	if err != nil {
		return nil, err
	}
	return st.selection().Returnable, nil
}

// ReturnCandidates estado de cada ítem del servicio para elegir una devolución parcial.
func (uc *ReconcilerUseCase) ReturnCandidates(ctx context.Context, tenantID, serviceID string, now time.Time) (*ReturnCandidates, error) {
	st, err := loadSelection(ctx, uc.serviceRepo, uc.itemRepo, uc.movRepo, tenantID, serviceID)
	if err != nil {
		return nil, err
	}
	sel := st.selection()
	returnable := make(map[string]struct{}, len(sel.Returnable))
	for _, it := range sel.Returnable {
		returnable[it.ID] = struct{}{}
	}
	out := &ReturnCandidates{Service: st.service, Legacy: sel.Legacy}
	for i := range st.items {
		it := st.items[i]
		_, ok := returnable[it.ID]
		out.Items = append(out.Items, ItemCandidate{
			Item:       it,
			State:      rental.Classify(&it, st.marks, now),
			Returnable: ok,
		})
	}
	return out, nil
}

// PerformReturn devuelve los ítems pedidos (todos los devolvibles si requested está vacío). Los IDs no
// devolvibles se ignoran. Si no se devolvió nada porque todo ya estaba devuelto, el error es
// domain.ErrConflict junto con el resultado.
func (uc *ReconcilerUseCase) PerformReturn(ctx context.Context, tenantID, serviceID string, requested []string, now time.Time) (*ReturnResult, error) {
	out, err := uc.returnItems(ctx, tenantID, serviceID, requested, now)
	uc.recorder.ObserveReturn(out, err)
	return out, err
}

// returnItems primitiva de devolución: en una transacción lee marcas, inserta los rental_return,
// vuelve a leer el ledger y solo entonces cambia el estado del servicio.
func (uc *ReconcilerUseCase) returnItems(ctx context.Context, tenantID, serviceID string, requested []string, now time.Time) (*ReturnResult, error) {
	out := &ReturnResult{ServiceID: serviceID}
	err := uc.txRunner.Run(ctx, func(
		serviceRepo repository.ServiceRepository,
		itemRepo repository.ServiceItemRepository,
		movRepo repository.StockMovementRepository,
	) error {
		// El resultado se rehace completo en cada intento de la transacción.
		*out = ReturnResult{ServiceID: serviceID}

		st, err := loadSelection(ctx, serviceRepo, itemRepo, movRepo, tenantID, serviceID)
		if err != nil {
			return err
		}
		out.Status = st.service.Status
		if st.service.Type != entity.ServiceTypeRental {
			return fmt.Errorf("servicio %s de tipo %s: %w", serviceID, st.service.Type, domain.ErrNotReturnable)
		}
		sel := st.selection()
		out.Legacy = sel.Legacy

		selected := sel.Restrict(requested)
		out.Ignored, out.AlreadyReturned = explainExcluded(st, selected, requested)

		if len(selected) > 0 {
			batch := make([]entity.StockMovement, 0, len(selected))
			byID := make(map[string]entity.ServiceItem, len(selected))
			for _, it := range selected {
				batch = append(batch, rental.ReturnMovement(it, now))
				byID[it.ID] = it
			}
			inserted, err := movRepo.AppendRentalMarks(ctx, batch)
			if err != nil {
				return err
			}
			for _, mv := range inserted {
				out.Returned = append(out.Returned, byID[*mv.RefID])
			}
			out.Duplicates = len(batch) - len(inserted)
		}

		// Estado derivado de una lectura nueva del ledger, no de lo que se acaba de insertar.
		marks, err := movRepo.FindItemMarks(ctx, tenantID, itemIDs(st.items))
		if err != nil {
			return err
		}
		st.marks = marks
		after := st.selection()
		out.Remaining = after.Outstanding
		if st.service.Status != entity.ServiceStatusConfirmed || !after.Completed() {
			return nil
		}
		ok, err := serviceRepo.UpdateStatus(ctx, tenantID, serviceID, entity.ServiceStatusConfirmed, entity.ServiceStatusReturned)
		if err != nil {
			return err
		}
		if ok {
			out.Status = entity.ServiceStatusReturned
			out.ServiceReturned = true
		}
		return nil
	})
	if err != nil {
		return out, err
	}
	if len(out.Returned) == 0 && !out.ServiceReturned && (out.Duplicates > 0 || len(out.AlreadyReturned) > 0) {
		return out, fmt.Errorf("servicio %s: %w", serviceID, domain.ErrConflict)
	}
	return out, nil
}

// explainExcluded separa los IDs considerados que no se devolverán: ignorados (no iniciados o
// desconocidos) y ya devueltos. Sin requested se consideran todos los ítems del servicio.
func explainExcluded(st selectionState, selected []entity.ServiceItem, requested []string) (ignored, already []string) {
	chosen := make(map[string]struct{}, len(selected))
	for _, it := range selected {
		chosen[it.ID] = struct{}{}
	}
	considered := requested
	if len(considered) == 0 {
		considered = itemIDs(st.items)
	}
	for _, id := range considered {
		if _, ok := chosen[id]; ok {
			continue
		}
		if st.marks.IsReturned(id) {
			already = append(already, id)
			continue
		}
		if len(requested) > 0 {
			ignored = append(ignored, id)
		}
	}
	return ignored, already
}
