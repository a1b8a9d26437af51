package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/erp-location-api/internal/domain"
	"github.com/jhoicas/erp-location-api/internal/domain/entity"
	"github.com/jhoicas/erp-location-api/internal/domain/rental"
	"github.com/jhoicas/erp-location-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger en memoria (solo inserción).
type MovementRepo struct {
	s  *Store
	tx *txLog
}

type markKey struct {
	tenantID, refTable, refID, reason string
}

func uniqueKey(m entity.StockMovement) (markKey, bool) {
	if m.RefTable == nil || m.RefID == nil {
		return markKey{}, false
	}
	if m.Reason != entity.ReasonRentalStart && m.Reason != entity.ReasonRentalReturn {
		return markKey{}, false
	}
	return markKey{m.TenantID, *m.RefTable, *m.RefID, m.Reason}, true
}

// existingKeys requiere s.mu tomado.
func (r *MovementRepo) existingKeys() map[markKey]struct{} {
	keys := make(map[markKey]struct{})
	for _, m := range r.s.movements {
		if k, ok := uniqueKey(m); ok {
			keys[k] = struct{}{}
		}
	}
	return keys
}

func (r *MovementRepo) Append(_ context.Context, movements []entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("Append"); err != nil {
		return err
	}
	keys := r.existingKeys()
	for _, m := range movements {
		k, ok := uniqueKey(m)
		if !ok {
			continue
		}
		if _, dup := keys[k]; dup {
			return fmt.Errorf("insert stock movements: %w", domain.ErrConflict)
		}
		keys[k] = struct{}{}
	}
	added := make(map[string]struct{}, len(movements))
	for _, m := range movements {
		m = withDefaults(m)
		r.s.movements = append(r.s.movements, m)
		added[m.ID] = struct{}{}
	}
	r.tx.add(func() { r.s.removeMovements(added) })
	return nil
}

func (r *MovementRepo) AppendRentalMarks(_ context.Context, movements []entity.StockMovement) ([]entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("AppendRentalMarks"); err != nil {
		return nil, err
	}
	keys := r.existingKeys()
	var inserted []entity.StockMovement
	for _, m := range movements {
		k, ok := uniqueKey(m)
		if !ok {
			return nil, fmt.Errorf("movimiento %q no es una marca de alquiler: %w", m.Reason, domain.ErrInvalidInput)
		}
		if _, dup := keys[k]; dup {
			continue
		}
		keys[k] = struct{}{}
		m = withDefaults(m)
		r.s.movements = append(r.s.movements, m)
		inserted = append(inserted, m)
	}
	if len(inserted) > 0 {
		added := make(map[string]struct{}, len(inserted))
		for _, m := range inserted {
			added[m.ID] = struct{}{}
		}
		r.tx.add(func() { r.s.removeMovements(added) })
	}
	return inserted, nil
}

func (r *MovementRepo) FindItemMarks(_ context.Context, tenantID string, itemIDs []string) (rental.Marks, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("FindItemMarks"); err != nil {
		return rental.Marks{}, err
	}
	wanted := contains(itemIDs)
	var matched []entity.StockMovement
	for _, m := range r.s.movements {
		if m.TenantID != tenantID || m.RefID == nil {
			continue
		}
		if _, ok := wanted[*m.RefID]; ok {
			matched = append(matched, m)
		}
	}
	return rental.MarksFromMovements(matched), nil
}

func (r *MovementRepo) FindLegacyMarks(_ context.Context, tenantID string, serviceIDs []string) (map[string]rental.LegacyMarks, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("FindLegacyMarks"); err != nil {
		return nil, err
	}
	wanted := contains(serviceIDs)
	var matched []entity.StockMovement
	for _, m := range r.s.movements {
		if m.TenantID != tenantID || m.RefID == nil {
			continue
		}
		if _, ok := wanted[*m.RefID]; ok {
			matched = append(matched, m)
		}
	}
	return rental.LegacyMarksFromMovements(matched), nil
}

func (r *MovementRepo) OnHand(_ context.Context, tenantID, articleID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var sum int64
	for _, m := range r.s.movements {
		if m.TenantID == tenantID && m.ArticleID == articleID {
			sum += int64(m.QtyDelta)
		}
	}
	return sum, nil
}

func (r *MovementRepo) ListByArticle(_ context.Context, tenantID, articleID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.TenantID == tenantID && m.ArticleID == articleID {
			list = append(list, &m)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *MovementRepo) StockOverview(_ context.Context, tenantID string) ([]entity.StockLevel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sums := map[string]int64{}
	for _, m := range r.s.movements {
		if m.TenantID == tenantID {
			sums[m.ArticleID] += int64(m.QtyDelta)
		}
	}
	out := make([]entity.StockLevel, 0, len(sums))
	for id, qty := range sums {
		out = append(out, entity.StockLevel{TenantID: tenantID, ArticleID: id, Name: r.s.articles[id], OnHand: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ArticleID < out[j].ArticleID
	})
	return out, nil
}
