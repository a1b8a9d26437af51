package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-location-api/internal/domain/entity"
	"github.com/jhoicas/erp-location-api/internal/domain/rental"
	"github.com/jhoicas/erp-location-api/internal/domain/repository"
)

var (
	_ repository.ServiceRepository     = (*ServiceRepo)(nil)
	_ repository.ServiceItemRepository = (*ItemRepo)(nil)
)

// ServiceRepo servicios en memoria.
type ServiceRepo struct {
	s  *Store
	tx *txLog
}

func (r *ServiceRepo) Create(_ context.Context, svc *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("CreateService"); err != nil {
		return err
	}
	if svc.ID == "" {
		svc.ID = uuid.New().String()
	}
	id := svc.ID
	prev, existed := r.s.services[id]
	if !existed {
		r.s.serviceOrder = append(r.s.serviceOrder, id)
	}
	r.s.services[id] = *svc
	r.tx.add(func() {
		if existed {
			r.s.services[id] = prev
			return
		}
		delete(r.s.services, id)
		r.s.serviceOrder = without(r.s.serviceOrder, id)
	})
	return nil
}

func (r *ServiceRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	svc, ok := r.s.services[id]
	if !ok || svc.TenantID != tenantID {
		return nil, nil
	}
	return &svc, nil
}

func (r *ServiceRepo) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]*entity.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Service
	for _, id := range r.s.serviceOrder {
		svc := r.s.services[id]
		if svc.TenantID == tenantID {
			list = append(list, &svc)
		}
	}
	sortedByCreated(list)
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *ServiceRepo) ListActiveRentalIDs(_ context.Context, tenantID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("ListActiveRentalIDs"); err != nil {
		return nil, err
	}
	var ids []string
	for _, id := range r.s.serviceOrder {
		svc := r.s.services[id]
		if svc.TenantID == tenantID && svc.IsActiveRental() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *ServiceRepo) ListExpiredRentalIDs(_ context.Context, tenantID string, today time.Time) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("ListExpiredRentalIDs"); err != nil {
		return nil, err
	}
	var ids []string
	for _, id := range r.s.serviceOrder {
		svc := r.s.services[id]
		if svc.TenantID != tenantID || !svc.IsActiveRental() || svc.RentalEnd == nil {
			continue
		}
		if rental.OnOrBefore(*svc.RentalEnd, today) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *ServiceRepo) UpdateStatus(_ context.Context, tenantID, id, from, to string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("UpdateStatus"); err != nil {
		return false, err
	}
	svc, ok := r.s.services[id]
	if !ok || svc.TenantID != tenantID || svc.Status != from {
		return false, nil
	}
	prev := svc
	svc.Status = to
	svc.UpdatedAt = time.Now()
	r.s.services[id] = svc
	r.tx.add(func() { r.s.services[id] = prev })
	return true, nil
}

// ItemRepo ítems de servicio en memoria.
type ItemRepo struct {
	s  *Store
	tx *txLog
}

func (r *ItemRepo) CreateBatch(_ context.Context, items []entity.ServiceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("CreateItems"); err != nil {
		return err
	}
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		id := it.ID
		prev, existed := r.s.items[id]
		if !existed {
			r.s.itemOrder = append(r.s.itemOrder, id)
		}
		r.s.items[id] = it
		r.tx.add(func() {
			if existed {
				r.s.items[id] = prev
				return
			}
			delete(r.s.items, id)
			r.s.itemOrder = without(r.s.itemOrder, id)
		})
	}
	return nil
}

func (r *ItemRepo) ListByService(_ context.Context, tenantID, serviceID string) ([]entity.ServiceItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("ListByService"); err != nil {
		return nil, err
	}
	var out []entity.ServiceItem
	for _, id := range r.s.itemOrder {
		it := r.s.items[id]
		if it.TenantID == tenantID && it.ServiceID == serviceID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *ItemRepo) FindDueRentalItems(_ context.Context, tenantID string, serviceIDs []string, today time.Time) ([]entity.ServiceItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("FindDueRentalItems"); err != nil {
		return nil, err
	}
	wanted := contains(serviceIDs)
	var out []entity.ServiceItem
	for _, id := range r.s.itemOrder {
		it := r.s.items[id]
		if it.TenantID != tenantID || !it.IsRentalEligible() {
			continue
		}
		if _, ok := wanted[it.ServiceID]; !ok {
			continue
		}
		if rental.OnOrBefore(*it.RentalStart, today) {
			out = append(out, it)
		}
	}
	return out, nil
}
