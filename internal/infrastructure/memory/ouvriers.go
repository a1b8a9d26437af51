package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-location-api/internal/domain/entity"
	"github.com/jhoicas/erp-location-api/internal/domain/repository"
)

var (
	_ repository.OuvrierRepository       = (*OuvrierRepo)(nil)
	_ repository.SalaryPaymentRepository = (*PaymentRepo)(nil)
)

// OuvrierRepo trabajadores en memoria.
type OuvrierRepo struct{ s *Store }

func (r *OuvrierRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Ouvrier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.ouvriers[id]
	if !ok || o.TenantID != tenantID {
		return nil, nil
	}
	return &o, nil
}

func (r *OuvrierRepo) ListByTenant(_ context.Context, tenantID string) ([]*entity.Ouvrier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Ouvrier
	for _, id := range r.s.ouvrierOrder {
		o := r.s.ouvriers[id]
		if o.TenantID == tenantID {
			list = append(list, &o)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *OuvrierRepo) UpdatePayDay(_ context.Context, tenantID, id string, payDay *int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.ouvriers[id]
	if !ok || o.TenantID != tenantID {
		return nil
	}
	if payDay != nil {
		v := *payDay
		payDay = &v
	}
	o.PayDay = payDay
	o.UpdatedAt = time.Now()
	r.s.ouvriers[id] = o
	return nil
}

// PaymentRepo pagos de salario en memoria.
type PaymentRepo struct{ s *Store }

func (r *PaymentRepo) Create(_ context.Context, p *entity.SalaryPayment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("CreatePayment"); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	r.s.payments = append(r.s.payments, *p)
	return nil
}

func (r *PaymentRepo) ListByTenant(_ context.Context, tenantID string) ([]entity.SalaryPayment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.SalaryPayment
	for _, p := range r.s.payments {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PaymentRepo) ListByOuvrier(_ context.Context, tenantID, ouvrierID string) ([]entity.SalaryPayment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.SalaryPayment
	for _, p := range r.s.payments {
		if p.TenantID == tenantID && p.OuvrierID == ouvrierID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Period != out[j].Period {
			return out[i].Period > out[j].Period
		}
		return out[i].PaidAt.After(out[j].PaidAt)
	})
	return out, nil
}
