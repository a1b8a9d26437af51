package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-location-api/internal/domain/entity"
	"github.com/jhoicas/erp-location-api/internal/domain/repository"
)

var _ repository.SalaryPaymentRepository = (*SalaryPaymentRepo)(nil)

// SalaryPaymentRepo pagos de salario sobre PostgreSQL.
type SalaryPaymentRepo struct {
	q Querier
}

// NewSalaryPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalaryPaymentRepository(q Querier) *SalaryPaymentRepo {
	return &SalaryPaymentRepo{q: q}
}

const paymentColumns = `id, tenant_id, ouvrier_id, amount, period, paid_at, notes, created_at`

// Create persiste un pago.
func (r *SalaryPaymentRepo) Create(ctx context.Context, p *entity.SalaryPayment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO salary_payments (` + paymentColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, p.ID, p.TenantID, p.OuvrierID, p.Amount, p.Period, p.PaidAt, p.Notes, p.CreatedAt)
	return storeErr("create salary payment", err)
}

// ListByTenant pagos de todos los trabajadores del tenant.
func (r *SalaryPaymentRepo) ListByTenant(ctx context.Context, tenantID string) ([]entity.SalaryPayment, error) {
	query := `SELECT ` + paymentColumns + ` FROM salary_payments WHERE tenant_id = $1 ORDER BY period DESC, paid_at DESC`
	return r.collect(ctx, "list salary payments", query, tenantID)
}

// ListByOuvrier pagos del trabajador, periodo más reciente primero.
func (r *SalaryPaymentRepo) ListByOuvrier(ctx context.Context, tenantID, ouvrierID string) ([]entity.SalaryPayment, error) {
	query := `SELECT ` + paymentColumns + ` FROM salary_payments
		WHERE tenant_id = $1 AND ouvrier_id = $2 ORDER BY period DESC, paid_at DESC`
	return r.collect(ctx, "list ouvrier payments", query, tenantID, ouvrierID)
}

func (r *SalaryPaymentRepo) collect(ctx context.Context, op, query string, args ...any) ([]entity.SalaryPayment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.SalaryPayment, error) {
		var p entity.SalaryPayment
		err := row.Scan(&p.ID, &p.TenantID, &p.OuvrierID, &p.Amount, &p.Period, &p.PaidAt, &p.Notes, &p.CreatedAt)
		return p, err
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}
