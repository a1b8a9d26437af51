package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-location-api/internal/domain/entity"
	"github.com/jhoicas/erp-location-api/internal/domain/repository"
)

var _ repository.ServiceRepository = (*ServiceRepo)(nil)

// ServiceRepo implementación sobre PostgreSQL (usable con pool o tx).
type ServiceRepo struct {
	q Querier
}

// NewServiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

const serviceColumns = `id, tenant_id, client_id, type, status, rental_start, rental_end,
	rental_deposit, discount_amount, total, created_at, updated_at`

func scanService(row pgx.Row) (*entity.Service, error) {
	var s entity.Service
	err := row.Scan(&s.ID, &s.TenantID, &s.ClientID, &s.Type, &s.Status, &s.RentalStart, &s.RentalEnd,
		&s.RentalDeposit, &s.DiscountAmount, &s.Total, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste un servicio.
func (r *ServiceRepo) Create(ctx context.Context, s *entity.Service) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	query := `
		INSERT INTO services (` + serviceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.TenantID, s.ClientID, s.Type, s.Status, s.RentalStart, s.RentalEnd,
		s.RentalDeposit, s.DiscountAmount, s.Total, s.CreatedAt, s.UpdatedAt,
	)
	return storeErr("create service", err)
}

// GetByID obtiene un servicio del tenant; nil si no existe.
func (r *ServiceRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE tenant_id = $1 AND id = $2`
	s, err := scanService(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get service", err)
	}
	return s, nil
}

// ListByTenant lista servicios del tenant, más recientes primero.
func (r *ServiceRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE tenant_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, storeErr("list services", err)
	}
	defer rows.Close()
	var list []*entity.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, storeErr("scan service", err)
		}
		list = append(list, s)
	}
	return list, storeErr("list services", rows.Err())
}

// ListActiveRentalIDs alquileres confirmados del tenant.
func (r *ServiceRepo) ListActiveRentalIDs(ctx context.Context, tenantID string) ([]string, error) {
	query := `
		SELECT id FROM services
		WHERE tenant_id = $1 AND type = $2 AND status = $3
		ORDER BY created_at`
	return r.collectIDs(ctx, "list active rentals", query, tenantID, entity.ServiceTypeRental, entity.ServiceStatusConfirmed)
}

// ListExpiredRentalIDs alquileres confirmados cuyo rental_end ya llegó.
func (r *ServiceRepo) ListExpiredRentalIDs(ctx context.Context, tenantID string, today time.Time) ([]string, error) {
	query := `
		SELECT id FROM services
		WHERE tenant_id = $1 AND type = $2 AND status = $3
		  AND rental_end IS NOT NULL AND rental_end <= $4::date
		ORDER BY rental_end, created_at`
	return r.collectIDs(ctx, "list expired rentals", query,
		tenantID, entity.ServiceTypeRental, entity.ServiceStatusConfirmed, today.Format(time.DateOnly))
}

func (r *ServiceRepo) collectIDs(ctx context.Context, op, query string, args ...any) ([]string, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, storeErr(op, err)
	}
	return ids, nil
}

// UpdateStatus cambio condicional de estado (WHERE status = from).
func (r *ServiceRepo) UpdateStatus(ctx context.Context, tenantID, id, from, to string) (bool, error) {
	query := `
		UPDATE services SET status = $4, updated_at = now()
		WHERE tenant_id = $1 AND id = $2 AND status = $3`
	tag, err := r.q.Exec(ctx, query, tenantID, id, from, to)
	if err != nil {
		return false, storeErr("update service status", err)
	}
	return tag.RowsAffected() == 1, nil
}
