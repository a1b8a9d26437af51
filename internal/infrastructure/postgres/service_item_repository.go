package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-location-api/internal/domain/entity"
	"github.com/jhoicas/erp-location-api/internal/domain/repository"
)

var _ repository.ServiceItemRepository = (*ServiceItemRepo)(nil)

// ServiceItemRepo implementación sobre PostgreSQL (usable con pool o tx).
type ServiceItemRepo struct {
	q Querier
}

// NewServiceItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceItemRepository(q Querier) *ServiceItemRepo {
	return &ServiceItemRepo{q: q}
}

const itemColumns = `id, tenant_id, service_id, article_id, qty, unit_price, rental_deposit,
	rental_start, rental_end, created_at`

// CreateBatch inserta las líneas en un solo round-trip.
func (r *ServiceItemRepo) CreateBatch(ctx context.Context, items []entity.ServiceItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO service_items (` + itemColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	batch := &pgx.Batch{}
	now := time.Now().UTC()
	for i := range items {
		it := &items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		if it.CreatedAt.IsZero() {
			it.CreatedAt = now
		}
		batch.Queue(query, it.ID, it.TenantID, it.ServiceID, it.ArticleID, it.Qty, it.UnitPrice,
			it.RentalDeposit, it.RentalStart, it.RentalEnd, it.CreatedAt)
	}
	return storeErr("create service items", r.q.SendBatch(ctx, batch).Close())
}

// ListByService líneas del servicio en orden de creación.
func (r *ServiceItemRepo) ListByService(ctx context.Context, tenantID, serviceID string) ([]entity.ServiceItem, error) {
	query := `SELECT ` + itemColumns + ` FROM service_items
		WHERE tenant_id = $1 AND service_id = $2 ORDER BY created_at, id`
	return r.collect(ctx, "list service items", query, tenantID, serviceID)
}

// FindDueRentalItems líneas con fechas de alquiler cuyo inicio ya llegó.
func (r *ServiceItemRepo) FindDueRentalItems(ctx context.Context, tenantID string, serviceIDs []string, today time.Time) ([]entity.ServiceItem, error) {
	if len(serviceIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + itemColumns + ` FROM service_items
		WHERE tenant_id = $1 AND service_id = ANY($2)
		  AND rental_start IS NOT NULL AND rental_end IS NOT NULL
		  AND rental_start <= $3::date
		ORDER BY rental_start, created_at, id`
	return r.collect(ctx, "find due rental items", query, tenantID, serviceIDs, today.Format(time.DateOnly))
}

func (r *ServiceItemRepo) collect(ctx context.Context, op, query string, args ...any) ([]entity.ServiceItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()
	var out []entity.ServiceItem
	for rows.Next() {
		var it entity.ServiceItem
		if err := rows.Scan(&it.ID, &it.TenantID, &it.ServiceID, &it.ArticleID, &it.Qty, &it.UnitPrice,
			&it.RentalDeposit, &it.RentalStart, &it.RentalEnd, &it.CreatedAt); err != nil {
			return nil, storeErr("scan service item", err)
		}
		out = append(out, it)
	}
	return out, storeErr(op, rows.Err())
}
