package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-location-api/internal/domain/entity"
	"github.com/jhoicas/erp-location-api/internal/domain/repository"
)

var _ repository.OuvrierRepository = (*OuvrierRepo)(nil)

// OuvrierRepo trabajadores sobre PostgreSQL.
type OuvrierRepo struct {
	q Querier
}

// NewOuvrierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOuvrierRepository(q Querier) *OuvrierRepo {
	return &OuvrierRepo{q: q}
}

const ouvrierColumns = `id, tenant_id, name, cin, salaire_base, joined_at, pay_day, created_at, updated_at`

func scanOuvrier(row pgx.Row) (*entity.Ouvrier, error) {
	var o entity.Ouvrier
	err := row.Scan(&o.ID, &o.TenantID, &o.Name, &o.CIN, &o.SalaireBase, &o.JoinedAt, &o.PayDay,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByID obtiene un trabajador del tenant; nil si no existe.
func (r *OuvrierRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Ouvrier, error) {
	query := `SELECT ` + ouvrierColumns + ` FROM ouvriers WHERE tenant_id = $1 AND id = $2`
	o, err := scanOuvrier(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get ouvrier", err)
	}
	return o, nil
}

// ListByTenant trabajadores del tenant por nombre.
func (r *OuvrierRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entity.Ouvrier, error) {
	query := `SELECT ` + ouvrierColumns + ` FROM ouvriers WHERE tenant_id = $1 ORDER BY name, id`
	rows, err := r.q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, storeErr("list ouvriers", err)
	}
	defer rows.Close()
	var list []*entity.Ouvrier
	for rows.Next() {
		o, err := scanOuvrier(rows)
		if err != nil {
			return nil, storeErr("scan ouvrier", err)
		}
		list = append(list, o)
	}
	return list, storeErr("list ouvriers", rows.Err())
}

// UpdatePayDay fija o borra (NULL) el día de pago.
func (r *OuvrierRepo) UpdatePayDay(ctx context.Context, tenantID, id string, payDay *int) error {
	query := `UPDATE ouvriers SET pay_day = $3, updated_at = now() WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query, tenantID, id, payDay)
	return storeErr("update pay day", err)
}
