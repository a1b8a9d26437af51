package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-location-api/internal/domain"
	"github.com/jhoicas/erp-location-api/internal/domain/entity"
	"github.com/jhoicas/erp-location-api/internal/domain/rental"
	"github.com/jhoicas/erp-location-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo ledger de stock sobre PostgreSQL. Solo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, tenant_id, article_id, qty_delta, reason, ref_table, ref_id, created_at`

// Columnas y predicado del índice parcial uq_stock_movements_rental_mark. ON CONFLICT solo
// infiere el índice si ambos coinciden con la migración.
const (
	rentalMarkColumns   = `(tenant_id, ref_table, ref_id, reason)`
	rentalMarkPredicate = `reason IN ('rental_start', 'rental_return')`
)

const insertRentalMarkSQL = `
	INSERT INTO stock_movements (` + movementColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT ` + rentalMarkColumns + `
		WHERE ` + rentalMarkPredicate + `
	DO NOTHING
	RETURNING id`

func prepareMovement(m *entity.StockMovement, now time.Time) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
}

// Append inserta el lote completo en un round-trip; un duplicado de marca de alquiler
// hace fallar el lote con domain.ErrConflict.
func (r *StockMovementRepo) Append(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	query := `INSERT INTO stock_movements (` + movementColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	batch := &pgx.Batch{}
	now := time.Now().UTC()
	for i := range movements {
		m := &movements[i]
		prepareMovement(m, now)
		batch.Queue(query, m.ID, m.TenantID, m.ArticleID, m.QtyDelta, m.Reason, m.RefTable, m.RefID, m.CreatedAt)
	}
	return storeErr("insert stock movements", r.q.SendBatch(ctx, batch).Close())
}

// AppendRentalMarks inserta marcas rental_start/rental_return con ON CONFLICT DO NOTHING sobre el
// índice único parcial; las filas sin RETURNING son duplicados ya presentes en el ledger.
func (r *StockMovementRepo) AppendRentalMarks(ctx context.Context, movements []entity.StockMovement) ([]entity.StockMovement, error) {
	if len(movements) == 0 {
		return nil, nil
	}
	query := insertRentalMarkSQL
	batch := &pgx.Batch{}
	now := time.Now().UTC()
	for i := range movements {
		m := &movements[i]
		if m.Reason != entity.ReasonRentalStart && m.Reason != entity.ReasonRentalReturn {
			return nil, fmt.Errorf("movimiento %q no es una marca de alquiler: %w", m.Reason, domain.ErrInvalidInput)
		}
		if m.RefTable == nil || m.RefID == nil {
			return nil, fmt.Errorf("marca de alquiler sin referencia: %w", domain.ErrInvalidInput)
		}
		prepareMovement(m, now)
		batch.Queue(query, m.ID, m.TenantID, m.ArticleID, m.QtyDelta, m.Reason, m.RefTable, m.RefID, m.CreatedAt)
	}

	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	var inserted []entity.StockMovement
	for _, m := range movements {
		var id string
		err := br.QueryRow().Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, storeErr("insert rental marks", err)
		}
		inserted = append(inserted, m)
	}
	if err := br.Close(); err != nil {
		return nil, storeErr("insert rental marks", err)
	}
	return inserted, nil
}

// FindItemMarks marcas rental_start/rental_return de los ítems.
func (r *StockMovementRepo) FindItemMarks(ctx context.Context, tenantID string, itemIDs []string) (rental.Marks, error) {
	marks := rental.NewMarks()
	if len(itemIDs) == 0 {
		return marks, nil
	}
	query := `
		SELECT ref_id, reason FROM stock_movements
		WHERE tenant_id = $1 AND ref_table = $2 AND ref_id = ANY($3)
		  AND ` + rentalMarkPredicate
	rows, err := r.q.Query(ctx, query, tenantID, entity.RefTableServiceItems, itemIDs)
	if err != nil {
		return marks, storeErr("find item marks", err)
	}
	defer rows.Close()
	for rows.Next() {
		var refID, reason string
		if err := rows.Scan(&refID, &reason); err != nil {
			return marks, storeErr("scan item mark", err)
		}
		if reason == entity.ReasonRentalStart {
			marks.MarkStarted(refID)
		} else {
			marks.MarkReturned(refID)
		}
	}
	return marks, storeErr("find item marks", rows.Err())
}

// FindLegacyMarks marcadores antiguos por servicio. El filtro ILIKE acota las filas; la
// clasificación final la hace rental.ClassifyLegacyReason.
func (r *StockMovementRepo) FindLegacyMarks(ctx context.Context, tenantID string, serviceIDs []string) (map[string]rental.LegacyMarks, error) {
	if len(serviceIDs) == 0 {
		return map[string]rental.LegacyMarks{}, nil
	}
	query := `
		SELECT ref_table, ref_id, reason FROM stock_movements
		WHERE tenant_id = $1 AND ref_table = $2 AND ref_id = ANY($3)
		  AND (reason ILIKE 'location #%' OR reason ILIKE 'location\_return #%')`
	rows, err := r.q.Query(ctx, query, tenantID, entity.RefTableServices, serviceIDs)
	if err != nil {
		return nil, storeErr("find legacy marks", err)
	}
	defer rows.Close()
	var movs []entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.RefTable, &m.RefID, &m.Reason); err != nil {
			return nil, storeErr("scan legacy mark", err)
		}
		movs = append(movs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("find legacy marks", err)
	}
	return rental.LegacyMarksFromMovements(movs), nil
}

// OnHand stock disponible del artículo: suma de qty_delta.
func (r *StockMovementRepo) OnHand(ctx context.Context, tenantID, articleID string) (int64, error) {
	query := `SELECT COALESCE(SUM(qty_delta), 0) FROM stock_movements WHERE tenant_id = $1 AND article_id = $2`
	var total int64
	if err := r.q.QueryRow(ctx, query, tenantID, articleID).Scan(&total); err != nil {
		return 0, storeErr("stock on hand", err)
	}
	return total, nil
}

// ListByArticle historial de movimientos del artículo, más reciente primero.
func (r *StockMovementRepo) ListByArticle(ctx context.Context, tenantID, articleID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE tenant_id = $1 AND article_id = $2
		ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, tenantID, articleID, limit, offset)
	if err != nil {
		return nil, storeErr("list movements by article", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.TenantID, &m.ArticleID, &m.QtyDelta, &m.Reason,
			&m.RefTable, &m.RefID, &m.CreatedAt); err != nil {
			return nil, storeErr("scan movement", err)
		}
		list = append(list, &m)
	}
	return list, storeErr("list movements by article", rows.Err())
}

// StockOverview stock por artículo desde la vista v_stock_overview.
func (r *StockMovementRepo) StockOverview(ctx context.Context, tenantID string) ([]entity.StockLevel, error) {
	query := `
		SELECT tenant_id, article_id, name, on_hand FROM v_stock_overview
		WHERE tenant_id = $1 ORDER BY name, article_id`
	rows, err := r.q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, storeErr("stock overview", err)
	}
	levels, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.StockLevel, error) {
		var l entity.StockLevel
		err := row.Scan(&l.TenantID, &l.ArticleID, &l.Name, &l.OnHand)
		return l, err
	})
	if err != nil {
		return nil, storeErr("stock overview", err)
	}
	return levels, nil
}
