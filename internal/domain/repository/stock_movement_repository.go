package repository

import (
	"context"

	"github.com/jhoicas/erp-location-api/internal/domain/entity"
	"github.com/jhoicas/erp-location-api/internal/domain/rental"
)

// StockMovementRepository puerto del ledger de stock. Solo inserciones: no hay Update ni Delete.
type StockMovementRepository interface {
	// Append inserta el lote completo; una violación de unicidad devuelve domain.ErrConflict.
	Append(ctx context.Context, movements []entity.StockMovement) error
	// AppendRentalMarks inserta marcas rental_start/rental_return omitiendo las que ya existen
	// (tenant, ref_table, ref_id, reason). Devuelve solo las filas efectivamente insertadas.
	AppendRentalMarks(ctx context.Context, movements []entity.StockMovement) ([]entity.StockMovement, error)
	// FindItemMarks marcas estructuradas existentes para los ítems indicados.
	FindItemMarks(ctx context.Context, tenantID string, itemIDs []string) (rental.Marks, error)
	// FindLegacyMarks marcadores antiguos por servicio (motivo por prefijo, ref_table = services).
	FindLegacyMarks(ctx context.Context, tenantID string, serviceIDs []string) (map[string]rental.LegacyMarks, error)
	// OnHand suma de qty_delta del artículo.
	OnHand(ctx context.Context, tenantID, articleID string) (int64, error)
	// ListByArticle historial del artículo, más reciente primero.
	ListByArticle(ctx context.Context, tenantID, articleID string, limit, offset int) ([]*entity.StockMovement, error)
	// StockOverview stock disponible por artículo del tenant.
	StockOverview(ctx context.Context, tenantID string) ([]entity.StockLevel, error)
}
