package entity

import "time"

// Motivos estructurados del ledger para alquileres (uno por ítem de servicio).
const (
	ReasonRentalStart  = "rental_start"
	ReasonRentalReturn = "rental_return"
)

// Tablas referenciadas por los movimientos.
const (
	RefTableServiceItems = "service_items"
	RefTableServices     = "services"
)

// StockMovement fila del ledger de stock (solo inserción). QtyDelta negativo = salida.
// El stock disponible de un artículo es la suma de QtyDelta de sus movimientos.
type StockMovement struct {
	ID        string
	TenantID  string
	ArticleID string
	QtyDelta  int
	Reason    string
	RefTable  *string
	RefID     *string
	CreatedAt time.Time
}

// RefersTo indica si el movimiento referencia la fila (table, id).
func (m StockMovement) RefersTo(table, id string) bool {
	return m.RefTable != nil && m.RefID != nil && *m.RefTable == table && *m.RefID == id
}

// StockLevel stock disponible de un artículo derivado del ledger.
type StockLevel struct {
	TenantID  string
	ArticleID string
	Name      string
	OnHand    int64
}
