package dto

import "time"

// StockLevelDTO stock disponible de un artículo.
type StockLevelDTO struct {
	ArticleID string `json:"article_id"`
	Name      string `json:"name"`
	OnHand    int64  `json:"on_hand"`
}

// StockMovementDTO fila del ledger.
type StockMovementDTO struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"article_id"`
	QtyDelta  int       `json:"qty_delta"`
	Reason    string    `json:"reason"`
	RefTable  *string   `json:"ref_table,omitempty"`
	RefID     *string   `json:"ref_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StockHistoryResponse historial de un artículo con su stock actual.
type StockHistoryResponse struct {
	ArticleID string             `json:"article_id"`
	OnHand    int64              `json:"on_hand"`
	Movements []StockMovementDTO `json:"movements"`
	Page      PageResponse       `json:"page"`
}

// StockAdjustmentRequest body para POST /api/stock/adjustments. Qty con signo, distinto de cero.
type StockAdjustmentRequest struct {
	ArticleID string `json:"article_id"`
	Qty       int    `json:"qty"`
	Reason    string `json:"reason"`
	Note      string `json:"note,omitempty"`
}
