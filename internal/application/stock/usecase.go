// Package stock expone el stock derivado del ledger y los ajustes manuales.
package stock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/erp-location-api/internal/application/dto"
	"github.com/jhoicas/erp-location-api/internal/domain"
	"github.com/jhoicas/erp-location-api/internal/domain/entity"
	"github.com/jhoicas/erp-location-api/internal/domain/repository"
	"github.com/jhoicas/erp-location-api/pkg/logger"
)

// UseCase consultas de stock y ajustes.
type UseCase struct {
	movRepo repository.StockMovementRepository
	log     *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(movRepo repository.StockMovementRepository, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{movRepo: movRepo, log: log}
}

// Overview stock disponible por artículo.
func (uc *UseCase) Overview(ctx context.Context, tenantID string) ([]dto.StockLevelDTO, error) {
	if tenantID == "" {
		return nil, domain.ErrInvalidInput
	}
	levels, err := uc.movRepo.StockOverview(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockLevelDTO, 0, len(levels))
	for _, l := range levels {
		out = append(out, dto.StockLevelDTO{ArticleID: l.ArticleID, Name: l.Name, OnHand: l.OnHand})
	}
	return out, nil
}

// History stock actual y movimientos del artículo, más reciente primero.
func (uc *UseCase) History(ctx context.Context, tenantID, articleID string, page dto.PageRequest) (*dto.StockHistoryResponse, error) {
	if tenantID == "" || articleID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	onHand, err := uc.movRepo.OnHand(ctx, tenantID, articleID)
	if err != nil {
		return nil, err
	}
	movs, err := uc.movRepo.ListByArticle(ctx, tenantID, articleID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.StockHistoryResponse{
		ArticleID: articleID,
		OnHand:    onHand,
		Movements: make([]dto.StockMovementDTO, 0, len(movs)),
		Page:      dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, m := range movs {
		out.Movements = append(out.Movements, dto.StockMovementDTO{
			ID: m.ID, ArticleID: m.ArticleID, QtyDelta: m.QtyDelta, Reason: m.Reason,
			RefTable: m.RefTable, RefID: m.RefID, CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

// Adjust agrega un movimiento manual con signo. El motivo no puede usar los motivos reservados
// de alquiler ni venta.
func (uc *UseCase) Adjust(ctx context.Context, tenantID string, in dto.StockAdjustmentRequest, now time.Time) (*dto.StockLevelDTO, error) {
	if tenantID == "" || strings.TrimSpace(in.ArticleID) == "" {
		return nil, fmt.Errorf("article_id requerido: %w", domain.ErrInvalidInput)
	}
	if in.Qty == 0 {
		return nil, fmt.Errorf("la cantidad del ajuste no puede ser cero: %w", domain.ErrInvalidInput)
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, fmt.Errorf("motivo requerido: %w", domain.ErrInvalidInput)
	}
	if reserved(reason) {
		return nil, fmt.Errorf("motivo reservado %q: %w", reason, domain.ErrInvalidInput)
	}
	if note := strings.TrimSpace(in.Note); note != "" {
		reason += ": " + note
	}

	mv := entity.StockMovement{
		TenantID:  tenantID,
		ArticleID: in.ArticleID,
		QtyDelta:  in.Qty,
		Reason:    reason,
		CreatedAt: now,
	}
	if err := uc.movRepo.Append(ctx, []entity.StockMovement{mv}); err != nil {
		return nil, fmt.Errorf("ajustar stock: %w", err)
	}
	onHand, err := uc.movRepo.OnHand(ctx, tenantID, in.ArticleID)
	if err != nil {
		return nil, err
	}
	uc.log.Tenant(tenantID).Info().
		Str("article_id", in.ArticleID).
		Int("qty_delta", in.Qty).
		Int64("on_hand", onHand).
		Msg("ajuste de stock")
	return &dto.StockLevelDTO{ArticleID: in.ArticleID, OnHand: onHand}, nil
}

func reserved(reason string) bool {
	r := strings.ToLower(reason)
	return r == entity.ReasonRentalStart || r == entity.ReasonRentalReturn ||
		strings.HasPrefix(r, "sale #") || strings.HasPrefix(r, "location #") || strings.HasPrefix(r, "location_return #")
}
