package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-location-api/internal/application/dto"
	"github.com/jhoicas/erp-location-api/internal/application/stock"
	"github.com/jhoicas/erp-location-api/internal/domain"
	"github.com/jhoicas/erp-location-api/internal/domain/entity"
	"github.com/jhoicas/erp-location-api/internal/infrastructure/memory"
)

const tenantID = "00000000-0000-0000-0000-00000000000a"

var now = time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

func TestAdjust_SumaAlLedger(t *testing.T) {
	store := memory.New()
	uc := stock.NewUseCase(store.Movements(), nil)
	ctx := context.Background()

	lvl, err := uc.Adjust(ctx, tenantID, dto.StockAdjustmentRequest{ArticleID: "a-1", Qty: 10, Reason: "inventario inicial"}, now)
	require.NoError(t, err)
	assert.EqualValues(t, 10, lvl.OnHand)

	lvl, err = uc.Adjust(ctx, tenantID, dto.StockAdjustmentRequest{ArticleID: "a-1", Qty: -3, Reason: "rotura", Note: "caja 4"}, now.Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 7, lvl.OnHand)

	hist, err := uc.History(ctx, tenantID, "a-1", dto.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 7, hist.OnHand)
	require.Len(t, hist.Movements, 2)
	assert.Equal(t, "rotura: caja 4", hist.Movements[0].Reason, "más reciente primero")
	assert.Nil(t, hist.Movements[0].RefTable)
}

func TestAdjust_Validaciones(t *testing.T) {
	uc := stock.NewUseCase(memory.New().Movements(), nil)
	cases := map[string]dto.StockAdjustmentRequest{
		"cantidad cero":    {ArticleID: "a-1", Qty: 0, Reason: "x"},
		"sin motivo":       {ArticleID: "a-1", Qty: 1, Reason: "  "},
		"sin artículo":     {Qty: 1, Reason: "x"},
		"motivo reservado": {ArticleID: "a-1", Qty: 1, Reason: "rental_return"},
		"marcador antiguo": {ArticleID: "a-1", Qty: 1, Reason: "Location #123"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Adjust(context.Background(), tenantID, req, now)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestOverview_NombresYTotales(t *testing.T) {
	store := memory.New()
	store.AddArticle("a-1", "Tente 3x3")
	store.AddArticle("a-2", "Chaises")
	refTable, refID := entity.RefTableServiceItems, "i-1"
	store.AddMovements(
		entity.StockMovement{TenantID: tenantID, ArticleID: "a-1", QtyDelta: 5, Reason: "inventario"},
		entity.StockMovement{TenantID: tenantID, ArticleID: "a-1", QtyDelta: -2, Reason: entity.ReasonRentalStart, RefTable: &refTable, RefID: &refID},
		entity.StockMovement{TenantID: tenantID, ArticleID: "a-2", QtyDelta: 40, Reason: "inventario"},
		entity.StockMovement{TenantID: "otro", ArticleID: "a-2", QtyDelta: 99, Reason: "inventario"},
	)
	uc := stock.NewUseCase(store.Movements(), nil)

	levels, err := uc.Overview(context.Background(), tenantID)
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, dto.StockLevelDTO{ArticleID: "a-2", Name: "Chaises", OnHand: 40}, levels[0])
	assert.Equal(t, dto.StockLevelDTO{ArticleID: "a-1", Name: "Tente 3x3", OnHand: 3}, levels[1])
}
