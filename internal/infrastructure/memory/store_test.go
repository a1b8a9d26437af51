package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-location-api/internal/domain/entity"
	"github.com/jhoicas/erp-location-api/internal/domain/repository"
	"github.com/jhoicas/erp-location-api/internal/infrastructure/memory"
)

const tenantID = "00000000-0000-0000-0000-00000000000a"

var errAbort = errors.New("abortar transacción")

func ref(s string) *string { return &s }

func TestRun_RollbackConservaEscriturasAjenas(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	err := store.Run(ctx, func(
		_ repository.ServiceRepository,
		_ repository.ServiceItemRepository,
		movRepo repository.StockMovementRepository,
	) error {
		require.NoError(t, movRepo.Append(ctx, []entity.StockMovement{
			{TenantID: tenantID, ArticleID: "a-1", QtyDelta: -2, Reason: "Sale #dentro"},
		}))
		// Escritura concurrente fuera de la transacción (ajuste manual).
		require.NoError(t, store.Movements().Append(ctx, []entity.StockMovement{
			{TenantID: tenantID, ArticleID: "a-1", QtyDelta: 5, Reason: "ajuste"},
		}))
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	onHand, err := store.Movements().OnHand(ctx, tenantID, "a-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), onHand, "el ajuste ajeno sobrevive al rollback")
	movs := store.AllMovements()
	require.Len(t, movs, 1)
	assert.Equal(t, "ajuste", movs[0].Reason)
}

func TestRun_RollbackDeshaceSoloLoPropio(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	start := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	store.AddService(entity.Service{
		ID: "s-1", TenantID: tenantID, ClientID: "c-1",
		Type: entity.ServiceTypeRental, Status: entity.ServiceStatusConfirmed,
		RentalStart: &start, RentalEnd: &start, Total: decimal.NewFromInt(10),
	})

	err := store.Run(ctx, func(
		serviceRepo repository.ServiceRepository,
		itemRepo repository.ServiceItemRepository,
		movRepo repository.StockMovementRepository,
	) error {
		require.NoError(t, serviceRepo.Create(ctx, &entity.Service{
			ID: "s-2", TenantID: tenantID, ClientID: "c-2",
			Type: entity.ServiceTypeSale, Status: entity.ServiceStatusConfirmed,
		}))
		require.NoError(t, itemRepo.CreateBatch(ctx, []entity.ServiceItem{
			{ID: "i-2", TenantID: tenantID, ServiceID: "s-2", ArticleID: "a-1", Qty: 1},
		}))
		inserted, err := movRepo.AppendRentalMarks(ctx, []entity.StockMovement{{
			TenantID: tenantID, ArticleID: "a-1", QtyDelta: -1, Reason: entity.ReasonRentalStart,
			RefTable: ref(entity.RefTableServiceItems), RefID: ref("i-1"),
		}})
		require.NoError(t, err)
		require.Len(t, inserted, 1)
		ok, err := serviceRepo.UpdateStatus(ctx, tenantID, "s-1", entity.ServiceStatusConfirmed, entity.ServiceStatusReturned)
		require.NoError(t, err)
		require.True(t, ok)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	svc, err := store.Services().GetByID(ctx, tenantID, "s-1")
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, entity.ServiceStatusConfirmed, svc.Status, "estado restaurado")

	created, err := store.Services().GetByID(ctx, tenantID, "s-2")
	require.NoError(t, err)
	assert.Nil(t, created, "servicio creado en la transacción descartado")

	items, err := store.Items().ListByService(ctx, tenantID, "s-2")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Empty(t, store.AllMovements())

	list, err := store.Services().ListByTenant(ctx, tenantID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRun_CommitConservaTodo(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	err := store.Run(ctx, func(
		_ repository.ServiceRepository,
		_ repository.ServiceItemRepository,
		movRepo repository.StockMovementRepository,
	) error {
		return movRepo.Append(ctx, []entity.StockMovement{
			{TenantID: tenantID, ArticleID: "a-1", QtyDelta: 3, Reason: "compra"},
		})
	})
	require.NoError(t, err)

	// Un rollback posterior no toca lo ya confirmado.
	err = store.Run(ctx, func(
		_ repository.ServiceRepository,
		_ repository.ServiceItemRepository,
		_ repository.StockMovementRepository,
	) error {
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	onHand, err := store.Movements().OnHand(ctx, tenantID, "a-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), onHand)
}
