package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-location-api/internal/application/dto"
	apprental "github.com/jhoicas/erp-location-api/internal/application/rental"
	"github.com/jhoicas/erp-location-api/internal/application/service"
	"github.com/jhoicas/erp-location-api/internal/domain"
	"github.com/jhoicas/erp-location-api/internal/domain/entity"
	"github.com/jhoicas/erp-location-api/internal/infrastructure/memory"
)

const tenantID = "00000000-0000-0000-0000-00000000000a"

var now = time.Date(2024, time.June, 10, 9, 30, 0, 0, time.UTC)

func newUseCase(t *testing.T) (*memory.Store, *service.UseCase) {
	t.Helper()
	store := memory.New()
	rec := apprental.NewReconcilerUseCase(store, store.Services(), store.Items(), store.Movements())
	return store, service.NewUseCase(store, store.Services(), store.Items(), rec)
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestCreate_Alquiler(t *testing.T) {
	store, uc := newUseCase(t)
	dep1, dep2 := dec("100"), dec("50.5")

	out, err := uc.Create(context.Background(), tenantID, dto.CreateServiceRequest{
		ClientID:       "c-1",
		Type:           "Rental",
		DiscountAmount: dec("20"),
		Items: []dto.ServiceItemInput{
			{ArticleID: "a-1", Qty: 2, UnitPrice: dec("30"), RentalDeposit: &dep1, RentalStart: "2024-06-12", RentalEnd: "2024-06-15"},
			{ArticleID: "a-2", Qty: 1, UnitPrice: dec("15.25"), RentalDeposit: &dep2, RentalStart: "2024-06-11", RentalEnd: "2024-06-20"},
		},
	}, now)
	require.NoError(t, err)

	assert.Equal(t, entity.ServiceTypeRental, out.Type)
	assert.Equal(t, entity.ServiceStatusConfirmed, out.Status)
	assert.True(t, dec("55.25").Equal(out.Total), out.Total.String())
	require.NotNil(t, out.RentalDeposit)
	assert.True(t, dec("150.5").Equal(*out.RentalDeposit))
	require.NotNil(t, out.RentalStart)
	assert.Equal(t, "2024-06-11", *out.RentalStart)
	assert.Equal(t, "2024-06-20", *out.RentalEnd)
	assert.Len(t, out.Items, 2)
	assert.Empty(t, store.AllMovements(), "el alquiler no descuenta stock al crearse")

	got, err := uc.Get(context.Background(), tenantID, out.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
}

func TestCreate_VentaDescuentaStock(t *testing.T) {
	store, uc := newUseCase(t)

	out, err := uc.Create(context.Background(), tenantID, dto.CreateServiceRequest{
		ClientID: "c-1",
		Type:     entity.ServiceTypeSale,
		Items: []dto.ServiceItemInput{
			{ArticleID: "a-1", Qty: 3, UnitPrice: dec("10")},
			{ArticleID: "a-2", Qty: 1, UnitPrice: dec("5"), RentalStart: "2024-06-12", RentalEnd: "2024-06-15"},
		},
	}, now)
	require.NoError(t, err)
	assert.True(t, dec("35").Equal(out.Total))
	assert.Nil(t, out.RentalStart)

	movs := store.AllMovements()
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.True(t, strings.HasPrefix(m.Reason, service.SaleReasonPrefix))
		assert.Equal(t, service.SaleReasonPrefix+out.ID[:8], m.Reason)
		assert.True(t, m.RefersTo(entity.RefTableServices, out.ID))
	}
	onHand, err := store.Movements().OnHand(context.Background(), tenantID, "a-1")
	require.NoError(t, err)
	assert.EqualValues(t, -3, onHand)
}

func TestCreate_Validaciones(t *testing.T) {
	_, uc := newUseCase(t)
	line := dto.ServiceItemInput{ArticleID: "a-1", Qty: 1, UnitPrice: dec("10"), RentalStart: "2024-06-12", RentalEnd: "2024-06-13"}

	tests := []struct {
		name string
		req  dto.CreateServiceRequest
	}{
		{"tipo desconocido", dto.CreateServiceRequest{ClientID: "c", Type: "lease", Items: []dto.ServiceItemInput{line}}},
		{"sin cliente", dto.CreateServiceRequest{Type: "rental", Items: []dto.ServiceItemInput{line}}},
		{"sin líneas", dto.CreateServiceRequest{ClientID: "c", Type: "rental"}},
		{"cantidad cero", dto.CreateServiceRequest{ClientID: "c", Type: "rental", Items: []dto.ServiceItemInput{
			{ArticleID: "a-1", Qty: 0, UnitPrice: dec("10"), RentalStart: "2024-06-12", RentalEnd: "2024-06-13"}}}},
		{"precio negativo", dto.CreateServiceRequest{ClientID: "c", Type: "sale", Items: []dto.ServiceItemInput{
			{ArticleID: "a-1", Qty: 1, UnitPrice: dec("-1")}}}},
		{"alquiler sin fechas", dto.CreateServiceRequest{ClientID: "c", Type: "rental", Items: []dto.ServiceItemInput{
			{ArticleID: "a-1", Qty: 1, UnitPrice: dec("10")}}}},
		{"fin antes del inicio", dto.CreateServiceRequest{ClientID: "c", Type: "rental", Items: []dto.ServiceItemInput{
			{ArticleID: "a-1", Qty: 1, UnitPrice: dec("10"), RentalStart: "2024-06-12", RentalEnd: "2024-06-11"}}}},
		{"fecha inválida", dto.CreateServiceRequest{ClientID: "c", Type: "rental", Items: []dto.ServiceItemInput{
			{ArticleID: "a-1", Qty: 1, UnitPrice: dec("10"), RentalStart: "12/06/2024", RentalEnd: "2024-06-13"}}}},
		{"descuento mayor al subtotal", dto.CreateServiceRequest{ClientID: "c", Type: "rental", DiscountAmount: dec("10.01"),
			Items: []dto.ServiceItemInput{line}}},
		{"descuento negativo", dto.CreateServiceRequest{ClientID: "c", Type: "rental", DiscountAmount: dec("-1"),
			Items: []dto.ServiceItemInput{line}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), tenantID, tt.req, now)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreate_FallaDelLedgerRevierteElServicio(t *testing.T) {
	store, uc := newUseCase(t)
	store.FailOn("Append", errors.New("disco lleno"))

	_, err := uc.Create(context.Background(), tenantID, dto.CreateServiceRequest{
		ClientID: "c-1", Type: entity.ServiceTypeSale,
		Items: []dto.ServiceItemInput{{ArticleID: "a-1", Qty: 1, UnitPrice: dec("10")}},
	}, now)
	require.Error(t, err)

	list, err := store.Services().ListByTenant(context.Background(), tenantID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list, "servicio y líneas se revierten con la transacción")
}

func TestList_ReconciliaAntesDeListar(t *testing.T) {
	store, uc := newUseCase(t)
	out, err := uc.Create(context.Background(), tenantID, dto.CreateServiceRequest{
		ClientID: "c-1", Type: entity.ServiceTypeRental,
		Items: []dto.ServiceItemInput{{ArticleID: "a-1", Qty: 2, UnitPrice: dec("10"), RentalStart: "2024-06-10", RentalEnd: "2024-06-14"}},
	}, now)
	require.NoError(t, err)

	list, err := uc.List(context.Background(), tenantID, dto.PageRequest{}, now)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, out.ID, list.Items[0].ID)
	assert.Equal(t, 20, list.Page.Limit)

	onHand, err := store.Movements().OnHand(context.Background(), tenantID, "a-1")
	require.NoError(t, err)
	assert.EqualValues(t, -2, onHand, "el inicio de hoy se aplicó al listar")
}

func TestList_ErroresDeSincronizacionNoBloquean(t *testing.T) {
	store, uc := newUseCase(t)
	store.FailOn("ListActiveRentalIDs", errors.New("sin red"))

	list, err := uc.List(context.Background(), tenantID, dto.PageRequest{Limit: 5}, now)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestGet_NoExiste(t *testing.T) {
	_, uc := newUseCase(t)
	_, err := uc.Get(context.Background(), tenantID, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
