package rental_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-location-api/internal/domain/entity"
	"github.com/jhoicas/erp-location-api/internal/domain/rental"
)

var today = time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)

func day(offset int) *time.Time {
	d := rental.Day(today).AddDate(0, 0, offset)
	return &d
}

func item(id string, start, end *time.Time) entity.ServiceItem {
	return entity.ServiceItem{ID: id, TenantID: "t-1", ServiceID: "s-1", ArticleID: "a-" + id, Qty: 2, RentalStart: start, RentalEnd: end}
}

func TestClassify(t *testing.T) {
	marks := rental.NewMarks()
	marks.MarkStarted("started")
	marks.MarkStarted("returned")
	marks.MarkReturned("returned")

	cases := []struct {
		item entity.ServiceItem
		want rental.ItemState
	}{
		{item("sale", nil, nil), rental.StateIneligible},
		{item("future", day(1), day(3)), rental.StateScheduled},
		{item("today", day(0), day(0)), rental.StateDue},
		{item("past", day(-2), day(3)), rental.StateDue},
		{item("started", day(-2), day(3)), rental.StateStarted},
		{item("returned", day(-5), day(-1)), rental.StateReturned},
	}
	for _, tc := range cases {
		t.Run(tc.item.ID, func(t *testing.T) {
			it := tc.item
			assert.Equal(t, tc.want, rental.Classify(&it, marks, today))
		})
	}
}

func TestOnOrBefore_IgnoraHora(t *testing.T) {
	startOfDay := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	assert.True(t, rental.OnOrBefore(startOfDay, today))
	assert.True(t, rental.OnOrBefore(today, startOfDay))
	assert.False(t, rental.OnOrBefore(startOfDay.AddDate(0, 0, 1), today))
}

func TestMovimientos_SignoYReferencia(t *testing.T) {
	it := item("i-1", day(0), day(2))
	start := rental.StartMovement(it, today)
	ret := rental.ReturnMovement(it, today)

	assert.Equal(t, -2, start.QtyDelta)
	assert.Equal(t, 2, ret.QtyDelta)
	assert.Equal(t, 0, start.QtyDelta+ret.QtyDelta, "inicio + devolución es neutro")
	assert.Equal(t, entity.ReasonRentalStart, start.Reason)
	assert.Equal(t, entity.ReasonRentalReturn, ret.Reason)
	assert.True(t, start.RefersTo(entity.RefTableServiceItems, "i-1"))
	assert.Equal(t, "t-1", start.TenantID)
}

func TestMarksFromMovements(t *testing.T) {
	movs := []entity.StockMovement{
		rental.StartMovement(item("a", day(0), day(1)), today),
		rental.StartMovement(item("b", day(0), day(1)), today),
		rental.ReturnMovement(item("b", day(0), day(1)), today),
		{Reason: "Sale #abcdef12", QtyDelta: -1},
	}
	marks := rental.MarksFromMovements(movs)
	assert.True(t, marks.IsStarted("a"))
	assert.False(t, marks.IsReturned("a"))
	assert.True(t, marks.IsReturned("b"))
}

func TestSelect_DevolucionParcial(t *testing.T) {
	a := item("A", day(-1), day(5))
	b := item("B", day(2), day(5))
	marks := rental.NewMarks()
	marks.MarkStarted("A")

	sel := rental.Select([]entity.ServiceItem{a, b}, marks, rental.LegacyMarks{})
	require.Len(t, sel.Returnable, 1)
	assert.Equal(t, "A", sel.Returnable[0].ID)
	assert.Equal(t, 2, sel.Outstanding)
	assert.False(t, sel.Legacy)

	marks.MarkReturned("A")
	sel = rental.Select([]entity.ServiceItem{a, b}, marks, rental.LegacyMarks{})
	assert.Empty(t, sel.Returnable)
	assert.Equal(t, 1, sel.Outstanding, "B sigue pendiente")
	assert.False(t, sel.Completed())
}

func TestSelect_CompletoSoloConElegibles(t *testing.T) {
	sel := rental.Select([]entity.ServiceItem{item("x", nil, nil)}, rental.NewMarks(), rental.LegacyMarks{})
	assert.Equal(t, 0, sel.Eligible)
	assert.False(t, sel.Completed(), "un servicio sin ítems elegibles no se marca devuelto")

	marks := rental.NewMarks()
	marks.MarkStarted("A")
	marks.MarkReturned("A")
	sel = rental.Select([]entity.ServiceItem{item("A", day(-3), day(-1))}, marks, rental.LegacyMarks{})
	assert.True(t, sel.Completed())
}

func TestSelect_ViaLegacy(t *testing.T) {
	items := []entity.ServiceItem{item("A", nil, nil), item("B", nil, nil)}
	legacy := rental.LegacyMarks{Start: true}

	sel := rental.Select(items, rental.NewMarks(), legacy)
	assert.True(t, sel.Legacy)
	assert.Len(t, sel.Returnable, 2, "todos los ítems son devolvibles en bloque")

	marks := rental.NewMarks()
	marks.MarkReturned("A")
	sel = rental.Select(items, marks, legacy)
	require.Len(t, sel.Returnable, 1)
	assert.Equal(t, "B", sel.Returnable[0].ID)

	marks.MarkReturned("B")
	sel = rental.Select(items, marks, legacy)
	assert.True(t, sel.Completed())

	// Con devolución antigua se usa la vía estructurada: sin marcas por ítem no hay nada devolvible.
	sel = rental.Select(items, rental.NewMarks(), rental.LegacyMarks{Start: true, Return: true})
	assert.False(t, sel.Legacy)
	assert.Empty(t, sel.Returnable)
}

func TestSelection_Restrict(t *testing.T) {
	marks := rental.NewMarks()
	marks.MarkStarted("A")
	marks.MarkStarted("B")
	sel := rental.Select([]entity.ServiceItem{item("A", day(-1), day(1)), item("B", day(-1), day(1)), item("C", day(3), day(4))}, marks, rental.LegacyMarks{})

	assert.Len(t, sel.Restrict(nil), 2)
	got := sel.Restrict([]string{"B", "C", "inexistente"})
	require.Len(t, got, 1, "los no devolvibles se excluyen sin error")
	assert.Equal(t, "B", got[0].ID)
}

func TestClassifyLegacyReason(t *testing.T) {
	cases := []struct {
		reason     string
		start, ret bool
	}{
		{"Location #1a2b3c4d", true, false},
		{"location #1a2b3c4d", true, false},
		{"location_return #1a2b3c4d", false, true},
		{"LOCATION_RETURN #1a2b3c4d", false, true},
		{"Sale #1a2b3c4d", false, false},
		{"rental_start", false, false},
	}
	for _, tc := range cases {
		start, ret := rental.ClassifyLegacyReason(tc.reason)
		assert.Equal(t, tc.start, start, tc.reason)
		assert.Equal(t, tc.ret, ret, tc.reason)
	}
}

func TestLegacyMarksFromMovements(t *testing.T) {
	services := entity.RefTableServices
	s1, s2 := "s-1", "s-2"
	movs := []entity.StockMovement{
		{Reason: "Location #s-1", RefTable: &services, RefID: &s1},
		{Reason: "Location #s-2", RefTable: &services, RefID: &s2},
		{Reason: "location_return #s-2", RefTable: &services, RefID: &s2},
	}
	got := rental.LegacyMarksFromMovements(movs)
	assert.True(t, got["s-1"].Active())
	assert.False(t, got["s-2"].Active())
	assert.False(t, got["s-3"].Active())
}
