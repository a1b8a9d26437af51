package salary_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-location-api/internal/domain"
	"github.com/jhoicas/erp-location-api/internal/domain/entity"
	"github.com/jhoicas/erp-location-api/internal/domain/salary"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func worker(payDay *int) *entity.Ouvrier {
	return &entity.Ouvrier{ID: "w-1", TenantID: "t-1", Name: "Sami", PayDay: payDay}
}

func intPtr(v int) *int { return &v }

func TestPaymentCycle_Limites(t *testing.T) {
	cases := []struct {
		name   string
		date   time.Time
		payDay int
		want   salary.Period
	}{
		{"antes del día de pago", date(2024, time.February, 5), 10, "2024-01"},
		{"el día de pago", date(2024, time.February, 10), 10, "2024-02"},
		{"enero retrocede el año", date(2024, time.January, 5), 10, "2023-12"},
		{"día de pago 1 nunca retrocede", date(2024, time.March, 1), 1, "2024-03"},
		{"fin de mes", date(2024, time.March, 31), 28, "2024-03"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, salary.PaymentCycle(tc.date, tc.payDay))
		})
	}
}

func TestValidatePayDay(t *testing.T) {
	for _, d := range []int{1, 15, 28} {
		assert.NoError(t, salary.ValidatePayDay(d))
	}
	for _, d := range []int{0, -1, 29, 31} {
		err := salary.ValidatePayDay(d)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "día %d debe rechazarse", d)
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := salary.ParsePeriod("2024-03")
	require.NoError(t, err)
	assert.Equal(t, salary.Period("2024-03"), p)

	_, err = salary.ParsePeriod("2024-13")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = salary.ParsePeriod("marzo")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNextPaymentDate(t *testing.T) {
	assert.Nil(t, salary.NextPaymentDate(worker(nil), date(2024, time.March, 3)))

	next := salary.NextPaymentDate(worker(intPtr(15)), date(2024, time.March, 15))
	require.NotNil(t, next)
	assert.Equal(t, date(2024, time.March, 15), *next, "el mismo día cuenta como próximo")

	next = salary.NextPaymentDate(worker(intPtr(15)), date(2024, time.March, 16))
	require.NotNil(t, next)
	assert.Equal(t, date(2024, time.April, 15), *next)

	next = salary.NextPaymentDate(worker(intPtr(10)), date(2024, time.December, 20))
	require.NotNil(t, next)
	assert.Equal(t, date(2025, time.January, 10), *next, "diciembre pasa a enero del año siguiente")
}

func TestPaymentStatus_Transiciones(t *testing.T) {
	w := worker(intPtr(15))

	assert.Equal(t, salary.StatusNone, salary.PaymentStatus(w, nil, date(2024, time.March, 14)))
	assert.Equal(t, salary.StatusDue, salary.PaymentStatus(w, nil, date(2024, time.March, 15)))
	assert.Equal(t, salary.StatusOverdue, salary.PaymentStatus(w, nil, date(2024, time.March, 16)))

	paid := []entity.SalaryPayment{{OuvrierID: w.ID, Period: "2024-03"}}
	for _, d := range []int{15, 16, 31} {
		assert.Equal(t, salary.StatusPaid, salary.PaymentStatus(w, paid, date(2024, time.March, d)))
	}
}

func TestPaymentStatus_IgnoraPagosDeOtrosTrabajadoresYPeriodos(t *testing.T) {
	w := worker(intPtr(15))
	payments := []entity.SalaryPayment{
		{OuvrierID: "otro", Period: "2024-03"},
		{OuvrierID: w.ID, Period: "2024-02"},
	}
	assert.Equal(t, salary.StatusOverdue, salary.PaymentStatus(w, payments, date(2024, time.March, 20)))

	// Antes del día 15 el ciclo vigente es febrero, ya pagado.
	assert.Equal(t, salary.StatusPaid, salary.PaymentStatus(w, payments, date(2024, time.March, 3)))
}

func TestPaymentStatus_SinDiaDePago(t *testing.T) {
	assert.Equal(t, salary.StatusNone, salary.PaymentStatus(worker(nil), nil, date(2024, time.March, 31)))
	assert.False(t, salary.StatusNone.NeedsAttention())
	assert.True(t, salary.StatusOverdue.NeedsAttention())
}
