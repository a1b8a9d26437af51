package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ouvrier trabajador con salario base y día de pago mensual (1..28, nil = sin configurar).
type Ouvrier struct {
	ID          string
	TenantID    string
	Name        string
	CIN         string
	SalaireBase decimal.Decimal
	JoinedAt    *time.Time
	PayDay      *int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SalaryPayment pago de salario. Period es la etiqueta "YYYY-MM" del ciclo que cubre;
// varios pagos pueden apuntar al mismo periodo.
type SalaryPayment struct {
	ID        string
	TenantID  string
	OuvrierID string
	Amount    decimal.Decimal
	Period    string
	PaidAt    time.Time
	Notes     *string
	CreatedAt time.Time
}
