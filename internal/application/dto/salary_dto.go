package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryStatusDTO fila del tablero de salarios.
type SalaryStatusDTO struct {
	OuvrierID       string          `json:"ouvrier_id"`
	Name            string          `json:"name"`
	SalaireBase     decimal.Decimal `json:"salaire_base"`
	PayDay          *int            `json:"pay_day"`
	Period          string          `json:"period,omitempty"`
	Status          string          `json:"status"`
	NextPaymentDate *string         `json:"next_payment_date,omitempty"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
}

// SalaryBoardResponse tablero completo con contadores.
type SalaryBoardResponse struct {
	Date    string            `json:"date"`
	Workers []SalaryStatusDTO `json:"workers"`
	Due     int               `json:"due"`
	Overdue int               `json:"overdue"`
}

// SetPayDayRequest body para PUT /api/ouvriers/:id/pay-day. null borra el día de pago.
type SetPayDayRequest struct {
	PayDay *int `json:"pay_day"`
}

// RecordPaymentRequest body para POST /api/ouvriers/:id/payments.
// Sin period se usa el ciclo actual del trabajador.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Period string          `json:"period,omitempty"`
	PaidAt *time.Time      `json:"paid_at,omitempty"`
	Notes  *string         `json:"notes,omitempty"`
}

// SalaryPaymentDTO pago registrado.
type SalaryPaymentDTO struct {
	ID        string          `json:"id"`
	OuvrierID string          `json:"ouvrier_id"`
	Amount    decimal.Decimal `json:"amount"`
	Period    string          `json:"period"`
	PaidAt    time.Time       `json:"paid_at"`
	Notes     *string         `json:"notes,omitempty"`
}
