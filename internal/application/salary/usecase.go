// Package salary tablero de salarios: estado del ciclo, día de pago y registro de pagos.
package salary

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-location-api/internal/application/dto"
	"github.com/jhoicas/erp-location-api/internal/domain"
	"github.com/jhoicas/erp-location-api/internal/domain/entity"
	"github.com/jhoicas/erp-location-api/internal/domain/repository"
	domsalary "github.com/jhoicas/erp-location-api/internal/domain/salary"
	"github.com/jhoicas/erp-location-api/pkg/logger"
)

// UseCase casos de uso de salarios.
type UseCase struct {
	ouvrierRepo repository.OuvrierRepository
	paymentRepo repository.SalaryPaymentRepository
	log         *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(ouvrierRepo repository.OuvrierRepository, paymentRepo repository.SalaryPaymentRepository, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{ouvrierRepo: ouvrierRepo, paymentRepo: paymentRepo, log: log}
}

// Board estado de pago de todos los trabajadores para today.
func (uc *UseCase) Board(ctx context.Context, tenantID string, today time.Time) (*dto.SalaryBoardResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrInvalidInput
	}
	workers, err := uc.ouvrierRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.paymentRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	out := &dto.SalaryBoardResponse{
		Date:    today.Format(time.DateOnly),
		Workers: make([]dto.SalaryStatusDTO, 0, len(workers)),
	}
	for _, w := range workers {
		row := statusRow(w, payments, today)
		switch domsalary.Status(row.Status) {
		case domsalary.StatusDue:
			out.Due++
		case domsalary.StatusOverdue:
			out.Overdue++
		}
		out.Workers = append(out.Workers, row)
	}
	return out, nil
}

// SetPayDay fija (1..28) o borra (nil) el día de pago del trabajador.
func (uc *UseCase) SetPayDay(ctx context.Context, tenantID, ouvrierID string, payDay *int, today time.Time) (*dto.SalaryStatusDTO, error) {
	if payDay != nil {
		if err := domsalary.ValidatePayDay(*payDay); err != nil {
			return nil, err
		}
	}
	w, err := uc.get(ctx, tenantID, ouvrierID)
	if err != nil {
		return nil, err
	}
	if err := uc.ouvrierRepo.UpdatePayDay(ctx, tenantID, ouvrierID, payDay); err != nil {
		return nil, fmt.Errorf("actualizar día de pago: %w", err)
	}
	w.PayDay = payDay
	payments, err := uc.paymentRepo.ListByOuvrier(ctx, tenantID, ouvrierID)
	if err != nil {
		return nil, err
	}
	row := statusRow(w, payments, today)
	return &row, nil
}

// RecordPayment registra un pago. Sin periodo explícito se usa el ciclo vigente del trabajador
// (o el mes calendario si no tiene día de pago).
func (uc *UseCase) RecordPayment(ctx context.Context, tenantID, ouvrierID string, in dto.RecordPaymentRequest, now time.Time) (*dto.SalaryPaymentDTO, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("el monto debe ser mayor que cero: %w", domain.ErrInvalidInput)
	}
	w, err := uc.get(ctx, tenantID, ouvrierID)
	if err != nil {
		return nil, err
	}

	period := defaultPeriod(w, now)
	if in.Period != "" {
		if period, err = domsalary.ParsePeriod(in.Period); err != nil {
			return nil, err
		}
	}
	paidAt := now
	if in.PaidAt != nil {
		paidAt = *in.PaidAt
	}

	p := &entity.SalaryPayment{
		TenantID:  tenantID,
		OuvrierID: ouvrierID,
		Amount:    in.Amount,
		Period:    period.String(),
		PaidAt:    paidAt,
		Notes:     in.Notes,
		CreatedAt: now,
	}
	if err := uc.paymentRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("registrar pago: %w", err)
	}
	uc.log.Tenant(tenantID).Info().
		Str("ouvrier_id", ouvrierID).
		Str("period", p.Period).
		Str("amount", p.Amount.String()).
		Msg("pago de salario registrado")
	out := paymentDTO(*p)
	return &out, nil
}

// ListPayments pagos del trabajador, periodo más reciente primero.
func (uc *UseCase) ListPayments(ctx context.Context, tenantID, ouvrierID string) ([]dto.SalaryPaymentDTO, error) {
	if _, err := uc.get(ctx, tenantID, ouvrierID); err != nil {
		return nil, err
	}
	payments, err := uc.paymentRepo.ListByOuvrier(ctx, tenantID, ouvrierID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SalaryPaymentDTO, 0, len(payments))
	for _, p := range payments {
		out = append(out, paymentDTO(p))
	}
	return out, nil
}

func (uc *UseCase) get(ctx context.Context, tenantID, ouvrierID string) (*entity.Ouvrier, error) {
	if tenantID == "" || ouvrierID == "" {
		return nil, domain.ErrInvalidInput
	}
	w, err := uc.ouvrierRepo.GetByID(ctx, tenantID, ouvrierID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("trabajador %s: %w", ouvrierID, domain.ErrNotFound)
	}
	return w, nil
}

func defaultPeriod(w *entity.Ouvrier, today time.Time) domsalary.Period {
	if w.PayDay == nil {
		return domsalary.CalendarPeriod(today)
	}
	return domsalary.PaymentCycle(today, *w.PayDay)
}

func statusRow(w *entity.Ouvrier, payments []entity.SalaryPayment, today time.Time) dto.SalaryStatusDTO {
	row := dto.SalaryStatusDTO{
		OuvrierID:   w.ID,
		Name:        w.Name,
		SalaireBase: w.SalaireBase,
		PayDay:      w.PayDay,
		Status:      string(domsalary.PaymentStatus(w, payments, today)),
		PaidAmount:  decimal.Zero,
	}
	if w.PayDay == nil {
		return row
	}
	period := domsalary.PaymentCycle(today, *w.PayDay)
	row.Period = period.String()
	if next := domsalary.NextPaymentDate(w, today); next != nil {
		s := next.Format(time.DateOnly)
		row.NextPaymentDate = &s
	}
	for _, p := range payments {
		if p.OuvrierID == w.ID && p.Period == row.Period {
			row.PaidAmount = row.PaidAmount.Add(p.Amount)
		}
	}
	return row
}

func paymentDTO(p entity.SalaryPayment) dto.SalaryPaymentDTO {
	return dto.SalaryPaymentDTO{
		ID:        p.ID,
		OuvrierID: p.OuvrierID,
		Amount:    p.Amount,
		Period:    p.Period,
		PaidAt:    p.PaidAt,
		Notes:     p.Notes,
	}
}
