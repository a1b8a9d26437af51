package repository

import (
	"context"

	"github.com/jhoicas/erp-location-api/internal/domain/entity"
)

// OuvrierRepository puerto de persistencia de trabajadores.
type OuvrierRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*entity.Ouvrier, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.Ouvrier, error)
	// UpdatePayDay fija o borra (nil) el día de pago.
	UpdatePayDay(ctx context.Context, tenantID, id string, payDay *int) error
}

// SalaryPaymentRepository puerto de persistencia de pagos de salario.
type SalaryPaymentRepository interface {
	Create(ctx context.Context, payment *entity.SalaryPayment) error
	ListByTenant(ctx context.Context, tenantID string) ([]entity.SalaryPayment, error)
	// ListByOuvrier pagos del trabajador, periodo más reciente primero.
	ListByOuvrier(ctx context.Context, tenantID, ouvrierID string) ([]entity.SalaryPayment, error)
}
