package repository

import (
	"context"
	"time"

	"github.com/jhoicas/erp-location-api/internal/domain/entity"
)

// ServiceRepository puerto de persistencia de servicios (siempre acotado al tenant).
type ServiceRepository interface {
	Create(ctx context.Context, service *entity.Service) error
	// GetByID devuelve nil, nil si no existe en el tenant.
	GetByID(ctx context.Context, tenantID, id string) (*entity.Service, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Service, error)
	// ListActiveRentalIDs servicios de alquiler confirmados.
	ListActiveRentalIDs(ctx context.Context, tenantID string) ([]string, error)
	// ListExpiredRentalIDs alquileres confirmados con rental_end del servicio <= today.
	ListExpiredRentalIDs(ctx context.Context, tenantID string, today time.Time) ([]string, error)
	// UpdateStatus cambia el estado solo si el actual es from; devuelve false si no aplicó.
	UpdateStatus(ctx context.Context, tenantID, id, from, to string) (bool, error)
}

// ServiceItemRepository puerto de persistencia de ítems de servicio.
type ServiceItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.ServiceItem) error
	ListByService(ctx context.Context, tenantID, serviceID string) ([]entity.ServiceItem, error)
	// FindDueRentalItems ítems elegibles de los servicios dados con rental_start <= today.
	FindDueRentalItems(ctx context.Context, tenantID string, serviceIDs []string, today time.Time) ([]entity.ServiceItem, error)
}
