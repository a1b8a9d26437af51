package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de servicio.
const (
	ServiceTypeRental = "rental"
	ServiceTypeSale   = "sale"
)

// Estados de servicio.
const (
	ServiceStatusDraft     = "draft"
	ServiceStatusConfirmed = "confirmed"
	ServiceStatusReturned  = "returned"
	ServiceStatusCancelled = "cancelled"
)

// Service servicio de alquiler o venta de un cliente. RentalStart/RentalEnd son la ventana
// agregada de sus ítems (mínimo inicio, máximo fin).
type Service struct {
	ID             string
	TenantID       string
	ClientID       string
	Type           string
	Status         string
	RentalStart    *time.Time
	RentalEnd      *time.Time
	RentalDeposit  *decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsActiveRental servicio de alquiler confirmado (participa en la reconciliación).
func (s *Service) IsActiveRental() bool {
	return s.Type == ServiceTypeRental && s.Status == ServiceStatusConfirmed
}

// ServiceItem línea de un servicio.
type ServiceItem struct {
	ID            string
	TenantID      string
	ServiceID     string
	ArticleID     string
	Qty           int
	UnitPrice     decimal.Decimal
	RentalDeposit *decimal.Decimal
	RentalStart   *time.Time
	RentalEnd     *time.Time
	CreatedAt     time.Time
}

// IsRentalEligible la línea tiene inicio y fin de alquiler.
func (i *ServiceItem) IsRentalEligible() bool {
	return i.RentalStart != nil && i.RentalEnd != nil
}
