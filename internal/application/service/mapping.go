package service

import (
	"time"

	"github.com/jhoicas/erp-location-api/internal/application/dto"
	"github.com/jhoicas/erp-location-api/internal/domain/entity"
)

// ToResponse mapea un servicio y sus líneas al DTO.
func ToResponse(svc *entity.Service, items []entity.ServiceItem) dto.ServiceResponse {
	out := dto.ServiceResponse{
		ID:             svc.ID,
		ClientID:       svc.ClientID,
		Type:           svc.Type,
		Status:         svc.Status,
		RentalStart:    dateString(svc.RentalStart),
		RentalEnd:      dateString(svc.RentalEnd),
		RentalDeposit:  svc.RentalDeposit,
		DiscountAmount: svc.DiscountAmount,
		Total:          svc.Total,
		CreatedAt:      svc.CreatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, ToItemResponse(it))
	}
	return out
}

// ToItemResponse mapea una línea al DTO.
func ToItemResponse(it entity.ServiceItem) dto.ServiceItemResponse {
	return dto.ServiceItemResponse{
		ID:            it.ID,
		ArticleID:     it.ArticleID,
		Qty:           it.Qty,
		UnitPrice:     it.UnitPrice,
		RentalDeposit: it.RentalDeposit,
		RentalStart:   dateString(it.RentalStart),
		RentalEnd:     dateString(it.RentalEnd),
	}
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}
