package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateServiceRequest body para POST /api/services.
type CreateServiceRequest struct {
	ClientID       string             `json:"client_id"`
	Type           string             `json:"type"` // rental | sale
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	Items          []ServiceItemInput `json:"items"`
}

// ServiceItemInput línea del servicio. Fechas en formato YYYY-MM-DD (obligatorias en alquiler).
type ServiceItemInput struct {
	ArticleID     string           `json:"article_id"`
	Qty           int              `json:"qty"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	RentalDeposit *decimal.Decimal `json:"rental_deposit,omitempty"`
	RentalStart   string           `json:"rental_start,omitempty"`
	RentalEnd     string           `json:"rental_end,omitempty"`
}

// ServiceResponse servicio con sus líneas.
type ServiceResponse struct {
	ID             string                `json:"id"`
	ClientID       string                `json:"client_id"`
	Type           string                `json:"type"`
	Status         string                `json:"status"`
	RentalStart    *string               `json:"rental_start,omitempty"`
	RentalEnd      *string               `json:"rental_end,omitempty"`
	RentalDeposit  *decimal.Decimal      `json:"rental_deposit,omitempty"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	Total          decimal.Decimal       `json:"total"`
	CreatedAt      time.Time             `json:"created_at"`
	Items          []ServiceItemResponse `json:"items,omitempty"`
}

// ServiceItemResponse línea de servicio; State y Returnable solo en la vista de devolución.
type ServiceItemResponse struct {
	ID            string           `json:"id"`
	ArticleID     string           `json:"article_id"`
	Qty           int              `json:"qty"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	RentalDeposit *decimal.Decimal `json:"rental_deposit,omitempty"`
	RentalStart   *string          `json:"rental_start,omitempty"`
	RentalEnd     *string          `json:"rental_end,omitempty"`
	State         string           `json:"state,omitempty"`
	Returnable    bool             `json:"returnable,omitempty"`
}

// ServiceListResponse listado paginado de servicios.
type ServiceListResponse struct {
	Items []ServiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
