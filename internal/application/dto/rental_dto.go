package dto

// ReturnRequest body para POST /api/services/:id/return. Sin item_ids se devuelven todos los devolvibles.
type ReturnRequest struct {
	ItemIDs []string `json:"item_ids"`
}

// ReturnableResponse vista de devolución de un servicio.
type ReturnableResponse struct {
	ServiceID string                `json:"service_id"`
	Status    string                `json:"status"`
	Legacy    bool                  `json:"legacy"`
	Items     []ServiceItemResponse `json:"items"`
}

// ReturnResponse resultado de una devolución.
type ReturnResponse struct {
	ServiceID       string   `json:"service_id"`
	Status          string   `json:"status"`
	Legacy          bool     `json:"legacy"`
	Returned        []string `json:"returned"`
	Ignored         []string `json:"ignored,omitempty"`
	AlreadyReturned []string `json:"already_returned,omitempty"`
	Remaining       int      `json:"remaining"`
	ServiceReturned bool     `json:"service_returned"`
}
