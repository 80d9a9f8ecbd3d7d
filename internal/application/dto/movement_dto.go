package dto

import "time"

// RecordMovementRequest body para POST /api/movements.
type RecordMovementRequest struct {
	ItemID    string `json:"item_id" validate:"required"`
	Type      string `json:"type" validate:"required,max=20"`
	Quantity  int    `json:"quantity"`
	Reference string `json:"reference" validate:"required,notblank,max=50"`
	Notes     string `json:"notes" validate:"max=500"`
}

// AdjustStockRequest body para POST /api/movements/adjust.
// En "adjustment" Quantity es un delta con signo; Reference vacía se genera.
type AdjustStockRequest struct {
	ItemID    string `json:"item_id" validate:"required"`
	Type      string `json:"type" validate:"required,max=20"`
	Quantity  int    `json:"quantity"`
	Reference string `json:"reference" validate:"max=50"`
	Notes     string `json:"notes" validate:"max=500"`
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID           string    `json:"id"`
	ItemID       string    `json:"item_id"`
	ItemName     string    `json:"item_name,omitempty"`
	ItemSKU      string    `json:"item_sku,omitempty"`
	Type         string    `json:"type"`
	Quantity     int       `json:"quantity"`
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name,omitempty"`
	Reference    string    `json:"reference"`
	Notes        string    `json:"notes"`
	MovementDate time.Time `json:"movement_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// StockAdjustmentResponse resultado de AdjustStock: movimiento registrado e ítem actualizado.
type StockAdjustmentResponse struct {
	Movement MovementResponse `json:"movement"`
	Item     ItemResponse     `json:"item"`
}

// MovementQueryParams parámetros del listado de movimientos.
// SortDescending es puntero para distinguir "no enviado" (por defecto true).
type MovementQueryParams struct {
	ItemID         string     `query:"item_id"`
	Search         string     `query:"search"`
	Type           string     `query:"type"`
	StartDate      *time.Time `query:"-"`
	EndDate        *time.Time `query:"-"`
	SortBy         string     `query:"sort_by"`
	SortDescending *bool      `query:"-"`
	Page           int        `query:"page"`
	PageSize       int        `query:"page_size"`
}

// MovementListResponse página de movimientos.
type MovementListResponse struct {
	Movements []MovementResponse `json:"movements"`
	PageResponse
}

// MovementSummaryResponse agregado mensual por tipo.
type MovementSummaryResponse struct {
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	Type          string `json:"type"`
	Count         int    `json:"count"`
	TotalQuantity int    `json:"total_quantity"`
}
