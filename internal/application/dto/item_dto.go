package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un ítem. El estado nunca es entrada: se deriva.
type CreateItemRequest struct {
	Name              string          `json:"name" validate:"required,notblank,max=100"`
	SKU               string          `json:"sku" validate:"required,notblank,max=50"`
	Description       string          `json:"description" validate:"max=500"`
	CategoryID        string          `json:"category_id" validate:"required"`
	Quantity          int             `json:"quantity" validate:"min=0"`
	LowStockThreshold *int            `json:"low_stock_threshold" validate:"omitempty,min=1"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	SupplierID        string          `json:"supplier_id" validate:"required"`
	Location          string          `json:"location" validate:"max=100"`
}

// UpdateItemRequest actualización parcial. Campos nil o strings vacíos se consideran no enviados.
type UpdateItemRequest struct {
	Name              *string          `json:"name" validate:"omitempty,max=100"`
	SKU               *string          `json:"sku" validate:"omitempty,max=50"`
	Description       *string          `json:"description" validate:"omitempty,max=500"`
	CategoryID        *string          `json:"category_id"`
	Quantity          *int             `json:"quantity" validate:"omitempty,min=0"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,min=1"`
	UnitPrice         *decimal.Decimal `json:"unit_price"`
	SupplierID        *string          `json:"supplier_id"`
	Location          *string          `json:"location" validate:"omitempty,max=100"`
}

// ItemResponse salida de un ítem (desnormalizada con categoría, proveedor y valor total).
type ItemResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	SKU               string          `json:"sku"`
	Description       string          `json:"description"`
	CategoryID        string          `json:"category_id"`
	CategoryName      string          `json:"category_name,omitempty"`
	Quantity          int             `json:"quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TotalValue        decimal.Decimal `json:"total_value"`
	SupplierID        string          `json:"supplier_id"`
	SupplierName      string          `json:"supplier_name,omitempty"`
	Location          string          `json:"location"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	LastRestocked     *time.Time      `json:"last_restocked,omitempty"`
}

// ItemQueryParams parámetros del listado de ítems (query string).
type ItemQueryParams struct {
	Search         string `query:"search"`
	Category       string `query:"category"`
	Status         string `query:"status"`
	SortBy         string `query:"sort_by"`
	SortDescending bool   `query:"sort_descending"`
	Page           int    `query:"page"`
	PageSize       int    `query:"page_size"`
}

// ItemListResponse página de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	PageResponse
}

// SkuCheckResponse respuesta de GET /api/items/check-sku/:sku.
type SkuCheckResponse struct {
	SKU    string `json:"sku"`
	Exists bool   `json:"exists"`
}

// TotalValueResponse respuesta de GET /api/items/total-value.
type TotalValueResponse struct {
	TotalValue decimal.Decimal `json:"total_value"`
}
