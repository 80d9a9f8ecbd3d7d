package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un ítem. Se derivan de Quantity y LowStockThreshold; "deleted" solo lo fija el borrado lógico.
const (
	ItemStatusInStock    = "in-stock"
	ItemStatusLowStock   = "low-stock"
	ItemStatusOutOfStock = "out-of-stock"
	ItemStatusDeleted    = "deleted"
)

// Item representa un artículo del inventario con su stock actual.
type Item struct {
	ID                string
	Name              string
	SKU               string // siempre en mayúsculas; único entre ítems no eliminados
	Description       string
	CategoryID        string
	Quantity          int
	LowStockThreshold int
	UnitPrice         decimal.Decimal // 2 decimales
	SupplierID        string
	Location          string
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	LastRestocked     *time.Time
}

// IsDeleted indica si el ítem fue eliminado lógicamente.
func (i *Item) IsDeleted() bool {
	return i.Status == ItemStatusDeleted
}

// TotalValue valor del stock del ítem (cantidad * precio unitario).
func (i *Item) TotalValue() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
}

// ItemDetail ítem desnormalizado con los nombres de categoría y proveedor (vista de lectura).
type ItemDetail struct {
	Item
	CategoryName string
	SupplierName string
}
