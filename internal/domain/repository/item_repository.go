package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-core/internal/domain/entity"
)

// Claves de ordenamiento para listados de ítems.
const (
	ItemSortName        = "name"
	ItemSortSKU         = "sku"
	ItemSortQuantity    = "quantity"
	ItemSortValue       = "value"
	ItemSortLastUpdated = "lastupdated"
)

// ItemFilter criterios de búsqueda ya normalizados por el caso de uso.
// Category filtra por nombre de categoría; Status vacío excluye los eliminados.
type ItemFilter struct {
	Search     string
	Category   string
	Status     string
	SortBy     string
	Descending bool
	Limit      int
	Offset     int
}

// ItemRepository define el puerto de persistencia para Item (DIP).
// Los Get* devuelven (nil, nil) si no hay fila.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetDetail como GetByID pero con los nombres de categoría y proveedor.
	GetDetail(ctx context.Context, id string) (*entity.ItemDetail, error)
	// GetForUpdate bloquea la fila del ítem hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	// GetActiveBySKU busca por SKU (sin distinguir mayúsculas) entre ítems no eliminados.
	GetActiveBySKU(ctx context.Context, sku string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ItemFilter) ([]*entity.ItemDetail, int, error)
	// ListLowStock ítems no eliminados con quantity <= threshold y no agotados, por cantidad ascendente.
	ListLowStock(ctx context.Context, limit int) ([]*entity.ItemDetail, error)
	TotalValue(ctx context.Context) (decimal.Decimal, error)
	// CountByCategory y CountBySupplier cuentan todas las filas, incluidas las eliminadas lógicamente.
	CountByCategory(ctx context.Context, categoryID string) (int, error)
	CountBySupplier(ctx context.Context, supplierID string) (int, error)
}
