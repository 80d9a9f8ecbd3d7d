package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-core/internal/domain/entity"
)

// Claves de ordenamiento para listados de movimientos.
const (
	MovementSortDate      = "movementdate"
	MovementSortQuantity  = "quantity"
	MovementSortReference = "reference"
	MovementSortType      = "type"
)

// MovementFilter criterios de búsqueda sobre el ledger. From/To son inclusivos.
type MovementFilter struct {
	ItemID     string
	Type       string
	Search     string
	From       *time.Time
	To         *time.Time
	SortBy     string
	Descending bool
	Limit      int
	Offset     int
}

// MovementRepository puerto del ledger de movimientos (solo inserción y lectura).
type MovementRepository interface {
	// Create devuelve ErrDuplicate si la referencia ya existe.
	Create(ctx context.Context, movement *entity.Movement) error
	ExistsReference(ctx context.Context, reference string) (bool, error)
	CountByItem(ctx context.Context, itemID string) (int, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.MovementDetail, int, error)
	// MonthlySummary agrupa por (año, mes, tipo) los movimientos con fecha en [from, to).
	MonthlySummary(ctx context.Context, from, to time.Time) ([]entity.MovementSummary, error)
}
