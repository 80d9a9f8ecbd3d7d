// Package inventory contiene las reglas puras del inventario: derivación de estado,
// normalización de SKU y aplicación de movimientos sobre la cantidad en stock.
package inventory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/inventario-core/internal/domain"
	"github.com/jhoicas/inventario-core/internal/domain/entity"
)

// InitialStockNotes nota fija del movimiento generado al crear un ítem con stock.
const InitialStockNotes = "Initial stock"

// DeriveStatus calcula el estado a partir de la cantidad y el umbral de stock bajo.
//
//	quantity == 0          → out-of-stock
//	quantity <= threshold  → low-stock
//	resto                  → in-stock
func DeriveStatus(quantity, threshold int) string {
	switch {
	case quantity == 0:
		return entity.ItemStatusOutOfStock
	case quantity <= threshold:
		return entity.ItemStatusLowStock
	default:
		return entity.ItemStatusInStock
	}
}

// NormalizeSKU recorta espacios y pasa el SKU a mayúsculas.
// cases.Caser no es seguro para uso concurrente, por eso se crea en cada llamada.
func NormalizeSKU(sku string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(sku))
}

// InitialReference referencia del movimiento de stock inicial para un SKU ya normalizado.
func InitialReference(sku string) string {
	return "INIT-" + sku
}

// ValidateUnitPrice exige precio >= 0 con a lo sumo 2 decimales.
func ValidateUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: unit_price no puede ser negativo", domain.ErrInvalidInput)
	}
	if !price.Round(2).Equal(price) {
		return fmt.Errorf("%w: unit_price admite máximo 2 decimales", domain.ErrInvalidInput)
	}
	return nil
}

// IsLowStock indica si el ítem debe aparecer en las alertas de stock bajo:
// cantidad en o bajo el umbral, sin estar agotado ni eliminado.
func IsLowStock(item *entity.Item) bool {
	if item == nil || item.IsDeleted() {
		return false
	}
	return item.Quantity <= item.LowStockThreshold && item.Status != entity.ItemStatusOutOfStock
}

// ApplyMovement devuelve la nueva cantidad tras aplicar un movimiento.
// inbound y outbound exigen quantity > 0; adjustment acepta un delta con signo distinto de cero.
// Devuelve ErrInsufficientStock si el resultado quedaría negativo.
func ApplyMovement(current int, movType string, quantity int) (int, error) {
	var next int
	switch movType {
	case entity.MovementTypeInbound:
		if quantity <= 0 {
			return current, fmt.Errorf("%w: la cantidad de una entrada debe ser mayor a cero", domain.ErrInvalidInput)
		}
		next = current + quantity
	case entity.MovementTypeOutbound:
		if quantity <= 0 {
			return current, fmt.Errorf("%w: la cantidad de una salida debe ser mayor a cero", domain.ErrInvalidInput)
		}
		next = current - quantity
	case entity.MovementTypeAdjustment:
		if quantity == 0 {
			return current, fmt.Errorf("%w: el ajuste no puede ser cero", domain.ErrInvalidInput)
		}
		next = current + quantity
	default:
		return current, fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrInvalidInput, movType)
	}
	if next < 0 {
		return current, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, current, current-next)
	}
	return next, nil
}
