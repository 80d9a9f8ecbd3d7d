package entity

import "time"

// Tipos de movimiento del ledger.
const (
	MovementTypeInbound    = "inbound"
	MovementTypeOutbound   = "outbound"
	MovementTypeAdjustment = "adjustment"
)

// IsValidMovementType reporta si t es uno de los tipos de movimiento conocidos.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeInbound, MovementTypeOutbound, MovementTypeAdjustment:
		return true
	}
	return false
}

// Movement evento inmutable del ledger de inventario. Nunca se actualiza ni se borra.
type Movement struct {
	ID           string
	ItemID       string
	Type         string
	Quantity     int // en ajustes puede ser negativo (AdjustStock)
	UserID       string
	Reference    string // único global
	Notes        string
	MovementDate time.Time
	CreatedAt    time.Time
}

// MovementDetail movimiento con los datos del ítem y del usuario que lo registró.
type MovementDetail struct {
	Movement
	ItemName string
	ItemSKU  string
	UserName string
}

// MovementSummary agregado mensual por tipo de movimiento.
type MovementSummary struct {
	Year          int
	Month         int
	Type          string
	Count         int
	TotalQuantity int
}
