package entity

import "time"

// Category agrupa ítems del inventario. Name es único.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ItemCount   int // derivado, solo lectura
}
