package entity

import "time"

// Estados de proveedor.
const (
	SupplierStatusActive   = "active"
	SupplierStatusInactive = "inactive"
)

// Supplier proveedor de ítems. Email es único.
type Supplier struct {
	ID            string
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ItemsSupplied int // derivado, solo lectura
}
