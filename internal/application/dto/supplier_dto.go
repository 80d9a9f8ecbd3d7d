package dto

import "time"

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Name          string `json:"name" validate:"required,notblank,max=100"`
	ContactPerson string `json:"contact_person" validate:"required,notblank,max=100"`
	Email         string `json:"email" validate:"required,email,max=100"`
	Phone         string `json:"phone" validate:"required,notblank,max=20"`
	Address       string `json:"address" validate:"max=500"`
}

// UpdateSupplierRequest actualización parcial; strings vacíos no modifican.
type UpdateSupplierRequest struct {
	Name          string `json:"name" validate:"max=100"`
	ContactPerson string `json:"contact_person" validate:"max=100"`
	Email         string `json:"email" validate:"omitempty,email,max=100"`
	Phone         string `json:"phone" validate:"max=20"`
	Address       string `json:"address" validate:"max=500"`
	Status        string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	Status        string    `json:"status"`
	ItemsSupplied int       `json:"items_supplied"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SupplierStatsResponse conteos de proveedores por estado.
type SupplierStatsResponse struct {
	TotalSuppliers    int `json:"total_suppliers"`
	ActiveSuppliers   int `json:"active_suppliers"`
	InactiveSuppliers int `json:"inactive_suppliers"`
}
