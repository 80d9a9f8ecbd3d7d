package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-core/internal/domain"
	"github.com/jhoicas/inventario-core/internal/domain/entity"
	"github.com/jhoicas/inventario-core/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// CategoryRepo categorías en memoria.
type CategoryRepo struct {
	v view
}

// Create inserta; ErrDuplicate si el nombre ya existe (sin distinguir mayúsculas).
func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.v.write(func(st *state) error {
		if categoryNameTaken(st, c.Name, c.ID) {
			return domain.ErrDuplicate
		}
		st.categories[c.ID] = *c
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.read(func(st *state) error {
		if c, ok := st.categories[id]; ok {
			c.ItemCount = activeItemsInCategory(st, id)
			out = &c
		}
		return nil
	})
	return out, err
}

// GetByName busca sin distinguir mayúsculas.
func (r *CategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.read(func(st *state) error {
		for _, c := range st.categories {
			if strings.EqualFold(c.Name, name) {
				c.ItemCount = activeItemsInCategory(st, c.ID)
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

// Update reemplaza la fila.
func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.categories[c.ID]; !ok {
			return domain.ErrNotFound
		}
		if categoryNameTaken(st, c.Name, c.ID) {
			return domain.ErrDuplicate
		}
		st.categories[c.ID] = *c
		return nil
	})
}

// Delete falla con ErrConflict si algún ítem la referencia.
func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.categories[id]; !ok {
			return domain.ErrNotFound
		}
		for _, it := range st.items {
			if it.CategoryID == id {
				return domain.ErrConflict
			}
		}
		delete(st.categories, id)
		return nil
	})
}

// List ordenado por nombre.
func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.v.read(func(st *state) error {
		for _, c := range st.categories {
			c.ItemCount = activeItemsInCategory(st, c.ID)
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, err
}

func categoryNameTaken(st *state, name, exceptID string) bool {
	for id, c := range st.categories {
		if id != exceptID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func activeItemsInCategory(st *state, id string) int {
	n := 0
	for _, it := range st.items {
		if it.CategoryID == id && !it.IsDeleted() {
			n++
		}
	}
	return n
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct {
	v view
}

// Create inserta; ErrDuplicate si el email ya existe.
func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	return r.v.write(func(st *state) error {
		if supplierEmailTaken(st, s.Email, s.ID) {
			return domain.ErrDuplicate
		}
		st.suppliers[s.ID] = *s
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.v.read(func(st *state) error {
		if s, ok := st.suppliers[id]; ok {
			s.ItemsSupplied = activeItemsOfSupplier(st, id)
			out = &s
		}
		return nil
	})
	return out, err
}

// GetByEmail busca sin distinguir mayúsculas.
func (r *SupplierRepo) GetByEmail(_ context.Context, email string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.v.read(func(st *state) error {
		for _, s := range st.suppliers {
			if strings.EqualFold(s.Email, email) {
				s.ItemsSupplied = activeItemsOfSupplier(st, s.ID)
				out = &s
				return nil
			}
		}
		return nil
	})
	return out, err
}

// Update reemplaza la fila.
func (r *SupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.suppliers[s.ID]; !ok {
			return domain.ErrNotFound
		}
		if supplierEmailTaken(st, s.Email, s.ID) {
			return domain.ErrDuplicate
		}
		st.suppliers[s.ID] = *s
		return nil
	})
}

// Delete falla con ErrConflict si algún ítem lo referencia.
func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.suppliers[id]; !ok {
			return domain.ErrNotFound
		}
		for _, it := range st.items {
			if it.SupplierID == id {
				return domain.ErrConflict
			}
		}
		delete(st.suppliers, id)
		return nil
	})
}

// List ordenado por nombre; status vacío no filtra.
func (r *SupplierRepo) List(_ context.Context, status string) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	err := r.v.read(func(st *state) error {
		for _, s := range st.suppliers {
			if status != "" && s.Status != status {
				continue
			}
			s.ItemsSupplied = activeItemsOfSupplier(st, s.ID)
			out = append(out, &s)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, err
}

func supplierEmailTaken(st *state, email, exceptID string) bool {
	for id, s := range st.suppliers {
		if id != exceptID && strings.EqualFold(s.Email, email) {
			return true
		}
	}
	return false
}

func activeItemsOfSupplier(st *state, id string) int {
	n := 0
	for _, it := range st.items {
		if it.SupplierID == id && !it.IsDeleted() {
			n++
		}
	}
	return n
}
