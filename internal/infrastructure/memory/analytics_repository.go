package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-core/internal/domain/entity"
	"github.com/jhoicas/inventario-core/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas read-only del dashboard sobre el store en memoria.
type AnalyticsRepo struct {
	v view
}

// GetInventoryCounts conteos por estado de los ítems no eliminados.
func (r *AnalyticsRepo) GetInventoryCounts(_ context.Context) (repository.InventoryCounts, error) {
	var c repository.InventoryCounts
	err := r.v.read(func(st *state) error {
		for _, it := range st.items {
			switch it.Status {
			case entity.ItemStatusDeleted:
				continue
			case entity.ItemStatusLowStock:
				c.LowStock++
			case entity.ItemStatusOutOfStock:
				c.OutOfStock++
			}
			c.Total++
		}
		return nil
	})
	return c, err
}

// CountMovementsBetween cuenta movimientos con fecha en [from, to).
func (r *AnalyticsRepo) CountMovementsBetween(_ context.Context, from, to time.Time) (int, error) {
	n := 0
	err := r.v.read(func(st *state) error {
		for _, m := range st.movements {
			if !m.MovementDate.Before(from) && m.MovementDate.Before(to) {
				n++
			}
		}
		return nil
	})
	return n, err
}

// CountActiveSuppliers proveedores con estado active.
func (r *AnalyticsRepo) CountActiveSuppliers(_ context.Context) (int, error) {
	n := 0
	err := r.v.read(func(st *state) error {
		for _, s := range st.suppliers {
			if s.Status == entity.SupplierStatusActive {
				n++
			}
		}
		return nil
	})
	return n, err
}

// CountActiveUsers usuarios activos.
func (r *AnalyticsRepo) CountActiveUsers(_ context.Context) (int, error) {
	n := 0
	err := r.v.read(func(st *state) error {
		for _, u := range st.users {
			if u.IsActive {
				n++
			}
		}
		return nil
	})
	return n, err
}

// GetCategoryDistribution ítems y valor por categoría, solo categorías con ítems no eliminados.
func (r *AnalyticsRepo) GetCategoryDistribution(_ context.Context) ([]repository.CategoryStat, error) {
	acc := make(map[string]*repository.CategoryStat)
	err := r.v.read(func(st *state) error {
		for _, it := range st.items {
			if it.IsDeleted() {
				continue
			}
			s, ok := acc[it.CategoryID]
			if !ok {
				s = &repository.CategoryStat{CategoryID: it.CategoryID, TotalValue: decimal.Zero}
				if c, found := st.categories[it.CategoryID]; found {
					s.CategoryName = c.Name
				}
				acc[it.CategoryID] = s
			}
			s.ItemCount++
			s.TotalValue = s.TotalValue.Add(it.TotalValue())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]repository.CategoryStat, 0, len(acc))
	for _, s := range acc {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryName < out[j].CategoryName })
	return out, nil
}
