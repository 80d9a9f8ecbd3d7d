package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-core/internal/domain"
	"github.com/jhoicas/inventario-core/internal/domain/entity"
	"github.com/jhoicas/inventario-core/internal/domain/inventory"
	"github.com/jhoicas/inventario-core/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación en memoria de ItemRepository.
type ItemRepo struct {
	v view
}

// Create inserta el ítem; ErrDuplicate si el SKU ya lo usa otro ítem no eliminado.
func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			return domain.ErrDuplicate
		}
		if activeSKUTaken(st, item.SKU, item.ID) {
			return domain.ErrDuplicate
		}
		st.items[item.ID] = *item
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	var out *entity.Item
	err := r.v.read(func(st *state) error {
		if it, ok := st.items[id]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

// GetDetail devuelve el ítem con los nombres de categoría y proveedor; (nil, nil) si no existe.
func (r *ItemRepo) GetDetail(_ context.Context, id string) (*entity.ItemDetail, error) {
	var out *entity.ItemDetail
	err := r.v.read(func(st *state) error {
		if it, ok := st.items[id]; ok {
			out = detail(st, it)
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a GetByID: la transacción ya tiene el lock exclusivo.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

// GetActiveBySKU busca entre ítems no eliminados sin distinguir mayúsculas.
func (r *ItemRepo) GetActiveBySKU(_ context.Context, sku string) (*entity.Item, error) {
	target := inventory.NormalizeSKU(sku)
	var out *entity.Item
	err := r.v.read(func(st *state) error {
		for _, it := range st.items {
			if !it.IsDeleted() && inventory.NormalizeSKU(it.SKU) == target {
				found := it
				out = &found
				return nil
			}
		}
		return nil
	})
	return out, err
}

// Update reemplaza la fila. ErrNotFound si no existe.
func (r *ItemRepo) Update(_ context.Context, item *entity.Item) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.items[item.ID]; !ok {
			return domain.ErrNotFound
		}
		if !item.IsDeleted() && activeSKUTaken(st, item.SKU, item.ID) {
			return domain.ErrDuplicate
		}
		st.items[item.ID] = *item
		return nil
	})
}

// Delete borra físicamente. Falla con ErrConflict si hay movimientos (equivalente a la FK restrict).
func (r *ItemRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.items[id]; !ok {
			return domain.ErrNotFound
		}
		for _, m := range st.movements {
			if m.ItemID == id {
				return domain.ErrConflict
			}
		}
		delete(st.items, id)
		return nil
	})
}

// List filtra, ordena (con desempate por id) y pagina.
func (r *ItemRepo) List(_ context.Context, f repository.ItemFilter) ([]*entity.ItemDetail, int, error) {
	var (
		page  []*entity.ItemDetail
		total int
	)
	err := r.v.read(func(st *state) error {
		matched := make([]*entity.ItemDetail, 0, len(st.items))
		for _, it := range st.items {
			d := detail(st, it)
			if matchesItem(d, f) {
				matched = append(matched, d)
			}
		}
		sortItems(matched, f.SortBy, f.Descending)
		total = len(matched)
		page = paginate(matched, f.Offset, f.Limit)
		return nil
	})
	return page, total, err
}

// ListLowStock ítems no eliminados con quantity <= threshold y estado distinto de agotado.
func (r *ItemRepo) ListLowStock(_ context.Context, limit int) ([]*entity.ItemDetail, error) {
	var out []*entity.ItemDetail
	err := r.v.read(func(st *state) error {
		for _, it := range st.items {
			if inventory.IsLowStock(&it) {
				out = append(out, detail(st, it))
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Quantity != out[j].Quantity {
				return out[i].Quantity < out[j].Quantity
			}
			return out[i].ID < out[j].ID
		})
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

// TotalValue suma quantity * unit_price de los ítems no eliminados.
func (r *ItemRepo) TotalValue(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.v.read(func(st *state) error {
		for _, it := range st.items {
			if !it.IsDeleted() {
				total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
			}
		}
		return nil
	})
	return total, err
}

// CountByCategory cuenta ítems (incluidos eliminados) de la categoría.
func (r *ItemRepo) CountByCategory(_ context.Context, categoryID string) (int, error) {
	n := 0
	err := r.v.read(func(st *state) error {
		for _, it := range st.items {
			if it.CategoryID == categoryID {
				n++
			}
		}
		return nil
	})
	return n, err
}

// CountBySupplier cuenta ítems (incluidos eliminados) del proveedor.
func (r *ItemRepo) CountBySupplier(_ context.Context, supplierID string) (int, error) {
	n := 0
	err := r.v.read(func(st *state) error {
		for _, it := range st.items {
			if it.SupplierID == supplierID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func activeSKUTaken(st *state, sku, exceptID string) bool {
	target := inventory.NormalizeSKU(sku)
	for id, it := range st.items {
		if id != exceptID && !it.IsDeleted() && inventory.NormalizeSKU(it.SKU) == target {
			return true
		}
	}
	return false
}

func detail(st *state, it entity.Item) *entity.ItemDetail {
	d := &entity.ItemDetail{Item: it}
	if c, ok := st.categories[it.CategoryID]; ok {
		d.CategoryName = c.Name
	}
	if s, ok := st.suppliers[it.SupplierID]; ok {
		d.SupplierName = s.Name
	}
	return d
}

func matchesItem(d *entity.ItemDetail, f repository.ItemFilter) bool {
	if f.Status == "" {
		if d.IsDeleted() {
			return false
		}
	} else if d.Status != f.Status {
		return false
	}
	if f.Category != "" && !strings.EqualFold(d.CategoryName, f.Category) {
		return false
	}
	if f.Search != "" {
		hay := strings.ToLower(d.Name + "\x00" + d.SKU + "\x00" + d.Description + "\x00" + d.Location)
		if !strings.Contains(hay, f.Search) {
			return false
		}
	}
	return true
}

func sortItems(list []*entity.ItemDetail, sortBy string, desc bool) {
	cmp := func(a, b *entity.ItemDetail) int {
		switch sortBy {
		case repository.ItemSortSKU:
			return strings.Compare(a.SKU, b.SKU)
		case repository.ItemSortQuantity:
			return a.Quantity - b.Quantity
		case repository.ItemSortValue:
			return a.TotalValue().Cmp(b.TotalValue())
		case repository.ItemSortLastUpdated:
			return a.UpdatedAt.Compare(b.UpdatedAt)
		default:
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		c := cmp(list[i], list[j])
		if c == 0 {
			return list[i].ID < list[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func paginate[T any](list []T, offset, limit int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}
