package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/inventario-core/internal/domain"
	"github.com/jhoicas/inventario-core/internal/domain/entity"
	"github.com/jhoicas/inventario-core/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger en memoria (solo inserción).
type MovementRepo struct {
	v view
}

// Create agrega el movimiento; ErrDuplicate si la referencia ya existe.
func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.references[m.Reference]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := st.items[m.ItemID]; !ok {
			return domain.ErrInvalidInput
		}
		st.references[m.Reference] = struct{}{}
		st.movements = append(st.movements, *m)
		return nil
	})
}

// ExistsReference indica si la referencia ya está registrada.
func (r *MovementRepo) ExistsReference(_ context.Context, reference string) (bool, error) {
	var ok bool
	err := r.v.read(func(st *state) error {
		_, ok = st.references[reference]
		return nil
	})
	return ok, err
}

// CountByItem cuenta los movimientos de un ítem.
func (r *MovementRepo) CountByItem(_ context.Context, itemID string) (int, error) {
	n := 0
	err := r.v.read(func(st *state) error {
		for _, m := range st.movements {
			if m.ItemID == itemID {
				n++
			}
		}
		return nil
	})
	return n, err
}

// List filtra por ítem, tipo, fechas y texto (referencia, notas, nombre del ítem).
func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.MovementDetail, int, error) {
	var (
		page  []*entity.MovementDetail
		total int
	)
	err := r.v.read(func(st *state) error {
		matched := make([]*entity.MovementDetail, 0, len(st.movements))
		for _, m := range st.movements {
			d := &entity.MovementDetail{Movement: m}
			if it, ok := st.items[m.ItemID]; ok {
				d.ItemName = it.Name
				d.ItemSKU = it.SKU
			}
			if u, ok := st.users[m.UserID]; ok {
				d.UserName = u.Name
			}
			if matchesMovement(d, f) {
				matched = append(matched, d)
			}
		}
		sortMovements(matched, f.SortBy, f.Descending)
		total = len(matched)
		page = paginate(matched, f.Offset, f.Limit)
		return nil
	})
	return page, total, err
}

// MonthlySummary agrupa por (año, mes, tipo) en [from, to), ordenado cronológicamente.
func (r *MovementRepo) MonthlySummary(_ context.Context, from, to time.Time) ([]entity.MovementSummary, error) {
	type key struct {
		year  int
		month int
		typ   string
	}
	acc := make(map[key]*entity.MovementSummary)
	err := r.v.read(func(st *state) error {
		for _, m := range st.movements {
			if m.MovementDate.Before(from) || !m.MovementDate.Before(to) {
				continue
			}
			k := key{m.MovementDate.Year(), int(m.MovementDate.Month()), m.Type}
			s, ok := acc[k]
			if !ok {
				s = &entity.MovementSummary{Year: k.year, Month: k.month, Type: k.typ}
				acc[k] = s
			}
			s.Count++
			s.TotalQuantity += m.Quantity
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]entity.MovementSummary, 0, len(acc))
	for _, s := range acc {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Type < out[j].Type
	})
	return out, nil
}

func matchesMovement(d *entity.MovementDetail, f repository.MovementFilter) bool {
	if f.ItemID != "" && d.ItemID != f.ItemID {
		return false
	}
	if f.Type != "" && d.Type != f.Type {
		return false
	}
	if f.From != nil && d.MovementDate.Before(*f.From) {
		return false
	}
	if f.To != nil && d.MovementDate.After(*f.To) {
		return false
	}
	if f.Search != "" {
		hay := strings.ToLower(d.Reference + "\x00" + d.Notes + "\x00" + d.ItemName)
		if !strings.Contains(hay, f.Search) {
			return false
		}
	}
	return true
}

func sortMovements(list []*entity.MovementDetail, sortBy string, desc bool) {
	cmp := func(a, b *entity.MovementDetail) int {
		switch sortBy {
		case repository.MovementSortQuantity:
			return a.Quantity - b.Quantity
		case repository.MovementSortReference:
			return strings.Compare(a.Reference, b.Reference)
		case repository.MovementSortType:
			return strings.Compare(a.Type, b.Type)
		default:
			return a.MovementDate.Compare(b.MovementDate)
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
