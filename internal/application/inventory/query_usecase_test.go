package inventory_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-core/internal/application/dto"
	"github.com/jhoicas/inventario-core/internal/domain"
)

func seedCatalog(t *testing.T, e *env) {
	t.Helper()
	e.mustCreate(t, itemRequest("HER-3", 30, "5"))  // in-stock, 150
	e.mustCreate(t, itemRequest("HER-1", 2, "100")) // low-stock, 200
	in := itemRequest("OFI-1", 0, "1")
	in.CategoryID = "cat-ofi"
	in.Name = "Papel bond"
	in.Description = "resma carta"
	e.mustCreate(t, in) // out-of-stock
	del := e.mustCreate(t, itemRequest("HER-2", 1, "1"))
	_, err := e.items.Delete(context.Background(), del.ID)
	require.NoError(t, err)
}

func skus(list []dto.ItemResponse) []string {
	out := make([]string, 0, len(list))
	for _, it := range list {
		out = append(out, it.SKU)
	}
	return out
}

func TestListItems_PorDefectoExcluyeEliminados(t *testing.T) {
	e := newEnv(t)
	seedCatalog(t, e)

	out, err := e.query.ListItems(context.Background(), dto.ItemQueryParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, out.TotalCount)
	assert.Equal(t, 1, out.TotalPages)
	assert.NotContains(t, skus(out.Items), "HER-2")
}

func TestListItems_Filtros(t *testing.T) {
	e := newEnv(t)
	seedCatalog(t, e)
	ctx := context.Background()

	cases := []struct {
		name   string
		params dto.ItemQueryParams
		want   []string
	}{
		{"búsqueda en descripción", dto.ItemQueryParams{Search: "RESMA"}, []string{"OFI-1"}},
		{"búsqueda por sku", dto.ItemQueryParams{Search: "her-"}, []string{"HER-1", "HER-3"}},
		{"categoría por nombre", dto.ItemQueryParams{Category: "oficina"}, []string{"OFI-1"}},
		{"categoría all", dto.ItemQueryParams{Category: "all", SortBy: "sku"}, []string{"HER-1", "HER-3", "OFI-1"}},
		{"estado low-stock", dto.ItemQueryParams{Status: "low-stock"}, []string{"HER-1"}},
		{"estado deleted", dto.ItemQueryParams{Status: "deleted"}, []string{"HER-2"}},
		{"orden por valor desc", dto.ItemQueryParams{SortBy: "value", SortDescending: true}, []string{"HER-1", "HER-3", "OFI-1"}},
		{"orden por cantidad", dto.ItemQueryParams{SortBy: "quantity"}, []string{"OFI-1", "HER-1", "HER-3"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.params.Page, tc.params.PageSize = 1, 10
			out, err := e.query.ListItems(ctx, tc.params)
			require.NoError(t, err)
			if tc.params.SortBy == "" {
				assert.ElementsMatch(t, tc.want, skus(out.Items))
				return
			}
			assert.Equal(t, tc.want, skus(out.Items))
		})
	}
}

func TestListItems_Paginacion(t *testing.T) {
	e := newEnv(t)
	seedCatalog(t, e)

	out, err := e.query.ListItems(context.Background(), dto.ItemQueryParams{SortBy: "sku", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"OFI-1"}, skus(out.Items))
	assert.Equal(t, 3, out.TotalCount)
	assert.Equal(t, 2, out.TotalPages)

	out, err = e.query.ListItems(context.Background(), dto.ItemQueryParams{Page: 5, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestListItems_PaginasCubrenTodoConEmpates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	want := make([]string, 0, 13)
	for i := 0; i < 13; i++ {
		in := itemRequest(fmt.Sprintf("TIE-%02d", i), 7, "3")
		in.Name = "Tornillo"
		want = append(want, e.mustCreate(t, in).ID)
	}

	for _, sortBy := range []string{"name", "quantity", "value", "lastupdated"} {
		for _, desc := range []bool{false, true} {
			for _, size := range []int{1, 2, 5} {
				t.Run(fmt.Sprintf("%s/desc=%v/size=%d", sortBy, desc, size), func(t *testing.T) {
					seen := make(map[string]bool, len(want))
					var got []string
					for page := 1; ; page++ {
						out, err := e.query.ListItems(ctx, dto.ItemQueryParams{
							SortBy: sortBy, SortDescending: desc, Page: page, PageSize: size,
						})
						require.NoError(t, err)
						require.Equal(t, len(want), out.TotalCount)
						if len(out.Items) == 0 {
							break
						}
						for _, it := range out.Items {
							assert.False(t, seen[it.ID], "ítem repetido entre páginas: %s", it.ID)
							seen[it.ID] = true
							got = append(got, it.ID)
						}
					}
					assert.ElementsMatch(t, want, got)
				})
			}
		}
	}
}

func TestListItems_ParametrosInvalidos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.query.ListItems(ctx, dto.ItemQueryParams{Page: 1, PageSize: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.query.ListItems(ctx, dto.ItemQueryParams{Status: "agotado", Page: 1, PageSize: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
