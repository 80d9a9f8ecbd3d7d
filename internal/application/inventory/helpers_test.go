package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-core/internal/application/dto"
	"github.com/jhoicas/inventario-core/internal/application/inventory"
	"github.com/jhoicas/inventario-core/internal/domain/entity"
	"github.com/jhoicas/inventario-core/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-core/pkg/clock"
)

var t0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

const actor = "user-1"

type env struct {
	store *memory.Store
	clock *clock.Fixed
	items *inventory.ItemUseCase
	query *inventory.ItemQueryUseCase
	movs  *inventory.MovementUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	clk := clock.NewFixed(t0)

	require.NoError(t, store.Categories().Create(ctx, &entity.Category{ID: "cat-herr", Name: "Herramientas", CreatedAt: t0, UpdatedAt: t0}))
	require.NoError(t, store.Categories().Create(ctx, &entity.Category{ID: "cat-ofi", Name: "Oficina", CreatedAt: t0, UpdatedAt: t0}))
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: "sup-1", Name: "Acme", Email: "ventas@acme.com", Status: entity.SupplierStatusActive, CreatedAt: t0, UpdatedAt: t0}))
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: actor, Name: "Ana", Email: "ana@example.com", Role: entity.RoleStaff, IsActive: true, CreatedAt: t0}))

	return &env{
		store: store,
		clock: clk,
		items: inventory.NewItemUseCase(store, store.Items(), store.Categories(), store.Suppliers(), clk),
		query: inventory.NewItemQueryUseCase(store.Items()),
		movs:  inventory.NewMovementUseCase(store, store.Movements(), clk),
	}
}

func itemRequest(sku string, qty int, price string) dto.CreateItemRequest {
	threshold := 5
	return dto.CreateItemRequest{
		Name:              "Ítem " + sku,
		SKU:               sku,
		CategoryID:        "cat-herr",
		SupplierID:        "sup-1",
		Quantity:          qty,
		LowStockThreshold: &threshold,
		UnitPrice:         decimal.RequireFromString(price),
		Location:          "A-1",
	}
}

func (e *env) mustCreate(t *testing.T, in dto.CreateItemRequest) *dto.ItemResponse {
	t.Helper()
	out, err := e.items.Create(context.Background(), in, actor)
	require.NoError(t, err)
	return out
}

func ptr[T any](v T) *T { return &v }
