package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-core/internal/application/analytics"
	"github.com/jhoicas/inventario-core/internal/domain"
	"github.com/jhoicas/inventario-core/internal/domain/entity"
	"github.com/jhoicas/inventario-core/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-core/pkg/clock"
)

var now = time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)

// ─── Helpers ─────────────────────────────────────────────────────────────────

type fixture struct {
	store *memory.Store
	uc    *analytics.DashboardUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Categories().Create(ctx, &entity.Category{ID: "c-herr", Name: "Herramientas", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, store.Categories().Create(ctx, &entity.Category{ID: "c-ofi", Name: "Oficina", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, store.Categories().Create(ctx, &entity.Category{ID: "c-vacia", Name: "Vacía", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: "s1", Name: "Acme", Email: "a@acme.com", Status: entity.SupplierStatusActive}))
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: "s2", Name: "Beta", Email: "b@beta.com", Status: entity.SupplierStatusInactive}))
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: entity.RoleAdmin, IsActive: true}))
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "u2", Name: "Luis", Email: "luis@example.com", Role: entity.RoleStaff}))

	restocked := now.AddDate(0, 0, -3)
	items := []*entity.Item{
		{ID: "i1", Name: "Martillo", SKU: "MAR-1", CategoryID: "c-herr", SupplierID: "s1", Quantity: 20, LowStockThreshold: 5, UnitPrice: decimal.RequireFromString("12.50"), Status: entity.ItemStatusInStock},
		{ID: "i2", Name: "Taladro", SKU: "TAL-1", CategoryID: "c-herr", SupplierID: "s1", Quantity: 3, LowStockThreshold: 5, UnitPrice: decimal.NewFromInt(100), Status: entity.ItemStatusLowStock, LastRestocked: &restocked},
		{ID: "i3", Name: "Papel", SKU: "PAP-1", CategoryID: "c-ofi", SupplierID: "s1", Quantity: 1, LowStockThreshold: 10, UnitPrice: decimal.NewFromInt(4), Status: entity.ItemStatusLowStock},
		{ID: "i4", Name: "Tinta", SKU: "TIN-1", CategoryID: "c-ofi", SupplierID: "s1", Quantity: 0, LowStockThreshold: 10, UnitPrice: decimal.NewFromInt(30), Status: entity.ItemStatusOutOfStock},
		{ID: "i5", Name: "Viejo", SKU: "VIE-1", CategoryID: "c-vacia", SupplierID: "s1", Quantity: 0, LowStockThreshold: 10, UnitPrice: decimal.NewFromInt(1), Status: entity.ItemStatusDeleted},
	}
	for _, it := range items {
		it.CreatedAt = now.AddDate(0, -2, 0)
		it.UpdatedAt = it.CreatedAt
		require.NoError(t, store.Items().Create(ctx, it))
	}

	movs := []*entity.Movement{
		{ID: "m1", ItemID: "i1", Type: entity.MovementTypeInbound, Quantity: 20, UserID: "u1", Reference: "R-1", MovementDate: now.AddDate(0, -2, 0)},
		{ID: "m2", ItemID: "i2", Type: entity.MovementTypeInbound, Quantity: 8, UserID: "u1", Reference: "R-2", MovementDate: now.AddDate(0, -1, 0)},
		{ID: "m3", ItemID: "i2", Type: entity.MovementTypeOutbound, Quantity: 5, UserID: "u1", Reference: "R-3", MovementDate: now.Add(-2 * time.Hour)},
		{ID: "m4", ItemID: "i3", Type: entity.MovementTypeAdjustment, Quantity: -2, UserID: "u1", Reference: "R-4", MovementDate: now.Add(-time.Hour)},
		{ID: "m5", ItemID: "i1", Type: entity.MovementTypeOutbound, Quantity: 1, UserID: "u1", Reference: "R-5", MovementDate: now.AddDate(0, 0, -1)},
	}
	for _, m := range movs {
		m.CreatedAt = m.MovementDate
		require.NoError(t, store.Movements().Create(ctx, m))
	}

	uc := analytics.NewDashboardUseCase(store.Analytics(), store.Items(), store.Movements(), clock.NewFixed(now))
	return &fixture{store: store, uc: uc}
}

// ─── Tests ───────────────────────────────────────────────────────────────────

func TestGetStats(t *testing.T) {
	f := newFixture(t)

	stats, err := f.uc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalItems)
	assert.Equal(t, 2, stats.LowStockItems)
	assert.Equal(t, 1, stats.OutOfStockItems)
	assert.True(t, decimal.RequireFromString("554").Equal(stats.TotalValue), "got %s", stats.TotalValue)
	assert.Equal(t, 2, stats.TodayMovements)
	assert.Equal(t, 1, stats.ActiveSuppliers)
	assert.Equal(t, 1, stats.ActiveUsers)
}

func TestGetCategoryDistribution_SoloCategoriasConItems(t *testing.T) {
	f := newFixture(t)

	dist, err := f.uc.GetCategoryDistribution(context.Background())
	require.NoError(t, err)
	require.Len(t, dist, 2)

	assert.Equal(t, "Herramientas", dist[0].CategoryName)
	assert.Equal(t, 2, dist[0].ItemCount)
	assert.True(t, decimal.NewFromInt(50).Equal(dist[0].Percentage))
	assert.True(t, decimal.RequireFromString("550").Equal(dist[0].TotalValue))
	assert.Equal(t, "Oficina", dist[1].CategoryName)
}

func TestGetRecentActivity_MasRecientePrimero(t *testing.T) {
	f := newFixture(t)

	recent, err := f.uc.GetRecentActivity(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "R-4", recent[0].Reference)
	assert.Equal(t, "R-3", recent[1].Reference)
	assert.Equal(t, "Taladro", recent[1].ItemName)
}

func TestGetLowStockAlerts_FallbackACreatedAt(t *testing.T) {
	f := newFixture(t)

	alerts, err := f.uc.GetLowStockAlerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "PAP-1", alerts[0].SKU)
	assert.Equal(t, now.AddDate(0, -2, 0), alerts[0].LastRestocked)
	assert.Equal(t, "TAL-1", alerts[1].SKU)
	assert.Equal(t, now.AddDate(0, 0, -3), alerts[1].LastRestocked)
}

func TestGetMonthlyMovements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	months, err := f.uc.GetMonthlyMovements(ctx, 0)
	require.NoError(t, err)
	require.Len(t, months, analytics.DefaultMonthlyMovements)
	assert.Equal(t, "2025-12", months[0].Period)
	assert.Equal(t, "2026-05", months[5].Period)

	assert.Equal(t, 20, months[3].Inbound) // marzo
	assert.Equal(t, 8, months[4].Inbound)  // abril
	last := months[5]
	assert.Equal(t, 0, last.Inbound)
	assert.Equal(t, 6, last.Outbound)
	assert.Equal(t, 1, last.Adjustments)

	_, err = f.uc.GetMonthlyMovements(ctx, analytics.MaxMonthlyMovements+1)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
