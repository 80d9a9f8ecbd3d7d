package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appanalytics "github.com/jhoicas/inventario-core/internal/application/analytics"
	"github.com/jhoicas/inventario-core/internal/application/auth"
	"github.com/jhoicas/inventario-core/internal/application/dto"
	"github.com/jhoicas/inventario-core/internal/application/inventory"
	"github.com/jhoicas/inventario-core/internal/application/report"
	"github.com/jhoicas/inventario-core/internal/application/usecase"
	"github.com/jhoicas/inventario-core/internal/domain/entity"
	"github.com/jhoicas/inventario-core/internal/infrastructure/excel"
	"github.com/jhoicas/inventario-core/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-core/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/inventario-core/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/inventario-core/pkg/jwt"
)

// ─── Helpers ─────────────────────────────────────────────────────────────────

const (
	adminID   = "00000000-0000-0000-0000-0000000000a1"
	managerID = "00000000-0000-0000-0000-0000000000a2"
	staffID   = "00000000-0000-0000-0000-0000000000a3"
)

func buildAPI(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: adminID, Name: "Admin", Email: "admin@example.com", PasswordHash: string(hash), Role: entity.RoleAdmin, IsActive: true, CreatedAt: now}))
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: managerID, Name: "Gerente", Email: "gerente@example.com", PasswordHash: string(hash), Role: entity.RoleManager, IsActive: true, CreatedAt: now}))
	require.NoError(t, store.Categories().Create(ctx, &entity.Category{ID: "cat-1", Name: "Herramientas", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: "sup-1", Name: "Acme", Email: "ventas@acme.com", Status: entity.SupplierStatusActive, CreatedAt: now, UpdatedAt: now}))

	items, movs := store.Items(), store.Movements()
	deps := apphttp.RouterDeps{
		AuthUC:     auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, nil),
		ItemUC:     inventory.NewItemUseCase(store, items, store.Categories(), store.Suppliers(), nil),
		ItemQuery:  inventory.NewItemQueryUseCase(items),
		MovementUC: inventory.NewMovementUseCase(store, movs, nil),
		CategoryUC: usecase.NewCategoryUseCase(store.Categories(), items, nil),
		SupplierUC: usecase.NewSupplierUseCase(store.Suppliers(), items, nil),
		Dashboard:  appanalytics.NewDashboardUseCase(store.Analytics(), items, movs, nil),
		ReportUC:   report.NewReportUseCase(items, movs, pdf.NewMarotoRenderer("test"), excel.NewRenderer(), nil),
		JWTSecret:  testJWTSecret,
	}
	app := fiber.New()
	apphttp.Router(app, deps)
	return app, store
}

func bearer(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createItem(t *testing.T, app *fiber.App, sku string, qty int) dto.ItemResponse {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/items", bearer(t, managerID, "manager"), map[string]any{
		"name": "Martillo " + sku, "sku": sku, "category_id": "cat-1", "supplier_id": "sup-1",
		"quantity": qty, "low_stock_threshold": 5, "unit_price": "12.50",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.ItemResponse](t, resp)
}

// ─── Tests ───────────────────────────────────────────────────────────────────

func TestItems_StaffNoPuedeCrear(t *testing.T) {
	app, _ := buildAPI(t)
	resp := call(t, app, http.MethodPost, "/api/items", bearer(t, staffID, "staff"), map[string]any{"name": "X", "sku": "X-1"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestItems_SinToken(t *testing.T) {
	app, _ := buildAPI(t)
	resp := call(t, app, http.MethodGet, "/api/items", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestItems_CrearListarYVerificarSku(t *testing.T) {
	app, _ := buildAPI(t)
	item := createItem(t, app, "mar-001", 20)
	assert.Equal(t, "MAR-001", item.SKU)
	assert.Equal(t, entity.ItemStatusInStock, item.Status)
	assert.Equal(t, "Herramientas", item.CategoryName)

	staff := bearer(t, staffID, "staff")
	list := decode[dto.ItemListResponse](t, call(t, app, http.MethodGet, "/api/items?search=martillo&page_size=500", staff, nil))
	require.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.TotalCount)
	assert.Equal(t, dto.MaxPageSize, list.PageSize)

	check := decode[dto.SkuCheckResponse](t, call(t, app, http.MethodGet, "/api/items/check-sku/Mar-001", staff, nil))
	assert.True(t, check.Exists)

	resp := call(t, app, http.MethodPost, "/api/items", bearer(t, managerID, "manager"), map[string]any{
		"name": "Otro", "sku": "MAR-001", "category_id": "cat-1", "supplier_id": "sup-1", "unit_price": "1",
	})
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", errBody.Code)
}

func TestItems_ListadoConEstadoInvalido(t *testing.T) {
	app, _ := buildAPI(t)
	resp := call(t, app, http.MethodGet, "/api/items?status=agotado", bearer(t, staffID, "staff"), nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
}

func TestItems_ValidacionDevuelveCampos(t *testing.T) {
	app, _ := buildAPI(t)
	resp := call(t, app, http.MethodPost, "/api/items", bearer(t, adminID, "admin"), map[string]any{"sku": "A-1"})
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body.Fields, "name")
}

func TestMovements_AjusteYStockInsuficiente(t *testing.T) {
	app, _ := buildAPI(t)
	item := createItem(t, app, "TAL-1", 6)
	staff := bearer(t, staffID, "staff")

	resp := call(t, app, http.MethodPost, "/api/movements/adjust", staff, map[string]any{"item_id": item.ID, "type": "outbound", "quantity": 2})
	adj := decode[dto.StockAdjustmentResponse](t, resp)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 4, adj.Item.Quantity)
	assert.Equal(t, entity.ItemStatusLowStock, adj.Item.Status)
	assert.Equal(t, staffID, adj.Movement.UserID)

	resp = call(t, app, http.MethodPost, "/api/movements/adjust", staff, map[string]any{"item_id": item.ID, "type": "outbound", "quantity": 10})
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)

	list := decode[dto.MovementListResponse](t, call(t, app, http.MethodGet, "/api/movements?item_id="+item.ID, staff, nil))
	require.Len(t, list.Movements, 2)
	assert.Equal(t, entity.MovementTypeOutbound, list.Movements[0].Type, "por defecto el orden es por fecha descendente")
	assert.Equal(t, "INIT-TAL-1", list.Movements[1].Reference)
}

func TestMovements_ReferenciaDuplicada(t *testing.T) {
	app, _ := buildAPI(t)
	item := createItem(t, app, "PAP-1", 0)
	staff := bearer(t, staffID, "staff")
	in := map[string]any{"item_id": item.ID, "type": "inbound", "quantity": 3, "reference": "OC-77"}

	resp := call(t, app, http.MethodPost, "/api/movements", staff, in)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/movements", staff, in)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestMovements_FechaInvalida(t *testing.T) {
	app, _ := buildAPI(t)
	resp := call(t, app, http.MethodGet, "/api/movements?start_date=ayer", bearer(t, staffID, "staff"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestItems_BorradoLogicoConMovimientos(t *testing.T) {
	app, _ := buildAPI(t)
	withStock := createItem(t, app, "CON-1", 3)
	empty := createItem(t, app, "SIN-1", 0)
	admin := bearer(t, adminID, "admin")

	resp := call(t, app, http.MethodDelete, "/api/items/"+withStock.ID, admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "soft", resp.Header.Get("X-Delete-Mode"))

	resp = call(t, app, http.MethodDelete, "/api/items/"+empty.ID, admin, nil)
	resp.Body.Close()
	assert.Equal(t, "hard", resp.Header.Get("X-Delete-Mode"))

	resp = call(t, app, http.MethodDelete, "/api/items/"+withStock.ID, admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, app, http.MethodDelete, "/api/items/"+withStock.ID, bearer(t, managerID, "manager"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuth_LoginYMe(t *testing.T) {
	app, _ := buildAPI(t)

	resp := call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ADMIN@example.com", Password: "secreto123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, login.Token)

	me := decode[dto.UserResponse](t, call(t, app, http.MethodGet, "/api/auth/me", "Bearer "+login.Token, nil))
	assert.Equal(t, adminID, me.ID)
	assert.Equal(t, "admin", me.Role)
	assert.NotNil(t, me.LastLogin)

	resp = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@example.com", Password: "incorrecta"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "nadie@example.com", Password: "incorrecta"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_RegisterSoloAdmin(t *testing.T) {
	app, _ := buildAPI(t)
	in := dto.RegisterRequest{Email: "nuevo@example.com", Password: "password1"}

	resp := call(t, app, http.MethodPost, "/api/auth/register", bearer(t, managerID, "manager"), in)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/auth/register", bearer(t, adminID, "admin"), in)
	user := decode[dto.UserResponse](t, resp)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "staff", user.Role)

	resp = call(t, app, http.MethodPost, "/api/auth/register", bearer(t, adminID, "admin"), in)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMAIL_EXISTS", body.Code)
}

func TestCategories_BorradoBloqueadoPorItems(t *testing.T) {
	app, _ := buildAPI(t)
	createItem(t, app, "HER-1", 1)

	resp := call(t, app, http.MethodDelete, "/api/categories/cat-1", bearer(t, adminID, "admin"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	cats := decode[[]dto.CategoryResponse](t, call(t, app, http.MethodGet, "/api/categories", bearer(t, staffID, "staff"), nil))
	require.Len(t, cats, 1)
	assert.Equal(t, 1, cats[0].ItemCount)
}

func TestSuppliers_Stats(t *testing.T) {
	app, _ := buildAPI(t)
	stats := decode[dto.SupplierStatsResponse](t, call(t, app, http.MethodGet, "/api/suppliers/stats", bearer(t, staffID, "staff"), nil))
	assert.Equal(t, 1, stats.TotalSuppliers)
	assert.Equal(t, 1, stats.ActiveSuppliers)
}

func TestDashboard_Stats(t *testing.T) {
	app, _ := buildAPI(t)
	createItem(t, app, "DAS-1", 2)

	stats := decode[dto.DashboardStatsDTO](t, call(t, app, http.MethodGet, "/api/dashboard/stats", bearer(t, staffID, "staff"), nil))
	assert.Equal(t, 1, stats.TotalItems)
	assert.Equal(t, 1, stats.LowStockItems)
	assert.Equal(t, "25", stats.TotalValue.String())
	assert.Equal(t, 1, stats.TodayMovements)

	resp := call(t, app, http.MethodGet, "/api/dashboard/monthly-movements?months=30", bearer(t, staffID, "staff"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReports_DescargaExcel(t *testing.T) {
	app, _ := buildAPI(t)
	createItem(t, app, "REP-1", 4)

	resp := call(t, app, http.MethodGet, "/api/reports/inventory?format=xlsx", bearer(t, managerID, "manager"), nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "inventory-")

	resp = call(t, app, http.MethodGet, "/api/reports/inventory", bearer(t, staffID, "staff"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/reports/ventas", bearer(t, adminID, "admin"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
