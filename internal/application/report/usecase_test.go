package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-core/internal/application/report"
	"github.com/jhoicas/inventario-core/internal/domain"
	"github.com/jhoicas/inventario-core/internal/domain/entity"
	"github.com/jhoicas/inventario-core/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-core/pkg/clock"
)

// captureRenderer guarda el último documento recibido.
type captureRenderer struct {
	doc *report.Document
}

func (r *captureRenderer) Render(_ context.Context, doc *report.Document) ([]byte, error) {
	r.doc = doc
	return []byte("ok"), nil
}

var genAt = time.Date(2026, 6, 1, 10, 30, 0, 0, time.UTC)

func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Categories().Create(ctx, &entity.Category{ID: "c1", Name: "Herramientas"}))
	items := []entity.Item{
		{ID: "i1", Name: "Martillo", SKU: "MAR-1", CategoryID: "c1", SupplierID: "s1", Quantity: 20, LowStockThreshold: 5, UnitPrice: decimal.RequireFromString("1250.50"), Status: entity.ItemStatusInStock},
		{ID: "i2", Name: "Taladro", SKU: "TAL-1", CategoryID: "c1", SupplierID: "s1", Quantity: 2, LowStockThreshold: 5, UnitPrice: decimal.NewFromInt(100), Status: entity.ItemStatusLowStock},
		{ID: "i3", Name: "Viejo", SKU: "VIE-1", CategoryID: "c1", SupplierID: "s1", Quantity: 0, LowStockThreshold: 5, UnitPrice: decimal.NewFromInt(1), Status: entity.ItemStatusDeleted},
	}
	for i := range items {
		require.NoError(t, store.Items().Create(ctx, &items[i]))
	}
	require.NoError(t, store.Movements().Create(ctx, &entity.Movement{
		ID: "m1", ItemID: "i1", Type: entity.MovementTypeInbound, Quantity: 20, Reference: "INIT-MAR-1",
		MovementDate: genAt.AddDate(0, 0, -5),
	}))
	require.NoError(t, store.Movements().Create(ctx, &entity.Movement{
		ID: "m2", ItemID: "i2", Type: entity.MovementTypeOutbound, Quantity: 3, Reference: "OUT-1",
		MovementDate: genAt.AddDate(0, 0, -1),
	}))
	return store
}

func newUseCase(store *memory.Store) (*report.ReportUseCase, *captureRenderer, *captureRenderer) {
	pdf, xlsx := &captureRenderer{}, &captureRenderer{}
	uc := report.NewReportUseCase(store.Items(), store.Movements(), pdf, xlsx, clock.NewFixed(genAt))
	return uc, pdf, xlsx
}

func TestGenerate_Inventario(t *testing.T) {
	uc, pdf, _ := newUseCase(seed(t))

	f, err := uc.Generate(context.Background(), report.Request{Kind: "inventory"})
	require.NoError(t, err)
	assert.Equal(t, "inventory-20260601-1030.pdf", f.Name)
	assert.Equal(t, "application/pdf", f.ContentType)

	require.NotNil(t, pdf.doc)
	require.Len(t, pdf.doc.Rows, 2)
	assert.Equal(t, "MAR-1", pdf.doc.Rows[0][0])
	assert.Equal(t, "Herramientas", pdf.doc.Rows[0][2])
	total := pdf.doc.Summary[2].Value.(decimal.Decimal)
	assert.True(t, decimal.RequireFromString("25210").Equal(total), "got %s", total)
}

func TestGenerate_StockBajoEnExcel(t *testing.T) {
	uc, _, xlsx := newUseCase(seed(t))

	f, err := uc.Generate(context.Background(), report.Request{Kind: "LOW-STOCK", Format: "xlsx"})
	require.NoError(t, err)
	assert.Equal(t, "low-stock-20260601-1030.xlsx", f.Name)
	require.Len(t, xlsx.doc.Rows, 1)
	assert.Equal(t, "TAL-1", xlsx.doc.Rows[0][0])
}

func TestGenerate_MovimientosConRango(t *testing.T) {
	uc, pdf, _ := newUseCase(seed(t))
	from := genAt.AddDate(0, 0, -2)

	_, err := uc.Generate(context.Background(), report.Request{Kind: "movements", From: &from})
	require.NoError(t, err)
	require.Len(t, pdf.doc.Rows, 1)
	assert.Equal(t, "OUT-1", pdf.doc.Rows[0][1])

	to := from.AddDate(0, 0, -1)
	_, err = uc.Generate(context.Background(), report.Request{Kind: "movements", From: &from, To: &to})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerate_TipoOFormatoDesconocido(t *testing.T) {
	uc, _, _ := newUseCase(seed(t))

	_, err := uc.Generate(context.Background(), report.Request{Kind: "ventas"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Generate(context.Background(), report.Request{Kind: "inventory", Format: "csv"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "$1.250,50", report.FormatCell(decimal.RequireFromString("1250.5")))
	assert.Equal(t, "-$1.000.000,00", report.FormatMoney(decimal.NewFromInt(-1000000)))
	assert.Equal(t, "$25,00", report.FormatMoney(decimal.NewFromInt(25)))
	assert.Equal(t, "7", report.FormatCell(7))
	assert.Equal(t, "2026-06-01 10:30", report.FormatCell(genAt))
	assert.Equal(t, "-", report.FormatCell((*time.Time)(nil)))
}
