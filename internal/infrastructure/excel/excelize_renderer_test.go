package excel_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-core/internal/application/report"
	"github.com/jhoicas/inventario-core/internal/infrastructure/excel"
)

func TestRenderer_EscribeTablaYTotales(t *testing.T) {
	doc := &report.Document{
		Title:       "Movimientos de inventario",
		Subtitle:    "Todos los movimientos",
		GeneratedAt: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		Columns: []report.Column{
			{Header: "Referencia", Span: 3},
			{Header: "Cant.", Span: 2},
			{Header: "Precio", Span: 2},
		},
		Rows: [][]any{
			{"IN-1", 5, decimal.RequireFromString("12.50")},
			{"OUT-1", 2, decimal.NewFromInt(3)},
		},
		Summary: []report.Metric{{Label: "Movimientos", Value: 2}},
	}

	out, err := excel.NewRenderer().Render(context.Background(), doc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Movimientos de inventario", title)

	header, err := f.GetCellValue("Sheet1", "B5")
	require.NoError(t, err)
	assert.Equal(t, "Cant.", header)

	ref, err := f.GetCellValue("Sheet1", "A7")
	require.NoError(t, err)
	assert.Equal(t, "OUT-1", ref)

	qty, err := f.GetCellValue("Sheet1", "B6")
	require.NoError(t, err)
	assert.Equal(t, "5", qty)

	label, err := f.GetCellValue("Sheet1", "A9")
	require.NoError(t, err)
	assert.Equal(t, "Movimientos", label)
}
