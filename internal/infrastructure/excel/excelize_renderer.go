// Package excel renderiza reportes de inventario a XLSX con excelize.
package excel

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-core/internal/application/report"
)

var _ report.Renderer = (*Renderer)(nil)

const (
	sheetName   = "Sheet1"
	numFmtMoney = 4  // #,##0.00
	numFmtDate  = 22 // m/d/yy h:mm
)

// Renderer implementa report.Renderer generando un libro de una hoja:
// título, subtítulo, tabla con cabecera en negrita y bloque de totales.
type Renderer struct{}

// NewRenderer construye el renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// Render genera el XLSX y devuelve sus bytes.
func (r *Renderer) Render(ctx context.Context, doc *report.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	set := func(colIdx, rowIdx int, v any) error {
		cell, err := excelize.CoordinatesToCellName(colIdx, rowIdx)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, cellValue(v)); err != nil {
			return err
		}
		switch v.(type) {
		case decimal.Decimal:
			return f.SetCellStyle(sheetName, cell, cell, styles.money)
		case time.Time:
			return f.SetCellStyle(sheetName, cell, cell, styles.date)
		}
		return nil
	}

	if err := set(1, 1, doc.Title); err != nil {
		return nil, fmt.Errorf("excel: título: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", styles.title); err != nil {
		return nil, fmt.Errorf("excel: título: %w", err)
	}
	if err := set(1, 2, doc.Subtitle); err != nil {
		return nil, fmt.Errorf("excel: subtítulo: %w", err)
	}
	if err := set(1, 3, "Generado: "+doc.GeneratedAt.Format("2006-01-02 15:04")); err != nil {
		return nil, fmt.Errorf("excel: fecha: %w", err)
	}

	const headerRow = 5
	for i, c := range doc.Columns {
		if err := set(i+1, headerRow, c.Header); err != nil {
			return nil, fmt.Errorf("excel: cabecera: %w", err)
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, name, name, float64(c.Span)*6); err != nil {
			return nil, fmt.Errorf("excel: ancho de columna: %w", err)
		}
	}
	if n := len(doc.Columns); n > 0 {
		last, _ := excelize.CoordinatesToCellName(n, headerRow)
		if err := f.SetCellStyle(sheetName, "A5", last, styles.header); err != nil {
			return nil, fmt.Errorf("excel: estilo cabecera: %w", err)
		}
	}

	rowIdx := headerRow + 1
	for _, cells := range doc.Rows {
		for j, v := range cells {
			if err := set(j+1, rowIdx, v); err != nil {
				return nil, fmt.Errorf("excel: fila %d: %w", rowIdx, err)
			}
		}
		rowIdx++
	}

	rowIdx++
	for _, m := range doc.Summary {
		if err := set(1, rowIdx, m.Label); err != nil {
			return nil, fmt.Errorf("excel: totales: %w", err)
		}
		if err := set(2, rowIdx, m.Value); err != nil {
			return nil, fmt.Errorf("excel: totales: %w", err)
		}
		rowIdx++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

type styleSet struct {
	title  int
	header int
	money  int
	date   int
}

func newStyles(f *excelize.File) (styleSet, error) {
	var s styleSet
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14, Color: "00467F"}}); err != nil {
		return s, fmt.Errorf("excel: estilo: %w", err)
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00467F"}},
	}); err != nil {
		return s, fmt.Errorf("excel: estilo: %w", err)
	}
	if s.money, err = f.NewStyle(&excelize.Style{NumFmt: numFmtMoney}); err != nil {
		return s, fmt.Errorf("excel: estilo: %w", err)
	}
	if s.date, err = f.NewStyle(&excelize.Style{NumFmt: numFmtDate}); err != nil {
		return s, fmt.Errorf("excel: estilo: %w", err)
	}
	return s, nil
}

// cellValue convierte la celda a un tipo que excelize escribe de forma nativa.
func cellValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	case *time.Time:
		if x == nil {
			return ""
		}
		return *x
	default:
		return v
	}
}
