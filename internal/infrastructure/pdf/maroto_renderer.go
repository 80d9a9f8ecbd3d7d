// Package pdf renderiza reportes de inventario con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + subtítulo   │  Fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: una columna por Column, grilla de 12                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: etiqueta / valor alineados a la derecha            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/inventario-core/internal/application/report"
)

var _ report.Renderer = (*MarotoRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoRenderer implementa report.Renderer generando PDF.
type MarotoRenderer struct {
	author string
}

// NewMarotoRenderer construye el renderer; author se escribe en los metadatos del PDF.
func NewMarotoRenderer(author string) *MarotoRenderer { return &MarotoRenderer{author: author} }

// Render genera el PDF y devuelve sus bytes.
func (g *MarotoRenderer) Render(ctx context.Context, doc *report.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(doc.Title, true).
		WithAuthor(nonEmpty(g.author, "inventario"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow(doc.Columns))
	m.AddRows(tableRows(doc)...)

	if len(doc.Summary) > 0 {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(summaryRows(doc.Summary)...)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + subtítulo (izq) y fecha de generación (der).
func headerRow(doc *report.Document) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(doc.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Subtitle, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+doc.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera con fondo primario.
func tableHeaderRow(cols []report.Column) core.Row {
	r := row.New(8)
	for _, c := range cols {
		r.Add(col.New(c.Span).Add(text.New(c.Header, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: toAlign(c.Align),
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return r.WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRows: una fila por registro, con bandas alternas.
func tableRows(doc *report.Document) []core.Row {
	if len(doc.Rows) == 0 {
		return []core.Row{row.New(10).Add(col.New(12).Add(
			text.New("Sin registros", props.Text{Size: 8, Align: align.Center, Top: 3, Color: colorGray}),
		))}
	}
	result := make([]core.Row, 0, len(doc.Rows))
	for i, cells := range doc.Rows {
		r := row.New(7)
		for j, c := range doc.Columns {
			var v any
			if j < len(cells) {
				v = cells[j]
			}
			r.Add(col.New(c.Span).Add(text.New(report.FormatCell(v), props.Text{
				Size: 8, Align: toAlign(c.Align), Top: 1, Left: 1, Right: 1,
			})))
		}
		if i%2 == 1 {
			r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		result = append(result, r)
	}
	return result
}

// summaryRows: bloque de totales alineado a la derecha.
func summaryRows(metrics []report.Metric) []core.Row {
	rows := make([]core.Row, 0, len(metrics))
	for _, mt := range metrics {
		rows = append(rows, row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(mt.Label+":", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
			})),
			col.New(3).Add(text.New(report.FormatCell(mt.Value), props.Text{
				Size: 9, Align: align.Right, Right: 1, Color: colorPrimary,
			})),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func toAlign(a report.Align) align.Type {
	switch a {
	case report.AlignCenter:
		return align.Center
	case report.AlignRight:
		return align.Right
	default:
		return align.Left
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
