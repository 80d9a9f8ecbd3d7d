package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-core/internal/domain"
	"github.com/jhoicas/inventario-core/internal/domain/entity"
	"github.com/jhoicas/inventario-core/internal/domain/repository"
	"github.com/jhoicas/inventario-core/pkg/clock"
)

// Tipos de reporte.
const (
	KindInventory = "inventory"
	KindLowStock  = "low-stock"
	KindMovements = "movements"
)

// Formato de salida.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// maxReportRows tope de filas por reporte.
const maxReportRows = 5000

// Renderer convierte un Document a bytes en un formato concreto.
type Renderer interface {
	Render(ctx context.Context, doc *Document) ([]byte, error)
}

// File reporte renderizado listo para descarga.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Request parámetros de generación. From/To solo aplican al reporte de movimientos.
type Request struct {
	Kind   string
	Format Format
	From   *time.Time
	To     *time.Time
}

// ReportUseCase genera reportes de inventario, stock bajo y movimientos.
type ReportUseCase struct {
	itemRepo  repository.ItemRepository
	movRepo   repository.MovementRepository
	renderers map[Format]Renderer
	clock     clock.Clock
}

// NewReportUseCase construye el caso de uso con un renderer por formato.
func NewReportUseCase(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	pdf Renderer,
	xlsx Renderer,
	clk clock.Clock,
) *ReportUseCase {
	if clk == nil {
		clk = clock.System{}
	}
	return &ReportUseCase{
		itemRepo:  itemRepo,
		movRepo:   movRepo,
		renderers: map[Format]Renderer{FormatPDF: pdf, FormatXLSX: xlsx},
		clock:     clk,
	}
}

// Generate arma el documento pedido y lo renderiza.
// ErrInvalidInput si el tipo o el formato no existen, o el rango de fechas es inválido.
func (uc *ReportUseCase) Generate(ctx context.Context, req Request) (*File, error) {
	format := Format(strings.ToLower(strings.TrimSpace(string(req.Format))))
	if format == "" {
		format = FormatPDF
	}
	renderer, ok := uc.renderers[format]
	if !ok || renderer == nil {
		return nil, fmt.Errorf("%w: formato de reporte desconocido %q", domain.ErrInvalidInput, req.Format)
	}

	var (
		doc *Document
		err error
	)
	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	switch kind {
	case KindInventory:
		doc, err = uc.inventoryDocument(ctx)
	case KindLowStock:
		doc, err = uc.lowStockDocument(ctx)
	case KindMovements:
		doc, err = uc.movementsDocument(ctx, req.From, req.To)
	default:
		return nil, fmt.Errorf("%w: tipo de reporte desconocido %q", domain.ErrInvalidInput, req.Kind)
	}
	if err != nil {
		return nil, err
	}

	data, err := renderer.Render(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("report: renderizar %s: %w", kind, err)
	}
	return &File{
		Name:        fmt.Sprintf("%s-%s.%s", kind, doc.GeneratedAt.Format("20060102-1504"), format),
		ContentType: contentType(format),
		Data:        data,
	}, nil
}

func (uc *ReportUseCase) inventoryDocument(ctx context.Context) (*Document, error) {
	list, total, err := uc.itemRepo.List(ctx, repository.ItemFilter{
		SortBy: repository.ItemSortName,
		Limit:  maxReportRows,
	})
	if err != nil {
		return nil, fmt.Errorf("report: listar ítems: %w", err)
	}
	doc := uc.itemTable("Reporte de inventario", list)
	value := decimal.Zero
	units := 0
	for _, d := range list {
		value = value.Add(d.TotalValue())
		units += d.Quantity
	}
	doc.Subtitle = fmt.Sprintf("%d ítems activos", total)
	doc.Summary = []Metric{
		{Label: "Ítems", Value: total},
		{Label: "Unidades", Value: units},
		{Label: "Valor total", Value: value.Round(2)},
	}
	return doc, nil
}

func (uc *ReportUseCase) lowStockDocument(ctx context.Context) (*Document, error) {
	list, err := uc.itemRepo.ListLowStock(ctx, maxReportRows)
	if err != nil {
		return nil, fmt.Errorf("report: listar stock bajo: %w", err)
	}
	doc := uc.itemTable("Ítems con stock bajo", list)
	doc.Subtitle = "Cantidad igual o menor al umbral, sin agotados"
	doc.Summary = []Metric{{Label: "Ítems en alerta", Value: len(list)}}
	return doc, nil
}

func (uc *ReportUseCase) itemTable(title string, list []*entity.ItemDetail) *Document {
	doc := &Document{
		Title:       title,
		GeneratedAt: uc.clock.Now(),
		Columns: []Column{
			{Header: "SKU", Span: 2},
			{Header: "Nombre", Span: 3},
			{Header: "Categoría", Span: 2},
			{Header: "Cant.", Span: 1, Align: AlignCenter},
			{Header: "Mín.", Span: 1, Align: AlignCenter},
			{Header: "Precio", Span: 1, Align: AlignRight},
			{Header: "Valor", Span: 2, Align: AlignRight},
		},
		Rows: make([][]any, 0, len(list)),
	}
	for _, d := range list {
		doc.Rows = append(doc.Rows, []any{
			d.SKU, d.Name, d.CategoryName, d.Quantity, d.LowStockThreshold, d.UnitPrice, d.TotalValue(),
		})
	}
	return doc
}

func (uc *ReportUseCase) movementsDocument(ctx context.Context, from, to *time.Time) (*Document, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: end_date anterior a start_date", domain.ErrInvalidInput)
	}
	list, total, err := uc.movRepo.List(ctx, repository.MovementFilter{
		From:       from,
		To:         to,
		SortBy:     repository.MovementSortDate,
		Descending: true,
		Limit:      maxReportRows,
	})
	if err != nil {
		return nil, fmt.Errorf("report: listar movimientos: %w", err)
	}
	doc := &Document{
		Title:       "Movimientos de inventario",
		Subtitle:    rangeLabel(from, to),
		GeneratedAt: uc.clock.Now(),
		Columns: []Column{
			{Header: "Fecha", Span: 2},
			{Header: "Referencia", Span: 2},
			{Header: "SKU", Span: 2},
			{Header: "Ítem", Span: 2},
			{Header: "Tipo", Span: 1, Align: AlignCenter},
			{Header: "Cant.", Span: 1, Align: AlignRight},
			{Header: "Usuario", Span: 2},
		},
		Rows: make([][]any, 0, len(list)),
	}
	counts := map[string]int{}
	for _, m := range list {
		counts[m.Type]++
		doc.Rows = append(doc.Rows, []any{
			m.MovementDate, m.Reference, m.ItemSKU, m.ItemName, m.Type, m.Quantity, m.UserName,
		})
	}
	doc.Summary = []Metric{
		{Label: "Movimientos", Value: total},
		{Label: "Entradas", Value: counts[entity.MovementTypeInbound]},
		{Label: "Salidas", Value: counts[entity.MovementTypeOutbound]},
		{Label: "Ajustes", Value: counts[entity.MovementTypeAdjustment]},
	}
	return doc, nil
}

func rangeLabel(from, to *time.Time) string {
	switch {
	case from != nil && to != nil:
		return fmt.Sprintf("Del %s al %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	case from != nil:
		return "Desde " + from.Format("2006-01-02")
	case to != nil:
		return "Hasta " + to.Format("2006-01-02")
	default:
		return "Todos los movimientos"
	}
}

func contentType(f Format) string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}
