// Package report arma los reportes de inventario como un Document neutro
// que luego se renderiza a PDF o XLSX.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Align alineación horizontal de una columna.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Column cabecera de la tabla. Span es el ancho en una grilla de 12.
type Column struct {
	Header string
	Span   int
	Align  Align
}

// Metric par etiqueta/valor del bloque de totales.
type Metric struct {
	Label string
	Value any
}

// Document contenido de un reporte. Las celdas son string, int, decimal.Decimal o time.Time.
type Document struct {
	Title       string
	Subtitle    string
	GeneratedAt time.Time
	Columns     []Column
	Rows        [][]any
	Summary     []Metric
}

// FormatCell representación textual de una celda.
// Los decimales se muestran con 2 decimales y separador de miles.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return fmt.Sprintf("%d", x)
	case decimal.Decimal:
		return FormatMoney(x)
	case time.Time:
		if x.IsZero() {
			return "-"
		}
		return x.Format("2006-01-02 15:04")
	case *time.Time:
		if x == nil {
			return "-"
		}
		return FormatCell(*x)
	default:
		return fmt.Sprint(x)
	}
}

// FormatMoney "$1.234.567,89".
func FormatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$" + groupThousands(intPart) + "," + frac
}

// groupThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
