// Package pdf genera el reporte imprimible del historial de movimientos (kardex).
//
// Layout de la página A4 horizontal:
//
//	┌──────────────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + filtros          │  Generado: fecha / N° registros  │
//	│  ──────────────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Producto | Ubicación | Empresa | Ant | Nuevo   │
//	│         | Cambio | Usuario   (+ motivo en una línea bajo cada fila)   │
//	│  ──────────────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                                     │
//	└──────────────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Bodegaje-api/internal/application/inventory"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
)

var _ inventory.ReportGenerator = (*MovementReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorIn      = &props.Color{Red: 0, Green: 120, Blue: 60}
	colorOut     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MovementReportGenerator implementa inventory.ReportGenerator usando Maroto v2.
type MovementReportGenerator struct {
	author string
}

// NewMovementReportGenerator construye el generador; author aparece en los metadatos del PDF.
func NewMovementReportGenerator(author string) *MovementReportGenerator {
	return &MovementReportGenerator{author: author}
}

// MovementReport genera el PDF y devuelve sus bytes.
func (g *MovementReportGenerator) MovementReport(
	_ context.Context,
	title string,
	movements []*entity.MovementView,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(title, true).
		WithAuthor(nonEmpty(g.author, "Bodegaje"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(title, generatedAt, len(movements)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	if len(movements) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No hay movimientos para los filtros indicados.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	for _, mv := range movements {
		m.AddRows(movementRows(mv)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Las cantidades vacías corresponden a movimientos de catálogo o a registros eliminados.", props.Text{
			Size: 6.5, Color: colorGray, Top: 2,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, generatedAt time.Time, count int) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(fmt.Sprintf("Movimientos: %d", count), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 8,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla en una grilla de 12 columnas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 2, align.Left),
		h("Producto", 2, align.Left),
		h("Ubicación", 1, align.Left),
		h("Empresa", 1, align.Left),
		h("Anterior", 1, align.Right),
		h("Nueva", 1, align.Right),
		h("Cambio", 1, align.Right),
		h("Usuario", 1, align.Left),
	)
}

// movementRows: fila de datos y, si hay motivo, una línea con el motivo.
func movementRows(mv *entity.MovementView) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	deltaColor := colorGray
	switch {
	case mv.QuantityDelta > 0:
		deltaColor = colorIn
	case mv.QuantityDelta < 0:
		deltaColor = colorOut
	}
	product := mv.ProductName
	if mv.ProductSKU != "" {
		product += " (" + mv.ProductSKU + ")"
	}
	company := mv.CompanyName
	if mv.CompanyID == nil && !mv.Kind.IsCatalog() {
		company = entity.NoCompanyLabel
	}

	rows := []core.Row{row.New(6).Add(
		cell(mv.CreatedAt.Format("02/01/2006 15:04"), 2, align.Left),
		cell(mv.Kind.Label(), 2, align.Left),
		cell(nonEmpty(product, "-"), 2, align.Left),
		cell(nonEmpty(mv.LocationName, "-"), 1, align.Left),
		cell(nonEmpty(company, "-"), 1, align.Left),
		cell(optionalQuantity(mv.QuantityBefore), 1, align.Right),
		cell(optionalQuantity(mv.QuantityAfter), 1, align.Right),
		col.New(1).Add(text.New(signedQuantity(mv.QuantityDelta), props.Text{
			Size: 7.5, Align: align.Right, Top: 1, Right: 1, Style: fontstyle.Bold, Color: deltaColor,
		})),
		cell(nonEmpty(mv.UserName, "-"), 1, align.Left),
	)}
	if mv.Reason != "" {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(mv.Reason, props.Text{Size: 6.5, Color: colorGray, Left: 3}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func optionalQuantity(q *int64) string {
	if q == nil {
		return "-"
	}
	return formatQuantity(*q)
}

func signedQuantity(q int64) string {
	if q > 0 {
		return "+" + formatQuantity(q)
	}
	return formatQuantity(q)
}

// formatQuantity inserta puntos de miles.
// Ej: 25000 → "25.000", -1000000 → "-1.000.000"
func formatQuantity(q int64) string {
	s := strconv.FormatInt(q, 10)
	sign := ""
	if q < 0 {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
