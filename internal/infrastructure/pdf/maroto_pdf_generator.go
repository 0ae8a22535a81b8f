// Package pdf genera el reporte del IPV del día de un área.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Área + Día           │  Generado                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PRODUCTOS: Nombre | Ini | Ent | Venta | Final | Vend | $   │
//	│  INGREDIENTES: Nombre | Ini | Ent | Final | Consumo | Disp  │
//	│  AGREGOS: Nombre | Cant | P.Unit | Importe                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Productos / Agregos / TOTAL + QR de control       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarn    = &props.Color{Red: 170, Green: 40, Blue: 40}
)

var sectionTitles = map[entity.Section]string{
	entity.SectionSalon:  "Salón",
	entity.SectionCocina: "Cocina",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa report.DayReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateDayReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDayReport(_ context.Context, summary entity.DaySummary, generatedAt time.Time) ([]byte, error) {
	title := "IPV " + sectionTitle(summary.Section)
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor("Gestor IPV", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(title, summary.BusinessDay, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	var products, ingredients []entity.InventoryItem
	for _, it := range summary.Items {
		if it.IsIngredient {
			ingredients = append(ingredients, it)
		} else {
			products = append(products, it)
		}
	}

	m.AddRows(sectionTitleRow("PRODUCTOS"))
	m.AddRows(tableHeaderRow([]string{"Producto", "Inicio", "Entrada", "Venta", "Final", "Vendido", "Importe"}))
	for _, r := range productRows(products) {
		m.AddRows(r)
	}

	if len(ingredients) > 0 {
		m.AddRows(line.NewRow(2))
		m.AddRows(sectionTitleRow("INGREDIENTES"))
		m.AddRows(tableHeaderRow([]string{"Ingrediente", "Inicio", "Entrada", "Venta", "Final", "Consumo", "Disponible"}))
		for _, r := range ingredientRows(ingredients) {
			m.AddRows(r)
		}
	}

	if len(summary.Agregos) > 0 {
		m.AddRows(line.NewRow(2))
		m.AddRows(sectionTitleRow("AGREGOS"))
		for _, r := range agregoRows(summary.Agregos) {
			m.AddRows(r)
		}
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(summary))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title, day string, generatedAt time.Time) core.Row {
	fecha := day
	if t, err := time.Parse(time.DateOnly, day); err == nil {
		fecha = t.Format("02/01/2006")
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Día: "+fecha, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("INVENTARIO · PRECIO · VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func sectionTitleRow(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1}),
	))
}

// tableHeaderRow: primera columna ancha y seis numéricas.
func tableHeaderRow(labels []string) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, label := range labels {
		size, a := 1, align.Right
		if i == 0 {
			size, a = 4, align.Left
		} else if i == len(labels)-1 {
			size = 3
		}
		cols = append(cols, col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cols...)
}

func productRows(items []entity.InventoryItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, itemRow(it.Name, []string{
			it.Start.StringFixed(0),
			it.Entry.StringFixed(0),
			it.Sale.StringFixed(0),
			it.Final.StringFixed(0),
			it.Sold.StringFixed(0),
		}, "$"+formatMoney(it.Revenue), it.FinalManuallyEdited()))
	}
	return result
}

func ingredientRows(items []entity.InventoryItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, itemRow(it.Name, []string{
			formatQty(it.Start),
			formatQty(it.Entry),
			formatQty(it.Sale),
			formatQty(it.Final),
			formatQty(it.Sold),
		}, formatQty(it.Available), it.FinalManuallyEdited()))
	}
	return result
}

// itemRow: los ítems con final fijado a mano llevan un asterisco.
func itemRow(name string, values []string, last string, pinned bool) core.Row {
	if pinned {
		name += " *"
	}
	cols := []core.Col{col.New(4).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1}))}
	for _, v := range values {
		cols = append(cols, col.New(1).Add(text.New(v, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})))
	}
	cols = append(cols, col.New(3).Add(text.New(last, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})))
	return row.New(6).Add(cols...)
}

func agregoRows(agregos []entity.Agrego) []core.Row {
	rows := []core.Row{row.New(6).Add(
		col.New(6).Add(text.New("Agrego", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New("Cant.", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1})),
		col.New(2).Add(text.New("P.Unit", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1})),
		col.New(2).Add(text.New("Importe", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)}
	for _, a := range agregos {
		names := make([]string, 0, len(a.Ingredients))
		for _, ing := range a.Ingredients {
			names = append(names, ing.Name+" "+formatQty(ing.QuantityConsumedTotal))
		}
		rows = append(rows, row.New(9).Add(
			col.New(6).Add(
				text.New(a.Name, props.Text{Size: 8, Top: 1, Left: 1}),
				text.New(strings.Join(names, ", "), props.Text{Size: 6.5, Top: 5, Left: 2, Color: colorGray}),
			),
			col.New(2).Add(text.New(a.Quantity.StringFixed(0), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New("$"+formatMoney(a.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New("$"+formatMoney(a.TotalAmount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

// totalsRow: QR de control a la izquierda y totales a la derecha.
func totalsRow(summary entity.DaySummary) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, top, right float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: right, Top: top,
		})
	}

	control := fmt.Sprintf("IPV|%s|%s|%s|%s", summary.Section, summary.BusinessDay,
		summary.UnitsSold.String(), summary.Total.StringFixed(2))

	notes, noteColor := "* final fijado a mano", colorGray
	if summary.Total.IsZero() {
		notes, noteColor = "Sin ventas registradas", colorWarn
	}

	return row.New(30).Add(
		col.New(3).Add(code.NewQr(control, props.Rect{Percent: 90, Center: true})),
		col.New(3).Add(text.New(notes, props.Text{Size: 7, Top: 2, Left: 2, Color: noteColor})),
		col.New(3).Add(
			label("Unidades vendidas:", 0),
			label("Productos:", 6),
			label("Agregos:", 12),
			grand("TOTAL:", 19, 2),
		),
		col.New(3).Add(
			value(summary.UnitsSold.StringFixed(0), 0),
			value("$"+formatMoney(summary.ProductRevenue), 6),
			value("$"+formatMoney(summary.AgregoRevenue), 12),
			grand("$"+formatMoney(summary.Total), 19, 1),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func sectionTitle(s entity.Section) string {
	if t, ok := sectionTitles[s]; ok {
		return t
	}
	return string(s)
}

// formatMoney importe con puntos de miles y coma decimal; omite ",00".
// Ej: 25000 → "25.000", 1234.5 → "1.234,50"
func formatMoney(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3+4)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if frac != "00" {
		buf = append(buf, ',')
		buf = append(buf, frac...)
	}
	return string(buf)
}

// formatQty cantidad de ingrediente sin ceros sobrantes.
func formatQty(d decimal.Decimal) string {
	return strings.ReplaceAll(d.Round(3).String(), ".", ",")
}
