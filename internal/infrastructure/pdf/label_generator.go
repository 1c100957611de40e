// Package pdf genera las etiquetas imprimibles de productos con Maroto v2.
//
// Layout de la etiqueta (100 x 60 mm):
//
//	┌──────────────────────────────────┐
//	│  NOMBRE DEL PRODUCTO             │
//	│  SKU            Vence: AAAA-MM-DD│
//	│  ▌▌▌ ▌▌ ▌▌▌ (EAN-13)  │  $ PRECIO │
//	└──────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/grocery-inventory-api/internal/application/ports"
	"github.com/jhoicas/grocery-inventory-api/internal/infrastructure/barcode"
)

var _ ports.LabelRenderer = (*LabelGenerator)(nil)

// Tamaño de la etiqueta en mm.
const (
	labelWidth  = 100
	labelHeight = 60
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// LabelGenerator implementa ports.LabelRenderer usando Maroto v2.
// El código de barras se dibuja con el mismo renderer de las imágenes PNG.
type LabelGenerator struct {
	renderer *barcode.PNGRenderer
	printer  *message.Printer
}

// NewLabelGenerator construye el generador. Los precios se formatean en español.
func NewLabelGenerator(renderer *barcode.PNGRenderer) *LabelGenerator {
	if renderer == nil {
		renderer = barcode.NewPNGRenderer()
	}
	return &LabelGenerator{renderer: renderer, printer: message.NewPrinter(language.Spanish)}
}

// RenderLabel genera el PDF de la etiqueta y devuelve sus bytes.
func (g *LabelGenerator) RenderLabel(_ context.Context, data ports.LabelData) ([]byte, error) {
	img, err := g.renderer.Render(data.Barcode)
	if err != nil {
		return nil, fmt.Errorf("pdf: código de barras: %w", err)
	}

	cfg := config.NewBuilder().
		WithDimensions(labelWidth, labelHeight).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(2).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Etiqueta "+data.SKU, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(titleRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(barcodeRow(img, data.Barcode, g.formatPrice(data.Price)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiqueta: %w", err)
	}
	return doc.GetBytes(), nil
}

// formatPrice usa separadores de miles del español: 1234567.5 -> "$ 1.234.567,50".
func (g *LabelGenerator) formatPrice(price decimal.Decimal) string {
	return g.printer.Sprintf("$ %.2f", price.Round(2).InexactFloat64())
}

func titleRow(data ports.LabelData) core.Row {
	expiry := "Sin vencimiento"
	if data.ExpiryDate != "" {
		expiry = "Vence: " + data.ExpiryDate
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New(data.Name, props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 1,
			}),
			text.New("SKU: "+data.SKU, props.Text{Size: 8, Top: 8, Color: colorGray}),
			text.New(expiry, props.Text{Size: 8, Top: 8, Align: align.Right, Color: colorGray}),
		),
	)
}

func barcodeRow(img []byte, number, price string) core.Row {
	return row.New(30).Add(
		col.New(8).Add(
			image.NewFromBytes(img, extension.Png, props.Rect{Center: true, Percent: 90}),
		),
		col.New(4).Add(
			text.New(price, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 10,
			}),
			text.New(number, props.Text{Size: 7, Align: align.Right, Top: 20, Color: colorGray}),
		),
	)
}
