// Package pdf implementa la generación del ticket de venta.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────────┐
//	│  HEADER: Nombre del comercio │ N° Ticket/Fecha │
//	│  ───────────────────────────────────────────── │
//	│  Cajero + Cliente + Método de pago             │
//	│  ───────────────────────────────────────────── │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal    │
//	│  ───────────────────────────────────────────── │
//	│  TOTAL                                         │
//	│  Leyenda (venta cancelada si aplica)           │
//	└───────────────────────────────────────────────┘
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

	appbilling "github.com/tu-usuario/pos-backend/internal/application/billing"
	"github.com/tu-usuario/pos-backend/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// MarotoTicketGenerator implementa billing.TicketPDFGenerator usando Maroto v2.
type MarotoTicketGenerator struct {
	storeName string
}

// NewMarotoTicketGenerator construye el generador con el nombre del comercio.
func NewMarotoTicketGenerator(storeName string) *MarotoTicketGenerator {
	return &MarotoTicketGenerator{storeName: storeName}
}

// GenerateTicketPDF genera el ticket y devuelve sus bytes.
func (g *MarotoTicketGenerator) GenerateTicketPDF(
	_ context.Context,
	sale *entity.Sale,
	customer *entity.Customer,
	cashier *entity.User,
	lines []appbilling.SaleLineForPDF,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Ticket de venta", true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(infoRow(sale, customer, cashier))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(sale))

	if sale.Status == entity.SaleStatusCancelled {
		m.AddRows(cancelledRow(sale))
	}

	m.AddRows(line.NewRow(2))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New("Gracias por su compra", props.Text{
			Size: 8, Align: align.Center, Color: colorGray, Top: 1,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: comercio (izq) y número de ticket + fecha (der).
func (g *MarotoTicketGenerator) headerRow(sale *entity.Sale) core.Row {
	fecha := sale.Date.Format("02/01/2006 15:04")
	return row.New(16).Add(
		col.New(7).Add(
			text.New(g.storeName, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("TICKET DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("V-"+sale.ID, props.Text{
				Size: 7, Align: align.Right, Top: 6,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 7, Align: align.Right, Top: 11, Color: colorGray,
			}),
		),
	)
}

// infoRow: cajero, cliente y método de pago.
func infoRow(sale *entity.Sale, customer *entity.Customer, cashier *entity.User) core.Row {
	clienteName := "Consumidor final"
	if customer != nil {
		clienteName = customer.FirstName + " " + customer.LastName
	}
	cajeroName := "—"
	if cashier != nil {
		cajeroName = cashier.Name
	}
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Cajero: %s   |   Cliente: %s   |   Pago: %s",
				cajeroName, clienteName, sale.PaymentMethod,
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Producto", 5, align.Left),
		h("P.Unit", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

// tableLineRows: una fila por línea de venta.
func tableLineRows(lines []appbilling.SaleLineForPDF) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				fmt.Sprintf("%d", l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				l.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"$"+formatMoney(l.UnitPrice.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				"$"+formatMoney(l.Subtotal.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalRow: total de la venta alineado a la derecha.
func totalRow(sale *entity.Sale) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(3).Add(text.New("$"+formatMoney(sale.Total.StringFixed(0)), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// cancelledRow: marca visible cuando el ticket corresponde a una venta cancelada.
func cancelledRow(sale *entity.Sale) core.Row {
	motivo := sale.CancelReason
	if sale.CancelledAt != nil {
		motivo = fmt.Sprintf("%s (%s)", motivo, sale.CancelledAt.Format("02/01/2006 15:04"))
	}
	return row.New(12).Add(col.New(12).Add(
		text.New("VENTA CANCELADA", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Center,
			Color: colorRed, Top: 2,
		}),
		text.New("Motivo: "+motivo, props.Text{
			Size: 7, Align: align.Center, Color: colorGray, Top: 8,
		}),
	))
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
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
