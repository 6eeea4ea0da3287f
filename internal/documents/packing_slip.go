package documents

import (
	"fmt"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"admin-console/internal/models"
)

// PackingSlipContentType is the media type of rendered slips.
const PackingSlipContentType = "application/pdf"

// PackingSlipOptions customises the slip header.
type PackingSlipOptions struct {
	StoreName   string
	GeneratedAt time.Time
}

// PackingSlip renders the order details view as a printable PDF.
func PackingSlip(order *models.Order, opts PackingSlipOptions) ([]byte, error) {
	if order == nil {
		return nil, fmt.Errorf("packing slip: order is nil")
	}
	if opts.StoreName == "" {
		opts.StoreName = "Store"
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(10).
		WithTopMargin(15).
		WithRightMargin(10).
		Build()

	m := maroto.New(cfg)

	addHeader(m, order, opts)
	addOrderDetails(m, order)
	addItems(m, order)
	addTotal(m, order)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate packing slip: %w", err)
	}
	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, order *models.Order, opts PackingSlipOptions) {
	m.AddRow(20,
		col.New(6).Add(
			text.New(opts.StoreName, props.Text{
				Size:  16,
				Style: fontstyle.Bold,
				Align: align.Left,
			}),
		),
		col.New(6).Add(
			text.New("PACKING SLIP", props.Text{
				Size:  18,
				Style: fontstyle.Bold,
				Align: align.Right,
			}),
			text.New(fmt.Sprintf("Order #%d", order.ID), props.Text{
				Size:  10,
				Top:   8,
				Align: align.Right,
			}),
		),
	)
	m.AddRow(5, line.NewCol(12))
}

func addOrderDetails(m core.Maroto, order *models.Order) {
	source := order.Source
	if source == "" {
		source = "n/a"
	}
	m.AddRow(18,
		col.New(6).Add(
			text.New(fmt.Sprintf("Customer: %s", order.UserEmail), props.Text{
				Size:  10,
				Align: align.Left,
			}),
			text.New(fmt.Sprintf("Date: %s", order.OrderDate), props.Text{
				Size:  10,
				Top:   5,
				Align: align.Left,
			}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Status: %s", order.Status), props.Text{
				Size:  10,
				Align: align.Right,
			}),
			text.New(fmt.Sprintf("Source: %s", strings.ToUpper(source[:1])+source[1:]), props.Text{
				Size:  10,
				Top:   5,
				Align: align.Right,
			}),
		),
	)
	m.AddRow(5, line.NewCol(12))
}

func addItems(m core.Maroto, order *models.Order) {
	header := props.Text{Size: 9, Style: fontstyle.Bold}
	m.AddRow(8,
		col.New(5).Add(text.New("Item", withAlign(header, align.Left))),
		col.New(3).Add(text.New("SKU", withAlign(header, align.Center))),
		col.New(1).Add(text.New("Qty", withAlign(header, align.Center))),
		col.New(3).Add(text.New("Subtotal", withAlign(header, align.Right))),
	)
	m.AddRow(2, line.NewCol(12))

	if len(order.Items) == 0 {
		m.AddRow(8, col.New(12).Add(text.New("No items", props.Text{Size: 9, Align: align.Center})))
		return
	}

	cell := props.Text{Size: 9}
	for _, item := range order.Items {
		m.AddRow(8,
			col.New(5).Add(text.New(item.ProductName, withAlign(cell, align.Left))),
			col.New(3).Add(text.New(item.SKU, withAlign(cell, align.Center))),
			col.New(1).Add(text.New(fmt.Sprintf("%d", item.Quantity), withAlign(cell, align.Center))),
			col.New(3).Add(text.New(models.FormatPrice(item.Subtotal), withAlign(cell, align.Right))),
		)
	}
}

func addTotal(m core.Maroto, order *models.Order) {
	m.AddRow(5, line.NewCol(12))
	m.AddRow(10,
		col.New(9),
		col.New(3).Add(
			text.New(fmt.Sprintf("Total: %s", models.FormatPrice(order.TotalAmount)), props.Text{
				Size:  11,
				Style: fontstyle.Bold,
				Align: align.Right,
			}),
		),
	)
}

func withAlign(p props.Text, a align.Type) props.Text {
	p.Align = a
	return p
}
