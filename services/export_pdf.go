package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateQuotePDF renders a quotation version into a PDF document.
// Page breaks are left to maroto.
func GenerateQuotePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addQuoteHeader(m, data)
	addQuoteTableHeader(m)
	for _, r := range data.Rows {
		addQuoteRow(m, r, data.CurrencySymbol)
	}
	addQuoteSummary(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

func addQuoteHeader(m core.Maroto, data ExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	grey := &props.Color{Red: 80, Green: 80, Blue: 80}
	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(
				text.New("Client: "+data.Client, props.Text{Size: 9, Align: align.Left, Color: grey}),
			),
			col.New(6).Add(
				text.New("Date: "+data.QuoteDate, props.Text{Size: 9, Align: align.Right, Color: grey}),
			),
		),
		row.New(6).Add(
			col.New(6).Add(
				text.New("Reference: "+data.Reference, props.Text{Size: 9, Align: align.Left, Color: grey}),
			),
			col.New(6).Add(
				text.New("Valid until: "+data.ValidUntil, props.Text{Size: 9, Align: align.Right, Color: grey}),
			),
		),
	)

	m.AddRows(row.New(4))
}

func addQuoteTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerText)).WithStyle(&headerCell),
			col.New(5).Add(text.New("Description", headerTextLeft)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Qty", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("UOM", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Unit Price", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Amount", headerText)).WithStyle(&headerCell),
		),
	)
}

func addQuoteRow(m core.Maroto, r RenderRow, symbol string) {
	switch r.Kind {
	case RowCategory:
		bg := &props.Color{Red: 232, Green: 232, Blue: 232}
		m.AddRows(
			row.New(7).Add(
				col.New(12).Add(
					text.New(r.Label, props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left}),
				).WithStyle(&props.Cell{BackgroundColor: bg}),
			),
		)
		return
	case RowOptionalSeparator:
		m.AddRows(
			row.New(8).Add(
				col.New(12).Add(
					text.New(r.Label, props.Text{Size: 8, Style: fontstyle.BoldItalic, Align: align.Center}),
				),
			),
		)
		return
	}

	baseText := props.Text{Size: 7, Align: align.Center}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	desc := r.ItemName
	if r.Description != "" {
		desc += " - " + r.Description
	}

	m.AddRows(
		row.New(7).Add(
			col.New(1).Add(text.New(r.Index, baseText)),
			col.New(5).Add(text.New(desc, leftText)),
			col.New(1).Add(text.New(FormatQty(r.Qty), rightText)),
			col.New(1).Add(text.New(r.UOM, baseText)),
			col.New(2).Add(text.New(FormatAmount(r.Price, symbol), rightText)),
			col.New(2).Add(text.New(FormatAmount(r.Total, symbol), rightText)),
		),
	)
}

func addQuoteSummary(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))

	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	labelStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	valueStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	lines := []struct {
		label string
		value float64
	}{
		{"Subtotal", data.Totals.Subtotal},
		{fmt.Sprintf("Discount (%.1f%%)", data.DiscountPercent), -data.Totals.Discount},
		{"Grand Total", data.Totals.GrandTotal},
	}
	if data.Totals.OptionalTotal != 0 {
		lines = append(lines, struct {
			label string
			value float64
		}{"Optional Items (not included)", data.Totals.OptionalTotal})
	}

	for _, l := range lines {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(l.label, labelStyle)).WithStyle(summaryCell),
				col.New(4).Add(text.New(FormatAmount(l.value, data.CurrencySymbol), valueStyle)).WithStyle(summaryCell),
			),
		)
	}
}
