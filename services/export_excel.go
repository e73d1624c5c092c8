package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateQuoteExcel renders a quotation version into an xlsx workbook and
// returns the file contents.
func GenerateQuoteExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet names are capped at 31 characters.
	sheetName := data.Title
	if data.VersionName != "" {
		sheetName = data.VersionName
	}
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Quotation"
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G"}
	lastCol := columns[len(columns)-1]

	widths := []float64{6, 28, 44, 8, 8, 16, 18}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	categoryStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 10},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E8E8E8"},
			Pattern: 1,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create category style: %w", err)
	}

	separatorStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Italic: true, Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create separator style: %w", err)
	}

	itemStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header Rows (1-4) ───────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	headerLines := []string{}
	if data.Client != "" {
		headerLines = append(headerLines, "Client: "+data.Client)
	}
	if data.Reference != "" {
		headerLines = append(headerLines, "Ref: "+data.Reference)
	}
	dateLine := "Date: " + data.QuoteDate
	if data.ValidUntil != "" {
		dateLine += "    Valid until: " + data.ValidUntil
	}
	headerLines = append(headerLines, dateLine)

	row := 2
	for _, line := range headerLines {
		cellRow := fmt.Sprintf("%d", row)
		if err := f.MergeCell(sheetName, "A"+cellRow, lastCol+cellRow); err != nil {
			return nil, fmt.Errorf("merge header line: %w", err)
		}
		f.SetCellValue(sheetName, "A"+cellRow, sanitizeExcelCell(line))
		f.SetCellStyle(sheetName, "A"+cellRow, lastCol+cellRow, subtitleStyle)
		row++
	}
	row++

	// ── Column Headers ──────────────────────────────────────────────────

	headerRow := fmt.Sprintf("%d", row)
	headers := []string{"#", "Item", "Description", "Qty", "UOM", "Unit Price", "Amount"}
	for i, h := range headers {
		f.SetCellValue(sheetName, columns[i]+headerRow, h)
	}
	f.SetCellStyle(sheetName, "A"+headerRow, lastCol+headerRow, headerStyle)
	row++

	// ── Data Rows ───────────────────────────────────────────────────────

	for _, r := range data.Rows {
		rowStr := fmt.Sprintf("%d", row)

		switch r.Kind {
		case RowCategory, RowOptionalSeparator:
			if err := f.MergeCell(sheetName, "A"+rowStr, lastCol+rowStr); err != nil {
				return nil, fmt.Errorf("merge section row: %w", err)
			}
			f.SetCellValue(sheetName, "A"+rowStr, sanitizeExcelCell(r.Label))
			style := categoryStyle
			if r.Kind == RowOptionalSeparator {
				style = separatorStyle
			}
			f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, style)
		default:
			f.SetCellValue(sheetName, "A"+rowStr, r.Index)
			f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(r.ItemName))
			f.SetCellValue(sheetName, "C"+rowStr, sanitizeExcelCell(r.Description))
			f.SetCellValue(sheetName, "D"+rowStr, r.Qty)
			f.SetCellValue(sheetName, "E"+rowStr, sanitizeExcelCell(r.UOM))
			f.SetCellValue(sheetName, "F"+rowStr, FormatAmount(r.Price, data.CurrencySymbol))
			f.SetCellValue(sheetName, "G"+rowStr, FormatAmount(r.Total, data.CurrencySymbol))
			f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, itemStyle)
		}
		row++
	}

	// ── Summary Rows ────────────────────────────────────────────────────

	row++
	summary := []struct {
		label string
		value float64
	}{
		{"Subtotal:", data.Totals.Subtotal},
		{fmt.Sprintf("Discount (%.1f%%):", data.DiscountPercent), -data.Totals.Discount},
		{"Grand Total:", data.Totals.GrandTotal},
	}
	if data.Totals.OptionalTotal != 0 {
		summary = append(summary, struct {
			label string
			value float64
		}{"Optional Items:", data.Totals.OptionalTotal})
	}
	for _, s := range summary {
		summaryRow := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "F"+summaryRow, s.label)
		f.SetCellStyle(sheetName, "F"+summaryRow, "F"+summaryRow, summaryLabelStyle)
		f.SetCellValue(sheetName, "G"+summaryRow, FormatAmount(s.value, data.CurrencySymbol))
		f.SetCellStyle(sheetName, "G"+summaryRow, "G"+summaryRow, summaryValueStyle)
		row++
	}

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
