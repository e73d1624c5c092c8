package services

import (
	"sort"
	"strconv"
)

// UncategorizedLabel is used for lines without a category.
const UncategorizedLabel = "Uncategorized"

// OptionalItemsLabel heads the optional section of a quotation.
const OptionalItemsLabel = "Optional Items"

// RowKind tells a printer how to draw a RenderRow.
type RowKind int

const (
	RowCategory RowKind = iota
	RowOptionalSeparator
	RowItem
)

// QuoteLine is the printable part of one BQ line.
type QuoteLine struct {
	SortOrder   int
	Category    string
	ItemName    string
	Description string
	UOM         string
	Qty         float64
	Price       float64
	Total       float64
	Optional    bool
}

// RenderRow is one row of a quotation as handed to Excel/PDF renderers.
type RenderRow struct {
	Kind        RowKind
	Index       string // running item number, empty for headers
	Label       string // category name or separator text
	ItemName    string
	Description string
	UOM         string
	Qty         float64
	Price       float64
	Total       float64
	Optional    bool
}

// ExportData holds everything needed to export one quotation version.
type ExportData struct {
	Title           string
	Client          string
	Reference       string
	VersionName     string
	QuoteDate       string
	ValidUntil      string
	CurrencySymbol  string
	DiscountPercent float64
	Rows            []RenderRow
	Totals          QuoteTotals
}

// BuildRenderRows orders lines deterministically: standard lines before
// optional ones, grouped by category in order of first appearance, and by
// SortOrder inside a category.
func BuildRenderRows(lines []QuoteLine) []RenderRow {
	sorted := make([]QuoteLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortOrder < sorted[j].SortOrder
	})

	var standard, optional []QuoteLine
	for _, l := range sorted {
		if l.Category == "" {
			l.Category = UncategorizedLabel
		}
		if l.Optional {
			optional = append(optional, l)
		} else {
			standard = append(standard, l)
		}
	}

	var rows []RenderRow
	index := 0
	rows, index = appendSection(rows, standard, index)
	if len(optional) > 0 {
		rows = append(rows, RenderRow{Kind: RowOptionalSeparator, Label: OptionalItemsLabel})
		rows, _ = appendSection(rows, optional, index)
	}
	return rows
}

func appendSection(rows []RenderRow, lines []QuoteLine, index int) ([]RenderRow, int) {
	var categories []string
	byCategory := make(map[string][]QuoteLine)
	for _, l := range lines {
		if _, seen := byCategory[l.Category]; !seen {
			categories = append(categories, l.Category)
		}
		byCategory[l.Category] = append(byCategory[l.Category], l)
	}

	for _, cat := range categories {
		rows = append(rows, RenderRow{Kind: RowCategory, Label: cat})
		for _, l := range byCategory[cat] {
			index++
			rows = append(rows, RenderRow{
				Kind:        RowItem,
				Index:       strconv.Itoa(index),
				Label:       cat,
				ItemName:    l.ItemName,
				Description: l.Description,
				UOM:         l.UOM,
				Qty:         l.Qty,
				Price:       l.Price,
				Total:       l.Total,
				Optional:    l.Optional,
			})
		}
	}
	return rows, index
}
