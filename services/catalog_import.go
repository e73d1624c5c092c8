package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportColumn describes one recognised column of a catalog import file.
// Key is the in-memory field name the value is stored under.
type ImportColumn struct {
	Key      string
	Label    string
	Required bool
	Numeric  bool
	Strategy func(StrategyID) bool // set for strategy-id columns
}

// CatalogColumns are the columns understood by ParseCatalogFile.
var CatalogColumns = []ImportColumn{
	{Key: "category", Label: "Category"},
	{Key: "itemName", Label: "Item Name", Required: true},
	{Key: "description", Label: "Description"},
	{Key: "uom", Label: "UOM"},
	{Key: "brand", Label: "Brand"},
	{Key: "sku", Label: "SKU"},
	{Key: "fobCost", Label: "FOB", Numeric: true},
	{Key: "forexRate", Label: "Forex", Numeric: true},
	{Key: "taxMultiplier", Label: "Tax", Numeric: true},
	{Key: "operationalAdjustment", Label: "Op Adjustment", Numeric: true},
	{Key: "costStrategy", Label: "Cost Strategy", Strategy: CostStrategies.Has},
	{Key: "sellingStrategy", Label: "Selling Strategy", Strategy: SellingStrategies.Has},
	{Key: "retailStrategy", Label: "Retail Strategy", Strategy: RetailStrategies.Has},
	{Key: "manualCost", Label: "Manual Cost", Numeric: true},
	{Key: "manualSellingPrice", Label: "Manual Selling Price", Numeric: true},
	{Key: "manualRetailPrice", Label: "Manual Retail Price", Numeric: true},
}

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CatalogImportResult is returned after parsing and validating a file.
type CatalogImportResult struct {
	TotalRows int                 `json:"total_rows"`
	ValidRows int                 `json:"valid_rows"`
	ErrorRows int                 `json:"error_rows"`
	Errors    []ValidationError   `json:"errors"`
	Rows      []map[string]string `json:"-"` // rows without errors, keyed by ImportColumn.Key
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapHeadersToColumns maps uploaded headers to column keys, case-insensitively.
// Returns one key per header ("" when unrecognised) and the unrecognised headers.
func mapHeadersToColumns(headers []string, columns []ImportColumn) ([]string, []string) {
	labelToKey := make(map[string]string, len(columns)*2)
	for _, c := range columns {
		labelToKey[strings.ToLower(c.Label)] = c.Key
		labelToKey[strings.ToLower(c.Key)] = c.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))
		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ParseCatalogFile parses a .csv or .xlsx catalog and validates every row.
// Rows with errors are reported and left out of the result's Rows.
func ParseCatalogFile(file io.Reader, fileName string) (*CatalogImportResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	columnKeys, _ := mapHeadersToColumns(headers, CatalogColumns)
	byKey := make(map[string]ImportColumn, len(CatalogColumns))
	for _, c := range CatalogColumns {
		byKey[c.Key] = c
	}

	result := &CatalogImportResult{TotalRows: len(dataRows)}
	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		rowData := make(map[string]string)
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			rowData[key] = strings.TrimSpace(row[colIdx])
		}

		rowErrors := validateCatalogRow(rowNum, rowData, byKey)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorRows++
			continue
		}
		result.Rows = append(result.Rows, rowData)
	}
	result.ValidRows = result.TotalRows - result.ErrorRows

	return result, nil
}

func validateCatalogRow(rowNum int, data map[string]string, byKey map[string]ImportColumn) []ValidationError {
	var errs []ValidationError
	for _, c := range CatalogColumns {
		v := data[c.Key]
		if v == "" {
			if c.Required {
				errs = append(errs, ValidationError{Row: rowNum, Field: c.Label, Message: fmt.Sprintf("%s is required", c.Label)})
			}
			continue
		}
		if _, ok := ParseNumber(v); c.Numeric && !ok {
			errs = append(errs, ValidationError{Row: rowNum, Field: c.Label, Message: fmt.Sprintf("%s must be a number", c.Label)})
		}
		if c.Strategy != nil && !c.Strategy(StrategyID(v)) {
			errs = append(errs, ValidationError{Row: rowNum, Field: c.Label, Message: fmt.Sprintf("unknown strategy %q", v)})
		}
	}
	return errs
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, e.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
