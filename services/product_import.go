package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

// TemplateField describes one column of the product import template.
type TemplateField struct {
	Key            string
	Label          string
	AlwaysRequired bool
}

// ProductTemplateFields returns the columns of the product import template.
func ProductTemplateFields() []TemplateField {
	return []TemplateField{
		{Key: "name", Label: "Ürün Adı", AlwaysRequired: true},
		{Key: "sku", Label: "SKU"},
		{Key: "description", Label: "Açıklama"},
		{Key: "category", Label: "Kategori"},
		{Key: "unit", Label: "Birim"},
		{Key: "purchase_price", Label: "Alış Fiyatı"},
		{Key: "sale_price", Label: "Satış Fiyatı"},
		{Key: "tax_rate", Label: "KDV %"},
		{Key: "stock_quantity", Label: "Stok"},
		{Key: "min_stock_level", Label: "Min. Stok"},
		{Key: "brand", Label: "Marka"},
		{Key: "model", Label: "Model"},
	}
}

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is returned after parsing and validating an uploaded file.
type ValidationResult struct {
	TotalRows  int                 `json:"total_rows"`
	ValidRows  int                 `json:"valid_rows"`
	ErrorRows  int                 `json:"error_rows"`
	Errors     []ValidationError   `json:"errors"`
	ParsedRows []map[string]string `json:"-"`
	FileName   string              `json:"-"`
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the
// first sheet.
func parseExcel(file multipart.File) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return rows[0], rows[1:], nil
}

// mapHeadersToFields maps uploaded column headers to TemplateField keys.
// Returns an ordered list of field keys (one per column) and any
// unrecognized columns.
func mapHeadersToFields(headers []string, fields []TemplateField) ([]string, []string) {
	labelToKey := make(map[string]string, len(fields))
	for _, f := range fields {
		normalized := strings.ToLower(strings.TrimSpace(f.Label))
		labelToKey[normalized] = f.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string

	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// Strip trailing " *" that our template adds for required fields
		norm = strings.TrimSuffix(norm, " *")
		norm = strings.TrimSpace(norm)

		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			mapped[i] = ""
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ValidateProductFile parses and validates an uploaded product file.
func ValidateProductFile(
	app *pocketbase.PocketBase,
	file multipart.File,
	fileName string,
	firmID string,
) (*ValidationResult, error) {
	fields := ProductTemplateFields()

	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	if strings.HasSuffix(lowerName, ".csv") {
		headers, dataRows, err = parseCSV(file)
	} else if strings.HasSuffix(lowerName, ".xlsx") {
		headers, dataRows, err = parseExcel(file)
	} else {
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	columnKeys, _ := mapHeadersToFields(headers, fields)

	keyToLabel := make(map[string]string, len(fields))
	for _, f := range fields {
		keyToLabel[f.Key] = f.Label
	}

	categoryNames, err := loadCategoryNames(app, firmID)
	if err != nil {
		return nil, fmt.Errorf("load category names: %w", err)
	}

	result := &ValidationResult{
		TotalRows:  len(dataRows),
		FileName:   fileName,
		ParsedRows: make([]map[string]string, 0, len(dataRows)),
	}

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		rowData := make(map[string]string)
		var rowErrors []ValidationError

		for colIdx, key := range columnKeys {
			if key == "" {
				continue
			}
			value := ""
			if colIdx < len(row) {
				value = strings.TrimSpace(row[colIdx])
			}
			rowData[key] = value
		}

		if rowData["name"] == "" {
			rowErrors = append(rowErrors, ValidationError{
				Row:     rowNum,
				Field:   keyToLabel["name"],
				Message: fmt.Sprintf("%s is required", keyToLabel["name"]),
			})
		}

		rowErrors = append(rowErrors, validateProductNumericFields(rowNum, rowData, keyToLabel)...)

		if ref := rowData["category"]; ref != "" && !categoryNames[ref] {
			rowErrors = append(rowErrors, ValidationError{
				Row:     rowNum,
				Field:   keyToLabel["category"],
				Message: fmt.Sprintf("No category named %q exists for this firm", ref),
			})
		}

		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
		}
		result.ParsedRows = append(result.ParsedRows, rowData)
	}

	errorRowSet := make(map[int]bool)
	for _, e := range result.Errors {
		errorRowSet[e.Row] = true
	}
	result.ErrorRows = len(errorRowSet)
	result.ValidRows = result.TotalRows - result.ErrorRows

	return result, nil
}

// validateProductNumericFields checks numeric columns for non-empty values.
func validateProductNumericFields(rowNum int, data map[string]string, labels map[string]string) []ValidationError {
	var errs []ValidationError

	numericKeys := []string{"purchase_price", "sale_price", "tax_rate", "stock_quantity", "min_stock_level"}
	for _, key := range numericKeys {
		v := data[key]
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, ValidationError{
				Row:     rowNum,
				Field:   labels[key],
				Message: fmt.Sprintf("%s must be a number", labels[key]),
			})
			continue
		}
		if parsed < 0 {
			errs = append(errs, ValidationError{
				Row:     rowNum,
				Field:   labels[key],
				Message: fmt.Sprintf("%s cannot be negative", labels[key]),
			})
		}
		if key == "tax_rate" && parsed > 100 {
			errs = append(errs, ValidationError{
				Row:     rowNum,
				Field:   labels[key],
				Message: "KDV % cannot exceed 100",
			})
		}
	}

	return errs
}

// loadCategoryNames fetches all category names of a firm keyed by name.
func loadCategoryNames(app *pocketbase.PocketBase, firmID string) (map[string]bool, error) {
	records, err := app.FindRecordsByFilter(
		"categories",
		"firm = {:firmId}",
		"",
		0,
		0,
		map[string]any{"firmId": firmID},
	)
	if err != nil {
		return make(map[string]bool), nil
	}

	names := make(map[string]bool, len(records))
	for _, r := range records {
		if name := r.GetString("name"); name != "" {
			names[name] = true
		}
	}
	return names, nil
}

// ImportProducts persists validated rows as product records of the firm.
// Rows with an empty name are skipped. Returns the number of created records.
func ImportProducts(app *pocketbase.PocketBase, firmID string, rows []map[string]string) (int, error) {
	col, err := app.FindCollectionByNameOrId("products")
	if err != nil {
		return 0, fmt.Errorf("find products collection: %w", err)
	}

	categoryIDs, err := loadCategoryIDs(app, firmID)
	if err != nil {
		return 0, fmt.Errorf("load categories: %w", err)
	}

	created := 0
	for _, row := range rows {
		if row["name"] == "" {
			continue
		}

		record := core.NewRecord(col)
		record.Set("firm", firmID)
		record.Set("name", row["name"])
		record.Set("sku", row["sku"])
		record.Set("description", row["description"])
		record.Set("unit", row["unit"])
		record.Set("brand", row["brand"])
		record.Set("model", row["model"])
		record.Set("is_active", true)

		if catID := categoryIDs[row["category"]]; catID != "" {
			record.Set("category", catID)
		}

		record.Set("purchase_price", parseFloatOr(row["purchase_price"], 0))
		record.Set("sale_price", parseFloatOr(row["sale_price"], 0))
		record.Set("tax_rate", parseFloatOr(row["tax_rate"], DefaultTaxRate))
		record.Set("stock_quantity", parseFloatOr(row["stock_quantity"], 0))
		record.Set("min_stock_level", parseFloatOr(row["min_stock_level"], 0))

		if err := app.Save(record); err != nil {
			return created, fmt.Errorf("save product %q: %w", row["name"], err)
		}
		created++
	}
	return created, nil
}

// loadCategoryIDs fetches category record ids of a firm keyed by name.
func loadCategoryIDs(app *pocketbase.PocketBase, firmID string) (map[string]string, error) {
	records, err := app.FindRecordsByFilter(
		"categories",
		"firm = {:firmId}",
		"",
		0,
		0,
		map[string]any{"firmId": firmID},
	)
	if err != nil {
		return make(map[string]string), nil
	}

	ids := make(map[string]string, len(records))
	for _, r := range records {
		ids[r.GetString("name")] = r.Id
	}
	return ids, nil
}

func parseFloatOr(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

// GenerateProductTemplate creates the downloadable import template workbook.
func GenerateProductTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Ürünler"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	fields := ProductTemplateFields()
	for i, field := range fields {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		label := field.Label
		if field.AlwaysRequired {
			label += " *"
		}
		f.SetCellValue(sheet, cell, label)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, colName, colName, 16)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(fields))
	f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)

	// Example row
	example := []any{
		"Lazer Yazıcı", "PRN-001", "A4 ağ yazıcısı", "", "Adet",
		"4500", "5900", "20", "12", "3", "HP", "LaserJet M404",
	}
	for i, v := range example {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, cell, v)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write template: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

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
