package services

import (
	"bytes"
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/xuri/excelize/v2"
)

// ProductExportRow is a single catalog row for Excel export.
type ProductExportRow struct {
	Name          string
	SKU           string
	Category      string
	Unit          string
	PurchasePrice float64
	SalePrice     float64
	TaxRate       float64
	StockQuantity float64
	MinStockLevel float64
	IsService     bool
}

// ProductExportData holds everything needed to render a catalog workbook.
type ProductExportData struct {
	FirmName string
	Products []ProductExportRow
}

// BuildProductExportData assembles the product catalog of a firm, resolving
// category names for display.
func BuildProductExportData(app *pocketbase.PocketBase, firmID string) (*ProductExportData, error) {
	firm, err := app.FindRecordById("firms", firmID)
	if err != nil {
		return nil, fmt.Errorf("firm not found: %w", err)
	}

	products, err := app.FindRecordsByFilter(
		"products",
		"firm = {:firmId}",
		"name",
		0,
		0,
		map[string]any{"firmId": firmID},
	)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}

	// Resolve category names once instead of per product.
	categoryNames := make(map[string]string)
	categories, err := app.FindRecordsByFilter(
		"categories",
		"firm = {:firmId}",
		"",
		0,
		0,
		map[string]any{"firmId": firmID},
	)
	if err == nil {
		for _, c := range categories {
			categoryNames[c.Id] = c.GetString("name")
		}
	}

	data := &ProductExportData{FirmName: firm.GetString("name")}
	for _, p := range products {
		data.Products = append(data.Products, ProductExportRow{
			Name:          p.GetString("name"),
			SKU:           p.GetString("sku"),
			Category:      categoryNames[p.GetString("category")],
			Unit:          p.GetString("unit"),
			PurchasePrice: p.GetFloat("purchase_price"),
			SalePrice:     p.GetFloat("sale_price"),
			TaxRate:       p.GetFloat("tax_rate"),
			StockQuantity: p.GetFloat("stock_quantity"),
			MinStockLevel: p.GetFloat("min_stock_level"),
			IsService:     p.GetBool("is_service"),
		})
	}
	return data, nil
}

// GenerateProductsExcel creates an Excel catalog workbook and returns the
// file contents as a byte slice.
func GenerateProductsExcel(data *ProductExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Ürünler"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}
	widths := []float64{32, 14, 18, 10, 14, 14, 8, 10, 10, 10}
	for i, colRef := range columns {
		if err := f.SetColWidth(sheetName, colRef, colRef, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", colRef, err)
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	bodyStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create body style: %w", err)
	}

	moneyFormat := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 10},
		Border:       thinBorders(),
		CustomNumFmt: &moneyFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	// Title + firm name
	f.SetCellValue(sheetName, "A1", "Ürün Kataloğu")
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetCellValue(sheetName, "A2", data.FirmName)

	// Column headers on row 4
	headers := []string{
		"Ürün Adı", "SKU", "Kategori", "Birim",
		"Alış Fiyatı", "Satış Fiyatı", "KDV %",
		"Stok", "Min. Stok", "Tür",
	}
	for i, h := range headers {
		cell := fmt.Sprintf("%s4", columns[i])
		f.SetCellValue(sheetName, cell, h)
	}
	f.SetCellStyle(sheetName, "A4", "J4", headerStyle)

	for i, p := range data.Products {
		rowNum := i + 5
		kind := "Ürün"
		if p.IsService {
			kind = "Hizmet"
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), p.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), p.SKU)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowNum), p.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowNum), p.Unit)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowNum), p.PurchasePrice)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowNum), p.SalePrice)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", rowNum), p.TaxRate)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", rowNum), p.StockQuantity)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", rowNum), p.MinStockLevel)
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", rowNum), kind)

		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("D%d", rowNum), bodyStyle)
		f.SetCellStyle(sheetName, fmt.Sprintf("E%d", rowNum), fmt.Sprintf("F%d", rowNum), moneyStyle)
		f.SetCellStyle(sheetName, fmt.Sprintf("G%d", rowNum), fmt.Sprintf("J%d", rowNum), bodyStyle)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// thinBorders returns a full thin border set for table cells.
func thinBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "#CCCCCC", Style: 1},
		{Type: "right", Color: "#CCCCCC", Style: 1},
		{Type: "top", Color: "#CCCCCC", Style: 1},
		{Type: "bottom", Color: "#CCCCCC", Style: 1},
	}
}
