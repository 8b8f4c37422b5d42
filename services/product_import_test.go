package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"epica/testhelpers"
)

// memFile wraps a bytes.Reader so it satisfies multipart.File in tests.
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func newMemFile(data []byte) memFile {
	return memFile{bytes.NewReader(data)}
}

func TestValidateProductFileCSV(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Epica Demo")
	testhelpers.CreateTestCategory(t, app, firm.Id, "Donanım")

	csvData := strings.Join([]string{
		"Ürün Adı *,SKU,Kategori,Birim,Satış Fiyatı,KDV %",
		"Yazıcı,PRN-001,Donanım,Adet,5900,20",
		",MISSING-NAME,Donanım,Adet,100,20",
		"Kablo,CBL-001,Yoktur,Mt,abc,20",
	}, "\n")

	result, err := ValidateProductFile(app, newMemFile([]byte(csvData)), "products.csv", firm.Id)
	if err != nil {
		t.Fatalf("ValidateProductFile returned error: %v", err)
	}

	if result.TotalRows != 3 {
		t.Errorf("TotalRows = %d, want 3", result.TotalRows)
	}
	if result.ValidRows != 1 {
		t.Errorf("ValidRows = %d, want 1", result.ValidRows)
	}
	if result.ErrorRows != 2 {
		t.Errorf("ErrorRows = %d, want 2", result.ErrorRows)
	}

	var sawMissingName, sawBadCategory, sawBadNumber bool
	for _, e := range result.Errors {
		switch {
		case e.Row == 3 && strings.Contains(e.Message, "required"):
			sawMissingName = true
		case e.Row == 4 && strings.Contains(e.Message, "category"):
			sawBadCategory = true
		case e.Row == 4 && strings.Contains(e.Message, "number"):
			sawBadNumber = true
		}
	}
	if !sawMissingName {
		t.Error("expected missing name error on row 3")
	}
	if !sawBadCategory {
		t.Error("expected unknown category error on row 4")
	}
	if !sawBadNumber {
		t.Error("expected numeric parse error on row 4")
	}
}

func TestValidateProductFileNegativePrice(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Epica Demo")

	csvData := "Ürün Adı,Satış Fiyatı,KDV %\nYazıcı,-100,150\n"

	result, err := ValidateProductFile(app, newMemFile([]byte(csvData)), "products.csv", firm.Id)
	if err != nil {
		t.Fatalf("ValidateProductFile returned error: %v", err)
	}
	if result.ErrorRows != 1 {
		t.Fatalf("ErrorRows = %d, want 1", result.ErrorRows)
	}
	if len(result.Errors) != 2 {
		t.Errorf("expected negative price and tax cap errors, got %+v", result.Errors)
	}
}

func TestValidateProductFileUnsupportedFormat(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Epica Demo")

	_, err := ValidateProductFile(app, newMemFile([]byte("data")), "products.txt", firm.Id)
	if err == nil {
		t.Fatal("expected error for unsupported file format")
	}
}

func TestValidateProductFileHeaderOnly(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Epica Demo")

	_, err := ValidateProductFile(app, newMemFile([]byte("Ürün Adı\n")), "products.csv", firm.Id)
	if err == nil {
		t.Fatal("expected error for header-only file")
	}
}

func TestValidateProductFileExcel(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Epica Demo")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A1", "Ürün Adı *")
	f.SetCellValue(sheet, "B1", "Satış Fiyatı")
	f.SetCellValue(sheet, "A2", "Yazıcı")
	f.SetCellValue(sheet, "B2", "5900")
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("failed to build test workbook: %v", err)
	}

	result, err := ValidateProductFile(app, newMemFile(buf.Bytes()), "products.xlsx", firm.Id)
	if err != nil {
		t.Fatalf("ValidateProductFile returned error: %v", err)
	}
	if result.ValidRows != 1 || result.ErrorRows != 0 {
		t.Errorf("ValidRows = %d, ErrorRows = %d; want 1, 0", result.ValidRows, result.ErrorRows)
	}
	if result.ParsedRows[0]["name"] != "Yazıcı" {
		t.Errorf("parsed name = %q, want Yazıcı", result.ParsedRows[0]["name"])
	}
}

func TestImportProducts(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Epica Demo")
	category := testhelpers.CreateTestCategory(t, app, firm.Id, "Donanım")

	rows := []map[string]string{
		{"name": "Yazıcı", "sku": "PRN-001", "category": "Donanım", "unit": "Adet", "sale_price": "5900", "tax_rate": "20", "stock_quantity": "12"},
		{"name": "Kablo", "unit": "Mt", "sale_price": "35"},
		{"name": ""}, // skipped
	}

	created, err := ImportProducts(app, firm.Id, rows)
	if err != nil {
		t.Fatalf("ImportProducts returned error: %v", err)
	}
	if created != 2 {
		t.Errorf("created = %d, want 2", created)
	}

	products, err := app.FindRecordsByFilter(
		"products", "firm = {:firmId}", "name", 0, 0,
		map[string]any{"firmId": firm.Id},
	)
	if err != nil {
		t.Fatalf("failed to fetch products: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products in DB, got %d", len(products))
	}

	var printer, cable bool
	for _, p := range products {
		switch p.GetString("name") {
		case "Yazıcı":
			printer = true
			if p.GetString("category") != category.Id {
				t.Errorf("category = %q, want %q", p.GetString("category"), category.Id)
			}
			if !floatClose(p.GetFloat("stock_quantity"), 12) {
				t.Errorf("stock_quantity = %v, want 12", p.GetFloat("stock_quantity"))
			}
		case "Kablo":
			cable = true
			// Blank tax rate defaults to the standard rate.
			if !floatClose(p.GetFloat("tax_rate"), DefaultTaxRate) {
				t.Errorf("tax_rate = %v, want %v", p.GetFloat("tax_rate"), DefaultTaxRate)
			}
		}
		if !p.GetBool("is_active") {
			t.Errorf("imported product %q should be active", p.GetString("name"))
		}
	}
	if !printer || !cable {
		t.Errorf("missing imported products: printer=%v cable=%v", printer, cable)
	}
}

func TestGenerateProductTemplate(t *testing.T) {
	fileBytes, err := GenerateProductTemplate()
	if err != nil {
		t.Fatalf("GenerateProductTemplate returned error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(fileBytes))
	if err != nil {
		t.Fatalf("template is not a valid workbook: %v", err)
	}
	defer f.Close()

	header, err := f.GetCellValue("Ürünler", "A1")
	if err != nil {
		t.Fatalf("failed to read header cell: %v", err)
	}
	if header != "Ürün Adı *" {
		t.Errorf("A1 = %q, want %q", header, "Ürün Adı *")
	}

	sample, _ := f.GetCellValue("Ürünler", "A2")
	if sample == "" {
		t.Error("expected a sample row in the template")
	}
}

func TestGenerateErrorReport(t *testing.T) {
	errs := []ValidationError{
		{Row: 2, Field: "Ürün Adı", Message: "Ürün Adı is required"},
		{Row: 3, Field: "KDV %", Message: "KDV % must be a number"},
	}

	fileBytes, err := GenerateErrorReport(errs)
	if err != nil {
		t.Fatalf("GenerateErrorReport returned error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(fileBytes))
	if err != nil {
		t.Fatalf("error report is not a valid workbook: %v", err)
	}
	defer f.Close()

	msg, _ := f.GetCellValue("Errors", "C2")
	if msg != "Ürün Adı is required" {
		t.Errorf("C2 = %q, want %q", msg, "Ürün Adı is required")
	}
}
