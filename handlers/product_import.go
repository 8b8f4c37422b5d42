package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"epica/services"
)

// HandleProductImportTemplate serves the downloadable import template.
func HandleProductImportTemplate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		fileBytes, err := services.GenerateProductTemplate()
		if err != nil {
			log.Printf("product_import: HandleProductImportTemplate: could not build template: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Şablon oluşturulamadı")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="urun_sablonu.xlsx"`)
		e.Response.WriteHeader(http.StatusOK)
		_, err = e.Response.Write(fileBytes)
		return err
	}
}

// HandleProductImport validates an uploaded CSV/XLSX file and, when it is
// clean, creates the products in one go. Files with row errors are rejected
// and the errors are returned for display.
func HandleProductImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return JSONError(e, http.StatusBadRequest, "Dosya yüklenmedi")
		}
		defer file.Close()

		result, err := services.ValidateProductFile(app, file, header.Filename, firm.Id)
		if err != nil {
			log.Printf("product_import: HandleProductImport: validation failed: %v", err)
			return JSONError(e, http.StatusBadRequest, "Dosya okunamadı: desteklenen biçimler .csv ve .xlsx")
		}

		if result.ErrorRows > 0 {
			return e.JSON(http.StatusUnprocessableEntity, map[string]any{
				"success":    false,
				"message":    "Dosyada hatalı satırlar var",
				"total_rows": result.TotalRows,
				"valid_rows": result.ValidRows,
				"error_rows": result.ErrorRows,
				"errors":     result.Errors,
			})
		}

		created, err := services.ImportProducts(app, firm.Id, result.ParsedRows)
		if err != nil {
			log.Printf("product_import: HandleProductImport: import failed: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Ürünler kaydedilemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"imported": created})
	}
}

// HandleProductImportErrorReport turns posted validation errors back into a
// downloadable workbook. The client re-posts the file so the rows are
// re-validated server side.
func HandleProductImportErrorReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return JSONError(e, http.StatusBadRequest, "Dosya yüklenmedi")
		}
		defer file.Close()

		result, err := services.ValidateProductFile(app, file, header.Filename, firm.Id)
		if err != nil {
			return JSONError(e, http.StatusBadRequest, "Dosya okunamadı")
		}

		fileBytes, err := services.GenerateErrorReport(result.Errors)
		if err != nil {
			log.Printf("product_import: HandleProductImportErrorReport: could not build report: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Rapor oluşturulamadı")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="hata_raporu.xlsx"`)
		e.Response.WriteHeader(http.StatusOK)
		_, err = e.Response.Write(fileBytes)
		return err
	}
}
