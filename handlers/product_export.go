package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"epica/services"
)

// HandleProductExport serves the product catalog of a firm as an Excel
// download.
func HandleProductExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		data, err := services.BuildProductExportData(app, firm.Id)
		if err != nil {
			log.Printf("product_export: HandleProductExport: could not build export data: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Dışa aktarma başarısız")
		}

		fileBytes, err := services.GenerateProductsExcel(data)
		if err != nil {
			log.Printf("product_export: HandleProductExport: could not generate workbook: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Dışa aktarma başarısız")
		}

		filename := fmt.Sprintf("urun_katalogu_%s.xlsx", sanitizeFilename(firm.GetString("name")))
		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.WriteHeader(http.StatusOK)
		_, err = e.Response.Write(fileBytes)
		return err
	}
}

// sanitizeFilename replaces characters that break Content-Disposition or
// common filesystems.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		" ", "-",
		"/", "-",
		"\\", "-",
		":", "-",
		`"`, "-",
	)
	return replacer.Replace(name)
}
