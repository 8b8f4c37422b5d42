package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

func supplierJSON(rec *core.Record) map[string]any {
	return map[string]any{
		"id":             rec.Id,
		"name":           rec.GetString("name"),
		"company":        rec.GetString("company"),
		"contact_person": rec.GetString("contact_person"),
		"email":          rec.GetString("email"),
		"phone":          rec.GetString("phone"),
		"address":        rec.GetString("address"),
		"tax_number":     rec.GetString("tax_number"),
		"category":       rec.GetString("category"),
		"payment_terms":  rec.GetString("payment_terms"),
		"rating":         rec.GetFloat("rating"),
		"is_active":      rec.GetBool("is_active"),
		"notes":          rec.GetString("notes"),
		"created":        rec.GetString("created"),
	}
}

// HandleSupplierList returns the suppliers of a firm sorted by name.
func HandleSupplierList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		records, err := app.FindRecordsByFilter(
			"suppliers",
			"firm = {:firmId}",
			"name",
			0,
			0,
			map[string]any{"firmId": firm.Id},
		)
		if err != nil {
			log.Printf("suppliers: HandleSupplierList: could not fetch suppliers: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		items := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			items = append(items, supplierJSON(rec))
		}
		return JSONSuccess(e, http.StatusOK, map[string]any{"items": items})
	}
}

// HandleSupplierCreate creates a supplier under a firm.
func HandleSupplierCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		if firmLimitReached(app, firm, "suppliers", "max_suppliers") {
			return JSONError(e, http.StatusConflict, "Tedarikçi limiti doldu, planınızı yükseltin")
		}

		name := strings.TrimSpace(e.Request.FormValue("name"))
		errs := make(map[string]string)
		if name == "" {
			errs["name"] = "Tedarikçi adı zorunludur"
		}
		if len(errs) > 0 {
			return JSONValidationError(e, errs)
		}

		col, err := app.FindCollectionByNameOrId("suppliers")
		if err != nil {
			log.Printf("suppliers: HandleSupplierCreate: could not find suppliers collection: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		record := core.NewRecord(col)
		record.Set("firm", firm.Id)
		record.Set("name", name)
		for _, field := range []string{"company", "contact_person", "email", "phone", "address", "tax_number", "category", "payment_terms", "notes"} {
			record.Set(field, strings.TrimSpace(e.Request.FormValue(field)))
		}
		record.Set("rating", parseFloatField(e, "rating", 0))
		record.Set("is_active", e.Request.FormValue("is_active") != "false")

		if err := app.Save(record); err != nil {
			log.Printf("suppliers: HandleSupplierCreate: could not save supplier: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Tedarikçi kaydedilemedi")
		}

		return JSONSuccess(e, http.StatusCreated, map[string]any{"item": supplierJSON(record)})
	}
}

// HandleSupplierView returns one supplier of a firm.
func HandleSupplierView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		supplier, err := findFirmSupplier(app, e, firm.Id)
		if supplier == nil {
			return err
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"item": supplierJSON(supplier)})
	}
}

// HandleSupplierUpdate applies non-empty form values to a supplier.
func HandleSupplierUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		supplier, err := findFirmSupplier(app, e, firm.Id)
		if supplier == nil {
			return err
		}

		if v := strings.TrimSpace(e.Request.FormValue("name")); v != "" {
			supplier.Set("name", v)
		}
		for _, field := range []string{"company", "contact_person", "email", "phone", "address", "tax_number", "category", "payment_terms", "notes"} {
			if v := strings.TrimSpace(e.Request.FormValue(field)); v != "" {
				supplier.Set(field, v)
			}
		}
		if v := e.Request.FormValue("rating"); v != "" {
			supplier.Set("rating", parseFloatField(e, "rating", supplier.GetFloat("rating")))
		}
		if v := e.Request.FormValue("is_active"); v != "" {
			supplier.Set("is_active", v != "false")
		}

		if err := app.Save(supplier); err != nil {
			log.Printf("suppliers: HandleSupplierUpdate: could not save supplier %s: %v", supplier.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Tedarikçi güncellenemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"item": supplierJSON(supplier)})
	}
}

// HandleSupplierDelete removes a supplier. Requests assigned to it keep the
// work done so far: the relation is cleared, their status is untouched.
func HandleSupplierDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		supplier, err := findFirmSupplier(app, e, firm.Id)
		if supplier == nil {
			return err
		}

		if err := app.Delete(supplier); err != nil {
			log.Printf("suppliers: HandleSupplierDelete: could not delete supplier %s: %v", supplier.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Tedarikçi silinemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"deleted": supplier.Id})
	}
}

// findFirmSupplier loads the supplier named in the path and verifies it
// belongs to the firm. Writes the error response itself on failure.
func findFirmSupplier(app *pocketbase.PocketBase, e *core.RequestEvent, firmID string) (*core.Record, error) {
	supplierID := e.Request.PathValue("supplierId")
	supplier, err := app.FindRecordById("suppliers", supplierID)
	if err != nil {
		return nil, JSONError(e, http.StatusNotFound, "Tedarikçi bulunamadı")
	}
	if supplier.GetString("firm") != firmID {
		return nil, JSONError(e, http.StatusForbidden, "Tedarikçi bu firmaya ait değil")
	}
	return supplier, nil
}
