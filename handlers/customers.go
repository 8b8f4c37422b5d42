package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

func customerJSON(rec *core.Record) map[string]any {
	return map[string]any{
		"id":         rec.Id,
		"name":       rec.GetString("name"),
		"company":    rec.GetString("company"),
		"email":      rec.GetString("email"),
		"phone":      rec.GetString("phone"),
		"address":    rec.GetString("address"),
		"tax_number": rec.GetString("tax_number"),
		"notes":      rec.GetString("notes"),
		"is_active":  rec.GetBool("is_active"),
		"created":    rec.GetString("created"),
	}
}

// HandleCustomerList returns the customers of a firm, newest first.
func HandleCustomerList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		records, err := app.FindRecordsByFilter(
			"customers",
			"firm = {:firmId}",
			"-created",
			0,
			0,
			map[string]any{"firmId": firm.Id},
		)
		if err != nil {
			log.Printf("customers: HandleCustomerList: could not fetch customers: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		items := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			items = append(items, customerJSON(rec))
		}
		return JSONSuccess(e, http.StatusOK, map[string]any{"items": items})
	}
}

// HandleCustomerCreate creates a customer under a firm.
func HandleCustomerCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		if firmLimitReached(app, firm, "customers", "max_customers") {
			return JSONError(e, http.StatusConflict, "Müşteri limiti doldu, planınızı yükseltin")
		}

		name := strings.TrimSpace(e.Request.FormValue("name"))
		errs := make(map[string]string)
		if name == "" {
			errs["name"] = "Müşteri adı zorunludur"
		}
		if len(errs) > 0 {
			return JSONValidationError(e, errs)
		}

		col, err := app.FindCollectionByNameOrId("customers")
		if err != nil {
			log.Printf("customers: HandleCustomerCreate: could not find customers collection: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		record := core.NewRecord(col)
		record.Set("firm", firm.Id)
		record.Set("name", name)
		for _, field := range []string{"company", "email", "phone", "address", "tax_number", "notes"} {
			record.Set(field, strings.TrimSpace(e.Request.FormValue(field)))
		}
		record.Set("is_active", e.Request.FormValue("is_active") != "false")

		if err := app.Save(record); err != nil {
			log.Printf("customers: HandleCustomerCreate: could not save customer: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Müşteri kaydedilemedi")
		}

		return JSONSuccess(e, http.StatusCreated, map[string]any{"item": customerJSON(record)})
	}
}

// HandleCustomerView returns one customer of a firm.
func HandleCustomerView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		customer, err := findFirmCustomer(app, e, firm.Id)
		if customer == nil {
			return err
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"item": customerJSON(customer)})
	}
}

// HandleCustomerUpdate applies non-empty form values to a customer.
func HandleCustomerUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		customer, err := findFirmCustomer(app, e, firm.Id)
		if customer == nil {
			return err
		}

		if v := strings.TrimSpace(e.Request.FormValue("name")); v != "" {
			customer.Set("name", v)
		}
		for _, field := range []string{"company", "email", "phone", "address", "tax_number", "notes"} {
			if v := strings.TrimSpace(e.Request.FormValue(field)); v != "" {
				customer.Set(field, v)
			}
		}
		if v := e.Request.FormValue("is_active"); v != "" {
			customer.Set("is_active", v != "false")
		}

		if err := app.Save(customer); err != nil {
			log.Printf("customers: HandleCustomerUpdate: could not save customer %s: %v", customer.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Müşteri güncellenemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"item": customerJSON(customer)})
	}
}

// HandleCustomerDelete removes a customer. Proposals that referenced the
// customer keep their snapshot client fields and lose only the relation;
// the customer's price requests are removed with it.
func HandleCustomerDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		customer, err := findFirmCustomer(app, e, firm.Id)
		if customer == nil {
			return err
		}

		// Detach proposals before the delete so they survive with their
		// free-text client fields intact.
		proposals, err := app.FindRecordsByFilter(
			"proposals",
			"customer = {:customerId}",
			"",
			0,
			0,
			map[string]any{"customerId": customer.Id},
		)
		if err == nil {
			for _, p := range proposals {
				if p.GetString("client_name") == "" {
					p.Set("client_name", customer.GetString("name"))
				}
				if p.GetString("client_email") == "" {
					p.Set("client_email", customer.GetString("email"))
				}
				p.Set("customer", "")
				if err := app.Save(p); err != nil {
					log.Printf("customers: HandleCustomerDelete: could not detach proposal %s: %v", p.Id, err)
				}
			}
		}

		if err := app.Delete(customer); err != nil {
			log.Printf("customers: HandleCustomerDelete: could not delete customer %s: %v", customer.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Müşteri silinemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"deleted": customer.Id})
	}
}

// findFirmCustomer loads the customer named in the path and verifies it
// belongs to the firm. Writes the error response itself on failure.
func findFirmCustomer(app *pocketbase.PocketBase, e *core.RequestEvent, firmID string) (*core.Record, error) {
	customerID := e.Request.PathValue("customerId")
	customer, err := app.FindRecordById("customers", customerID)
	if err != nil {
		return nil, JSONError(e, http.StatusNotFound, "Müşteri bulunamadı")
	}
	if customer.GetString("firm") != firmID {
		return nil, JSONError(e, http.StatusForbidden, "Müşteri bu firmaya ait değil")
	}
	return customer, nil
}
