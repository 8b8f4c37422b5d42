package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

func firmJSON(rec *core.Record) map[string]any {
	return map[string]any{
		"id":                rec.Id,
		"name":              rec.GetString("name"),
		"contact_email":     rec.GetString("contact_email"),
		"phone":             rec.GetString("phone"),
		"subscription_plan": rec.GetString("subscription_plan"),
		"status":            rec.GetString("status"),
		"max_customers":     rec.GetFloat("max_customers"),
		"max_suppliers":     rec.GetFloat("max_suppliers"),
		"max_products":      rec.GetFloat("max_products"),
		"created":           rec.GetString("created"),
	}
}

// HandleFirmList returns all firms.
func HandleFirmList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("firms")
		if err != nil {
			log.Printf("firms: HandleFirmList: could not find firms collection: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		records, err := app.FindAllRecords(col)
		if err != nil {
			log.Printf("firms: HandleFirmList: could not fetch firms: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		items := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			items = append(items, firmJSON(rec))
		}
		return JSONSuccess(e, http.StatusOK, map[string]any{"items": items})
	}
}

// HandleFirmCreate creates a firm from form values.
func HandleFirmCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		name := strings.TrimSpace(e.Request.FormValue("name"))

		errs := make(map[string]string)
		if name == "" {
			errs["name"] = "Firma adı zorunludur"
		}
		if len(errs) > 0 {
			return JSONValidationError(e, errs)
		}

		col, err := app.FindCollectionByNameOrId("firms")
		if err != nil {
			log.Printf("firms: HandleFirmCreate: could not find firms collection: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		record := core.NewRecord(col)
		record.Set("name", name)
		record.Set("contact_email", strings.TrimSpace(e.Request.FormValue("contact_email")))
		record.Set("phone", strings.TrimSpace(e.Request.FormValue("phone")))

		plan := e.Request.FormValue("subscription_plan")
		if plan == "" {
			plan = "free"
		}
		record.Set("subscription_plan", plan)
		record.Set("status", "active")
		record.Set("max_customers", parseFloatField(e, "max_customers", 0))
		record.Set("max_suppliers", parseFloatField(e, "max_suppliers", 0))
		record.Set("max_products", parseFloatField(e, "max_products", 0))

		if err := app.Save(record); err != nil {
			log.Printf("firms: HandleFirmCreate: could not save firm: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Firma kaydedilemedi")
		}

		return JSONSuccess(e, http.StatusCreated, map[string]any{"item": firmJSON(record)})
	}
}

// HandleFirmView returns one firm with its usage counters.
func HandleFirmView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		item := firmJSON(firm)
		item["usage"] = map[string]any{
			"customers": countFirmRecords(app, "customers", firm.Id),
			"suppliers": countFirmRecords(app, "suppliers", firm.Id),
			"products":  countFirmRecords(app, "products", firm.Id),
			"proposals": countFirmRecords(app, "proposals", firm.Id),
		}
		return JSONSuccess(e, http.StatusOK, map[string]any{"item": item})
	}
}

// HandleFirmUpdate applies non-empty form values to a firm.
func HandleFirmUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		if v := strings.TrimSpace(e.Request.FormValue("name")); v != "" {
			firm.Set("name", v)
		}
		for _, field := range []string{"contact_email", "phone", "subscription_plan", "status"} {
			if v := strings.TrimSpace(e.Request.FormValue(field)); v != "" {
				firm.Set(field, v)
			}
		}
		for _, field := range []string{"max_customers", "max_suppliers", "max_products"} {
			if v := e.Request.FormValue(field); v != "" {
				firm.Set(field, parseFloatField(e, field, firm.GetFloat(field)))
			}
		}

		if err := app.Save(firm); err != nil {
			log.Printf("firms: HandleFirmUpdate: could not save firm %s: %v", firm.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Firma güncellenemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"item": firmJSON(firm)})
	}
}

// HandleFirmDelete deletes a firm and, through cascade relations, all of its
// customers, suppliers, products, proposals and requests.
func HandleFirmDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		if err := app.Delete(firm); err != nil {
			log.Printf("firms: HandleFirmDelete: could not delete firm %s: %v", firm.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Firma silinemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"deleted": firm.Id})
	}
}

// countFirmRecords counts records of a collection belonging to a firm.
func countFirmRecords(app *pocketbase.PocketBase, collection, firmID string) int {
	records, err := app.FindRecordsByFilter(
		collection,
		"firm = {:firmId}",
		"",
		0,
		0,
		map[string]any{"firmId": firmID},
	)
	if err != nil {
		return 0
	}
	return len(records)
}

// firmLimitReached reports whether a firm hit the record cap of its plan for
// the given collection. A zero limit means unlimited.
func firmLimitReached(app *pocketbase.PocketBase, firm *core.Record, collection, limitField string) bool {
	limit := firm.GetFloat(limitField)
	if limit <= 0 {
		return false
	}
	return float64(countFirmRecords(app, collection, firm.Id)) >= limit
}

// parseFloatField parses a numeric form value, falling back on bad input.
func parseFloatField(e *core.RequestEvent, field string, fallback float64) float64 {
	raw := strings.TrimSpace(e.Request.FormValue(field))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
