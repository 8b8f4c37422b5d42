package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"epica/services"
)

func requestItemJSON(rec *core.Record) map[string]any {
	totalMin, totalMax := services.TotalBudgetRange(
		rec.GetFloat("quantity"),
		rec.GetFloat("budget_min"),
		rec.GetFloat("budget_max"),
	)
	return map[string]any{
		"id":               rec.Id,
		"product_name":     rec.GetString("product_name"),
		"description":      rec.GetString("description"),
		"quantity":         rec.GetFloat("quantity"),
		"unit":             rec.GetString("unit"),
		"budget_min":       rec.GetFloat("budget_min"),
		"budget_max":       rec.GetFloat("budget_max"),
		"budget_text":      services.BudgetRangeText(rec.GetFloat("budget_min"), rec.GetFloat("budget_max"), "TL"),
		"total_budget_min": totalMin,
		"total_budget_max": totalMax,
		"supplier_quote":   rec.GetFloat("supplier_quote"),
		"supplier_notes":   rec.GetString("supplier_notes"),
		"sort_order":       rec.GetFloat("sort_order"),
	}
}

// HandleRequestItemAdd appends an item to a draft request.
func HandleRequestItemAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		request, err := findFirmPriceRequest(app, e, firm.Id)
		if request == nil {
			return err
		}

		if !services.CanEditRequest(request.GetString("status")) {
			return JSONError(e, http.StatusConflict, "Gönderilmiş taleplere kalem eklenemez")
		}

		productName := strings.TrimSpace(e.Request.FormValue("product_name"))
		errs := make(map[string]string)
		if productName == "" {
			errs["product_name"] = "Ürün adı zorunludur"
		}
		quantity := parseFloatField(e, "quantity", 1)
		if quantity <= 0 {
			errs["quantity"] = "Miktar sıfırdan büyük olmalıdır"
		}
		if len(errs) > 0 {
			return JSONValidationError(e, errs)
		}

		col, err := app.FindCollectionByNameOrId("price_request_items")
		if err != nil {
			log.Printf("price_request_items: HandleRequestItemAdd: could not find collection: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		record := core.NewRecord(col)
		record.Set("request", request.Id)
		record.Set("product_name", productName)
		record.Set("description", strings.TrimSpace(e.Request.FormValue("description")))
		record.Set("quantity", quantity)

		unit := strings.TrimSpace(e.Request.FormValue("unit"))
		if unit == "" {
			unit = "Adet"
		}
		record.Set("unit", unit)

		record.Set("budget_min", parseFloatField(e, "budget_min", 0))
		record.Set("budget_max", parseFloatField(e, "budget_max", 0))
		record.Set("sort_order", getNextItemSortOrder(app, "price_request_items", "request", request.Id))

		if err := app.Save(record); err != nil {
			log.Printf("price_request_items: HandleRequestItemAdd: could not save item: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Kalem kaydedilemedi")
		}

		return JSONSuccess(e, http.StatusCreated, map[string]any{"item": requestItemJSON(record)})
	}
}

// HandleRequestItemUpdate edits an item of a draft request.
func HandleRequestItemUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		request, err := findFirmPriceRequest(app, e, firm.Id)
		if request == nil {
			return err
		}

		if !services.CanEditRequest(request.GetString("status")) {
			return JSONError(e, http.StatusConflict, "Gönderilmiş taleplerin kalemleri düzenlenemez")
		}

		item, err := findRequestItem(app, e, request.Id)
		if item == nil {
			return err
		}

		if v := strings.TrimSpace(e.Request.FormValue("product_name")); v != "" {
			item.Set("product_name", v)
		}
		for _, field := range []string{"description", "unit"} {
			if v := strings.TrimSpace(e.Request.FormValue(field)); v != "" {
				item.Set(field, v)
			}
		}
		if v := e.Request.FormValue("quantity"); v != "" {
			quantity := parseFloatField(e, "quantity", item.GetFloat("quantity"))
			if quantity <= 0 {
				return JSONValidationError(e, map[string]string{"quantity": "Miktar sıfırdan büyük olmalıdır"})
			}
			item.Set("quantity", quantity)
		}
		for _, field := range []string{"budget_min", "budget_max", "sort_order"} {
			if v := e.Request.FormValue(field); v != "" {
				item.Set(field, parseFloatField(e, field, item.GetFloat(field)))
			}
		}

		if err := app.Save(item); err != nil {
			log.Printf("price_request_items: HandleRequestItemUpdate: could not save item %s: %v", item.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Kalem güncellenemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"item": requestItemJSON(item)})
	}
}

// HandleRequestItemDelete removes an item from a draft request.
func HandleRequestItemDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		request, err := findFirmPriceRequest(app, e, firm.Id)
		if request == nil {
			return err
		}

		if !services.CanEditRequest(request.GetString("status")) {
			return JSONError(e, http.StatusConflict, "Gönderilmiş taleplerin kalemleri silinemez")
		}

		item, err := findRequestItem(app, e, request.Id)
		if item == nil {
			return err
		}

		if err := app.Delete(item); err != nil {
			log.Printf("price_request_items: HandleRequestItemDelete: could not delete item %s: %v", item.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Kalem silinemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"deleted": item.Id})
	}
}

// findRequestItem loads the item named in the path and verifies it belongs
// to the request. Writes the error response itself on failure.
func findRequestItem(app *pocketbase.PocketBase, e *core.RequestEvent, requestID string) (*core.Record, error) {
	itemID := e.Request.PathValue("itemId")
	item, err := app.FindRecordById("price_request_items", itemID)
	if err != nil {
		return nil, JSONError(e, http.StatusNotFound, "Kalem bulunamadı")
	}
	if item.GetString("request") != requestID {
		return nil, JSONError(e, http.StatusForbidden, "Kalem bu talebe ait değil")
	}
	return item, nil
}
