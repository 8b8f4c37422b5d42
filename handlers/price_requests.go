package handlers

import (
	"errors"
	"log"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"epica/services"
)

func priceRequestJSON(rec *core.Record) map[string]any {
	return map[string]any{
		"id":                rec.Id,
		"customer":          rec.GetString("customer"),
		"title":             rec.GetString("title"),
		"description":       rec.GetString("description"),
		"status":            rec.GetString("status"),
		"status_text":       services.RequestStatusText(rec.GetString("status")),
		"status_badge":      services.RequestStatusBadgeClass(rec.GetString("status")),
		"priority":          rec.GetString("priority"),
		"needed_by":         rec.GetString("needed_by"),
		"admin_notes":       rec.GetString("admin_notes"),
		"assigned_supplier": rec.GetString("assigned_supplier"),
		"supplier_quote":    rec.GetFloat("supplier_quote"),
		"supplier_notes":    rec.GetString("supplier_notes"),
		"submitted_at":      rec.GetString("submitted_at"),
		"approved_at":       rec.GetString("approved_at"),
		"assigned_at":       rec.GetString("assigned_at"),
		"completed_at":      rec.GetString("completed_at"),
		"can_edit":          services.CanEditRequest(rec.GetString("status")),
		"created":           rec.GetString("created"),
	}
}

// nowStamp is the timestamp format used for workflow fields.
func nowStamp() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05")
}

// HandlePriceRequestList returns the price requests of a firm, newest
// first. The optional "status" query parameter narrows the list.
func HandlePriceRequestList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		filter := "firm = {:firmId}"
		params := map[string]any{"firmId": firm.Id}
		if status := e.Request.URL.Query().Get("status"); status != "" {
			filter += " && status = {:status}"
			params["status"] = status
		}

		records, err := app.FindRecordsByFilter("price_requests", filter, "-created", 0, 0, params)
		if err != nil {
			log.Printf("price_requests: HandlePriceRequestList: could not fetch requests: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		items := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			items = append(items, priceRequestJSON(rec))
		}
		return JSONSuccess(e, http.StatusOK, map[string]any{"items": items})
	}
}

// HandlePriceRequestCreate creates a draft price request for a customer.
func HandlePriceRequestCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		title := strings.TrimSpace(e.Request.FormValue("title"))
		customerID := strings.TrimSpace(e.Request.FormValue("customer"))

		errs := make(map[string]string)
		if title == "" {
			errs["title"] = "Talep başlığı zorunludur"
		}
		if customerID == "" {
			errs["customer"] = "Müşteri seçilmelidir"
		}
		if len(errs) > 0 {
			return JSONValidationError(e, errs)
		}

		customer, err := app.FindRecordById("customers", customerID)
		if err != nil || customer.GetString("firm") != firm.Id {
			return JSONError(e, http.StatusBadRequest, "Müşteri bu firmaya ait değil")
		}

		col, err := app.FindCollectionByNameOrId("price_requests")
		if err != nil {
			log.Printf("price_requests: HandlePriceRequestCreate: could not find collection: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		record := core.NewRecord(col)
		record.Set("firm", firm.Id)
		record.Set("customer", customerID)
		record.Set("title", title)
		record.Set("description", strings.TrimSpace(e.Request.FormValue("description")))
		record.Set("status", services.RequestStatusDraft)

		priority := e.Request.FormValue("priority")
		if priority == "" {
			priority = "normal"
		}
		if !slices.Contains(services.PriorityOptions, priority) {
			return JSONError(e, http.StatusBadRequest, "Geçersiz öncelik")
		}
		record.Set("priority", priority)
		record.Set("needed_by", strings.TrimSpace(e.Request.FormValue("needed_by")))

		if err := app.Save(record); err != nil {
			log.Printf("price_requests: HandlePriceRequestCreate: could not save request: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Talep kaydedilemedi")
		}

		return JSONSuccess(e, http.StatusCreated, map[string]any{"item": priceRequestJSON(record)})
	}
}

// HandlePriceRequestView returns one request with its items.
func HandlePriceRequestView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		request, err := findFirmPriceRequest(app, e, firm.Id)
		if request == nil {
			return err
		}

		itemRecords, err := app.FindRecordsByFilter(
			"price_request_items",
			"request = {:requestId}",
			"sort_order",
			0,
			0,
			map[string]any{"requestId": request.Id},
		)
		if err != nil {
			log.Printf("price_requests: HandlePriceRequestView: could not fetch items: %v", err)
			itemRecords = nil
		}

		items := make([]map[string]any, 0, len(itemRecords))
		for _, rec := range itemRecords {
			items = append(items, requestItemJSON(rec))
		}

		item := priceRequestJSON(request)
		item["items"] = items

		return JSONSuccess(e, http.StatusOK, map[string]any{"item": item})
	}
}

// HandlePriceRequestUpdate edits a request. Only drafts can change.
func HandlePriceRequestUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
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
			return JSONError(e, http.StatusConflict, "Gönderilmiş talepler düzenlenemez")
		}

		if v := strings.TrimSpace(e.Request.FormValue("title")); v != "" {
			request.Set("title", v)
		}
		for _, field := range []string{"description", "priority", "needed_by"} {
			if v := strings.TrimSpace(e.Request.FormValue(field)); v != "" {
				request.Set(field, v)
			}
		}

		if err := app.Save(request); err != nil {
			log.Printf("price_requests: HandlePriceRequestUpdate: could not save request %s: %v", request.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Talep güncellenemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"item": priceRequestJSON(request)})
	}
}

// HandlePriceRequestSubmit moves a draft with at least one item to pending
// and stamps submitted_at.
func HandlePriceRequestSubmit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		request, err := findFirmPriceRequest(app, e, firm.Id)
		if request == nil {
			return err
		}

		items, err := app.FindRecordsByFilter(
			"price_request_items",
			"request = {:requestId}",
			"",
			0,
			0,
			map[string]any{"requestId": request.Id},
		)
		if err != nil {
			log.Printf("price_requests: HandlePriceRequestSubmit: could not count items: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		next, err := services.SubmitRequest(request.GetString("status"), len(items))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrRequestHasNoItems):
				return JSONError(e, http.StatusConflict, "Talebe en az bir kalem ekleyin")
			case errors.Is(err, services.ErrRequestNotDraft):
				return JSONError(e, http.StatusConflict, "Talep zaten gönderilmiş")
			default:
				log.Printf("price_requests: HandlePriceRequestSubmit: submit failed for %s: %v", request.Id, err)
				return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
			}
		}

		request.Set("status", next)
		request.Set("submitted_at", nowStamp())
		if err := app.Save(request); err != nil {
			log.Printf("price_requests: HandlePriceRequestSubmit: could not save request %s: %v", request.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Talep gönderilemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"item": priceRequestJSON(request)})
	}
}

// HandlePriceRequestDelete removes a draft request and its items.
func HandlePriceRequestDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
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
			return JSONError(e, http.StatusConflict, "Gönderilmiş talepler silinemez")
		}

		if err := app.Delete(request); err != nil {
			log.Printf("price_requests: HandlePriceRequestDelete: could not delete request %s: %v", request.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Talep silinemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"deleted": request.Id})
	}
}

// findFirmPriceRequest loads the request named in the path and verifies it
// belongs to the firm. Writes the error response itself on failure.
func findFirmPriceRequest(app *pocketbase.PocketBase, e *core.RequestEvent, firmID string) (*core.Record, error) {
	requestID := e.Request.PathValue("requestId")
	request, err := app.FindRecordById("price_requests", requestID)
	if err != nil {
		return nil, JSONError(e, http.StatusNotFound, "Talep bulunamadı")
	}
	if request.GetString("firm") != firmID {
		return nil, JSONError(e, http.StatusForbidden, "Talep bu firmaya ait değil")
	}
	return request, nil
}
