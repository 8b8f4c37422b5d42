package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"epica/services"
)

// HandlePriceRequestComplete records the supplier quote on an assigned
// request and moves it to completed.
func HandlePriceRequestComplete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		request, err := findFirmPriceRequest(app, e, firm.Id)
		if request == nil {
			return err
		}

		next, err := services.CompleteRequest(request.GetString("status"))
		if err != nil {
			if errors.Is(err, services.ErrRequestNotAssigned) {
				return JSONError(e, http.StatusConflict, "Talep bir tedarikçiye atanmış değil")
			}
			log.Printf("price_request_quote: HandlePriceRequestComplete: complete failed for %s: %v", request.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		quote := parseFloatField(e, "supplier_quote", 0)
		if quote < 0 {
			return JSONValidationError(e, map[string]string{"supplier_quote": "Teklif tutarı negatif olamaz"})
		}

		request.Set("status", next)
		request.Set("supplier_quote", quote)
		request.Set("supplier_notes", strings.TrimSpace(e.Request.FormValue("supplier_notes")))
		request.Set("completed_at", nowStamp())

		if err := app.Save(request); err != nil {
			log.Printf("price_request_quote: HandlePriceRequestComplete: could not save request %s: %v", request.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Talep güncellenemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"item": priceRequestJSON(request)})
	}
}

// HandleRequestItemQuote records a per-item supplier quote on an assigned
// or completed request.
func HandleRequestItemQuote(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		request, err := findFirmPriceRequest(app, e, firm.Id)
		if request == nil {
			return err
		}

		status := request.GetString("status")
		if status != services.RequestStatusAssigned && status != services.RequestStatusCompleted {
			return JSONError(e, http.StatusConflict, "Talep bir tedarikçiye atanmış değil")
		}

		item, err := findRequestItem(app, e, request.Id)
		if item == nil {
			return err
		}

		quote := parseFloatField(e, "supplier_quote", -1)
		if quote < 0 {
			return JSONValidationError(e, map[string]string{"supplier_quote": "Geçerli bir tutar girin"})
		}

		item.Set("supplier_quote", quote)
		if notes := strings.TrimSpace(e.Request.FormValue("supplier_notes")); notes != "" {
			item.Set("supplier_notes", notes)
		}

		if err := app.Save(item); err != nil {
			log.Printf("price_request_quote: HandleRequestItemQuote: could not save item %s: %v", item.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Kalem güncellenemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"item": requestItemJSON(item)})
	}
}
