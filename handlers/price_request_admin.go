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

// HandlePriceRequestApprove approves a pending request. When a supplier is
// picked in the same call the request jumps straight to assigned. Approving
// anything but a pending request is refused without touching the record.
func HandlePriceRequestApprove(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		request, err := findFirmPriceRequest(app, e, firm.Id)
		if request == nil {
			return err
		}

		supplierID := strings.TrimSpace(e.Request.FormValue("supplier"))
		if supplierID != "" {
			supplier, err := app.FindRecordById("suppliers", supplierID)
			if err != nil || supplier.GetString("firm") != firm.Id {
				return JSONError(e, http.StatusBadRequest, "Tedarikçi bu firmaya ait değil")
			}
		}

		next, err := services.ApproveRequest(request.GetString("status"), supplierID != "")
		if err != nil {
			if errors.Is(err, services.ErrRequestAlreadyProcessed) {
				return JSONError(e, http.StatusConflict, "Bu talep zaten işleme alınmış")
			}
			log.Printf("price_request_admin: HandlePriceRequestApprove: approve failed for %s: %v", request.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		stamp := nowStamp()
		request.Set("status", next)
		request.Set("approved_at", stamp)
		if supplierID != "" {
			request.Set("assigned_supplier", supplierID)
			request.Set("assigned_at", stamp)
		}
		if notes := strings.TrimSpace(e.Request.FormValue("admin_notes")); notes != "" {
			request.Set("admin_notes", notes)
		}

		if err := app.Save(request); err != nil {
			log.Printf("price_request_admin: HandlePriceRequestApprove: could not save request %s: %v", request.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Talep güncellenemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"item": priceRequestJSON(request)})
	}
}

// HandlePriceRequestReject cancels a pending request. Rejecting anything
// but a pending request is refused without touching the record.
func HandlePriceRequestReject(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		request, err := findFirmPriceRequest(app, e, firm.Id)
		if request == nil {
			return err
		}

		next, err := services.RejectRequest(request.GetString("status"))
		if err != nil {
			if errors.Is(err, services.ErrRequestAlreadyProcessed) {
				return JSONError(e, http.StatusConflict, "Bu talep zaten işleme alınmış")
			}
			log.Printf("price_request_admin: HandlePriceRequestReject: reject failed for %s: %v", request.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		request.Set("status", next)
		if notes := strings.TrimSpace(e.Request.FormValue("admin_notes")); notes != "" {
			request.Set("admin_notes", notes)
		}

		if err := app.Save(request); err != nil {
			log.Printf("price_request_admin: HandlePriceRequestReject: could not save request %s: %v", request.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Talep güncellenemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"item": priceRequestJSON(request)})
	}
}

// HandlePriceRequestAssign attaches a supplier to an approved request and
// moves it to assigned.
func HandlePriceRequestAssign(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		request, err := findFirmPriceRequest(app, e, firm.Id)
		if request == nil {
			return err
		}

		if request.GetString("status") != services.RequestStatusApproved {
			return JSONError(e, http.StatusConflict, "Yalnızca onaylanmış talepler atanabilir")
		}

		supplierID := strings.TrimSpace(e.Request.FormValue("supplier"))
		if supplierID == "" {
			return JSONValidationError(e, map[string]string{"supplier": "Tedarikçi seçilmelidir"})
		}
		supplier, err := app.FindRecordById("suppliers", supplierID)
		if err != nil || supplier.GetString("firm") != firm.Id {
			return JSONError(e, http.StatusBadRequest, "Tedarikçi bu firmaya ait değil")
		}

		request.Set("status", services.RequestStatusAssigned)
		request.Set("assigned_supplier", supplierID)
		request.Set("assigned_at", nowStamp())

		if err := app.Save(request); err != nil {
			log.Printf("price_request_admin: HandlePriceRequestAssign: could not save request %s: %v", request.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Talep güncellenemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"item": priceRequestJSON(request)})
	}
}
