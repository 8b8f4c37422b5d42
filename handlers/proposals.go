package handlers

import (
	"errors"
	"log"
	"net/http"
	"slices"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"epica/services"
)

func proposalJSON(rec *core.Record) map[string]any {
	return map[string]any{
		"id":             rec.Id,
		"title":          rec.GetString("title"),
		"customer":       rec.GetString("customer"),
		"client_name":    rec.GetString("client_name"),
		"client_email":   rec.GetString("client_email"),
		"status":         rec.GetString("status"),
		"status_text":    services.ProposalStatusText(rec.GetString("status")),
		"currency":       rec.GetString("currency"),
		"valid_until":    rec.GetString("valid_until"),
		"payment_terms":  rec.GetString("payment_terms"),
		"delivery_terms": rec.GetString("delivery_terms"),
		"warranty_terms": rec.GetString("warranty_terms"),
		"notes":          rec.GetString("notes"),
		"total_amount":   rec.GetFloat("total_amount"),
		"total_display":  services.FormatMoney(rec.GetFloat("total_amount"), rec.GetString("currency")),
		"created":        rec.GetString("created"),
	}
}

// HandleProposalList returns the proposals of a firm, newest first. The
// optional "status" query parameter narrows the list.
func HandleProposalList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
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

		records, err := app.FindRecordsByFilter("proposals", filter, "-created", 0, 0, params)
		if err != nil {
			log.Printf("proposals: HandleProposalList: could not fetch proposals: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		items := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			items = append(items, proposalJSON(rec))
		}
		return JSONSuccess(e, http.StatusOK, map[string]any{"items": items})
	}
}

// HandleProposalCreate creates a proposal in draft status. A customer link
// is optional: walk-in clients are captured with free-text name and email.
func HandleProposalCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		title := strings.TrimSpace(e.Request.FormValue("title"))
		errs := make(map[string]string)
		if title == "" {
			errs["title"] = "Teklif başlığı zorunludur"
		}
		if len(errs) > 0 {
			return JSONValidationError(e, errs)
		}

		customerID := strings.TrimSpace(e.Request.FormValue("customer"))
		if customerID != "" {
			customer, err := app.FindRecordById("customers", customerID)
			if err != nil || customer.GetString("firm") != firm.Id {
				return JSONError(e, http.StatusBadRequest, "Müşteri bu firmaya ait değil")
			}
		}

		col, err := app.FindCollectionByNameOrId("proposals")
		if err != nil {
			log.Printf("proposals: HandleProposalCreate: could not find proposals collection: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		record := core.NewRecord(col)
		record.Set("firm", firm.Id)
		record.Set("title", title)
		record.Set("customer", customerID)
		record.Set("status", services.ProposalStatusDraft)

		currency := e.Request.FormValue("currency")
		if currency == "" {
			currency = "TL"
		}
		if !slices.Contains(services.CurrencyOptions, currency) {
			return JSONError(e, http.StatusBadRequest, "Geçersiz para birimi")
		}
		record.Set("currency", currency)

		for _, field := range []string{"client_name", "client_email", "valid_until", "payment_terms", "delivery_terms", "warranty_terms", "notes"} {
			record.Set(field, strings.TrimSpace(e.Request.FormValue(field)))
		}
		record.Set("total_amount", 0)

		if err := app.Save(record); err != nil {
			log.Printf("proposals: HandleProposalCreate: could not save proposal: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Teklif kaydedilemedi")
		}

		return JSONSuccess(e, http.StatusCreated, map[string]any{"item": proposalJSON(record)})
	}
}

// HandleProposalView returns one proposal with its line items and totals.
func HandleProposalView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		proposal, err := findFirmProposal(app, e, firm.Id)
		if proposal == nil {
			return err
		}

		itemRecords, err := app.FindRecordsByFilter(
			"proposal_items",
			"proposal = {:proposalId}",
			"sort_order",
			0,
			0,
			map[string]any{"proposalId": proposal.Id},
		)
		if err != nil {
			log.Printf("proposals: HandleProposalView: could not fetch items: %v", err)
			itemRecords = nil
		}

		items := make([]map[string]any, 0, len(itemRecords))
		var calcs []services.LineItemCalc
		for _, rec := range itemRecords {
			items = append(items, proposalItemJSON(rec))
			calcs = append(calcs, services.CalcLineItem(
				rec.GetFloat("quantity"),
				rec.GetFloat("unit_price"),
				rec.GetFloat("tax_rate"),
			))
		}
		totals := services.CalcProposalTotals(calcs)

		item := proposalJSON(proposal)
		item["items"] = items
		item["subtotal"] = totals.Subtotal
		item["tax_total"] = totals.TaxAmount
		item["grand_total"] = totals.GrandTotal

		return JSONSuccess(e, http.StatusOK, map[string]any{"item": item})
	}
}

// HandleProposalUpdate applies non-empty form values to a proposal. Status
// is changed through HandleProposalStatus, not here.
func HandleProposalUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		proposal, err := findFirmProposal(app, e, firm.Id)
		if proposal == nil {
			return err
		}

		if v := strings.TrimSpace(e.Request.FormValue("title")); v != "" {
			proposal.Set("title", v)
		}
		if v := strings.TrimSpace(e.Request.FormValue("customer")); v != "" {
			customer, err := app.FindRecordById("customers", v)
			if err != nil || customer.GetString("firm") != firm.Id {
				return JSONError(e, http.StatusBadRequest, "Müşteri bu firmaya ait değil")
			}
			proposal.Set("customer", v)
		}
		for _, field := range []string{"client_name", "client_email", "currency", "valid_until", "payment_terms", "delivery_terms", "warranty_terms", "notes"} {
			if v := strings.TrimSpace(e.Request.FormValue(field)); v != "" {
				proposal.Set(field, v)
			}
		}

		if err := app.Save(proposal); err != nil {
			log.Printf("proposals: HandleProposalUpdate: could not save proposal %s: %v", proposal.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Teklif güncellenemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"item": proposalJSON(proposal)})
	}
}

// HandleProposalStatus moves a proposal along draft -> sent -> approved or
// rejected. An out-of-order transition leaves the record untouched.
func HandleProposalStatus(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		proposal, err := findFirmProposal(app, e, firm.Id)
		if proposal == nil {
			return err
		}

		requested := strings.TrimSpace(e.Request.FormValue("status"))
		next, err := services.ChangeProposalStatus(proposal.GetString("status"), requested)
		if err != nil {
			if errors.Is(err, services.ErrInvalidStatusChange) {
				return JSONError(e, http.StatusConflict, "Bu durum değişikliğine izin verilmiyor")
			}
			log.Printf("proposals: HandleProposalStatus: transition failed for %s: %v", proposal.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		proposal.Set("status", next)
		if err := app.Save(proposal); err != nil {
			log.Printf("proposals: HandleProposalStatus: could not save proposal %s: %v", proposal.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Teklif güncellenemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"item": proposalJSON(proposal)})
	}
}

// HandleProposalDelete removes a proposal together with its line items.
func HandleProposalDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		proposal, err := findFirmProposal(app, e, firm.Id)
		if proposal == nil {
			return err
		}

		if err := app.Delete(proposal); err != nil {
			log.Printf("proposals: HandleProposalDelete: could not delete proposal %s: %v", proposal.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Teklif silinemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"deleted": proposal.Id})
	}
}

// findFirmProposal loads the proposal named in the path and verifies it
// belongs to the firm. Writes the error response itself on failure.
func findFirmProposal(app *pocketbase.PocketBase, e *core.RequestEvent, firmID string) (*core.Record, error) {
	proposalID := e.Request.PathValue("proposalId")
	proposal, err := app.FindRecordById("proposals", proposalID)
	if err != nil {
		return nil, JSONError(e, http.StatusNotFound, "Teklif bulunamadı")
	}
	if proposal.GetString("firm") != firmID {
		return nil, JSONError(e, http.StatusForbidden, "Teklif bu firmaya ait değil")
	}
	return proposal, nil
}
