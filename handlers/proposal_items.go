package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"epica/services"
)

func proposalItemJSON(rec *core.Record) map[string]any {
	return map[string]any{
		"id":          rec.Id,
		"product":     rec.GetString("product"),
		"name":        rec.GetString("name"),
		"description": rec.GetString("description"),
		"quantity":    rec.GetFloat("quantity"),
		"unit_price":  rec.GetFloat("unit_price"),
		"tax_rate":    rec.GetFloat("tax_rate"),
		"subtotal":    rec.GetFloat("subtotal"),
		"tax_amount":  rec.GetFloat("tax_amount"),
		"total_price": rec.GetFloat("total_price"),
		"sort_order":  rec.GetFloat("sort_order"),
	}
}

// HandleProposalItemAdd appends a line item to a proposal. Amounts are
// computed server side and the proposal total is refreshed.
func HandleProposalItemAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		proposal, err := findFirmProposal(app, e, firm.Id)
		if proposal == nil {
			return err
		}

		// When the line comes from the catalog, the product fills in
		// name, price and tax unless the form overrides them.
		productID := strings.TrimSpace(e.Request.FormValue("product"))
		var product *core.Record
		if productID != "" {
			product, err = app.FindRecordById("products", productID)
			if err != nil || product.GetString("firm") != firm.Id {
				return JSONError(e, http.StatusBadRequest, "Ürün bu firmaya ait değil")
			}
		}

		defaultPrice := 0.0
		defaultTax := services.DefaultTaxRate
		name := strings.TrimSpace(e.Request.FormValue("name"))
		if product != nil {
			defaultPrice = product.GetFloat("sale_price")
			defaultTax = product.GetFloat("tax_rate")
			if name == "" {
				name = product.GetString("name")
			}
		}

		errs := make(map[string]string)
		if name == "" {
			errs["name"] = "Kalem adı zorunludur"
		}
		quantity := parseFloatField(e, "quantity", 1)
		if quantity <= 0 {
			errs["quantity"] = "Miktar sıfırdan büyük olmalıdır"
		}
		unitPrice := parseFloatField(e, "unit_price", defaultPrice)
		if unitPrice < 0 {
			errs["unit_price"] = "Birim fiyat negatif olamaz"
		}
		if len(errs) > 0 {
			return JSONValidationError(e, errs)
		}

		taxRate := parseFloatField(e, "tax_rate", defaultTax)
		calc := services.CalcLineItem(quantity, unitPrice, taxRate)

		col, err := app.FindCollectionByNameOrId("proposal_items")
		if err != nil {
			log.Printf("proposal_items: HandleProposalItemAdd: could not find collection: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		record := core.NewRecord(col)
		record.Set("proposal", proposal.Id)
		record.Set("product", productID)
		record.Set("name", name)
		record.Set("description", strings.TrimSpace(e.Request.FormValue("description")))
		setProposalItemAmounts(record, calc)
		record.Set("sort_order", getNextItemSortOrder(app, "proposal_items", "proposal", proposal.Id))

		if err := app.Save(record); err != nil {
			log.Printf("proposal_items: HandleProposalItemAdd: could not save item: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Kalem kaydedilemedi")
		}

		totals, err := services.RecalcProposalTotal(app, proposal.Id)
		if err != nil {
			log.Printf("proposal_items: HandleProposalItemAdd: could not recalc totals: %v", err)
		}

		return JSONSuccess(e, http.StatusCreated, map[string]any{
			"item":   proposalItemJSON(record),
			"totals": totalsJSON(totals),
		})
	}
}

// HandleProposalItemUpdate applies non-empty form values to a line item and
// recomputes its amounts and the proposal total.
func HandleProposalItemUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		proposal, err := findFirmProposal(app, e, firm.Id)
		if proposal == nil {
			return err
		}

		item, err := findProposalItem(app, e, proposal.Id)
		if item == nil {
			return err
		}

		if v := strings.TrimSpace(e.Request.FormValue("name")); v != "" {
			item.Set("name", v)
		}
		if v := strings.TrimSpace(e.Request.FormValue("description")); v != "" {
			item.Set("description", v)
		}

		quantity := item.GetFloat("quantity")
		if v := e.Request.FormValue("quantity"); v != "" {
			quantity = parseFloatField(e, "quantity", quantity)
			if quantity <= 0 {
				return JSONValidationError(e, map[string]string{"quantity": "Miktar sıfırdan büyük olmalıdır"})
			}
		}
		unitPrice := item.GetFloat("unit_price")
		if v := e.Request.FormValue("unit_price"); v != "" {
			unitPrice = parseFloatField(e, "unit_price", unitPrice)
			if unitPrice < 0 {
				return JSONValidationError(e, map[string]string{"unit_price": "Birim fiyat negatif olamaz"})
			}
		}
		taxRate := item.GetFloat("tax_rate")
		if v := e.Request.FormValue("tax_rate"); v != "" {
			taxRate = parseFloatField(e, "tax_rate", taxRate)
		}

		calc := services.CalcLineItem(quantity, unitPrice, taxRate)
		setProposalItemAmounts(item, calc)

		if v := e.Request.FormValue("sort_order"); v != "" {
			item.Set("sort_order", parseFloatField(e, "sort_order", item.GetFloat("sort_order")))
		}

		if err := app.Save(item); err != nil {
			log.Printf("proposal_items: HandleProposalItemUpdate: could not save item %s: %v", item.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Kalem güncellenemedi")
		}

		totals, err := services.RecalcProposalTotal(app, proposal.Id)
		if err != nil {
			log.Printf("proposal_items: HandleProposalItemUpdate: could not recalc totals: %v", err)
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{
			"item":   proposalItemJSON(item),
			"totals": totalsJSON(totals),
		})
	}
}

// HandleProposalItemDelete removes a line item and refreshes the proposal
// total.
func HandleProposalItemDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		proposal, err := findFirmProposal(app, e, firm.Id)
		if proposal == nil {
			return err
		}

		item, err := findProposalItem(app, e, proposal.Id)
		if item == nil {
			return err
		}

		if err := app.Delete(item); err != nil {
			log.Printf("proposal_items: HandleProposalItemDelete: could not delete item %s: %v", item.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Kalem silinemedi")
		}

		totals, err := services.RecalcProposalTotal(app, proposal.Id)
		if err != nil {
			log.Printf("proposal_items: HandleProposalItemDelete: could not recalc totals: %v", err)
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{
			"deleted": item.Id,
			"totals":  totalsJSON(totals),
		})
	}
}

// setProposalItemAmounts writes quantity, prices and the derived amounts.
func setProposalItemAmounts(record *core.Record, calc services.LineItemCalc) {
	record.Set("quantity", calc.Quantity)
	record.Set("unit_price", calc.UnitPrice)
	record.Set("tax_rate", calc.TaxRate)
	record.Set("subtotal", calc.Subtotal)
	record.Set("tax_amount", calc.TaxAmount)
	record.Set("total_price", calc.TotalPrice)
}

func totalsJSON(totals services.ProposalTotals) map[string]any {
	return map[string]any{
		"subtotal":    totals.Subtotal,
		"tax_total":   totals.TaxAmount,
		"grand_total": totals.GrandTotal,
	}
}

// getNextItemSortOrder returns max(sort_order)+1 among sibling records.
func getNextItemSortOrder(app *pocketbase.PocketBase, collection, parentField, parentID string) float64 {
	records, err := app.FindRecordsByFilter(
		collection,
		parentField+" = {:parentId}",
		"-sort_order",
		1,
		0,
		map[string]any{"parentId": parentID},
	)
	if err != nil || len(records) == 0 {
		return 1
	}
	return records[0].GetFloat("sort_order") + 1
}

// findProposalItem loads the line item named in the path and verifies it
// belongs to the proposal. Writes the error response itself on failure.
func findProposalItem(app *pocketbase.PocketBase, e *core.RequestEvent, proposalID string) (*core.Record, error) {
	itemID := e.Request.PathValue("itemId")
	item, err := app.FindRecordById("proposal_items", itemID)
	if err != nil {
		return nil, JSONError(e, http.StatusNotFound, "Kalem bulunamadı")
	}
	if item.GetString("proposal") != proposalID {
		return nil, JSONError(e, http.StatusForbidden, "Kalem bu teklife ait değil")
	}
	return item, nil
}
