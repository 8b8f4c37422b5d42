package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"epica/testhelpers"
)

func TestHandleDashboard(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Test Firm")
	customer := testhelpers.CreateTestCustomer(t, app, firm.Id, "Ali Veli")
	testhelpers.CreateTestSupplier(t, app, firm.Id, "Tedarik AŞ")

	draft := testhelpers.CreateTestProposal(t, app, firm.Id, "Draft Quote")
	draft.Set("total_amount", 480)
	if err := app.Save(draft); err != nil {
		t.Fatalf("failed to set proposal total: %v", err)
	}

	approved := testhelpers.CreateTestProposal(t, app, firm.Id, "Won Quote")
	approved.Set("status", "approved")
	approved.Set("total_amount", 1000)
	if err := app.Save(approved); err != nil {
		t.Fatalf("failed to set proposal status: %v", err)
	}

	testhelpers.CreateTestPriceRequest(t, app, firm.Id, customer.Id, "Pending Request", "pending")

	lowStock := testhelpers.CreateTestProduct(t, app, firm.Id, "Az Kalan", 100)
	lowStock.Set("stock_quantity", 1)
	lowStock.Set("min_stock_level", 5)
	if err := app.Save(lowStock); err != nil {
		t.Fatalf("failed to set stock: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/firms/"+firm.Id+"/dashboard", nil)
	req.SetPathValue("firmId", firm.Id)
	rec := httptest.NewRecorder()

	if err := HandleDashboard(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	body := decodeJSON(t, rec)
	stats := body["stats"].(map[string]any)

	if !floatClose(stats["customers"].(float64), 1) {
		t.Errorf("customers = %v, want 1", stats["customers"])
	}
	if !floatClose(stats["proposals"].(float64), 2) {
		t.Errorf("proposals = %v, want 2", stats["proposals"])
	}
	if !floatClose(stats["pipeline_total"].(float64), 480) {
		t.Errorf("pipeline_total = %v, want 480", stats["pipeline_total"])
	}
	if !floatClose(stats["approved_total"].(float64), 1000) {
		t.Errorf("approved_total = %v, want 1000", stats["approved_total"])
	}
	if !floatClose(stats["pending_requests"].(float64), 1) {
		t.Errorf("pending_requests = %v, want 1", stats["pending_requests"])
	}
	if !floatClose(stats["low_stock_products"].(float64), 1) {
		t.Errorf("low_stock_products = %v, want 1", stats["low_stock_products"])
	}
}
