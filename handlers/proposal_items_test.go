package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"epica/testhelpers"
)

func TestHandleProposalItemAddComputesAmounts(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Test Firm")
	proposal := testhelpers.CreateTestProposal(t, app, firm.Id, "Office Setup")

	form := url.Values{}
	form.Set("name", "Desk")
	form.Set("quantity", "3")
	form.Set("unit_price", "100")
	form.Set("tax_rate", "20")

	req := newFormRequest("/firms/"+firm.Id+"/proposals/"+proposal.Id+"/items", form)
	req.SetPathValue("firmId", firm.Id)
	req.SetPathValue("proposalId", proposal.Id)
	rec := httptest.NewRecorder()

	if err := HandleProposalItemAdd(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	body := decodeJSON(t, rec)
	item := body["item"].(map[string]any)
	if !floatClose(item["subtotal"].(float64), 300) {
		t.Errorf("subtotal = %v, want 300", item["subtotal"])
	}
	if !floatClose(item["tax_amount"].(float64), 60) {
		t.Errorf("tax_amount = %v, want 60", item["tax_amount"])
	}
	if !floatClose(item["total_price"].(float64), 360) {
		t.Errorf("total_price = %v, want 360", item["total_price"])
	}

	// Persisted proposal total must track the items.
	saved, _ := app.FindRecordById("proposals", proposal.Id)
	if !floatClose(saved.GetFloat("total_amount"), 360) {
		t.Errorf("total_amount = %v, want 360", saved.GetFloat("total_amount"))
	}
}

func TestHandleProposalItemAddDefaults(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Test Firm")
	proposal := testhelpers.CreateTestProposal(t, app, firm.Id, "Office Setup")

	// Only a name: quantity defaults to 1, price to 0, tax to 20.
	form := url.Values{}
	form.Set("name", "Mystery Item")

	req := newFormRequest("/firms/"+firm.Id+"/proposals/"+proposal.Id+"/items", form)
	req.SetPathValue("firmId", firm.Id)
	req.SetPathValue("proposalId", proposal.Id)
	rec := httptest.NewRecorder()

	if err := HandleProposalItemAdd(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	body := decodeJSON(t, rec)
	item := body["item"].(map[string]any)
	if !floatClose(item["quantity"].(float64), 1) {
		t.Errorf("quantity = %v, want 1", item["quantity"])
	}
	if !floatClose(item["tax_rate"].(float64), 20) {
		t.Errorf("tax_rate = %v, want 20", item["tax_rate"])
	}
	if !floatClose(item["total_price"].(float64), 0) {
		t.Errorf("total_price = %v, want 0", item["total_price"])
	}
}

func TestHandleProposalItemAddFromProduct(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Test Firm")
	proposal := testhelpers.CreateTestProposal(t, app, firm.Id, "Office Setup")
	product := testhelpers.CreateTestProduct(t, app, firm.Id, "Lazer Yazıcı", 5900)

	// Only the product and a quantity: name, price and tax come from the catalog.
	form := url.Values{}
	form.Set("product", product.Id)
	form.Set("quantity", "2")

	req := newFormRequest("/firms/"+firm.Id+"/proposals/"+proposal.Id+"/items", form)
	req.SetPathValue("firmId", firm.Id)
	req.SetPathValue("proposalId", proposal.Id)
	rec := httptest.NewRecorder()

	if err := HandleProposalItemAdd(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	body := decodeJSON(t, rec)
	item := body["item"].(map[string]any)
	if item["name"] != "Lazer Yazıcı" {
		t.Errorf("name = %v, want Lazer Yazıcı", item["name"])
	}
	if item["product"] != product.Id {
		t.Errorf("product = %v, want %s", item["product"], product.Id)
	}
	if !floatClose(item["unit_price"].(float64), 5900) {
		t.Errorf("unit_price = %v, want 5900", item["unit_price"])
	}
	if !floatClose(item["subtotal"].(float64), 11800) {
		t.Errorf("subtotal = %v, want 11800", item["subtotal"])
	}
}

func TestHandleProposalItemAddForeignProduct(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Test Firm")
	otherFirm := testhelpers.CreateTestFirm(t, app, "Other Firm")
	proposal := testhelpers.CreateTestProposal(t, app, firm.Id, "Office Setup")
	product := testhelpers.CreateTestProduct(t, app, otherFirm.Id, "Foreign Product", 100)

	form := url.Values{}
	form.Set("product", product.Id)

	req := newFormRequest("/firms/"+firm.Id+"/proposals/"+proposal.Id+"/items", form)
	req.SetPathValue("firmId", firm.Id)
	req.SetPathValue("proposalId", proposal.Id)
	rec := httptest.NewRecorder()

	if err := HandleProposalItemAdd(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleProposalItemUpdateRecalcsTotal(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Test Firm")
	proposal := testhelpers.CreateTestProposal(t, app, firm.Id, "Office Setup")
	item := testhelpers.CreateTestProposalItem(t, app, proposal.Id, "Desk", 3, 100, 20)
	testhelpers.CreateTestProposalItem(t, app, proposal.Id, "Chair", 1, 100, 20)

	form := url.Values{}
	form.Set("quantity", "5")

	req := newFormRequest("/firms/"+firm.Id+"/proposals/"+proposal.Id+"/items/"+item.Id, form)
	req.SetPathValue("firmId", firm.Id)
	req.SetPathValue("proposalId", proposal.Id)
	req.SetPathValue("itemId", item.Id)
	rec := httptest.NewRecorder()

	if err := HandleProposalItemUpdate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	saved, _ := app.FindRecordById("proposal_items", item.Id)
	if !floatClose(saved.GetFloat("total_price"), 600) {
		t.Errorf("item total_price = %v, want 600", saved.GetFloat("total_price"))
	}
	if saved.GetString("name") != "Desk" {
		t.Errorf("name should be untouched, got %q", saved.GetString("name"))
	}

	// 5x100 at 20% plus 1x100 at 20% = 600 + 120.
	savedProposal, _ := app.FindRecordById("proposals", proposal.Id)
	if !floatClose(savedProposal.GetFloat("total_amount"), 720) {
		t.Errorf("total_amount = %v, want 720", savedProposal.GetFloat("total_amount"))
	}
}

func TestHandleProposalItemUpdateRejectsZeroQuantity(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Test Firm")
	proposal := testhelpers.CreateTestProposal(t, app, firm.Id, "Office Setup")
	item := testhelpers.CreateTestProposalItem(t, app, proposal.Id, "Desk", 3, 100, 20)

	form := url.Values{}
	form.Set("quantity", "0")

	req := newFormRequest("/firms/"+firm.Id+"/proposals/"+proposal.Id+"/items/"+item.Id, form)
	req.SetPathValue("firmId", firm.Id)
	req.SetPathValue("proposalId", proposal.Id)
	req.SetPathValue("itemId", item.Id)
	rec := httptest.NewRecorder()

	if err := HandleProposalItemUpdate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	saved, _ := app.FindRecordById("proposal_items", item.Id)
	if !floatClose(saved.GetFloat("quantity"), 3) {
		t.Errorf("quantity should be untouched, got %v", saved.GetFloat("quantity"))
	}
}

func TestHandleProposalItemDeleteRecalcsTotal(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Test Firm")
	proposal := testhelpers.CreateTestProposal(t, app, firm.Id, "Office Setup")
	item := testhelpers.CreateTestProposalItem(t, app, proposal.Id, "Desk", 3, 100, 20)
	testhelpers.CreateTestProposalItem(t, app, proposal.Id, "Chair", 1, 100, 20)

	req := httptest.NewRequest(http.MethodDelete, "/firms/"+firm.Id+"/proposals/"+proposal.Id+"/items/"+item.Id, nil)
	req.SetPathValue("firmId", firm.Id)
	req.SetPathValue("proposalId", proposal.Id)
	req.SetPathValue("itemId", item.Id)
	rec := httptest.NewRecorder()

	if err := HandleProposalItemDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	if _, err := app.FindRecordById("proposal_items", item.Id); err == nil {
		t.Error("item should be deleted")
	}

	saved, _ := app.FindRecordById("proposals", proposal.Id)
	if !floatClose(saved.GetFloat("total_amount"), 120) {
		t.Errorf("total_amount = %v, want 120", saved.GetFloat("total_amount"))
	}
}

func TestHandleProposalItemUpdateWrongProposal(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Test Firm")
	proposal := testhelpers.CreateTestProposal(t, app, firm.Id, "Office Setup")
	otherProposal := testhelpers.CreateTestProposal(t, app, firm.Id, "Other Quote")
	item := testhelpers.CreateTestProposalItem(t, app, otherProposal.Id, "Foreign Item", 1, 50, 20)

	form := url.Values{}
	form.Set("quantity", "2")

	req := newFormRequest("/firms/"+firm.Id+"/proposals/"+proposal.Id+"/items/"+item.Id, form)
	req.SetPathValue("firmId", firm.Id)
	req.SetPathValue("proposalId", proposal.Id)
	req.SetPathValue("itemId", item.Id)
	rec := httptest.NewRecorder()

	if err := HandleProposalItemUpdate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}
