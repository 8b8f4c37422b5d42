package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"epica/testhelpers"
)

func TestHandleCustomerCreate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Test Firm")

	form := url.Values{}
	form.Set("name", "Ali Veli")
	form.Set("email", "ali@example.com")

	req := newFormRequest("/firms/"+firm.Id+"/customers", form)
	req.SetPathValue("firmId", firm.Id)
	rec := httptest.NewRecorder()

	if err := HandleCustomerCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	body := decodeJSON(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	item := body["item"].(map[string]any)
	if item["name"] != "Ali Veli" {
		t.Errorf("name = %v, want Ali Veli", item["name"])
	}

	records, err := app.FindRecordsByFilter(
		"customers", "firm = {:firmId}", "", 0, 0,
		map[string]any{"firmId": firm.Id},
	)
	if err != nil || len(records) != 1 {
		t.Fatalf("expected 1 customer in DB, got %d (err %v)", len(records), err)
	}
}

func TestHandleCustomerCreateMissingName(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Test Firm")

	form := url.Values{}
	form.Set("name", "   ")

	req := newFormRequest("/firms/"+firm.Id+"/customers", form)
	req.SetPathValue("firmId", firm.Id)
	rec := httptest.NewRecorder()

	if err := HandleCustomerCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	body := decodeJSON(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
}

func TestHandleCustomerCreateLimitReached(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Capped Firm")
	firm.Set("max_customers", 1)
	if err := app.Save(firm); err != nil {
		t.Fatalf("failed to set firm limit: %v", err)
	}
	testhelpers.CreateTestCustomer(t, app, firm.Id, "Existing")

	form := url.Values{}
	form.Set("name", "One Too Many")

	req := newFormRequest("/firms/"+firm.Id+"/customers", form)
	req.SetPathValue("firmId", firm.Id)
	rec := httptest.NewRecorder()

	if err := HandleCustomerCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestHandleCustomerDeleteDetachesProposals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Test Firm")
	customer := testhelpers.CreateTestCustomer(t, app, firm.Id, "Ali Veli")

	proposal := testhelpers.CreateTestProposal(t, app, firm.Id, "Office Setup")
	proposal.Set("customer", customer.Id)
	if err := app.Save(proposal); err != nil {
		t.Fatalf("failed to link proposal: %v", err)
	}

	request := testhelpers.CreateTestPriceRequest(t, app, firm.Id, customer.Id, "Quote Me", "draft")

	req := httptest.NewRequest(http.MethodDelete, "/firms/"+firm.Id+"/customers/"+customer.Id, nil)
	req.SetPathValue("firmId", firm.Id)
	req.SetPathValue("customerId", customer.Id)
	rec := httptest.NewRecorder()

	if err := HandleCustomerDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	// Proposal survives without the relation but with snapshot fields.
	saved, err := app.FindRecordById("proposals", proposal.Id)
	if err != nil {
		t.Fatalf("proposal should survive customer deletion: %v", err)
	}
	if saved.GetString("customer") != "" {
		t.Errorf("proposal customer = %q, want empty", saved.GetString("customer"))
	}
	if saved.GetString("client_name") != "Ali Veli" {
		t.Errorf("client_name = %q, want Ali Veli", saved.GetString("client_name"))
	}

	// The customer's requests go with it.
	if _, err := app.FindRecordById("price_requests", request.Id); err == nil {
		t.Error("price request should be deleted with its customer")
	}
}

func TestHandleCustomerViewWrongFirm(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Firm A")
	otherFirm := testhelpers.CreateTestFirm(t, app, "Firm B")
	customer := testhelpers.CreateTestCustomer(t, app, otherFirm.Id, "Foreign Customer")

	req := httptest.NewRequest(http.MethodGet, "/firms/"+firm.Id+"/customers/"+customer.Id, nil)
	req.SetPathValue("firmId", firm.Id)
	req.SetPathValue("customerId", customer.Id)
	rec := httptest.NewRecorder()

	if err := HandleCustomerView(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandleCustomerList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Test Firm")
	testhelpers.CreateTestCustomer(t, app, firm.Id, "First")
	testhelpers.CreateTestCustomer(t, app, firm.Id, "Second")

	otherFirm := testhelpers.CreateTestFirm(t, app, "Other Firm")
	testhelpers.CreateTestCustomer(t, app, otherFirm.Id, "Foreign")

	req := httptest.NewRequest(http.MethodGet, "/firms/"+firm.Id+"/customers", nil)
	req.SetPathValue("firmId", firm.Id)
	rec := httptest.NewRecorder()

	if err := HandleCustomerList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	body := decodeJSON(t, rec)
	items := body["items"].([]any)
	if len(items) != 2 {
		t.Errorf("expected 2 customers, got %d", len(items))
	}
}
