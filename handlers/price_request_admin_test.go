package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"epica/testhelpers"
)

func TestHandlePriceRequestApprove(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Test Firm")
	customer := testhelpers.CreateTestCustomer(t, app, firm.Id, "Ali Veli")
	request := testhelpers.CreateTestPriceRequest(t, app, firm.Id, customer.Id, "Printer Quotes", "pending")

	req := newFormRequest("/firms/"+firm.Id+"/requests/"+request.Id+"/approve", url.Values{})
	req.SetPathValue("firmId", firm.Id)
	req.SetPathValue("requestId", request.Id)
	rec := httptest.NewRecorder()

	if err := HandlePriceRequestApprove(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	saved, _ := app.FindRecordById("price_requests", request.Id)
	if saved.GetString("status") != "approved" {
		t.Errorf("status = %q, want approved", saved.GetString("status"))
	}
	if saved.GetString("approved_at") == "" {
		t.Error("approved_at should be stamped")
	}
	if saved.GetString("assigned_at") != "" {
		t.Error("assigned_at should stay empty without a supplier")
	}
}

func TestHandlePriceRequestApproveWithSupplier(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Test Firm")
	customer := testhelpers.CreateTestCustomer(t, app, firm.Id, "Ali Veli")
	supplier := testhelpers.CreateTestSupplier(t, app, firm.Id, "Tedarik AŞ")
	request := testhelpers.CreateTestPriceRequest(t, app, firm.Id, customer.Id, "Printer Quotes", "pending")

	form := url.Values{}
	form.Set("supplier", supplier.Id)

	req := newFormRequest("/firms/"+firm.Id+"/requests/"+request.Id+"/approve", form)
	req.SetPathValue("firmId", firm.Id)
	req.SetPathValue("requestId", request.Id)
	rec := httptest.NewRecorder()

	if err := HandlePriceRequestApprove(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	saved, _ := app.FindRecordById("price_requests", request.Id)
	if saved.GetString("status") != "assigned" {
		t.Errorf("status = %q, want assigned", saved.GetString("status"))
	}
	if saved.GetString("assigned_supplier") != supplier.Id {
		t.Errorf("assigned_supplier = %q, want %q", saved.GetString("assigned_supplier"), supplier.Id)
	}
	if saved.GetString("approved_at") == "" || saved.GetString("assigned_at") == "" {
		t.Error("approved_at and assigned_at should both be stamped")
	}
}

func TestHandlePriceRequestApproveCompletedIsRefused(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Test Firm")
	customer := testhelpers.CreateTestCustomer(t, app, firm.Id, "Ali Veli")
	request := testhelpers.CreateTestPriceRequest(t, app, firm.Id, customer.Id, "Done Deal", "completed")

	req := newFormRequest("/firms/"+firm.Id+"/requests/"+request.Id+"/approve", url.Values{})
	req.SetPathValue("firmId", firm.Id)
	req.SetPathValue("requestId", request.Id)
	rec := httptest.NewRecorder()

	if err := HandlePriceRequestApprove(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}

	saved, _ := app.FindRecordById("price_requests", request.Id)
	if saved.GetString("status") != "completed" {
		t.Errorf("status = %q, want completed (untouched)", saved.GetString("status"))
	}
	if saved.GetString("approved_at") != "" {
		t.Error("approved_at should not be stamped on a refused approve")
	}
}

func TestHandlePriceRequestApproveForeignSupplier(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Firm A")
	otherFirm := testhelpers.CreateTestFirm(t, app, "Firm B")
	customer := testhelpers.CreateTestCustomer(t, app, firm.Id, "Ali Veli")
	supplier := testhelpers.CreateTestSupplier(t, app, otherFirm.Id, "Foreign Supplier")
	request := testhelpers.CreateTestPriceRequest(t, app, firm.Id, customer.Id, "Printer Quotes", "pending")

	form := url.Values{}
	form.Set("supplier", supplier.Id)

	req := newFormRequest("/firms/"+firm.Id+"/requests/"+request.Id+"/approve", form)
	req.SetPathValue("firmId", firm.Id)
	req.SetPathValue("requestId", request.Id)
	rec := httptest.NewRecorder()

	if err := HandlePriceRequestApprove(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandlePriceRequestReject(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Test Firm")
	customer := testhelpers.CreateTestCustomer(t, app, firm.Id, "Ali Veli")
	request := testhelpers.CreateTestPriceRequest(t, app, firm.Id, customer.Id, "Printer Quotes", "pending")

	form := url.Values{}
	form.Set("admin_notes", "Bütçe yok")

	req := newFormRequest("/firms/"+firm.Id+"/requests/"+request.Id+"/reject", form)
	req.SetPathValue("firmId", firm.Id)
	req.SetPathValue("requestId", request.Id)
	rec := httptest.NewRecorder()

	if err := HandlePriceRequestReject(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	saved, _ := app.FindRecordById("price_requests", request.Id)
	if saved.GetString("status") != "cancelled" {
		t.Errorf("status = %q, want cancelled", saved.GetString("status"))
	}
	if saved.GetString("admin_notes") != "Bütçe yok" {
		t.Errorf("admin_notes = %q, want Bütçe yok", saved.GetString("admin_notes"))
	}
}

func TestHandlePriceRequestAssign(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	firm := testhelpers.CreateTestFirm(t, app, "Test Firm")
	customer := testhelpers.CreateTestCustomer(t, app, firm.Id, "Ali Veli")
	supplier := testhelpers.CreateTestSupplier(t, app, firm.Id, "Tedarik AŞ")
	request := testhelpers.CreateTestPriceRequest(t, app, firm.Id, customer.Id, "Printer Quotes", "approved")

	form := url.Values{}
	form.Set("supplier", supplier.Id)

	req := newFormRequest("/firms/"+firm.Id+"/requests/"+request.Id+"/assign", form)
	req.SetPathValue("firmId", firm.Id)
	req.SetPathValue("requestId", request.Id)
	rec := httptest.NewRecorder()

	if err := HandlePriceRequestAssign(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	saved, _ := app.FindRecordById("price_requests", request.Id)
	if saved.GetString("status") != "assigned" {
		t.Errorf("status = %q, want assigned", saved.GetString("status"))
	}
	if saved.GetString("assigned_at") == "" {
		t.Error("assigned_at should be stamped")
	}
}
