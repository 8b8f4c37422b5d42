// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"epica/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestFirm creates a firm record with the given name and returns it.
func CreateTestFirm(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("firms")
	if err != nil {
		t.Fatalf("failed to find firms collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("contact_email", "info@example.com")
	record.Set("subscription_plan", "free")
	record.Set("status", "active")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test firm: %v", err)
	}

	return record
}

// CreateTestCustomer creates a customer record linked to a firm and returns it.
func CreateTestCustomer(t *testing.T, app *pocketbase.PocketBase, firmID, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		t.Fatalf("failed to find customers collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("firm", firmID)
	record.Set("name", name)
	record.Set("company", "Test Ltd")
	record.Set("email", "customer@example.com")
	record.Set("phone", "5551234567")
	record.Set("is_active", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test customer: %v", err)
	}

	return record
}

// CreateTestSupplier creates a supplier record linked to a firm and returns it.
func CreateTestSupplier(t *testing.T, app *pocketbase.PocketBase, firmID, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("suppliers")
	if err != nil {
		t.Fatalf("failed to find suppliers collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("firm", firmID)
	record.Set("name", name)
	record.Set("contact_person", "Test Contact")
	record.Set("phone", "5559876543")
	record.Set("is_active", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test supplier: %v", err)
	}

	return record
}

// CreateTestCategory creates a category record linked to a firm.
func CreateTestCategory(t *testing.T, app *pocketbase.PocketBase, firmID, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("categories")
	if err != nil {
		t.Fatalf("failed to find categories collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("firm", firmID)
	record.Set("name", name)
	record.Set("sort_order", 1)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test category: %v", err)
	}

	return record
}

// CreateTestProduct creates a product record linked to a firm.
func CreateTestProduct(t *testing.T, app *pocketbase.PocketBase, firmID, name string, salePrice float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("products")
	if err != nil {
		t.Fatalf("failed to find products collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("firm", firmID)
	record.Set("name", name)
	record.Set("unit", "Adet")
	record.Set("sale_price", salePrice)
	record.Set("tax_rate", 20.0)
	record.Set("stock_quantity", 10.0)
	record.Set("is_active", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test product: %v", err)
	}

	return record
}

// CreateTestProposal creates a proposal record linked to a firm.
func CreateTestProposal(t *testing.T, app *pocketbase.PocketBase, firmID, title string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("proposals")
	if err != nil {
		t.Fatalf("failed to find proposals collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("firm", firmID)
	record.Set("title", title)
	record.Set("status", "draft")
	record.Set("currency", "TL")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test proposal: %v", err)
	}

	return record
}

// CreateTestProposalItem creates a proposal line item with computed amounts.
func CreateTestProposalItem(t *testing.T, app *pocketbase.PocketBase, proposalID, name string, qty, unitPrice, taxRate float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("proposal_items")
	if err != nil {
		t.Fatalf("failed to find proposal_items collection: %v", err)
	}

	subtotal := qty * unitPrice
	taxAmount := subtotal * taxRate / 100

	record := core.NewRecord(col)
	record.Set("proposal", proposalID)
	record.Set("name", name)
	record.Set("quantity", qty)
	record.Set("unit_price", unitPrice)
	record.Set("tax_rate", taxRate)
	record.Set("subtotal", subtotal)
	record.Set("tax_amount", taxAmount)
	record.Set("total_price", subtotal+taxAmount)
	record.Set("sort_order", 1)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test proposal item: %v", err)
	}

	return record
}

// CreateTestPriceRequest creates a price request record in the given status.
func CreateTestPriceRequest(t *testing.T, app *pocketbase.PocketBase, firmID, customerID, title, status string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("price_requests")
	if err != nil {
		t.Fatalf("failed to find price_requests collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("firm", firmID)
	record.Set("customer", customerID)
	record.Set("title", title)
	record.Set("status", status)
	record.Set("priority", "normal")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test price request: %v", err)
	}

	return record
}

// CreateTestRequestItem creates a price request item record.
func CreateTestRequestItem(t *testing.T, app *pocketbase.PocketBase, requestID, productName string, qty float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("price_request_items")
	if err != nil {
		t.Fatalf("failed to find price_request_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("request", requestID)
	record.Set("product_name", productName)
	record.Set("quantity", qty)
	record.Set("unit", "Adet")
	record.Set("sort_order", 1)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test request item: %v", err)
	}

	return record
}

// AssertBodyContains checks that body contains all specified fragments.
func AssertBodyContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected body to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
