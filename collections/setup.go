package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures all collections used by the
// application: firms, customers, suppliers, categories, products,
// proposals, proposal_items, price_requests and price_request_items.
func Setup(app *pocketbase.PocketBase) {
	firms := ensureCollection(app, "firms", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "contact_email", Required: false})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "subscription_plan",
			Required:  false,
			Values:    []string{"free", "basic", "pro"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  false,
			Values:    []string{"active", "suspended"},
			MaxSelect: 1,
		})
		// 0 means unlimited
		c.Fields.Add(&core.NumberField{Name: "max_customers", Required: false})
		c.Fields.Add(&core.NumberField{Name: "max_suppliers", Required: false})
		c.Fields.Add(&core.NumberField{Name: "max_products", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	customers := ensureCollection(app, "customers", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "firm",
			Required:      true,
			CollectionId:  firms.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "company", Required: false})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "address", Required: false})
		c.Fields.Add(&core.TextField{Name: "tax_number", Required: false})
		c.Fields.Add(&core.TextField{Name: "notes", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	suppliers := ensureCollection(app, "suppliers", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "firm",
			Required:      true,
			CollectionId:  firms.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "company", Required: false})
		c.Fields.Add(&core.TextField{Name: "contact_person", Required: false})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "address", Required: false})
		c.Fields.Add(&core.TextField{Name: "tax_number", Required: false})
		c.Fields.Add(&core.TextField{Name: "category", Required: false})
		c.Fields.Add(&core.TextField{Name: "payment_terms", Required: false})
		c.Fields.Add(&core.NumberField{Name: "rating", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
		c.Fields.Add(&core.TextField{Name: "notes", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	categories := ensureCollection(app, "categories", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "firm",
			Required:      true,
			CollectionId:  firms.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.TextField{Name: "color", Required: false})
		c.Fields.Add(&core.TextField{Name: "icon", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
	})

	products := ensureCollection(app, "products", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "firm",
			Required:      true,
			CollectionId:  firms.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "sku", Required: false})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		// Deleting a category must not delete its products.
		c.Fields.Add(&core.RelationField{
			Name:          "category",
			Required:      false,
			CollectionId:  categories.Id,
			CascadeDelete: false,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "unit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "purchase_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sale_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "tax_rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "stock_quantity", Required: false})
		c.Fields.Add(&core.NumberField{Name: "min_stock_level", Required: false})
		c.Fields.Add(&core.TextField{Name: "brand", Required: false})
		c.Fields.Add(&core.TextField{Name: "model", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_service"})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	proposals := ensureCollection(app, "proposals", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "firm",
			Required:      true,
			CollectionId:  firms.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		// A proposal may reference a customer record or carry free-text
		// client fields. Deleting the customer keeps the proposal.
		c.Fields.Add(&core.RelationField{
			Name:          "customer",
			Required:      false,
			CollectionId:  customers.Id,
			CascadeDelete: false,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "client_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "client_email", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"draft", "sent", "approved", "rejected"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "currency",
			Required:  true,
			Values:    []string{"TL", "EUR", "USD", "GBP"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "valid_until", Required: false})
		c.Fields.Add(&core.TextField{Name: "payment_terms", Required: false})
		c.Fields.Add(&core.TextField{Name: "delivery_terms", Required: false})
		c.Fields.Add(&core.TextField{Name: "warranty_terms", Required: false})
		c.Fields.Add(&core.TextField{Name: "notes", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_amount", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "proposal_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "proposal",
			Required:      true,
			CollectionId:  proposals.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		// Optional link back to the catalog product the line was built from.
		// Deleting the product keeps the line.
		c.Fields.Add(&core.RelationField{
			Name:          "product",
			Required:      false,
			CollectionId:  products.Id,
			CascadeDelete: false,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: true})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "tax_rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "subtotal", Required: false})
		c.Fields.Add(&core.NumberField{Name: "tax_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
	})

	priceRequests := ensureCollection(app, "price_requests", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "firm",
			Required:      true,
			CollectionId:  firms.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:          "customer",
			Required:      true,
			CollectionId:  customers.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"draft", "pending", "approved", "assigned", "completed", "cancelled"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "priority",
			Required:  false,
			Values:    []string{"low", "normal", "high", "urgent"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "needed_by", Required: false})
		c.Fields.Add(&core.TextField{Name: "admin_notes", Required: false})
		c.Fields.Add(&core.RelationField{
			Name:          "assigned_supplier",
			Required:      false,
			CollectionId:  suppliers.Id,
			CascadeDelete: false,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "supplier_quote", Required: false})
		c.Fields.Add(&core.TextField{Name: "supplier_notes", Required: false})
		c.Fields.Add(&core.TextField{Name: "submitted_at", Required: false})
		c.Fields.Add(&core.TextField{Name: "approved_at", Required: false})
		c.Fields.Add(&core.TextField{Name: "assigned_at", Required: false})
		c.Fields.Add(&core.TextField{Name: "completed_at", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "price_request_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "request",
			Required:      true,
			CollectionId:  priceRequests.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "product_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: true})
		c.Fields.Add(&core.TextField{Name: "unit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "budget_min", Required: false})
		c.Fields.Add(&core.NumberField{Name: "budget_max", Required: false})
		c.Fields.Add(&core.NumberField{Name: "supplier_quote", Required: false})
		c.Fields.Add(&core.TextField{Name: "supplier_notes", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
