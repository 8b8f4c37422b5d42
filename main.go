package main

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"epica/collections"
	"epica/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateProposalCurrencies(app); err != nil {
			log.Printf("Warning: proposal currency migration failed: %v", err)
		}
		if err := collections.MigrateRequestItemUnits(app); err != nil {
			log.Printf("Warning: request item migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// Apply active firm middleware globally
		se.Router.BindFunc(handlers.ActiveFirmMiddleware(app))

		// ── Form options ─────────────────────────────────────────
		se.Router.GET("/options", handlers.HandleFormOptions(app))

		// ── Firm CRUD & activation ───────────────────────────────
		se.Router.GET("/firms", handlers.HandleFirmList(app))
		se.Router.POST("/firms", handlers.HandleFirmCreate(app))
		se.Router.POST("/firms/deactivate", handlers.HandleFirmDeactivate(app))
		se.Router.GET("/firms/{firmId}", handlers.HandleFirmView(app))
		se.Router.PATCH("/firms/{firmId}", handlers.HandleFirmUpdate(app))
		se.Router.DELETE("/firms/{firmId}", handlers.HandleFirmDelete(app))
		se.Router.POST("/firms/{firmId}/activate", handlers.HandleFirmActivate(app))

		// ── Dashboard ────────────────────────────────────────────
		se.Router.GET("/firms/{firmId}/dashboard", handlers.HandleDashboard(app))

		// ── Customer CRUD ────────────────────────────────────────
		se.Router.GET("/firms/{firmId}/customers", handlers.HandleCustomerList(app))
		se.Router.POST("/firms/{firmId}/customers", handlers.HandleCustomerCreate(app))
		se.Router.GET("/firms/{firmId}/customers/{customerId}", handlers.HandleCustomerView(app))
		se.Router.PATCH("/firms/{firmId}/customers/{customerId}", handlers.HandleCustomerUpdate(app))
		se.Router.DELETE("/firms/{firmId}/customers/{customerId}", handlers.HandleCustomerDelete(app))

		// ── Supplier CRUD ────────────────────────────────────────
		se.Router.GET("/firms/{firmId}/suppliers", handlers.HandleSupplierList(app))
		se.Router.POST("/firms/{firmId}/suppliers", handlers.HandleSupplierCreate(app))
		se.Router.GET("/firms/{firmId}/suppliers/{supplierId}", handlers.HandleSupplierView(app))
		se.Router.PATCH("/firms/{firmId}/suppliers/{supplierId}", handlers.HandleSupplierUpdate(app))
		se.Router.DELETE("/firms/{firmId}/suppliers/{supplierId}", handlers.HandleSupplierDelete(app))

		// ── Category CRUD ────────────────────────────────────────
		se.Router.GET("/firms/{firmId}/categories", handlers.HandleCategoryList(app))
		se.Router.POST("/firms/{firmId}/categories", handlers.HandleCategoryCreate(app))
		se.Router.PATCH("/firms/{firmId}/categories/{categoryId}", handlers.HandleCategoryUpdate(app))
		se.Router.DELETE("/firms/{firmId}/categories/{categoryId}", handlers.HandleCategoryDelete(app))

		// ── Product catalog ──────────────────────────────────────
		// Specific routes must come before /products/{productId}
		se.Router.GET("/firms/{firmId}/products/low-stock", handlers.HandleLowStockList(app))
		se.Router.GET("/firms/{firmId}/products/export", handlers.HandleProductExport(app))
		se.Router.GET("/firms/{firmId}/products/import/template", handlers.HandleProductImportTemplate(app))
		se.Router.POST("/firms/{firmId}/products/import", handlers.HandleProductImport(app))
		se.Router.POST("/firms/{firmId}/products/import/errors", handlers.HandleProductImportErrorReport(app))
		se.Router.GET("/firms/{firmId}/products", handlers.HandleProductList(app))
		se.Router.POST("/firms/{firmId}/products", handlers.HandleProductCreate(app))
		se.Router.GET("/firms/{firmId}/products/{productId}", handlers.HandleProductView(app))
		se.Router.PATCH("/firms/{firmId}/products/{productId}", handlers.HandleProductUpdate(app))
		se.Router.DELETE("/firms/{firmId}/products/{productId}", handlers.HandleProductDelete(app))
		se.Router.POST("/firms/{firmId}/products/{productId}/stock", handlers.HandleProductStockAdjust(app))

		// ── Proposals ────────────────────────────────────────────
		se.Router.GET("/firms/{firmId}/proposals", handlers.HandleProposalList(app))
		se.Router.POST("/firms/{firmId}/proposals", handlers.HandleProposalCreate(app))
		se.Router.GET("/firms/{firmId}/proposals/{proposalId}", handlers.HandleProposalView(app))
		se.Router.PATCH("/firms/{firmId}/proposals/{proposalId}", handlers.HandleProposalUpdate(app))
		se.Router.DELETE("/firms/{firmId}/proposals/{proposalId}", handlers.HandleProposalDelete(app))
		se.Router.POST("/firms/{firmId}/proposals/{proposalId}/status", handlers.HandleProposalStatus(app))
		se.Router.GET("/firms/{firmId}/proposals/{proposalId}/pdf", handlers.HandleProposalExport(app))

		// ── Proposal line items ──────────────────────────────────
		se.Router.POST("/firms/{firmId}/proposals/{proposalId}/items", handlers.HandleProposalItemAdd(app))
		se.Router.PATCH("/firms/{firmId}/proposals/{proposalId}/items/{itemId}", handlers.HandleProposalItemUpdate(app))
		se.Router.DELETE("/firms/{firmId}/proposals/{proposalId}/items/{itemId}", handlers.HandleProposalItemDelete(app))

		// ── Price requests ───────────────────────────────────────
		se.Router.GET("/firms/{firmId}/requests", handlers.HandlePriceRequestList(app))
		se.Router.POST("/firms/{firmId}/requests", handlers.HandlePriceRequestCreate(app))
		se.Router.GET("/firms/{firmId}/requests/{requestId}", handlers.HandlePriceRequestView(app))
		se.Router.PATCH("/firms/{firmId}/requests/{requestId}", handlers.HandlePriceRequestUpdate(app))
		se.Router.DELETE("/firms/{firmId}/requests/{requestId}", handlers.HandlePriceRequestDelete(app))

		// ── Price request workflow ───────────────────────────────
		se.Router.POST("/firms/{firmId}/requests/{requestId}/submit", handlers.HandlePriceRequestSubmit(app))
		se.Router.POST("/firms/{firmId}/requests/{requestId}/approve", handlers.HandlePriceRequestApprove(app))
		se.Router.POST("/firms/{firmId}/requests/{requestId}/reject", handlers.HandlePriceRequestReject(app))
		se.Router.POST("/firms/{firmId}/requests/{requestId}/assign", handlers.HandlePriceRequestAssign(app))
		se.Router.POST("/firms/{firmId}/requests/{requestId}/complete", handlers.HandlePriceRequestComplete(app))

		// ── Price request items ──────────────────────────────────
		se.Router.POST("/firms/{firmId}/requests/{requestId}/items", handlers.HandleRequestItemAdd(app))
		se.Router.PATCH("/firms/{firmId}/requests/{requestId}/items/{itemId}", handlers.HandleRequestItemUpdate(app))
		se.Router.DELETE("/firms/{firmId}/requests/{requestId}/items/{itemId}", handlers.HandleRequestItemDelete(app))
		se.Router.POST("/firms/{firmId}/requests/{requestId}/items/{itemId}/quote", handlers.HandleRequestItemQuote(app))

		// Redirect home to firm list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/firms")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
