package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"epica/services"
)

// HandleProductStockAdjust applies a stock delta to a product. Positive
// deltas receive stock, negative deltas consume it. Services carry no stock.
func HandleProductStockAdjust(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		product, err := findFirmProduct(app, e, firm.Id)
		if product == nil {
			return err
		}

		if product.GetBool("is_service") {
			return JSONError(e, http.StatusConflict, "Hizmetler için stok takibi yapılmaz")
		}

		raw := strings.TrimSpace(e.Request.FormValue("delta"))
		delta, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return JSONValidationError(e, map[string]string{"delta": "Geçerli bir miktar girin"})
		}

		next, err := services.AdjustStock(product.GetFloat("stock_quantity"), delta)
		if err != nil {
			if errors.Is(err, services.ErrInsufficientStock) {
				return JSONError(e, http.StatusConflict, "Stok yetersiz")
			}
			log.Printf("product_stock: HandleProductStockAdjust: adjust failed for %s: %v", product.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		product.Set("stock_quantity", next)
		if err := app.Save(product); err != nil {
			log.Printf("product_stock: HandleProductStockAdjust: could not save product %s: %v", product.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Stok güncellenemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{
			"item":      productJSON(product),
			"low_stock": services.IsLowStock(next, product.GetFloat("min_stock_level")),
		})
	}
}

// HandleLowStockList returns the products of a firm at or below their
// minimum stock level.
func HandleLowStockList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		records, err := app.FindRecordsByFilter(
			"products",
			"firm = {:firmId} && is_service = false",
			"name",
			0,
			0,
			map[string]any{"firmId": firm.Id},
		)
		if err != nil {
			log.Printf("product_stock: HandleLowStockList: could not fetch products: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		items := make([]map[string]any, 0)
		for _, rec := range records {
			if services.IsLowStock(rec.GetFloat("stock_quantity"), rec.GetFloat("min_stock_level")) {
				items = append(items, productJSON(rec))
			}
		}
		return JSONSuccess(e, http.StatusOK, map[string]any{"items": items})
	}
}
