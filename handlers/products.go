package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"epica/services"
)

func productJSON(rec *core.Record) map[string]any {
	return map[string]any{
		"id":              rec.Id,
		"name":            rec.GetString("name"),
		"sku":             rec.GetString("sku"),
		"description":     rec.GetString("description"),
		"category":        rec.GetString("category"),
		"unit":            rec.GetString("unit"),
		"purchase_price":  rec.GetFloat("purchase_price"),
		"sale_price":      rec.GetFloat("sale_price"),
		"tax_rate":        rec.GetFloat("tax_rate"),
		"stock_quantity":  rec.GetFloat("stock_quantity"),
		"min_stock_level": rec.GetFloat("min_stock_level"),
		"brand":           rec.GetString("brand"),
		"model":           rec.GetString("model"),
		"is_service":      rec.GetBool("is_service"),
		"is_active":       rec.GetBool("is_active"),
		"profit_margin":   services.ProfitMargin(rec.GetFloat("purchase_price"), rec.GetFloat("sale_price")),
		"low_stock":       services.IsLowStock(rec.GetFloat("stock_quantity"), rec.GetFloat("min_stock_level")),
		"created":         rec.GetString("created"),
	}
}

// HandleProductList returns the products of a firm sorted by name. The
// optional "category" query parameter narrows the list.
func HandleProductList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		filter := "firm = {:firmId}"
		params := map[string]any{"firmId": firm.Id}
		if categoryID := e.Request.URL.Query().Get("category"); categoryID != "" {
			filter += " && category = {:categoryId}"
			params["categoryId"] = categoryID
		}

		records, err := app.FindRecordsByFilter("products", filter, "name", 0, 0, params)
		if err != nil {
			log.Printf("products: HandleProductList: could not fetch products: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		items := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			items = append(items, productJSON(rec))
		}
		return JSONSuccess(e, http.StatusOK, map[string]any{"items": items})
	}
}

// HandleProductCreate creates a product under a firm.
func HandleProductCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		if firmLimitReached(app, firm, "products", "max_products") {
			return JSONError(e, http.StatusConflict, "Ürün limiti doldu, planınızı yükseltin")
		}

		name := strings.TrimSpace(e.Request.FormValue("name"))
		errs := make(map[string]string)
		if name == "" {
			errs["name"] = "Ürün adı zorunludur"
		}
		if salePrice := parseFloatField(e, "sale_price", 0); salePrice < 0 {
			errs["sale_price"] = "Satış fiyatı negatif olamaz"
		}
		if purchasePrice := parseFloatField(e, "purchase_price", 0); purchasePrice < 0 {
			errs["purchase_price"] = "Alış fiyatı negatif olamaz"
		}
		if len(errs) > 0 {
			return JSONValidationError(e, errs)
		}

		if categoryID := strings.TrimSpace(e.Request.FormValue("category")); categoryID != "" {
			category, err := app.FindRecordById("categories", categoryID)
			if err != nil || category.GetString("firm") != firm.Id {
				return JSONError(e, http.StatusBadRequest, "Kategori bu firmaya ait değil")
			}
		}

		col, err := app.FindCollectionByNameOrId("products")
		if err != nil {
			log.Printf("products: HandleProductCreate: could not find products collection: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		record := core.NewRecord(col)
		record.Set("firm", firm.Id)
		record.Set("name", name)
		for _, field := range []string{"sku", "description", "category", "brand", "model"} {
			record.Set(field, strings.TrimSpace(e.Request.FormValue(field)))
		}

		unit := strings.TrimSpace(e.Request.FormValue("unit"))
		if unit == "" {
			unit = "Adet"
		}
		record.Set("unit", unit)

		record.Set("purchase_price", parseFloatField(e, "purchase_price", 0))
		record.Set("sale_price", parseFloatField(e, "sale_price", 0))
		record.Set("tax_rate", parseFloatField(e, "tax_rate", services.DefaultTaxRate))
		record.Set("stock_quantity", parseFloatField(e, "stock_quantity", 0))
		record.Set("min_stock_level", parseFloatField(e, "min_stock_level", 0))
		record.Set("is_service", e.Request.FormValue("is_service") == "true")
		record.Set("is_active", e.Request.FormValue("is_active") != "false")

		if err := app.Save(record); err != nil {
			log.Printf("products: HandleProductCreate: could not save product: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Ürün kaydedilemedi")
		}

		return JSONSuccess(e, http.StatusCreated, map[string]any{"item": productJSON(record)})
	}
}

// HandleProductView returns one product of a firm.
func HandleProductView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		product, err := findFirmProduct(app, e, firm.Id)
		if product == nil {
			return err
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"item": productJSON(product)})
	}
}

// HandleProductUpdate applies non-empty form values to a product.
func HandleProductUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		product, err := findFirmProduct(app, e, firm.Id)
		if product == nil {
			return err
		}

		if v := strings.TrimSpace(e.Request.FormValue("name")); v != "" {
			product.Set("name", v)
		}
		for _, field := range []string{"sku", "description", "unit", "brand", "model"} {
			if v := strings.TrimSpace(e.Request.FormValue(field)); v != "" {
				product.Set(field, v)
			}
		}
		if v := strings.TrimSpace(e.Request.FormValue("category")); v != "" {
			category, err := app.FindRecordById("categories", v)
			if err != nil || category.GetString("firm") != firm.Id {
				return JSONError(e, http.StatusBadRequest, "Kategori bu firmaya ait değil")
			}
			product.Set("category", v)
		}
		for _, field := range []string{"purchase_price", "sale_price", "tax_rate", "stock_quantity", "min_stock_level"} {
			if v := e.Request.FormValue(field); v != "" {
				product.Set(field, parseFloatField(e, field, product.GetFloat(field)))
			}
		}
		if v := e.Request.FormValue("is_service"); v != "" {
			product.Set("is_service", v == "true")
		}
		if v := e.Request.FormValue("is_active"); v != "" {
			product.Set("is_active", v != "false")
		}

		if err := app.Save(product); err != nil {
			log.Printf("products: HandleProductUpdate: could not save product %s: %v", product.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Ürün güncellenemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"item": productJSON(product)})
	}
}

// HandleProductDelete removes a product.
func HandleProductDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		product, err := findFirmProduct(app, e, firm.Id)
		if product == nil {
			return err
		}

		if err := app.Delete(product); err != nil {
			log.Printf("products: HandleProductDelete: could not delete product %s: %v", product.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Ürün silinemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"deleted": product.Id})
	}
}

// findFirmProduct loads the product named in the path and verifies it
// belongs to the firm. Writes the error response itself on failure.
func findFirmProduct(app *pocketbase.PocketBase, e *core.RequestEvent, firmID string) (*core.Record, error) {
	productID := e.Request.PathValue("productId")
	product, err := app.FindRecordById("products", productID)
	if err != nil {
		return nil, JSONError(e, http.StatusNotFound, "Ürün bulunamadı")
	}
	if product.GetString("firm") != firmID {
		return nil, JSONError(e, http.StatusForbidden, "Ürün bu firmaya ait değil")
	}
	return product, nil
}
