package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

func categoryJSON(rec *core.Record) map[string]any {
	return map[string]any{
		"id":          rec.Id,
		"name":        rec.GetString("name"),
		"description": rec.GetString("description"),
		"color":       rec.GetString("color"),
		"icon":        rec.GetString("icon"),
		"sort_order":  rec.GetFloat("sort_order"),
	}
}

// HandleCategoryList returns the categories of a firm in sort order.
func HandleCategoryList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		records, err := app.FindRecordsByFilter(
			"categories",
			"firm = {:firmId}",
			"sort_order,name",
			0,
			0,
			map[string]any{"firmId": firm.Id},
		)
		if err != nil {
			log.Printf("categories: HandleCategoryList: could not fetch categories: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		items := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			item := categoryJSON(rec)
			item["product_count"] = countCategoryProducts(app, rec.Id)
			items = append(items, item)
		}
		return JSONSuccess(e, http.StatusOK, map[string]any{"items": items})
	}
}

// HandleCategoryCreate creates a category under a firm.
func HandleCategoryCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		name := strings.TrimSpace(e.Request.FormValue("name"))
		errs := make(map[string]string)
		if name == "" {
			errs["name"] = "Kategori adı zorunludur"
		}
		if len(errs) > 0 {
			return JSONValidationError(e, errs)
		}

		col, err := app.FindCollectionByNameOrId("categories")
		if err != nil {
			log.Printf("categories: HandleCategoryCreate: could not find categories collection: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		record := core.NewRecord(col)
		record.Set("firm", firm.Id)
		record.Set("name", name)
		record.Set("description", strings.TrimSpace(e.Request.FormValue("description")))
		record.Set("color", strings.TrimSpace(e.Request.FormValue("color")))
		record.Set("icon", strings.TrimSpace(e.Request.FormValue("icon")))
		record.Set("sort_order", parseFloatField(e, "sort_order", 0))

		if err := app.Save(record); err != nil {
			log.Printf("categories: HandleCategoryCreate: could not save category: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Kategori kaydedilemedi")
		}

		return JSONSuccess(e, http.StatusCreated, map[string]any{"item": categoryJSON(record)})
	}
}

// HandleCategoryUpdate applies non-empty form values to a category.
func HandleCategoryUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		category, err := findFirmCategory(app, e, firm.Id)
		if category == nil {
			return err
		}

		if v := strings.TrimSpace(e.Request.FormValue("name")); v != "" {
			category.Set("name", v)
		}
		for _, field := range []string{"description", "color", "icon"} {
			if v := strings.TrimSpace(e.Request.FormValue(field)); v != "" {
				category.Set(field, v)
			}
		}
		if v := e.Request.FormValue("sort_order"); v != "" {
			category.Set("sort_order", parseFloatField(e, "sort_order", category.GetFloat("sort_order")))
		}

		if err := app.Save(category); err != nil {
			log.Printf("categories: HandleCategoryUpdate: could not save category %s: %v", category.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Kategori güncellenemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"item": categoryJSON(category)})
	}
}

// HandleCategoryDelete removes a category. Its products stay and simply
// become uncategorized.
func HandleCategoryDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		category, err := findFirmCategory(app, e, firm.Id)
		if category == nil {
			return err
		}

		if err := app.Delete(category); err != nil {
			log.Printf("categories: HandleCategoryDelete: could not delete category %s: %v", category.Id, err)
			return JSONError(e, http.StatusInternalServerError, "Kategori silinemedi")
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{"deleted": category.Id})
	}
}

// countCategoryProducts counts the products linked to a category.
func countCategoryProducts(app *pocketbase.PocketBase, categoryID string) int {
	records, err := app.FindRecordsByFilter(
		"products",
		"category = {:categoryId}",
		"",
		0,
		0,
		map[string]any{"categoryId": categoryID},
	)
	if err != nil {
		return 0
	}
	return len(records)
}

// findFirmCategory loads the category named in the path and verifies it
// belongs to the firm. Writes the error response itself on failure.
func findFirmCategory(app *pocketbase.PocketBase, e *core.RequestEvent, firmID string) (*core.Record, error) {
	categoryID := e.Request.PathValue("categoryId")
	category, err := app.FindRecordById("categories", categoryID)
	if err != nil {
		return nil, JSONError(e, http.StatusNotFound, "Kategori bulunamadı")
	}
	if category.GetString("firm") != firmID {
		return nil, JSONError(e, http.StatusForbidden, "Kategori bu firmaya ait değil")
	}
	return category, nil
}
