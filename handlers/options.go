package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"epica/services"
)

// HandleFormOptions returns the static option lists the client renders as
// form dropdowns: units, VAT rates, currencies and request priorities.
func HandleFormOptions(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return JSONSuccess(e, http.StatusOK, map[string]any{
			"units":      services.UnitOptions,
			"tax_rates":  services.TaxRateOptions,
			"currencies": services.CurrencyOptions,
			"priorities": services.PriorityOptions,
		})
	}
}
