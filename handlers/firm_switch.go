package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleFirmActivate sets the active firm cookie for the session.
func HandleFirmActivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		http.SetCookie(e.Response, &http.Cookie{
			Name:     "active_firm",
			Value:    firm.Id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		return JSONSuccess(e, http.StatusOK, map[string]any{
			"active_firm": map[string]any{
				"id":   firm.Id,
				"name": firm.GetString("name"),
			},
		})
	}
}

// HandleFirmDeactivate clears the active firm cookie.
func HandleFirmDeactivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		http.SetCookie(e.Response, &http.Cookie{
			Name:   "active_firm",
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
		return JSONSuccess(e, http.StatusOK, map[string]any{"active_firm": nil})
	}
}
