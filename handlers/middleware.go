package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type contextKey string

const ActiveFirmKey contextKey = "activeFirm"

// ActiveFirm is the firm the current session operates on.
type ActiveFirm struct {
	ID     string
	Name   string
	Plan   string
	Status string
}

// GetActiveFirm extracts the active firm from the request context.
func GetActiveFirm(r *http.Request) *ActiveFirm {
	if val, ok := r.Context().Value(ActiveFirmKey).(*ActiveFirm); ok {
		return val
	}
	return nil
}

// ActiveFirmMiddleware reads the "active_firm" cookie, loads the firm record
// and stores it in the request context so handlers can scope their queries.
// A stale cookie pointing at a deleted firm is cleared.
func ActiveFirmMiddleware(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var activeFirm *ActiveFirm

		cookie, err := e.Request.Cookie("active_firm")
		if err == nil && cookie.Value != "" {
			rec, err := app.FindRecordById("firms", cookie.Value)
			if err == nil {
				activeFirm = &ActiveFirm{
					ID:     rec.Id,
					Name:   rec.GetString("name"),
					Plan:   rec.GetString("subscription_plan"),
					Status: rec.GetString("status"),
				}
			} else {
				log.Printf("middleware: active firm %s not found, clearing cookie", cookie.Value)
				http.SetCookie(e.Response, &http.Cookie{
					Name:   "active_firm",
					Value:  "",
					Path:   "/",
					MaxAge: -1,
				})
			}
		}

		ctx := context.WithValue(e.Request.Context(), ActiveFirmKey, activeFirm)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}

// requireFirm loads the firm named in the route path and confirms it exists.
// Handlers under /firms/{firmId}/ call this before touching firm data.
func requireFirm(app *pocketbase.PocketBase, e *core.RequestEvent) (*core.Record, error) {
	firmID := e.Request.PathValue("firmId")
	if firmID == "" {
		return nil, JSONError(e, http.StatusBadRequest, "Firma belirtilmedi")
	}
	firm, err := app.FindRecordById("firms", firmID)
	if err != nil {
		return nil, JSONError(e, http.StatusNotFound, "Firma bulunamadı")
	}
	return firm, nil
}
