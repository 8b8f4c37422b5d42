package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
)

// JSONSuccess writes a success envelope. The payload keys are merged next to
// the "success" flag, e.g. {"success": true, "item": {...}}.
func JSONSuccess(e *core.RequestEvent, status int, payload map[string]any) error {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = true
	return e.JSON(status, body)
}

// JSONError writes a failure envelope with a human readable message.
func JSONError(e *core.RequestEvent, status int, message string) error {
	return e.JSON(status, map[string]any{
		"success": false,
		"message": message,
	})
}

// JSONValidationError writes a failure envelope carrying field level errors.
func JSONValidationError(e *core.RequestEvent, errors map[string]string) error {
	return e.JSON(http.StatusBadRequest, map[string]any{
		"success": false,
		"message": "Lütfen formdaki hataları düzeltin",
		"errors":  errors,
	})
}
