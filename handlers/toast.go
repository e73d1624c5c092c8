package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
)

// SetToast sets the HX-Trigger response header so a client can show a
// notification. An existing HX-Trigger JSON object is merged, not replaced.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	toast := map[string]string{
		"message": message,
		"type":    toastType,
	}

	merged := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		// a non-JSON trigger is overwritten
		if err := json.Unmarshal([]byte(existing), &merged); err != nil {
			merged = map[string]any{}
		}
	}
	merged["showToast"] = toast

	data, err := json.Marshal(merged)
	if err != nil {
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))
}

// ErrorToast sets an error toast and writes {"error": message} with the
// given status.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.JSON(statusCode, map[string]string{"error": message})
}

// ok writes data as JSON with a 200 status.
func ok(e *core.RequestEvent, data any) error {
	return e.JSON(http.StatusOK, data)
}
