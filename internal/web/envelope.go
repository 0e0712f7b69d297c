package web

// envelope.go defines the uniform result envelope every controller action
// answers with. Clients switch on the "result" field; everything else in the
// payload is action-specific.

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Result values of the client envelope.
const (
	ResultSuccess    = "success"
	ResultError      = "error"
	ResultFormErrors = "formErrors"
)

// Envelope is the structured response body sent to the client.
type Envelope map[string]any

// FieldError describes one failed form field in a formErrors envelope.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// writeJSON encodes v and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}
