package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"moneyleft/internal/tools"
)

// statusFor maps an envelope onto the HTTP status a client expects.
func statusFor(env tools.Envelope) int {
	if env.OK || env.Error == nil {
		return http.StatusOK
	}
	switch env.Error.Type {
	case tools.ErrorTypeInvalidInput:
		return http.StatusBadRequest
	case tools.ErrorTypeNotFound:
		return http.StatusNotFound
	case tools.ErrorTypeStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorEnvelope(typ, msg string) tools.Envelope {
	return tools.Envelope{Error: &tools.ErrorBody{Type: typ, Message: msg}}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}
