package tools

import (
	"errors"

	"moneyleft/internal/core"
)

// Error types carried in a failed envelope.
const (
	ErrorTypeInvalidInput       = "invalid_input"
	ErrorTypeNotFound           = "not_found"
	ErrorTypeStorageUnavailable = "storage_unavailable"
	ErrorTypeInternal           = "internal"
)

// Envelope is the single structured result of a tool call.
type Envelope struct {
	ID     any        `json:"id,omitempty"`
	OK     bool       `json:"ok"`
	Result any        `json:"result,omitempty"`
	Error  *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func success(result any) Envelope {
	return Envelope{OK: true, Result: result}
}

// failure maps err onto the envelope taxonomy. Internal errors keep their
// detail out of the message; the caller logs it.
func failure(err error) Envelope {
	typ := ErrorType(err)
	msg := err.Error()
	if typ == ErrorTypeInternal {
		msg = "internal error"
	}
	return Envelope{Error: &ErrorBody{Type: typ, Message: msg}}
}

// ErrorType classifies err by the core sentinel it wraps.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		return ErrorTypeInvalidInput
	case errors.Is(err, core.ErrNotFound):
		return ErrorTypeNotFound
	case errors.Is(err, core.ErrStorageUnavailable):
		return ErrorTypeStorageUnavailable
	default:
		return ErrorTypeInternal
	}
}
