package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"moneyleft/internal/core"
)

// decodeArgs decodes raw into T, rejecting unknown fields and trailing data.
// Absent or null arguments decode to the zero T.
func decodeArgs[T any](raw json.RawMessage) (T, error) {
	var v T
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return v, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, invalidArgs(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return v, fmt.Errorf("%w: unexpected data after arguments", core.ErrInvalidInput)
	}
	return v, nil
}

func invalidArgs(err error) error {
	if errors.Is(err, core.ErrInvalidInput) {
		return err
	}
	return fmt.Errorf("%w: arguments: %w", core.ErrInvalidInput, err)
}

// canonicalArgs renders raw with sorted keys and no insignificant whitespace,
// so equivalent requests share a cache key.
func canonicalArgs(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "null", nil
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", invalidArgs(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: unexpected data after arguments", core.ErrInvalidInput)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
