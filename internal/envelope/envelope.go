// Package envelope validates user input and derives the request payload from it.
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/bfhl/internal/model"
)

// InvalidInputMessage is shown to the user when input is rejected.
const InvalidInputMessage = `Invalid JSON format or missing "data" field`

// Placeholder is the example shown in an empty input area.
const Placeholder = `Enter valid JSON here, e.g., {"data": ["M", "1", "334", "4", "B"]}`

// ErrInvalidInput is returned for malformed JSON or a missing/non-array "data" field.
var ErrInvalidInput = errors.New("invalid input")

// Parse decodes text and returns the request payload. Validation and payload
// construction share this one decode, so a payload is only ever built from a
// value that has an array under "data". Invalid UTF-8 is replaced with U+FFFD
// before decoding.
func Parse(text string) (model.RequestEnvelope, error) {
	trimmed := strings.ToValidUTF8(strings.TrimSpace(text), "\uFFFD")
	if trimmed == "" {
		return model.RequestEnvelope{}, fmt.Errorf("%w: empty input", ErrInvalidInput)
	}
	// RawMessage values keep numbers and nested elements byte-for-byte, and
	// map keys match "data" exactly.
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return model.RequestEnvelope{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if obj == nil {
		return model.RequestEnvelope{}, fmt.Errorf("%w: top-level value is not an object", ErrInvalidInput)
	}
	raw, ok := obj["data"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return model.RequestEnvelope{}, fmt.Errorf("%w: \"data\" is missing", ErrInvalidInput)
	}
	data := []json.RawMessage{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return model.RequestEnvelope{}, fmt.Errorf("%w: \"data\" is not an array", ErrInvalidInput)
	}
	return model.RequestEnvelope{Data: data}, nil
}

// Valid reports whether text is a JSON object with an array under "data".
func Valid(text string) bool {
	_, err := Parse(text)
	return err == nil
}
