// Package model defines shared data structures.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Mode selects how the selection set is edited in the form.
type Mode string

const (
	// ModeToggle uses one toggle button per category plus dismissible tags.
	ModeToggle Mode = "toggle"
	// ModeMulti uses a single multi-choice list that replaces the selection on commit.
	ModeMulti Mode = "multi"
)

// ParseMode converts a config or flag value into a Mode.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeToggle:
		return ModeToggle, nil
	case ModeMulti:
		return ModeMulti, nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected %q or %q)", value, ModeToggle, ModeMulti)
	}
}

// Config defines form settings.
type Config struct {
	Endpoint string
	Mode     Mode
	Timeout  time.Duration
	LogLevel string
}

// Category identifies one field of the response envelope.
type Category string

const (
	// CategoryAlphabets selects the alphabetic tokens.
	CategoryAlphabets Category = "Alphabets"
	// CategoryNumbers selects the numeric tokens.
	CategoryNumbers Category = "Numbers"
	// CategoryHighestAlphabet selects the highest alphabetic token.
	CategoryHighestAlphabet Category = "Highest alphabet"
)

var categories = [...]Category{CategoryAlphabets, CategoryNumbers, CategoryHighestAlphabet}

// Categories returns every category in display order. The slice is a fresh
// copy on each call.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories[:])
	return out
}

// ParseCategory matches a label case-insensitively against the known categories.
func ParseCategory(label string) (Category, error) {
	trimmed := strings.TrimSpace(label)
	for _, c := range categories {
		if strings.EqualFold(trimmed, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", label)
}

// Key returns the response field name backing the category.
func (c Category) Key() string {
	switch c {
	case CategoryAlphabets:
		return "alphabets"
	case CategoryNumbers:
		return "numbers"
	case CategoryHighestAlphabet:
		return "highest_alphabet"
	default:
		return ""
	}
}

// RequestEnvelope is the outbound payload. Elements are kept raw so that
// whatever the user typed is forwarded unchanged.
type RequestEnvelope struct {
	Data []json.RawMessage `json:"data"`
}

// ResponseEnvelope is the classifier's reply.
type ResponseEnvelope struct {
	Alphabets       []string `json:"alphabets"`
	Numbers         []string `json:"numbers"`
	HighestAlphabet []string `json:"highest_alphabet"`
}

// Field returns the values for a category.
func (r *ResponseEnvelope) Field(c Category) []string {
	if r == nil {
		return nil
	}
	switch c {
	case CategoryAlphabets:
		return r.Alphabets
	case CategoryNumbers:
		return r.Numbers
	case CategoryHighestAlphabet:
		return r.HighestAlphabet
	default:
		return nil
	}
}
