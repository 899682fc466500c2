// Package render projects a classifier response onto the selected categories.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/bfhl/internal/model"
	"github.com/verte-zerg/bfhl/internal/selection"
)

// NoDataMessage is shown when a response exists but nothing selected has values.
const NoDataMessage = "No data to display"

// Entry is one displayable category.
type Entry struct {
	Category model.Category
	Values   []string
}

// Filter returns the selected, non-empty categories of resp in display order.
// It returns nil when resp is nil.
func Filter(resp *model.ResponseEnvelope, sel selection.Set) []Entry {
	if resp == nil {
		return nil
	}
	var entries []Entry
	for _, c := range sel.Ordered() {
		values := resp.Field(c)
		if len(values) == 0 {
			continue
		}
		entries = append(entries, Entry{Category: c, Values: append([]string(nil), values...)})
	}
	return entries
}

// Title is the line prefix used for a category.
func Title(c model.Category) string {
	switch c {
	case model.CategoryHighestAlphabet:
		return "Highest Alphabet"
	default:
		return string(c)
	}
}

// Lines renders one "Title: a, b" line per entry, or the no-data placeholder.
// A nil response renders nothing.
func Lines(resp *model.ResponseEnvelope, sel selection.Set) []string {
	if resp == nil {
		return nil
	}
	entries := Filter(resp, sel)
	if len(entries) == 0 {
		return []string{NoDataMessage}
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s: %s", Title(e.Category), strings.Join(e.Values, ", ")))
	}
	return lines
}

// block keeps keys in display order when marshaled.
type block struct {
	Alphabets       []string `json:"alphabets,omitempty" yaml:"alphabets,omitempty"`
	Numbers         []string `json:"numbers,omitempty" yaml:"numbers,omitempty"`
	HighestAlphabet []string `json:"highest_alphabet,omitempty" yaml:"highest_alphabet,omitempty"`
}

func toBlock(entries []Entry) block {
	var b block
	for _, e := range entries {
		switch e.Category {
		case model.CategoryAlphabets:
			b.Alphabets = e.Values
		case model.CategoryNumbers:
			b.Numbers = e.Values
		case model.CategoryHighestAlphabet:
			b.HighestAlphabet = e.Values
		}
	}
	return b
}

// Block renders the entries as an indented JSON object, "{}" when empty.
// A nil response renders "".
func Block(resp *model.ResponseEnvelope, sel selection.Set) (string, error) {
	if resp == nil {
		return "", nil
	}
	out, err := json.MarshalIndent(toBlock(Filter(resp, sel)), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal block: %w", err)
	}
	return string(out), nil
}

// YAML renders the entries as a YAML mapping, "{}" when empty.
func YAML(resp *model.ResponseEnvelope, sel selection.Set) (string, error) {
	if resp == nil {
		return "", nil
	}
	out, err := yaml.Marshal(toBlock(Filter(resp, sel)))
	if err != nil {
		return "", fmt.Errorf("failed to marshal yaml: %w", err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}
