// Package generator builds random sample input for the form.
package generator

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"time"
	"unicode"
)

const maxNumber = 1000

// Generator produces randomized token lists.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Tokens returns count tokens, each a single letter with probability
// letterPct and a non-negative integer otherwise. Letters are upper case
// with probability capsPct.
func (g *Generator) Tokens(count int, letterPct, capsPct float64) []string {
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if g.rnd.Float64() < letterPct {
			letter := rune('a' + g.rnd.Intn(26))
			result = append(result, applyCaps(g.rnd, letter, capsPct))
			continue
		}
		result = append(result, strconv.Itoa(g.rnd.Intn(maxNumber)))
	}
	return result
}

// Envelope returns JSON text of the form {"data": [...]}.
func (g *Generator) Envelope(count int, letterPct, capsPct float64) (string, error) {
	if count < 0 {
		return "", fmt.Errorf("token count must be >= 0")
	}
	payload := struct {
		Data []string `json:"data"`
	}{Data: g.Tokens(count, letterPct, capsPct)}
	out, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode sample: %w", err)
	}
	return string(out), nil
}

func applyCaps(rnd *rand.Rand, letter rune, capsPct float64) string {
	if capsPct <= 0 || rnd.Float64() > capsPct {
		return string(letter)
	}
	return string(unicode.ToUpper(letter))
}
