package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/verte-zerg/bfhl/internal/client"
	"github.com/verte-zerg/bfhl/internal/envelope"
	"github.com/verte-zerg/bfhl/internal/model"
)

type fakeSubmitter struct {
	mu    sync.Mutex
	calls []model.RequestEnvelope
	reply func(env model.RequestEnvelope) (*model.ResponseEnvelope, error)
}

func (f *fakeSubmitter) Submit(_ context.Context, env model.RequestEnvelope) (*model.ResponseEnvelope, error) {
	f.mu.Lock()
	f.calls = append(f.calls, env)
	f.mu.Unlock()
	return f.reply(env)
}

func sampleResponse() *model.ResponseEnvelope {
	return &model.ResponseEnvelope{
		Alphabets:       []string{"M", "B"},
		Numbers:         []string{"1", "334", "4"},
		HighestAlphabet: []string{"M"},
	}
}

func newTestModel(t *testing.T, mode model.Mode, sub *fakeSubmitter) *Model {
	t.Helper()
	m, err := NewModel(model.Config{Mode: mode}, sub, zaptest.NewLogger(t))
	require.NoError(t, err)
	return m
}

func press(m *Model, keyType tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: keyType})
	return cmd
}

func pressRune(m *Model, r rune) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return cmd
}

func submitText(t *testing.T, m *Model, text string) tea.Cmd {
	t.Helper()
	m.input.SetValue(text)
	return press(m, tea.KeyCtrlS)
}

func run(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	m.Update(cmd())
}

func TestSubmitValidInputShowsFilters(t *testing.T) {
	sub := &fakeSubmitter{reply: func(model.RequestEnvelope) (*model.ResponseEnvelope, error) {
		return sampleResponse(), nil
	}}
	m := newTestModel(t, model.ModeToggle, sub)

	cmd := submitText(t, m, `{"data": ["M","1","334","4","B"]}`)
	require.NotNil(t, cmd)
	assert.True(t, m.inFlight)
	run(m, cmd)

	require.Len(t, sub.calls, 1)
	assert.Len(t, sub.calls[0].Data, 5)
	assert.True(t, m.showFilters)
	assert.Empty(t, m.errMsg)
	assert.False(t, m.inFlight)
	assert.Equal(t, sampleResponse(), m.response)
}

func TestSubmitInvalidInputIssuesNoRequest(t *testing.T) {
	for _, text := range []string{`{"foo": "bar"}`, `not json`} {
		sub := &fakeSubmitter{reply: func(model.RequestEnvelope) (*model.ResponseEnvelope, error) {
			return sampleResponse(), nil
		}}
		m := newTestModel(t, model.ModeToggle, sub)

		cmd := submitText(t, m, text)
		assert.Nil(t, cmd, text)
		assert.Empty(t, sub.calls, text)
		assert.Equal(t, envelope.InvalidInputMessage, m.errMsg, text)
		assert.Nil(t, m.response, text)
		assert.Contains(t, m.View(), envelope.InvalidInputMessage)
	}
}

func TestInvalidInputClearsPreviousResponse(t *testing.T) {
	sub := &fakeSubmitter{reply: func(model.RequestEnvelope) (*model.ResponseEnvelope, error) {
		return sampleResponse(), nil
	}}
	m := newTestModel(t, model.ModeToggle, sub)
	run(m, submitText(t, m, `{"data": ["A"]}`))
	require.NotNil(t, m.response)

	submitText(t, m, `{"data": "A"}`)
	assert.Nil(t, m.response)
	assert.Equal(t, envelope.InvalidInputMessage, m.errMsg)
}

func TestTransportErrorClearsResponse(t *testing.T) {
	fail := false
	sub := &fakeSubmitter{reply: func(model.RequestEnvelope) (*model.ResponseEnvelope, error) {
		if fail {
			return nil, client.ErrTransport
		}
		return sampleResponse(), nil
	}}
	m := newTestModel(t, model.ModeToggle, sub)
	run(m, submitText(t, m, `{"data": ["A"]}`))
	require.NotNil(t, m.response)

	fail = true
	run(m, submitText(t, m, `{"data": ["A"]}`))
	assert.Nil(t, m.response)
	assert.Equal(t, client.TransportErrorMessage, m.errMsg)
	assert.Contains(t, m.View(), client.TransportErrorMessage)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	sub := &fakeSubmitter{reply: func(env model.RequestEnvelope) (*model.ResponseEnvelope, error) {
		letter := strings.Trim(string(env.Data[0]), `"`)
		return &model.ResponseEnvelope{Alphabets: []string{letter}, Numbers: []string{}, HighestAlphabet: []string{letter}}, nil
	}}
	m := newTestModel(t, model.ModeToggle, sub)

	first := submitText(t, m, `{"data": ["A"]}`)
	second := submitText(t, m, `{"data": ["Z"]}`)

	run(m, second)
	run(m, first)

	require.NotNil(t, m.response)
	assert.Equal(t, []string{"Z"}, m.response.Alphabets)
}

func TestStaleErrorIsDiscarded(t *testing.T) {
	sub := &fakeSubmitter{reply: func(env model.RequestEnvelope) (*model.ResponseEnvelope, error) {
		if len(env.Data) == 0 {
			return nil, errors.New("boom")
		}
		return sampleResponse(), nil
	}}
	m := newTestModel(t, model.ModeToggle, sub)

	first := submitText(t, m, `{"data": []}`)
	second := submitText(t, m, `{"data": ["M"]}`)
	run(m, second)
	run(m, first)

	assert.Empty(t, m.errMsg)
	assert.NotNil(t, m.response)
}

func TestInvalidSubmitSupersedesInFlightRequest(t *testing.T) {
	sub := &fakeSubmitter{reply: func(model.RequestEnvelope) (*model.ResponseEnvelope, error) {
		return sampleResponse(), nil
	}}
	m := newTestModel(t, model.ModeToggle, sub)

	pending := submitText(t, m, `{"data": ["A"]}`)
	submitText(t, m, `oops`)
	run(m, pending)

	assert.Nil(t, m.response)
	assert.Equal(t, envelope.InvalidInputMessage, m.errMsg)
}

func TestToggleModeRendersSelectedLines(t *testing.T) {
	sub := &fakeSubmitter{reply: func(model.RequestEnvelope) (*model.ResponseEnvelope, error) {
		return sampleResponse(), nil
	}}
	m := newTestModel(t, model.ModeToggle, sub)
	run(m, submitText(t, m, `{"data": ["M","1","334","4","B"]}`))

	assert.Contains(t, m.View(), "No data to display")

	press(m, tea.KeyTab)
	require.Equal(t, focusFilters, m.focus)
	press(m, tea.KeySpace) // Alphabets
	press(m, tea.KeyRight)
	press(m, tea.KeyEnter) // Numbers

	view := m.View()
	assert.Contains(t, view, "Alphabets: M, B")
	assert.Contains(t, view, "Numbers: 1, 334, 4")
	assert.NotContains(t, view, "Highest Alphabet:")
	assert.Contains(t, view, "Selected Filters:")
}

func TestToggleModeTagRemoval(t *testing.T) {
	sub := &fakeSubmitter{reply: func(model.RequestEnvelope) (*model.ResponseEnvelope, error) {
		return sampleResponse(), nil
	}}
	m := newTestModel(t, model.ModeToggle, sub)
	run(m, submitText(t, m, `{"data": ["M"]}`))

	press(m, tea.KeyTab)
	press(m, tea.KeySpace)
	press(m, tea.KeyTab)
	require.Equal(t, focusTags, m.focus)

	pressRune(m, 'x')
	assert.Equal(t, 0, m.selector.Selected().Len())
	assert.Equal(t, focusInput, m.focus)
	assert.Contains(t, m.View(), "No data to display")
}

func TestMultiModeCommitReplacesSelection(t *testing.T) {
	sub := &fakeSubmitter{reply: func(model.RequestEnvelope) (*model.ResponseEnvelope, error) {
		return sampleResponse(), nil
	}}
	m := newTestModel(t, model.ModeMulti, sub)
	run(m, submitText(t, m, `{"data": ["M"]}`))

	press(m, tea.KeyTab)
	press(m, tea.KeyDown)
	press(m, tea.KeySpace) // Numbers
	press(m, tea.KeyEnter)
	assert.True(t, m.selector.Selected().Has(model.CategoryNumbers))

	press(m, tea.KeySpace) // uncheck Numbers
	press(m, tea.KeyUp)
	press(m, tea.KeySpace) // Alphabets
	press(m, tea.KeyEnter)

	sel := m.selector.Selected()
	assert.Equal(t, 1, sel.Len())
	assert.True(t, sel.Has(model.CategoryAlphabets))

	view := m.View()
	assert.Contains(t, view, `"alphabets"`)
	assert.NotContains(t, view, `"numbers"`)
}

func TestMultiModeEmptySelectionShowsEmptyBlock(t *testing.T) {
	sub := &fakeSubmitter{reply: func(model.RequestEnvelope) (*model.ResponseEnvelope, error) {
		return sampleResponse(), nil
	}}
	m := newTestModel(t, model.ModeMulti, sub)
	run(m, submitText(t, m, `{"data": ["M"]}`))

	assert.Contains(t, m.View(), "{}")
}

func TestFiltersHiddenBeforeFirstResponse(t *testing.T) {
	m := newTestModel(t, model.ModeToggle, &fakeSubmitter{})
	assert.NotContains(t, m.View(), "Select Filters:")

	press(m, tea.KeyTab)
	assert.Equal(t, focusInput, m.focus)
}

func TestNewModelRejectsUnknownMode(t *testing.T) {
	_, err := NewModel(model.Config{Mode: "dropdown"}, &fakeSubmitter{}, nil)
	assert.Error(t, err)
}
