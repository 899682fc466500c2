// Package tui provides the Bubble Tea form for submitting token lists.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/bfhl/internal/client"
	"github.com/verte-zerg/bfhl/internal/envelope"
	"github.com/verte-zerg/bfhl/internal/model"
	"github.com/verte-zerg/bfhl/internal/selection"
)

// Submitter sends a request envelope and returns the decoded response.
type Submitter interface {
	Submit(ctx context.Context, env model.RequestEnvelope) (*model.ResponseEnvelope, error)
}

type focusArea int

const (
	focusInput focusArea = iota
	focusFilters
	focusTags
)

type submitResultMsg struct {
	token uint64
	resp  *model.ResponseEnvelope
	err   error
}

// Model implements the Bubble Tea form UI.
type Model struct {
	config    model.Config
	submitter Submitter
	logger    *zap.Logger
	selector  selection.Selector
	seq       client.Sequencer
	cancel    context.CancelFunc

	input textarea.Model
	keys  keyMap
	help  help.Model

	width  int
	height int

	focus     focusArea
	cursor    int
	tagCursor int
	staged    selection.Set

	response    *model.ResponseEnvelope
	errMsg      string
	showFilters bool
	inFlight    bool
}

// NewModel constructs a form model.
func NewModel(cfg model.Config, submitter Submitter, logger *zap.Logger) (*Model, error) {
	sel, err := selection.New(cfg.Mode)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	input := textarea.New()
	input.Placeholder = envelope.Placeholder
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetHeight(4)
	input.Focus()

	return &Model{
		config:    cfg,
		submitter: submitter,
		logger:    logger,
		selector:  sel,
		input:     input,
		keys:      newKeyMap(cfg.Mode),
		help:      help.New(),
	}, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(maxInt(10, contentWidth(m.width)-2))
		m.help.Width = m.width
		return m, nil
	case submitResultMsg:
		m.applyResult(msg)
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.cancelInFlight()
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Submit) {
			return m, m.submit()
		}
		if key.Matches(msg, m.keys.Focus) {
			m.cycleFocus(msg.String() == "shift+tab")
			return m, nil
		}
		switch m.focus {
		case focusFilters:
			return m, m.updateFilters(msg)
		case focusTags:
			m.updateTags(msg)
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit() tea.Cmd {
	env, err := envelope.Parse(m.input.Value())
	token := m.seq.Next()
	m.cancelInFlight()
	if err != nil {
		m.logger.Debug("rejected input", zap.Error(err))
		m.errMsg = envelope.InvalidInputMessage
		m.response = nil
		m.inFlight = false
		return nil
	}
	m.errMsg = ""
	m.inFlight = true

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	submitter := m.submitter
	return func() tea.Msg {
		defer cancel()
		resp, err := submitter.Submit(ctx, env)
		return submitResultMsg{token: token, resp: resp, err: err}
	}
}

func (m *Model) applyResult(msg submitResultMsg) {
	if !m.seq.IsLatest(msg.token) {
		m.logger.Debug("discarding stale response", zap.Uint64("token", msg.token))
		return
	}
	m.inFlight = false
	m.cancel = nil
	if msg.err != nil {
		m.logger.Warn("submission failed", zap.Error(msg.err))
		m.errMsg = client.TransportErrorMessage
		m.response = nil
		return
	}
	m.errMsg = ""
	m.response = msg.resp
	m.showFilters = true
}

func (m *Model) cancelInFlight() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Model) cycleFocus(reverse bool) {
	areas := []focusArea{focusInput}
	if m.showFilters {
		areas = append(areas, focusFilters)
	}
	if m.config.Mode == model.ModeToggle && m.selector.Selected().Len() > 0 {
		areas = append(areas, focusTags)
	}
	idx := 0
	for i, a := range areas {
		if a == m.focus {
			idx = i
			break
		}
	}
	if reverse {
		idx = (idx - 1 + len(areas)) % len(areas)
	} else {
		idx = (idx + 1) % len(areas)
	}
	m.setFocus(areas[idx])
}

func (m *Model) setFocus(area focusArea) {
	m.focus = area
	m.keys.focus = area
	if area == focusInput {
		m.input.Focus()
		return
	}
	m.input.Blur()
	if area == focusFilters && m.config.Mode == model.ModeMulti {
		m.staged = m.selector.Selected()
	}
	if area == focusTags {
		m.tagCursor = clampInt(m.tagCursor, 0, m.selector.Selected().Len()-1)
	}
}

func (m *Model) updateFilters(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Back) {
		m.setFocus(focusInput)
		return nil
	}
	count := len(model.Categories())
	if m.config.Mode == model.ModeMulti {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.cursor = (m.cursor - 1 + count) % count
		case key.Matches(msg, m.keys.Down):
			m.cursor = (m.cursor + 1) % count
		case key.Matches(msg, m.keys.Check):
			m.stageToggle(model.Categories()[m.cursor])
		case key.Matches(msg, m.keys.Commit):
			m.apply(selection.Replace(m.staged.Labels()...))
		}
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Left):
		m.cursor = (m.cursor - 1 + count) % count
	case key.Matches(msg, m.keys.Right):
		m.cursor = (m.cursor + 1) % count
	case key.Matches(msg, m.keys.Toggle):
		m.apply(selection.Toggle(model.Categories()[m.cursor]))
	}
	return nil
}

func (m *Model) updateTags(msg tea.KeyMsg) {
	if key.Matches(msg, m.keys.Back) {
		m.setFocus(focusInput)
		return
	}
	labels := m.selector.Selected().Labels()
	if len(labels) == 0 {
		m.setFocus(focusInput)
		return
	}
	switch {
	case key.Matches(msg, m.keys.Left):
		m.tagCursor = clampInt(m.tagCursor-1, 0, len(labels)-1)
	case key.Matches(msg, m.keys.Right):
		m.tagCursor = clampInt(m.tagCursor+1, 0, len(labels)-1)
	case key.Matches(msg, m.keys.Remove):
		m.apply(selection.Remove(labels[clampInt(m.tagCursor, 0, len(labels)-1)]))
		remaining := m.selector.Selected().Len()
		if remaining == 0 {
			m.setFocus(focusInput)
			return
		}
		m.tagCursor = clampInt(m.tagCursor, 0, remaining-1)
	}
}

func (m *Model) stageToggle(c model.Category) {
	labels := m.staged.Labels()
	if m.staged.Has(c) {
		kept := labels[:0]
		for _, l := range labels {
			if l != c {
				kept = append(kept, l)
			}
		}
		m.staged = selection.NewSet(kept...)
		return
	}
	m.staged = selection.NewSet(append(labels, c)...)
}

func (m *Model) apply(ch selection.Change) {
	if err := m.selector.Apply(ch); err != nil {
		m.logger.Error("failed to apply selection change", zap.Stringer("kind", ch.Kind), zap.Error(err))
		return
	}
	m.logger.Debug("selection changed", zap.Stringer("kind", ch.Kind), zap.Int("selected", m.selector.Selected().Len()))
}

func contentWidth(width int) int {
	if width <= 0 {
		return 80
	}
	w := int(float64(width) * 0.70)
	if w < 40 {
		w = minInt(width, 40)
	}
	return w
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
