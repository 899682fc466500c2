package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/bfhl/internal/model"
	"github.com/verte-zerg/bfhl/internal/render"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	resultStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	buttonStyle  = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true)
	activeButton = buttonStyle.
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveButton = buttonStyle.
			Foreground(lipgloss.Color("#B0B0B0")).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Background(lipgloss.Color("#5A4A8C")).
			Padding(0, 1)
	cursorTagStyle = tagStyle.Background(lipgloss.Color("#C89A3A"))
	panelStyle     = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{titleStyle.Render("BFHL token classifier"), m.input.View()}
	if m.inFlight {
		sections = append(sections, mutedStyle.Render("Submitting..."))
	}
	if m.errMsg != "" {
		sections = append(sections, errorStyle.Render(m.errMsg))
	}
	if m.showFilters {
		sections = append(sections, m.renderFilters())
	}
	if tags := m.renderTags(); tags != "" {
		sections = append(sections, tags)
	}
	if resp := m.renderResponse(); resp != "" {
		sections = append(sections, resp)
	}
	sections = append(sections, m.help.View(m.keys))

	content := lipgloss.NewStyle().Width(contentWidth(m.width)).Render(strings.Join(sections, "\n\n"))
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderFilters() string {
	selected := m.selector.Selected()
	focused := m.focus == focusFilters
	if m.config.Mode == model.ModeMulti {
		shown := selected
		if focused {
			shown = m.staged
		}
		lines := []string{labelStyle.Render("Multi Filter:")}
		for i, c := range model.Categories() {
			check := "[ ]"
			if shown.Has(c) {
				check = "[x]"
			}
			prefix := "  "
			if focused && i == m.cursor {
				prefix = "> "
			}
			lines = append(lines, prefix+check+" "+string(c))
		}
		return strings.Join(lines, "\n")
	}

	buttons := make([]string, 0, len(model.Categories()))
	for i, c := range model.Categories() {
		style := inactiveButton
		if selected.Has(c) {
			style = activeButton
		}
		if focused && i == m.cursor {
			style = style.Underline(true)
		}
		buttons = append(buttons, style.Render(string(c)))
	}
	return labelStyle.Render("Select Filters:") + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

func (m *Model) renderTags() string {
	if m.config.Mode != model.ModeToggle {
		return ""
	}
	labels := m.selector.Selected().Labels()
	if len(labels) == 0 {
		return ""
	}
	tags := make([]string, 0, len(labels))
	for i, l := range labels {
		style := tagStyle
		if m.focus == focusTags && i == m.tagCursor {
			style = cursorTagStyle
		}
		tags = append(tags, style.Render(string(l)+" ×"))
	}
	return labelStyle.Render("Selected Filters:") + "\n" + strings.Join(tags, " ")
}

func (m *Model) renderResponse() string {
	if m.response == nil {
		return ""
	}
	var body string
	if m.config.Mode == model.ModeMulti {
		block, err := render.Block(m.response, m.selector.Selected())
		if err != nil {
			body = errorStyle.Render(err.Error())
		} else {
			body = block
		}
	} else {
		body = strings.Join(render.Lines(m.response, m.selector.Selected()), "\n")
	}
	return labelStyle.Render("Filtered Response") + "\n" + panelStyle.Render(resultStyle.Render(body))
}
