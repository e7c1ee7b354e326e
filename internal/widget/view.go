package widget

import (
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles contains the style definitions of a widget
type Styles struct {
	Field        lipgloss.Style
	FieldFocused lipgloss.Style
	Panel        lipgloss.Style
	Option       lipgloss.Style
	Highlight    lipgloss.Style
	Loading      lipgloss.Style
	Empty        lipgloss.Style
	Error        lipgloss.Style
	Status       lipgloss.Style
	Scroll       lipgloss.Style
}

// NewStyles creates a Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Field:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		FieldFocused: lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Bold(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")),
		Option:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Background(lipgloss.Color("238")).Bold(true),
		Loading:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),  // gray
		Empty:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),  // yellow
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),  // red
		Status:    lipgloss.NewStyle().Faint(true),
		Scroll:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	}
}

// HitKind classifies a line of the rendered widget
type HitKind int

const (
	HitNone HitKind = iota
	HitInput
	HitPanel
	HitOption
)

// Hit is the result of HitTest
type Hit struct {
	Kind  HitKind
	Index int // option index for HitOption
}

// View renders the field line and, when open, the panel below it
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.fieldView())
	if m.open {
		b.WriteString("\n")
		b.WriteString(m.panelView())
	}
	return b.String()
}

// StatusView renders the live status region
func (m *Model) StatusView() string {
	if m.live == "" {
		return ""
	}
	if m.panel == PanelError {
		return m.styles.Error.Render(m.live)
	}
	return m.styles.Status.Render(m.live)
}

func (m *Model) fieldView() string {
	marker := "  "
	style := m.styles.Field
	if m.focused {
		marker = "> "
		style = m.styles.FieldFocused
	}
	return style.Render(marker) + m.text.View()
}

func (m *Model) panelView() string {
	inner := m.width - 2
	var lines []string

	switch m.panel {
	case PanelLoading:
		lines = append(lines, m.styles.Loading.Render(m.spinner.View()+" "+m.message))
	case PanelEmpty:
		lines = append(lines, m.styles.Empty.Render(m.message))
	case PanelError:
		lines = append(lines, m.styles.Error.Render(m.message))
	case PanelResults:
		rows := m.Rows()
		start, end := m.store.Window()
		for _, row := range rows[start:end] {
			label := truncate(html.UnescapeString(row.Label), inner)
			if row.Highlighted {
				lines = append(lines, m.styles.Highlight.Width(inner).Render(label))
			} else {
				lines = append(lines, m.styles.Option.Render(label))
			}
		}
		if hidden := len(rows) - (end - start); hidden > 0 {
			lines = append(lines, m.styles.Scroll.Render(scrollHint(start, end, len(rows))))
		}
	default:
		lines = append(lines, "")
	}

	return m.styles.Panel.Width(inner).Render(strings.Join(lines, "\n"))
}

// HitTest maps a line offset relative to the top of View to what it shows
func (m *Model) HitTest(line int) Hit {
	if line == 0 {
		return Hit{Kind: HitInput}
	}
	if !m.open || line < 0 {
		return Hit{Kind: HitNone}
	}
	panelLine := line - 1
	if panelLine >= m.panelHeight() {
		return Hit{Kind: HitNone}
	}
	if m.panel == PanelResults {
		start, end := m.store.Window()
		row := panelLine - 1 // top border
		if row >= 0 && row < end-start {
			return Hit{Kind: HitOption, Index: start + row}
		}
	}
	return Hit{Kind: HitPanel}
}

// Height returns the number of lines View renders
func (m *Model) Height() int {
	if !m.open {
		return 1
	}
	return 1 + m.panelHeight()
}

func (m *Model) panelHeight() int {
	content := 1
	if m.panel == PanelResults {
		start, end := m.store.Window()
		content = end - start
		if end-start < m.store.Len() {
			content++
		}
	}
	return content + 2 // borders
}

func scrollHint(start, end, total int) string {
	var parts []string
	if start > 0 {
		parts = append(parts, "↑ more")
	}
	if end < total {
		parts = append(parts, "↓ more")
	}
	return strings.Join(parts, "  ")
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
