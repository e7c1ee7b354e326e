package widget

import (
	tea "github.com/charmbracelet/bubbletea"

	"autocomplete/internal/domain"
	"autocomplete/internal/eventbus"
	"autocomplete/internal/suggest"
)

// structural attributes mirrored from the field onto the host element
var mirrored = []string{"role", "aria-expanded", "aria-controls", "aria-haspopup"}

func (m *Model) setupAccessibility(attrs Attributes) {
	m.host = newAttrSet()
	for _, key := range []string{"name", "endpoint", "data-value-field", "data-label-field",
		"aria-label", "aria-labelledby", "aria-describedby"} {
		m.host.SetNonEmpty(key, attrs.Get(key))
	}

	m.input = newAttrSet()
	m.input.Set("id", m.inputID)
	m.input.Set("role", "combobox")
	m.input.Set("aria-autocomplete", "list")
	m.input.Set("aria-expanded", "false")
	m.input.Set("aria-controls", m.listboxID)
	m.input.Set("aria-haspopup", "listbox")
	m.input.SetNonEmpty("aria-label", attrs.Get("aria-label"))
	m.input.SetNonEmpty("aria-labelledby", attrs.Get("aria-labelledby"))
	m.input.Set("aria-describedby", joinIDs(attrs.Get("aria-describedby"), m.statusID))

	m.listbox = newAttrSet()
	m.listbox.Set("id", m.listboxID)
	m.listbox.Set("role", "listbox")
	if by := attrs.Get("aria-labelledby"); by != "" {
		m.listbox.Set("aria-labelledby", by)
	} else {
		m.listbox.Set("aria-label", ListboxLabel)
	}

	m.status = newAttrSet()
	m.status.Set("id", m.statusID)
	m.status.Set("role", "status")
	m.status.Set("aria-live", "polite")
	m.status.SetNonEmpty("aria-describedby", attrs.Get("aria-describedby"))

	m.mirror()
}

func (m *Model) mirror() {
	for _, key := range mirrored {
		if v, ok := m.input.Get(key); ok {
			m.host.Set(key, v)
		}
	}
}

// setOpen is the only place visibility changes, so aria-expanded never drifts
func (m *Model) setOpen(open bool) {
	m.open = open
	if open {
		m.input.Set("aria-expanded", "true")
	} else {
		m.input.Set("aria-expanded", "false")
		m.store.ResetHighlight()
	}
	m.syncActiveDescendant()
	m.mirror()
}

// syncActiveDescendant points the field at the highlighted option, or removes the pointer
func (m *Model) syncActiveDescendant() {
	if h := m.store.Highlight(); h >= 0 && m.open {
		m.input.Set("aria-activedescendant", suggest.OptionID(m.listboxID, h))
		return
	}
	m.input.Remove("aria-activedescendant")
}

func (m *Model) setLive(text string, alert bool) {
	m.live = text
	if alert {
		m.status.Set("role", "alert")
		m.status.Set("aria-live", "assertive")
	} else {
		m.status.Set("role", "status")
		m.status.Set("aria-live", "polite")
	}
}

// dismiss closes the panel and abandons any scheduled or in-flight query
// A loading panel is reset since its response will be dropped.
func (m *Model) dismiss() {
	m.debounce.cancel()
	m.supersede()
	if m.panel == PanelLoading {
		m.panel = PanelNone
		m.message = ""
		m.setLive("", false)
	}
	m.setOpen(false)
}

// commit is the single committal path for clicks and Enter
func (m *Model) commit(s domain.Suggestion) {
	m.text.SetValue(s.Label)
	m.text.CursorEnd()
	m.committed = &s
	m.bound = s.Value
	m.dismiss()
	m.panel = PanelNone
	m.emit(eventbus.SelectEvent{Source: m.name, Value: s.Value, Label: s.Label, Item: s.Item})
}

func (m *Model) decommit() {
	m.committed = nil
	m.bound = ""
}

// Select commits option i, as a click on it does
func (m *Model) Select(i int) tea.Cmd {
	s, ok := m.store.At(i)
	if !ok || !m.open || m.panel != PanelResults {
		return nil
	}
	m.commit(s)
	return nil
}

// HoverOption highlights option i under the pointer
func (m *Model) HoverOption(i int) {
	if !m.open || m.panel != PanelResults {
		return
	}
	if m.store.SetHighlight(i) {
		m.syncActiveDescendant()
	}
}

// Focus gives the field focus and reopens the panel when the text already
// meets the threshold and there is something to show
func (m *Model) Focus() tea.Cmd {
	if m.focused {
		return nil
	}
	m.focused = true
	m.grace.cancel()
	m.focusText = m.text.Value()
	cmd := m.text.Focus()
	m.emit(eventbus.FocusEvent{Source: m.name})

	if len([]rune(m.text.Value())) >= MinQueryLength && m.panel != PanelNone {
		m.setOpen(true)
	}
	return cmd
}

// Blur removes focus. Focus moving into the panel suppresses the close;
// otherwise the panel closes after the grace delay and uncommitted text is cleared.
func (m *Model) Blur(next FocusTarget) tea.Cmd {
	if !m.focused {
		return nil
	}
	m.focused = false
	m.text.Blur()
	m.emit(eventbus.BlurEvent{Source: m.name})
	if v := m.text.Value(); v != m.focusText {
		m.focusText = v
		m.emit(eventbus.ChangeEvent{Source: m.name, Value: v})
	}

	if next == FocusPanel {
		return nil
	}
	return m.grace.schedule(m.after, BlurGrace, func(gen int) tea.Msg {
		return graceMsg{id: m.num, gen: gen}
	})
}

func (m *Model) closeAfterBlur() {
	m.dismiss()
	if m.committed == nil {
		m.text.SetValue("")
		m.bound = ""
		m.store.Clear()
		m.panel = PanelNone
	}
}

// SetValue commits value with its display label without a query.
// An empty value clears the field.
func (m *Model) SetValue(value, label string) {
	if value == "" {
		m.Reset()
		return
	}
	if label == "" {
		label = value
	}
	s := domain.Suggestion{
		Value: value,
		Label: label,
		Item:  domain.Item{Kind: domain.KindText, Text: label},
	}
	m.committed = &s
	m.bound = value
	m.text.SetValue(label)
	m.text.CursorEnd()
	m.focusText = label
}

// Reset clears text, commitment, results and any pending work
func (m *Model) Reset() {
	m.committed = nil
	m.bound = ""
	m.text.SetValue("")
	m.focusText = ""
	m.store.Clear()
	m.panel = PanelNone
	m.message = ""
	m.live = ""
	m.dismiss()
}

func (m *Model) emit(e eventbus.DomainEvent) {
	m.bus.Publish(e)
}
