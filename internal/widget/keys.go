package widget

import (
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"autocomplete/internal/eventbus"
)

// keyAction is the transition a key triggers in the current state
type keyAction int

const (
	actNone keyAction = iota
	actQuery
	actNext
	actPrev
	actCommit
	actDismiss
	actTabOut
	actNoEndpoint
)

// consumes reports whether the default handling of the key is suppressed.
// Tab closes the panel but must still move focus.
func (a keyAction) consumes() bool {
	return a != actNone && a != actTabOut && a != actNoEndpoint
}

func (m *Model) keyAction(key string) keyAction {
	listing := m.open && m.panel == PanelResults && m.store.Len() > 0

	switch key {
	case "down":
		if !m.open {
			if utf8.RuneCountInString(m.text.Value()) < MinQueryLength {
				return actNone
			}
			if m.endpoint == "" {
				return actNoEndpoint
			}
			return actQuery
		}
		if listing {
			return actNext
		}
	case "up":
		if listing {
			return actPrev
		}
	case "enter":
		if listing && m.store.Highlight() >= 0 {
			return actCommit
		}
	case "esc":
		if m.open {
			return actDismiss
		}
	case "tab", "shift+tab":
		if m.open {
			return actTabOut
		}
	}
	return actNone
}

// HandleKey runs the keyboard state machine for a key pressed in the field.
// consumed is true exactly when the key caused a transition that suppresses
// its default handling; the host must not act on consumed keys.
func (m *Model) HandleKey(msg tea.KeyMsg) (cmd tea.Cmd, consumed bool) {
	if !m.focused {
		return nil, false
	}

	act := m.keyAction(msg.String())
	consumed = act.consumes()
	m.emit(eventbus.KeyDownEvent{Source: m.name, Key: msg.String(), DefaultPrevented: consumed})

	switch act {
	case actQuery:
		return m.issueQuery(m.text.Value()), true
	case actNext:
		m.store.Next()
		m.syncActiveDescendant()
		return nil, true
	case actPrev:
		m.store.Prev()
		m.syncActiveDescendant()
		return nil, true
	case actCommit:
		s, _ := m.store.Highlighted()
		m.commit(s)
		return nil, true
	case actDismiss:
		m.dismiss()
		return m.text.Focus(), true
	case actTabOut:
		m.dismiss()
		return nil, false
	case actNoEndpoint:
		// logs the missing endpoint; the key still reaches the field
		m.issueQuery(m.text.Value())
	}

	// Not handled by the state machine: it is an edit for the text field
	before := m.text.Value()
	var textCmd tea.Cmd
	m.text, textCmd = m.text.Update(msg)
	if after := m.text.Value(); after != before {
		return tea.Batch(textCmd, m.changed(after)), false
	}
	return textCmd, false
}
