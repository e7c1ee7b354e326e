package ui

import (
	"fmt"
	"strings"
	"time"

	"autocomplete/internal/eventbus"
)

const eventLogLimit = 500

// EventLog keeps the most recent page events as display lines
type EventLog struct {
	lines []string
	now   func() time.Time
}

// NewEventLog creates an empty log
func NewEventLog() *EventLog {
	return &EventLog{now: time.Now}
}

// Record appends a line for e, dropping the oldest beyond the limit
func (l *EventLog) Record(e eventbus.DomainEvent) {
	line := l.now().Format("15:04:05.000") + " " + FormatEvent(e)
	l.lines = append(l.lines, line)
	if over := len(l.lines) - eventLogLimit; over > 0 {
		l.lines = append([]string(nil), l.lines[over:]...)
	}
}

// Recent returns up to n of the newest lines, oldest first
func (l *EventLog) Recent(n int) []string {
	if n >= len(l.lines) {
		return append([]string(nil), l.lines...)
	}
	return append([]string(nil), l.lines[len(l.lines)-n:]...)
}

// Len returns the number of retained lines
func (l *EventLog) Len() int {
	return len(l.lines)
}

// String returns the whole log, one event per line
func (l *EventLog) String() string {
	if len(l.lines) == 0 {
		return "No events yet\n"
	}
	return strings.Join(l.lines, "\n") + "\n"
}

// FormatEvent renders an event on one line
func FormatEvent(e eventbus.DomainEvent) string {
	switch ev := e.(type) {
	case eventbus.SelectEvent:
		return fmt.Sprintf("%s %s value=%q label=%q", ev.Type(), ev.Source, ev.Value, ev.Label)
	case eventbus.InputEvent:
		return fmt.Sprintf("%s %s value=%q", ev.Type(), ev.Source, ev.Value)
	case eventbus.KeyDownEvent:
		s := fmt.Sprintf("%s %s key=%s", ev.Type(), ev.Source, ev.Key)
		if ev.DefaultPrevented {
			s += " prevented"
		}
		return s
	case eventbus.ChangeEvent:
		return fmt.Sprintf("%s %s value=%q", ev.Type(), ev.Source, ev.Value)
	case eventbus.FocusEvent:
		return fmt.Sprintf("%s %s", ev.Type(), ev.Source)
	case eventbus.BlurEvent:
		return fmt.Sprintf("%s %s", ev.Type(), ev.Source)
	case eventbus.PointerDownEvent:
		return fmt.Sprintf("%s target=%s", ev.Type(), ev.Target)
	case eventbus.SubmitEvent:
		return fmt.Sprintf("%s %s", ev.Type(), encodeValues(ev.Values))
	default:
		return string(e.Type())
	}
}
