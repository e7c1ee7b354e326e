package widget

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Scheduler arranges for fn's message to be delivered after d
type Scheduler func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// timer is a cancelable deferred callback. Each schedule bumps the generation,
// so a tick carrying an older generation is recognised as canceled on arrival.
type timer struct {
	gen     int
	pending bool
}

func (t *timer) schedule(after Scheduler, d time.Duration, msg func(gen int) tea.Msg) tea.Cmd {
	t.gen++
	t.pending = true
	gen := t.gen
	return after(d, func(time.Time) tea.Msg { return msg(gen) })
}

func (t *timer) cancel() {
	if t.pending {
		t.gen++
		t.pending = false
	}
}

// fire reports whether a tick of generation gen is still live, consuming it
func (t *timer) fire(gen int) bool {
	if !t.pending || gen != t.gen {
		return false
	}
	t.pending = false
	return true
}
