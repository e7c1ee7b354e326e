package widget

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"autocomplete/internal/domain"
	"autocomplete/internal/eventbus"
	"autocomplete/internal/suggest"
)

type fakeFetcher struct {
	mu        sync.Mutex
	queries   []string
	endpoints []string
	responses map[string]string
	err       error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{responses: map[string]string{
		"ab":  `{"results":["apple","apricot"]}`,
		"ap":  `{"results":["apple","apricot"]}`,
		"apr": `{"results":["apricot"]}`,
	}}
}

func (f *fakeFetcher) Fetch(_ context.Context, endpoint, query string) ([]domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	f.endpoints = append(f.endpoints, endpoint)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.responses[query]
	if !ok {
		body = `{"results":[]}`
	}
	return suggest.ParseResults([]byte(body)), nil
}

func (f *fakeFetcher) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

type harness struct {
	t       *testing.T
	w       *Model
	bus     eventbus.EventBus
	fetcher *fakeFetcher
	events  []eventbus.DomainEvent
	delays  []time.Duration
}

func fruitAttrs() Attributes {
	return Attributes{"name": "fruit", "endpoint": "/autocomplete/fruits/"}
}

func newHarness(t *testing.T, attrs Attributes, opts ...Option) *harness {
	t.Helper()
	h := &harness{t: t, bus: eventbus.New(), fetcher: newFakeFetcher()}
	h.bus.SubscribeAll(func(e eventbus.DomainEvent) {
		h.events = append(h.events, e)
	})
	sched := func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
		h.delays = append(h.delays, d)
		return func() tea.Msg { return fn(time.Now()) }
	}
	base := []Option{
		WithFetcher(h.fetcher),
		WithBus(h.bus),
		WithIDs(&Counter{}),
		WithScheduler(sched),
		WithCursorMode(cursor.CursorStatic),
	}
	h.w = New(attrs, append(base, opts...)...)
	return h
}

// focused returns a harness whose widget already has focus, with the event log cleared
func focused(t *testing.T, attrs Attributes, opts ...Option) *harness {
	h := newHarness(t, attrs, opts...)
	h.w.Focus()
	h.events = nil
	return h
}

// drain executes cmd and flattens batches into their messages
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// run feeds cmd's messages back into the widget until nothing is left.
// Spinner frames are dropped so the loop terminates.
func (h *harness) run(cmd tea.Cmd) {
	queue := drain(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		if _, ok := msg.(spinner.TickMsg); ok {
			continue
		}
		queue = append(queue, drain(h.w.Update(msg))...)
	}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// typeText types s one key at a time, letting every timer and fetch settle
func (h *harness) typeText(s string) {
	for _, r := range s {
		cmd, _ := h.w.HandleKey(runeKey(r))
		h.run(cmd)
	}
}

// typeQuick types s without running any command, returning them in order
func (h *harness) typeQuick(s string) []tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range s {
		cmd, _ := h.w.HandleKey(runeKey(r))
		cmds = append(cmds, cmd)
	}
	return cmds
}

func (h *harness) press(k tea.KeyType) bool {
	cmd, consumed := h.w.HandleKey(tea.KeyMsg{Type: k})
	h.run(cmd)
	return consumed
}

func (h *harness) eventTypes() []eventbus.EventType {
	out := make([]eventbus.EventType, len(h.events))
	for i, e := range h.events {
		out[i] = e.Type()
	}
	return out
}

func (h *harness) selects() []eventbus.SelectEvent {
	var out []eventbus.SelectEvent
	for _, e := range h.events {
		if s, ok := e.(eventbus.SelectEvent); ok {
			out = append(out, s)
		}
	}
	return out
}

func labels(results []domain.Suggestion) []string {
	out := make([]string, len(results))
	for i, s := range results {
		out[i] = s.Label
	}
	return out
}

func resultsOf(msgs []tea.Msg) []resultsMsg {
	var out []resultsMsg
	for _, msg := range msgs {
		if r, ok := msg.(resultsMsg); ok {
			out = append(out, r)
		}
	}
	return out
}

// debounceOf runs cmd and returns the debounce tick it produced
func debounceOf(t *testing.T, cmd tea.Cmd) debounceMsg {
	t.Helper()
	for _, msg := range drain(cmd) {
		if d, ok := msg.(debounceMsg); ok {
			return d
		}
	}
	t.Fatal("no debounce tick scheduled")
	return debounceMsg{}
}
