package widget

import (
	"fmt"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"autocomplete/internal/domain"
	"autocomplete/internal/eventbus"
	"autocomplete/internal/suggest"
)

// debounceMsg fires when the quiet period after an edit has elapsed
type debounceMsg struct {
	id  int
	gen int
}

// graceMsg fires when the blur grace delay has elapsed
type graceMsg struct {
	id  int
	gen int
}

// resultsMsg carries the outcome of query seq
type resultsMsg struct {
	id    int
	seq   uint64
	query string
	items []domain.Item
	err   error
}

// changed reacts to a new text value of the field
func (m *Model) changed(value string) tea.Cmd {
	m.emit(eventbus.InputEvent{Source: m.name, Value: value})

	m.debounce.cancel()
	if m.committed != nil && value != m.committed.Label {
		m.decommit()
	}

	if utf8.RuneCountInString(value) < MinQueryLength {
		m.supersede()
		m.store.Clear()
		m.panel = PanelNone
		m.setOpen(false)
		return nil
	}

	return m.debounce.schedule(m.after, DebounceDelay, func(gen int) tea.Msg {
		return debounceMsg{id: m.num, gen: gen}
	})
}

// issueQuery starts a fetch for query. The loading state is shown before the
// command runs; only the response carrying the latest sequence is applied.
func (m *Model) issueQuery(query string) tea.Cmd {
	if m.endpoint == "" {
		m.logger.Error("no endpoint attribute specified", zap.String("name", m.name))
		return nil
	}

	m.debounce.cancel()
	m.seq++
	seq := m.seq

	m.panel = PanelLoading
	m.message = LoadingMessage
	m.setLive(LiveLoading, false)
	m.store.ResetHighlight()
	m.setOpen(true)

	ctx, fetcher, endpoint, id := m.ctx, m.fetcher, m.endpoint, m.num
	m.logger.Debug("issuing query",
		zap.String("name", m.name),
		zap.String("query", query),
		zap.Uint64("seq", seq))

	fetchCmd := func() tea.Msg {
		items, err := fetcher.Fetch(ctx, endpoint, query)
		return resultsMsg{id: id, seq: seq, query: query, items: items, err: err}
	}
	return tea.Batch(fetchCmd, m.spinner.Tick)
}

// applyResults replaces the result set with a completed query's outcome
func (m *Model) applyResults(msg resultsMsg) {
	if msg.seq != m.seq {
		m.logger.Debug("discarding stale response",
			zap.String("name", m.name),
			zap.String("query", msg.query),
			zap.Uint64("seq", msg.seq),
			zap.Uint64("latest", m.seq))
		return
	}

	if msg.err != nil {
		m.logger.Warn("fetch failed",
			zap.String("name", m.name),
			zap.String("query", msg.query),
			zap.Error(msg.err))
		m.panel = PanelError
		m.message = FetchErrorText
		m.setLive(FetchErrorText, true)
		m.setOpen(true)
		return
	}

	m.store.Replace(suggest.NormalizeAll(msg.items, m.fields))
	m.syncActiveDescendant()

	if n := m.store.Len(); n == 0 {
		m.panel = PanelEmpty
		m.message = NoResultsText
		m.setLive(LiveNoResults, false)
	} else {
		m.panel = PanelResults
		m.message = ""
		m.setLive(CountText(n), false)
	}
	m.setOpen(true)
}

// supersede invalidates the in-flight query without aborting it
func (m *Model) supersede() {
	m.seq++
}

// CountText announces how many suggestions are available
func CountText(n int) string {
	if n == 1 {
		return "1 suggestion available"
	}
	return fmt.Sprintf("%d suggestions available", n)
}
