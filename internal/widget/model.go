// Package widget implements a form-participating autocomplete input as a
// Bubble Tea component.
//
// The widget owns three cooperating parts: the input controller (debounced
// queries, stale response handling), the suggestion store and the binding
// layer that keeps the form value, the accessibility attributes and the live
// status text consistent with what is on screen. All state changes happen in
// Update or in methods the host calls from its own Update.
package widget

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"autocomplete/internal/domain"
	"autocomplete/internal/eventbus"
	"autocomplete/internal/fetch"
	"autocomplete/internal/suggest"
)

const (
	// MinQueryLength is the number of characters needed before querying
	MinQueryLength = 2
	// DebounceDelay is the quiet period after the last edit before querying
	DebounceDelay = 300 * time.Millisecond
	// BlurGrace lets an in-flight option click run before the panel closes
	BlurGrace = 150 * time.Millisecond
)

// Panel and live region texts
const (
	LoadingMessage  = "Loading..."
	LiveLoading     = "Loading suggestions."
	NoResultsText   = "No results found"
	LiveNoResults   = "No results found."
	FetchErrorText  = "Failed to fetch results"
	ListboxLabel    = "Autocomplete suggestions"
	inputIDPrefix   = "autocomplete-input"
	listboxIDPrefix = "autocomplete-listbox"
	statusIDPrefix  = "autocomplete-status"
)

// PanelState is what the suggestion panel currently shows
type PanelState int

const (
	PanelNone PanelState = iota
	PanelLoading
	PanelResults
	PanelEmpty
	PanelError
)

func (p PanelState) String() string {
	switch p {
	case PanelLoading:
		return "loading"
	case PanelResults:
		return "results"
	case PanelEmpty:
		return "empty"
	case PanelError:
		return "error"
	default:
		return "none"
	}
}

// FocusTarget says where focus goes when the widget blurs
type FocusTarget int

const (
	// FocusElsewhere is any element outside the widget
	FocusElsewhere FocusTarget = iota
	// FocusPanel is an element inside the suggestion panel
	FocusPanel
)

// Model is one autocomplete instance
type Model struct {
	num       int
	name      string
	endpoint  string
	fields    domain.Fields
	inputID   string
	listboxID string
	statusID  string

	host    *AttrSet
	input   *AttrSet
	listbox *AttrSet
	status  *AttrSet

	text    textinput.Model
	spinner spinner.Model
	store   *suggest.Store
	styles  *Styles

	open    bool
	panel   PanelState
	message string
	live    string

	committed *domain.Suggestion
	bound     string

	focused   bool
	focusText string

	debounce timer
	grace    timer
	seq      uint64

	fetcher     fetch.Fetcher
	ctx         context.Context
	bus         eventbus.EventBus
	unsubscribe func()
	logger      *zap.Logger
	after       Scheduler
	width       int
}

// Option configures a Model
type Option func(*Model)

// WithFetcher sets the network collaborator
func WithFetcher(f fetch.Fetcher) Option {
	return func(m *Model) { m.fetcher = f }
}

// WithBus sets the page bus events are emitted on
func WithBus(b eventbus.EventBus) Option {
	return func(m *Model) { m.bus = b }
}

// WithLogger sets the diagnostic logger
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithIDs sets the generator used for accessible ids
func WithIDs(g IDGenerator) Option {
	return func(m *Model) { m.num = g.Next() }
}

// WithScheduler replaces tea.Tick for the debounce and blur timers
func WithScheduler(s Scheduler) Option {
	return func(m *Model) { m.after = s }
}

// WithContext sets the context fetches run under
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithCursorMode sets the text cursor mode
func WithCursorMode(mode cursor.Mode) Option {
	return func(m *Model) { m.text.Cursor.SetMode(mode) }
}

// WithWidth sets the rendered width of the field and panel
func WithWidth(w int) Option {
	return func(m *Model) { m.width = w }
}

// WithStyles overrides the default styles
func WithStyles(s *Styles) Option {
	return func(m *Model) { m.styles = s }
}

// New creates a widget from its host attributes
func New(attrs Attributes, opts ...Option) *Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Placeholder = attrs.Get("placeholder")

	m := &Model{
		name:     attrs.Get("name"),
		endpoint: attrs.Get("endpoint"),
		fields:   domain.DefaultFields(),
		text:     ti,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		store:    suggest.NewStore(suggest.PanelHeight),
		styles:   NewStyles(),
		ctx:      context.Background(),
		logger:   zap.NewNop(),
		after:    tea.Tick,
		width:    40,
	}
	if f := attrs.Get("data-value-field"); f != "" {
		m.fields.Value = f
	}
	if f := attrs.Get("data-label-field"); f != "" {
		m.fields.Label = f
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.num == 0 {
		m.num = defaultIDs.Next()
	}
	if m.fetcher == nil {
		m.fetcher = fetch.New(fetch.WithLogger(m.logger))
	}
	if m.bus == nil {
		m.bus = eventbus.New()
	}
	m.text.Width = m.width - 2

	m.inputID = fmt.Sprintf("%s-%d", inputIDPrefix, m.num)
	m.listboxID = fmt.Sprintf("%s-%d", listboxIDPrefix, m.num)
	m.statusID = fmt.Sprintf("%s-%d", statusIDPrefix, m.num)
	m.setupAccessibility(attrs)

	if v := attrs.Get("value"); v != "" {
		m.SetValue(v, attrs.Get("data-display-value"))
	}
	return m
}

// Mount subscribes to page-wide pointer events so clicks outside the widget
// dismiss the panel. Unmount releases the subscription.
func (m *Model) Mount() {
	if m.unsubscribe != nil {
		return
	}
	m.unsubscribe = m.bus.Subscribe(eventbus.EventPointerDown, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.PointerDownEvent); ok && ev.Target != m.inputID {
			m.dismiss()
		}
	})
}

// Unmount releases the page subscription and abandons pending work
func (m *Model) Unmount() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.grace.cancel()
	m.dismiss()
}

// Mounted reports whether the page subscription is held
func (m *Model) Mounted() bool {
	return m.unsubscribe != nil
}

// Init implements the Bubble Tea component contract
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update routes the widget's own messages; messages of other instances are ignored
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd, _ := m.HandleKey(msg)
		return cmd

	case debounceMsg:
		if msg.id != m.num || !m.debounce.fire(msg.gen) {
			return nil
		}
		return m.issueQuery(m.text.Value())

	case resultsMsg:
		if msg.id != m.num {
			return nil
		}
		m.applyResults(msg)
		return nil

	case graceMsg:
		if msg.id != m.num || !m.grace.fire(msg.gen) || m.focused {
			return nil
		}
		m.closeAfterBlur()
		return nil

	case spinner.TickMsg:
		if m.panel != PanelLoading || !m.open {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	default:
		before := m.text.Value()
		var cmd tea.Cmd
		m.text, cmd = m.text.Update(msg)
		if after := m.text.Value(); after != before {
			return tea.Batch(cmd, m.changed(after))
		}
		return cmd
	}
}

// ID is the accessible id of the internal field; pointer events target it
func (m *Model) ID() string { return m.inputID }

// ListboxID is the accessible id of the suggestion list
func (m *Model) ListboxID() string { return m.listboxID }

// StatusID is the accessible id of the live status region
func (m *Model) StatusID() string { return m.statusID }

// Name is the form field name
func (m *Model) Name() string { return m.name }

// Endpoint is the configured query endpoint
func (m *Model) Endpoint() string { return m.endpoint }

// Fields are the record keys used for value and label
func (m *Model) Fields() domain.Fields { return m.fields }

// FormValue is the value submitted with the enclosing form
func (m *Model) FormValue() string { return m.bound }

// Text is the visible text of the field
func (m *Model) Text() string { return m.text.Value() }

// Focused reports whether the internal field has focus
func (m *Model) Focused() bool { return m.focused }

// Open reports whether the suggestion panel is visible
func (m *Model) Open() bool { return m.open }

// Panel is what the panel shows
func (m *Model) Panel() PanelState { return m.panel }

// PanelMessage is the loading, empty or error text of the panel
func (m *Model) PanelMessage() string { return m.message }

// LiveStatus is the text of the live status region
func (m *Model) LiveStatus() string { return m.live }

// Highlight is the highlighted option index, -1 for none
func (m *Model) Highlight() int { return m.store.Highlight() }

// Results returns the current result set
func (m *Model) Results() []domain.Suggestion { return m.store.Results() }

// Rows returns the option rows of the current result set
func (m *Model) Rows() []suggest.Row {
	return suggest.Rows(m.listboxID, m.store.Results(), m.store.Highlight())
}

// Committed returns the committed suggestion
func (m *Model) Committed() (domain.Suggestion, bool) {
	if m.committed == nil {
		return domain.Suggestion{}, false
	}
	return *m.committed, true
}

// HostAttrs returns a copy of the component element attributes
func (m *Model) HostAttrs() *AttrSet { return m.host.Clone() }

// InputAttrs returns a copy of the internal field attributes
func (m *Model) InputAttrs() *AttrSet { return m.input.Clone() }

// ListboxAttrs returns a copy of the listbox attributes
func (m *Model) ListboxAttrs() *AttrSet { return m.listbox.Clone() }

// StatusAttrs returns a copy of the live region attributes
func (m *Model) StatusAttrs() *AttrSet { return m.status.Clone() }

// SetWidth resizes the field and panel
func (m *Model) SetWidth(w int) {
	if w < 10 {
		w = 10
	}
	m.width = w
	m.text.Width = w - 2
}
