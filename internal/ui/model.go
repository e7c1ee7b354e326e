package ui

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"autocomplete/internal/config"
	"autocomplete/internal/eventbus"
	"autocomplete/internal/fetch"
	"autocomplete/internal/ui/views"
	"autocomplete/internal/widget"
)

// recentEvents is how many event log lines the form shows under the fields
const recentEvents = 4

// Model represents the form state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	logger *zap.Logger

	fields []*widget.Model
	labels []string
	focus  int

	width       int
	height      int
	help        help.Model
	keys        keyMap
	inPagerMode bool // tracks if we're currently in pager mode

	renderer *views.Renderer
	layout   views.Layout
	events   *EventLog

	submitted     url.Values
	statusMessage string
	statusError   bool
	unsubscribe   func()
	cancel        context.CancelFunc

	// Program reference for terminal management
	program *tea.Program
	pager   *Pager
}

// NewModel creates the form for cfg. opts are applied to every field after
// the defaults.
func NewModel(bus eventbus.EventBus, cfg *config.Config, logger *zap.Logger, opts ...widget.Option) (*Model, error) {
	if len(cfg.Fields) == 0 {
		return nil, errors.New("no fields configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fetchOpts := []fetch.Option{fetch.WithLogger(logger)}
	if cfg.BaseURL != "" {
		base, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base_url: %w", err)
		}
		fetchOpts = append(fetchOpts, fetch.WithBaseURL(base))
	}
	client := fetch.New(fetchOpts...)
	ctx, cancel := context.WithCancel(context.Background())

	m := &Model{
		bus:      bus,
		config:   cfg,
		logger:   logger,
		help:     help.New(),
		keys:     defaultKeyMap(),
		renderer: views.NewRenderer(),
		events:   NewEventLog(),
		cancel:   cancel,
	}
	m.unsubscribe = bus.SubscribeAll(m.events.Record)

	width := cfg.UISettings.Width
	if width <= 0 {
		width = 40
	}
	ids := &widget.Counter{}
	for _, f := range cfg.Fields {
		base := []widget.Option{
			widget.WithFetcher(client),
			widget.WithBus(bus),
			widget.WithLogger(logger.With(zap.String("field", f.Name))),
			widget.WithIDs(ids),
			widget.WithWidth(width),
			widget.WithContext(ctx),
		}
		w := widget.New(widget.Attributes(f.Attributes()), append(base, opts...)...)
		w.Mount()
		logger.Debug("field mounted",
			zap.String("name", w.Name()),
			zap.String("endpoint", w.Endpoint()),
			zap.String("id", w.ID()))
		m.fields = append(m.fields, w)

		label := f.Label
		if label == "" {
			label = f.Name
		}
		m.labels = append(m.labels, label)
	}

	return m, nil
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPager(p)
}

// Init focuses the first field
func (m *Model) Init() tea.Cmd {
	return m.setFocus(0)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		width := m.config.UISettings.Width
		if width <= 0 || width > msg.Width-4 {
			width = msg.Width - 4
		}
		for _, f := range m.fields {
			f.SetWidth(width)
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case pagerMsg:
		if msg.err != nil {
			m.logger.Error("pager failed", zap.Error(msg.err))
			m.setStatus(fmt.Sprintf("Pager failed: %v", msg.err), true)
		}
		return m, nil
	}

	// Timer ticks, fetch results and cursor blinks: every field picks out its own
	var cmds []tea.Cmd
	for _, f := range m.fields {
		cmds = append(cmds, f.Update(msg))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		return m.quit()
	}
	if m.inPagerMode {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Events):
		return m.showPager(m.events.String())
	case key.Matches(msg, m.keys.Help):
		return m.showPager(renderHelpContent())
	case key.Matches(msg, m.keys.Reset):
		m.reset()
		return nil
	}

	cmd, consumed := m.fields[m.focus].HandleKey(msg)
	if consumed {
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		return tea.Batch(cmd, m.setFocus((m.focus+1)%len(m.fields)))
	case key.Matches(msg, m.keys.Prev):
		return tea.Batch(cmd, m.setFocus((m.focus-1+len(m.fields))%len(m.fields)))
	case key.Matches(msg, m.keys.Submit):
		m.submit()
	}
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.inPagerMode {
		return nil
	}
	i, hit := m.hitTest(msg.Y)

	switch {
	case msg.Action == tea.MouseActionMotion:
		if hit.Kind == widget.HitOption {
			m.fields[i].HoverOption(hit.Index)
		}

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		target := ""
		if hit.Kind != widget.HitNone {
			target = m.fields[i].ID()
		}
		m.bus.Publish(eventbus.PointerDownEvent{Target: target})

		switch hit.Kind {
		case widget.HitInput:
			return m.setFocus(i)
		case widget.HitOption:
			return m.selectOption(i, hit.Index)
		}
	}
	return nil
}

// selectOption commits option opt of field i as a click does. Focus passes
// through the focused field's own panel and comes back; a click on the panel
// of another field moves focus to that field first.
func (m *Model) selectOption(i, opt int) tea.Cmd {
	f := m.fields[i]
	if i == m.focus && f.Focused() {
		blur := f.Blur(widget.FocusPanel)
		sel := f.Select(opt)
		return tea.Batch(blur, sel, f.Focus())
	}
	focus := m.setFocus(i)
	return tea.Batch(focus, f.Select(opt))
}

// hitTest finds the field whose rendered body covers screen line y
func (m *Model) hitTest(y int) (int, widget.Hit) {
	for i, top := range m.layout.BodyTops {
		if i >= len(m.fields) {
			break
		}
		line := y - top
		if line >= 0 && line < m.fields[i].Height() {
			return i, m.fields[i].HitTest(line)
		}
	}
	return -1, widget.Hit{Kind: widget.HitNone}
}

func (m *Model) setFocus(i int) tea.Cmd {
	var cmds []tea.Cmd
	if i != m.focus && m.fields[m.focus].Focused() {
		cmds = append(cmds, m.fields[m.focus].Blur(widget.FocusElsewhere))
	}
	m.focus = i
	cmds = append(cmds, m.fields[i].Focus())
	return tea.Batch(cmds...)
}

// submit collects the bound value of every named field
func (m *Model) submit() {
	values := url.Values{}
	plain := make(map[string]string, len(m.fields))
	for _, f := range m.fields {
		if f.Name() == "" {
			continue
		}
		values.Set(f.Name(), f.FormValue())
		plain[f.Name()] = f.FormValue()
	}
	m.submitted = values
	m.bus.Publish(eventbus.SubmitEvent{Values: plain})
	m.logger.Info("form submitted", zap.String("values", values.Encode()))
	m.setStatus("", false)
}

func (m *Model) reset() {
	for _, f := range m.fields {
		f.Reset()
	}
	m.submitted = nil
	m.setStatus("Form reset", false)
}

func (m *Model) quit() tea.Cmd {
	for _, f := range m.fields {
		f.Unmount()
	}
	// in-flight fetches are abandoned
	m.cancel()
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	return tea.Quit
}

func (m *Model) setStatus(message string, isError bool) {
	m.statusMessage = message
	m.statusError = isError
}

// showPager returns a command that shows content using ov pager
func (m *Model) showPager(content string) tea.Cmd {
	if m.program == nil {
		m.setStatus("Pager unavailable", true)
		return nil
	}
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := m.pager.Show(content)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return pagerMsg{err: err}
	}
}

// View renders the form
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}

	state := views.FormState{
		Width:         m.width,
		Title:         m.config.UISettings.Title,
		StatusMessage: m.statusMessage,
		IsError:       m.statusError,
		RecentEvents:  m.events.Recent(recentEvents),
		HelpModel:     m.help,
		Keys:          m.keys,
	}
	if m.submitted != nil {
		state.Submitted = m.submitted.Encode()
	}
	for i, f := range m.fields {
		state.Fields = append(state.Fields, views.FieldView{
			Label:   m.labels[i],
			Focused: f.Focused(),
			Body:    f.View(),
			Status:  f.StatusView(),
		})
	}

	out, layout := m.renderer.Render(state)
	m.layout = layout
	return out
}

// Fields returns the form's widgets in display order
func (m *Model) Fields() []*widget.Model { return m.fields }

// FocusIndex is the index of the focused field
func (m *Model) FocusIndex() int { return m.focus }

// Submitted returns the last submitted values, nil before the first submit
func (m *Model) Submitted() url.Values { return m.submitted }

// Events returns the page event log
func (m *Model) Events() *EventLog { return m.events }

// encodeValues renders submitted values as a sorted query string
func encodeValues(values map[string]string) string {
	v := url.Values{}
	for k, val := range values {
		v.Set(k, val)
	}
	return v.Encode()
}
