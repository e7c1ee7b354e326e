package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// FieldView is one labelled autocomplete field ready for rendering
type FieldView struct {
	Label   string
	Focused bool
	Body    string // the widget's own view: field line plus open panel
	Status  string // the widget's live status line
}

// FormState contains all the state needed for rendering the form
type FormState struct {
	Width         int
	Title         string
	Fields        []FieldView
	Submitted     string
	StatusMessage string
	IsError       bool
	RecentEvents  []string
	HelpModel     help.Model
	Keys          help.KeyMap
}

// Layout records where each field body starts, in lines from the top of the view
type Layout struct {
	BodyTops []int
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view and its layout
func (r *Renderer) Render(state FormState) (string, Layout) {
	var (
		b      strings.Builder
		line   int
		layout Layout
	)
	write := func(s string) {
		b.WriteString(s)
		b.WriteString("\n")
		line += lipgloss.Height(s)
	}

	write(r.styles.Title.Render(state.Title))
	write("")

	for _, f := range state.Fields {
		label := r.styles.Label.Render(f.Label)
		if f.Focused {
			label = r.styles.LabelFocused.Render(f.Label)
		}
		write(label)
		layout.BodyTops = append(layout.BodyTops, line)
		write(f.Body)
		write(f.Status)
		write("")
	}

	if state.StatusMessage != "" {
		if state.IsError {
			write(r.styles.StatusError.Render(state.StatusMessage))
		} else {
			write(r.styles.Status.Render(state.StatusMessage))
		}
	}
	if state.Submitted != "" {
		write(r.styles.Submitted.Render("Submitted: " + state.Submitted))
	}
	if len(state.RecentEvents) > 0 {
		box := r.styles.EventBox
		if state.Width > 4 {
			box = box.Width(state.Width - 4)
		}
		write(box.Render(strings.Join(state.RecentEvents, "\n")))
	}
	if state.Keys != nil {
		b.WriteString(r.styles.Help.Render(state.HelpModel.View(state.Keys)))
	}

	return b.String(), layout
}
