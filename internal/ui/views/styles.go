package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the form
type Styles struct {
	Title        lipgloss.Style
	Label        lipgloss.Style
	LabelFocused lipgloss.Style
	Dim          lipgloss.Style
	Status       lipgloss.Style
	Submitted    lipgloss.Style
	EventBox     lipgloss.Style
	Help         lipgloss.Style
	StatusError  lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Label:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		LabelFocused: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Dim:          lipgloss.NewStyle().Faint(true),
		Status:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Submitted:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")), // green
		EventBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		Help:        lipgloss.NewStyle().Faint(true),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
	}
}
