package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// Pager shows long text in the ov pager
type Pager struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPager creates a pager bound to program
func NewPager(program *tea.Program) *Pager {
	return &Pager{program: program}
}

// Show hands the terminal to ov until the user quits it
func (p *Pager) Show(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// renderHelpContent renders the help information
func renderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	row := func(k, desc string) string {
		return fmt.Sprintf("  %-12s %s\n", keyStyle.Render(k), descStyle.Render(desc))
	}

	var help strings.Builder
	help.WriteString(titleStyle.Render("Autocomplete Help"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Typing"))
	help.WriteString("\n")
	help.WriteString(row("text", "Suggestions are fetched after 2 characters and a short pause"))
	help.WriteString(row("↓", "Open suggestions, or highlight the next one"))
	help.WriteString(row("↑", "Highlight the previous suggestion"))
	help.WriteString(row("enter", "Choose the highlighted suggestion"))
	help.WriteString(row("esc", "Close the suggestions"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Form"))
	help.WriteString("\n")
	help.WriteString(row("tab", "Next field"))
	help.WriteString(row("shift+tab", "Previous field"))
	help.WriteString(row("enter", "Submit, when no suggestion is highlighted"))
	help.WriteString(row("ctrl+r", "Reset all fields"))
	help.WriteString(row("ctrl+e", "Show the event log"))
	help.WriteString(row("ctrl+c", "Quit"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Mouse"))
	help.WriteString("\n")
	help.WriteString(row("click", "Focus a field or choose a suggestion"))
	help.WriteString(row("hover", "Highlight a suggestion"))

	return help.String()
}
