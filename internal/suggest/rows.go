package suggest

import (
	"fmt"
	"html"

	"autocomplete/internal/domain"
)

// Row is one rendered option of the listbox
type Row struct {
	ID          string
	Label       string // HTML-escaped
	Highlighted bool
}

// OptionID returns the accessible id of option i of listbox
func OptionID(listboxID string, i int) string {
	return fmt.Sprintf("%s-option-%d", listboxID, i)
}

// Rows maps a result set and highlight to option rows. It is pure: the panel
// is re-rendered wholesale from its output on every change.
func Rows(listboxID string, results []domain.Suggestion, highlight int) []Row {
	rows := make([]Row, len(results))
	for i, s := range results {
		rows[i] = Row{
			ID:          OptionID(listboxID, i),
			Label:       html.EscapeString(s.Label),
			Highlighted: i == highlight,
		}
	}
	return rows
}
