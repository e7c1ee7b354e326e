package suggest

import "autocomplete/internal/domain"

// PanelHeight is the number of option rows visible at once
const PanelHeight = 8

// Store holds the latest result set, the highlight and the scroll window.
// The highlight is always in [-1, Len()-1]; -1 means none.
type Store struct {
	results   []domain.Suggestion
	highlight int
	offset    int
	height    int
}

// NewStore creates an empty store showing height rows at a time
func NewStore(height int) *Store {
	if height < 1 {
		height = PanelHeight
	}
	return &Store{highlight: -1, height: height}
}

// Replace swaps in a new result set and resets highlight and scroll
func (s *Store) Replace(results []domain.Suggestion) {
	s.results = append([]domain.Suggestion(nil), results...)
	s.highlight = -1
	s.offset = 0
}

// Clear empties the result set
func (s *Store) Clear() {
	s.Replace(nil)
}

// Len returns the number of suggestions
func (s *Store) Len() int {
	return len(s.results)
}

// Results returns a copy of the result set
func (s *Store) Results() []domain.Suggestion {
	return append([]domain.Suggestion(nil), s.results...)
}

// At returns suggestion i
func (s *Store) At(i int) (domain.Suggestion, bool) {
	if i < 0 || i >= len(s.results) {
		return domain.Suggestion{}, false
	}
	return s.results[i], true
}

// Highlight returns the highlighted index, -1 for none
func (s *Store) Highlight() int {
	return s.highlight
}

// Highlighted returns the highlighted suggestion
func (s *Store) Highlighted() (domain.Suggestion, bool) {
	return s.At(s.highlight)
}

// Next moves the highlight down, wrapping from the last row to the first.
// It reports false when there is nothing to highlight.
func (s *Store) Next() bool {
	n := len(s.results)
	if n == 0 {
		return false
	}
	if s.highlight < n-1 {
		s.highlight++
	} else {
		s.highlight = 0
	}
	s.ensureVisible()
	return true
}

// Prev moves the highlight up, wrapping from the first row (or none) to the last
func (s *Store) Prev() bool {
	n := len(s.results)
	if n == 0 {
		return false
	}
	if s.highlight > 0 {
		s.highlight--
	} else {
		s.highlight = n - 1
	}
	s.ensureVisible()
	return true
}

// SetHighlight moves the highlight to i, used for pointer hover
func (s *Store) SetHighlight(i int) bool {
	if i < 0 || i >= len(s.results) {
		return false
	}
	s.highlight = i
	s.ensureVisible()
	return true
}

// ResetHighlight clears the highlight
func (s *Store) ResetHighlight() {
	s.highlight = -1
}

// Window returns the visible row range [start, end)
func (s *Store) Window() (start, end int) {
	end = s.offset + s.height
	if end > len(s.results) {
		end = len(s.results)
	}
	return s.offset, end
}

// Height returns the number of visible rows
func (s *Store) Height() int {
	return s.height
}

func (s *Store) ensureVisible() {
	if s.highlight < 0 {
		return
	}
	if s.highlight < s.offset {
		s.offset = s.highlight
	} else if s.highlight >= s.offset+s.height {
		s.offset = s.highlight - s.height + 1
	}
}
