package widget

import (
	"fmt"
	"html"
	"strings"
)

// Attributes are the host markup attributes read at construction
type Attributes map[string]string

// Get returns attribute key, "" when unset
func (a Attributes) Get(key string) string {
	if a == nil {
		return ""
	}
	return a[key]
}

// AttrSet is an ordered set of element attributes
type AttrSet struct {
	keys []string
	vals map[string]string
}

func newAttrSet() *AttrSet {
	return &AttrSet{vals: make(map[string]string)}
}

// Set adds or replaces key, keeping its first insertion position
func (s *AttrSet) Set(key, value string) {
	if _, ok := s.vals[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.vals[key] = value
}

// SetNonEmpty sets key only when value is not empty
func (s *AttrSet) SetNonEmpty(key, value string) {
	if value != "" {
		s.Set(key, value)
	}
}

// Get returns the value of key and whether it is present
func (s *AttrSet) Get(key string) (string, bool) {
	v, ok := s.vals[key]
	return v, ok
}

// Has reports whether key is present
func (s *AttrSet) Has(key string) bool {
	_, ok := s.vals[key]
	return ok
}

// Remove deletes key entirely
func (s *AttrSet) Remove(key string) {
	if _, ok := s.vals[key]; !ok {
		return
	}
	delete(s.vals, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
}

// Keys returns attribute names in insertion order
func (s *AttrSet) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Clone returns an independent copy
func (s *AttrSet) Clone() *AttrSet {
	c := newAttrSet()
	for _, k := range s.keys {
		c.Set(k, s.vals[k])
	}
	return c
}

// String renders the set as escaped markup attributes
func (s *AttrSet) String() string {
	parts := make([]string, 0, len(s.keys))
	for _, k := range s.keys {
		parts = append(parts, fmt.Sprintf(`%s="%s"`, k, html.EscapeString(s.vals[k])))
	}
	return strings.Join(parts, " ")
}

// joinIDs merges space-separated id references, dropping blanks and duplicates
func joinIDs(refs ...string) string {
	seen := make(map[string]bool)
	var out []string
	for _, ref := range refs {
		for _, id := range strings.Fields(ref) {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return strings.Join(out, " ")
}
