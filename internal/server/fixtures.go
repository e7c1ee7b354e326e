package server

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// DefaultLimit caps the results of a source without an explicit limit
const DefaultLimit = 20

// Source is one autocomplete data set. Exactly one of Choices and Records is set.
type Source struct {
	Choices      []string         `yaml:"choices"`
	Records      []map[string]any `yaml:"records"`
	SearchFields []string         `yaml:"search_fields"`
	ValueField   string           `yaml:"value_field"`
	LabelField   string           `yaml:"label_field"`
	Raw          bool             `yaml:"raw"`
	Limit        int              `yaml:"limit"`
}

// Fixtures is the contents of a fixtures file
type Fixtures struct {
	Sources map[string]*Source `yaml:"sources"`
}

// LoadFixtures reads and validates a fixtures file
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes and validates fixtures YAML
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate reports every malformed source at once
func (f *Fixtures) Validate() error {
	var result *multierror.Error
	if len(f.Sources) == 0 {
		return errors.New("no sources defined")
	}
	for _, name := range f.Names() {
		src := f.Sources[name]
		switch {
		case src == nil:
			result = multierror.Append(result, fmt.Errorf("source %q: empty definition", name))
			continue
		case src.Choices != nil && src.Records != nil:
			result = multierror.Append(result, fmt.Errorf("source %q: choices and records are exclusive", name))
		case src.Choices == nil && src.Records == nil:
			result = multierror.Append(result, fmt.Errorf("source %q: needs choices or records", name))
		case src.Records != nil && len(src.SearchFields) == 0:
			result = multierror.Append(result, fmt.Errorf("source %q: records need search_fields", name))
		}
		if src.Limit < 0 {
			result = multierror.Append(result, fmt.Errorf("source %q: negative limit", name))
		}
	}
	return result.ErrorOrNil()
}

// Names returns the source names in sorted order
func (f *Fixtures) Names() []string {
	names := make([]string, 0, len(f.Sources))
	for name := range f.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Search returns the results of query against the source. Choices match by
// case-insensitive substring; records match when any search field contains
// the query.
func (s *Source) Search(query string) []any {
	needle := strings.ToLower(query)
	limit := s.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	results := make([]any, 0)
	if s.Choices != nil {
		for _, c := range s.Choices {
			if len(results) == limit {
				break
			}
			if strings.Contains(strings.ToLower(c), needle) {
				results = append(results, c)
			}
		}
		return results
	}

	for _, rec := range s.Records {
		if len(results) == limit {
			break
		}
		if s.matches(rec, needle) {
			results = append(results, s.format(rec))
		}
	}
	return results
}

func (s *Source) matches(rec map[string]any, needle string) bool {
	for _, field := range s.SearchFields {
		v, ok := rec[field]
		if !ok || v == nil {
			continue
		}
		if strings.Contains(strings.ToLower(fmt.Sprint(v)), needle) {
			return true
		}
	}
	return false
}

// format emits a record as a value/label pair, or as-is for raw sources.
// The value defaults to the id field and the label to the first search field.
func (s *Source) format(rec map[string]any) any {
	if s.Raw {
		return rec
	}
	valueField := s.ValueField
	if valueField == "" {
		valueField = "id"
	}
	labelField := s.LabelField
	if labelField == "" {
		labelField = s.SearchFields[0]
	}
	label := stringify(rec[labelField])
	value := stringify(rec[valueField])
	if value == "" {
		value = label
	}
	return map[string]string{"value": value, "label": label}
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Store holds the current fixtures and swaps them on reload
type Store struct {
	mu       sync.RWMutex
	fixtures *Fixtures
}

// NewStore creates a store serving f
func NewStore(f *Fixtures) *Store {
	return &Store{fixtures: f}
}

// Source returns the named source
func (st *Store) Source(name string) (*Source, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	src, ok := st.fixtures.Sources[name]
	return src, ok
}

// Names returns the names of all sources
func (st *Store) Names() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.fixtures.Names()
}

// Reload replaces the fixtures with the contents of path. On error the
// current fixtures stay in place.
func (st *Store) Reload(path string) error {
	f, err := LoadFixtures(path)
	if err != nil {
		return err
	}
	st.mu.Lock()
	st.fixtures = f
	st.mu.Unlock()
	return nil
}
