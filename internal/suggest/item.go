// Package suggest holds the suggestion store: ingestion of endpoint results,
// label/value resolution and the option rows rendered from them.
package suggest

import (
	"github.com/tidwall/gjson"

	"autocomplete/internal/domain"
)

// Label aliases tried after the configured label field, in order
var labelAliases = []string{"label", "name", "title", "text", "value", "id"}

// Value aliases tried after the configured value field, in order
var valueAliases = []string{"value", "id"}

// ParseItem classifies one element of a results array.
// ok is false for nulls and nested arrays, which cannot be offered.
func ParseItem(r gjson.Result) (item domain.Item, ok bool) {
	switch {
	case r.IsObject():
		return domain.Item{Kind: domain.KindRecord, Raw: r.Raw}, true
	case r.IsArray(), r.Type == gjson.Null, !r.Exists():
		return domain.Item{}, false
	default:
		// strings, numbers and booleans are bare tokens
		return domain.Item{Kind: domain.KindText, Text: r.String(), Raw: r.Raw}, true
	}
}

// ParseResults extracts the candidates of a {"results": [...]} body.
// A body without a results array yields no items.
func ParseResults(body []byte) []domain.Item {
	results := gjson.GetBytes(body, "results")
	if !results.IsArray() {
		return nil
	}
	var items []domain.Item
	results.ForEach(func(_, value gjson.Result) bool {
		if item, ok := ParseItem(value); ok {
			items = append(items, item)
		}
		return true
	})
	return items
}

// Normalize resolves item to its label and value once, at ingestion
func Normalize(item domain.Item, fields domain.Fields) domain.Suggestion {
	if item.Kind == domain.KindText {
		return domain.Suggestion{Value: item.Text, Label: item.Text, Item: item}
	}

	record := gjson.Parse(item.Raw).Map()
	label := ResolveLabel(record, fields.Label)
	if label == "" {
		label = item.Raw
	}
	value := ResolveValue(record, fields.Value)
	if value == "" {
		value = label
	}
	return domain.Suggestion{Value: value, Label: label, Item: item}
}

// NormalizeAll normalizes a batch, preserving order
func NormalizeAll(items []domain.Item, fields domain.Fields) []domain.Suggestion {
	out := make([]domain.Suggestion, 0, len(items))
	for _, item := range items {
		out = append(out, Normalize(item, fields))
	}
	return out
}

// ResolveLabel returns the first present field among configured and the label aliases
func ResolveLabel(record map[string]gjson.Result, configured string) string {
	return firstPresent(record, configured, labelAliases)
}

// ResolveValue returns the first present field among configured and the value aliases.
// An empty result means the caller falls back to the label.
func ResolveValue(record map[string]gjson.Result, configured string) string {
	return firstPresent(record, configured, valueAliases)
}

func firstPresent(record map[string]gjson.Result, configured string, aliases []string) string {
	if configured != "" {
		if s, ok := present(record, configured); ok {
			return s
		}
	}
	for _, key := range aliases {
		if s, ok := present(record, key); ok {
			return s
		}
	}
	return ""
}

// present treats missing keys, nulls and empty strings as absent
func present(record map[string]gjson.Result, key string) (string, bool) {
	v, ok := record[key]
	if !ok || v.Type == gjson.Null {
		return "", false
	}
	s := v.String()
	if s == "" {
		return "", false
	}
	return s, true
}
