package domain

// ItemKind tags the shape a suggestion arrived in
type ItemKind int

const (
	// KindText is a bare string token
	KindText ItemKind = iota
	// KindRecord is a JSON object carrying value/label fields
	KindRecord
)

func (k ItemKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Item is the raw candidate exactly as the endpoint returned it
type Item struct {
	Kind ItemKind
	Text string // set for KindText
	Raw  string // JSON source of the element
}

// Suggestion is a candidate normalized to one label and one value
type Suggestion struct {
	Value string
	Label string
	Item  Item
}

// Fields names the record keys used to resolve value and label
type Fields struct {
	Value string
	Label string
}

// DefaultFields returns the field names used when the host sets none
func DefaultFields() Fields {
	return Fields{Value: "value", Label: "label"}
}
