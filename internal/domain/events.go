package domain

// EventType represents the type of a component event
type EventType string

// Event types
const (
	EventSelect      EventType = "autocomplete-select"
	EventInput       EventType = "input"
	EventKeyDown     EventType = "keydown"
	EventFocus       EventType = "focus"
	EventBlur        EventType = "blur"
	EventChange      EventType = "change"
	EventPointerDown EventType = "pointerdown"
	EventSubmit      EventType = "submit"
)

// DomainEvent is the interface for all events travelling on the page bus
type DomainEvent interface {
	Type() EventType
}

// SelectEvent is emitted when a suggestion is committed
type SelectEvent struct {
	Source string // name of the emitting component
	Value  string
	Label  string
	Item   Item
}

func (e SelectEvent) Type() EventType { return EventSelect }

// InputEvent mirrors an input event of the internal text field
type InputEvent struct {
	Source string
	Value  string
}

func (e InputEvent) Type() EventType { return EventInput }

// KeyDownEvent mirrors a keydown of the internal text field
type KeyDownEvent struct {
	Source           string
	Key              string
	DefaultPrevented bool
}

func (e KeyDownEvent) Type() EventType { return EventKeyDown }

// FocusEvent mirrors the internal field gaining focus
type FocusEvent struct {
	Source string
}

func (e FocusEvent) Type() EventType { return EventFocus }

// BlurEvent mirrors the internal field losing focus
type BlurEvent struct {
	Source string
}

func (e BlurEvent) Type() EventType { return EventBlur }

// ChangeEvent mirrors a committed text change of the internal field
type ChangeEvent struct {
	Source string
	Value  string
}

func (e ChangeEvent) Type() EventType { return EventChange }

// PointerDownEvent is published by the host for every click on the page.
// Target is the id of the component under the pointer, "" for none.
type PointerDownEvent struct {
	Target string
}

func (e PointerDownEvent) Type() EventType { return EventPointerDown }

// SubmitEvent is published by the host form when it submits
type SubmitEvent struct {
	Values map[string]string
}

func (e SubmitEvent) Type() EventType { return EventSubmit }
