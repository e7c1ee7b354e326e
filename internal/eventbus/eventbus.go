package eventbus

import (
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"autocomplete/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventSelect      = domain.EventSelect
	EventInput       = domain.EventInput
	EventKeyDown     = domain.EventKeyDown
	EventFocus       = domain.EventFocus
	EventBlur        = domain.EventBlur
	EventChange      = domain.EventChange
	EventPointerDown = domain.EventPointerDown
	EventSubmit      = domain.EventSubmit
)

// Re-export domain event types
type SelectEvent = domain.SelectEvent
type InputEvent = domain.InputEvent
type KeyDownEvent = domain.KeyDownEvent
type FocusEvent = domain.FocusEvent
type BlurEvent = domain.BlurEvent
type ChangeEvent = domain.ChangeEvent
type PointerDownEvent = domain.PointerDownEvent
type SubmitEvent = domain.SubmitEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	// Subscribe returns a function that removes the subscription.
	Subscribe(eventType EventType, handler EventHandler) func()
	SubscribeAll(handler EventHandler) func()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus delivers events synchronously, in publish order, on the caller's goroutine.
// Widgets publish from inside Bubble Tea's Update, so listeners observe the
// same sequence a plain text field would produce.
type bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[EventType][]subscription
	all      []subscription
	logger   *zap.Logger
}

// New creates a new event bus
func New() EventBus {
	return NewWithLogger(zap.NewNop())
}

// NewWithLogger creates an event bus that logs handler panics to logger
func NewWithLogger(logger *zap.Logger) EventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &bus{
		handlers: make(map[EventType][]subscription),
		logger:   logger,
	}
}

// Publish delivers event to every subscriber of its type, then to catch-all subscribers
func (b *bus) Publish(event DomainEvent) {
	// Skip logging for high-frequency events
	switch event.Type() {
	case EventKeyDown, EventInput, EventPointerDown:
	default:
		b.logger.Debug("eventbus: publishing event", zap.String("type", string(event.Type())))
	}

	// Copy so handlers may unsubscribe while being called
	b.mu.RLock()
	typed := append([]subscription(nil), b.handlers[event.Type()]...)
	all := append([]subscription(nil), b.all...)
	b.mu.RUnlock()

	for _, s := range typed {
		b.call(s.handler, event)
	}
	for _, s := range all {
		b.call(s.handler, event)
	}
}

// Subscribe subscribes to events of a specific type
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.handlers[eventType] = remove(b.handlers[eventType], id)
			if len(b.handlers[eventType]) == 0 {
				delete(b.handlers, eventType)
			}
		})
	}
}

// SubscribeAll subscribes to every event regardless of type
func (b *bus) SubscribeAll(handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.all = append(b.all, subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.all = remove(b.all, id)
		})
	}
}

func (b *bus) call(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panic",
				zap.String("type", string(event.Type())),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	h(event)
}

func remove(subs []subscription, id uint64) []subscription {
	out := subs[:0:0]
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}

// SubscriberCount reports how many handlers are registered, typed and catch-all
func SubscriberCount(b EventBus) int {
	impl, ok := b.(*bus)
	if !ok {
		return -1
	}
	impl.mu.RLock()
	defer impl.mu.RUnlock()
	n := len(impl.all)
	for _, subs := range impl.handlers {
		n += len(subs)
	}
	return n
}
