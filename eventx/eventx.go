package eventx

import (
	"time"

	"github.com/google/uuid"
)

// Event is the base interface for all events
type Event interface {
	ID() string
	Type() string
	Timestamp() time.Time
	Source() string
	Version() string
	Payload() any
	Metadata() map[string]any
}

// TypedEvent provides type-safe access to event data
type TypedEvent[T any] interface {
	Event
	Data() T
}

// Option configures event creation
type Option func(*options)

type options struct {
	id        string
	timestamp time.Time
	source    string
	version   string
	metadata  map[string]any
}

// WithSource names the producer of the event
func WithSource(source string) Option {
	return func(o *options) { o.source = source }
}

// WithVersion sets the payload schema version
func WithVersion(version string) Option {
	return func(o *options) { o.version = version }
}

// WithMetadata adds a metadata entry
func WithMetadata(key string, value any) Option {
	return func(o *options) { o.metadata[key] = value }
}

// withIdentity restores id and timestamp when decoding
func withIdentity(id string, ts time.Time) Option {
	return func(o *options) {
		o.id = id
		o.timestamp = ts
	}
}

// BaseEvent implements TypedEvent
type BaseEvent[T any] struct {
	id        string
	eventType string
	timestamp time.Time
	source    string
	version   string
	data      T
	metadata  map[string]any
}

// NewEvent creates a typed event with a fresh UUID
func NewEvent[T any](eventType string, data T, opts ...Option) TypedEvent[T] {
	o := options{
		id:        uuid.NewString(),
		timestamp: time.Now().UTC(),
		source:    "wacloud",
		version:   "1.0",
		metadata:  make(map[string]any),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &BaseEvent[T]{
		id:        o.id,
		eventType: eventType,
		timestamp: o.timestamp,
		source:    o.source,
		version:   o.version,
		data:      data,
		metadata:  o.metadata,
	}
}

func (e *BaseEvent[T]) ID() string               { return e.id }
func (e *BaseEvent[T]) Type() string             { return e.eventType }
func (e *BaseEvent[T]) Timestamp() time.Time     { return e.timestamp }
func (e *BaseEvent[T]) Source() string           { return e.source }
func (e *BaseEvent[T]) Version() string          { return e.version }
func (e *BaseEvent[T]) Payload() any             { return e.data }
func (e *BaseEvent[T]) Metadata() map[string]any { return e.metadata }
func (e *BaseEvent[T]) Data() T                  { return e.data }
