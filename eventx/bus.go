package eventx

import (
	"context"
	"reflect"
)

// Handler processes a single event
type Handler func(ctx context.Context, event Event) error

// TypedHandler provides type-safe event handling
type TypedHandler[T any] func(ctx context.Context, event TypedEvent[T]) error

// Publisher sends events somewhere
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Bus is a Publisher that also delivers events to local subscribers
type Bus interface {
	Publisher

	// Subscribe registers a handler for eventType; "*" receives every event
	Subscribe(eventType string, handler Handler)

	// HandlerCount returns the number of handlers for an event type
	HandlerCount(eventType string) int
}

// SubscribeTyped registers a handler that only accepts payloads of type T
func SubscribeTyped[T any](bus Bus, eventType string, handler TypedHandler[T]) {
	bus.Subscribe(eventType, func(ctx context.Context, e Event) error {
		if typed, ok := e.(TypedEvent[T]); ok {
			return handler(ctx, typed)
		}
		return ErrorRegistry.New(ErrInvalidEventType).
			WithDetail("expected_type", reflect.TypeOf((*T)(nil)).Elem().String()).
			WithDetail("actual_type", reflect.TypeOf(e.Payload()).String())
	})
}
