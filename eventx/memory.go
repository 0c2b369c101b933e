package eventx

import (
	"context"
	"errors"
	"sync"

	"github.com/Abraxas-365/wacloud/logx"
)

// Wildcard subscribes to every event type
const Wildcard = "*"

// MemoryBus delivers events synchronously to in-process handlers
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewMemoryBus creates an empty in-memory bus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[string][]Handler)}
}

func (b *MemoryBus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

func (b *MemoryBus) HandlerCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

// Publish runs every matching handler in registration order. All handlers
// run even when some fail; their errors are joined.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append(append([]Handler(nil), b.handlers[event.Type()]...), b.handlers[Wildcard]...)
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			logx.Warn("eventx: handler for %s failed: %v", event.Type(), err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return ErrorRegistry.New(ErrHandlerFailed).
			WithCause(errors.Join(errs...)).
			WithDetail("event_id", event.ID()).
			WithDetail("failed_handlers", len(errs))
	}
	return nil
}
