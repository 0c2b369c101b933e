// Package eventx moves webhook events out of the request path.
//
// Events carry a UUID, a type, a timestamp and a JSON-serializable payload.
// A MemoryBus delivers them to in-process subscribers; an SQSPublisher
// forwards them to an Amazon SQS queue for other services to consume.
//
//	bus := eventx.NewMemoryBus()
//	eventx.SubscribeTyped(bus, "whatsapp.message", func(ctx context.Context, e eventx.TypedEvent[Inbound]) error {
//		return store(ctx, e.Data())
//	})
//	err := bus.Publish(ctx, eventx.NewEvent("whatsapp.message", inbound))
package eventx
