package whatsappx

import (
	"context"

	"github.com/Abraxas-365/wacloud/eventx"
)

// Event types published by Forward
const (
	EventMessage = "whatsapp.message"
	EventStatus  = "whatsapp.status"
	EventCall    = "whatsapp.call"
)

// Forward publishes every dispatched event to pub from an offloaded
// goroutine, then runs the handler registered before the call. Register
// handlers first; handlers set afterwards replace the forwarding.
func (c *Client) Forward(pub eventx.Publisher) *Client {
	source := eventx.WithSource("whatsappx")

	nextMessage := c.onMessage
	c.onMessage = func(ctx context.Context, ev *MessageEvent) (any, error) {
		ev.Offload(ctx, func(ctx context.Context) error {
			return pub.Publish(ctx, eventx.NewEvent(EventMessage, ev.Message, source,
				eventx.WithMetadata("phone_id", ev.PhoneID),
				eventx.WithMetadata("from", ev.From),
				eventx.WithMetadata("name", ev.Name)))
		})
		if nextMessage == nil {
			return nil, nil
		}
		return nextMessage(ctx, ev)
	}

	nextStatus := c.onStatus
	c.onStatus = func(ctx context.Context, ev *StatusEvent) (any, error) {
		ev.Offload(ctx, func(ctx context.Context) error {
			return pub.Publish(ctx, eventx.NewEvent(EventStatus, ev.Update, source,
				eventx.WithMetadata("phone_id", ev.PhoneID)))
		})
		if nextStatus == nil {
			return nil, nil
		}
		return nextStatus(ctx, ev)
	}

	nextCall := c.onCall
	c.onCall = func(ctx context.Context, ev *CallEvent) (any, error) {
		ev.Offload(ctx, func(ctx context.Context) error {
			return pub.Publish(ctx, eventx.NewEvent(EventCall, ev.Call, source,
				eventx.WithMetadata("phone_id", ev.PhoneID),
				eventx.WithMetadata("name", ev.Name)))
		})
		if nextCall == nil {
			return nil, nil
		}
		return nextCall(ctx, ev)
	}
	return c
}
