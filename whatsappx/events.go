package whatsappx

import (
	"context"
	"fmt"

	"github.com/Abraxas-365/wacloud/msgx"
)

type eventBase struct {
	// PhoneID is the business phone number id that received the event
	PhoneID string
	// Raw is the full webhook payload
	Raw *Payload

	client *Client
	kind   string
}

// Offload runs fn after the webhook has been answered. fn gets a context
// that keeps the request values but is never cancelled; its errors and
// panics are logged.
func (e *eventBase) Offload(ctx context.Context, fn func(ctx context.Context) error) {
	detached := context.WithoutCancel(ctx)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("offloaded %s work panicked: %v", e.kind, r)
			}
		}()
		if err := fn(detached); err != nil {
			log.Error("offloaded %s work failed: %v", e.kind, err)
		}
	}()
}

// MessageEvent is an inbound user message
type MessageEvent struct {
	eventBase
	From    string
	Name    string
	Message *Message
}

// Reply answers the user quoting the received message
func (e *MessageEvent) Reply(ctx context.Context, msg msgx.ClientMessage, opts ...SendOption) (*SendResponse, error) {
	opts = append([]SendOption{WithReplyTo(e.Message.ID)}, opts...)
	return e.client.SendMessage(ctx, e.PhoneID, e.From, msg, opts...)
}

// React sets emoji as the reaction to the received message; "" removes it
func (e *MessageEvent) React(ctx context.Context, emoji string) (*SendResponse, error) {
	reaction, err := msgx.NewReaction(e.Message.ID, emoji)
	if err != nil {
		return nil, err
	}
	return e.client.SendMessage(ctx, e.PhoneID, e.From, reaction)
}

// MarkAsRead marks the received message as read
func (e *MessageEvent) MarkAsRead(ctx context.Context, typing bool) error {
	return e.client.MarkAsRead(ctx, e.PhoneID, e.Message.ID, typing)
}

// StatusEvent is a delivery update for a message the business sent
type StatusEvent struct {
	eventBase
	// Phone is the recipient of the original message
	Phone        string
	Status       string
	ID           string
	Conversation *Conversation
	Pricing      *Pricing
	Error        *WebhookError
	TrackingData string
	// Update is the full status object
	Update *Status
}

// CallEvent is a business calling event
type CallEvent struct {
	eventBase
	From string
	Name string
	Call *Call
}

func newMessageEvent(c *Client, p *Payload, v *Value) *MessageEvent {
	m := &v.Messages[0]
	ev := &MessageEvent{
		eventBase: eventBase{PhoneID: v.Metadata.PhoneNumberID, Raw: p, client: c, kind: "message"},
		From:      m.From,
		Message:   m,
	}
	if len(v.Contacts) > 0 {
		ev.Name = v.Contacts[0].Profile.Name
		if v.Contacts[0].WaID != "" {
			ev.From = v.Contacts[0].WaID
		}
	}
	return ev
}

func newStatusEvent(c *Client, p *Payload, v *Value) *StatusEvent {
	s := &v.Statuses[0]
	ev := &StatusEvent{
		eventBase:    eventBase{PhoneID: v.Metadata.PhoneNumberID, Raw: p, client: c, kind: "status"},
		Phone:        s.RecipientID,
		Status:       s.Status,
		ID:           s.ID,
		Conversation: s.Conversation,
		Pricing:      s.Pricing,
		TrackingData: s.BizOpaqueCallbackData,
		Update:       s,
	}
	if len(s.Errors) > 0 {
		ev.Error = &s.Errors[0]
	}
	return ev
}

func newCallEvent(c *Client, p *Payload, v *Value) *CallEvent {
	call := &v.Calls[0]
	ev := &CallEvent{
		eventBase: eventBase{PhoneID: v.Metadata.PhoneNumberID, Raw: p, client: c, kind: "call"},
		From:      call.From,
		Call:      call,
	}
	if len(v.Contacts) > 0 {
		ev.Name = v.Contacts[0].Profile.Name
	}
	return ev
}

func (e *MessageEvent) String() string {
	return fmt.Sprintf("message %s from %s (%s)", e.Message.ID, e.From, e.Message.Type)
}
