package whatsappx

import (
	"context"
	"time"

	"github.com/Abraxas-365/wacloud/asyncx"
	"github.com/Abraxas-365/wacloud/msgx"
	"github.com/Abraxas-365/wacloud/validatex"
)

// SendResponse is the Cloud API answer to a send request
type SendResponse struct {
	MessagingProduct string        `json:"messaging_product"`
	Contacts         []SentContact `json:"contacts"`
	Messages         []SentMessage `json:"messages"`
}

// SentContact maps the number a message was sent to onto its WhatsApp id
type SentContact struct {
	Input string `json:"input"`
	WaID  string `json:"wa_id"`
}

// SentMessage identifies an accepted outbound message
type SentMessage struct {
	ID            string `json:"id"`
	MessageStatus string `json:"message_status,omitempty"`
}

// MessageID returns the wamid of the sent message, or "" when absent
func (r *SendResponse) MessageID() string {
	if r == nil || len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[0].ID
}

type sendOptions struct {
	replyTo      string
	trackingData string
}

// SendOption customizes a single send
type SendOption func(*sendOptions)

// WithReplyTo quotes messageID in the conversation
func WithReplyTo(messageID string) SendOption {
	return func(o *sendOptions) { o.replyTo = messageID }
}

// WithTrackingData attaches biz_opaque_callback_data, echoed back in
// status webhooks
func WithTrackingData(data string) SendOption {
	return func(o *sendOptions) { o.trackingData = data }
}

// SendMessage sends msg from the business number phoneID to the user to
func (c *Client) SendMessage(ctx context.Context, phoneID, to string, msg msgx.ClientMessage, opts ...SendOption) (*SendResponse, error) {
	if msg == nil {
		return nil, validatex.Fail("message", "message is required")
	}
	err := validatex.First(
		validatex.Required("phone id", phoneID),
		validatex.Required("recipient", to),
	)
	if err != nil {
		return nil, err
	}

	var o sendOptions
	for _, opt := range opts {
		opt(&o)
	}

	body := map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              msg.Type(),
		string(msg.Type()):  msg,
	}
	if o.replyTo != "" {
		body["context"] = map[string]string{"message_id": o.replyTo}
	}
	if o.trackingData != "" {
		body["biz_opaque_callback_data"] = o.trackingData
	}

	started := time.Now()
	var resp SendResponse
	err = c.post(ctx, c.endpoint(phoneID, "messages"), body, &resp)
	c.cfg.Metrics.sent(string(msg.Type()), started, err)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// MarkAsRead marks an inbound message as read. With typing set the user
// also sees a typing indicator until the next reply or for 25 seconds.
func (c *Client) MarkAsRead(ctx context.Context, phoneID, messageID string, typing bool) error {
	err := validatex.First(
		validatex.Required("phone id", phoneID),
		validatex.Required("message id", messageID),
	)
	if err != nil {
		return err
	}

	body := map[string]any{
		"messaging_product": "whatsapp",
		"status":            "read",
		"message_id":        messageID,
	}
	if typing {
		body["typing_indicator"] = map[string]string{"type": "text"}
	}
	return c.post(ctx, c.endpoint(phoneID, "messages"), body, nil)
}

// Broadcast sends a message to every recipient in batches of batchSize,
// waiting delay between the start of consecutive batches. Sends are not
// awaited: the returned futures resolve as responses arrive, one per
// recipient in input order. If ctx ends while pacing, the recipients not yet
// started get futures failed with ctx.Err() and that error is returned.
func (c *Client) Broadcast(
	ctx context.Context,
	phoneID string,
	recipients []string,
	message msgx.MessageFor,
	batchSize int,
	delay time.Duration,
) ([]*asyncx.Future[*SendResponse], error) {
	if batchSize < 1 {
		return nil, ErrorRegistry.New(ErrInvalidBroadcast).WithDetail("batch_size", batchSize)
	}
	if delay < 0 {
		return nil, ErrorRegistry.New(ErrInvalidBroadcast).WithDetail("delay", delay.String())
	}
	if message == nil {
		return nil, ErrorRegistry.New(ErrInvalidBroadcast).WithDetail("reason", "message is required")
	}

	futures := make([]*asyncx.Future[*SendResponse], 0, len(recipients))
	for start := 0; start < len(recipients); start += batchSize {
		if start > 0 {
			if err := sleep(ctx, delay); err != nil {
				for range recipients[start:] {
					futures = append(futures, asyncx.Failed[*SendResponse](err))
				}
				return futures, err
			}
		}

		end := min(start+batchSize, len(recipients))
		for _, to := range recipients[start:end] {
			msg, err := message(to)
			if err != nil {
				futures = append(futures, asyncx.Failed[*SendResponse](err))
				continue
			}
			futures = append(futures, asyncx.Go(ctx, func(ctx context.Context) (*SendResponse, error) {
				return c.SendMessage(ctx, phoneID, to, msg)
			}))
		}
	}
	return futures, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
