package whatsappx

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/url"
)

// Request is what a host adapter extracts from an inbound POST. Payload may
// be nil, in which case RawBody is decoded.
type Request struct {
	Payload   *Payload
	RawBody   []byte
	Signature string
}

// Post verifies and dispatches a webhook POST. Unless the client is
// Insecure the raw body and signature are required and checked before
// anything is parsed. The registered handler's result and error are returned
// as is; an event kind without a handler yields (nil, nil).
func (c *Client) Post(ctx context.Context, req Request) (any, error) {
	if !c.cfg.Insecure {
		if err := c.verify(req); err != nil {
			c.cfg.Metrics.webhook("unknown", "rejected")
			log.Warn("rejected webhook: %v", err)
			return nil, err
		}
	}

	payload := req.Payload
	if payload == nil {
		payload = &Payload{}
		if err := json.Unmarshal(req.RawBody, payload); err != nil {
			c.cfg.Metrics.webhook("unknown", "unexpected")
			return nil, ErrorRegistry.New(ErrUnexpectedData).WithCause(err)
		}
	}
	return c.dispatch(ctx, payload)
}

// PostUnverified dispatches a payload without any signature check, whatever
// the configuration says. Only use it when the request was authenticated
// some other way.
func (c *Client) PostUnverified(ctx context.Context, payload *Payload) (any, error) {
	if payload == nil {
		return nil, ErrorRegistry.New(ErrUnexpectedData)
	}
	return c.dispatch(ctx, payload)
}

func (c *Client) verify(req Request) error {
	if len(req.RawBody) == 0 {
		return ErrorRegistry.New(ErrMissingRawBody)
	}
	if req.Signature == "" {
		return ErrorRegistry.New(ErrMissingSignature)
	}
	return VerifySignature(c.cfg.AppSecret, req.RawBody, req.Signature, c.cfg.HMAC)
}

// dispatch looks at the first change of the first entry only
func (c *Client) dispatch(ctx context.Context, p *Payload) (any, error) {
	if len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		c.cfg.Metrics.webhook("unknown", "unexpected")
		return nil, ErrorRegistry.New(ErrUnexpectedData).WithDetail("object", p.Object)
	}
	value := &p.Entry[0].Changes[0].Value

	switch {
	case len(value.Messages) > 0:
		if c.onMessage == nil {
			c.cfg.Metrics.webhook("message", "unhandled")
			return nil, nil
		}
		return c.observe("message", func() (any, error) {
			return c.onMessage(ctx, newMessageEvent(c, p, value))
		})
	case len(value.Statuses) > 0:
		if c.onStatus == nil {
			c.cfg.Metrics.webhook("status", "unhandled")
			return nil, nil
		}
		return c.observe("status", func() (any, error) {
			return c.onStatus(ctx, newStatusEvent(c, p, value))
		})
	case len(value.Calls) > 0:
		if c.onCall == nil {
			c.cfg.Metrics.webhook("call", "unhandled")
			return nil, nil
		}
		return c.observe("call", func() (any, error) {
			return c.onCall(ctx, newCallEvent(c, p, value))
		})
	}

	c.cfg.Metrics.webhook("unknown", "unexpected")
	return nil, ErrorRegistry.New(ErrUnexpectedData).
		WithDetail("field", p.Entry[0].Changes[0].Field)
}

func (c *Client) observe(kind string, fn func() (any, error)) (any, error) {
	out, err := fn()
	if err != nil {
		c.cfg.Metrics.webhook(kind, "error")
	} else {
		c.cfg.Metrics.webhook(kind, "handled")
	}
	return out, err
}

// Get answers the subscription challenge Meta sends when the webhook is
// registered, returning hub.challenge verbatim on success
func (c *Client) Get(params url.Values) (string, error) {
	if c.cfg.VerifyToken == "" {
		return "", ErrorRegistry.New(ErrMissingVerifyToken)
	}
	if !params.Has("hub.mode") || !params.Has("hub.challenge") || !params.Has("hub.verify_token") {
		return "", ErrorRegistry.New(ErrMissingSearchParams)
	}

	mode := params.Get("hub.mode")
	token := params.Get("hub.verify_token")
	if mode != "subscribe" || subtle.ConstantTimeCompare([]byte(token), []byte(c.cfg.VerifyToken)) != 1 {
		c.cfg.Metrics.webhook("challenge", "rejected")
		return "", ErrorRegistry.New(ErrFailedToVerifyToken).WithDetail("mode", mode)
	}
	c.cfg.Metrics.webhook("challenge", "handled")
	return params.Get("hub.challenge"), nil
}
