package whatsappx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Abraxas-365/wacloud/errx"
	"github.com/Abraxas-365/wacloud/logx"
)

var log = logx.Named("whatsappx")

// MessageHandler handles an inbound user message
type MessageHandler func(ctx context.Context, ev *MessageEvent) (any, error)

// StatusHandler handles a delivery status update
type StatusHandler func(ctx context.Context, ev *StatusEvent) (any, error)

// CallHandler handles a calling event
type CallHandler func(ctx context.Context, ev *CallEvent) (any, error)

// Client sends messages through the Cloud API and dispatches webhooks.
// Register handlers before serving traffic; they are not guarded for
// concurrent replacement.
type Client struct {
	cfg Config

	onMessage MessageHandler
	onStatus  StatusHandler
	onCall    CallHandler
}

// New creates a Client. Empty Version, BaseURL, Timeout and Doer fall back
// to the defaults; HMAC is used as given.
func New(cfg Config) *Client {
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Doer == nil {
		cfg.Doer = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg}
}

// OnMessage sets the message handler, replacing any previous one
func (c *Client) OnMessage(h MessageHandler) *Client {
	c.onMessage = h
	return c
}

// OnStatus sets the status handler, replacing any previous one
func (c *Client) OnStatus(h StatusHandler) *Client {
	c.onStatus = h
	return c
}

// OnCall sets the call handler, replacing any previous one
func (c *Client) OnCall(h CallHandler) *Client {
	c.onCall = h
	return c
}

// Metrics returns the configured metrics, possibly nil
func (c *Client) Metrics() *Metrics {
	return c.cfg.Metrics
}

func (c *Client) endpoint(parts ...string) string {
	return c.cfg.BaseURL + "/" + c.cfg.Version + "/" + strings.Join(parts, "/")
}

// post sends body as JSON and decodes a 2xx response into out
func (c *Client) post(ctx context.Context, url string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return ErrorRegistry.New(ErrRequestFailed).
			WithCause(err).
			WithDetail("operation", "marshal_request")
	}

	log.Debug("POST %s %s", url, payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return ErrorRegistry.New(ErrRequestFailed).
			WithCause(err).
			WithDetail("operation", "create_request")
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.cfg.Doer.Do(req)
	if err != nil {
		return ErrorRegistry.New(ErrRequestFailed).
			WithCause(err).
			WithDetail("operation", "http_request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errx.FromGraphResponse(resp).WithDetail("url", url)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return ErrorRegistry.New(ErrDecodeResponse).
			WithCause(err).
			WithDetail("status", fmt.Sprint(resp.StatusCode))
	}
	return nil
}
