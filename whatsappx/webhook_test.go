package whatsappx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/Abraxas-365/wacloud/errx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(body string) Request {
	return Request{RawBody: []byte(body), Signature: Sign("secret", []byte(body), HMACSHA256)}
}

func TestPost_SecureGating(t *testing.T) {
	c := newTestClient(t, newFakeDoer())
	called := false
	c.OnMessage(func(ctx context.Context, ev *MessageEvent) (any, error) {
		called = true
		return nil, nil
	})

	tests := []struct {
		name   string
		req    Request
		code   errx.Code
		status int
	}{
		{"missing body", Request{Signature: "sha256=00"}, ErrMissingRawBody, http.StatusBadRequest},
		{"missing signature", Request{RawBody: []byte(messagePayload)}, ErrMissingSignature, http.StatusUnauthorized},
		{"bad signature", Request{RawBody: []byte(messagePayload), Signature: "sha256=00"}, ErrFailedToVerify, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Post(context.Background(), tt.req)
			assert.True(t, errx.IsCode(err, tt.code))
			assert.Equal(t, tt.status, errx.HTTPStatus(err))
		})
	}
	assert.False(t, called)
}

func TestPost_MissingHMAC(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AppSecret = "secret"
	cfg.HMAC = nil
	c := New(cfg)

	_, err := c.Post(context.Background(), Request{RawBody: []byte("{}"), Signature: "sha256=00"})
	assert.True(t, errx.IsCode(err, ErrMissingCryptoPrimitive))
}

func TestPost_Message(t *testing.T) {
	c := newTestClient(t, newFakeDoer())
	var got *MessageEvent
	c.OnMessage(func(ctx context.Context, ev *MessageEvent) (any, error) {
		got = ev
		return "handled", nil
	})

	out, err := c.Post(context.Background(), signed(messagePayload))
	require.NoError(t, err)
	assert.Equal(t, "handled", out)

	require.NotNil(t, got)
	assert.Equal(t, "PHONE", got.PhoneID)
	assert.Equal(t, "5491100", got.From)
	assert.Equal(t, "José", got.Name)
	assert.Equal(t, "hola", got.Message.Text.Body)
	assert.Equal(t, "WABA", got.Raw.Entry[0].ID)
}

func TestPost_HandlerErrorPropagates(t *testing.T) {
	c := newTestClient(t, newFakeDoer())
	boom := errors.New("boom")
	c.OnMessage(func(ctx context.Context, ev *MessageEvent) (any, error) {
		return nil, boom
	})

	_, err := c.Post(context.Background(), signed(messagePayload))
	assert.Same(t, boom, err)
}

func TestPost_Status(t *testing.T) {
	c := newTestClient(t, newFakeDoer())
	var got *StatusEvent
	c.OnStatus(func(ctx context.Context, ev *StatusEvent) (any, error) {
		got = ev
		return nil, nil
	})

	_, err := c.Post(context.Background(), signed(statusPayload))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "5491100", got.Phone)
	assert.Equal(t, "failed", got.Status)
	assert.Equal(t, "wamid.OUT", got.ID)
	assert.Equal(t, "campaign-7", got.TrackingData)
	require.NotNil(t, got.Error)
	assert.Equal(t, 131047, got.Error.Code)
}

func TestPost_Call(t *testing.T) {
	c := newTestClient(t, newFakeDoer())
	var got *CallEvent
	c.OnCall(func(ctx context.Context, ev *CallEvent) (any, error) {
		got = ev
		return nil, nil
	})

	_, err := c.Post(context.Background(), signed(callPayload))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "5491200", got.From)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "connect", got.Call.Event)
}

func TestPost_NoHandler(t *testing.T) {
	c := newTestClient(t, newFakeDoer())

	out, err := c.Post(context.Background(), signed(statusPayload))
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestPost_UnexpectedData(t *testing.T) {
	c := newTestClient(t, newFakeDoer())

	for _, body := range []string{
		`{"object":"whatsapp_business_account","entry":[]}`,
		`{"object":"x","entry":[{"changes":[{"field":"account_update","value":{}}]}]}`,
		`not json`,
	} {
		_, err := c.Post(context.Background(), signed(body))
		assert.True(t, errx.IsCode(err, ErrUnexpectedData), body)
	}
}

func TestPost_Insecure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Insecure = true
	c := New(cfg)
	c.OnMessage(func(ctx context.Context, ev *MessageEvent) (any, error) {
		return ev.Message.ID, nil
	})

	out, err := c.Post(context.Background(), Request{RawBody: []byte(messagePayload)})
	require.NoError(t, err)
	assert.Equal(t, "wamid.IN", out)
}

func TestPostUnverified(t *testing.T) {
	c := newTestClient(t, newFakeDoer())
	c.OnMessage(func(ctx context.Context, ev *MessageEvent) (any, error) {
		return ev.From, nil
	})

	payload := &Payload{Entry: []Entry{{Changes: []Change{{Value: Value{
		Metadata: Metadata{PhoneNumberID: "PHONE"},
		Messages: []Message{{From: "1", ID: "wamid.X", Type: "text"}},
	}}}}}}

	out, err := c.PostUnverified(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "1", out)

	_, err = c.PostUnverified(context.Background(), nil)
	assert.True(t, errx.IsCode(err, ErrUnexpectedData))
}

func TestGet(t *testing.T) {
	c := newTestClient(t, newFakeDoer())

	challenge, err := c.Get(url.Values{
		"hub.mode":         {"subscribe"},
		"hub.challenge":    {"1158201444"},
		"hub.verify_token": {"verify"},
	})
	require.NoError(t, err)
	assert.Equal(t, "1158201444", challenge)

	_, err = c.Get(url.Values{"hub.mode": {"subscribe"}, "hub.challenge": {"1"}})
	assert.True(t, errx.IsCode(err, ErrMissingSearchParams))

	_, err = c.Get(url.Values{"hub.mode": {"subscribe"}, "hub.challenge": {"1"}, "hub.verify_token": {"nope"}})
	assert.True(t, errx.IsCode(err, ErrFailedToVerifyToken))
	assert.Equal(t, http.StatusForbidden, errx.HTTPStatus(err))

	_, err = c.Get(url.Values{"hub.mode": {"unsubscribe"}, "hub.challenge": {"1"}, "hub.verify_token": {"verify"}})
	assert.True(t, errx.IsCode(err, ErrFailedToVerifyToken))

	_, err = New(DefaultConfig()).Get(url.Values{})
	assert.True(t, errx.IsCode(err, ErrMissingVerifyToken))
}

func TestMetrics_Webhooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := DefaultConfig()
	cfg.AppSecret = "secret"
	cfg.Metrics = NewMetrics(reg)
	c := New(cfg)
	c.OnMessage(func(ctx context.Context, ev *MessageEvent) (any, error) { return nil, nil })

	_, _ = c.Post(context.Background(), signed(messagePayload))
	_, _ = c.Post(context.Background(), Request{RawBody: []byte(messagePayload), Signature: "sha256=00"})

	assert.Equal(t, 1.0, testutil.ToFloat64(cfg.Metrics.webhooks.WithLabelValues("message", "handled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(cfg.Metrics.webhooks.WithLabelValues("unknown", "rejected")))
}
