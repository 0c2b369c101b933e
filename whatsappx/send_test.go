package whatsappx

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Abraxas-365/wacloud/asyncx"
	"github.com/Abraxas-365/wacloud/errx"
	"github.com/Abraxas-365/wacloud/msgx"
	"github.com/Abraxas-365/wacloud/validatex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustText(t *testing.T, body string) *msgx.Text {
	t.Helper()
	text, err := msgx.NewText(body, false)
	require.NoError(t, err)
	return text
}

func TestSendMessage(t *testing.T) {
	doer := newFakeDoer()
	c := newTestClient(t, doer)

	resp, err := c.SendMessage(context.Background(), "PHONE", "5491100", mustText(t, "hi"),
		WithReplyTo("wamid.IN"), WithTrackingData("campaign-7"))
	require.NoError(t, err)
	assert.Equal(t, "wamid.OUT", resp.MessageID())

	reqs := doer.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "https://graph.test/v23.0/PHONE/messages", reqs[0].url)
	assert.Equal(t, "Bearer token", reqs[0].auth)
	assert.Equal(t, map[string]any{
		"messaging_product":        "whatsapp",
		"to":                       "5491100",
		"type":                     "text",
		"text":                     map[string]any{"body": "hi"},
		"context":                  map[string]any{"message_id": "wamid.IN"},
		"biz_opaque_callback_data": "campaign-7",
	}, reqs[0].body)
}

func TestSendMessage_GraphError(t *testing.T) {
	doer := newFakeDoer()
	doer.status = http.StatusBadRequest
	doer.reply = `{"error":{"message":"(#131030) Recipient phone number not in allowed list","type":"OAuthException","code":131030,"fbtrace_id":"A1"}}`
	c := newTestClient(t, doer)

	_, err := c.SendMessage(context.Background(), "PHONE", "1", mustText(t, "hi"))
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeBadRequest))

	ge, ok := errx.GraphErrorOf(err)
	require.True(t, ok)
	assert.Equal(t, 131030, ge.Code)
}

func TestSendMessage_Validation(t *testing.T) {
	doer := newFakeDoer()
	c := newTestClient(t, doer)

	_, err := c.SendMessage(context.Background(), "", "1", mustText(t, "hi"))
	assert.True(t, errx.IsCode(err, validatex.ErrRequired))

	_, err = c.SendMessage(context.Background(), "PHONE", "1", nil)
	assert.Error(t, err)
	assert.Empty(t, doer.requests())
}

func TestMarkAsRead(t *testing.T) {
	doer := newFakeDoer()
	doer.reply = `{"success":true}`
	c := newTestClient(t, doer)

	require.NoError(t, c.MarkAsRead(context.Background(), "PHONE", "wamid.IN", true))
	reqs := doer.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, map[string]any{
		"messaging_product": "whatsapp",
		"status":            "read",
		"message_id":        "wamid.IN",
		"typing_indicator":  map[string]any{"type": "text"},
	}, reqs[0].body)
}

func TestMessageEvent_Helpers(t *testing.T) {
	doer := newFakeDoer()
	c := newTestClient(t, doer)
	c.OnMessage(func(ctx context.Context, ev *MessageEvent) (any, error) {
		if _, err := ev.Reply(ctx, mustText(t, "pong")); err != nil {
			return nil, err
		}
		if _, err := ev.React(ctx, "👍"); err != nil {
			return nil, err
		}
		return nil, ev.MarkAsRead(ctx, false)
	})

	_, err := c.Post(context.Background(), signed(messagePayload))
	require.NoError(t, err)

	reqs := doer.requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, map[string]any{"message_id": "wamid.IN"}, reqs[0].body["context"])
	assert.Equal(t, "5491100", reqs[0].body["to"])
	assert.Equal(t, map[string]any{"message_id": "wamid.IN", "emoji": "👍"}, reqs[1].body["reaction"])
	assert.Equal(t, "read", reqs[2].body["status"])
	assert.NotContains(t, reqs[2].body, "typing_indicator")
}

func TestMessageEvent_Offload(t *testing.T) {
	c := newTestClient(t, newFakeDoer())
	done := make(chan error, 1)
	c.OnMessage(func(ctx context.Context, ev *MessageEvent) (any, error) {
		reqCtx, cancel := context.WithCancel(ctx)
		ev.Offload(reqCtx, func(ctx context.Context) error {
			time.Sleep(10 * time.Millisecond)
			done <- ctx.Err()
			return nil
		})
		cancel()
		return nil, nil
	})

	_, err := c.Post(context.Background(), signed(messagePayload))
	require.NoError(t, err)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("offloaded work did not run")
	}
}

func TestBroadcast_Pacing(t *testing.T) {
	doer := newFakeDoer()
	c := newTestClient(t, doer)
	delay := 80 * time.Millisecond

	started := time.Now()
	futures, err := c.Broadcast(context.Background(), "PHONE", []string{"a", "b", "c"},
		msgx.Static(mustText(t, "news")), 2, delay)
	require.NoError(t, err)
	require.Len(t, futures, 3)
	assert.True(t, time.Since(started) >= delay, "broadcast returned before the second batch")

	results, err := asyncx.All(context.Background(), futures)
	require.NoError(t, err)
	for _, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, "wamid.OUT", r.Value.MessageID())
	}

	sentAt := map[string]time.Time{}
	for _, r := range doer.requests() {
		sentAt[r.body["to"].(string)] = r.at
	}
	require.Len(t, sentAt, 3)
	assert.True(t, sentAt["a"].Sub(started) < delay, "a waited")
	assert.True(t, sentAt["b"].Sub(started) < delay, "b waited")
	assert.True(t, sentAt["c"].Sub(started) >= delay, "c started early")
}

func TestBroadcast_PerRecipientMessages(t *testing.T) {
	doer := newFakeDoer()
	c := newTestClient(t, doer)
	noMessage := errors.New("no message for b")

	futures, err := c.Broadcast(context.Background(), "PHONE", []string{"a", "b"},
		func(to string) (msgx.ClientMessage, error) {
			if to == "b" {
				return nil, noMessage
			}
			return msgx.NewText("hello "+to, false)
		}, 5, 0)
	require.NoError(t, err)

	results, err := asyncx.All(context.Background(), futures)
	require.NoError(t, err)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, noMessage)

	reqs := doer.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, map[string]any{"body": "hello a"}, reqs[0].body["text"])
}

func TestBroadcast_InvalidArguments(t *testing.T) {
	doer := newFakeDoer()
	c := newTestClient(t, doer)
	msg := msgx.Static(mustText(t, "x"))

	_, err := c.Broadcast(context.Background(), "PHONE", []string{"a"}, msg, 0, 0)
	assert.True(t, errx.IsCode(err, ErrInvalidBroadcast))

	_, err = c.Broadcast(context.Background(), "PHONE", []string{"a"}, msg, 1, -time.Second)
	assert.True(t, errx.IsCode(err, ErrInvalidBroadcast))

	assert.Empty(t, doer.requests())
}

func TestBroadcast_CancelledWhilePacing(t *testing.T) {
	doer := newFakeDoer()
	c := newTestClient(t, doer)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	futures, err := c.Broadcast(ctx, "PHONE", []string{"a", "b", "c"},
		msgx.Static(mustText(t, "x")), 1, time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.Len(t, futures, 3)

	_, err = futures[2].Wait(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
