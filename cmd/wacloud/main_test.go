package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Abraxas-365/wacloud/asyncx"
	"github.com/Abraxas-365/wacloud/errx"
	"github.com/Abraxas-365/wacloud/eventx"
	"github.com/Abraxas-365/wacloud/fsx"
	"github.com/Abraxas-365/wacloud/whatsappx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestSignCommand(t *testing.T) {
	body := `{"object":"whatsapp_business_account"}`

	out, err := run(t, body, "sign", "--secret", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, whatsappx.Sign("s3cret", []byte(body), whatsappx.HMACSHA256)+"\n", out)

	path := filepath.Join(t.TempDir(), "body.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	fromFile, err := run(t, "", "sign", "--secret", "s3cret", path)
	require.NoError(t, err)
	assert.Equal(t, out, fromFile)
}

func TestSignCommand_ReadsSecretFromEnv(t *testing.T) {
	t.Setenv("WACLOUD_WHATSAPP_SECRET", "from-env")

	out, err := run(t, "{}", "sign")
	require.NoError(t, err)
	assert.Equal(t, whatsappx.Sign("from-env", []byte("{}"), whatsappx.HMACSHA256)+"\n", out)
}

func TestSendCommand_RequiresToken(t *testing.T) {
	t.Setenv("WACLOUD_WHATSAPP_TOKEN", "")

	_, err := run(t, "", "send", "--to", "1", "--text", "hi", "--phone-id", "P")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access token")
}

func TestSendCommand_ExclusiveContent(t *testing.T) {
	_, err := run(t, "", "send", "--to", "1", "--text", "hi", "--template", "promo")
	assert.Error(t, err)
}

func TestRouter(t *testing.T) {
	cfg := whatsappx.DefaultConfig()
	cfg.AppSecret = "secret"
	cfg.VerifyToken = "verify"
	reg := prometheus.NewRegistry()
	cfg.Metrics = whatsappx.NewMetrics(reg)
	client := whatsappx.New(cfg)
	registerLogging(client, false)

	router := newRouter(client, reg, "/hooks/wa")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/hooks/wa?hub.mode=subscribe&hub.challenge=c1&hub.verify_token=verify", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c1", rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `wacloud_webhooks_total{kind="challenge",result="handled"} 1`)
}

func TestReadRecipients(t *testing.T) {
	path := filepath.Join(t.TempDir(), "to.txt")
	require.NoError(t, os.WriteFile(path, []byte("# customers\n111\n\n 222 \n333\n"), 0o600))

	got, err := readRecipients(context.Background(), nil, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"111", "222", "333"}, got)

	got, err = readRecipients(context.Background(), strings.NewReader("444\n"), "-")
	require.NoError(t, err)
	assert.Equal(t, []string{"444"}, got)

	_, err = readRecipients(context.Background(), nil, filepath.Join(t.TempDir(), "nope.txt"))
	assert.True(t, errx.IsCode(err, fsx.ErrNotFound))
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	results := []asyncx.Result[*whatsappx.SendResponse]{
		{Value: &whatsappx.SendResponse{Messages: []whatsappx.SentMessage{{ID: "wamid.A"}}}},
		{Err: errors.New("boom")},
	}

	failed := report(&buf, []string{"111", "222"}, results)
	assert.Equal(t, 1, failed)
	assert.Equal(t, "111\twamid.A\n222\terror: boom\n", buf.String())
}

func TestReport_GraphError(t *testing.T) {
	graphErr := errx.FromGraphResponse(&http.Response{
		StatusCode: http.StatusBadRequest,
		Body:       io.NopCloser(strings.NewReader(`{"error":{"message":"Recipient not allowed","code":131030,"fbtrace_id":"AbC"}}`)),
	})
	results := []asyncx.Result[*whatsappx.SendResponse]{{Err: graphErr}}

	var buf bytes.Buffer
	failed := report(&buf, []string{"333"}, results)
	assert.Equal(t, 1, failed)
	assert.Contains(t, buf.String(), "333\terror: ")
	assert.Contains(t, buf.String(), "Recipient not allowed (graph code 131030, fbtrace AbC)\n")

	assert.Empty(t, graphDetail(errors.New("boom")))
}

func TestReadAllRecipients(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.txt")
	second := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(first, []byte("111\n222\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("333\n"), 0o600))

	got, err := readAllRecipients(context.Background(), nil, []string{second, first})
	require.NoError(t, err)
	assert.Equal(t, []string{"333", "111", "222"}, got)

	_, err = readAllRecipients(context.Background(), nil, []string{first, filepath.Join(dir, "nope.txt")})
	assert.True(t, errx.IsCode(err, fsx.ErrNotFound))
}

type recordingPublisher struct {
	events []eventx.Event
}

func (p *recordingPublisher) PublishBatch(ctx context.Context, events []eventx.Event) error {
	p.events = append(p.events, events...)
	return nil
}

func TestReplay(t *testing.T) {
	original := eventx.NewEvent(whatsappx.EventStatus, map[string]string{"id": "wamid.A"},
		eventx.WithSource("whatsappx"), eventx.WithMetadata("phone_id", "PHONE"))
	line, err := eventx.ToJSON(original)
	require.NoError(t, err)

	pub := &recordingPublisher{}
	n, err := replay(context.Background(), strings.NewReader(string(line)+"\n\n"+string(line)+"\n"), pub)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, pub.events, 2)

	back := pub.events[0]
	assert.Equal(t, original.ID(), back.ID())
	assert.Equal(t, whatsappx.EventStatus, back.Type())
	assert.Equal(t, "whatsappx", back.Source())
	assert.Equal(t, "PHONE", back.Metadata()["phone_id"])

	again, err := eventx.ToJSON(back)
	require.NoError(t, err)
	assert.JSONEq(t, string(line), string(again))
}

func TestReplay_MalformedLine(t *testing.T) {
	pub := &recordingPublisher{}
	_, err := replay(context.Background(), strings.NewReader("{\"id\":\"1\",\"data\":{}}\nnot json\n"), pub)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.True(t, errx.IsCode(err, eventx.ErrSerializationFailed))
	assert.Empty(t, pub.events)
}

func TestReplayCommand_RequiresQueue(t *testing.T) {
	t.Setenv("WACLOUD_SQS_QUEUE", "")

	_, err := run(t, "", "replay")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue url is required")
}
