package whatsappx

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const okSendBody = `{"messaging_product":"whatsapp","contacts":[{"input":"1","wa_id":"1"}],"messages":[{"id":"wamid.OUT"}]}`

type recorded struct {
	url  string
	auth string
	body map[string]any
	at   time.Time
}

// fakeDoer records requests and answers with a canned response
type fakeDoer struct {
	mu     sync.Mutex
	reqs   []recorded
	status int
	reply  string
}

func newFakeDoer() *fakeDoer {
	return &fakeDoer{status: http.StatusOK, reply: okSendBody}
}

func (d *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.reqs = append(d.reqs, recorded{
		url:  req.URL.String(),
		auth: req.Header.Get("Authorization"),
		body: body,
		at:   time.Now(),
	})
	status, reply := d.status, d.reply
	d.mu.Unlock()

	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(reply)),
	}, nil
}

func (d *fakeDoer) requests() []recorded {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]recorded(nil), d.reqs...)
}

func newTestClient(t *testing.T, doer Doer) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Token = "token"
	cfg.AppSecret = "secret"
	cfg.VerifyToken = "verify"
	cfg.BaseURL = "https://graph.test"
	cfg.Doer = doer
	c := New(cfg)
	require.NotNil(t, c)
	return c
}

const messagePayload = `{
	"object":"whatsapp_business_account",
	"entry":[{"id":"WABA","changes":[{"field":"messages","value":{
		"messaging_product":"whatsapp",
		"metadata":{"display_phone_number":"15550000000","phone_number_id":"PHONE"},
		"contacts":[{"profile":{"name":"José"},"wa_id":"5491100"}],
		"messages":[{"from":"5491100","id":"wamid.IN","timestamp":"1700000000","type":"text","text":{"body":"hola"}}]
	}}]}]
}`

const statusPayload = `{
	"object":"whatsapp_business_account",
	"entry":[{"id":"WABA","changes":[{"field":"messages","value":{
		"messaging_product":"whatsapp",
		"metadata":{"display_phone_number":"15550000000","phone_number_id":"PHONE"},
		"statuses":[{"id":"wamid.OUT","status":"failed","timestamp":"1700000001","recipient_id":"5491100",
			"biz_opaque_callback_data":"campaign-7",
			"errors":[{"code":131047,"title":"Re-engagement message"}]}]
	}}]}]
}`

const callPayload = `{
	"object":"whatsapp_business_account",
	"entry":[{"id":"WABA","changes":[{"field":"calls","value":{
		"messaging_product":"whatsapp",
		"metadata":{"display_phone_number":"15550000000","phone_number_id":"PHONE"},
		"contacts":[{"profile":{"name":"Ana"},"wa_id":"5491200"}],
		"calls":[{"id":"wacid.1","from":"5491200","to":"15550000000","event":"connect","timestamp":"1700000002"}]
	}}]}]
}`
