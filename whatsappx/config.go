package whatsappx

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/wacloud/configx"
)

const (
	DefaultVersion = "v23.0"
	DefaultBaseURL = "https://graph.facebook.com"
	DefaultTimeout = 30 * time.Second
)

// Doer sends HTTP requests; *http.Client satisfies it
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HMACFunc computes a keyed SHA-256 digest of data
type HMACFunc func(key, data []byte) []byte

// Config configures a Client.
//
// Signature checks run by default; Insecure turns them off for Post. HMAC
// has no implicit default: leaving it nil makes verification fail with
// ErrMissingCryptoPrimitive. DefaultConfig fills it with HMACSHA256.
type Config struct {
	Token       string
	AppSecret   string
	VerifyToken string
	Version     string
	BaseURL     string
	Timeout     time.Duration
	Insecure    bool

	Doer    Doer
	HMAC    HMACFunc
	Metrics *Metrics
}

// DefaultConfig returns a Config with the standard capabilities filled in
func DefaultConfig() Config {
	return Config{
		Version: DefaultVersion,
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
		HMAC:    HMACSHA256,
	}
}

// ConfigFromSource reads the whatsapp.* keys on top of DefaultConfig.
//
//	whatsapp.token    WACLOUD_WHATSAPP_TOKEN
//	whatsapp.secret   WACLOUD_WHATSAPP_SECRET
//	whatsapp.verify   WACLOUD_WHATSAPP_VERIFY
//	whatsapp.version  WACLOUD_WHATSAPP_VERSION
//	whatsapp.secure   WACLOUD_WHATSAPP_SECURE
//	whatsapp.timeout  WACLOUD_WHATSAPP_TIMEOUT
//	whatsapp.baseurl  WACLOUD_WHATSAPP_BASEURL
func ConfigFromSource(src configx.Config) Config {
	cfg := DefaultConfig()
	cfg.Token = src.Get("whatsapp.token").AsString()
	cfg.AppSecret = src.Get("whatsapp.secret").AsString()
	cfg.VerifyToken = src.Get("whatsapp.verify").AsString()
	cfg.Version = src.Get("whatsapp.version").AsStringDefault(DefaultVersion)
	cfg.BaseURL = src.Get("whatsapp.baseurl").AsStringDefault(DefaultBaseURL)
	cfg.Timeout = src.Get("whatsapp.timeout").AsDurationDefault(DefaultTimeout)
	cfg.Insecure = !src.Get("whatsapp.secure").AsBoolDefault(true)
	return cfg
}
