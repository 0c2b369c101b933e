package middleware

import (
	"io"
	"net/http"

	"github.com/Abraxas-365/wacloud/logx"
	"github.com/Abraxas-365/wacloud/whatsappx"
)

var log = logx.Named("whatsappx")

// NewHandler serves the webhook endpoint with net/http
func NewHandler(client *whatsappx.Client) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			challenge, err := client.Get(r.URL.Query())
			if err != nil {
				writeError(w, err)
				return
			}
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, challenge)

		case http.MethodPost:
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				badRequest("Could not read request body", err).ToHTTP(w)
				return
			}
			_, err = client.Post(r.Context(), whatsappx.Request{
				RawBody:   body,
				Signature: r.Header.Get(whatsappx.SignatureHeader),
			})
			if err != nil {
				writeError(w, err)
				return
			}
			w.WriteHeader(http.StatusOK)

		default:
			w.Header().Set("Allow", "GET, POST")
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func writeError(w http.ResponseWriter, err error) {
	xerr := asWebhookError(err)
	if xerr == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	if statusOf(xerr) >= http.StatusInternalServerError {
		log.Error("webhook failed: %v", err)
	}
	xerr.ToHTTP(w)
}
