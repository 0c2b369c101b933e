// Package middleware connects a whatsappx.Client to HTTP hosts: net/http,
// gorilla/mux, Fiber and AWS Lambda behind API Gateway.
//
// Every adapter answers GET with the subscription challenge and POST with
// the webhook pipeline. Unrecognized payloads are acknowledged with 200 so
// Meta does not keep retrying them; other errors use the status carried by
// the errx error, or 500.
package middleware

import (
	"errors"
	"net/http"

	"github.com/Abraxas-365/wacloud/errx"
	"github.com/Abraxas-365/wacloud/whatsappx"
)

// maxBodyBytes bounds webhook bodies read into memory
const maxBodyBytes = 3 << 20

// asWebhookError maps a pipeline error to the error the host should render.
// It returns nil when the request must be acknowledged with 200.
func asWebhookError(err error) *errx.Error {
	if err == nil || errx.IsCode(err, whatsappx.ErrUnexpectedData) {
		return nil
	}
	var xerr *errx.Error
	if errors.As(err, &xerr) {
		return xerr
	}
	return errx.Wrap(err, "Webhook handler failed", errx.TypeInternal)
}

func statusOf(xerr *errx.Error) int {
	if xerr == nil {
		return http.StatusOK
	}
	return errx.HTTPStatus(xerr)
}

func badRequest(message string, cause error) *errx.Error {
	xerr := errx.New(message, errx.TypeBadRequest).WithCause(cause)
	xerr.HTTPStatus = http.StatusBadRequest
	return xerr
}
