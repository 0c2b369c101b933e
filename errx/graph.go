package errx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// GraphError is the error object returned by the Graph API
// https://developers.facebook.com/docs/graph-api/guides/error-handling
type GraphError struct {
	Message      string          `json:"message"`
	Type         string          `json:"type,omitempty"`
	Code         int             `json:"code"`
	ErrorSubcode int             `json:"error_subcode,omitempty"`
	ErrorData    json.RawMessage `json:"error_data,omitempty"`
	FbtraceID    string          `json:"fbtrace_id,omitempty"`
}

type graphErrorEnvelope struct {
	Error *GraphError `json:"error"`
}

// FromGraphResponse turns a failed Graph API response into an Error.
// The body is consumed but not closed.
func FromGraphResponse(resp *http.Response) *Error {
	if resp == nil {
		return &Error{
			Code:       "GRAPH_NO_RESPONSE",
			Type:       TypeExternal,
			Message:    "No response from Graph API",
			HTTPStatus: http.StatusBadGateway,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return (&Error{
			Code:       "GRAPH_READ_FAILED",
			Type:       TypeExternal,
			Message:    "Error reading Graph API response body",
			HTTPStatus: resp.StatusCode,
		}).WithCause(err)
	}

	xerr := &Error{
		Code:       "GRAPH_ERROR",
		Type:       graphErrorType(resp.StatusCode),
		HTTPStatus: resp.StatusCode,
	}

	var envelope graphErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == nil {
		xerr.Message = http.StatusText(resp.StatusCode)
		return xerr.WithDetail("response_body", string(body))
	}

	xerr.Message = envelope.Error.Message
	return xerr.
		WithDetail("graph_error", envelope.Error).
		WithDetail("graph_code", envelope.Error.Code)
}

// GraphErrorOf extracts the Graph API error object attached to err
func GraphErrorOf(err error) (*GraphError, bool) {
	var xerr *Error
	if !errors.As(err, &xerr) || xerr.Details == nil {
		return nil, false
	}
	ge, ok := xerr.Details["graph_error"].(*GraphError)
	return ge, ok
}

func graphErrorType(status int) Type {
	switch status {
	case http.StatusTooManyRequests:
		return TypeRateLimit
	case http.StatusUnauthorized, http.StatusForbidden:
		return TypeAuthorization
	case http.StatusBadRequest:
		return TypeBadRequest
	default:
		return TypeExternal
	}
}
