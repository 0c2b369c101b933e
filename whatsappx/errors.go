package whatsappx

import (
	"net/http"

	"github.com/Abraxas-365/wacloud/errx"
)

// ErrorRegistry holds whatsappx error definitions
var ErrorRegistry = errx.NewRegistry("WHATSAPP")

// Webhook errors
var (
	ErrMissingRawBody         = ErrorRegistry.Register("MISSING_RAW_BODY", errx.TypeBadRequest, http.StatusBadRequest, "Request body is required in secure mode")
	ErrMissingSignature       = ErrorRegistry.Register("MISSING_SIGNATURE", errx.TypeAuthorization, http.StatusUnauthorized, "X-Hub-Signature-256 header is required in secure mode")
	ErrFailedToVerify         = ErrorRegistry.Register("FAILED_TO_VERIFY", errx.TypeAuthorization, http.StatusUnauthorized, "Webhook signature does not match")
	ErrMissingAppSecret       = ErrorRegistry.Register("MISSING_APP_SECRET", errx.TypeInternal, http.StatusInternalServerError, "App secret is not configured")
	ErrMissingCryptoPrimitive = ErrorRegistry.Register("MISSING_CRYPTO_PRIMITIVE", errx.TypeUnavailable, http.StatusNotImplemented, "No HMAC implementation is configured")
	ErrUnexpectedData         = ErrorRegistry.Register("UNEXPECTED_DATA", errx.TypeBadRequest, http.StatusBadRequest, "Webhook payload has an unrecognized shape")
	ErrMissingVerifyToken     = ErrorRegistry.Register("MISSING_VERIFY_TOKEN", errx.TypeInternal, http.StatusInternalServerError, "Verify token is not configured")
	ErrMissingSearchParams    = ErrorRegistry.Register("MISSING_SEARCH_PARAMS", errx.TypeBadRequest, http.StatusBadRequest, "hub.mode, hub.challenge and hub.verify_token are required")
	ErrFailedToVerifyToken    = ErrorRegistry.Register("FAILED_TO_VERIFY_TOKEN", errx.TypeAuthorization, http.StatusForbidden, "Verify token does not match")
)

// Outbound errors
var (
	ErrInvalidBroadcast = ErrorRegistry.Register("INVALID_BROADCAST", errx.TypeValidation, http.StatusBadRequest, "Invalid broadcast parameters")
	ErrRequestFailed    = ErrorRegistry.Register("REQUEST_FAILED", errx.TypeExternal, http.StatusBadGateway, "Request to the Cloud API failed")
	ErrDecodeResponse   = ErrorRegistry.Register("DECODE_RESPONSE", errx.TypeExternal, http.StatusBadGateway, "Could not decode Cloud API response")
)
