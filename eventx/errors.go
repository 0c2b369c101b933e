package eventx

import (
	"net/http"

	"github.com/Abraxas-365/wacloud/errx"
)

// ErrorRegistry holds eventx error definitions
var ErrorRegistry = errx.NewRegistry("EVENT")

var (
	ErrSerializationFailed  = ErrorRegistry.Register("SERIALIZATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to serialize event")
	ErrInvalidEventType     = ErrorRegistry.Register("INVALID_EVENT_TYPE", errx.TypeValidation, http.StatusBadRequest, "Event payload has an unexpected type")
	ErrHandlerFailed        = ErrorRegistry.Register("HANDLER_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Event handler failed")
	ErrPublishFailed        = ErrorRegistry.Register("PUBLISH_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to publish event")
	ErrInvalidConfiguration = ErrorRegistry.Register("INVALID_CONFIGURATION", errx.TypeValidation, http.StatusBadRequest, "Invalid publisher configuration")
)
