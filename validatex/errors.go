package validatex

import (
	"net/http"

	"github.com/Abraxas-365/wacloud/errx"
)

// ErrorRegistry holds the coded errors returned by every rule in this package
var ErrorRegistry = errx.NewRegistry("VALIDATION")

var (
	ErrRequired    = ErrorRegistry.Register("REQUIRED", errx.TypeValidation, http.StatusBadRequest, "Value is required")
	ErrLength      = ErrorRegistry.Register("LENGTH", errx.TypeValidation, http.StatusBadRequest, "Value length is out of bounds")
	ErrCount       = ErrorRegistry.Register("COUNT", errx.TypeValidation, http.StatusBadRequest, "Number of items is out of bounds")
	ErrDuplicate   = ErrorRegistry.Register("DUPLICATE", errx.TypeValidation, http.StatusBadRequest, "Items must be unique")
	ErrFormat      = ErrorRegistry.Register("FORMAT", errx.TypeValidation, http.StatusBadRequest, "Value has an invalid format")
	ErrRange       = ErrorRegistry.Register("RANGE", errx.TypeValidation, http.StatusBadRequest, "Value is out of range")
	ErrExclusive   = ErrorRegistry.Register("EXCLUSIVE", errx.TypeValidation, http.StatusBadRequest, "Exactly one option must be set")
	ErrComposition = ErrorRegistry.Register("COMPOSITION", errx.TypeValidation, http.StatusBadRequest, "Invalid combination of components")
)

func fieldError(code errx.Code, field string, format string, args ...any) *errx.Error {
	return ErrorRegistry.NewWithMessage(code, format, args...).WithDetail("field", field)
}

// Fail builds a composition error for rules that span several fields
func Fail(field string, format string, args ...any) error {
	return fieldError(ErrComposition, field, format, args...)
}
