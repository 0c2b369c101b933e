/*
Package errx provides coded, typed errors with HTTP status mapping.

Each package owns a Registry with a prefix and registers the errors it can
return:

	var (
		Registry = errx.NewRegistry("WHATSAPP")

		ErrFailedToVerify = Registry.Register("FAILED_TO_VERIFY", errx.TypeAuthorization,
			http.StatusUnauthorized, "Request signature does not match")
	)

	return Registry.New(ErrFailedToVerify).WithDetail("phone_id", id)

Callers match on codes or categories:

	if errx.IsCode(err, whatsappx.ErrUnexpectedData) { ... }
	if errx.IsType(err, errx.TypeValidation) { ... }

Errors carry the status a host adapter should answer with (HTTPStatus, ToHTTP,
ToFiber). Failed Graph API responses are converted with FromGraphResponse,
which keeps the vendor error object under the "graph_error" detail.
*/
package errx
