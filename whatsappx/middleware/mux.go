package middleware

import (
	"net/http"

	"github.com/Abraxas-365/wacloud/whatsappx"
	"github.com/gorilla/mux"
)

// RegisterMux mounts the webhook on router at path for GET and POST
func RegisterMux(router *mux.Router, path string, client *whatsappx.Client) *mux.Route {
	return router.Handle(path, NewHandler(client)).Methods(http.MethodGet, http.MethodPost)
}
