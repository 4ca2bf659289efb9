// Package ping contains handlers for pinging the server
package ping

import (
	"net/http"

	"github.com/go-chi/render"
)

type PingResponse struct {
	Status string `json:"status"`
}

// HandlePing godoc
//
//	@Summary	Ping endpoint.
//	@Tags		Ping
//
//	@Produce	json
//	@Success	200	{object}	PingResponse
//	@Router		/api/ping [GET]
func HandlePing(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, PingResponse{Status: "ok"})
}
