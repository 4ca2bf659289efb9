// Package shortlink contains the handler that resolves short recipe links.
package shortlink

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/shortlink"
)

// HandleRedirect godoc
//
//	@Summary		Follow a short link.
//	@Description	Redirects to the recipe page. The recipe is not looked up.
//	@Tags			Recipes
//
//	@Param			code	path	string	true	"Short link code"
//	@Success		302
//	@Failure		400	{object}	apiError.Error	"Invalid code"
//	@Router			/s/{code} [GET]
func HandleRedirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	code := chi.URLParam(r, "code")
	id, err := shortlink.Decode(code)
	if err != nil {
		env.Logger.DebugContext(ctx, "Invalid short link", slog.String("code", code), slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.InvalidShortLink, "invalid short link", requestID)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/recipes/%d/", id), http.StatusFound)
}
