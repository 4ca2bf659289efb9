package recipes

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/shopping"
	"github.com/matt-dz/foodgram/internal/shortlink"
)

// ShortLinkPath is where short links are served, relative to the host.
const ShortLinkPath = "/s/"

// HandleDownloadShoppingCart godoc
//
//	@Summary		Download the shopping list.
//	@Description	Ingredients of every recipe in the cart, summed per name and unit.
//	@Tags			Recipes
//
//	@Produce		plain
//	@Success		200	{string}	string			"Shopping list"
//	@Failure		400	{object}	apiError.Error	"Empty shopping cart"
//	@Failure		401	{object}	apiError.Error	"Unauthorized"
//	@Security		TokenAuth
//	@Router			/api/recipes/download_shopping_cart [GET]
func HandleDownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	userID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		_ = apiError.EncodeError(w, apiError.NotAuthenticated, notAuthenticatedMessage, requestID)
		return
	}

	// Step 1: Load owner and cart
	user, err := env.Database.GetUser(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	items, err := env.Database.ListShoppingCartIngredients(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list shopping cart", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if len(items) == 0 {
		_ = apiError.EncodeError(w, apiError.EmptyShoppingCart, "shopping cart is empty", requestID)
		return
	}

	// Step 2: Aggregate and write
	lines := shopping.Aggregate(items)
	env.Logger.DebugContext(ctx, "Writing shopping list", slog.Int("lines", len(lines)))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", shopping.Filename(user.Username)))
	w.WriteHeader(http.StatusOK)
	if err := shopping.Write(w, user.FirstName, user.LastName, lines); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write shopping list", slog.Any("error", err))
	}
}

// HandleGetLink godoc
//
//	@Summary	Get a short link to a recipe.
//	@Tags		Recipes
//
//	@Produce	json
//	@Param		id	path		int	true	"Recipe ID"
//	@Success	200	{object}	GetLinkResponse
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Router		/api/recipes/{id}/get-link [GET]
func HandleGetLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	recipe, ok := getRecipe(w, r, env)
	if !ok {
		return
	}
	code, err := shortlink.Encode(recipe.ID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to encode short link", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	render.JSON(w, r, GetLinkResponse{ShortLink: env.Config.HostOrigin + ShortLinkPath + code + "/"})
}
