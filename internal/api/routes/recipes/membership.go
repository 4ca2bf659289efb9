package recipes

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/serializer"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
)

// membership describes a per-user recipe list: favorites or the shopping
// cart.
type membership struct {
	name       string
	constraint string
	already    apiError.ErrorCode
	missing    apiError.ErrorCode
	check      func(database.Querier, context.Context, database.UserRecipeParams) (bool, error)
	create     func(database.Querier, context.Context, database.UserRecipeParams) error
	remove     func(database.Querier, context.Context, database.UserRecipeParams) (int64, error)
}

var favorites = membership{
	name:       "favorites",
	constraint: database.ConstraintFavorite,
	already:    apiError.AlreadyFavorited,
	missing:    apiError.NotFavorited,
	check:      database.Querier.CheckFavorite,
	create:     database.Querier.CreateFavorite,
	remove:     database.Querier.DeleteFavorite,
}

var shoppingCart = membership{
	name:       "shopping cart",
	constraint: database.ConstraintShoppingCart,
	already:    apiError.AlreadyInShoppingCart,
	missing:    apiError.NotInShoppingCart,
	check:      database.Querier.CheckShoppingCart,
	create:     database.Querier.CreateShoppingCartItem,
	remove:     database.Querier.DeleteShoppingCartItem,
}

func (m membership) add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	userID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		_ = apiError.EncodeError(w, apiError.NotAuthenticated, notAuthenticatedMessage, requestID)
		return
	}

	// Step 1: Load recipe
	recipe, ok := getRecipe(w, r, env)
	if !ok {
		return
	}
	params := database.UserRecipeParams{UserID: userID, RecipeID: recipe.ID}

	// Step 2: Reject duplicates
	exists, err := m.check(env.Database, ctx, params)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to check "+m.name, slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if exists {
		_ = apiError.EncodeError(w, m.already, "recipe is already in "+m.name, requestID)
		return
	}

	// Step 3: Add
	if err := m.create(env.Database, ctx, params); err != nil {
		if database.IsUniqueViolation(err, m.constraint) {
			_ = apiError.EncodeError(w, m.already, "recipe is already in "+m.name, requestID)
			return
		}
		env.Logger.ErrorContext(ctx, "failed to add to "+m.name, slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	env.Logger.InfoContext(ctx, "recipe added to "+m.name, slog.Int64("recipe-id", recipe.ID))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, serializer.NewShortRecipe(env, recipe))
}

func (m membership) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	userID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		_ = apiError.EncodeError(w, apiError.NotAuthenticated, notAuthenticatedMessage, requestID)
		return
	}

	recipe, ok := getRecipe(w, r, env)
	if !ok {
		return
	}

	removed, err := m.remove(env.Database, ctx, database.UserRecipeParams{UserID: userID, RecipeID: recipe.ID})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to remove from "+m.name, slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if removed == 0 {
		_ = apiError.EncodeError(w, m.missing, "recipe is not in "+m.name, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddFavorite godoc
//
//	@Summary	Add a recipe to favorites.
//	@Tags		Recipes
//
//	@Produce	json
//	@Param		id	path		int	true	"Recipe ID"
//	@Success	201	{object}	serializer.ShortRecipe
//	@Failure	400	{object}	apiError.Error	"Already favorited"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Security	TokenAuth
//	@Router		/api/recipes/{id}/favorite [POST]
func HandleAddFavorite(w http.ResponseWriter, r *http.Request) {
	favorites.add(w, r)
}

// HandleRemoveFavorite godoc
//
//	@Summary	Remove a recipe from favorites.
//	@Tags		Recipes
//
//	@Param		id	path	int	true	"Recipe ID"
//	@Success	204
//	@Failure	400	{object}	apiError.Error	"Not favorited"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Security	TokenAuth
//	@Router		/api/recipes/{id}/favorite [DELETE]
func HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	favorites.delete(w, r)
}

// HandleAddToShoppingCart godoc
//
//	@Summary	Add a recipe to the shopping cart.
//	@Tags		Recipes
//
//	@Produce	json
//	@Param		id	path		int	true	"Recipe ID"
//	@Success	201	{object}	serializer.ShortRecipe
//	@Failure	400	{object}	apiError.Error	"Already in the shopping cart"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Security	TokenAuth
//	@Router		/api/recipes/{id}/shopping_cart [POST]
func HandleAddToShoppingCart(w http.ResponseWriter, r *http.Request) {
	shoppingCart.add(w, r)
}

// HandleRemoveFromShoppingCart godoc
//
//	@Summary	Remove a recipe from the shopping cart.
//	@Tags		Recipes
//
//	@Param		id	path	int	true	"Recipe ID"
//	@Success	204
//	@Failure	400	{object}	apiError.Error	"Not in the shopping cart"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Security	TokenAuth
//	@Router		/api/recipes/{id}/shopping_cart [DELETE]
func HandleRemoveFromShoppingCart(w http.ResponseWriter, r *http.Request) {
	shoppingCart.delete(w, r)
}
