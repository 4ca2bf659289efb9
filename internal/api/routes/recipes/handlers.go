// Package recipes contains handlers for the recipes endpoint.
package recipes

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/render"
	"github.com/jackc/pgx/v5/pgtype"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/pagination"
	"github.com/matt-dz/foodgram/internal/api/request"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/serializer"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/filestore"
	"github.com/matt-dz/foodgram/internal/form"
)

const (
	tagsParam             = "tags"
	authorParam           = "author"
	isFavoritedParam      = "is_favorited"
	isInShoppingCartParam = "is_in_shopping_cart"
)

const notAuthenticatedMessage = "authentication credentials were not provided"

// HandleListRecipes godoc
//
//	@Summary		List recipes.
//	@Description	Newest first. The favorited and shopping cart filters apply to the
//	@Description	authenticated caller and are ignored for anonymous requests.
//	@Tags			Recipes
//
//	@Produce		json
//	@Param			page				query		int			false	"Page number"
//	@Param			limit				query		int			false	"Page size"
//	@Param			tags				query		[]string	false	"Tag slugs"	collectionFormat(multi)
//	@Param			author				query		int			false	"Author ID"
//	@Param			is_favorited		query		int			false	"Only favorited recipes (1)"
//	@Param			is_in_shopping_cart	query		int			false	"Only recipes in the shopping cart (1)"
//	@Success		200					{object}	pagination.Response[serializer.Recipe]
//	@Failure		400					{object}	apiError.Error	"Invalid page, author or unknown tag"
//	@Router			/api/recipes [GET]
func HandleListRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	viewer := serializer.ViewerFromCtx(ctx)

	// Step 1: Build filter
	page, err := pagination.FromRequest(r)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, err.Error(), requestID)
		return
	}
	filter := database.RecipeFilter{}
	if slugs := r.URL.Query()[tagsParam]; len(slugs) > 0 {
		slices.Sort(slugs)
		filter.TagSlugs = slices.Compact(slugs)
	}
	if raw := r.URL.Query().Get(authorParam); raw != "" {
		authorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			_ = apiError.EncodeFieldError(w, apiError.ValidationError, authorParam, "enter a whole number", requestID)
			return
		}
		filter.AuthorID = pgtype.Int8{Int64: authorID, Valid: true}
	}
	if viewer.Authenticated {
		if request.QueryBool(r, isFavoritedParam) {
			filter.FavoritedBy = pgtype.Int8{Int64: viewer.ID, Valid: true}
		}
		if request.QueryBool(r, isInShoppingCartParam) {
			filter.InCartOf = pgtype.Int8{Int64: viewer.ID, Valid: true}
		}
	}

	// Step 2: Reject unknown tags
	if len(filter.TagSlugs) > 0 {
		known, err := env.Database.CountTagsBySlugs(ctx, filter.TagSlugs)
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to count tags", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		if known != int64(len(filter.TagSlugs)) {
			env.Logger.DebugContext(ctx, "Unknown tag slug in filter", slog.Any("slugs", filter.TagSlugs))
			_ = apiError.EncodeFieldError(w, apiError.ValidationError, tagsParam,
				"select a valid choice, one of the tags does not exist", requestID)
			return
		}
	}

	// Step 3: Load page
	env.Logger.DebugContext(ctx, "Listing recipes")
	count, err := env.Database.CountRecipes(ctx, filter)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to count recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	recipes, err := env.Database.ListRecipes(ctx, database.ListRecipesParams{
		RecipeFilter: filter,
		Limit:        page.Limit,
		Offset:       page.Offset(),
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Step 4: Serialize
	results, err := serializer.NewRecipes(ctx, env, viewer, recipes)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to serialize recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	render.JSON(w, r, pagination.New(r, env.Config.HostOrigin, page, count, results))
}

// HandleGetRecipe godoc
//
//	@Summary	Retrieve a recipe.
//	@Tags		Recipes
//
//	@Produce	json
//	@Param		id	path		int	true	"Recipe ID"
//	@Success	200	{object}	serializer.Recipe
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Router		/api/recipes/{id} [GET]
func HandleGetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	recipe, ok := getRecipe(w, r, env)
	if !ok {
		return
	}
	writeRecipe(w, r, env, recipe, http.StatusOK)
}

// HandleCreateRecipe godoc
//
//	@Summary	Create a recipe.
//	@Tags		Recipes
//
//	@Accept		json
//	@Produce	json
//	@Param		request	body		RecipeRequest	true	"Recipe"
//	@Success	201		{object}	serializer.Recipe
//	@Failure	400		{object}	apiError.Error	"Validation error"
//	@Failure	401		{object}	apiError.Error	"Unauthorized"
//	@Security	TokenAuth
//	@Router		/api/recipes [POST]
func HandleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	userID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		_ = apiError.EncodeError(w, apiError.NotAuthenticated, notAuthenticatedMessage, requestID)
		return
	}

	// Step 1: Decode and validate
	req, ok := decodeRecipe(w, r, env, true)
	if !ok {
		return
	}

	// Step 2: Store image
	key, ok := writeImage(w, r, env, req.Image)
	if !ok {
		return
	}

	// Step 3: Create recipe
	env.Logger.DebugContext(ctx, "Creating recipe")
	recipeID, err := env.Database.CreateRecipe(ctx, database.CreateRecipeParams{
		AuthorID:    userID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       pgtype.Text{String: key, Valid: true},
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Ingredients: req.ingredientAmounts(),
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create recipe", slog.Any("error", err))
		removeFile(r, env, key)
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	env.Logger.InfoContext(ctx, "recipe created", slog.Int64("recipe-id", recipeID))

	recipe, err := env.Database.GetRecipe(ctx, recipeID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get created recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	writeRecipe(w, r, env, recipe, http.StatusCreated)
}

// HandleUpdateRecipe godoc
//
//	@Summary		Update a recipe.
//	@Description	Tags and ingredients are replaced. Omitting the image keeps the current one.
//	@Tags			Recipes
//
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int				true	"Recipe ID"
//	@Param			request	body		RecipeRequest	true	"Recipe"
//	@Success		200		{object}	serializer.Recipe
//	@Failure		400		{object}	apiError.Error	"Validation error"
//	@Failure		401		{object}	apiError.Error	"Unauthorized"
//	@Failure		403		{object}	apiError.Error	"Not the author"
//	@Failure		404		{object}	apiError.Error	"Recipe not found"
//	@Security		TokenAuth
//	@Router			/api/recipes/{id} [PATCH]
func HandleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	// Step 1: Load recipe and check ownership
	recipe, ok := getRecipe(w, r, env)
	if !ok {
		return
	}
	allowed, err := canModify(ctx, env, recipe)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to check recipe permissions", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !allowed {
		_ = apiError.EncodeError(w, apiError.RecipeNotOwned, "you can only change your own recipes", requestID)
		return
	}

	// Step 2: Decode and validate
	req, ok := decodeRecipe(w, r, env, false)
	if !ok {
		return
	}

	// Step 3: Store replacement image
	var image pgtype.Text
	if req.Image != "" {
		key, ok := writeImage(w, r, env, req.Image)
		if !ok {
			return
		}
		image = pgtype.Text{String: key, Valid: true}
	}

	// Step 4: Update recipe
	env.Logger.DebugContext(ctx, "Updating recipe", slog.Int64("recipe-id", recipe.ID))
	err = env.Database.UpdateRecipe(ctx, database.UpdateRecipeParams{
		ID:          recipe.ID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       image,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Ingredients: req.ingredientAmounts(),
	})
	if err != nil {
		if image.Valid {
			removeFile(r, env, image.String)
		}
		if database.IsNotFound(err) {
			_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
			return
		}
		env.Logger.ErrorContext(ctx, "failed to update recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if image.Valid && recipe.Image.Valid {
		removeFile(r, env, recipe.Image.String)
	}

	updated, err := env.Database.GetRecipe(ctx, recipe.ID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get updated recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	writeRecipe(w, r, env, updated, http.StatusOK)
}

// HandleDeleteRecipe godoc
//
//	@Summary	Delete a recipe.
//	@Tags		Recipes
//
//	@Param		id	path	int	true	"Recipe ID"
//	@Success	204
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	403	{object}	apiError.Error	"Not the author"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Security	TokenAuth
//	@Router		/api/recipes/{id} [DELETE]
func HandleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	recipe, ok := getRecipe(w, r, env)
	if !ok {
		return
	}
	allowed, err := canModify(ctx, env, recipe)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to check recipe permissions", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !allowed {
		_ = apiError.EncodeError(w, apiError.RecipeNotOwned, "you can only delete your own recipes", requestID)
		return
	}

	if err := env.Database.DeleteRecipe(ctx, recipe.ID); err != nil {
		env.Logger.ErrorContext(ctx, "failed to delete recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if recipe.Image.Valid {
		removeFile(r, env, recipe.Image.String)
	}
	env.Logger.InfoContext(ctx, "recipe deleted", slog.Int64("recipe-id", recipe.ID))
	w.WriteHeader(http.StatusNoContent)
}

// getRecipe loads the recipe named by the id URL parameter, writing a 404
// when there is none.
func getRecipe(w http.ResponseWriter, r *http.Request, env *env.Env) (database.Recipe, bool) {
	ctx := r.Context()
	requestID := requestid.ExtractRequestID(ctx)

	id, err := request.PathID(r, "id")
	if err != nil {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return database.Recipe{}, false
	}
	recipe, err := env.Database.GetRecipe(ctx, id)
	if database.IsNotFound(err) {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return database.Recipe{}, false
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return database.Recipe{}, false
	}
	return recipe, true
}

func writeRecipe(w http.ResponseWriter, r *http.Request, env *env.Env, recipe database.Recipe, status int) {
	ctx := r.Context()
	resp, err := serializer.NewRecipe(ctx, env, serializer.ViewerFromCtx(ctx), recipe)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to serialize recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestid.ExtractRequestID(ctx))
		return
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}

// decodeRecipe decodes and validates a recipe body, including that every
// referenced tag and ingredient exists.
func decodeRecipe(w http.ResponseWriter, r *http.Request, env *env.Env, imageRequired bool) (RecipeRequest, bool) {
	ctx := r.Context()
	requestID := requestid.ExtractRequestID(ctx)

	var req RecipeRequest
	if err := request.Decode(w, r, &req); err != nil {
		env.Logger.DebugContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeValidationError(w, err, requestID)
		return RecipeRequest{}, false
	}
	if imageRequired && req.Image == "" {
		_ = apiError.EncodeFieldError(w, apiError.ValidationError, "image", "this field is required", requestID)
		return RecipeRequest{}, false
	}

	tagCount, err := env.Database.CountTagsByIDs(ctx, req.Tags)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to count tags", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return RecipeRequest{}, false
	}
	if tagCount != int64(len(req.Tags)) {
		_ = apiError.EncodeFieldError(w, apiError.ValidationError, "tags", "one or more tags do not exist", requestID)
		return RecipeRequest{}, false
	}

	ingredientCount, err := env.Database.CountIngredientsByIDs(ctx, req.ingredientIDs())
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to count ingredients", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return RecipeRequest{}, false
	}
	if ingredientCount != int64(len(req.Ingredients)) {
		_ = apiError.EncodeFieldError(w, apiError.ValidationError, "ingredients",
			"one or more ingredients do not exist", requestID)
		return RecipeRequest{}, false
	}
	return req, true
}

// writeImage decodes a data URI image and stores it, returning its key.
func writeImage(w http.ResponseWriter, r *http.Request, env *env.Env, dataURI string) (string, bool) {
	ctx := r.Context()
	requestID := requestid.ExtractRequestID(ctx)

	image, err := form.DecodeImage(dataURI)
	if err != nil {
		env.Logger.DebugContext(ctx, "Failed to decode image", slog.Any("error", err))
		_ = apiError.EncodeFieldError(w, apiError.InvalidImage, "image", err.Error(), requestID)
		return "", false
	}
	env.Logger.DebugContext(ctx, "Writing image", slog.Int64("size", image.Size), slog.String("mime", image.MimeType))
	key, err := env.FileStore.WriteRecipeImage(ctx, image.Suffix, image.Data)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to write image", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return "", false
	}
	return key, true
}

func removeFile(r *http.Request, env *env.Env, key string) {
	ctx := r.Context()
	if err := env.FileStore.DeleteKey(ctx, key); err != nil && !errors.Is(err, filestore.ErrNotExist) {
		env.Logger.WarnContext(ctx, "failed to delete file", slog.String("key", key), slog.Any("error", err))
	}
}
