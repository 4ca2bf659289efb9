// Package ingredients contains handlers for the ingredient resource.
package ingredients

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/request"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/serializer"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
)

type CreateIngredientRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
}

// HandleListIngredients godoc
//
//	@Summary		List ingredients.
//	@Description	Optionally filtered by a case-insensitive name prefix.
//	@Tags			Ingredients
//
//	@Produce		json
//	@Param			name	query	string	false	"Name prefix"
//	@Success		200		{array}	serializer.Ingredient
//	@Router			/api/ingredients [GET]
func HandleListIngredients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	prefix := strings.TrimSpace(r.URL.Query().Get("name"))
	env.Logger.DebugContext(ctx, "Listing ingredients", slog.String("prefix", prefix))
	ingredients, err := env.Database.ListIngredients(ctx, prefix)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list ingredients", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	render.JSON(w, r, serializer.NewIngredients(ingredients))
}

// HandleGetIngredient godoc
//
//	@Summary	Retrieve an ingredient.
//	@Tags		Ingredients
//
//	@Produce	json
//	@Param		id	path		int	true	"Ingredient ID"
//	@Success	200	{object}	serializer.Ingredient
//	@Failure	404	{object}	apiError.Error	"Ingredient not found"
//	@Router		/api/ingredients/{id} [GET]
func HandleGetIngredient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	id, err := request.PathID(r, "id")
	if err != nil {
		_ = apiError.EncodeError(w, apiError.IngredientNotFound, "ingredient not found", requestID)
		return
	}
	ingredient, err := env.Database.GetIngredient(ctx, id)
	if database.IsNotFound(err) {
		_ = apiError.EncodeError(w, apiError.IngredientNotFound, "ingredient not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get ingredient", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	render.JSON(w, r, serializer.NewIngredient(ingredient))
}

// HandleCreateIngredient godoc
//
//	@Summary	Create an ingredient.
//	@Tags		Ingredients
//
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateIngredientRequest	true	"Create Ingredient Request"
//	@Success	201		{object}	serializer.Ingredient
//	@Failure	400		{object}	apiError.Error	"Validation error"
//	@Failure	403		{object}	apiError.Error	"Insufficient permissions"
//	@Security	TokenAuth
//	@Router		/api/ingredients [POST]
func HandleCreateIngredient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	var req CreateIngredientRequest
	if err := request.Decode(w, r, &req); err != nil {
		env.Logger.DebugContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeValidationError(w, err, requestID)
		return
	}

	ingredient, err := env.Database.CreateIngredient(ctx, database.CreateIngredientParams{
		Name:            req.Name,
		MeasurementUnit: req.MeasurementUnit,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create ingredient", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	env.Logger.InfoContext(ctx, "ingredient created", slog.Int64("id", ingredient.ID))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, serializer.NewIngredient(ingredient))
}
