// Package tags contains handlers for the tag resource.
package tags

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/request"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/serializer"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
)

const defaultColor = "#000000"

type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"omitempty,rgbhex"`
	Slug  string `json:"slug" validate:"required,max=200,slug"`
}

// HandleListTags godoc
//
//	@Summary	List tags.
//	@Tags		Tags
//
//	@Produce	json
//	@Success	200	{array}	serializer.Tag
//	@Router		/api/tags [GET]
func HandleListTags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	tags, err := env.Database.ListTags(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list tags", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	render.JSON(w, r, serializer.NewTags(tags))
}

// HandleGetTag godoc
//
//	@Summary	Retrieve a tag.
//	@Tags		Tags
//
//	@Produce	json
//	@Param		id	path		int	true	"Tag ID"
//	@Success	200	{object}	serializer.Tag
//	@Failure	404	{object}	apiError.Error	"Tag not found"
//	@Router		/api/tags/{id} [GET]
func HandleGetTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	id, err := request.PathID(r, "id")
	if err != nil {
		_ = apiError.EncodeError(w, apiError.TagNotFound, "tag not found", requestID)
		return
	}
	tag, err := env.Database.GetTag(ctx, id)
	if database.IsNotFound(err) {
		_ = apiError.EncodeError(w, apiError.TagNotFound, "tag not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get tag", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	render.JSON(w, r, serializer.NewTag(tag))
}

// HandleCreateTag godoc
//
//	@Summary	Create a tag.
//	@Tags		Tags
//
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateTagRequest	true	"Create Tag Request"
//	@Success	201		{object}	serializer.Tag
//	@Failure	400		{object}	apiError.Error	"Validation error or duplicate slug"
//	@Failure	403		{object}	apiError.Error	"Insufficient permissions"
//	@Security	TokenAuth
//	@Router		/api/tags [POST]
func HandleCreateTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	var req CreateTagRequest
	if err := request.Decode(w, r, &req); err != nil {
		env.Logger.DebugContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeValidationError(w, err, requestID)
		return
	}
	if req.Color == "" {
		req.Color = defaultColor
	}

	tag, err := env.Database.CreateTag(ctx, database.CreateTagParams{
		Name:  req.Name,
		Color: req.Color,
		Slug:  req.Slug,
	})
	if database.IsUniqueViolation(err, database.ConstraintTagSlug) {
		_ = apiError.EncodeFieldError(w, apiError.TagConflict, "slug", "a tag with that slug already exists", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create tag", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	env.Logger.InfoContext(ctx, "tag created", slog.Int64("id", tag.ID), slog.String("slug", tag.Slug))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, serializer.NewTag(tag))
}
