// Package users contains handlers for the user resource.
package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/jackc/pgx/v5/pgtype"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/pagination"
	"github.com/matt-dz/foodgram/internal/api/request"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/serializer"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/argon2id"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/filestore"
	"github.com/matt-dz/foodgram/internal/form"
	"github.com/matt-dz/foodgram/internal/password"
)

const recipesLimitParam = "recipes_limit"

const notAuthenticatedMessage = "authentication credentials were not provided"

// HashParams are the argon2id parameters new password hashes are made with.
var HashParams = argon2id.DefaultParams

// HandleListUsers godoc
//
//	@Summary	List users.
//	@Tags		Users
//
//	@Produce	json
//	@Param		page	query		int	false	"Page number"
//	@Param		limit	query		int	false	"Page size"
//	@Success	200		{object}	pagination.Response[serializer.User]
//	@Failure	400		{object}	apiError.Error	"Invalid pagination"
//	@Router		/api/users [GET]
func HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	page, err := pagination.FromRequest(r)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, err.Error(), requestID)
		return
	}

	// Load page
	env.Logger.DebugContext(ctx, "Counting users")
	count, err := env.Database.CountUsers(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to count users", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	env.Logger.DebugContext(ctx, "Listing users")
	users, err := env.Database.ListUsers(ctx, database.ListUsersParams{
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list users", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	results, err := serializer.NewUsers(ctx, env, serializer.ViewerFromCtx(ctx), users)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to serialize users", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	render.JSON(w, r, pagination.New(r, env.Config.HostOrigin, page, count, results))
}

// HandleRegister godoc
//
//	@Summary	Register a user.
//	@Tags		Users
//
//	@Accept		json
//	@Produce	json
//	@Param		request	body		RegisterRequest	true	"Register Request"
//	@Success	201		{object}	RegisterResponse
//	@Failure	400		{object}	apiError.Error	"Validation error"
//	@Router		/api/users [POST]
func HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	// Decode JSON
	var req RegisterRequest
	env.Logger.DebugContext(ctx, "Reading request body")
	if err := request.Decode(w, r, &req); err != nil {
		env.Logger.DebugContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeValidationError(w, err, requestID)
		return
	}
	req.Email = strings.ToLower(req.Email)

	// Ensure password strength
	env.Logger.DebugContext(ctx, "Validating password")
	if err := password.ValidatePassword(req.Password, req.Username, req.Email, req.FirstName, req.LastName); err != nil {
		env.Logger.DebugContext(ctx, "Password rejected", slog.Any("error", err))
		_ = apiError.EncodeFieldError(w, apiError.WeakPassword, "password", err.Error(), requestID)
		return
	}

	// Hash password
	env.Logger.DebugContext(ctx, "Hashing password")
	hash, err := argon2id.EncodeHash(req.Password, HashParams)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Create user
	env.Logger.DebugContext(ctx, "Creating user")
	user, err := env.Database.CreateUser(ctx, database.CreateUserParams{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	})
	if database.IsUniqueViolation(err, database.ConstraintUserEmail) {
		env.Logger.DebugContext(ctx, "User with email already exists", slog.Any("error", err))
		_ = apiError.EncodeFieldError(w, apiError.EmailConflict, "email",
			"a user with that email already exists", requestID)
		return
	} else if database.IsUniqueViolation(err, database.ConstraintUserUsername) {
		env.Logger.DebugContext(ctx, "User with username already exists", slog.Any("error", err))
		_ = apiError.EncodeFieldError(w, apiError.UsernameConflict, "username",
			"a user with that username already exists", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	env.Logger.InfoContext(ctx, "user registered", slog.Int64("id", user.ID))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, RegisterResponse{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

// HandleGetUser godoc
//
//	@Summary	Retrieve a user.
//	@Tags		Users
//
//	@Produce	json
//	@Param		id	path		int	true	"User ID"
//	@Success	200	{object}	serializer.User
//	@Failure	404	{object}	apiError.Error	"User not found"
//	@Router		/api/users/{id} [GET]
func HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	id, err := request.PathID(r, "id")
	if err != nil {
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	}
	writeUser(w, r, env, id)
}

// HandleMe godoc
//
//	@Summary	Retrieve the current user.
//	@Tags		Users
//
//	@Produce	json
//	@Success	200	{object}	serializer.User
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Security	TokenAuth
//	@Router		/api/users/me [GET]
func HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	userID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		_ = apiError.EncodeError(w, apiError.NotAuthenticated, notAuthenticatedMessage, requestid.ExtractRequestID(ctx))
		return
	}
	writeUser(w, r, env, userID)
}

func writeUser(w http.ResponseWriter, r *http.Request, env *env.Env, id int64) {
	ctx := r.Context()
	requestID := requestid.ExtractRequestID(ctx)

	env.Logger.DebugContext(ctx, "Retrieving user", slog.Int64("id", id))
	user, err := env.Database.GetUser(ctx, id)
	if database.IsNotFound(err) {
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	resp, err := serializer.NewUser(ctx, env, serializer.ViewerFromCtx(ctx), user)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to serialize user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	render.JSON(w, r, resp)
}

// HandleSetPassword godoc
//
//	@Summary	Change the current user's password.
//	@Tags		Users
//
//	@Accept		json
//	@Param		request	body	SetPasswordRequest	true	"Set Password Request"
//	@Success	204
//	@Failure	400	{object}	apiError.Error	"Validation error"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Security	TokenAuth
//	@Router		/api/users/set_password [POST]
func HandleSetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	userID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		_ = apiError.EncodeError(w, apiError.NotAuthenticated, notAuthenticatedMessage, requestID)
		return
	}

	// Decode JSON
	var req SetPasswordRequest
	if err := request.Decode(w, r, &req); err != nil {
		env.Logger.DebugContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeValidationError(w, err, requestID)
		return
	}

	// Verify current password
	user, err := env.Database.GetUser(ctx, userID)
	if database.IsNotFound(err) {
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	match, err := argon2id.Compare(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to compare password hash", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !match {
		_ = apiError.EncodeFieldError(w, apiError.InvalidPassword, "current_password", "invalid password", requestID)
		return
	}

	// Ensure password strength
	if err := password.ValidatePassword(req.NewPassword,
		user.Username, user.Email, user.FirstName, user.LastName); err != nil {
		_ = apiError.EncodeFieldError(w, apiError.WeakPassword, "new_password", err.Error(), requestID)
		return
	}

	// Store new hash
	hash, err := argon2id.EncodeHash(req.NewPassword, HashParams)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if err := env.Database.UpdateUserPassword(ctx, database.UpdateUserPasswordParams{
		ID:           userID,
		PasswordHash: hash,
	}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to update password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.InfoContext(ctx, "password changed")
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetAvatar godoc
//
//	@Summary	Replace the current user's avatar.
//	@Tags		Users
//
//	@Accept		json
//	@Produce	json
//	@Param		request	body		AvatarRequest	true	"Avatar as a base64 data URI"
//	@Success	200		{object}	AvatarResponse
//	@Failure	400		{object}	apiError.Error	"Invalid image"
//	@Failure	401		{object}	apiError.Error	"Unauthorized"
//	@Security	TokenAuth
//	@Router		/api/users/me/avatar [PUT]
func HandleSetAvatar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	userID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		_ = apiError.EncodeError(w, apiError.NotAuthenticated, notAuthenticatedMessage, requestID)
		return
	}

	// Decode JSON
	var req AvatarRequest
	if err := request.Decode(w, r, &req); err != nil {
		env.Logger.DebugContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeValidationError(w, err, requestID)
		return
	}
	image, err := form.DecodeImage(req.Avatar)
	if err != nil {
		env.Logger.DebugContext(ctx, "Failed to decode avatar", slog.Any("error", err))
		_ = apiError.EncodeFieldError(w, apiError.InvalidImage, "avatar", err.Error(), requestID)
		return
	}

	user, err := env.Database.GetUser(ctx, userID)
	if database.IsNotFound(err) {
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Store image
	env.Logger.DebugContext(ctx, "Writing avatar", slog.Int64("size", image.Size))
	key, err := env.FileStore.WriteAvatarImage(ctx, image.Suffix, image.Data)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to write avatar", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if err := env.Database.UpdateUserAvatar(ctx, database.UpdateUserAvatarParams{
		ID:     userID,
		Avatar: pgtype.Text{String: key, Valid: true},
	}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to update avatar", slog.Any("error", err))
		removeFile(r, env, key)
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if user.Avatar.Valid {
		removeFile(r, env, user.Avatar.String)
	}

	url := env.FileStore.FileURL(key)
	render.JSON(w, r, AvatarResponse{Avatar: &url})
}

// HandleDeleteAvatar godoc
//
//	@Summary	Remove the current user's avatar.
//	@Tags		Users
//
//	@Success	204
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Security	TokenAuth
//	@Router		/api/users/me/avatar [DELETE]
func HandleDeleteAvatar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	userID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		_ = apiError.EncodeError(w, apiError.NotAuthenticated, notAuthenticatedMessage, requestID)
		return
	}

	user, err := env.Database.GetUser(ctx, userID)
	if database.IsNotFound(err) {
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if user.Avatar.Valid {
		if err := env.Database.UpdateUserAvatar(ctx, database.UpdateUserAvatarParams{ID: userID}); err != nil {
			env.Logger.ErrorContext(ctx, "failed to clear avatar", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		removeFile(r, env, user.Avatar.String)
	}
	w.WriteHeader(http.StatusNoContent)
}

// removeFile deletes a stored file that is no longer referenced. Failures
// are logged.
func removeFile(r *http.Request, env *env.Env, key string) {
	ctx := r.Context()
	if err := env.FileStore.DeleteKey(ctx, key); err != nil && !errors.Is(err, filestore.ErrNotExist) {
		env.Logger.WarnContext(ctx, "failed to delete file", slog.String("key", key), slog.Any("error", err))
	}
}
