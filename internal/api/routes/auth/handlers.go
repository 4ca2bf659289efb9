// Package auth contains handlers for the token endpoints
package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/jackc/pgx/v5/pgtype"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/request"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/argon2id"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/jwt"
	"github.com/matt-dz/foodgram/internal/role"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AuthToken string `json:"auth_token"`
}

// HandleLogin godoc
//
//	@Summary	Obtain an auth token.
//	@Tags		Auth
//
//	@Accept		json
//	@Produce	json
//	@Param		request	body	LoginRequest	true	"Login Request"
//
//	@Success	200	{object}	LoginResponse
//	@Failure	400	{object}	apiError.Error	"Invalid credentials"
//	@Failure	429	{object}	apiError.Error	"Too many requests"
//	@Router		/api/auth/token/login [POST]
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	// Decode JSON
	var req LoginRequest
	env.Logger.DebugContext(ctx, "Reading request body")
	if err := request.Decode(w, r, &req); err != nil {
		env.Logger.DebugContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeValidationError(w, err, requestID)
		return
	}

	// Retrieve user information
	env.Logger.DebugContext(ctx, "Retrieving user information")
	user, err := env.Database.GetUserByEmail(ctx, req.Email)
	if database.IsNotFound(err) {
		env.Logger.DebugContext(ctx, "User with email does not exist", slog.String("email", req.Email))
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "unable to log in with provided credentials", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to retrieve user information", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Comparing passwords
	env.Logger.DebugContext(ctx, "Comparing passwords")
	match, err := argon2id.Compare(req.Password, user.PasswordHash)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to compare password hash", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !match {
		env.Logger.DebugContext(ctx, "Given password is incorrect")
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "unable to log in with provided credentials", requestID)
		return
	}

	// Create access token
	env.Logger.DebugContext(ctx, "Generating access token")
	accessToken, err := token.CreateAccessToken(jwt.JWTParams{
		Role:   role.FromDatabase(user.Role),
		UserID: user.ID,
	}, env)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create access token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, LoginResponse{AuthToken: accessToken})
}

// HandleLogout godoc
//
//	@Summary		Revoke the auth token.
//	@Description	The token used for the request is refused from then on.
//	@Tags			Auth
//
//	@Success		204
//	@Failure		401	{object}	apiError.Error	"Unauthorized"
//	@Security		TokenAuth
//	@Router			/api/auth/token/logout [POST]
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	claims, ok := token.ClaimsFromCtx(ctx)
	if !ok || claims.ID == "" {
		env.Logger.DebugContext(ctx, "Missing token id in claims")
		_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
		return
	}

	// Keep the revocation until the token would have expired on its own
	expiresAt := time.Now().Add(jwt.JWTDuration)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	env.Logger.DebugContext(ctx, "Revoking access token", slog.String("jti", claims.ID))
	err := env.Database.RevokeToken(ctx, database.RevokeTokenParams{
		Jti:       claims.ID,
		ExpiresAt: pgtype.Timestamptz{Time: expiresAt, Valid: true},
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to revoke access token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
