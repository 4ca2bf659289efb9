// Package token contains utilities for access tokens.
package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/jwt"
)

const (
	AuthorizationHeader = "Authorization"
	TokenScheme         = "Token"
	BearerScheme        = "Bearer"
)

var (
	ErrMissingToken  = errors.New("missing authorization token")
	ErrInvalidScheme = errors.New("invalid authorization scheme")
	ErrMissingSecret = errors.New("app secret not configured")
)

type userIDKeyType struct{}

var userIDKey userIDKeyType

type claimsKeyType struct{}

var claimsKey claimsKeyType

func UserIDWithCtx(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromCtx returns the authenticated user id, if any.
func UserIDFromCtx(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

func ClaimsWithCtx(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromCtx(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*jwt.Claims)
	return claims, ok && claims != nil
}

func CreateAccessToken(params jwt.JWTParams, env *env.Env) (string, error) {
	secret, version := env.AppSecret()
	if len(secret) == 0 {
		return "", ErrMissingSecret
	}
	if version == "" {
		version = jwt.DefaultKID
	}
	token, err := jwt.GenerateJWT(params, secret, version)
	if err != nil {
		return "", fmt.Errorf("generating access token: %w", err)
	}
	return token, nil
}

// ParseAuthorizationHeader extracts the raw token from an
// "Authorization: Token <jwt>" or "Authorization: Bearer <jwt>" header.
func ParseAuthorizationHeader(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get(AuthorizationHeader))
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, raw, found := strings.Cut(header, " ")
	if !found {
		return "", ErrInvalidScheme
	}
	if !strings.EqualFold(scheme, TokenScheme) && !strings.EqualFold(scheme, BearerScheme) {
		return "", ErrInvalidScheme
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissingToken
	}
	return raw, nil
}
