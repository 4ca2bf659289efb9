package token

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/jwt"
	"github.com/matt-dz/foodgram/internal/role"
)

func testEnv(secret string) *env.Env {
	conf := &config.Config{}
	if secret != "" {
		val := config.AppSecretValue(secret)
		conf.AppSecret.Value = &val
	}
	return env.New(conf)
}

func TestParseAuthorizationHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "token scheme", header: "Token abc", want: "abc"},
		{name: "bearer scheme", header: "Bearer abc", want: "abc"},
		{name: "lower case scheme", header: "token abc", want: "abc"},
		{name: "missing header", header: "", wantErr: ErrMissingToken},
		{name: "no scheme", header: "abc", wantErr: ErrInvalidScheme},
		{name: "unknown scheme", header: "Basic abc", wantErr: ErrInvalidScheme},
		{name: "empty token", header: "Token   ", wantErr: ErrMissingToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set(AuthorizationHeader, tt.header)
			}
			got, err := ParseAuthorizationHeader(r)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreateAccessToken(t *testing.T) {
	const secret = "test-secret-32-bytes-long-12345"
	raw, err := CreateAccessToken(jwt.JWTParams{UserID: 42, Role: role.RoleUser}, testEnv(secret))
	if err != nil {
		t.Fatalf("CreateAccessToken() error = %v", err)
	}
	claims, err := jwt.ValidateJWT(raw, jwt.DefaultKID, []byte(secret))
	if err != nil {
		t.Fatalf("ValidateJWT() error = %v", err)
	}
	if id, _ := claims.UserID(); id != 42 {
		t.Errorf("user id = %d", id)
	}

	if _, err := CreateAccessToken(jwt.JWTParams{UserID: 1}, testEnv("")); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("error = %v, want %v", err, ErrMissingSecret)
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if _, ok := UserIDFromCtx(ctx); ok {
		t.Fatal("expected no user id")
	}
	ctx = UserIDWithCtx(ctx, 7)
	if id, ok := UserIDFromCtx(ctx); !ok || id != 7 {
		t.Errorf("UserIDFromCtx() = %d, %v", id, ok)
	}
	ctx = ClaimsWithCtx(ctx, &jwt.Claims{Role: "admin"})
	if claims, ok := ClaimsFromCtx(ctx); !ok || claims.Role != "admin" {
		t.Errorf("ClaimsFromCtx() = %+v, %v", claims, ok)
	}
}
