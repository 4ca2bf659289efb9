// Package apitest provides helpers for exercising handlers in tests.
package apitest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	gojwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/mock/gomock"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/filestore"
	"github.com/matt-dz/foodgram/internal/jwt"
	"github.com/matt-dz/foodgram/internal/log"
	"github.com/matt-dz/foodgram/internal/role"
)

const (
	AppSecret  = "test-secret-32-bytes-long-12345"
	HostOrigin = "http://localhost:8080"
	RequestID  = "01TESTREQUEST"

	// PNGDataURI is a 1x1 transparent PNG.
	PNGDataURI = "data:image/png;base64," +
		"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="
)

// NewEnv returns an Env backed by a mock database and a local file store in
// a temporary directory.
func NewEnv(t *testing.T) (*env.Env, *database.MockQuerier) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockQuerier(ctrl)

	secret := config.AppSecretValue(AppSecret)
	e := env.New(&config.Config{
		AppSecret:  config.AppSecret{Value: &secret, Version: jwt.DefaultKID},
		HostOrigin: HostOrigin,
	})
	e.Logger = log.NullLogger()
	e.Database = mockDB
	e.FileStore = filestore.New(t.TempDir(), filestore.DefaultURLPrefix, HostOrigin)
	return e, mockDB
}

// Caller is the authenticated user a request is made as.
type Caller struct {
	ID   int64
	Role role.Role
}

// TokenExpiry is the expiry of every caller's token.
var TokenExpiry = time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)

// TokenID is the token id carried by the claims of caller id.
func TokenID(id int64) string { return fmt.Sprintf("token-%d", id) }

func User(id int64) *Caller  { return &Caller{ID: id, Role: role.RoleUser} }
func Admin(id int64) *Caller { return &Caller{ID: id, Role: role.RoleAdmin} }

// Request describes a handler invocation.
type Request struct {
	Method string
	Target string
	Body   string
	Params map[string]string
	Caller *Caller
}

// Do invokes handler directly with the context the router and middleware
// would have prepared.
func Do(t *testing.T, e *env.Env, handler http.HandlerFunc, req Request) *httptest.ResponseRecorder {
	t.Helper()
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	if req.Target == "" {
		req.Target = "/"
	}
	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}
	r := httptest.NewRequest(req.Method, req.Target, body)

	rctx := chi.NewRouteContext()
	for k, v := range req.Params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = env.WithCtx(ctx, e)
	ctx = requestid.InjectRequestID(ctx, RequestID)
	if req.Caller != nil {
		ctx = token.UserIDWithCtx(ctx, req.Caller.ID)
		ctx = token.ClaimsWithCtx(ctx, &jwt.Claims{
			RegisteredClaims: gojwt.RegisteredClaims{
				ID:        TokenID(req.Caller.ID),
				Subject:   fmt.Sprint(req.Caller.ID),
				ExpiresAt: gojwt.NewNumericDate(TokenExpiry),
			},
			Role: req.Caller.Role.String(),
		})
	}

	rec := httptest.NewRecorder()
	handler(rec, r.WithContext(ctx))
	return rec
}

// Decode unmarshals the response body into a T.
func Decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return v
}

// ErrorCode returns the code of an error response.
func ErrorCode(t *testing.T, rec *httptest.ResponseRecorder) apiError.ErrorCode {
	t.Helper()
	return Decode[apiError.Error](t, rec).Code
}

// Check fails the test if the response does not have wantStatus, or for
// error responses, wantCode.
func Check(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantCode apiError.ErrorCode) {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, wantStatus, rec.Body.String())
	}
	if wantCode != "" {
		if code := ErrorCode(t, rec); code != wantCode {
			t.Errorf("code = %q, want %q", code, wantCode)
		}
	}
}
