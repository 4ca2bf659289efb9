package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/mock/gomock"

	"github.com/matt-dz/foodgram/internal/api/apitest"
	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/argon2id"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/jwt"
)

var testParams = argon2id.ArgonParams{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func TestHandleLogin(t *testing.T) {
	hash, err := argon2id.EncodeHash("correct horse battery", testParams)
	if err != nil {
		t.Fatal(err)
	}
	user := database.User{ID: 9, Email: "chef@example.com", PasswordHash: hash, Role: database.RoleUser}

	tests := []struct {
		name       string
		body       string
		setupMock  func(*database.MockQuerier)
		wantStatus int
		wantCode   apiError.ErrorCode
	}{
		{
			name: "valid credentials",
			body: `{"email":"chef@example.com","password":"correct horse battery"}`,
			setupMock: func(m *database.MockQuerier) {
				m.EXPECT().GetUserByEmail(gomock.Any(), "chef@example.com").Return(user, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "wrong password",
			body: `{"email":"chef@example.com","password":"wrong"}`,
			setupMock: func(m *database.MockQuerier) {
				m.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiError.InvalidCredentials,
		},
		{
			name: "unknown email",
			body: `{"email":"nobody@example.com","password":"whatever"}`,
			setupMock: func(m *database.MockQuerier) {
				m.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(database.User{}, pgx.ErrNoRows)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiError.InvalidCredentials,
		},
		{
			name:       "missing password",
			body:       `{"email":"chef@example.com"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apiError.ValidationError,
		},
		{
			name:       "malformed body",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apiError.BadRequest,
		},
		{
			name: "database failure",
			body: `{"email":"chef@example.com","password":"x"}`,
			setupMock: func(m *database.MockQuerier) {
				m.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(database.User{}, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   apiError.InternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, mockDB := apitest.NewEnv(t)
			if tt.setupMock != nil {
				tt.setupMock(mockDB)
			}

			rec := apitest.Do(t, e, HandleLogin, apitest.Request{Method: http.MethodPost, Body: tt.body})
			apitest.Check(t, rec, tt.wantStatus, tt.wantCode)
			if tt.wantStatus != http.StatusOK {
				return
			}

			resp := apitest.Decode[LoginResponse](t, rec)
			claims, err := jwt.ValidateJWT(resp.AuthToken, jwt.DefaultKID, []byte(apitest.AppSecret))
			if err != nil {
				t.Fatalf("issued token is invalid: %v", err)
			}
			if id, _ := claims.UserID(); id != user.ID || claims.Role != "user" {
				t.Errorf("unexpected claims %+v", claims)
			}
		})
	}
}

func TestHandleLogout(t *testing.T) {
	tests := []struct {
		name       string
		caller     *apitest.Caller
		setupMock  func(*database.MockQuerier)
		wantStatus int
		wantCode   apiError.ErrorCode
	}{
		{
			name:   "revokes the token until it expires",
			caller: apitest.User(1),
			setupMock: func(m *database.MockQuerier) {
				m.EXPECT().RevokeToken(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, arg database.RevokeTokenParams) error {
						if arg.Jti != apitest.TokenID(1) {
							t.Errorf("jti = %q, want %q", arg.Jti, apitest.TokenID(1))
						}
						if !arg.ExpiresAt.Valid || !arg.ExpiresAt.Time.Equal(apitest.TokenExpiry) {
							t.Errorf("expires at = %v, want %v", arg.ExpiresAt.Time, apitest.TokenExpiry)
						}
						return nil
					})
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "database failure",
			caller: apitest.User(1),
			setupMock: func(m *database.MockQuerier) {
				m.EXPECT().RevokeToken(gomock.Any(), gomock.Any()).Return(errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   apiError.InternalServerError,
		},
		{
			name:       "no token",
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiError.InvalidAccessToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, mockDB := apitest.NewEnv(t)
			if tt.setupMock != nil {
				tt.setupMock(mockDB)
			}
			rec := apitest.Do(t, e, HandleLogout, apitest.Request{Method: http.MethodPost, Caller: tt.caller})
			apitest.Check(t, rec, tt.wantStatus, tt.wantCode)
		})
	}
}
