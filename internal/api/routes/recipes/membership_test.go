package recipes

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/mock/gomock"

	"github.com/matt-dz/foodgram/internal/api/apitest"
	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/serializer"
	"github.com/matt-dz/foodgram/internal/database"
)

func TestHandleAddFavorite(t *testing.T) {
	params := database.UserRecipeParams{UserID: 8, RecipeID: pancakes.ID}
	tests := []struct {
		name       string
		setupMock  func(*database.MockQuerier)
		wantStatus int
		wantCode   apiError.ErrorCode
	}{
		{
			name: "added",
			setupMock: func(m *database.MockQuerier) {
				m.EXPECT().GetRecipe(gomock.Any(), pancakes.ID).Return(pancakes, nil)
				m.EXPECT().CheckFavorite(gomock.Any(), params).Return(false, nil)
				m.EXPECT().CreateFavorite(gomock.Any(), params).Return(nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "already favorited",
			setupMock: func(m *database.MockQuerier) {
				m.EXPECT().GetRecipe(gomock.Any(), pancakes.ID).Return(pancakes, nil)
				m.EXPECT().CheckFavorite(gomock.Any(), params).Return(true, nil)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiError.AlreadyFavorited,
		},
		{
			name: "lost race",
			setupMock: func(m *database.MockQuerier) {
				m.EXPECT().GetRecipe(gomock.Any(), pancakes.ID).Return(pancakes, nil)
				m.EXPECT().CheckFavorite(gomock.Any(), params).Return(false, nil)
				m.EXPECT().CreateFavorite(gomock.Any(), params).
					Return(&pgconn.PgError{Code: "23505", ConstraintName: database.ConstraintFavorite})
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiError.AlreadyFavorited,
		},
		{
			name: "recipe missing",
			setupMock: func(m *database.MockQuerier) {
				m.EXPECT().GetRecipe(gomock.Any(), pancakes.ID).Return(database.Recipe{}, pgx.ErrNoRows)
			},
			wantStatus: http.StatusNotFound,
			wantCode:   apiError.RecipeNotFound,
		},
		{
			name: "database error",
			setupMock: func(m *database.MockQuerier) {
				m.EXPECT().GetRecipe(gomock.Any(), pancakes.ID).Return(pancakes, nil)
				m.EXPECT().CheckFavorite(gomock.Any(), params).Return(false, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   apiError.InternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, mockDB := apitest.NewEnv(t)
			tt.setupMock(mockDB)
			rec := apitest.Do(t, e, HandleAddFavorite, apitest.Request{
				Method: http.MethodPost,
				Params: map[string]string{"id": "42"},
				Caller: apitest.User(8),
			})
			apitest.Check(t, rec, tt.wantStatus, tt.wantCode)
			if tt.wantStatus == http.StatusCreated {
				short := apitest.Decode[serializer.ShortRecipe](t, rec)
				if short.ID != pancakes.ID || short.CookingTime != pancakes.CookingTime {
					t.Errorf("unexpected short recipe %+v", short)
				}
			}
		})
	}
}

func TestHandleRemoveFavorite(t *testing.T) {
	tests := []struct {
		name       string
		removed    int64
		wantStatus int
		wantCode   apiError.ErrorCode
	}{
		{name: "removed", removed: 1, wantStatus: http.StatusNoContent},
		{name: "not favorited", removed: 0, wantStatus: http.StatusBadRequest, wantCode: apiError.NotFavorited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, mockDB := apitest.NewEnv(t)
			mockDB.EXPECT().GetRecipe(gomock.Any(), pancakes.ID).Return(pancakes, nil)
			mockDB.EXPECT().DeleteFavorite(gomock.Any(), database.UserRecipeParams{UserID: 8, RecipeID: pancakes.ID}).
				Return(tt.removed, nil)

			rec := apitest.Do(t, e, HandleRemoveFavorite, apitest.Request{
				Method: http.MethodDelete,
				Params: map[string]string{"id": "42"},
				Caller: apitest.User(8),
			})
			apitest.Check(t, rec, tt.wantStatus, tt.wantCode)
		})
	}
}

func TestHandleShoppingCartMembership(t *testing.T) {
	params := database.UserRecipeParams{UserID: 8, RecipeID: pancakes.ID}

	t.Run("add", func(t *testing.T) {
		e, mockDB := apitest.NewEnv(t)
		mockDB.EXPECT().GetRecipe(gomock.Any(), pancakes.ID).Return(pancakes, nil)
		mockDB.EXPECT().CheckShoppingCart(gomock.Any(), params).Return(false, nil)
		mockDB.EXPECT().CreateShoppingCartItem(gomock.Any(), params).Return(nil)

		rec := apitest.Do(t, e, HandleAddToShoppingCart, apitest.Request{
			Method: http.MethodPost,
			Params: map[string]string{"id": "42"},
			Caller: apitest.User(8),
		})
		apitest.Check(t, rec, http.StatusCreated, "")
	})

	t.Run("add twice", func(t *testing.T) {
		e, mockDB := apitest.NewEnv(t)
		mockDB.EXPECT().GetRecipe(gomock.Any(), pancakes.ID).Return(pancakes, nil)
		mockDB.EXPECT().CheckShoppingCart(gomock.Any(), params).Return(true, nil)

		rec := apitest.Do(t, e, HandleAddToShoppingCart, apitest.Request{
			Method: http.MethodPost,
			Params: map[string]string{"id": "42"},
			Caller: apitest.User(8),
		})
		apitest.Check(t, rec, http.StatusBadRequest, apiError.AlreadyInShoppingCart)
	})

	t.Run("remove missing", func(t *testing.T) {
		e, mockDB := apitest.NewEnv(t)
		mockDB.EXPECT().GetRecipe(gomock.Any(), pancakes.ID).Return(pancakes, nil)
		mockDB.EXPECT().DeleteShoppingCartItem(gomock.Any(), params).Return(int64(0), nil)

		rec := apitest.Do(t, e, HandleRemoveFromShoppingCart, apitest.Request{
			Method: http.MethodDelete,
			Params: map[string]string{"id": "42"},
			Caller: apitest.User(8),
		})
		apitest.Check(t, rec, http.StatusBadRequest, apiError.NotInShoppingCart)
	})

	t.Run("anonymous", func(t *testing.T) {
		e, _ := apitest.NewEnv(t)
		rec := apitest.Do(t, e, HandleAddToShoppingCart, apitest.Request{
			Method: http.MethodPost,
			Params: map[string]string{"id": "42"},
		})
		apitest.Check(t, rec, http.StatusUnauthorized, apiError.NotAuthenticated)
	})
}
