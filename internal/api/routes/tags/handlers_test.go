package tags

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

func TestHandleListTags(t *testing.T) {
	e, mockDB := apitest.NewEnv(t)
	mockDB.EXPECT().ListTags(gomock.Any()).Return([]database.Tag{
		{ID: 1, Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
		{ID: 2, Name: "Dinner", Color: "#49B64E", Slug: "dinner"},
	}, nil)

	rec := apitest.Do(t, e, HandleListTags, apitest.Request{})
	apitest.Check(t, rec, http.StatusOK, "")
	if tags := apitest.Decode[[]serializer.Tag](t, rec); len(tags) != 2 || tags[1].Slug != "dinner" {
		t.Errorf("unexpected tags %+v", tags)
	}
}

func TestHandleListTags_Empty(t *testing.T) {
	e, mockDB := apitest.NewEnv(t)
	mockDB.EXPECT().ListTags(gomock.Any()).Return(nil, nil)

	rec := apitest.Do(t, e, HandleListTags, apitest.Request{})
	apitest.Check(t, rec, http.StatusOK, "")
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want empty array", body)
	}
}

func TestHandleGetTag(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		err        error
		wantStatus int
		wantCode   apiError.ErrorCode
	}{
		{name: "found", id: "1", wantStatus: http.StatusOK},
		{name: "missing", id: "1", err: pgx.ErrNoRows, wantStatus: http.StatusNotFound, wantCode: apiError.TagNotFound},
		{name: "database error", id: "1", err: errors.New("boom"), wantStatus: http.StatusInternalServerError,
			wantCode: apiError.InternalServerError},
		{name: "malformed id", id: "x", wantStatus: http.StatusNotFound, wantCode: apiError.TagNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, mockDB := apitest.NewEnv(t)
			if tt.id != "x" {
				mockDB.EXPECT().GetTag(gomock.Any(), int64(1)).Return(database.Tag{ID: 1, Slug: "lunch"}, tt.err)
			}
			rec := apitest.Do(t, e, HandleGetTag, apitest.Request{Params: map[string]string{"id": tt.id}})
			apitest.Check(t, rec, tt.wantStatus, tt.wantCode)
		})
	}
}

func TestHandleCreateTag(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(*database.MockQuerier)
		wantStatus int
		wantCode   apiError.ErrorCode
	}{
		{
			name: "created with default color",
			body: `{"name":"Lunch","slug":"lunch"}`,
			setupMock: func(m *database.MockQuerier) {
				m.EXPECT().CreateTag(gomock.Any(), database.CreateTagParams{Name: "Lunch", Color: "#000000", Slug: "lunch"}).
					Return(database.Tag{ID: 3, Name: "Lunch", Color: "#000000", Slug: "lunch"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate slug",
			body: `{"name":"Lunch","color":"#FFAA00","slug":"lunch"}`,
			setupMock: func(m *database.MockQuerier) {
				m.EXPECT().CreateTag(gomock.Any(), gomock.Any()).
					Return(database.Tag{}, &pgconn.PgError{Code: "23505", ConstraintName: database.ConstraintTagSlug})
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiError.TagConflict,
		},
		{
			name:       "invalid color",
			body:       `{"name":"Lunch","color":"red","slug":"lunch"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apiError.ValidationError,
		},
		{
			name:       "invalid slug",
			body:       `{"name":"Lunch","slug":"lunch time"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apiError.ValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, mockDB := apitest.NewEnv(t)
			if tt.setupMock != nil {
				tt.setupMock(mockDB)
			}
			rec := apitest.Do(t, e, HandleCreateTag, apitest.Request{
				Method: http.MethodPost,
				Body:   tt.body,
				Caller: apitest.Admin(1),
			})
			apitest.Check(t, rec, tt.wantStatus, tt.wantCode)
		})
	}
}
