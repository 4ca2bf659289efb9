package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    Page
		wantErr error
	}{
		{name: "defaults", query: "", want: Page{Number: 1, Limit: DefaultLimit}},
		{name: "explicit", query: "?page=3&limit=10", want: Page{Number: 3, Limit: 10}},
		{name: "clamped limit", query: "?limit=1000", want: Page{Number: 1, Limit: MaxLimit}},
		{name: "zero page", query: "?page=0", wantErr: ErrInvalidPage},
		{name: "garbage page", query: "?page=abc", wantErr: ErrInvalidPage},
		{name: "negative limit", query: "?limit=-1", wantErr: ErrInvalidLimit},
		{name: "offset overflows", query: "?page=2147483647&limit=100", wantErr: ErrInvalidPage},
		{name: "offset overflows with default limit", query: "?page=400000000", wantErr: ErrInvalidPage},
		{name: "largest offset", query: "?page=21474837&limit=100", want: Page{Number: 21474837, Limit: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromRequest(httptest.NewRequest("GET", "/api/recipes/"+tt.query, nil))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, int32(0), Page{Number: 1, Limit: 6}.Offset())
	assert.Equal(t, int32(12), Page{Number: 3, Limit: 6}.Offset())
}

func TestNew(t *testing.T) {
	const origin = "https://foodgram.example"

	t.Run("middle page", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/recipes?page=2&limit=2&tags=lunch", nil)
		resp := New(r, origin, Page{Number: 2, Limit: 2}, 5, []int{3, 4})
		require.NotNil(t, resp.Next)
		require.NotNil(t, resp.Previous)
		assert.Equal(t, "https://foodgram.example/api/recipes?limit=2&page=3&tags=lunch", *resp.Next)
		assert.Equal(t, "https://foodgram.example/api/recipes?limit=2&tags=lunch", *resp.Previous)
		assert.Equal(t, int64(5), resp.Count)
	})

	t.Run("last page", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/users?page=3&limit=2", nil)
		resp := New(r, origin, Page{Number: 3, Limit: 2}, 5, []int{5})
		assert.Nil(t, resp.Next)
		assert.NotNil(t, resp.Previous)
	})

	t.Run("empty results are not null", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/users", nil)
		resp := New[int](r, origin, Page{Number: 1, Limit: 6}, 0, nil)
		assert.NotNil(t, resp.Results)
		assert.Nil(t, resp.Next)
		assert.Nil(t, resp.Previous)
	})
}
