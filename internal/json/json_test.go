package json

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeRequest(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{name: "object", body: `{"name":"Pancakes"}`, want: "Pancakes"},
		{name: "trailing whitespace", body: "{\"name\":\"Pancakes\"}\n", want: "Pancakes"},
		{name: "empty", body: "", wantErr: ErrEmptyBody},
		{name: "two objects", body: `{"name":"a"}{"name":"b"}`, wantErr: ErrTrailingData},
		{name: "malformed", body: `{"name":`, wantErr: ErrMalformedJSON},
		{name: "wrong type", body: `{"name":5}`, wantErr: ErrMalformedJSON},
		{name: "too large", body: `{"name":"` + strings.Repeat("a", MaxBodySize) + `"}`, wantErr: ErrBodyTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var got body
			err := DecodeRequest(httptest.NewRecorder(), r, &got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}
