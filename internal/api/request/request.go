// Package request holds the decoding steps shared by the handlers.
package request

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matt-dz/foodgram/internal/api/validation"
	mJson "github.com/matt-dz/foodgram/internal/json"
)

var ErrInvalidID = errors.New("invalid id")

// Decode reads a JSON body into dst and validates it. Validation failures
// are returned as validator.ValidationErrors.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	if err := mJson.DecodeRequest(w, r, dst); err != nil {
		return err
	}
	return validation.Struct(dst)
}

// PathID parses the positive integer URL parameter name.
func PathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}

// QueryInt parses an optional non-negative integer query parameter.
func QueryInt(r *http.Request, name string) (value int32, present bool, err error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || n < 0 {
		return 0, false, fmt.Errorf("invalid %s %q", name, raw)
	}
	return int32(n), true, nil
}

// QueryBool reports whether the query parameter name is set to a true value
// ("1" or "true").
func QueryBool(r *http.Request, name string) bool {
	switch r.URL.Query().Get(name) {
	case "1", "true", "True":
		return true
	default:
		return false
	}
}
