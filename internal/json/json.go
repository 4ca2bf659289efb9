// Package json contains utilities for handling JSON.
package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodySize bounds request bodies. Images are sent inline.
const MaxBodySize = 10 << 20

var (
	ErrEmptyBody     = errors.New("request body is empty")
	ErrTrailingData  = errors.New("unexpected data after JSON object")
	ErrBodyTooLarge  = errors.New("request body is too large")
	ErrMalformedJSON = errors.New("malformed JSON")
)

// DecodeJSON decodes exactly one JSON value from decoder into dst.
func DecodeJSON(dst any, decoder *json.Decoder) error {
	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return ErrEmptyBody
		case errors.As(err, &maxErr):
			return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxErr.Limit)
		default:
			return errors.Join(ErrMalformedJSON, err)
		}
	}

	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}
	return nil
}

// DecodeRequest decodes the JSON body of r into dst.
func DecodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	return DecodeJSON(dst, json.NewDecoder(r.Body))
}
