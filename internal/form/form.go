// Package form decodes the inline images submitted in JSON forms as
// base64 data URIs.
package form

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	magicNumberSeek = 512
	dataURIPrefix   = "data:"
	base64Marker    = ";base64,"
)

// allowedImageTypes lists the simple MIME types we accept. SVG is left out
// since uploads are served from the API origin and SVG can carry script.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var mimeTypeSuffix = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var (
	ErrUnsupportedMimeType = errors.New("unsupported mime type")
	ErrInvalidDataURI      = errors.New("invalid data uri")
	ErrEmptyImage          = errors.New("empty image")
)

type File struct {
	Size     int64
	Data     []byte
	Suffix   string
	MimeType string
}

// DecodeImage decodes a data:image/<type>;base64,<payload> string. The
// content type is sniffed from the payload rather than trusted from the
// header.
func DecodeImage(dataURI string) (*File, error) {
	dataURI = strings.TrimSpace(dataURI)
	if !strings.HasPrefix(dataURI, dataURIPrefix) {
		return nil, fmt.Errorf("missing %q prefix: %w", dataURIPrefix, ErrInvalidDataURI)
	}
	header, payload, found := strings.Cut(dataURI[len(dataURIPrefix):], base64Marker)
	if !found {
		return nil, fmt.Errorf("missing %q marker: %w", base64Marker, ErrInvalidDataURI)
	}
	declared := strings.ToLower(header)
	if !strings.HasPrefix(declared, "image/") {
		return nil, fmt.Errorf("declared type %q: %w", header, ErrUnsupportedMimeType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.Join(ErrInvalidDataURI, fmt.Errorf("decoding payload: %w", err))
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	return ReadImage(data)
}

// ReadImage validates raw image bytes.
func ReadImage(data []byte) (*File, error) {
	contentType := http.DetectContentType(data[:min(len(data), magicNumberSeek)])
	if !allowedImageTypes[contentType] {
		return nil, fmt.Errorf("mime type %q: %w", contentType, ErrUnsupportedMimeType)
	}

	return &File{
		Size:     int64(len(data)),
		MimeType: contentType,
		Suffix:   mimeTypeSuffix[contentType],
		Data:     data,
	}, nil
}
