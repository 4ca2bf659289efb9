package form

import (
	"encoding/base64"
	"errors"
	"testing"
)

// 1x1 transparent PNG.
var pngBytes, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==")

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func TestDecodeImage(t *testing.T) {
	svg := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"></svg>`)

	tests := []struct {
		name       string
		input      string
		wantErr    error
		wantMime   string
		wantSuffix string
	}{
		{
			name:       "png",
			input:      dataURI("image/png", pngBytes),
			wantMime:   "image/png",
			wantSuffix: ".png",
		},
		{
			name:       "declared type is not trusted",
			input:      dataURI("image/jpeg", pngBytes),
			wantMime:   "image/png",
			wantSuffix: ".png",
		},
		{
			name:    "svg is rejected",
			input:   dataURI("image/svg+xml", svg),
			wantErr: ErrUnsupportedMimeType,
		},
		{
			name:    "svg payload declared as png",
			input:   dataURI("image/png", svg),
			wantErr: ErrUnsupportedMimeType,
		},
		{
			name:    "text payload",
			input:   dataURI("image/png", []byte("hello world")),
			wantErr: ErrUnsupportedMimeType,
		},
		{
			name:    "non image declared type",
			input:   dataURI("text/plain", pngBytes),
			wantErr: ErrUnsupportedMimeType,
		},
		{
			name:    "missing prefix",
			input:   base64.StdEncoding.EncodeToString(pngBytes),
			wantErr: ErrInvalidDataURI,
		},
		{
			name:    "missing base64 marker",
			input:   "data:image/png," + base64.StdEncoding.EncodeToString(pngBytes),
			wantErr: ErrInvalidDataURI,
		},
		{
			name:    "bad base64",
			input:   "data:image/png;base64,@@@",
			wantErr: ErrInvalidDataURI,
		},
		{
			name:    "empty payload",
			input:   "data:image/png;base64,",
			wantErr: ErrEmptyImage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := DecodeImage(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.MimeType != tt.wantMime {
				t.Errorf("expected mime %q, got %q", tt.wantMime, f.MimeType)
			}
			if f.Suffix != tt.wantSuffix {
				t.Errorf("expected suffix %q, got %q", tt.wantSuffix, f.Suffix)
			}
			if f.Size != int64(len(f.Data)) {
				t.Errorf("size %d does not match data length %d", f.Size, len(f.Data))
			}
		})
	}
}
