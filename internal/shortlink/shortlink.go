// Package shortlink converts recipe ids to and from the compact codes used
// in short links.
package shortlink

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Alphabet maps each digit value to its character.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

const base = int64(len(Alphabet))

var (
	ErrEmptyCode    = errors.New("empty short link code")
	ErrInvalidDigit = errors.New("invalid short link character")
	ErrOverflow     = errors.New("short link code overflows int64")
	ErrNegativeID   = errors.New("negative id")
)

// Encode returns the code for id, most significant digit first.
func Encode(id int64) (string, error) {
	if id < 0 {
		return "", fmt.Errorf("encoding %d: %w", id, ErrNegativeID)
	}
	if id == 0 {
		return Alphabet[:1], nil
	}

	var buf [11]byte // 64^11 > math.MaxInt64
	i := len(buf)
	for id > 0 {
		i--
		buf[i] = Alphabet[id%base]
		id /= base
	}
	return string(buf[i:]), nil
}

// Decode reverses Encode.
func Decode(code string) (int64, error) {
	if code == "" {
		return 0, ErrEmptyCode
	}

	var id int64
	for _, r := range code {
		digit := strings.IndexRune(Alphabet, r)
		if digit < 0 {
			return 0, fmt.Errorf("%q: %w", r, ErrInvalidDigit)
		}
		if id > (math.MaxInt64-int64(digit))/base {
			return 0, fmt.Errorf("decoding %q: %w", code, ErrOverflow)
		}
		id = id*base + int64(digit)
	}
	return id, nil
}
