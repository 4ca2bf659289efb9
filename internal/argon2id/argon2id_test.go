package argon2id

import (
	"errors"
	"testing"
)

var testParams = ArgonParams{
	Memory:      8 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  DefaultSaltLength,
	KeyLength:   DefaultKeyLength,
}

func TestEncodeAndCompare(t *testing.T) {
	encoded, err := EncodeHash("s3cret-Passw0rd", testParams)
	if err != nil {
		t.Fatalf("EncodeHash() error = %v", err)
	}

	ok, err := Compare("s3cret-Passw0rd", encoded)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if !ok {
		t.Error("expected password to match")
	}

	ok, err = Compare("wrong-password", encoded)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if ok {
		t.Error("expected wrong password not to match")
	}
}

func TestDecodeHash(t *testing.T) {
	salt := []byte("0123456789abcdef")
	encoded := EncodeHashWithSalt("password", testParams, salt)

	p, gotSalt, hash, err := DecodeHash(encoded)
	if err != nil {
		t.Fatalf("DecodeHash() error = %v", err)
	}
	if *p != testParams {
		t.Errorf("expected params %+v, got %+v", testParams, *p)
	}
	if string(gotSalt) != string(salt) {
		t.Errorf("expected salt %q, got %q", salt, gotSalt)
	}
	if len(hash) != int(testParams.KeyLength) {
		t.Errorf("expected hash length %d, got %d", testParams.KeyLength, len(hash))
	}
}

func TestDecodeHashInvalid(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		wantErr error
	}{
		{name: "empty", encoded: "", wantErr: ErrInvalidHash},
		{name: "wrong algorithm", encoded: "$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA", wantErr: ErrInvalidHash},
		{name: "wrong version", encoded: "$argon2id$v=16$m=65536,t=1,p=4$c2FsdA$aGFzaA", wantErr: ErrIncompatibleVersion},
		{name: "garbled version", encoded: "$argon2id$v=x$m=65536,t=1,p=4$c2FsdA$aGFzaA", wantErr: ErrInvalidHash},
		{name: "zero memory", encoded: "$argon2id$v=19$m=0,t=1,p=4$c2FsdA$aGFzaA", wantErr: ErrInvalidHash},
		{name: "bad salt", encoded: "$argon2id$v=19$m=65536,t=1,p=4$!!$aGFzaA", wantErr: ErrInvalidHash},
		{name: "empty key", encoded: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$", wantErr: ErrInvalidHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := DecodeHash(tt.encoded)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultParams(t *testing.T) {
	if DefaultParams.Parallelism != DefaultParallelism {
		t.Errorf("expected parallelism %d, got %d", DefaultParallelism, DefaultParams.Parallelism)
	}
}
