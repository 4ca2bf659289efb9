package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		constraints []string
		want        bool
	}{
		{
			name: "unique violation without constraint filter",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "users_unique_email"},
			want: true,
		},
		{
			name:        "wrapped unique violation with matching constraint",
			err:         fmt.Errorf("creating user: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_unique_email"}),
			constraints: []string{"users_unique_username", "users_unique_email"},
			want:        true,
		},
		{
			name:        "unique violation on another constraint",
			err:         &pgconn.PgError{Code: "23505", ConstraintName: "tags_unique_slug"},
			constraints: []string{"users_unique_email"},
			want:        false,
		},
		{
			name: "check violation",
			err:  &pgconn.PgError{Code: "23514"},
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err, tt.constraints...); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(fmt.Errorf("getting recipe: %w", pgx.ErrNoRows)) {
		t.Error("expected wrapped pgx.ErrNoRows to be not found")
	}
	if IsNotFound(errors.New("connection refused")) {
		t.Error("expected arbitrary error not to be not found")
	}
}

func TestSplitIngredients(t *testing.T) {
	ids, amounts := splitIngredients([]IngredientAmount{
		{IngredientID: 3, Amount: 10},
		{IngredientID: 7, Amount: 1},
	})
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 7 {
		t.Errorf("unexpected ids: %v", ids)
	}
	if len(amounts) != 2 || amounts[0] != 10 || amounts[1] != 1 {
		t.Errorf("unexpected amounts: %v", amounts)
	}
}

func TestRoleScan(t *testing.T) {
	var r Role
	if err := r.Scan("admin"); err != nil || r != RoleAdmin {
		t.Errorf("Scan(string) = %q, %v", r, err)
	}
	if err := r.Scan([]byte("user")); err != nil || r != RoleUser {
		t.Errorf("Scan([]byte) = %q, %v", r, err)
	}
	if err := r.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
}
