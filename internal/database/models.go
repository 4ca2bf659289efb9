package database

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (e *Role) Scan(src interface{}) error {
	switch s := src.(type) {
	case []byte:
		*e = Role(s)
	case string:
		*e = Role(s)
	default:
		return fmt.Errorf("unsupported scan type for Role: %T", src)
	}
	return nil
}

type User struct {
	ID           int64
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         Role
	Avatar       pgtype.Text
	CreatedAt    pgtype.Timestamptz
}

type Tag struct {
	ID    int64
	Name  string
	Color string
	Slug  string
}

type Ingredient struct {
	ID              int64
	Name            string
	MeasurementUnit string
}

type Recipe struct {
	ID          int64
	AuthorID    int64
	Name        string
	Text        string
	Image       pgtype.Text
	CookingTime int32
	CreatedAt   pgtype.Timestamptz
}

// RecipeIngredient is an ingredient joined with its amount in one recipe.
type RecipeIngredient struct {
	ID              int64
	Name            string
	MeasurementUnit string
	Amount          int32
}

// ShoppingCartIngredient is one ingredient line of one carted recipe.
type ShoppingCartIngredient struct {
	Name            string
	MeasurementUnit string
	Amount          int32
}
