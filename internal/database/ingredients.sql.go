package database

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const listIngredients = `-- name: ListIngredients :many
SELECT id, name, measurement_unit FROM ingredients
WHERE $1::text = '' OR lower(name) LIKE lower($1::text) || '%'
ORDER BY name, id`

// ListIngredients returns the ingredients whose name starts with namePrefix,
// ignoring case. An empty prefix matches every ingredient.
func (q *Queries) ListIngredients(ctx context.Context, namePrefix string) ([]Ingredient, error) {
	rows, err := q.db.Query(ctx, listIngredients, likeEscaper.Replace(namePrefix))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Ingredient{}
	for rows.Next() {
		var i Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getIngredient = `-- name: GetIngredient :one
SELECT id, name, measurement_unit FROM ingredients WHERE id = $1`

func (q *Queries) GetIngredient(ctx context.Context, id int64) (Ingredient, error) {
	row := q.db.QueryRow(ctx, getIngredient, id)
	var i Ingredient
	err := row.Scan(&i.ID, &i.Name, &i.MeasurementUnit)
	return i, err
}

const createIngredient = `-- name: CreateIngredient :one
INSERT INTO ingredients (name, measurement_unit) VALUES ($1, $2)
RETURNING id, name, measurement_unit`

type CreateIngredientParams struct {
	Name            string
	MeasurementUnit string
}

func (q *Queries) CreateIngredient(ctx context.Context, arg CreateIngredientParams) (Ingredient, error) {
	row := q.db.QueryRow(ctx, createIngredient, arg.Name, arg.MeasurementUnit)
	var i Ingredient
	err := row.Scan(&i.ID, &i.Name, &i.MeasurementUnit)
	return i, err
}

// ImportIngredients bulk-loads ingredients with COPY.
func (q *Queries) ImportIngredients(ctx context.Context, arg []CreateIngredientParams) (int64, error) {
	return q.db.CopyFrom(ctx,
		pgx.Identifier{"ingredients"},
		[]string{"name", "measurement_unit"},
		pgx.CopyFromSlice(len(arg), func(i int) ([]any, error) {
			return []any{arg[i].Name, arg[i].MeasurementUnit}, nil
		}),
	)
}

const countIngredientsByIDs = `-- name: CountIngredientsByIDs :one
SELECT count(*) FROM ingredients WHERE id = ANY($1::bigint[])`

func (q *Queries) CountIngredientsByIDs(ctx context.Context, ids []int64) (int64, error) {
	row := q.db.QueryRow(ctx, countIngredientsByIDs, ids)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getRecipeIngredients = `-- name: GetRecipeIngredients :many
SELECT i.id, i.name, i.measurement_unit, ri.amount
FROM recipe_ingredients ri
JOIN ingredients i ON i.id = ri.ingredient_id
WHERE ri.recipe_id = $1
ORDER BY ri.id`

func (q *Queries) GetRecipeIngredients(ctx context.Context, recipeID int64) ([]RecipeIngredient, error) {
	rows, err := q.db.Query(ctx, getRecipeIngredients, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []RecipeIngredient{}
	for rows.Next() {
		var i RecipeIngredient
		if err := rows.Scan(&i.ID, &i.Name, &i.MeasurementUnit, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
