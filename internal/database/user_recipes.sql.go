package database

import (
	"context"
)

// UserRecipeParams identifies a (user, recipe) membership row in the
// favorites or shopping_cart tables.
type UserRecipeParams struct {
	UserID   int64
	RecipeID int64
}

const checkFavorite = `-- name: CheckFavorite :one
SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND recipe_id = $2)`

func (q *Queries) CheckFavorite(ctx context.Context, arg UserRecipeParams) (bool, error) {
	row := q.db.QueryRow(ctx, checkFavorite, arg.UserID, arg.RecipeID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const createFavorite = `-- name: CreateFavorite :exec
INSERT INTO favorites (user_id, recipe_id) VALUES ($1, $2)`

func (q *Queries) CreateFavorite(ctx context.Context, arg UserRecipeParams) error {
	_, err := q.db.Exec(ctx, createFavorite, arg.UserID, arg.RecipeID)
	return err
}

const deleteFavorite = `-- name: DeleteFavorite :execrows
DELETE FROM favorites WHERE user_id = $1 AND recipe_id = $2`

func (q *Queries) DeleteFavorite(ctx context.Context, arg UserRecipeParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteFavorite, arg.UserID, arg.RecipeID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const checkShoppingCart = `-- name: CheckShoppingCart :one
SELECT EXISTS (SELECT 1 FROM shopping_cart WHERE user_id = $1 AND recipe_id = $2)`

func (q *Queries) CheckShoppingCart(ctx context.Context, arg UserRecipeParams) (bool, error) {
	row := q.db.QueryRow(ctx, checkShoppingCart, arg.UserID, arg.RecipeID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const createShoppingCartItem = `-- name: CreateShoppingCartItem :exec
INSERT INTO shopping_cart (user_id, recipe_id) VALUES ($1, $2)`

func (q *Queries) CreateShoppingCartItem(ctx context.Context, arg UserRecipeParams) error {
	_, err := q.db.Exec(ctx, createShoppingCartItem, arg.UserID, arg.RecipeID)
	return err
}

const deleteShoppingCartItem = `-- name: DeleteShoppingCartItem :execrows
DELETE FROM shopping_cart WHERE user_id = $1 AND recipe_id = $2`

func (q *Queries) DeleteShoppingCartItem(ctx context.Context, arg UserRecipeParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteShoppingCartItem, arg.UserID, arg.RecipeID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listShoppingCartIngredients = `-- name: ListShoppingCartIngredients :many
SELECT i.name, i.measurement_unit, ri.amount
FROM shopping_cart c
JOIN recipe_ingredients ri ON ri.recipe_id = c.recipe_id
JOIN ingredients i ON i.id = ri.ingredient_id
WHERE c.user_id = $1`

func (q *Queries) ListShoppingCartIngredients(ctx context.Context, userID int64) ([]ShoppingCartIngredient, error) {
	rows, err := q.db.Query(ctx, listShoppingCartIngredients, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ShoppingCartIngredient{}
	for rows.Next() {
		var i ShoppingCartIngredient
		if err := rows.Scan(&i.Name, &i.MeasurementUnit, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
