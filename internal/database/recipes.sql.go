package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const recipeColumns = `r.id, r.author_id, r.name, r.text, r.image, r.cooking_time, r.created_at`

func scanRecipe(row pgx.Row) (Recipe, error) {
	var i Recipe
	err := row.Scan(
		&i.ID,
		&i.AuthorID,
		&i.Name,
		&i.Text,
		&i.Image,
		&i.CookingTime,
		&i.CreatedAt,
	)
	return i, err
}

func collectRecipes(rows pgx.Rows, err error) ([]Recipe, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Recipe{}
	for rows.Next() {
		i, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type IngredientAmount struct {
	IngredientID int64
	Amount       int32
}

func splitIngredients(ingredients []IngredientAmount) ([]int64, []int32) {
	ids := make([]int64, len(ingredients))
	amounts := make([]int32, len(ingredients))
	for idx, ingredient := range ingredients {
		ids[idx] = ingredient.IngredientID
		amounts[idx] = ingredient.Amount
	}
	return ids, amounts
}

const insertRecipe = `-- name: InsertRecipe :one
INSERT INTO recipes (author_id, name, text, image, cooking_time)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

const insertRecipeTags = `-- name: InsertRecipeTags :exec
INSERT INTO recipe_tags (recipe_id, tag_id)
SELECT $1, unnest($2::bigint[])`

const insertRecipeIngredients = `-- name: InsertRecipeIngredients :exec
INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount)
SELECT $1, unnest($2::bigint[]), unnest($3::integer[])`

const deleteRecipeTags = `-- name: DeleteRecipeTags :exec
DELETE FROM recipe_tags WHERE recipe_id = $1`

const deleteRecipeIngredients = `-- name: DeleteRecipeIngredients :exec
DELETE FROM recipe_ingredients WHERE recipe_id = $1`

func (q *Queries) setRecipeRelations(ctx context.Context, recipeID int64,
	tagIDs []int64, ingredients []IngredientAmount,
) error {
	if _, err := q.db.Exec(ctx, insertRecipeTags, recipeID, tagIDs); err != nil {
		return fmt.Errorf("inserting recipe tags: %w", err)
	}
	ids, amounts := splitIngredients(ingredients)
	if _, err := q.db.Exec(ctx, insertRecipeIngredients, recipeID, ids, amounts); err != nil {
		return fmt.Errorf("inserting recipe ingredients: %w", err)
	}
	return nil
}

type CreateRecipeParams struct {
	AuthorID    int64
	Name        string
	Text        string
	Image       pgtype.Text
	CookingTime int32
	TagIDs      []int64
	Ingredients []IngredientAmount
}

// CreateRecipe inserts a recipe together with its tags and ingredient
// amounts in a single transaction.
func (q *Queries) CreateRecipe(ctx context.Context, arg CreateRecipeParams) (int64, error) {
	var id int64
	err := q.inTx(ctx, func(tq *Queries) error {
		row := tq.db.QueryRow(ctx, insertRecipe,
			arg.AuthorID,
			arg.Name,
			arg.Text,
			arg.Image,
			arg.CookingTime,
		)
		if err := row.Scan(&id); err != nil {
			return fmt.Errorf("inserting recipe: %w", err)
		}
		return tq.setRecipeRelations(ctx, id, arg.TagIDs, arg.Ingredients)
	})
	return id, err
}

const updateRecipe = `-- name: UpdateRecipe :execrows
UPDATE recipes
SET name = $2, text = $3, image = coalesce($4, image), cooking_time = $5
WHERE id = $1`

// UpdateRecipeParams replaces a recipe's fields, tags and ingredients.
// An invalid Image keeps the stored one.
type UpdateRecipeParams struct {
	ID          int64
	Name        string
	Text        string
	Image       pgtype.Text
	CookingTime int32
	TagIDs      []int64
	Ingredients []IngredientAmount
}

func (q *Queries) UpdateRecipe(ctx context.Context, arg UpdateRecipeParams) error {
	return q.inTx(ctx, func(tq *Queries) error {
		result, err := tq.db.Exec(ctx, updateRecipe,
			arg.ID,
			arg.Name,
			arg.Text,
			arg.Image,
			arg.CookingTime,
		)
		if err != nil {
			return fmt.Errorf("updating recipe: %w", err)
		}
		if result.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		if _, err := tq.db.Exec(ctx, deleteRecipeTags, arg.ID); err != nil {
			return fmt.Errorf("deleting recipe tags: %w", err)
		}
		if _, err := tq.db.Exec(ctx, deleteRecipeIngredients, arg.ID); err != nil {
			return fmt.Errorf("deleting recipe ingredients: %w", err)
		}
		return tq.setRecipeRelations(ctx, arg.ID, arg.TagIDs, arg.Ingredients)
	})
}

const getRecipe = `-- name: GetRecipe :one
SELECT ` + recipeColumns + ` FROM recipes r WHERE r.id = $1`

func (q *Queries) GetRecipe(ctx context.Context, id int64) (Recipe, error) {
	return scanRecipe(q.db.QueryRow(ctx, getRecipe, id))
}

const deleteRecipe = `-- name: DeleteRecipe :exec
DELETE FROM recipes WHERE id = $1`

func (q *Queries) DeleteRecipe(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, deleteRecipe, id)
	return err
}

// RecipeFilter narrows recipe listings. Empty TagSlugs and invalid ids
// disable the corresponding predicate.
type RecipeFilter struct {
	TagSlugs    []string
	AuthorID    pgtype.Int8
	FavoritedBy pgtype.Int8
	InCartOf    pgtype.Int8
}

const recipeFilterPredicate = `
WHERE (coalesce(cardinality($1::text[]), 0) = 0 OR EXISTS (
        SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
        WHERE rt.recipe_id = r.id AND t.slug = ANY($1::text[])))
  AND ($2::bigint IS NULL OR r.author_id = $2::bigint)
  AND ($3::bigint IS NULL OR EXISTS (
        SELECT 1 FROM favorites f WHERE f.recipe_id = r.id AND f.user_id = $3::bigint))
  AND ($4::bigint IS NULL OR EXISTS (
        SELECT 1 FROM shopping_cart c WHERE c.recipe_id = r.id AND c.user_id = $4::bigint))`

const listRecipes = `-- name: ListRecipes :many
SELECT ` + recipeColumns + ` FROM recipes r` + recipeFilterPredicate + `
ORDER BY r.created_at DESC, r.id DESC
LIMIT $5 OFFSET $6`

type ListRecipesParams struct {
	RecipeFilter
	Limit  int32
	Offset int32
}

func (q *Queries) ListRecipes(ctx context.Context, arg ListRecipesParams) ([]Recipe, error) {
	return collectRecipes(q.db.Query(ctx, listRecipes,
		arg.TagSlugs,
		arg.AuthorID,
		arg.FavoritedBy,
		arg.InCartOf,
		arg.Limit,
		arg.Offset,
	))
}

const countRecipes = `-- name: CountRecipes :one
SELECT count(*) FROM recipes r` + recipeFilterPredicate

func (q *Queries) CountRecipes(ctx context.Context, arg RecipeFilter) (int64, error) {
	row := q.db.QueryRow(ctx, countRecipes,
		arg.TagSlugs,
		arg.AuthorID,
		arg.FavoritedBy,
		arg.InCartOf,
	)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listRecipesByAuthor = `-- name: ListRecipesByAuthor :many
SELECT ` + recipeColumns + ` FROM recipes r
WHERE r.author_id = $1
ORDER BY r.created_at DESC, r.id DESC
LIMIT $2`

// ListRecipesByAuthorParams selects an author's newest recipes. A NULL
// Limit returns all of them.
type ListRecipesByAuthorParams struct {
	AuthorID int64
	Limit    pgtype.Int4
}

func (q *Queries) ListRecipesByAuthor(ctx context.Context, arg ListRecipesByAuthorParams) ([]Recipe, error) {
	return collectRecipes(q.db.Query(ctx, listRecipesByAuthor, arg.AuthorID, arg.Limit))
}

const countRecipesByAuthor = `-- name: CountRecipesByAuthor :one
SELECT count(*) FROM recipes WHERE author_id = $1`

func (q *Queries) CountRecipesByAuthor(ctx context.Context, authorID int64) (int64, error) {
	row := q.db.QueryRow(ctx, countRecipesByAuthor, authorID)
	var count int64
	err := row.Scan(&count)
	return count, err
}
