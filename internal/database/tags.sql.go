package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

func collectTags(rows pgx.Rows, err error) ([]Tag, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Tag{}
	for rows.Next() {
		var i Tag
		if err := rows.Scan(&i.ID, &i.Name, &i.Color, &i.Slug); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listTags = `-- name: ListTags :many
SELECT id, name, color, slug FROM tags ORDER BY id`

func (q *Queries) ListTags(ctx context.Context) ([]Tag, error) {
	return collectTags(q.db.Query(ctx, listTags))
}

const getTag = `-- name: GetTag :one
SELECT id, name, color, slug FROM tags WHERE id = $1`

func (q *Queries) GetTag(ctx context.Context, id int64) (Tag, error) {
	row := q.db.QueryRow(ctx, getTag, id)
	var i Tag
	err := row.Scan(&i.ID, &i.Name, &i.Color, &i.Slug)
	return i, err
}

const createTag = `-- name: CreateTag :one
INSERT INTO tags (name, color, slug) VALUES ($1, $2, $3)
RETURNING id, name, color, slug`

type CreateTagParams struct {
	Name  string
	Color string
	Slug  string
}

func (q *Queries) CreateTag(ctx context.Context, arg CreateTagParams) (Tag, error) {
	row := q.db.QueryRow(ctx, createTag, arg.Name, arg.Color, arg.Slug)
	var i Tag
	err := row.Scan(&i.ID, &i.Name, &i.Color, &i.Slug)
	return i, err
}

const countTagsByIDs = `-- name: CountTagsByIDs :one
SELECT count(*) FROM tags WHERE id = ANY($1::bigint[])`

func (q *Queries) CountTagsByIDs(ctx context.Context, ids []int64) (int64, error) {
	row := q.db.QueryRow(ctx, countTagsByIDs, ids)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countTagsBySlugs = `-- name: CountTagsBySlugs :one
SELECT count(*) FROM tags WHERE slug = ANY($1::text[])`

func (q *Queries) CountTagsBySlugs(ctx context.Context, slugs []string) (int64, error) {
	row := q.db.QueryRow(ctx, countTagsBySlugs, slugs)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getRecipeTags = `-- name: GetRecipeTags :many
SELECT t.id, t.name, t.color, t.slug
FROM recipe_tags rt
JOIN tags t ON t.id = rt.tag_id
WHERE rt.recipe_id = $1
ORDER BY t.id`

func (q *Queries) GetRecipeTags(ctx context.Context, recipeID int64) ([]Tag, error) {
	return collectTags(q.db.Query(ctx, getRecipeTags, recipeID))
}
