package database

import (
	"context"
)

type SubscriptionParams struct {
	UserID   int64
	AuthorID int64
}

const checkSubscription = `-- name: CheckSubscription :one
SELECT EXISTS (
    SELECT 1 FROM subscriptions WHERE user_id = $1 AND author_id = $2
)`

func (q *Queries) CheckSubscription(ctx context.Context, arg SubscriptionParams) (bool, error) {
	row := q.db.QueryRow(ctx, checkSubscription, arg.UserID, arg.AuthorID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const createSubscription = `-- name: CreateSubscription :exec
INSERT INTO subscriptions (user_id, author_id) VALUES ($1, $2)`

func (q *Queries) CreateSubscription(ctx context.Context, arg SubscriptionParams) error {
	_, err := q.db.Exec(ctx, createSubscription, arg.UserID, arg.AuthorID)
	return err
}

const deleteSubscription = `-- name: DeleteSubscription :execrows
DELETE FROM subscriptions WHERE user_id = $1 AND author_id = $2`

func (q *Queries) DeleteSubscription(ctx context.Context, arg SubscriptionParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteSubscription, arg.UserID, arg.AuthorID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listSubscriptions = `-- name: ListSubscriptions :many
SELECT u.id, u.email, u.username, u.first_name, u.last_name, u.password_hash, u.role, u.avatar, u.created_at
FROM subscriptions s
JOIN users u ON u.id = s.author_id
WHERE s.user_id = $1
ORDER BY s.id
LIMIT $2 OFFSET $3`

type ListSubscriptionsParams struct {
	UserID int64
	Limit  int32
	Offset int32
}

func (q *Queries) ListSubscriptions(ctx context.Context, arg ListSubscriptionsParams) ([]User, error) {
	return collectUsers(q.db.Query(ctx, listSubscriptions, arg.UserID, arg.Limit, arg.Offset))
}

const countSubscriptions = `-- name: CountSubscriptions :one
SELECT count(*) FROM subscriptions WHERE user_id = $1`

func (q *Queries) CountSubscriptions(ctx context.Context, userID int64) (int64, error) {
	row := q.db.QueryRow(ctx, countSubscriptions, userID)
	var count int64
	err := row.Scan(&count)
	return count, err
}
