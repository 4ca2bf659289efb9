package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const revokeToken = `-- name: RevokeToken :exec
WITH purged AS (
    DELETE FROM revoked_tokens WHERE expires_at < now()
)
INSERT INTO revoked_tokens (jti, expires_at) VALUES ($1, $2)
ON CONFLICT (jti) DO NOTHING`

type RevokeTokenParams struct {
	Jti       string
	ExpiresAt pgtype.Timestamptz
}

// RevokeToken records jti as logged out until it expires. Entries past
// their expiry are purged on the way.
func (q *Queries) RevokeToken(ctx context.Context, arg RevokeTokenParams) error {
	_, err := q.db.Exec(ctx, revokeToken, arg.Jti, arg.ExpiresAt)
	return err
}

const isTokenRevoked = `-- name: IsTokenRevoked :one
SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`

func (q *Queries) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	row := q.db.QueryRow(ctx, isTokenRevoked, jti)
	var revoked bool
	err := row.Scan(&revoked)
	return revoked, err
}
