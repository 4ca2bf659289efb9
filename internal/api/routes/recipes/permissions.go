package recipes

import (
	"context"
	"fmt"

	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/role"
)

// canModify reports whether the caller in ctx may update or delete recipe:
// its author or an admin. The admin role is read from the database so a
// demotion takes effect before the caller's token expires.
func canModify(ctx context.Context, env *env.Env, recipe database.Recipe) (bool, error) {
	userID, ok := token.UserIDFromCtx(ctx)
	if !ok {
		return false, nil
	}
	if userID == recipe.AuthorID {
		return true, nil
	}

	user, err := env.Database.GetUser(ctx, userID)
	if database.IsNotFound(err) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("getting caller role: %w", err)
	}
	return role.FromDatabase(user.Role).Satisfies(role.RoleAdmin), nil
}
