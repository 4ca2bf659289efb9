package database

import (
	"context"
)

//go:generate mockgen -source=querier.go -destination=mock_querier.go -package=database

type Querier interface {
	CheckFavorite(ctx context.Context, arg UserRecipeParams) (bool, error)
	CheckShoppingCart(ctx context.Context, arg UserRecipeParams) (bool, error)
	CheckSubscription(ctx context.Context, arg SubscriptionParams) (bool, error)
	CountIngredientsByIDs(ctx context.Context, ids []int64) (int64, error)
	CountRecipes(ctx context.Context, arg RecipeFilter) (int64, error)
	CountRecipesByAuthor(ctx context.Context, authorID int64) (int64, error)
	CountSubscriptions(ctx context.Context, userID int64) (int64, error)
	CountTagsByIDs(ctx context.Context, ids []int64) (int64, error)
	CountTagsBySlugs(ctx context.Context, slugs []string) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CreateAdmin(ctx context.Context, arg CreateAdminParams) (int64, error)
	CreateFavorite(ctx context.Context, arg UserRecipeParams) error
	CreateIngredient(ctx context.Context, arg CreateIngredientParams) (Ingredient, error)
	CreateRecipe(ctx context.Context, arg CreateRecipeParams) (int64, error)
	CreateShoppingCartItem(ctx context.Context, arg UserRecipeParams) error
	CreateSubscription(ctx context.Context, arg SubscriptionParams) error
	CreateTag(ctx context.Context, arg CreateTagParams) (Tag, error)
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)
	DeleteFavorite(ctx context.Context, arg UserRecipeParams) (int64, error)
	DeleteRecipe(ctx context.Context, id int64) error
	DeleteShoppingCartItem(ctx context.Context, arg UserRecipeParams) (int64, error)
	DeleteSubscription(ctx context.Context, arg SubscriptionParams) (int64, error)
	GetAdminCount(ctx context.Context) (int64, error)
	GetIngredient(ctx context.Context, id int64) (Ingredient, error)
	GetRecipe(ctx context.Context, id int64) (Recipe, error)
	GetRecipeIngredients(ctx context.Context, recipeID int64) ([]RecipeIngredient, error)
	GetRecipeTags(ctx context.Context, recipeID int64) ([]Tag, error)
	GetTag(ctx context.Context, id int64) (Tag, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ImportIngredients(ctx context.Context, arg []CreateIngredientParams) (int64, error)
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	ListIngredients(ctx context.Context, namePrefix string) ([]Ingredient, error)
	ListRecipes(ctx context.Context, arg ListRecipesParams) ([]Recipe, error)
	ListRecipesByAuthor(ctx context.Context, arg ListRecipesByAuthorParams) ([]Recipe, error)
	ListShoppingCartIngredients(ctx context.Context, userID int64) ([]ShoppingCartIngredient, error)
	ListSubscriptions(ctx context.Context, arg ListSubscriptionsParams) ([]User, error)
	ListTags(ctx context.Context) ([]Tag, error)
	ListUsers(ctx context.Context, arg ListUsersParams) ([]User, error)
	RevokeToken(ctx context.Context, arg RevokeTokenParams) error
	UpdateRecipe(ctx context.Context, arg UpdateRecipeParams) error
	UpdateUserAvatar(ctx context.Context, arg UpdateUserAvatarParams) error
	UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error
}

var _ Querier = (*Queries)(nil)
