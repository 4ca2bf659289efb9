// Package serializer renders database rows as the JSON representations
// returned by the API. Per-viewer flags such as is_favorited are resolved
// against the caller found in the request context.
package serializer

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
)

// Viewer is the caller a representation is rendered for.
type Viewer struct {
	ID            int64
	Authenticated bool
}

func ViewerFromCtx(ctx context.Context) Viewer {
	id, ok := token.UserIDFromCtx(ctx)
	return Viewer{ID: id, Authenticated: ok}
}

type User struct {
	Email        string  `json:"email"`
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

type Tag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type Ingredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type RecipeIngredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int32  `json:"amount"`
}

type Recipe struct {
	ID               int64              `json:"id"`
	Tags             []Tag              `json:"tags"`
	Author           User               `json:"author"`
	Ingredients      []RecipeIngredient `json:"ingredients"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
	Name             string             `json:"name"`
	Image            *string            `json:"image"`
	Text             string             `json:"text"`
	CookingTime      int32              `json:"cooking_time"`
}

type ShortRecipe struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Image       *string `json:"image"`
	CookingTime int32   `json:"cooking_time"`
}

// Subscription is an author as seen by one of their subscribers.
type Subscription struct {
	User
	Recipes      []ShortRecipe `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

// FileURL renders a stored key as an absolute URL, or nil when unset.
func FileURL(env *env.Env, key pgtype.Text) *string {
	if !key.Valid || key.String == "" || env.FileStore == nil {
		return nil
	}
	url := env.FileStore.FileURL(key.String)
	return &url
}

func NewUser(ctx context.Context, env *env.Env, viewer Viewer, u database.User) (User, error) {
	user := User{
		Email:     u.Email,
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    FileURL(env, u.Avatar),
	}
	if !viewer.Authenticated || viewer.ID == u.ID {
		return user, nil
	}

	subscribed, err := env.Database.CheckSubscription(ctx, database.SubscriptionParams{
		UserID:   viewer.ID,
		AuthorID: u.ID,
	})
	if err != nil {
		return User{}, fmt.Errorf("checking subscription: %w", err)
	}
	user.IsSubscribed = subscribed
	return user, nil
}

func NewUsers(ctx context.Context, env *env.Env, viewer Viewer, users []database.User) ([]User, error) {
	out := make([]User, 0, len(users))
	for _, u := range users {
		user, err := NewUser(ctx, env, viewer, u)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, nil
}

func NewTag(t database.Tag) Tag {
	return Tag{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func NewTags(tags []database.Tag) []Tag {
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, NewTag(t))
	}
	return out
}

func NewIngredient(i database.Ingredient) Ingredient {
	return Ingredient{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func NewIngredients(ingredients []database.Ingredient) []Ingredient {
	out := make([]Ingredient, 0, len(ingredients))
	for _, i := range ingredients {
		out = append(out, NewIngredient(i))
	}
	return out
}

func NewShortRecipe(env *env.Env, r database.Recipe) ShortRecipe {
	return ShortRecipe{
		ID:          r.ID,
		Name:        r.Name,
		Image:       FileURL(env, r.Image),
		CookingTime: r.CookingTime,
	}
}

// NewRecipe loads the tags, ingredients and author of r and renders it for
// viewer.
func NewRecipe(ctx context.Context, env *env.Env, viewer Viewer, r database.Recipe) (Recipe, error) {
	tags, err := env.Database.GetRecipeTags(ctx, r.ID)
	if err != nil {
		return Recipe{}, fmt.Errorf("getting recipe tags: %w", err)
	}
	ingredients, err := env.Database.GetRecipeIngredients(ctx, r.ID)
	if err != nil {
		return Recipe{}, fmt.Errorf("getting recipe ingredients: %w", err)
	}
	author, err := env.Database.GetUser(ctx, r.AuthorID)
	if err != nil {
		return Recipe{}, fmt.Errorf("getting recipe author: %w", err)
	}
	authorRepr, err := NewUser(ctx, env, viewer, author)
	if err != nil {
		return Recipe{}, err
	}

	recipe := Recipe{
		ID:          r.ID,
		Tags:        NewTags(tags),
		Author:      authorRepr,
		Ingredients: make([]RecipeIngredient, 0, len(ingredients)),
		Name:        r.Name,
		Image:       FileURL(env, r.Image),
		Text:        r.Text,
		CookingTime: r.CookingTime,
	}
	for _, i := range ingredients {
		recipe.Ingredients = append(recipe.Ingredients, RecipeIngredient{
			ID:              i.ID,
			Name:            i.Name,
			MeasurementUnit: i.MeasurementUnit,
			Amount:          i.Amount,
		})
	}

	if !viewer.Authenticated {
		return recipe, nil
	}
	membership := database.UserRecipeParams{UserID: viewer.ID, RecipeID: r.ID}
	if recipe.IsFavorited, err = env.Database.CheckFavorite(ctx, membership); err != nil {
		return Recipe{}, fmt.Errorf("checking favorite: %w", err)
	}
	if recipe.IsInShoppingCart, err = env.Database.CheckShoppingCart(ctx, membership); err != nil {
		return Recipe{}, fmt.Errorf("checking shopping cart: %w", err)
	}
	return recipe, nil
}

func NewRecipes(ctx context.Context, env *env.Env, viewer Viewer, recipes []database.Recipe) ([]Recipe, error) {
	out := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		recipe, err := NewRecipe(ctx, env, viewer, r)
		if err != nil {
			return nil, err
		}
		out = append(out, recipe)
	}
	return out, nil
}

// NewSubscription renders author with up to recipesLimit of their newest
// recipes. An invalid recipesLimit includes all of them.
func NewSubscription(ctx context.Context, env *env.Env, viewer Viewer, author database.User,
	recipesLimit pgtype.Int4,
) (Subscription, error) {
	user, err := NewUser(ctx, env, viewer, author)
	if err != nil {
		return Subscription{}, err
	}
	recipes, err := env.Database.ListRecipesByAuthor(ctx, database.ListRecipesByAuthorParams{
		AuthorID: author.ID,
		Limit:    recipesLimit,
	})
	if err != nil {
		return Subscription{}, fmt.Errorf("listing author recipes: %w", err)
	}
	count, err := env.Database.CountRecipesByAuthor(ctx, author.ID)
	if err != nil {
		return Subscription{}, fmt.Errorf("counting author recipes: %w", err)
	}

	sub := Subscription{
		User:         user,
		Recipes:      make([]ShortRecipe, 0, len(recipes)),
		RecipesCount: count,
	}
	for _, r := range recipes {
		sub.Recipes = append(sub.Recipes, NewShortRecipe(env, r))
	}
	return sub, nil
}
