package recipes

import "github.com/matt-dz/foodgram/internal/database"

type IngredientAmountRequest struct {
	ID     int64 `json:"id" validate:"required,gte=1"`
	Amount int32 `json:"amount" validate:"required,gte=1,lte=32000"`
}

// RecipeRequest is the body of recipe create and update requests. Image is
// a base64 data URI; it is required on create and optional on update.
type RecipeRequest struct {
	Ingredients []IngredientAmountRequest `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
	Tags        []int64                   `json:"tags" validate:"required,min=1,unique,dive,gte=1"`
	Image       string                    `json:"image"`
	Name        string                    `json:"name" validate:"required,max=256"`
	Text        string                    `json:"text" validate:"required"`
	CookingTime int32                     `json:"cooking_time" validate:"required,gte=1,lte=32000"`
}

func (r RecipeRequest) ingredientIDs() []int64 {
	ids := make([]int64, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		ids = append(ids, i.ID)
	}
	return ids
}

func (r RecipeRequest) ingredientAmounts() []database.IngredientAmount {
	amounts := make([]database.IngredientAmount, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		amounts = append(amounts, database.IngredientAmount{IngredientID: i.ID, Amount: i.Amount})
	}
	return amounts
}
