// Package dto holds the request and response shapes of the drinks API and
// the field mapping between them and the persisted models.
package dto

import "github.com/shopspring/decimal"

func init() {
	// Prices and amounts travel as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Ingredient is the response shape of an ingredient.
type Ingredient struct {
	ID     uint            `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Unit   string          `json:"unit"`
}

// Drink is the full response shape of a drink.
type Drink struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Ingredients []Ingredient    `json:"ingredients"`
}

// IngredientForCreation is an ingredient supplied when creating a drink.
type IngredientForCreation struct {
	Name   string          `json:"name" validate:"required,max=50"`
	Amount decimal.Decimal `json:"amount" validate:"min=0,max=99999999.99"`
	Unit   string          `json:"unit" validate:"max=20"`
}

// DrinkForCreation is the body of POST /api/drinks. Any id in the payload is ignored.
type DrinkForCreation struct {
	Name        string                  `json:"name" validate:"required,max=50"`
	Brand       string                  `json:"brand" validate:"required,max=50"`
	Price       decimal.Decimal         `json:"price" validate:"min=0,max=10000"`
	Ingredients []IngredientForCreation `json:"ingredients" validate:"omitempty,dive"`
}

// IngredientForUpdate is an ingredient in an update or patch body. A zero ID
// (or an ID the drink does not own) adds a new ingredient.
type IngredientForUpdate struct {
	ID     uint            `json:"id,omitempty"`
	Name   string          `json:"name" validate:"required,max=50"`
	Amount decimal.Decimal `json:"amount" validate:"min=0,max=99999999.99"`
	Unit   string          `json:"unit" validate:"max=20"`
}

// DrinkForUpdate is the body of PUT /api/drinks/{id}.
type DrinkForUpdate struct {
	Name        string                `json:"name" validate:"required,max=50"`
	Brand       string                `json:"brand" validate:"required,max=50"`
	Price       decimal.Decimal       `json:"price" validate:"min=0,max=10000"`
	Ingredients []IngredientForUpdate `json:"ingredients" validate:"omitempty,dive"`
}

// DrinkPatch is the editable representation a patch document is applied to.
type DrinkPatch struct {
	Name        string                `json:"name" validate:"required,max=50"`
	Brand       string                `json:"brand" validate:"required,max=50"`
	Price       decimal.Decimal       `json:"price" validate:"min=0,max=10000"`
	Ingredients []IngredientForUpdate `json:"ingredients" validate:"omitempty,dive"`
}
