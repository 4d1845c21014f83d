package dto

import (
	"drinks/internal/models"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places prices and amounts are stored with.
const Scale = 2

func stored(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// ToDrinkEntity maps a creation body onto a new, unsaved drink. Prices and
// amounts are rounded to Scale, as the store keeps them.
func ToDrinkEntity(in DrinkForCreation) models.Drink {
	drink := models.Drink{
		Name:        in.Name,
		Brand:       in.Brand,
		Price:       stored(in.Price),
		Ingredients: make([]models.Ingredient, 0, len(in.Ingredients)),
	}
	for _, ing := range in.Ingredients {
		drink.Ingredients = append(drink.Ingredients, models.Ingredient{
			Name:   ing.Name,
			Amount: stored(ing.Amount),
			Unit:   ing.Unit,
		})
	}
	return drink
}

// FromDrinkEntity maps a persisted drink to its response shape.
func FromDrinkEntity(d models.Drink) Drink {
	out := Drink{
		ID:          d.ID,
		Name:        d.Name,
		Brand:       d.Brand,
		Price:       d.Price,
		Ingredients: make([]Ingredient, 0, len(d.Ingredients)),
	}
	for _, ing := range d.Ingredients {
		out.Ingredients = append(out.Ingredients, Ingredient{
			ID:     ing.ID,
			Name:   ing.Name,
			Amount: ing.Amount,
			Unit:   ing.Unit,
		})
	}
	return out
}

// FromDrinkEntities maps a page of drinks.
func FromDrinkEntities(drinks []models.Drink) []Drink {
	out := make([]Drink, 0, len(drinks))
	for _, d := range drinks {
		out = append(out, FromDrinkEntity(d))
	}
	return out
}

// ApplyUpdate overwrites every updatable field of d. The drink ID is never touched.
func ApplyUpdate(in DrinkForUpdate, d *models.Drink) {
	d.Name = in.Name
	d.Brand = in.Brand
	d.Price = stored(in.Price)
	d.Ingredients = mergeIngredients(d, in.Ingredients)
}

// ToDrinkPatch derives the patchable representation of d.
func ToDrinkPatch(d models.Drink) DrinkPatch {
	p := DrinkPatch{
		Name:        d.Name,
		Brand:       d.Brand,
		Price:       d.Price,
		Ingredients: make([]IngredientForUpdate, 0, len(d.Ingredients)),
	}
	for _, ing := range d.Ingredients {
		p.Ingredients = append(p.Ingredients, IngredientForUpdate{
			ID:     ing.ID,
			Name:   ing.Name,
			Amount: ing.Amount,
			Unit:   ing.Unit,
		})
	}
	return p
}

// ApplyPatch merges a patched representation back onto d.
func ApplyPatch(p DrinkPatch, d *models.Drink) {
	d.Name = p.Name
	d.Brand = p.Brand
	d.Price = stored(p.Price)
	d.Ingredients = mergeIngredients(d, p.Ingredients)
}

// mergeIngredients keeps an incoming ingredient ID only if d owns it.
func mergeIngredients(d *models.Drink, incoming []IngredientForUpdate) []models.Ingredient {
	owned := make(map[uint]bool, len(d.Ingredients))
	for _, ing := range d.Ingredients {
		owned[ing.ID] = true
	}

	out := make([]models.Ingredient, 0, len(incoming))
	seen := make(map[uint]bool, len(incoming))
	for _, in := range incoming {
		id := in.ID
		if !owned[id] || seen[id] {
			id = 0
		}
		if id != 0 {
			seen[id] = true
		}
		out = append(out, models.Ingredient{
			ID:      id,
			Name:    in.Name,
			Amount:  stored(in.Amount),
			Unit:    in.Unit,
			DrinkID: d.ID,
		})
	}
	return out
}
