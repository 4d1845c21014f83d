package repositories

import (
	"errors"
	"math"

	"drinks/internal/models"
)

// Paging bounds for ListDrinks. MaxPageNumber keeps the row offset within int.
const (
	DefaultPageSize = 10
	MaxPageSize     = 20
	MaxPageNumber   = math.MaxInt / MaxPageSize
)

// ErrDrinkNotFound is returned when no drink has the requested ID.
var ErrDrinkNotFound = errors.New("drink not found")

// DrinkRepository is a request-scoped unit of work over drinks. CreateDrink,
// UpdateDrink and DeleteDrink only stage changes; Save commits everything
// staged so far in one transaction.
type DrinkRepository interface {
	ListDrinks(searchQuery, brand string, pageNumber, pageSize int) ([]models.Drink, models.PaginationMetadata, error)
	GetDrinkByID(id uint) (*models.Drink, error)
	CreateDrink(drink *models.Drink)
	UpdateDrink(drink *models.Drink)
	DeleteDrink(drink *models.Drink)
	Save() (bool, error)
}

// ClampPageSize bounds a requested page size to [1, MaxPageSize]; values
// below 1 fall back to DefaultPageSize.
func ClampPageSize(pageSize int) int {
	if pageSize < 1 {
		return DefaultPageSize
	}
	if pageSize > MaxPageSize {
		return MaxPageSize
	}
	return pageSize
}

// ClampPageNumber bounds a requested page number to [1, MaxPageNumber].
func ClampPageNumber(pageNumber int) int {
	if pageNumber < 1 {
		return 1
	}
	if pageNumber > MaxPageNumber {
		return MaxPageNumber
	}
	return pageNumber
}
