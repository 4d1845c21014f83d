package repositories

import (
	"errors"
	"fmt"
	"strings"

	"drinks/internal/models"

	"gorm.io/gorm"
)

type changeKind int

const (
	changeCreate changeKind = iota
	changeUpdate
	changeDelete
)

type stagedChange struct {
	kind  changeKind
	drink *models.Drink
}

// GORMDrinkRepository is a GORM implementation of DrinkRepository. It is not
// safe for concurrent use; create one per request.
type GORMDrinkRepository struct {
	db      *gorm.DB
	pending []stagedChange
}

// NewGORMDrinkRepository creates a new instance of GORMDrinkRepository.
func NewGORMDrinkRepository(db *gorm.DB) *GORMDrinkRepository {
	return &GORMDrinkRepository{
		db: db,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// filterDrinks matches the search query case-insensitively against name or
// brand and the brand exactly. Blank values are ignored.
func filterDrinks(searchQuery, brand string) func(*gorm.DB) *gorm.DB {
	searchQuery = strings.TrimSpace(searchQuery)
	brand = strings.TrimSpace(brand)

	return func(tx *gorm.DB) *gorm.DB {
		if searchQuery != "" {
			// Both sides are folded by the store, so they always agree on case.
			pattern := "%" + likeEscaper.Replace(searchQuery) + "%"
			tx = tx.Where(`(LOWER(name) LIKE LOWER(?) ESCAPE '\' OR LOWER(brand) LIKE LOWER(?) ESCAPE '\')`, pattern, pattern)
		}
		if brand != "" {
			tx = tx.Where("brand = ?", brand)
		}
		return tx
	}
}

func orderIngredients(tx *gorm.DB) *gorm.DB {
	return tx.Order("id ASC")
}

// ListDrinks returns one page of drinks ordered by ID, with the item count
// taken over the filtered but unpaged set.
func (r *GORMDrinkRepository) ListDrinks(searchQuery, brand string, pageNumber, pageSize int) ([]models.Drink, models.PaginationMetadata, error) {
	filter := filterDrinks(searchQuery, brand)
	pageSize = ClampPageSize(pageSize)
	pageNumber = ClampPageNumber(pageNumber)

	var total int64
	if err := r.db.Model(&models.Drink{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, models.PaginationMetadata{}, fmt.Errorf("failed to count drinks: %w", err)
	}

	var drinks []models.Drink
	err := r.db.Scopes(filter).
		Preload("Ingredients", orderIngredients).
		Order("id ASC").
		Offset((pageNumber - 1) * pageSize).
		Limit(pageSize).
		Find(&drinks).Error
	if err != nil {
		return nil, models.PaginationMetadata{}, fmt.Errorf("failed to list drinks: %w", err)
	}

	return drinks, models.NewPaginationMetadata(total, pageSize, pageNumber), nil
}

// GetDrinkByID retrieves a drink with its ingredients.
func (r *GORMDrinkRepository) GetDrinkByID(id uint) (*models.Drink, error) {
	var drink models.Drink
	if err := r.db.Preload("Ingredients", orderIngredients).First(&drink, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDrinkNotFound
		}
		return nil, fmt.Errorf("failed to get drink by ID %d: %w", id, err)
	}
	return &drink, nil
}

// CreateDrink stages an insert. drink.ID is assigned by Save.
func (r *GORMDrinkRepository) CreateDrink(drink *models.Drink) {
	r.pending = append(r.pending, stagedChange{kind: changeCreate, drink: drink})
}

// UpdateDrink stages the current state of a fetched drink, ingredients included.
func (r *GORMDrinkRepository) UpdateDrink(drink *models.Drink) {
	r.pending = append(r.pending, stagedChange{kind: changeUpdate, drink: drink})
}

// DeleteDrink stages removal of a drink and its ingredients.
func (r *GORMDrinkRepository) DeleteDrink(drink *models.Drink) {
	r.pending = append(r.pending, stagedChange{kind: changeDelete, drink: drink})
}

// Save commits all staged changes atomically. It reports whether the commit
// completed, not whether rows changed; staged changes are discarded either way.
func (r *GORMDrinkRepository) Save() (bool, error) {
	pending := r.pending
	r.pending = nil
	if len(pending) == 0 {
		return true, nil
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, change := range pending {
			var err error
			switch change.kind {
			case changeCreate:
				err = tx.Create(change.drink).Error
			case changeUpdate:
				err = updateDrink(tx, change.drink)
			case changeDelete:
				err = deleteDrink(tx, change.drink)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to save drink changes: %w", err)
	}
	return true, nil
}

func updateDrink(tx *gorm.DB, drink *models.Drink) error {
	err := tx.Model(&models.Drink{ID: drink.ID}).Updates(map[string]interface{}{
		"name":  drink.Name,
		"brand": drink.Brand,
		"price": drink.Price,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update drink %d: %w", drink.ID, err)
	}

	keep := make([]uint, 0, len(drink.Ingredients))
	for _, ing := range drink.Ingredients {
		if ing.ID != 0 {
			keep = append(keep, ing.ID)
		}
	}
	stale := tx.Where("drink_id = ?", drink.ID)
	if len(keep) > 0 {
		stale = stale.Where("id NOT IN ?", keep)
	}
	if err := stale.Delete(&models.Ingredient{}).Error; err != nil {
		return fmt.Errorf("failed to remove ingredients of drink %d: %w", drink.ID, err)
	}

	for i := range drink.Ingredients {
		ing := &drink.Ingredients[i]
		ing.DrinkID = drink.ID
		if ing.ID == 0 {
			if err := tx.Create(ing).Error; err != nil {
				return fmt.Errorf("failed to add ingredient to drink %d: %w", drink.ID, err)
			}
			continue
		}
		err := tx.Model(&models.Ingredient{}).
			Where("id = ? AND drink_id = ?", ing.ID, drink.ID).
			Updates(map[string]interface{}{
				"name":   ing.Name,
				"amount": ing.Amount,
				"unit":   ing.Unit,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update ingredient %d: %w", ing.ID, err)
		}
	}
	return nil
}

func deleteDrink(tx *gorm.DB, drink *models.Drink) error {
	if err := tx.Where("drink_id = ?", drink.ID).Delete(&models.Ingredient{}).Error; err != nil {
		return fmt.Errorf("failed to delete ingredients of drink %d: %w", drink.ID, err)
	}
	if err := tx.Delete(&models.Drink{}, drink.ID).Error; err != nil {
		return fmt.Errorf("failed to delete drink %d: %w", drink.ID, err)
	}
	return nil
}
