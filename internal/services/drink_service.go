package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drinks/internal/dto"
	"drinks/internal/models"
	"drinks/internal/patch"
	"drinks/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrDrinkNotFound is returned when no drink has the requested ID.
	ErrDrinkNotFound = repositories.ErrDrinkNotFound
	// ErrSaveFailed is returned when the unit of work reports an unsuccessful commit.
	ErrSaveFailed = errors.New("failed to save changes")
)

// ValidationError wraps the validator errors of a rejected request body or
// patched representation.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// EventPublisher delivers drink lifecycle events to a broker.
type EventPublisher interface {
	PublishJSON(payload interface{}) error
}

// DrinkRepositoryFactory opens a unit of work scoped to one request.
type DrinkRepositoryFactory func(ctx context.Context) repositories.DrinkRepository

// DrinkService handles business logic related to drinks.
type DrinkService struct {
	newRepo   DrinkRepositoryFactory
	validate  *validator.Validate
	publisher EventPublisher
	log       *zap.SugaredLogger
}

// NewDrinkService creates a new DrinkService. publisher may be nil, in which
// case no events are sent.
func NewDrinkService(newRepo DrinkRepositoryFactory, validate *validator.Validate, publisher EventPublisher, log *zap.SugaredLogger) *DrinkService {
	return &DrinkService{
		newRepo:   newRepo,
		validate:  validate,
		publisher: publisher,
		log:       log,
	}
}

// ListDrinks returns one filtered page of drinks.
func (s *DrinkService) ListDrinks(ctx context.Context, searchQuery, brand string, pageNumber, pageSize int) ([]dto.Drink, models.PaginationMetadata, error) {
	drinks, meta, err := s.newRepo(ctx).ListDrinks(searchQuery, brand, pageNumber, pageSize)
	if err != nil {
		return nil, models.PaginationMetadata{}, err
	}
	return dto.FromDrinkEntities(drinks), meta, nil
}

// GetDrink retrieves a single drink by its ID.
func (s *DrinkService) GetDrink(ctx context.Context, id uint) (*dto.Drink, error) {
	drink, err := s.newRepo(ctx).GetDrinkByID(id)
	if err != nil {
		return nil, err
	}
	out := dto.FromDrinkEntity(*drink)
	return &out, nil
}

// CreateDrink validates and stores a new drink, returning it with the ID
// assigned by the store.
func (s *DrinkService) CreateDrink(ctx context.Context, in dto.DrinkForCreation) (*dto.Drink, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, &ValidationError{Err: err}
	}

	repo := s.newRepo(ctx)
	drink := dto.ToDrinkEntity(in)
	repo.CreateDrink(&drink)
	if err := save(repo); err != nil {
		return nil, err
	}

	s.publish(models.DrinkCreated, drink)
	out := dto.FromDrinkEntity(drink)
	return &out, nil
}

// UpdateDrink replaces every updatable field of an existing drink.
func (s *DrinkService) UpdateDrink(ctx context.Context, id uint, in dto.DrinkForUpdate) error {
	if err := s.validate.Struct(in); err != nil {
		return &ValidationError{Err: err}
	}

	repo := s.newRepo(ctx)
	drink, err := repo.GetDrinkByID(id)
	if err != nil {
		return err
	}

	dto.ApplyUpdate(in, drink)
	repo.UpdateDrink(drink)
	if err := save(repo); err != nil {
		return err
	}

	s.publish(models.DrinkUpdated, *drink)
	return nil
}

// PatchDrink applies a patch document to the editable representation of a
// drink. Nothing is staged unless the patched representation validates.
func (s *DrinkService) PatchDrink(ctx context.Context, id uint, doc patch.Document) error {
	repo := s.newRepo(ctx)
	drink, err := repo.GetDrinkByID(id)
	if err != nil {
		return err
	}

	editable := dto.ToDrinkPatch(*drink)
	if err := doc.Apply(&editable); err != nil {
		return err
	}
	if err := s.validate.Struct(editable); err != nil {
		return &ValidationError{Err: err}
	}

	dto.ApplyPatch(editable, drink)
	repo.UpdateDrink(drink)
	if err := save(repo); err != nil {
		return err
	}

	s.publish(models.DrinkUpdated, *drink)
	return nil
}

// DeleteDrink removes a drink and its ingredients.
func (s *DrinkService) DeleteDrink(ctx context.Context, id uint) error {
	repo := s.newRepo(ctx)
	drink, err := repo.GetDrinkByID(id)
	if err != nil {
		return err
	}

	repo.DeleteDrink(drink)
	if err := save(repo); err != nil {
		return err
	}

	s.publish(models.DrinkDeleted, *drink)
	return nil
}

func save(repo repositories.DrinkRepository) error {
	ok, err := repo.Save()
	if err != nil {
		return err
	}
	if !ok {
		return ErrSaveFailed
	}
	return nil
}

// publish sends a lifecycle event for a committed change. Broker failures
// are logged only.
func (s *DrinkService) publish(eventType string, drink models.Drink) {
	if s.publisher == nil {
		return
	}

	event := models.DrinkEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		DrinkID:    drink.ID,
		Name:       drink.Name,
		Brand:      drink.Brand,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishJSON(event); err != nil {
		s.log.Warnw("failed to publish drink event",
			"type", eventType,
			"drink_id", drink.ID,
			"error", err,
		)
	}
}
