package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"drinks/internal/dto"
	"drinks/internal/errs"
	"drinks/internal/models"
	"drinks/internal/patch"
	"drinks/internal/repositories"
	"drinks/internal/services"
	"drinks/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// RouteGetDrink names the single-drink route, used to build Location headers.
const RouteGetDrink = "drinks.get"

// HeaderPagination carries the JSON pagination metadata of a list response.
const HeaderPagination = "X-Pagination"

// DrinkService is the business logic the drink endpoints depend on.
type DrinkService interface {
	ListDrinks(ctx context.Context, searchQuery, brand string, pageNumber, pageSize int) ([]dto.Drink, models.PaginationMetadata, error)
	GetDrink(ctx context.Context, id uint) (*dto.Drink, error)
	CreateDrink(ctx context.Context, in dto.DrinkForCreation) (*dto.Drink, error)
	UpdateDrink(ctx context.Context, id uint, in dto.DrinkForUpdate) error
	PatchDrink(ctx context.Context, id uint, doc patch.Document) error
	DeleteDrink(ctx context.Context, id uint) error
}

// DrinkHandler handles HTTP requests for drinks.
type DrinkHandler struct {
	service DrinkService
}

// NewDrinkHandler creates a new DrinkHandler.
func NewDrinkHandler(service DrinkService) *DrinkHandler {
	return &DrinkHandler{
		service: service,
	}
}

// RegisterRoutes registers the drink routes on router.
func (h *DrinkHandler) RegisterRoutes(router fiber.Router) {
	drinkRoutes := router.Group("/drinks")
	drinkRoutes.Get("/", h.HandleListDrinks)
	drinkRoutes.Get("/:id", h.HandleGetDrink).Name(RouteGetDrink)
	drinkRoutes.Post("/", h.HandleCreateDrink)
	drinkRoutes.Put("/:id", h.HandleUpdateDrink)
	drinkRoutes.Patch("/:id", h.HandlePatchDrink)
	drinkRoutes.Delete("/:id", h.HandleDeleteDrink)
}

// HandleListDrinks returns one page of drinks and the pagination metadata in
// the X-Pagination header. Page parameters that are not integers fall back to
// their defaults.
func (h *DrinkHandler) HandleListDrinks(c *fiber.Ctx) error {
	pageNumber := repositories.ClampPageNumber(c.QueryInt("pageNumber", 1))
	pageSize := repositories.ClampPageSize(c.QueryInt("pageSize", repositories.DefaultPageSize))

	drinks, meta, err := h.service.ListDrinks(c.UserContext(), c.Query("searchQuery"), c.Query("brand"), pageNumber, pageSize)
	if err != nil {
		return fmt.Errorf("failed to list drinks: %w", err)
	}

	header, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode pagination metadata: %w", err)
	}
	c.Set(HeaderPagination, string(header))
	return c.JSON(drinks)
}

// HandleGetDrink returns a single drink.
func (h *DrinkHandler) HandleGetDrink(c *fiber.Ctx) error {
	id, err := drinkID(c)
	if err != nil {
		return err
	}

	drink, err := h.service.GetDrink(c.UserContext(), id)
	if err != nil {
		return drinkError(err)
	}
	return c.JSON(drink)
}

// HandleCreateDrink creates a drink and points the Location header at it.
func (h *DrinkHandler) HandleCreateDrink(c *fiber.Ctx) error {
	var in dto.DrinkForCreation
	if err := c.BodyParser(&in); err != nil {
		return errs.NewBadRequestError("Invalid request body", nil)
	}

	drink, err := h.service.CreateDrink(c.UserContext(), in)
	if err != nil {
		return drinkError(err)
	}

	c.Location(h.drinkURL(c, drink.ID))
	return c.Status(fiber.StatusCreated).JSON(drink)
}

// HandleUpdateDrink replaces a drink.
func (h *DrinkHandler) HandleUpdateDrink(c *fiber.Ctx) error {
	id, err := drinkID(c)
	if err != nil {
		return err
	}

	var in dto.DrinkForUpdate
	if err := c.BodyParser(&in); err != nil {
		return errs.NewBadRequestError("Invalid request body", nil)
	}

	if err := h.service.UpdateDrink(c.UserContext(), id, in); err != nil {
		return drinkError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandlePatchDrink applies a patch document. A malformed document is
// rejected before the drink is looked up.
func (h *DrinkHandler) HandlePatchDrink(c *fiber.Ctx) error {
	doc, err := patch.Parse(c.Body())
	if err != nil {
		return errs.NewBadRequestError(err.Error(), nil)
	}

	id, err := drinkID(c)
	if err != nil {
		return err
	}

	if err := h.service.PatchDrink(c.UserContext(), id, doc); err != nil {
		return drinkError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDeleteDrink deletes a drink and its ingredients.
func (h *DrinkHandler) HandleDeleteDrink(c *fiber.Ctx) error {
	id, err := drinkID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteDrink(c.UserContext(), id); err != nil {
		return drinkError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DrinkHandler) drinkURL(c *fiber.Ctx, id uint) string {
	idParam := strconv.FormatUint(uint64(id), 10)
	path, err := c.GetRouteURL(RouteGetDrink, fiber.Map{"id": idParam})
	if err != nil || path == "" {
		path = "/api/drinks/" + idParam
	}
	return c.BaseURL() + path
}

// drinkID reads the id path parameter. IDs that cannot exist are reported as
// not found.
func drinkID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errs.NewNotFoundError("Drink not found")
	}
	return uint(id), nil
}

// drinkError maps service errors to client errors. Anything unmapped reaches
// the error handler as a 500.
func drinkError(err error) error {
	var validationErr *services.ValidationError
	var patchErr *patch.Error
	switch {
	case errors.Is(err, services.ErrDrinkNotFound):
		return errs.NewNotFoundError("Drink not found")
	case errors.As(err, &validationErr):
		return errs.NewValidationError(validation.FieldErrors(validationErr))
	case errors.As(err, &patchErr):
		return errs.NewBadRequestError(patchErr.Error(), nil)
	default:
		return err
	}
}
