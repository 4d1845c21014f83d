package errs

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler returns the fiber ErrorHandler for the app. Unexpected errors are
// answered with a generic 500. Development responses carry the underlying
// error text instead of logging it.
func Handler(log *zap.SugaredLogger, development bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			return c.Status(httpErr.Status).JSON(httpErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(&HTTPError{
				Code:    codeFor(fiberErr.Code),
				Message: fiberErr.Message,
				Status:  fiberErr.Code,
			})
		}

		internal := NewInternalServerError()
		if development {
			return c.Status(internal.Status).JSON(fiber.Map{
				"code":    internal.Code,
				"message": internal.Message,
				"status":  internal.Status,
				"detail":  err.Error(),
			})
		}
		log.Errorw("unhandled request error",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		return c.Status(internal.Status).JSON(internal)
	}
}
