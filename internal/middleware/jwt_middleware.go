package middleware

import (
	"strings"

	"drinks/internal/errs"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Locals keys set for authenticated requests.
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
)

// TokenValidator checks a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (jwt.MapClaims, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(validator TokenValidator, log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return errs.NewUnauthorizedError("Authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return errs.NewUnauthorizedError("Authorization header format must be 'Bearer <token>'")
		}

		claims, err := validator.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			log.Debugw("rejected bearer token", "path", c.Path(), "error", err)
			return errs.NewUnauthorizedError("Invalid or expired token")
		}

		c.Locals(LocalUserID, claims["sub"])
		c.Locals(LocalUsername, claims["username"])
		return c.Next()
	}
}
