package middleware_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"drinks/internal/errs"
	"drinks/internal/middleware"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubValidator struct{}

func (stubValidator) ValidateToken(token string) (jwt.MapClaims, error) {
	if token != "good-token" {
		return nil, errors.New("invalid token")
	}
	return jwt.MapClaims{"sub": "user-1", "username": "alice"}, nil
}

func setupApp() *fiber.App {
	log := zap.NewNop().Sugar()
	app := fiber.New(fiber.Config{ErrorHandler: errs.Handler(log, false)})
	app.Get("/secret", middleware.AuthRequired(stubValidator{}, log), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(middleware.LocalUserID).(string) + ":" + c.Locals(middleware.LocalUsername).(string))
	})
	return app
}

func TestAuthRequired(t *testing.T) {
	app := setupApp()

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"good token", "Bearer good-token", http.StatusOK},
		{"lowercase scheme", "bearer good-token", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secret", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)

			if tc.status == http.StatusOK {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, "user-1:alice", string(body))
			}
		})
	}
}
