package errs_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"drinks/internal/errs"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestApp(development bool) *fiber.App {
	return newLoggedTestApp(zap.NewNop(), development)
}

func newLoggedTestApp(log *zap.Logger, development bool) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: errs.Handler(log.Sugar(), development)})
	app.Get("/notfound", func(c *fiber.Ctx) error {
		return errs.NewNotFoundError("Drink not found")
	})
	app.Get("/validation", func(c *fiber.Ctx) error {
		return errs.NewValidationError([]errs.FieldError{{Field: "price", Error: "must not exceed 10000"}})
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("database is on fire")
	})
	return app
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHandler_HTTPError(t *testing.T) {
	app := newTestApp(false)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/notfound", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "Drink not found", body["message"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/validation", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body = decode(t, resp)
	fieldErrors, ok := body["errors"].([]interface{})
	require.True(t, ok)
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "price", fieldErrors[0].(map[string]interface{})["field"])
}

func TestHandler_InternalErrorHidesDetail(t *testing.T) {
	resp, err := newTestApp(false).Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Internal Server Error", body["message"])
	assert.NotContains(t, body, "detail")
}

func TestHandler_InternalErrorDevelopmentDetail(t *testing.T) {
	resp, err := newTestApp(true).Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "database is on fire", body["detail"])
}

func TestHandler_FiberError(t *testing.T) {
	resp, err := newTestApp(false).Test(httptest.NewRequest(http.MethodGet, "/missing-route", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestHandler_LogsUnhandledErrorsOutsideDevelopment(t *testing.T) {
	for _, development := range []bool{false, true} {
		core, logs := observer.New(zap.ErrorLevel)
		app := newLoggedTestApp(zap.New(core), development)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
		resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/notfound", nil), -1)
		require.NoError(t, err)
		resp.Body.Close()

		if development {
			assert.Zero(t, logs.Len())
			continue
		}
		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "unhandled request error", entry.Message)
		assert.Equal(t, "/boom", entry.ContextMap()["path"])
	}
}
