package main

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"drinks/internal/database"
	"drinks/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDrinkRepositoryFactory(t *testing.T) {
	db, err := database.Open(database.Config{
		Driver: database.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db))

	newRepo := drinkRepositoryFactory(db)
	first, second := newRepo(context.Background()), newRepo(context.Background())
	assert.NotSame(t, first, second, "each request gets its own unit of work")

	drink, err := first.GetDrinkByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Cola", drink.Name)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = newRepo(ctx).GetDrinkByID(1)
	assert.Error(t, err, "a cancelled request context aborts the query")
}

func TestLogDrinkEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := logDrinkEvent(zap.New(core).Sugar())

	body, err := json.Marshal(models.DrinkEvent{
		ID:         "evt-1",
		Type:       models.DrinkCreated,
		DrinkID:    3,
		Name:       "Lemonade",
		Brand:      "Minute Maid",
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, handler(body))
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, models.DrinkCreated, fields["type"])
	assert.EqualValues(t, 3, fields["drink_id"])

	assert.Error(t, handler([]byte("not json")))
}
