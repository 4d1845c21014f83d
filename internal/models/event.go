package models

import "time"

// Drink lifecycle event types.
const (
	DrinkCreated = "drink.created"
	DrinkUpdated = "drink.updated"
	DrinkDeleted = "drink.deleted"
)

// DrinkEvent is published after a drink change has been committed.
type DrinkEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	DrinkID    uint      `json:"drinkId"`
	Name       string    `json:"name"`
	Brand      string    `json:"brand"`
	OccurredAt time.Time `json:"occurredAt"`
}
