package models

import "github.com/shopspring/decimal"

// Drink represents a drink in the catalog.
type Drink struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"`
	Name        string          `gorm:"type:varchar(50);not null"`
	Brand       string          `gorm:"type:varchar(50);not null;index"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Ingredients []Ingredient    `gorm:"foreignKey:DrinkID;constraint:OnDelete:CASCADE"`
}

// Ingredient is owned by exactly one Drink.
type Ingredient struct {
	ID      uint            `gorm:"primaryKey;autoIncrement"`
	Name    string          `gorm:"type:varchar(50);not null"`
	Amount  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Unit    string          `gorm:"type:varchar(20)"`
	DrinkID uint            `gorm:"not null;index"`
}
