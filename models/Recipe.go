package models

import (
	"errors"
	"math"
	"time"
)

// ErrInvalidPortions is returned when a portion count is not a positive integer.
var ErrInvalidPortions = errors.New("number of portions must be greater than zero")

// Recipe is a catalog entry. CreatedAt holds the calendar date the recipe was
// created and is never updated afterwards.
type Recipe struct {
	ID               uint               `gorm:"primaryKey" json:"id"`
	Name             string             `gorm:"not null;index" json:"name"`
	NumberOfPortions int                `gorm:"not null;check:chk_recipes_portions,number_of_portions > 0" json:"number_of_portions"`
	Instructions     string             `gorm:"type:text;not null" json:"instructions"`
	CreatedAt        time.Time          `gorm:"type:date;not null;<-:create" json:"created_at"`
	MealType         *string            `gorm:"index" json:"meal_type"`
	Nationality      *string            `gorm:"index" json:"nationality"`
	Notes            *string            `gorm:"type:text" json:"notes"`
	Ingredients      []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Tools            []RecipeTool       `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

// PortionFactor returns the multiplier that converts quantities written for
// the recipe's own portion count into quantities for target portions.
func (r Recipe) PortionFactor(target int) (float64, error) {
	if target <= 0 || r.NumberOfPortions <= 0 {
		return 0, ErrInvalidPortions
	}
	factor := float64(target) / float64(r.NumberOfPortions)
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return 0, ErrInvalidPortions
	}
	return factor, nil
}

// CreatedDate truncates t to midnight UTC of its calendar day.
func CreatedDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
