// Package repository implements the recipe catalog's data access: writes that
// maintain the recipe/ingredient/tool links and the queries that read and rank
// recipes.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"recipebox/models"

	"gorm.io/gorm"
)

var (
	// ErrRecipeNotFound is returned when no recipe has the requested id.
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrInvalidPortions is returned for portion counts that are not positive.
	ErrInvalidPortions = models.ErrInvalidPortions
	// ErrEmptyName is returned when a recipe, ingredient or tool name is blank.
	ErrEmptyName = errors.New("name must not be empty")
	// ErrInvalidQuantity is returned for negative or non-finite quantities.
	ErrInvalidQuantity = errors.New("quantity must be a finite, non-negative number")
)

// Repository reads and writes the catalog through a gorm handle. A Repository
// returned by Transaction is bound to that transaction.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// New wraps db. The handle is owned by the caller.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Transaction runs fn against a Repository bound to a single database
// transaction. The transaction commits when fn returns nil and rolls back on
// any error or panic.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx, now: r.now})
	})
}

// Ping checks that the underlying database answers.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// RecipeFields are the scalar attributes of a new recipe.
type RecipeFields struct {
	Name             string
	NumberOfPortions int
	Instructions     string
	MealType         *string
	Nationality      *string
	Notes            *string
}

// IngredientLine names an ingredient and how much of it a recipe uses.
type IngredientLine struct {
	Name      string
	Quantity  *float64
	Unit      *string
	Component *string
}

// NewRecipe is everything CreateFullRecipe stores in one go.
type NewRecipe struct {
	RecipeFields
	Ingredients []IngredientLine
	Tools       []string
}

// IngredientAmount is the per-recipe detail of one ingredient.
type IngredientAmount struct {
	Quantity  *float64 `json:"quantity"`
	Unit      *string  `json:"unit"`
	Component *string  `json:"component"`
}

// FullRecipe is a recipe joined with its ingredients (keyed by name) and its
// tool names in name order.
type FullRecipe struct {
	Recipe      models.Recipe
	Ingredients map[string]IngredientAmount
	Tools       []string
}

// RecipeMatch pairs a recipe with how many of the requested ingredients it uses.
type RecipeMatch struct {
	Recipe        models.Recipe
	MatchingCount int
}

// ScaledAmount is a matched ingredient's quantity converted to a target
// portion count. A nil Quantity means the recipe gives none.
type ScaledAmount struct {
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
}

// ScaledRecipeMatch is a RecipeMatch with the matched ingredients scaled.
type ScaledRecipeMatch struct {
	Recipe         models.Recipe
	MatchingCount  int
	TargetPortions int
	Ingredients    map[string]ScaledAmount
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
