package pages

import (
	"errors"
	"sort"

	"recipebox/internal/repository"
	"recipebox/models"
)

// DateLayout is the ISO-8601 calendar date used for created_at.
const DateLayout = "2006-01-02"

// ErrMissingCreatedAt is returned when a stored recipe has no creation date.
var ErrMissingCreatedAt = errors.New("recipe has no created_at date")

// RecipeRecord is the flat, serializable shape of a full recipe.
type RecipeRecord struct {
	Name             string                                 `json:"name"`
	NumberOfPortions int                                    `json:"number_of_portions"`
	Instructions     string                                 `json:"instructions"`
	Ingredients      map[string]repository.IngredientAmount `json:"ingredients"`
	Tools            []string                               `json:"tools"`
	Nationality      *string                                `json:"nationality"`
	MealType         *string                                `json:"meal_type"`
	Notes            *string                                `json:"notes"`
	CreatedAt        string                                 `json:"created_at"`
}

// SerializeRecipe flattens full into a RecipeRecord.
func SerializeRecipe(full repository.FullRecipe) (RecipeRecord, error) {
	if full.Recipe.CreatedAt.IsZero() {
		return RecipeRecord{}, ErrMissingCreatedAt
	}

	ingredients := full.Ingredients
	if ingredients == nil {
		ingredients = map[string]repository.IngredientAmount{}
	}
	tools := full.Tools
	if tools == nil {
		tools = []string{}
	}

	return RecipeRecord{
		Name:             full.Recipe.Name,
		NumberOfPortions: full.Recipe.NumberOfPortions,
		Instructions:     full.Recipe.Instructions,
		Ingredients:      ingredients,
		Tools:            tools,
		Nationality:      full.Recipe.Nationality,
		MealType:         full.Recipe.MealType,
		Notes:            full.Recipe.Notes,
		CreatedAt:        full.Recipe.CreatedAt.Format(DateLayout),
	}, nil
}

// RecipeSummary is a list entry without ingredients or tools.
type RecipeSummary struct {
	ID               uint    `json:"id"`
	Name             string  `json:"name"`
	NumberOfPortions int     `json:"number_of_portions"`
	MealType         *string `json:"meal_type"`
	Nationality      *string `json:"nationality"`
	CreatedAt        string  `json:"created_at"`
}

// ProjectSummaries maps recipes to summaries, keeping their order.
func ProjectSummaries(recipes []models.Recipe) []RecipeSummary {
	out := make([]RecipeSummary, 0, len(recipes))
	for _, recipe := range recipes {
		out = append(out, projectSummary(recipe))
	}
	return out
}

func projectSummary(recipe models.Recipe) RecipeSummary {
	summary := RecipeSummary{
		ID:               recipe.ID,
		Name:             recipe.Name,
		NumberOfPortions: recipe.NumberOfPortions,
		MealType:         recipe.MealType,
		Nationality:      recipe.Nationality,
	}
	if !recipe.CreatedAt.IsZero() {
		summary.CreatedAt = recipe.CreatedAt.Format(DateLayout)
	}
	return summary
}

// MatchRecord is one ranked search result.
type MatchRecord struct {
	RecipeSummary
	MatchingCount int `json:"matching_count"`
}

// ProjectMatches maps ranked matches to records.
func ProjectMatches(matches []repository.RecipeMatch) []MatchRecord {
	out := make([]MatchRecord, 0, len(matches))
	for _, match := range matches {
		out = append(out, MatchRecord{
			RecipeSummary: projectSummary(match.Recipe),
			MatchingCount: match.MatchingCount,
		})
	}
	return out
}

// ScaledMatchRecord is a ranked result with quantities for TargetPortions.
type ScaledMatchRecord struct {
	MatchRecord
	TargetPortions int                                `json:"target_portions"`
	Ingredients    map[string]repository.ScaledAmount `json:"ingredients"`
}

// ProjectScaledMatches maps scaled matches to records.
func ProjectScaledMatches(matches []repository.ScaledRecipeMatch) []ScaledMatchRecord {
	out := make([]ScaledMatchRecord, 0, len(matches))
	for _, match := range matches {
		out = append(out, ScaledMatchRecord{
			MatchRecord: MatchRecord{
				RecipeSummary: projectSummary(match.Recipe),
				MatchingCount: match.MatchingCount,
			},
			TargetPortions: match.TargetPortions,
			Ingredients:    match.Ingredients,
		})
	}
	return out
}

// SortedIngredientNames returns the ingredient names of record alphabetically.
func SortedIngredientNames(record RecipeRecord) []string {
	names := make([]string, 0, len(record.Ingredients))
	for name := range record.Ingredients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
