package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"recipebox/internal/dberr"
	applog "recipebox/internal/log"
	"recipebox/models"
)

// normalizeNames trims names, drops blanks and removes duplicates while
// keeping first-seen order.
func normalizeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// GetRecipesByIngredients returns the recipes that use every one of names,
// in id order. Recipes may use other ingredients too.
func (r *Repository) GetRecipesByIngredients(ctx context.Context, names []string) ([]models.Recipe, error) {
	names = normalizeNames(names)
	recipes := []models.Recipe{}
	if len(names) == 0 {
		return recipes, nil
	}

	db := r.db.WithContext(ctx)
	matching := db.Table("recipe_ingredients").
		Select("recipe_ingredients.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("ingredients.name IN ?", names).
		Group("recipe_ingredients.recipe_id").
		Having("COUNT(DISTINCT recipe_ingredients.ingredient_id) = ?", len(names))

	if err := db.Where("id IN (?)", matching).Order("id").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("search recipes by ingredients: %w", dberr.Wrap(err, "recipes"))
	}

	applog.Debug(ctx, "superset search", "ingredients", len(names), "matches", len(recipes))
	return recipes, nil
}

type matchRow struct {
	RecipeID      uint
	MatchingCount int
}

// GetBestRecipesForIngredients returns every recipe using at least one of
// names with the number it uses, most matches first. Equal counts are
// ordered by recipe id.
func (r *Repository) GetBestRecipesForIngredients(ctx context.Context, names []string) ([]RecipeMatch, error) {
	names = normalizeNames(names)
	matches := []RecipeMatch{}
	if len(names) == 0 {
		return matches, nil
	}

	var rows []matchRow
	err := r.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("recipe_ingredients.recipe_id AS recipe_id, COUNT(DISTINCT recipe_ingredients.ingredient_id) AS matching_count").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("ingredients.name IN ?", names).
		Group("recipe_ingredients.recipe_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("rank recipes by ingredients: %w", dberr.Wrap(err, "recipe_ingredients"))
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.RecipeID)
	}
	recipes, err := r.recipesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		recipe, ok := recipes[row.RecipeID]
		if !ok {
			continue
		}
		matches = append(matches, RecipeMatch{Recipe: recipe, MatchingCount: row.MatchingCount})
	}
	sortMatches(matches, func(i int) (int, uint) { return matches[i].MatchingCount, matches[i].Recipe.ID })

	applog.Debug(ctx, "overlap search", "ingredients", len(names), "matches", len(matches))
	return matches, nil
}

type scaledRow struct {
	RecipeID uint
	Name     string
	Quantity *float64
	Unit     *string
}

// GetBestRecipesForIngredientsWithQuantity ranks recipes like
// GetBestRecipesForIngredients and scales each matched ingredient's quantity
// from the recipe's portion count to targetPortions. Recipes stored with a
// non-positive portion count are left out.
func (r *Repository) GetBestRecipesForIngredientsWithQuantity(ctx context.Context, names []string, targetPortions int) ([]ScaledRecipeMatch, error) {
	if targetPortions <= 0 {
		return nil, fmt.Errorf("scale to %d portions: %w", targetPortions, ErrInvalidPortions)
	}

	names = normalizeNames(names)
	matches := []ScaledRecipeMatch{}
	if len(names) == 0 {
		return matches, nil
	}

	var rows []scaledRow
	err := r.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("recipe_ingredients.recipe_id AS recipe_id, ingredients.name AS name, recipe_ingredients.quantity AS quantity, recipe_ingredients.unit AS unit").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("ingredients.name IN ?", names).
		Order("recipe_ingredients.recipe_id, ingredients.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load matched ingredients: %w", dberr.Wrap(err, "recipe_ingredients"))
	}

	byRecipe := make(map[uint][]scaledRow)
	ids := make([]uint, 0)
	for _, row := range rows {
		if _, ok := byRecipe[row.RecipeID]; !ok {
			ids = append(ids, row.RecipeID)
		}
		byRecipe[row.RecipeID] = append(byRecipe[row.RecipeID], row)
	}

	recipes, err := r.recipesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		recipe, ok := recipes[id]
		if !ok {
			continue
		}
		factor, err := recipe.PortionFactor(targetPortions)
		if err != nil {
			applog.Debug(ctx, "skipping recipe with invalid portions", "recipe_id", id, "portions", recipe.NumberOfPortions)
			continue
		}

		scaled := make(map[string]ScaledAmount, len(byRecipe[id]))
		for _, row := range byRecipe[id] {
			amount := ScaledAmount{Unit: row.Unit}
			if row.Quantity != nil {
				q := *row.Quantity * factor
				amount.Quantity = &q
			}
			scaled[row.Name] = amount
		}

		matches = append(matches, ScaledRecipeMatch{
			Recipe:         recipe,
			MatchingCount:  len(scaled),
			TargetPortions: targetPortions,
			Ingredients:    scaled,
		})
	}
	sortMatches(matches, func(i int) (int, uint) { return matches[i].MatchingCount, matches[i].Recipe.ID })

	return matches, nil
}

func (r *Repository) recipesByID(ctx context.Context, ids []uint) (map[uint]models.Recipe, error) {
	out := make(map[uint]models.Recipe, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var recipes []models.Recipe
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("load matched recipes: %w", dberr.Wrap(err, "recipes"))
	}
	for _, recipe := range recipes {
		out[recipe.ID] = recipe
	}
	return out, nil
}

// sortMatches orders by count descending, then id ascending.
func sortMatches[T any](matches []T, key func(i int) (int, uint)) {
	sort.SliceStable(matches, func(i, j int) bool {
		ci, idi := key(i)
		cj, idj := key(j)
		if ci != cj {
			return ci > cj
		}
		return idi < idj
	})
}
