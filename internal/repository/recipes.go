package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"recipebox/internal/dberr"
	applog "recipebox/internal/log"
	"recipebox/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateRecipe inserts the recipe row dated today (UTC). Inside Transaction
// the row only becomes visible when the transaction commits.
func (r *Repository) CreateRecipe(ctx context.Context, fields RecipeFields) (*models.Recipe, error) {
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return nil, fmt.Errorf("create recipe: %w", ErrEmptyName)
	}
	if fields.NumberOfPortions <= 0 {
		return nil, fmt.Errorf("create recipe %q: %w", name, ErrInvalidPortions)
	}

	recipe := &models.Recipe{
		Name:             name,
		NumberOfPortions: fields.NumberOfPortions,
		Instructions:     fields.Instructions,
		CreatedAt:        models.CreatedDate(r.now()),
		MealType:         trimOptional(fields.MealType),
		Nationality:      trimOptional(fields.Nationality),
		Notes:            fields.Notes,
	}
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, fmt.Errorf("create recipe %q: %w", name, dberr.Wrap(err, "recipes"))
	}
	return recipe, nil
}

// GetOrCreateIngredient returns the ingredient called name, inserting it
// first if needed. Concurrent callers always end up with the same row.
func (r *Repository) GetOrCreateIngredient(ctx context.Context, name string) (*models.Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("get or create ingredient: %w", ErrEmptyName)
	}

	db := r.db.WithContext(ctx)
	insert := models.Ingredient{Name: name}
	if err := db.Clauses(onNameConflict()).Create(&insert).Error; err != nil {
		return nil, fmt.Errorf("insert ingredient %q: %w", name, dberr.Wrap(err, "ingredients"))
	}

	var ingredient models.Ingredient
	if err := db.Where("name = ?", name).First(&ingredient).Error; err != nil {
		return nil, fmt.Errorf("load ingredient %q: %w", name, dberr.Wrap(err, "ingredients"))
	}
	return &ingredient, nil
}

// GetOrCreateKitchenTool is GetOrCreateIngredient for kitchen tools. New
// tools are stored with Given=false.
func (r *Repository) GetOrCreateKitchenTool(ctx context.Context, name string) (*models.KitchenTool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("get or create kitchen tool: %w", ErrEmptyName)
	}

	db := r.db.WithContext(ctx)
	insert := models.KitchenTool{Name: name}
	if err := db.Clauses(onNameConflict()).Create(&insert).Error; err != nil {
		return nil, fmt.Errorf("insert kitchen tool %q: %w", name, dberr.Wrap(err, "kitchen_tools"))
	}

	var tool models.KitchenTool
	if err := db.Where("name = ?", name).First(&tool).Error; err != nil {
		return nil, fmt.Errorf("load kitchen tool %q: %w", name, dberr.Wrap(err, "kitchen_tools"))
	}
	return &tool, nil
}

func onNameConflict() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}
}

// AddIngredientToRecipe links the named ingredient to recipeID, creating the
// ingredient if it does not exist yet. Linking the same ingredient twice fails
// with a unique violation.
func (r *Repository) AddIngredientToRecipe(ctx context.Context, recipeID uint, line IngredientLine) (*models.RecipeIngredient, error) {
	if q := line.Quantity; q != nil && (*q < 0 || math.IsNaN(*q) || math.IsInf(*q, 0)) {
		return nil, fmt.Errorf("add ingredient %q: %w", line.Name, ErrInvalidQuantity)
	}

	ingredient, err := r.GetOrCreateIngredient(ctx, line.Name)
	if err != nil {
		return nil, err
	}

	link := &models.RecipeIngredient{
		RecipeID:     recipeID,
		IngredientID: ingredient.ID,
		Quantity:     line.Quantity,
		Unit:         trimOptional(line.Unit),
		Component:    trimOptional(line.Component),
	}
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return nil, fmt.Errorf("link ingredient %q to recipe %d: %w", ingredient.Name, recipeID, dberr.Wrap(err, "recipe_ingredients"))
	}
	return link, nil
}

// AddToolToRecipe links the named kitchen tool to recipeID, creating the tool
// if needed.
func (r *Repository) AddToolToRecipe(ctx context.Context, recipeID uint, name string) (*models.RecipeTool, error) {
	tool, err := r.GetOrCreateKitchenTool(ctx, name)
	if err != nil {
		return nil, err
	}

	link := &models.RecipeTool{RecipeID: recipeID, ToolID: tool.ID}
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return nil, fmt.Errorf("link tool %q to recipe %d: %w", tool.Name, recipeID, dberr.Wrap(err, "recipe_tools"))
	}
	return link, nil
}

// CreateFullRecipe stores a recipe with all of its ingredient and tool links
// in one transaction and returns the new recipe id. On any failure nothing is
// stored.
func (r *Repository) CreateFullRecipe(ctx context.Context, in NewRecipe) (uint, error) {
	var recipeID uint
	err := r.Transaction(ctx, func(tx *Repository) error {
		recipe, err := tx.CreateRecipe(ctx, in.RecipeFields)
		if err != nil {
			return err
		}
		for _, line := range in.Ingredients {
			if _, err := tx.AddIngredientToRecipe(ctx, recipe.ID, line); err != nil {
				return err
			}
		}
		for _, name := range in.Tools {
			if _, err := tx.AddToolToRecipe(ctx, recipe.ID, name); err != nil {
				return err
			}
		}
		recipeID = recipe.ID
		return nil
	})
	if err != nil {
		applog.Debug(ctx, "recipe create rolled back", "name", in.Name, "error", err)
		return 0, err
	}

	applog.Info(ctx, "recipe created", "recipe_id", recipeID, "ingredients", len(in.Ingredients), "tools", len(in.Tools))
	return recipeID, nil
}

// GetRecipeByID returns the recipe row or ErrRecipeNotFound.
func (r *Repository) GetRecipeByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrRecipeNotFound, id)
		}
		return nil, fmt.Errorf("load recipe %d: %w", id, dberr.Wrap(err, "recipes"))
	}
	return &recipe, nil
}

type ingredientRow struct {
	Name      string
	Quantity  *float64
	Unit      *string
	Component *string
}

// GetRecipeIngredients maps ingredient name to amount for recipeID. An
// unknown id gives an empty map.
func (r *Repository) GetRecipeIngredients(ctx context.Context, recipeID uint) (map[string]IngredientAmount, error) {
	var rows []ingredientRow
	err := r.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, recipe_ingredients.quantity AS quantity, recipe_ingredients.unit AS unit, recipe_ingredients.component AS component").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id = ?", recipeID).
		Order("ingredients.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load ingredients of recipe %d: %w", recipeID, dberr.Wrap(err, "recipe_ingredients"))
	}

	out := make(map[string]IngredientAmount, len(rows))
	for _, row := range rows {
		out[row.Name] = IngredientAmount{
			Quantity:  row.Quantity,
			Unit:      row.Unit,
			Component: row.Component,
		}
	}
	return out, nil
}

// GetRecipeTools lists the tool names of recipeID in name order. An unknown
// id gives an empty list.
func (r *Repository) GetRecipeTools(ctx context.Context, recipeID uint) ([]string, error) {
	names := []string{}
	err := r.db.WithContext(ctx).
		Table("recipe_tools").
		Joins("JOIN kitchen_tools ON kitchen_tools.id = recipe_tools.tool_id").
		Where("recipe_tools.recipe_id = ?", recipeID).
		Order("kitchen_tools.name").
		Pluck("kitchen_tools.name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("load tools of recipe %d: %w", recipeID, dberr.Wrap(err, "recipe_tools"))
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// GetFullRecipeByID loads a recipe with its ingredients and tools.
func (r *Repository) GetFullRecipeByID(ctx context.Context, id uint) (*FullRecipe, error) {
	recipe, err := r.GetRecipeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ingredients, err := r.GetRecipeIngredients(ctx, id)
	if err != nil {
		return nil, err
	}

	tools, err := r.GetRecipeTools(ctx, id)
	if err != nil {
		return nil, err
	}

	return &FullRecipe{Recipe: *recipe, Ingredients: ingredients, Tools: tools}, nil
}

// GetAllRecipes returns every recipe in id order.
func (r *Repository) GetAllRecipes(ctx context.Context) ([]models.Recipe, error) {
	return r.findRecipes(ctx, "")
}

// GetRecipesByNationality returns recipes whose nationality equals nationality.
func (r *Repository) GetRecipesByNationality(ctx context.Context, nationality string) ([]models.Recipe, error) {
	return r.findRecipes(ctx, "nationality = ?", strings.TrimSpace(nationality))
}

// GetRecipesByMealType returns recipes whose meal type equals mealType.
func (r *Repository) GetRecipesByMealType(ctx context.Context, mealType string) ([]models.Recipe, error) {
	return r.findRecipes(ctx, "meal_type = ?", strings.TrimSpace(mealType))
}

func (r *Repository) findRecipes(ctx context.Context, where string, args ...any) ([]models.Recipe, error) {
	query := r.db.WithContext(ctx).Model(&models.Recipe{})
	if where != "" {
		query = query.Where(where, args...)
	}

	recipes := []models.Recipe{}
	if err := query.Order("id").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", dberr.Wrap(err, "recipes"))
	}
	return recipes, nil
}
