package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"recipebox/internal/dberr"
	applog "recipebox/internal/log"
	"recipebox/internal/metrics"
	"recipebox/internal/repository"
	"recipebox/internal/validation"
	"recipebox/internal/views/pages"
	"recipebox/models"
)

// recipeNotFoundMessage is sent with status 200 for unknown ids; clients of
// the API match on the body rather than on the status.
const recipeNotFoundMessage = "Recipe not found"

type ingredientPayload struct {
	Name      string   `json:"name" validate:"notblank,max=200"`
	Quantity  *float64 `json:"quantity" validate:"omitempty,gte=0"`
	Unit      *string  `json:"unit" validate:"omitempty,max=50"`
	Component *string  `json:"component" validate:"omitempty,max=100"`
}

type createRecipePayload struct {
	Name             string              `json:"name" validate:"notblank,max=200"`
	NumberOfPortions int                 `json:"number_of_portions" validate:"gt=0"`
	Instructions     string              `json:"instructions" validate:"notblank"`
	Ingredients      []ingredientPayload `json:"ingredients" validate:"required,dive"`
	Tools            []string            `json:"tools" validate:"required,dive,notblank,max=200"`
	Nationality      *string             `json:"nationality" validate:"omitempty,max=100"`
	MealType         *string             `json:"meal_type" validate:"omitempty,max=50"`
	Notes            *string             `json:"notes"`
}

type createRecipeResponse struct {
	RecipeID uint `json:"recipe_id"`
}

type validationErrorResponse struct {
	Error  string                  `json:"error"`
	Fields []validation.FieldError `json:"fields"`
}

func (p createRecipePayload) toNewRecipe() repository.NewRecipe {
	lines := make([]repository.IngredientLine, 0, len(p.Ingredients))
	for _, ingredient := range p.Ingredients {
		lines = append(lines, repository.IngredientLine{
			Name:      strings.TrimSpace(ingredient.Name),
			Quantity:  ingredient.Quantity,
			Unit:      ingredient.Unit,
			Component: ingredient.Component,
		})
	}
	tools := make([]string, 0, len(p.Tools))
	for _, tool := range p.Tools {
		tools = append(tools, strings.TrimSpace(tool))
	}

	return repository.NewRecipe{
		RecipeFields: repository.RecipeFields{
			Name:             strings.TrimSpace(p.Name),
			NumberOfPortions: p.NumberOfPortions,
			Instructions:     p.Instructions,
			MealType:         p.MealType,
			Nationality:      p.Nationality,
			Notes:            p.Notes,
		},
		Ingredients: lines,
		Tools:       tools,
	}
}

// CreateRecipe stores a recipe with its ingredients and tools atomically.
func (a *RecipeAPI) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	if !a.available(w, r) {
		return
	}
	ctx := r.Context()

	var payload createRecipePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid recipe create payload", "error", err)
		metrics.RecordRecipeCreate("invalid")
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := validation.Struct(payload); err != nil {
		applog.Debug(ctx, "recipe validation failed", "error", err)
		metrics.RecordRecipeCreate("invalid")
		var verr *validation.Error
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, validationErrorResponse{Error: "validation failed", Fields: verr.Fields})
			return
		}
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := a.recipes.CreateFullRecipe(ctx, payload.toNewRecipe())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmptyName), errors.Is(err, repository.ErrInvalidPortions), errors.Is(err, repository.ErrInvalidQuantity):
			metrics.RecordRecipeCreate("invalid")
			writeJSONError(w, http.StatusBadRequest, err.Error())
		case dberr.IsConflict(err):
			applog.Debug(ctx, "recipe create conflicted", "error", err)
			metrics.RecordRecipeCreate("conflict")
			writeJSONError(w, http.StatusConflict, dberr.Message(err))
		default:
			applog.Error(ctx, "failed to create recipe", "error", err)
			metrics.RecordRecipeCreate("error")
			writeJSONError(w, http.StatusInternalServerError, "unable to create recipe")
		}
		return
	}

	metrics.RecordRecipeCreate("created")
	writeJSON(w, http.StatusOK, createRecipeResponse{RecipeID: id})
}

// ShowRecipe returns the serialized recipe. Unknown ids answer 200 with an
// error body.
func (a *RecipeAPI) ShowRecipe(w http.ResponseWriter, r *http.Request) {
	if !a.available(w, r) {
		return
	}
	ctx := r.Context()

	id, ok := recipeIDParam(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}

	record, err := a.loadRecord(r, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			applog.Debug(ctx, "recipe not found", "recipe_id", id)
			writeJSONError(w, http.StatusOK, recipeNotFoundMessage)
			return
		}
		applog.Error(ctx, "failed to load recipe", "error", err, "recipe_id", id)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipe")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// RecipeCard renders the recipe as a printable HTML page.
func (a *RecipeAPI) RecipeCard(w http.ResponseWriter, r *http.Request) {
	if !a.available(w, r) {
		return
	}
	ctx := r.Context()

	id, ok := recipeIDParam(r)
	if !ok {
		http.Error(w, "invalid recipe id", http.StatusBadRequest)
		return
	}

	record, err := a.loadRecord(r, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load recipe for card", "error", err, "recipe_id", id)
		http.Error(w, "unable to load recipe", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.RecipeCard(record).Render(ctx, w); err != nil {
		applog.Error(ctx, "failed to render recipe card", "error", err, "recipe_id", id)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (a *RecipeAPI) loadRecord(r *http.Request, id uint) (pages.RecipeRecord, error) {
	full, err := a.recipes.GetFullRecipeByID(r.Context(), id)
	if err != nil {
		return pages.RecipeRecord{}, err
	}
	return pages.SerializeRecipe(*full)
}

// ListRecipes returns recipe summaries, optionally filtered by nationality
// and meal type.
func (a *RecipeAPI) ListRecipes(w http.ResponseWriter, r *http.Request) {
	if !a.available(w, r) {
		return
	}
	ctx := r.Context()

	nationality := strings.TrimSpace(r.URL.Query().Get("nationality"))
	mealType := strings.TrimSpace(r.URL.Query().Get("meal_type"))

	var (
		recipes []models.Recipe
		err     error
	)
	switch {
	case nationality != "":
		recipes, err = a.recipes.GetRecipesByNationality(ctx, nationality)
		if err == nil && mealType != "" {
			recipes = filterMealType(recipes, mealType)
		}
	case mealType != "":
		recipes, err = a.recipes.GetRecipesByMealType(ctx, mealType)
	default:
		recipes, err = a.recipes.GetAllRecipes(ctx)
	}
	if err != nil {
		applog.Error(ctx, "failed to list recipes", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipes")
		return
	}

	writeJSON(w, http.StatusOK, pages.ProjectSummaries(recipes))
}

func filterMealType(recipes []models.Recipe, mealType string) []models.Recipe {
	out := recipes[:0]
	for _, recipe := range recipes {
		if recipe.MealType != nil && *recipe.MealType == mealType {
			out = append(out, recipe)
		}
	}
	return out
}
