package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"recipebox/internal/db"
	"recipebox/internal/repository"
)

func newTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := db.OpenMemory("handlers_" + name)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(database); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	return database
}

func newTestAPI(t *testing.T) *RecipeAPI {
	t.Helper()
	return NewRecipeAPI(repository.New(newTestDatabase(t)))
}

func withRecipeID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("recipeID", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func ptr[T any](v T) *T { return &v }

func seedRecipe(t *testing.T, api *RecipeAPI, in repository.NewRecipe) uint {
	t.Helper()
	id, err := api.recipes.CreateFullRecipe(context.Background(), in)
	if err != nil {
		t.Fatalf("failed to seed %q: %v", in.Name, err)
	}
	return id
}

func pancakes() repository.NewRecipe {
	return repository.NewRecipe{
		RecipeFields: repository.RecipeFields{
			Name:             "Pancakes",
			NumberOfPortions: 4,
			Instructions:     "Whisk and fry.",
			MealType:         ptr("breakfast"),
			Nationality:      ptr("American"),
		},
		Ingredients: []repository.IngredientLine{
			{Name: "flour", Quantity: ptr(200.0), Unit: ptr("g"), Component: ptr("batter")},
			{Name: "egg", Quantity: ptr(2.0)},
			{Name: "milk", Quantity: ptr(300.0), Unit: ptr("ml")},
		},
		Tools: []string{"pan", "whisk"},
	}
}

func omelette() repository.NewRecipe {
	return repository.NewRecipe{
		RecipeFields: repository.RecipeFields{
			Name:             "Omelette",
			NumberOfPortions: 1,
			Instructions:     "Beat and cook.",
			MealType:         ptr("breakfast"),
			Nationality:      ptr("French"),
		},
		Ingredients: []repository.IngredientLine{
			{Name: "egg", Quantity: ptr(3.0)},
			{Name: "salt"},
		},
		Tools: []string{"pan"},
	}
}
