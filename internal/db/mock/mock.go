package mock

import (
	"context"

	"recipebox/internal/db"
	applog "recipebox/internal/log"
	"recipebox/internal/repository"

	"gorm.io/gorm"
)

// New returns an in-memory sqlite database seeded with a small recipe catalog.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	database, err := db.OpenMemory("recipebox-mock")
	if err != nil {
		return nil, err
	}

	if err := seed(ctx, repository.New(database)); err != nil {
		_ = db.Close(database)
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func seed(ctx context.Context, repo *repository.Repository) error {
	applog.Debug(ctx, "seeding mock database")

	existing, err := repo.GetAllRecipes(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, recipe := range catalog() {
		if _, err := repo.CreateFullRecipe(ctx, recipe); err != nil {
			return err
		}
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}

func catalog() []repository.NewRecipe {
	return []repository.NewRecipe{
		{
			RecipeFields: repository.RecipeFields{
				Name:             "Pancakes",
				NumberOfPortions: 4,
				Instructions:     "Whisk flour, eggs and milk into a smooth batter. Fry ladlefuls in a buttered pan until golden on both sides.",
				MealType:         str("breakfast"),
				Nationality:      str("American"),
				Notes:            str("Rest the batter for ten minutes for fluffier pancakes."),
			},
			Ingredients: []repository.IngredientLine{
				{Name: "flour", Quantity: qty(200), Unit: str("g")},
				{Name: "egg", Quantity: qty(2), Unit: str("pcs")},
				{Name: "milk", Quantity: qty(300), Unit: str("ml")},
				{Name: "butter", Quantity: qty(20), Unit: str("g")},
				{Name: "maple syrup", Component: str("topping")},
			},
			Tools: []string{"whisk", "mixing bowl", "frying pan"},
		},
		{
			RecipeFields: repository.RecipeFields{
				Name:             "Pizza Margherita",
				NumberOfPortions: 2,
				Instructions:     "Knead the dough and let it rise. Spread tomato sauce, top with mozzarella and basil, bake very hot.",
				MealType:         str("dinner"),
				Nationality:      str("Italian"),
			},
			Ingredients: []repository.IngredientLine{
				{Name: "flour", Quantity: qty(250), Unit: str("g"), Component: str("dough")},
				{Name: "water", Quantity: qty(160), Unit: str("ml"), Component: str("dough")},
				{Name: "yeast", Quantity: qty(3), Unit: str("g"), Component: str("dough")},
				{Name: "tomato", Quantity: qty(200), Unit: str("g"), Component: str("sauce")},
				{Name: "mozzarella", Quantity: qty(125), Unit: str("g")},
				{Name: "basil", Component: str("topping")},
			},
			Tools: []string{"oven", "mixing bowl"},
		},
		{
			RecipeFields: repository.RecipeFields{
				Name:             "Shakshuka",
				NumberOfPortions: 3,
				Instructions:     "Simmer tomatoes with onion, pepper and spices. Make wells, crack in the eggs and cook covered until set.",
				MealType:         str("breakfast"),
				Nationality:      str("Tunisian"),
			},
			Ingredients: []repository.IngredientLine{
				{Name: "egg", Quantity: qty(6), Unit: str("pcs")},
				{Name: "tomato", Quantity: qty(400), Unit: str("g")},
				{Name: "onion", Quantity: qty(1), Unit: str("pcs")},
				{Name: "red pepper", Quantity: qty(1), Unit: str("pcs")},
				{Name: "cumin", Quantity: qty(1), Unit: str("tsp")},
			},
			Tools: []string{"frying pan"},
		},
	}
}

func str(s string) *string { return &s }

func qty(f float64) *float64 { return &f }
