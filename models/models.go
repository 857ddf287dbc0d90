package models

// All lists every persisted model in dependency order for migrations.
func All() []any {
	return []any{
		&Ingredient{},
		&KitchenTool{},
		&Recipe{},
		&RecipeIngredient{},
		&RecipeTool{},
	}
}
