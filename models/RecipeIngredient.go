package models

// RecipeIngredient links a recipe to an ingredient. The pair is unique.
type RecipeIngredient struct {
	RecipeID     uint     `gorm:"primaryKey;autoIncrement:false" json:"recipe_id"`
	IngredientID uint     `gorm:"primaryKey;autoIncrement:false;index" json:"ingredient_id"`
	Quantity     *float64 `json:"quantity"`
	Unit         *string  `gorm:"type:varchar(50)" json:"unit"`
	// Component names the sub-part of the dish, e.g. "dough" or "sauce".
	Component *string `gorm:"type:varchar(100)" json:"component"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:RESTRICT" json:"ingredient,omitempty"`
}
