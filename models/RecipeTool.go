package models

// RecipeTool links a recipe to a kitchen tool. The pair is unique.
type RecipeTool struct {
	RecipeID uint `gorm:"primaryKey;autoIncrement:false" json:"recipe_id"`
	ToolID   uint `gorm:"primaryKey;autoIncrement:false;index" json:"tool_id"`

	Tool *KitchenTool `gorm:"foreignKey:ToolID;constraint:OnDelete:RESTRICT" json:"tool,omitempty"`
}
