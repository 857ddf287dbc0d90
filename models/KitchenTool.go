package models

// KitchenTool is a named piece of equipment. Given marks tools every kitchen
// is assumed to own.
type KitchenTool struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"uniqueIndex;not null" json:"name"`
	Given bool   `gorm:"not null;default:false" json:"given"`
}
