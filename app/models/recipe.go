package models

import "time"

// Recipe is a dish with preparation metadata. It owns its Ingredients;
// deleting a recipe deletes them. CategoryID is nil when uncategorised.
type Recipe struct {
	ID           uint      `gorm:"primaryKey"              json:"id"`
	Title        string    `gorm:"size:255;not null;index" json:"title"`
	Description  string    `gorm:"type:text"               json:"description"`
	Instructions string    `gorm:"type:text"               json:"instructions"`
	PrepTime     int       `gorm:"not null;default:0"      json:"prep_time"` // minutes
	CookTime     int       `gorm:"not null;default:0"      json:"cook_time"` // minutes
	Servings     int       `gorm:"not null;default:1"      json:"servings"`
	CategoryID   *uint     `gorm:"index"                   json:"category_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Category    *Category    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
	Ingredients []Ingredient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"  json:"ingredients,omitempty"`
}

// Ingredient is a quantity/unit/name line item of exactly one Recipe.
type Ingredient struct {
	ID        uint      `gorm:"primaryKey"              json:"id"`
	RecipeID  uint      `gorm:"not null;index"          json:"recipe_id"`
	Name      string    `gorm:"size:255;not null"       json:"name"`
	Amount    float64   `gorm:"not null;default:0"      json:"amount"`
	Unit      string    `gorm:"size:50"                 json:"unit"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
