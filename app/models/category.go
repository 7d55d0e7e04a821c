package models

import "time"

// Category is a named grouping for recipes, e.g. "Breakfast".
type Category struct {
	ID          uint      `gorm:"primaryKey"                     json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text"                      json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
