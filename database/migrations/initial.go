package migrations

import (
	"github.com/shashiranjanraj/recipemanager/app/models"
	"github.com/shashiranjanraj/recipemanager/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20240601000000_create_categories_table", &CreateCategoriesTable{})
	migration.Register("20240601000001_create_recipes_and_ingredients_tables", &CreateRecipesTables{})
}

// -------- 0001: categories --------

type CreateCategoriesTable struct{}

func (m *CreateCategoriesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{})
}

func (m *CreateCategoriesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("categories")
}

// -------- 0002: recipes + ingredients --------

// Migrated together so GORM can order the recipe → ingredient foreign key.
type CreateRecipesTables struct{}

func (m *CreateRecipesTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Recipe{}, &models.Ingredient{})
}

func (m *CreateRecipesTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("ingredients", "recipes")
}
