package seeders_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shashiranjanraj/recipemanager/database/seeders"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db, mock
}

func oneRecipeFixtures() *seeders.Fixtures {
	return &seeders.Fixtures{
		Categories: []seeders.CategoryFixture{{Name: "Breakfast", Description: "Morning meals"}},
		Recipes: []seeders.RecipeFixture{{
			Title:       "Classic Pancakes",
			Servings:    4,
			Category:    "Breakfast",
			Ingredients: []seeders.IngredientFixture{{Name: "All-purpose flour", Amount: 2, Unit: "cups"}},
		}},
	}
}

func TestCategoryQueryErrorRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	lost := errors.New("connection reset by peer")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "categories"`).WillReturnError(lost)
	mock.ExpectRollback()

	var out bytes.Buffer
	_, err := seeders.New(db, seeders.WithOutput(&out), seeders.WithFixtures(oneRecipeFixtures())).
		Run(context.Background())

	require.ErrorIs(t, err, seeders.ErrSeedFailed)
	assert.ErrorIs(t, err, lost)
	assert.Contains(t, out.String(), "Error seeding database: look up category \"Breakfast\"")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeInsertErrorRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	violated := errors.New(`null value in column "title"`)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).AddRow(1, "Breakfast", "Morning meals"))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "recipes"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).AddRow(1, "Breakfast", "Morning meals"))
	mock.ExpectQuery(`INSERT INTO "recipes"`).WillReturnError(violated)
	mock.ExpectRollback()

	sum, err := seeders.New(db, seeders.WithOutput(&bytes.Buffer{}), seeders.WithFixtures(oneRecipeFixtures())).
		Run(context.Background())

	require.ErrorIs(t, err, violated)
	assert.Zero(t, sum.CategoriesCreated)
	assert.Zero(t, sum.RecipesCreated)
	require.NoError(t, mock.ExpectationsWereMet())
}
