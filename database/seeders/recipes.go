package seeders

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/recipemanager/app/models"
	"github.com/shashiranjanraj/recipemanager/pkg/cache"
	"github.com/shashiranjanraj/recipemanager/pkg/logger"
	"github.com/shashiranjanraj/recipemanager/pkg/metrics"
)

// ErrSeedFailed wraps every error returned by RecipeSeeder.Run.
var ErrSeedFailed = errors.New("seeding failed")

func init() {
	Register("recipe_manager", seedRecipeManager)
}

func seedRecipeManager(ctx context.Context, env Env) error {
	_, err := New(env.DB,
		WithOutput(env.Out),
		WithFixtures(env.Fixtures),
		WithMetrics(env.Metrics),
		WithCache(env.Cache),
	).Run(ctx)
	return err
}

// Summary reports what a run did.
type Summary struct {
	CategoriesCreated  int
	RecipesCreated     int
	IngredientsCreated int
	RecipesSkipped     bool
	TotalCategories    int64
	TotalRecipes       int64
}

// Option configures a RecipeSeeder.
type Option func(*RecipeSeeder)

// WithOutput sets where progress lines go. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(s *RecipeSeeder) {
		if w != nil {
			s.out = w
		}
	}
}

// WithFixtures replaces the embedded fixture set.
func WithFixtures(f *Fixtures) Option {
	return func(s *RecipeSeeder) { s.fixtures = f }
}

func WithMetrics(m *metrics.SeedMetrics) Option {
	return func(s *RecipeSeeder) { s.metrics = m }
}

// WithCache makes a run that created rows invalidate the web app's cached listings.
func WithCache(c *cache.Cache) Option {
	return func(s *RecipeSeeder) { s.cache = c }
}

// RecipeSeeder inserts the reference categories and, into a store with no
// recipes, the sample recipes with their ingredients.
type RecipeSeeder struct {
	db       *gorm.DB
	out      io.Writer
	fixtures *Fixtures
	metrics  *metrics.SeedMetrics
	cache    *cache.Cache
}

// New returns a seeder over db. The caller owns db and closes it.
func New(db *gorm.DB, opts ...Option) *RecipeSeeder {
	s := &RecipeSeeder{db: db, out: os.Stdout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	okLine   = color.New(color.FgGreen)
	infoLine = color.New(color.FgCyan)
	failLine = color.New(color.FgRed)
)

// Run seeds categories in one transaction, then, if the store has no
// recipes, all sample recipes in a second one. On error the open
// transaction is rolled back and the error is returned wrapped in
// ErrSeedFailed.
func (s *RecipeSeeder) Run(ctx context.Context) (sum Summary, err error) {
	start := time.Now()
	defer func() {
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeFailure
		}
		s.metrics.RecordRun(outcome, time.Since(start))
	}()

	fx := s.fixtures
	if fx == nil {
		if fx, err = DefaultFixtures(); err != nil {
			return sum, s.fail(err)
		}
	}

	db := s.db.WithContext(ctx)
	infoLine.Fprintln(s.out, "Seeding database with initial data...")

	sum.CategoriesCreated, err = s.seedCategories(db, fx.Categories)
	if err != nil {
		return sum, s.fail(err)
	}
	s.metrics.RecordRows("category", sum.CategoriesCreated)
	okLine.Fprintln(s.out, "✓ Created categories")

	var existing int64
	if err = db.Model(&models.Recipe{}).Count(&existing).Error; err != nil {
		return sum, s.fail(fmt.Errorf("count recipes: %w", err))
	}

	if existing > 0 {
		sum.RecipesSkipped = true
		logger.Info("seeder: recipes present, skipping", "count", existing)
		okLine.Fprintf(s.out, "✓ Database already has %d recipes. Skipping recipe creation.\n", existing)
	} else {
		sum.RecipesCreated, sum.IngredientsCreated, err = s.seedRecipes(db, fx.Recipes)
		if err != nil {
			return sum, s.fail(err)
		}
		s.metrics.RecordRows("recipe", sum.RecipesCreated)
		s.metrics.RecordRows("ingredient", sum.IngredientsCreated)
		okLine.Fprintf(s.out, "✓ Created %d sample recipes\n", sum.RecipesCreated)
	}

	if err = db.Model(&models.Category{}).Count(&sum.TotalCategories).Error; err != nil {
		return sum, s.fail(fmt.Errorf("count categories: %w", err))
	}
	if err = db.Model(&models.Recipe{}).Count(&sum.TotalRecipes).Error; err != nil {
		return sum, s.fail(fmt.Errorf("count recipes: %w", err))
	}

	okLine.Fprintln(s.out, "\nDatabase seeding completed successfully!")
	fmt.Fprintf(s.out, "Total categories: %d\n", sum.TotalCategories)
	fmt.Fprintf(s.out, "Total recipes: %d\n", sum.TotalRecipes)

	s.invalidate(ctx, sum)

	logger.Info("seeder: done",
		"categories_created", sum.CategoriesCreated,
		"recipes_created", sum.RecipesCreated,
		"ingredients_created", sum.IngredientsCreated,
		"duration", time.Since(start),
	)
	return sum, nil
}

func (s *RecipeSeeder) fail(err error) error {
	failLine.Fprintf(s.out, "Error seeding database: %v\n", err)
	logger.Error("seeder: failed", "error", err)
	return fmt.Errorf("%w: %w", ErrSeedFailed, err)
}

// seedCategories creates each category whose name is not yet taken.
func (s *RecipeSeeder) seedCategories(db *gorm.DB, categories []CategoryFixture) (int, error) {
	created := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, c := range categories {
			var existing models.Category
			err := tx.Where("name = ?", c.Name).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("look up category %q: %w", c.Name, err)
			}

			row := models.Category{Name: c.Name, Description: c.Description}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("create category %q: %w", c.Name, err)
			}
			logger.Debug("seeder: category created", "name", row.Name, "id", row.ID)
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// seedRecipes inserts every recipe and its ingredients in one transaction.
// Each recipe row is inserted first so its id exists before the
// ingredients that reference it.
func (s *RecipeSeeder) seedRecipes(db *gorm.DB, recipes []RecipeFixture) (int, int, error) {
	var nRecipes, nIngredients int
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, rf := range recipes {
			categoryID, err := categoryIDByName(tx, rf.Category)
			if err != nil {
				return err
			}

			recipe := models.Recipe{
				Title:        rf.Title,
				Description:  rf.Description,
				Instructions: rf.Instructions,
				PrepTime:     rf.PrepTime,
				CookTime:     rf.CookTime,
				Servings:     rf.Servings,
				CategoryID:   categoryID,
			}
			if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
				return fmt.Errorf("create recipe %q: %w", rf.Title, err)
			}
			if recipe.ID == 0 {
				return fmt.Errorf("create recipe %q: no id assigned", rf.Title)
			}

			if len(rf.Ingredients) > 0 {
				rows := make([]models.Ingredient, 0, len(rf.Ingredients))
				for _, in := range rf.Ingredients {
					rows = append(rows, models.Ingredient{
						RecipeID: recipe.ID,
						Name:     in.Name,
						Amount:   in.Amount,
						Unit:     in.Unit,
					})
				}
				if err := tx.Create(&rows).Error; err != nil {
					return fmt.Errorf("create ingredients for %q: %w", rf.Title, err)
				}
			}

			logger.Debug("seeder: recipe created", "title", recipe.Title, "id", recipe.ID, "ingredients", len(rf.Ingredients))
			nRecipes++
			nIngredients += len(rf.Ingredients)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return nRecipes, nIngredients, nil
}

// categoryIDByName returns nil when name is empty or no such category exists.
func categoryIDByName(tx *gorm.DB, name string) (*uint, error) {
	if name == "" {
		return nil, nil
	}

	var c models.Category
	err := tx.Where("name = ?", name).First(&c).Error
	switch {
	case err == nil:
		return &c.ID, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		logger.Warn("seeder: category missing, recipe left uncategorised", "category", name)
		return nil, nil
	default:
		return nil, fmt.Errorf("look up category %q: %w", name, err)
	}
}

func (s *RecipeSeeder) invalidate(ctx context.Context, sum Summary) {
	if sum.CategoriesCreated == 0 && sum.RecipesCreated == 0 {
		return
	}
	if err := s.cache.Forget(ctx, cache.KeyCategories, cache.KeyRecipes); err != nil {
		logger.Warn("seeder: cache invalidation failed", "error", err)
	}
}
