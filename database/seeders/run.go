// Package seeders populates the Recipe Manager database with reference
// categories and sample recipes.
//
// Seeders register themselves by name from init():
//
//	func init() {
//	    seeders.Register("recipe_manager", seedRecipeManager)
//	}
//
// and run in registration order via `recipes seed`.
package seeders

import (
	"context"
	"fmt"
	"io"
	"sync"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/recipemanager/pkg/cache"
	"github.com/shashiranjanraj/recipemanager/pkg/logger"
	"github.com/shashiranjanraj/recipemanager/pkg/metrics"
)

// Env is what a seeder runs against. Only DB and Out are required.
type Env struct {
	DB       *gorm.DB
	Out      io.Writer
	Fixtures *Fixtures
	Metrics  *metrics.SeedMetrics
	Cache    *cache.Cache
}

// SeederFunc is the signature for a seed function.
type SeederFunc func(ctx context.Context, env Env) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder to the global registry.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// Names lists registered seeders in run order.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// RunAll executes every registered seeder in registration order.
// It stops on the first error.
func RunAll(ctx context.Context, env Env) error {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Fprintln(env.Out, "  (no seeders registered)")
		return nil
	}

	for _, e := range current {
		logger.Info("seeder: running", "name", e.name)
		if err := e.fn(ctx, env); err != nil {
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
	}
	return nil
}
