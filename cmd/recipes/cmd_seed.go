package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/recipemanager/config"
	"github.com/shashiranjanraj/recipemanager/database/seeders"
	"github.com/shashiranjanraj/recipemanager/pkg/cache"
	"github.com/shashiranjanraj/recipemanager/pkg/logger"
	"github.com/shashiranjanraj/recipemanager/pkg/metrics"
	"github.com/shashiranjanraj/recipemanager/pkg/migration"
)

var (
	seedFile    string
	seedMigrate bool
)

func addSeedFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML fixture file to seed instead of the built-in set")
	cmd.Flags().BoolVar(&seedMigrate, "migrate", false, "run pending migrations before seeding")
}

// recipes seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed categories and sample recipes",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func init() {
	addSeedFlags(seedCmd)
}

// recipes seed:status
var seedStatusCmd = &cobra.Command{
	Use:   "seed:status",
	Short: "Show how many recipes each category has",
	Args:  cobra.NoArgs,
	RunE: withDB(func(cmd *cobra.Command, db *gorm.DB) error {
		rep, err := seeders.CategoryReport(cmd.Context(), db)
		if err != nil {
			return err
		}
		rep.Write(cmd.OutOrStdout())
		return nil
	}),
}

func runSeed(cmd *cobra.Command, args []string) error {
	return withDB(func(cmd *cobra.Command, db *gorm.DB) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if seedMigrate {
			if err := migration.New(db, out).Run(); err != nil {
				return err
			}
		}

		var fx *seeders.Fixtures
		if seedFile != "" {
			var err error
			if fx, err = seeders.LoadFixturesFile(seedFile); err != nil {
				return err
			}
		}

		c := connectCache(ctx)
		defer c.Close()

		m := metrics.New()
		err := seeders.RunAll(ctx, seeders.Env{
			DB:       db,
			Out:      out,
			Fixtures: fx,
			Metrics:  m,
			Cache:    c,
		})

		if pushErr := m.Push(ctx, config.PushgatewayURL()); pushErr != nil {
			logger.Warn("seed metrics not pushed", "error", pushErr)
		}
		return err
	})(cmd, args)
}

// connectCache returns nil when Redis is not configured or unreachable;
// seeding never depends on the cache.
func connectCache(ctx context.Context) *cache.Cache {
	addr := config.RedisAddr()
	if addr == "" {
		return nil
	}
	c, err := cache.Connect(ctx, addr, config.RedisPassword())
	if err != nil {
		logger.Warn(fmt.Sprintf("cache disabled for this run: %v", err), "addr", addr)
		return nil
	}
	return c
}
