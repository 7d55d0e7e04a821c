package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/recipemanager/config"
	"github.com/shashiranjanraj/recipemanager/pkg/database"
	"github.com/shashiranjanraj/recipemanager/pkg/logger"
	"github.com/shashiranjanraj/recipemanager/pkg/migration"
)

// bootDB loads config, configures logging and opens the database. The
// returned func closes both and must be deferred by the caller.
func bootDB() (*gorm.DB, func(), error) {
	if err := config.Load(); err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	closeLogs, err := logger.Configure()
	if err != nil {
		logger.Warn("mongo log sink unavailable", "error", err)
	}

	db, err := database.Connect()
	if err != nil {
		closeLogs()
		return nil, nil, err
	}

	return db, func() {
		if err := database.Close(db); err != nil {
			logger.Warn("database: close", "error", err)
		}
		closeLogs()
	}, nil
}

// withDB runs fn against a freshly opened database and always closes it.
func withDB(fn func(cmd *cobra.Command, db *gorm.DB) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		db, release, err := bootDB()
		if err != nil {
			return err
		}
		defer release()
		return fn(cmd, db)
	}
}

// recipes migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	Args:  cobra.NoArgs,
	RunE: withDB(func(cmd *cobra.Command, db *gorm.DB) error {
		fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
		return migration.New(db, cmd.OutOrStdout()).Run()
	}),
}

// recipes migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	Args:  cobra.NoArgs,
	RunE: withDB(func(cmd *cobra.Command, db *gorm.DB) error {
		fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
		return migration.New(db, cmd.OutOrStdout()).Rollback()
	}),
}

// recipes migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	Args:  cobra.NoArgs,
	RunE: withDB(func(cmd *cobra.Command, db *gorm.DB) error {
		return migration.New(db, cmd.OutOrStdout()).Status()
	}),
}
