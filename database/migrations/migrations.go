// Package migrations holds the schema for categories, recipes and
// ingredients. Each migration registers itself from init(); import the
// package for its side effects before running migration.Runner.
package migrations
