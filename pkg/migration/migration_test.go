package migration

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/recipemanager/pkg/database"
)

type note struct {
	ID   uint
	Body string
}

type createNotes struct{}

func (createNotes) Up(db *gorm.DB) error   { return db.AutoMigrate(&note{}) }
func (createNotes) Down(db *gorm.DB) error { return db.Migrator().DropTable(&note{}) }

type brokenMigration struct{}

func (brokenMigration) Up(*gorm.DB) error   { return errors.New("boom") }
func (brokenMigration) Down(*gorm.DB) error { return nil }

func newRunner(t *testing.T, ms ...registeredMigration) (*Runner, *bytes.Buffer) {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	var out bytes.Buffer
	r := New(db, &out)
	r.migrations = ms
	return r, &out
}

func TestRunAppliesPendingOnce(t *testing.T) {
	r, out := newRunner(t, registeredMigration{name: "20240101_create_notes", m: createNotes{}})

	require.NoError(t, r.Run())
	assert.True(t, r.db.Migrator().HasTable(&note{}))
	assert.Contains(t, out.String(), "Migrated:  20240101_create_notes")

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)

	out.Reset()
	require.NoError(t, r.Run())
	assert.Contains(t, out.String(), "Nothing to migrate.")
}

func TestRollbackReversesLastBatch(t *testing.T) {
	r, out := newRunner(t, registeredMigration{name: "20240101_create_notes", m: createNotes{}})

	require.NoError(t, r.Run())
	require.NoError(t, r.Rollback())

	assert.False(t, r.db.Migrator().HasTable(&note{}))
	assert.Contains(t, out.String(), "Rolled back: 20240101_create_notes")

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{"20240101_create_notes"}, pending)

	out.Reset()
	require.NoError(t, r.Rollback())
	assert.Contains(t, out.String(), "Nothing to roll back.")
}

func TestRunStopsOnFailureWithoutRecording(t *testing.T) {
	r, _ := newRunner(t,
		registeredMigration{name: "20240101_create_notes", m: createNotes{}},
		registeredMigration{name: "20240102_broken", m: brokenMigration{}},
	)

	err := r.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "20240102_broken up: boom")

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{"20240102_broken"}, pending)
}

func TestStatusListsEveryMigration(t *testing.T) {
	r, out := newRunner(t, registeredMigration{name: "20240101_create_notes", m: createNotes{}})
	require.NoError(t, r.Status())
	assert.Contains(t, out.String(), "Pending")

	require.NoError(t, r.Run())
	out.Reset()
	require.NoError(t, r.Status())
	assert.Regexp(t, `20240101_create_notes\s+Ran\s+1`, out.String())
}
