package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunMigrations_Validation(t *testing.T) {
	t.Run("EmptyMigrationsPath", func(t *testing.T) {
		err := RunMigrations("postgres://localhost:5432/pix_gateway", "")
		assert.EqualError(t, err, "migrations path cannot be empty")
	})

	t.Run("EmptyDatabaseURL", func(t *testing.T) {
		err := RunMigrations("", "./migrations/postgres")
		assert.EqualError(t, err, "database URL cannot be empty")
	})

	t.Run("InvalidSource", func(t *testing.T) {
		err := RunMigrations("postgres://localhost:5432/pix_gateway", "/definitely/not/a/real/path")
		assert.Error(t, err)
	})
}
