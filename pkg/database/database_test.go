package database

import (
	"path/filepath"
	"testing"
	"workplace_training_backend/internal/config"
	"workplace_training_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDBWithSQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver: DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "data", "training.db"),
	}

	db, err := InitDB(cfg, "test", false)
	require.NoError(t, err)

	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m))
	}
	assert.True(t, db.Migrator().HasTable("assigned_courses"))
	assert.True(t, db.Migrator().HasIndex(&model.Progress{}, "idx_progress_user_video"))
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := Dialector(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
