package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(&config.Config{DBDriver: "sqlite", DBPath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "mysql"})
	assert.Error(t, err)
}

func TestRunMigrationsSQLiteCreatesProfiles(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, RunMigrations(db, "unused"))

	user := models.User{Email: "cook@example.com", Username: "cook", FirstName: "A", LastName: "B", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	assert.NotZero(t, user.ID)

	var profiles int64
	require.NoError(t, db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&profiles).Error)
	assert.Equal(t, int64(1), profiles)

	// saving again must not create a second profile
	require.NoError(t, db.Save(&user).Error)
	require.NoError(t, db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&profiles).Error)
	assert.Equal(t, int64(1), profiles)
}

func TestUniqueIndexTranslatesToDuplicatedKey(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, RunMigrations(db, "unused"))

	require.NoError(t, db.Create(&models.Tag{Name: "Lunch", Color: "#49B64E", Slug: "lunch"}).Error)
	err := db.Create(&models.Tag{Name: "Lunch", Color: "#000000", Slug: "lunch-2"}).Error
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestMigrationFilesSkipsRollbacks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_b.sql", "0001_a.sql", "0001_a_rollback.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o600))
	}

	files, err := migrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_a.sql", "0002_b.sql"}, files)
}

func TestRedisClientOptional(t *testing.T) {
	client, err := NewRedisClient(&config.Config{})
	assert.NoError(t, err)
	assert.Nil(t, client)
}
