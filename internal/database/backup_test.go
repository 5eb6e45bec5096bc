package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"guesthouse/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupService(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "source.db")
	storagePath := filepath.Join(tempDir, "backups")

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE test (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	db.Close()

	cfg := config.BackupConfig{
		Enabled:       true,
		StoragePath:   storagePath,
		RetentionDays: 1,
	}
	logger := zerolog.Nop()
	s := NewBackupService(dbPath, cfg, &logger)

	t.Run("PerformBackup", func(t *testing.T) {
		err := s.PerformBackup()
		assert.NoError(t, err)

		files, err := os.ReadDir(storagePath)
		assert.NoError(t, err)
		assert.Len(t, files, 1)
	})

	t.Run("CleanupOldBackups", func(t *testing.T) {
		files, err := os.ReadDir(storagePath)
		require.NoError(t, err)
		require.NotEmpty(t, files)

		old := filepath.Join(storagePath, files[0].Name())
		past := time.Now().AddDate(0, 0, -3)
		require.NoError(t, os.Chtimes(old, past, past))

		s.CleanupOldBackups()

		files, err = os.ReadDir(storagePath)
		require.NoError(t, err)
		assert.Empty(t, files)
	})
}
