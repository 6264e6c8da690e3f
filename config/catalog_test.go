package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	require.Len(t, catalog.TaskTypes, 10)
	require.Len(t, catalog.Badges, 11)

	for tag, taskType := range catalog.TaskTypes {
		require.Positive(t, taskType.Points, tag)
		require.Positive(t, taskType.MaxPerSubmission, tag)
	}

	require.Equal(t, 10, catalog.TaskTypes["family_contracts"].MaxPerDay)
}

func TestLoadCatalog(t *testing.T) {
	// Empty path falls back to the defaults.
	catalog, err := LoadCatalog("")
	require.NoError(t, err)
	require.Len(t, catalog.TaskTypes, 10)

	path := filepath.Join(t.TempDir(), "catalog.toml")
	content := `
[task_types.mining]
name = "Mining"
emoji = "⛏️"
points = 3
max_per_submission = 20

[badges.veteran]
name = "Veteran"
emoji = "🎖️"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	catalog, err = LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog.TaskTypes, 1)
	require.Equal(t, int64(3), catalog.TaskTypes["mining"].Points)
	require.Equal(t, "Veteran", catalog.Badges["veteran"].Name)
}

func TestLoadCatalog_invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	content := `
[task_types.bad]
name = "Bad"
points = 0
max_per_submission = 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadCatalog(path)
	require.ErrorContains(t, err, "points must be positive")
}
