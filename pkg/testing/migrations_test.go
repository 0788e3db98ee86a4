package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationScript(t *testing.T) {
	script, err := MigrationScript(MigrationsDir())
	require.NoError(t, err)
	assert.Contains(t, script, "CREATE TABLE")
	assert.Contains(t, script, "products")
	assert.NotContains(t, script, "DROP TABLE", "down migrations are not applied")
}

func TestMigrationScript_Order(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "002_b.up.sql"), []byte("SELECT 2"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_a.up.sql"), []byte("SELECT 1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_a.down.sql"), []byte("SELECT 0"), 0o644))

	script, err := MigrationScript(dir)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;\n\nSELECT 2;\n\n", script)
}

func TestMigrationScript_Empty(t *testing.T) {
	_, err := MigrationScript(t.TempDir())
	assert.Error(t, err)
}
