package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Join(dir, "absent.json")))
	assert.False(t, FileExists(dir), "directories do not count as files")
}

func TestWriteJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "books.json")

	written, err := WriteJSONFile(map[string]string{"SKU": "E01"}, path, false)
	require.NoError(t, err)
	assert.True(t, written, "parent directories are created as needed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"SKU": "E01"`)
}

func TestWriteJSONFileRespectsOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")

	written, err := WriteJSONFile("first", path, false)
	require.NoError(t, err)
	require.True(t, written)

	written, err = WriteJSONFile("second", path, false)
	require.NoError(t, err)
	assert.False(t, written, "an existing file is left alone without overwrite")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")

	written, err = WriteJSONFile("second", path, true)
	require.NoError(t, err)
	assert.True(t, written)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "second")
}
