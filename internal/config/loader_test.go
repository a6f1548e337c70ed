package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, FindConfigFile(dir))

	alt := filepath.Join(dir, ConfigFileNameAlt)
	require.NoError(t, os.WriteFile(alt, []byte("entry: a.js\n"), 0o644))
	assert.Equal(t, alt, FindConfigFile(dir))

	primary := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(primary, []byte("entry: a.js\n"), 0o644))
	assert.Equal(t, primary, FindConfigFile(dir), "leappack.yaml wins over leappack.yml")
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte(""), 0o644))

	nested := filepath.Join(root, "src", "lib")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Equal(t, root, FindProjectRoot(nested))
	assert.Equal(t, root, FindProjectRoot(root))
	assert.Empty(t, FindProjectRoot(t.TempDir()))
}

func TestDefaultExtensions(t *testing.T) {
	exts := DefaultExtensions()
	require.NotEmpty(t, exts)
	assert.Equal(t, ".js", exts[0])

	exts[0] = ".changed"
	assert.Equal(t, ".js", DefaultExtensions()[0], "callers get a fresh slice")
}
