package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBPathPrefersFirstCandidate(t *testing.T) {
	p, err := DBPath("", "  ", "/tmp/a.db", "/tmp/b.db")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/a.db", p)
}

func TestDBPathExpandsHome(t *testing.T) {
	t.Setenv("HOME", "/home/ana")
	p, err := DBPath("~/state/fitz.db")
	require.NoError(t, err)
	assert.Equal(t, "/home/ana/state/fitz.db", p)
}

func TestDBPathUsesXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	p, err := DBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "fitz", "fitz.db"), p)
}

func TestPrepareDirIsOwnerOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fitz.db")
	require.NoError(t, PrepareDir(path))
	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}
