package logging

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_DisabledDiscards(t *testing.T) {
	path, err := Initialize(false, "")
	require.NoError(t, err)
	assert.Empty(t, path)
	require.NotNil(t, Logger)
	Logger.Info("dropped")
}

func TestInitialize_DebugFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")

	got, err := Initialize(false, path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	Logger.Debug("classified", "divergence", "up_to_date")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"classified"`)
	assert.Contains(t, string(data), `"divergence":"up_to_date"`)

	t.Cleanup(func() { _, _ = Initialize(false, "") })
}

func TestInitialize_UUIDFileInStateDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("state dir layout checked on linux only")
	}
	state := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)

	got, err := Initialize(true, "")
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = Initialize(false, "") })

	assert.Equal(t, filepath.Join(state, "git-prompt"), filepath.Dir(got))
	assert.True(t, strings.HasSuffix(got, ".log"))
	assert.Len(t, strings.TrimSuffix(filepath.Base(got), ".log"), 36)
}

func TestRotate(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"a.log", "b.log", "c.log", "keep.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		mod := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, mod, mod))
	}

	require.NoError(t, rotate(dir, 2))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"c.log", "keep.txt"}, names)
}

func TestRotate_UnderLimit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.log"), []byte("x"), 0644))

	require.NoError(t, rotate(dir, 5))

	_, err := os.Stat(filepath.Join(dir, "a.log"))
	assert.NoError(t, err)
}
