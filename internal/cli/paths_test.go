package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTree(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	files := []string{
		"app.yaml",
		"values.yml",
		"notes.txt",
		"nested/deployment.yaml",
		".hidden/secret.yaml",
	}
	for _, f := range files {
		path := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("key: value\n"), 0o600))
	}

	return dir
}

func TestCollectPaths_Directory(t *testing.T) {
	t.Parallel()

	dir := setupTree(t)
	ca := NewCheckArgs(NewRootArgs())
	ca.Paths = []string{dir}

	got, err := collectPaths(&cobra.Command{}, ca)
	require.NoError(t, err)

	// Only YAML files at the top level, in lexical order.
	assert.Equal(t, []string{
		filepath.Join(dir, "app.yaml"),
		filepath.Join(dir, "values.yml"),
	}, got)
}

func TestCollectPaths_Recursive(t *testing.T) {
	t.Parallel()

	dir := setupTree(t)
	ca := NewCheckArgs(NewRootArgs())
	ca.Paths = []string{dir}
	ca.Recursive = true

	got, err := collectPaths(&cobra.Command{}, ca)
	require.NoError(t, err)

	assert.Contains(t, got, filepath.Join(dir, "nested", "deployment.yaml"))
	// Hidden directories are not descended into.
	assert.NotContains(t, got, filepath.Join(dir, ".hidden", "secret.yaml"))
	assert.NotContains(t, got, filepath.Join(dir, "notes.txt"))
}

func TestCollectPaths_ExplicitFiles(t *testing.T) {
	t.Parallel()

	dir := setupTree(t)
	ca := NewCheckArgs(NewRootArgs())

	// Explicit file arguments are filtered to YAML and deduplicated while
	// preserving order.
	ca.Paths = []string{
		filepath.Join(dir, "notes.txt"),
		filepath.Join(dir, "values.yml"),
		filepath.Join(dir, "app.yaml"),
		filepath.Join(dir, "app.yaml"),
	}

	got, err := collectPaths(&cobra.Command{}, ca)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "values.yml"),
		filepath.Join(dir, "app.yaml"),
	}, got)
}

func TestCollectPaths_Stdin(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("a.yaml\nmain.go\n\n  b.yaml  \nREADME.md\n"))

	ca := NewCheckArgs(NewRootArgs())
	ca.Paths = []string{"-"}

	got, err := collectPaths(cmd, ca)
	require.NoError(t, err)

	// Non-YAML lines, as produced by `git diff --name-only`, are dropped
	// before classification.
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, got)
}

func TestCollectPaths_MissingArg(t *testing.T) {
	t.Parallel()

	ca := NewCheckArgs(NewRootArgs())
	ca.Paths = []string{filepath.Join(t.TempDir(), "nope")}

	_, err := collectPaths(&cobra.Command{}, ca)
	require.Error(t, err)
}

func TestIsYAMLPath(t *testing.T) {
	t.Parallel()

	assert.True(t, isYAMLPath("app.yaml"))
	assert.True(t, isYAMLPath("app.yml"))
	assert.True(t, isYAMLPath("APP.YAML"))
	assert.False(t, isYAMLPath("app.json"))
	assert.False(t, isYAMLPath("yaml"))
}
