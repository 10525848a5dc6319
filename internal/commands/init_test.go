package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/gitops"
)

func TestInit_CreatesStructure(t *testing.T) {
	h := newHarness(t)

	expectedDirs := []string{
		"data",
		"import",
		filepath.Join("import", "processed"),
		"exports",
	}
	for _, d := range expectedDirs {
		info, err := os.Stat(filepath.Join(h.dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	_, err := os.Stat(filepath.Join(h.dir, "import", ".gitkeep"))
	assert.NoError(t, err)

	gitignore, err := os.ReadFile(filepath.Join(h.dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gitignore), "data/")
}

func TestInit_Config(t *testing.T) {
	h := newHarness(t)

	data, err := os.ReadFile(filepath.Join(h.dir, "tally.yaml"))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "backend: file")
	assert.Contains(t, contents, "path: data/finance.json")
	assert.Contains(t, contents, "level: info")
}

func TestInit_SQLiteBackend(t *testing.T) {
	h := &harness{t: t, dir: t.TempDir(), extractor: &fakeExtractor{}}
	out := h.mustRun("init", h.dir, "--backend", "sqlite")
	assert.Contains(t, out, "sqlite storage")

	h.mustRun("import", testdata("chase_checking.csv"))
	_, err := os.Stat(filepath.Join(h.dir, "data", "finance.db"))
	require.NoError(t, err)

	out = h.mustRun("statements", "list")
	assert.Contains(t, out, "chase_checking.csv")
}

func TestInit_RefusesExisting(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("init", h.dir)
	assert.ErrorContains(t, err, "already exists")
}

func TestInit_UnknownBackend(t *testing.T) {
	dir := t.TempDir()
	h := &harness{t: t, dir: dir, extractor: &fakeExtractor{}}
	_, err := h.run("init", dir, "--backend", "s3")
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestInit_Git(t *testing.T) {
	if !gitops.Available() {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	h := &harness{t: t, dir: dir, extractor: &fakeExtractor{}}

	out := h.mustRun("init", dir, "--git")
	assert.Contains(t, out, "Committed project skeleton")
	assert.True(t, gitops.Repo{Dir: dir}.IsRepo())
}
