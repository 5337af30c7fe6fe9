package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/recipes/internal/archivetest"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), out.String())
	return out.String()
}

func writeArchive(t *testing.T, dir string) string {
	t.Helper()
	data, err := archivetest.Desserts().Bytes()
	require.NoError(t, err)
	path := filepath.Join(dir, "recipes.archive")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestCLI_ImportAndBrowse(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "db", "recipes.sqlite")
	archive := writeArchive(t, dir)

	out := run(t, "--db", db, "import", archive)
	assert.Contains(t, out, "imported 100%")
	assert.Contains(t, out, "Imported 1 recipes from 1 boxes")

	out = run(t, "--db", db, "categories")
	assert.Contains(t, out, "Desserts")

	out = run(t, "--db", db, "list", "--category", "desserts")
	assert.Contains(t, out, "Cake")
	assert.Contains(t, out, "short")

	out = run(t, "--db", db, "search", "bake")
	assert.Contains(t, out, "Cake")

	out = run(t, "--db", db, "ingredients")
	assert.Contains(t, out, "Dry Goods\n  flour\n")
}

func TestCLI_ImportFromURL(t *testing.T) {
	data, err := archivetest.Desserts().Bytes()
	require.NoError(t, err)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(data)
	}))
	defer ts.Close()

	db := filepath.Join(t.TempDir(), "recipes.sqlite")
	out := run(t, "--db", db, "import", ts.URL+"/desserts.archive")
	assert.Contains(t, out, "Imported 1 recipes from 1 boxes")
}

func TestCLI_PreviewAndDump(t *testing.T) {
	dir := t.TempDir()
	archive := writeArchive(t, dir)

	out := run(t, "--db", filepath.Join(dir, "unused.sqlite"), "preview", archive)
	assert.Contains(t, out, "recipe_boxes:")
	assert.Contains(t, out, "name: Cake")
	assert.Contains(t, out, "measurement: cups")

	out = run(t, "--db", filepath.Join(dir, "unused.sqlite"), "dump", archive)
	assert.Contains(t, out, "Cake")
	assert.NotContains(t, out, "UID")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b", truncate("a\nb", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "crème b...", truncate("crème brûlée tart", 10))
	assert.Equal(t, "crème brûlée", truncate("crème brûlée", 12))
}
