package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscoverCards(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.md"), "---\n---\n")
	writeFile(t, filepath.Join(dir, "a.MD"), "---\n---\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")
	writeFile(t, filepath.Join(dir, "nested", "c.md"), "---\n---\n")

	files, err := DiscoverCards(dir, ".md")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.MD", files[0].Name)
	assert.Equal(t, "b.md", files[1].Name)
	assert.Equal(t, filepath.Join(dir, "b.md"), files[1].Path)
}

func TestDiscoverCards_MissingDir(t *testing.T) {
	files, err := DiscoverCards(filepath.Join(t.TempDir(), "missing"), ".md")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscoverPages_SkipsCards(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.md"), "# Home")
	writeFile(t, filepath.Join(root, "guide", "submit.markdown"), "# Submit")
	writeFile(t, filepath.Join(root, "cards", "one.md"), "---\n---\n")
	writeFile(t, filepath.Join(root, "javascript.js"), "")

	pages, err := DiscoverPages(root, "cards")
	require.NoError(t, err)

	var names []string
	for _, p := range pages {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"index.md", filepath.Join("guide", "submit.markdown")}, names)
}
