package index

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"i18n-autocomplete/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestRebuildKeepsDuplicateValues(t *testing.T) {
	en := []catalog.Entry{{Key: "k1", Value: "Hi"}}
	fr := []catalog.Entry{{Key: "k2", Value: "Hi"}, {Key: "k3", Value: ""}}

	idx := Rebuild([][]catalog.Entry{en, fr}, en)

	assert.Equal(t, []string{"k1"}, idx.Keys)
	assert.Equal(t, []ReverseEntry{{Value: "Hi", Key: "k1"}, {Value: "Hi", Key: "k2"}}, idx.Reversed)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "en.json", `{"home": {"title": "Home", "subtitle": "Welcome"}, "z": "Z"}`)
	writeFile(t, dir, "fr.json", `{"home.title": "Accueil", "z": ""}`)
	writeFile(t, dir, "broken.json", `{`)
	writeFile(t, dir, "readme.md", `# x`)

	idx, err := LoadDir(dir, "en")
	require.NoError(t, err)

	assert.Equal(t, []string{"home.title", "home.subtitle", "z"}, idx.Keys)
	assert.Equal(t, "en", idx.Locale())
	assert.Len(t, idx.Files, 3)
	assert.ElementsMatch(t, []ReverseEntry{
		{Value: "Home", Key: "home.title"},
		{Value: "Welcome", Key: "home.subtitle"},
		{Value: "Z", Key: "z"},
		{Value: "Accueil", Key: "home.title"},
	}, idx.Reversed)
}

func TestLoadDirPrimaryFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "vi.json", `{"b": "B"}`)
	writeFile(t, dir, "en.json", `{"a": "A"}`)

	idx, err := LoadDir(dir, "de")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, idx.Keys)

	idx, err = LoadDir(dir, "vi")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, idx.Keys)
}

func TestLoadDirErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadDir(filepath.Join(dir, "missing"), "en")
	assert.ErrorIs(t, err, ErrNoCatalogDir)

	_, err = LoadDir(dir, "en")
	assert.ErrorIs(t, err, ErrNoCatalogFiles)
}

func TestStoreReload(t *testing.T) {
	dir := t.TempDir()
	s := NewStore()
	assert.Same(t, Empty, s.Current())

	_, err := s.Reload(dir, "en")
	assert.ErrorIs(t, err, ErrNoCatalogFiles)
	assert.Same(t, Empty, s.Current())

	writeFile(t, dir, "en.json", `{"a": "A"}`)
	idx, err := s.Reload(dir, "en")
	require.NoError(t, err)
	assert.Same(t, idx, s.Current())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cur := s.Current()
			assert.Equal(t, []string{"a"}, cur.Keys)
		}()
	}
	wg.Wait()
}
