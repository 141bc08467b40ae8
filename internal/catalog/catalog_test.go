package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlattensNested(t *testing.T) {
	entries, err := Parse([]byte(`{"home": {"title": "Home", "nav": {"back": "Back"}}, "count": 3, "ok": true, "none": null, "list": ["a", "b"]}`))
	require.NoError(t, err)

	assert.Equal(t, []Entry{
		{Key: "home.title", Value: "Home"},
		{Key: "home.nav.back", Value: "Back"},
		{Key: "count", Value: "3"},
		{Key: "ok", Value: "true"},
		{Key: "none", Value: "null"},
		{Key: "list.0", Value: "a"},
		{Key: "list.1", Value: "b"},
	}, entries)
}

func TestFlattenIdempotent(t *testing.T) {
	nested := []byte(`{"a": {"b": "x", "c": {"d": "y"}}, "e": "z"}`)

	flat, err := Flatten(nested)
	require.NoError(t, err)

	encoded, err := Encode(flat)
	require.NoError(t, err)

	again, err := Flatten(encoded)
	require.NoError(t, err)
	assert.Equal(t, flat, again)
	assert.Equal(t, Catalog{"a.b": "x", "a.c.d": "y", "e": "z"}, again)
}

func TestParseMalformed(t *testing.T) {
	for _, input := range []string{`{"a": `, `["a"]`, `"text"`, ``} {
		_, err := Parse([]byte(input))
		assert.ErrorIs(t, err, ErrMalformed, "input %q", input)
	}
}

func TestLoadMissingAndMalformed(t *testing.T) {
	dir := t.TempDir()

	assert.Empty(t, Load(filepath.Join(dir, "missing.json")))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{not json`), 0644))
	assert.Empty(t, Load(bad))

	good := filepath.Join(dir, "en.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"a": "x"}`), 0644))
	assert.Equal(t, Catalog{"a": "x"}, Load(good))
}

func TestWriteSortedAndSkipsUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "en.json")

	wrote, err := Write(path, Catalog{"b": "2", "a": "<1>", "c.d": ""})
	require.NoError(t, err)
	assert.True(t, wrote)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": \"<1>\",\n  \"b\": \"2\",\n  \"c.d\": \"\"\n}\n", string(data))

	wrote, err = Write(path, Catalog{"c.d": "", "a": "<1>", "b": "2"})
	require.NoError(t, err)
	assert.False(t, wrote)
}

func TestWriteEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.json")
	_, err := Write(path, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestLoadPartials(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "home.json"), []byte(`{"title": "Home"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`x`), 0644))

	partials, err := LoadPartials(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]Catalog{"home": {"title": "Home"}}, partials)

	_, err = LoadPartials(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
