package suggest

import (
	"os"
	"path/filepath"
	"testing"

	"i18n-autocomplete/internal/dialect"
	"i18n-autocomplete/internal/index"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex() *index.TranslationIndex {
	return &index.TranslationIndex{
		Keys: []string{"home.title", "home.subtitle", "profile.name"},
		Reversed: []index.ReverseEntry{
			{Value: "Home", Key: "home.title"},
			{Value: "Hello", Key: "greeting"},
			{Value: "Hello", Key: "home.hello"},
		},
	}
}

func labels(s []Suggestion) []string {
	out := make([]string, len(s))
	for i := range s {
		out[i] = s[i].Label
	}
	return out
}

func TestSuggestKeyPrefix(t *testing.T) {
	e, err := New(dialect.TypeScript)
	require.NoError(t, err)

	line := `const x = t('home.t`
	got := e.Suggest(Request{Line: line, Column: len(line)}, testIndex(), nil)

	require.Len(t, got, 1)
	assert.Equal(t, Suggestion{Label: "home.title", InsertText: "itle'", Kind: KindText}, got[0])
}

func TestSuggestClosingQuotePresent(t *testing.T) {
	e, err := New(dialect.TypeScript)
	require.NoError(t, err)

	line := `t("home.t")`
	got := e.Suggest(Request{Line: line, Column: 9}, testIndex(), nil)

	require.Len(t, got, 1)
	assert.Equal(t, "itle", got[0].InsertText)
}

func TestSuggestReversePhrase(t *testing.T) {
	e, err := New(dialect.TypeScript)
	require.NoError(t, err)

	line := "  `Hel"
	got := e.Suggest(Request{PreviousLine: "render(translate(", Line: line, Column: len(line)}, testIndex(), nil)

	require.Len(t, got, 2)
	assert.Equal(t, []string{"Hello (greeting)", "Hello (home.hello)"}, labels(got))
	assert.Equal(t, "greeting`", got[0].InsertText)
	assert.True(t, got[0].ReplaceTyped)
}

func TestSuggestReverseEntryPrefixedByPartial(t *testing.T) {
	e, err := New(dialect.TypeScript)
	require.NoError(t, err)

	idx := &index.TranslationIndex{Reversed: []index.ReverseEntry{{Value: "ok", Key: "ok.button"}}}
	line := `t('o`
	got := e.Suggest(Request{Line: line, Column: len(line)}, idx, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "k.button'", got[0].InsertText)
	assert.False(t, got[0].ReplaceTyped)
}

func TestSuggestDart(t *testing.T) {
	e, err := New(dialect.Dart)
	require.NoError(t, err)

	line := `Text(translate('pro`
	got := e.Suggest(Request{Line: line, Column: len(line)}, testIndex(), nil)
	assert.Equal(t, []string{"profile.name"}, labels(got))

	line = `Text(t("pro`
	assert.Empty(t, e.Suggest(Request{Line: line, Column: len(line)}, testIndex(), nil))
}

func TestSuggestAssets(t *testing.T) {
	e, err := New(dialect.Dart)
	require.NoError(t, err)

	assets := []string{"assets/images/logo.png", "assets/icons/images.svg", "assets/fonts/a.ttf"}
	line := `Image.asset('assets/images`
	got := e.Suggest(Request{Line: line, Column: len(line)}, testIndex(), assets)

	require.Len(t, got, 1)
	assert.Equal(t, Suggestion{Label: "assets/images/logo.png", InsertText: "/logo.png", Kind: KindFile}, got[0])
}

func TestSuggestAssetModeShortCircuits(t *testing.T) {
	e, err := New(dialect.TypeScript)
	require.NoError(t, err)

	line := `t('assets/`
	got := e.Suggest(Request{Line: line, Column: len(line)}, testIndex(), []string{"assets/a.png"})
	assert.Equal(t, []string{"assets/a.png"}, labels(got))
	assert.Equal(t, KindFile, got[0].Kind)
}

func TestSuggestAssetPrefixOption(t *testing.T) {
	e, err := New(dialect.TypeScript, WithAssetPrefix("src/assets"))
	require.NoError(t, err)

	line := `import logo from "src/assets/lo`
	got := e.Suggest(Request{Line: line, Column: len(line)}, nil, []string{"src/assets/logo.svg"})
	require.Len(t, got, 1)
	assert.Equal(t, "go.svg", got[0].InsertText)
}

func TestSuggestNoMatch(t *testing.T) {
	e, err := New(dialect.TypeScript)
	require.NoError(t, err)

	assert.Empty(t, e.Suggest(Request{Line: "const a = 1", Column: 11}, testIndex(), nil))
	assert.Empty(t, e.Suggest(Request{Line: "", Column: 0}, nil, nil))
}

func TestSplit(t *testing.T) {
	before, after := split("héllo", 2)
	assert.Equal(t, "hé", before)
	assert.Equal(t, "llo", after)

	before, after = split("abc", 10)
	assert.Equal(t, "abc", before)
	assert.Equal(t, "", after)

	before, after = split("abc", -1)
	assert.Equal(t, "", before)
	assert.Equal(t, "abc", after)
}

func TestLoadAssetFiles(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(ws, "assets", "images"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(ws, "assets", "images", "b.png"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(ws, "assets", "a.json"), []byte("{}"), 0644))

	assert.Equal(t, []string{"assets/a.json", "assets/images/b.png"}, LoadAssetFiles(ws, "assets"))
	assert.Nil(t, LoadAssetFiles(ws, "missing"))
}
