package extractor

import (
	"testing"

	"i18n-autocomplete/internal/dialect"
	"i18n-autocomplete/internal/scanner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDeduplicates(t *testing.T) {
	e, err := New(dialect.TypeScript, "")
	require.NoError(t, err)

	files := []scanner.SourceFile{
		{RelativePath: "src/a.ts", Content: "t('a.b')\nfoo(t('a.b'))\nt('a.c')", Dialect: dialect.TypeScript},
	}

	result := e.Extract("en", files)
	assert.Equal(t, []string{"a.b", "a.c"}, result.Keys())
	assert.Equal(t, 3, result.TotalMatches)
	assert.Len(t, result.Occurrences, 3)
	assert.Equal(t, 1, result.TotalFiles)
	assert.Equal(t, "en", result.LanguageCode)
}

func TestExtractFirstOccurrenceWinsAcrossFiles(t *testing.T) {
	e, err := New(dialect.TypeScript, "")
	require.NoError(t, err)

	files := []scanner.SourceFile{
		{RelativePath: "src/a.ts", Content: `t("x")`, Dialect: dialect.TypeScript},
		{RelativePath: "lib/a.dart", Content: `translate('y')`, Dialect: dialect.Dart},
		{RelativePath: "src/b.ts", Content: "\n  t(\"x\") t('z')", Dialect: dialect.TypeScript},
	}

	result := e.Extract("en", files)
	require.Len(t, result.Translations, 2)
	assert.Equal(t, 2, result.TotalFiles)
	assert.Equal(t, 3, result.TotalMatches)

	assert.Equal(t, Occurrence{Key: "x", FilePath: "src/a.ts", Line: 1, Column: 1, FullMatch: `t("x")`}, result.Translations[0])
	assert.Equal(t, "z", result.Translations[1].Key)
	assert.Equal(t, "src/b.ts", result.Translations[1].FilePath)
	assert.Equal(t, 2, result.Translations[1].Line)
	assert.Equal(t, 10, result.Translations[1].Column)
}

func TestFindAllPositions(t *testing.T) {
	e, err := New(dialect.Dart, "")
	require.NoError(t, err)

	content := "import 'x';\n\nfinal a = translate('home.title');\n  translate(\n    'home.body',\n    {'n': 1}\n  );\ntranslate('')"
	got := e.FindAll("lib/home.dart", content)
	require.Len(t, got, 2)

	assert.Equal(t, "home.title", got[0].Key)
	assert.Equal(t, 3, got[0].Line)
	assert.Equal(t, 11, got[0].Column)

	assert.Equal(t, "home.body", got[1].Key)
	assert.Equal(t, 4, got[1].Line)
	assert.Equal(t, 3, got[1].Column)
	assert.Contains(t, got[1].FullMatch, "{'n': 1}")
}

func TestCustomRegex(t *testing.T) {
	e, err := New(dialect.TypeScript, `\$t\('([^']+)'\)`)
	require.NoError(t, err)

	got := e.FindAll("src/a.vue.ts", `$t('custom.key') t('default.key')`)
	require.Len(t, got, 1)
	assert.Equal(t, "custom.key", got[0].Key)

	_, err = New(dialect.TypeScript, `(`)
	assert.Error(t, err)
}

func TestUnknownDialect(t *testing.T) {
	_, err := New(dialect.Unknown, "")
	assert.ErrorIs(t, err, dialect.ErrUnknownDialect)
}
