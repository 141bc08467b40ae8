package graph

import (
	"testing"

	"i18n-autocomplete/internal/extractor"

	"github.com/stretchr/testify/assert"
)

func TestPublishParams(t *testing.T) {
	result := &extractor.Result{
		LanguageCode: "en",
		Translations: []extractor.Occurrence{
			{Key: "home.title", FilePath: "lib/a.dart", Line: 1, Column: 6},
			{Key: "ok", FilePath: "lib/b.dart", Line: 2, Column: 1},
		},
		Occurrences: []extractor.Occurrence{
			{Key: "home.title", FilePath: "lib/a.dart", Line: 1, Column: 6},
			{Key: "ok", FilePath: "lib/b.dart", Line: 2, Column: 1},
			{Key: "home.title", FilePath: "lib/b.dart", Line: 9, Column: 3},
		},
	}

	keys, usages := publishParams(result)
	assert.Equal(t, []map[string]any{
		{"name": "home.title", "namespace": "home"},
		{"name": "ok", "namespace": "common"},
	}, keys)
	assert.Len(t, usages, 3)
	assert.Equal(t, map[string]any{"key": "home.title", "file": "lib/b.dart", "line": int64(9), "column": int64(3)}, usages[2])
}

func TestOrphans(t *testing.T) {
	used := map[string]struct{}{"a": {}, "c": {}}
	assert.Equal(t, []string{"b", "d"}, orphans([]string{"a", "b", "c", "d"}, used))
	assert.Nil(t, orphans([]string{"a"}, used))
}
