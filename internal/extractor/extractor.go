package extractor

import (
	"strings"

	"i18n-autocomplete/internal/dialect"
	"i18n-autocomplete/internal/scanner"

	"github.com/rs/zerolog/log"
)

// Extractor finds localization calls of one dialect.
type Extractor struct {
	dialect dialect.Dialect
	matcher dialect.Matcher
}

// New creates an Extractor using the dialect's default call pattern, or the
// custom pattern when one is given.
func New(d dialect.Dialect, customRegex string) (*Extractor, error) {
	m, err := dialect.For(d)
	if err != nil {
		return nil, err
	}
	if customRegex != "" {
		if m, err = m.WithCustomCall(customRegex); err != nil {
			return nil, err
		}
	}
	return &Extractor{dialect: d, matcher: m}, nil
}

// Dialect returns the dialect this extractor matches.
func (e *Extractor) Dialect() dialect.Dialect { return e.dialect }

// Extract filters files to the extractor's dialect, collects every call
// occurrence and deduplicates by key, keeping the first occurrence.
func (e *Extractor) Extract(languageCode string, files []scanner.SourceFile) *Result {
	result := &Result{LanguageCode: languageCode}
	seen := make(map[string]struct{})

	for _, f := range files {
		if f.Dialect != e.dialect {
			continue
		}
		result.TotalFiles++

		occurrences := e.FindAll(f.RelativePath, f.Content)
		result.TotalMatches += len(occurrences)
		result.Occurrences = append(result.Occurrences, occurrences...)

		for _, o := range occurrences {
			if _, dup := seen[o.Key]; dup {
				continue
			}
			seen[o.Key] = struct{}{}
			result.Translations = append(result.Translations, o)
		}
	}

	log.Debug().
		Str("language", languageCode).
		Str("dialect", e.dialect.String()).
		Int("files", result.TotalFiles).
		Int("matches", result.TotalMatches).
		Int("unique", len(result.Translations)).
		Msg("Extraction finished")

	return result
}

// FindAll runs the call pattern over the whole content so that calls split
// across lines are found. Matches without a key are dropped.
func (e *Extractor) FindAll(filePath, content string) []Occurrence {
	var out []Occurrence

	line := 1
	lastNewline := -1
	scanned := 0

	for _, loc := range e.matcher.Call.FindAllStringSubmatchIndex(content, -1) {
		key := dialect.Key(content, loc)
		if key == "" {
			continue
		}

		start := loc[0]
		segment := content[scanned:start]
		if n := strings.Count(segment, "\n"); n > 0 {
			line += n
			lastNewline = scanned + strings.LastIndexByte(segment, '\n')
		}
		scanned = start

		out = append(out, Occurrence{
			Key:       key,
			FilePath:  filePath,
			Line:      line,
			Column:    start - lastNewline,
			FullMatch: content[loc[0]:loc[1]],
		})
	}

	return out
}
