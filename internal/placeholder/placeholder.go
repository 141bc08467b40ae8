// Package placeholder detects interpolation variables in catalog values and
// checks that translations keep the variables of the primary locale.
package placeholder

import (
	"regexp"
	"slices"
	"sort"

	"i18n-autocomplete/internal/catalog"
)

// patterns detect interpolation variables.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\{[a-zA-Z_][a-zA-Z0-9_.]*\}`),        // ${value}
	regexp.MustCompile(`\{\{\s*[a-zA-Z_][a-zA-Z0-9_.]*\s*\}\}`), // {{value}}
	regexp.MustCompile(`\{[a-zA-Z0-9_]+\}`),                    // {name}, {0}
	regexp.MustCompile(`%[-+0-9]*\.?[0-9]*[dsfieEgGxXoubcpq]`), // %d, %s, %2d
	regexp.MustCompile(`%%`),                                   // escaped percent literal
}

type match struct {
	start, end int
	value      string
}

// Find returns the placeholders of text in order of appearance. When two
// patterns overlap the longer match at the earlier position wins; escaped
// percent signs are consumed but not reported.
func Find(text string) []string {
	var all []match
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			all = append(all, match{start: loc[0], end: loc[1], value: text[loc[0]:loc[1]]})
		}
	}
	if len(all) == 0 {
		return nil
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		return all[i].end-all[i].start > all[j].end-all[j].start
	})

	var out []string
	lastEnd := -1
	for _, m := range all {
		if m.start < lastEnd {
			continue
		}
		lastEnd = m.end
		if m.value != "%%" {
			out = append(out, m.value)
		}
	}
	return out
}

// Issue reports one translated value whose placeholders differ from the
// primary value.
type Issue struct {
	Locale  string   `json:"locale"`
	Key     string   `json:"key"`
	Missing []string `json:"missing,omitempty"`
	Extra   []string `json:"extra,omitempty"`
}

// Check compares every non-empty value in catalogs against the value of the
// same key in primary. Empty values are untranslated and skipped. Issues are
// ordered by locale, then key.
func Check(primary catalog.Catalog, catalogs map[string]catalog.Catalog) []Issue {
	var issues []Issue

	locales := make([]string, 0, len(catalogs))
	for l := range catalogs {
		locales = append(locales, l)
	}
	sort.Strings(locales)

	for _, locale := range locales {
		c := catalogs[locale]
		for _, key := range c.Keys() {
			value := c[key]
			source, ok := primary[key]
			if value == "" || !ok || source == "" {
				continue
			}
			missing, extra := diff(Find(source), Find(value))
			if len(missing) == 0 && len(extra) == 0 {
				continue
			}
			issues = append(issues, Issue{Locale: locale, Key: key, Missing: missing, Extra: extra})
		}
	}
	return issues
}

// diff compares placeholder multisets; word order may change between
// languages.
func diff(want, got []string) (missing, extra []string) {
	counts := make(map[string]int)
	for _, p := range want {
		counts[p]++
	}
	for _, p := range got {
		counts[p]--
	}
	for _, p := range want {
		if counts[p] > 0 && !slices.Contains(missing, p) {
			missing = append(missing, p)
		}
	}
	for _, p := range got {
		if counts[p] < 0 && !slices.Contains(extra, p) {
			extra = append(extra, p)
		}
	}
	return missing, extra
}
