package scanner

import (
	"fmt"
	"regexp"
	"strings"
)

// Glob is an exclude pattern compiled to an anchored regular expression.
//
//	**/  any sequence of whole path segments, including none
//	**   any characters, across segments
//	*    any characters within one segment
//	?    one character within a segment
type Glob struct {
	pattern string
	re      *regexp.Regexp
}

// CompileGlob compiles a glob pattern.
func CompileGlob(pattern string) (Glob, error) {
	var b strings.Builder
	b.WriteString("^")

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		rest := string(runes[i:])
		switch {
		case strings.HasPrefix(rest, "**/"):
			b.WriteString("(?:.*/)?")
			i += 2
		case strings.HasPrefix(rest, "**"):
			b.WriteString(".*")
			i++
		case c == '*':
			b.WriteString("[^/]*")
		case c == '?':
			b.WriteString("[^/]")
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return Glob{}, fmt.Errorf("compile glob %q: %w", pattern, err)
	}
	return Glob{pattern: pattern, re: re}, nil
}

// Match reports whether a slash-separated path matches the whole pattern.
func (g Glob) Match(path string) bool {
	return g.re.MatchString(path)
}

func (g Glob) String() string { return g.pattern }
