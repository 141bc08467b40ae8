package dialect

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrUnknownDialect is returned when a project language name has no matcher.
var ErrUnknownDialect = errors.New("unknown dialect")

// Dialect identifies one supported source-call syntax family.
type Dialect int

const (
	// Unknown marks files the scanner does not recognize.
	Unknown Dialect = iota
	// Dart is the single-quoted `translate('key')` shape.
	Dart
	// TypeScript is the `t('key')` / `translate("key")` shape with flexible quoting.
	TypeScript
)

func (d Dialect) String() string {
	switch d {
	case Dart:
		return "dart"
	case TypeScript:
		return "typescript"
	default:
		return "unknown"
	}
}

// Parse maps a project language setting to its dialect.
func Parse(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dart", "flutter":
		return Dart, nil
	case "typescript", "javascript", "ts", "js":
		return TypeScript, nil
	default:
		return Unknown, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
	}
}

// extToDialect maps source file extensions to dialects.
var extToDialect = map[string]Dialect{
	".dart": Dart,
	".ts":   TypeScript,
	".tsx":  TypeScript,
	".js":   TypeScript,
	".jsx":  TypeScript,
}

// FromPath returns the dialect for a file path, or Unknown.
func FromPath(path string) Dialect {
	return extToDialect[strings.ToLower(filepath.Ext(path))]
}

// Matcher holds the patterns of one dialect.
type Matcher struct {
	// Call matches a complete localization call; the key is the first
	// capture group that participated in the match.
	Call *regexp.Regexp
	// Cursor matches an unfinished call ending at the cursor. Group 1 is the
	// opening quote, group 2 the text typed so far.
	Cursor *regexp.Regexp
}

// objectArg is the optional second positional argument: a brace-delimited
// literal whose braces may nest one level.
const objectArg = `(?:\s*,\s*\{(?:[^{}]|\{[^{}]*\})*\})?`

// RE2 has no backreferences, so "closed by the same quote" is written as one
// alternative per quote character.
const tsLiteral = "(?:'([^'\"`]+)'|\"([^'\"`]+)\"|`([^'\"`]+)`)"

var matchers = map[Dialect]Matcher{
	Dart: {
		Call:   regexp.MustCompile(`translate\s*\(\s*'([A-Za-z0-9$\{\}\.]+)'` + objectArg + `\s*\)`),
		Cursor: regexp.MustCompile(`translate\s*\(\s*(')([^'\n]*)$`),
	},
	TypeScript: {
		Call:   regexp.MustCompile(`\bt(?:ranslate)?\s*\(\s*` + tsLiteral + objectArg + `\s*\)`),
		Cursor: regexp.MustCompile("\\bt(?:ranslate)?\\s*\\(\\s*(['\"`])([^'\"`\\n]*)$"),
	},
}

// For returns the default matcher of a dialect.
func For(d Dialect) (Matcher, error) {
	m, ok := matchers[d]
	if !ok {
		return Matcher{}, fmt.Errorf("%w: %s", ErrUnknownDialect, d)
	}
	return m, nil
}

// WithCustomCall returns a copy of m whose call pattern is replaced by a
// user-supplied expression. The cursor pattern is kept.
func (m Matcher) WithCustomCall(pattern string) (Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Matcher{}, fmt.Errorf("compile custom regex: %w", err)
	}
	m.Call = re
	return m, nil
}

// Key returns the key captured by one call match, or "" when no capture
// group participated.
func Key(content string, loc []int) string {
	for i := 2; i+1 < len(loc); i += 2 {
		if loc[i] >= 0 {
			return content[loc[i]:loc[i+1]]
		}
	}
	return ""
}
