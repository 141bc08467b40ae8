// Package suggest produces completion items for a cursor position.
package suggest

import (
	"regexp"
	"strings"

	"i18n-autocomplete/internal/dialect"
	"i18n-autocomplete/internal/index"
)

// Kind tells the host how to render a suggestion.
type Kind string

const (
	KindText Kind = "text"
	KindFile Kind = "file"
)

// Suggestion is one completion item.
//
// InsertText continues what the user already typed. When ReplaceTyped is
// set the typed partial does not prefix the inserted value, so the host
// should replace the partial with InsertText instead of appending.
type Suggestion struct {
	Label        string `json:"label"`
	InsertText   string `json:"insertText"`
	Kind         Kind   `json:"kind"`
	ReplaceTyped bool   `json:"replaceTyped,omitempty"`
}

// Request describes the cursor position. Column is a 0-based character
// offset into Line.
type Request struct {
	Line         string `json:"line"`
	PreviousLine string `json:"previous_line"`
	Column       int    `json:"column"`
}

const DefaultAssetPrefix = "assets/"

// Engine answers completion requests for one dialect. It does no I/O.
type Engine struct {
	cursor *regexp.Regexp
	asset  *regexp.Regexp
}

// Option configures an Engine.
type Option func(*Engine)

// WithAssetPrefix changes the path prefix that switches a string literal
// into asset mode.
func WithAssetPrefix(prefix string) Option {
	return func(e *Engine) {
		prefix = strings.Trim(prefix, "/")
		if prefix == "" {
			return
		}
		e.asset = assetPattern(prefix + "/")
	}
}

// New returns an Engine for d.
func New(d dialect.Dialect, opts ...Option) (*Engine, error) {
	m, err := dialect.For(d)
	if err != nil {
		return nil, err
	}
	e := &Engine{cursor: m.Cursor, asset: assetPattern(DefaultAssetPrefix)}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func assetPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`['"](` + regexp.QuoteMeta(prefix) + `[^'"]*)$`)
}

// Suggest returns completions for req. Asset mode takes precedence over
// translation mode; a request matching neither yields nil.
func (e *Engine) Suggest(req Request, idx *index.TranslationIndex, assetFiles []string) []Suggestion {
	before, after := split(req.Line, req.Column)

	if m := e.asset.FindStringSubmatch(before); m != nil {
		return suggestAssets(m[1], assetFiles)
	}

	if idx == nil {
		idx = index.Empty
	}

	loc := e.cursor.FindStringSubmatchIndex(req.PreviousLine + "\n" + before)
	if loc == nil {
		return nil
	}
	text := req.PreviousLine + "\n" + before
	quote := text[loc[2]:loc[3]]
	partial := text[loc[4]:loc[5]]

	closing := quote
	if strings.HasPrefix(after, quote) {
		closing = ""
	}

	var out []Suggestion
	for _, key := range idx.Keys {
		if !strings.HasPrefix(key, partial) {
			continue
		}
		out = append(out, Suggestion{
			Label:      key,
			InsertText: key[len(partial):] + closing,
			Kind:       KindText,
		})
	}

	for _, r := range idx.Reversed {
		if !strings.HasPrefix(r.Value, partial) {
			continue
		}
		s := Suggestion{
			Label: r.Value + " (" + r.Key + ")",
			Kind:  KindText,
		}
		if strings.HasPrefix(r.Key, partial) {
			s.InsertText = r.Key[len(partial):] + closing
		} else {
			s.InsertText = r.Key + closing
			s.ReplaceTyped = true
		}
		out = append(out, s)
	}

	return out
}

func suggestAssets(partial string, assetFiles []string) []Suggestion {
	var out []Suggestion
	for _, file := range assetFiles {
		if !strings.Contains(file, partial) {
			continue
		}
		s := Suggestion{Label: file, Kind: KindFile}
		if strings.HasPrefix(file, partial) {
			s.InsertText = file[len(partial):]
		} else {
			s.InsertText = file
			s.ReplaceTyped = true
		}
		out = append(out, s)
	}
	return out
}

// split cuts line at a character column, clamped to the line bounds.
func split(line string, column int) (string, string) {
	if column <= 0 {
		return "", line
	}
	n := 0
	for i := range line {
		if n == column {
			return line[:i], line[i:]
		}
		n++
	}
	return line, ""
}
