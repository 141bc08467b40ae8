// Package index holds the in-memory translation index used for completion.
package index

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"i18n-autocomplete/internal/catalog"

	"github.com/rs/zerolog/log"
)

var (
	ErrNoCatalogDir   = errors.New("catalog directory not found")
	ErrNoCatalogFiles = errors.New("no catalog files found")
)

// ReverseEntry maps a translated phrase back to the key that defines it.
// Distinct keys sharing one phrase each get their own entry.
type ReverseEntry struct {
	Value string `json:"value"`
	Key   string `json:"key"`
}

// TranslationIndex is immutable once built.
type TranslationIndex struct {
	// Keys of the primary catalog, in file order.
	Keys []string
	// Reversed holds every non-empty value of every catalog.
	Reversed []ReverseEntry

	Primary string
	Files   []string
}

// Empty is the index served before any catalog has been loaded.
var Empty = &TranslationIndex{}

// Rebuild creates an index from the primary catalog's entries and the
// entries of every catalog file (the primary included).
func Rebuild(catalogs [][]catalog.Entry, primary []catalog.Entry) *TranslationIndex {
	idx := &TranslationIndex{Keys: make([]string, 0, len(primary))}
	for _, e := range primary {
		idx.Keys = append(idx.Keys, e.Key)
	}
	for _, entries := range catalogs {
		for _, e := range entries {
			if e.Value == "" {
				continue
			}
			idx.Reversed = append(idx.Reversed, ReverseEntry{Value: e.Value, Key: e.Key})
		}
	}
	return idx
}

// LoadDir builds an index from the *.json files directly inside dir. The
// primary catalog is <primaryLocale>.json; when that is unset or absent the
// first file by name is used. Malformed files are reported and count as
// empty.
func LoadDir(dir, primaryLocale string) (*TranslationIndex, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNoCatalogDir, dir)
	}

	files, err := catalog.ListJSON(dir)
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCatalogFiles, dir)
	}

	primary := files[0]
	if primaryLocale != "" {
		want := filepath.Join(dir, primaryLocale+".json")
		found := false
		for _, f := range files {
			if f == want {
				primary, found = f, true
				break
			}
		}
		if !found {
			log.Warn().Str("locale", primaryLocale).Str("fallback", filepath.Base(primary)).Msg("Primary catalog not found, using first catalog")
		}
	}

	var (
		all          = make([][]catalog.Entry, 0, len(files))
		primaryEntry []catalog.Entry
	)
	for _, f := range files {
		entries, err := catalog.Read(f)
		if err != nil {
			log.Warn().Err(err).Str("path", f).Msg("Error parsing translation file")
			entries = nil
		}
		if f == primary {
			primaryEntry = entries
		}
		all = append(all, entries)
	}

	idx := Rebuild(all, primaryEntry)
	idx.Primary = primary
	idx.Files = files

	log.Debug().
		Str("dir", dir).
		Str("primary", filepath.Base(primary)).
		Int("keys", len(idx.Keys)).
		Int("reversed", len(idx.Reversed)).
		Msg("Translation index built")

	return idx, nil
}

// Locale returns the locale code of the primary catalog.
func (idx *TranslationIndex) Locale() string {
	return strings.TrimSuffix(filepath.Base(idx.Primary), ".json")
}

// Store publishes the current index. Readers never see a partially built
// index; a rebuild replaces it in full.
type Store struct {
	current atomic.Pointer[TranslationIndex]
}

// NewStore returns a Store serving the empty index.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(Empty)
	return s
}

// Current returns the latest published index.
func (s *Store) Current() *TranslationIndex {
	if idx := s.current.Load(); idx != nil {
		return idx
	}
	return Empty
}

// Publish replaces the current index.
func (s *Store) Publish(idx *TranslationIndex) {
	if idx == nil {
		idx = Empty
	}
	s.current.Store(idx)
}

// Reload rebuilds the index from dir and publishes it. On failure the
// previous index stays in place.
func (s *Store) Reload(dir, primaryLocale string) (*TranslationIndex, error) {
	idx, err := LoadDir(dir, primaryLocale)
	if err != nil {
		return nil, err
	}
	s.Publish(idx)
	log.Info().Int("keys", len(idx.Keys)).Int("files", len(idx.Files)).Msg("Translation index reloaded")
	return idx, nil
}
