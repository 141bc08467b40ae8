// Package semantic finds catalog keys whose translated value means roughly
// the same as a phrase, using embeddings stored in pgvector.
package semantic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"i18n-autocomplete/internal/catalog"
	"i18n-autocomplete/internal/textutil"

	"github.com/rs/zerolog/log"
)

// ErrEmptyPhrase is returned by Similar for a blank phrase.
var ErrEmptyPhrase = errors.New("empty phrase")

// Embedder turns texts into vectors.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string, batchSize int) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Cache remembers embeddings by text.
type Cache interface {
	Get(ctx context.Context, text string) ([]float32, bool)
	Set(ctx context.Context, text string, vector []float32) error
}

// Vectors stores and searches catalog embeddings.
type Vectors interface {
	Replace(ctx context.Context, locale string, records []EmbeddingRecord) error
	Search(ctx context.Context, queryVector []float32, topK int) ([]SearchResult, error)
}

// Lookup indexes catalogs and answers similarity queries.
type Lookup struct {
	embedder  Embedder
	cache     Cache
	vectors   Vectors
	batchSize int
}

// NewLookup creates a Lookup. cache may be nil.
func NewLookup(embedder Embedder, cache Cache, vectors Vectors) *Lookup {
	return &Lookup{
		embedder:  embedder,
		cache:     cache,
		vectors:   vectors,
		batchSize: DefaultBatchSize,
	}
}

// Index embeds every non-empty value of entries and replaces the stored
// embeddings of locale. Values already cached are not sent to the API.
func (l *Lookup) Index(ctx context.Context, locale string, entries []catalog.Entry) (int, error) {
	vectors := make(map[string][]float32)
	var misses []string
	for _, e := range entries {
		if strings.TrimSpace(e.Value) == "" {
			continue
		}
		if _, seen := vectors[e.Value]; seen {
			continue
		}
		if l.cache != nil {
			if v, ok := l.cache.Get(ctx, e.Value); ok {
				vectors[e.Value] = v
				continue
			}
		}
		vectors[e.Value] = nil
		misses = append(misses, e.Value)
	}

	log.Info().
		Str("language", locale).
		Int("values", len(vectors)).
		Int("cached", len(vectors)-len(misses)).
		Msg("Indexing catalog values")

	if len(misses) > 0 {
		embedded, err := l.embedder.EmbedBatch(ctx, misses, l.batchSize)
		if err != nil {
			return 0, fmt.Errorf("embed %s values: %w", locale, err)
		}
		if len(embedded) != len(misses) {
			return 0, fmt.Errorf("embed %s values: got %d vectors for %d texts", locale, len(embedded), len(misses))
		}
		for i, text := range misses {
			vectors[text] = embedded[i]
			if l.cache == nil {
				continue
			}
			if err := l.cache.Set(ctx, text, embedded[i]); err != nil {
				log.Warn().Err(err).Str("text", textutil.Truncate(text, 30)).Msg("Failed to cache embedding")
			}
		}
	}

	records := make([]EmbeddingRecord, 0, len(entries))
	for _, e := range entries {
		v := vectors[e.Value]
		if v == nil {
			continue
		}
		records = append(records, EmbeddingRecord{Locale: locale, Key: e.Key, Value: e.Value, Vector: v})
	}

	if err := l.vectors.Replace(ctx, locale, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Similar returns the k stored values closest to phrase.
func (l *Lookup) Similar(ctx context.Context, phrase string, k int) ([]SearchResult, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return nil, ErrEmptyPhrase
	}
	if k <= 0 {
		k = 5
	}

	var v []float32
	if l.cache != nil {
		v, _ = l.cache.Get(ctx, phrase)
	}
	if v == nil {
		var err error
		if v, err = l.embedder.EmbedQuery(ctx, phrase); err != nil {
			return nil, err
		}
	}

	results, err := l.vectors.Search(ctx, v, k)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("phrase", textutil.Truncate(phrase, 30)).Int("results", len(results)).Msg("Similarity search complete")
	return results, nil
}
