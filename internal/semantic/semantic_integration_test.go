//go:build integration

package semantic

import (
	"context"
	"os"
	"testing"

	"i18n-autocomplete/internal/catalog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lengthEmbedder struct{}

func (lengthEmbedder) EmbedBatch(ctx context.Context, texts []string, _ int) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, s := range texts {
		out[i], _ = lengthEmbedder{}.EmbedQuery(ctx, s)
	}
	return out, nil
}

func (lengthEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text)), 1, 0}, nil
}

func TestLookupWithPostgres(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	defer pool.Close()

	store := NewVectorStore(pool)
	require.NoError(t, store.EnsureSchema(ctx, 3))
	cache := NewEmbeddingCache(pool, "it-length")
	require.NoError(t, cache.EnsureSchema(ctx))

	l := NewLookup(lengthEmbedder{}, cache, store)
	n, err := l.Index(ctx, "zz-test", []catalog.Entry{
		{Key: "it.short", Value: "Hi"},
		{Key: "it.long", Value: "A much longer sentence"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	v, ok := cache.Get(ctx, "Hi")
	require.True(t, ok)
	assert.Equal(t, []float32{2, 1, 0}, v)
	require.NoError(t, cache.Preload(ctx))

	results, err := l.Similar(ctx, "Yo", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "it.short", results[0].Key)

	_, err = l.Index(ctx, "zz-test", nil)
	require.NoError(t, err)
}
