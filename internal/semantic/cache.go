package semantic

import (
	"context"
	"fmt"
	"sync"

	"i18n-autocomplete/internal/textutil"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
)

const cacheSchema = `
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS embedding_cache (
	hash      TEXT PRIMARY KEY,
	model     TEXT NOT NULL,
	embedding vector NOT NULL
);
`

// EmbeddingCache provides in-memory + PostgreSQL-backed caching of
// embeddings, keyed by the hash of model and text.
type EmbeddingCache struct {
	pool   *pgxpool.Pool
	model  string
	mu     sync.RWMutex
	memory map[string][]float32
}

// NewEmbeddingCache creates a new cache for one embedding model.
func NewEmbeddingCache(pool *pgxpool.Pool, model string) *EmbeddingCache {
	return &EmbeddingCache{
		pool:   pool,
		model:  model,
		memory: make(map[string][]float32),
	}
}

// EnsureSchema creates the cache table.
func (c *EmbeddingCache) EnsureSchema(ctx context.Context) error {
	if _, err := c.pool.Exec(ctx, cacheSchema); err != nil {
		return fmt.Errorf("create embedding cache schema: %w", err)
	}
	return nil
}

func (c *EmbeddingCache) key(text string) string {
	return textutil.Hash(c.model + "\x00" + text)
}

// Get retrieves a cached embedding.
func (c *EmbeddingCache) Get(ctx context.Context, text string) ([]float32, bool) {
	hash := c.key(text)

	c.mu.RLock()
	if v, ok := c.memory[hash]; ok {
		c.mu.RUnlock()
		return v, true
	}
	c.mu.RUnlock()

	var v pgvector.Vector
	err := c.pool.QueryRow(ctx, `SELECT embedding FROM embedding_cache WHERE hash = $1`, hash).Scan(&v)
	if err != nil {
		return nil, false
	}

	c.mu.Lock()
	c.memory[hash] = v.Slice()
	c.mu.Unlock()

	return v.Slice(), true
}

// Set stores an embedding in both in-memory and PostgreSQL cache.
func (c *EmbeddingCache) Set(ctx context.Context, text string, vector []float32) error {
	hash := c.key(text)

	c.mu.Lock()
	c.memory[hash] = vector
	c.mu.Unlock()

	_, err := c.pool.Exec(ctx, `
		INSERT INTO embedding_cache (hash, model, embedding)
		VALUES ($1, $2, $3)
		ON CONFLICT (hash) DO UPDATE SET embedding = EXCLUDED.embedding
	`, hash, c.model, pgvector.NewVector(vector))
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Preload loads every cached embedding of the model into memory.
func (c *EmbeddingCache) Preload(ctx context.Context) error {
	rows, err := c.pool.Query(ctx, `SELECT hash, embedding FROM embedding_cache WHERE model = $1`, c.model)
	if err != nil {
		return fmt.Errorf("preload cache: %w", err)
	}
	defer rows.Close()

	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for rows.Next() {
		var hash string
		var v pgvector.Vector
		if err := rows.Scan(&hash, &v); err != nil {
			return fmt.Errorf("scan cached embedding: %w", err)
		}
		c.memory[hash] = v.Slice()
		n++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("preload cache: %w", err)
	}

	log.Info().Int("count", n).Msg("Preloaded embedding cache")
	return nil
}
