package semantic

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
)

// VectorStore handles pgvector-backed catalog embeddings and similarity
// search.
type VectorStore struct {
	pool *pgxpool.Pool
}

// NewVectorStore creates a new vector store.
func NewVectorStore(pool *pgxpool.Pool) *VectorStore {
	return &VectorStore{pool: pool}
}

// EmbeddingRecord is one catalog value with its embedding.
type EmbeddingRecord struct {
	Locale string
	Key    string
	Value  string
	Vector []float32
}

// SearchResult is one similarity match.
type SearchResult struct {
	Locale string  `json:"locale"`
	Key    string  `json:"key"`
	Value  string  `json:"value"`
	Score  float64 `json:"score"`
}

// EnsureSchema creates the embeddings table for vectors of dimensions.
func (vs *VectorStore) EnsureSchema(ctx context.Context, dimensions int) error {
	_, err := vs.pool.Exec(ctx, fmt.Sprintf(`
		CREATE EXTENSION IF NOT EXISTS vector;
		CREATE TABLE IF NOT EXISTS catalog_embeddings (
			locale    TEXT NOT NULL,
			key       TEXT NOT NULL,
			value     TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			PRIMARY KEY (locale, key)
		);
	`, dimensions))
	if err != nil {
		return fmt.Errorf("create embeddings schema: %w", err)
	}
	return nil
}

// Replace swaps the stored embeddings of locale for records.
func (vs *VectorStore) Replace(ctx context.Context, locale string, records []EmbeddingRecord) error {
	tx, err := vs.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin embeddings transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM catalog_embeddings WHERE locale = $1`, locale)
	for _, r := range records {
		batch.Queue(`
			INSERT INTO catalog_embeddings (locale, key, value, embedding)
			VALUES ($1, $2, $3, $4)
		`, r.Locale, r.Key, r.Value, pgvector.NewVector(r.Vector))
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("store embeddings of %s: %w", locale, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit embeddings of %s: %w", locale, err)
	}

	log.Info().Str("language", locale).Int("count", len(records)).Msg("Stored embeddings")
	return nil
}

// Search finds the topK values closest to the query vector by cosine
// distance.
func (vs *VectorStore) Search(ctx context.Context, queryVector []float32, topK int) ([]SearchResult, error) {
	rows, err := vs.pool.Query(ctx, `
		SELECT locale, key, value, 1 - (embedding <=> $1) AS score
		FROM catalog_embeddings
		ORDER BY embedding <=> $1
		LIMIT $2
	`, pgvector.NewVector(queryVector), topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results, err := pgx.CollectRows(rows, pgx.RowToStructByPos[SearchResult])
	if err != nil {
		return nil, fmt.Errorf("scan vector search: %w", err)
	}
	return results, nil
}
