// Package usage persists where every translation key is called from, so the
// last extraction run of each locale can be queried by key.
package usage

import (
	"context"
	"fmt"

	"i18n-autocomplete/internal/extractor"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS key_usages (
	locale    TEXT    NOT NULL,
	key       TEXT    NOT NULL,
	file_path TEXT    NOT NULL,
	line      INTEGER NOT NULL,
	col       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS key_usages_key_idx ON key_usages (key);
CREATE INDEX IF NOT EXISTS key_usages_locale_idx ON key_usages (locale);
`

var columns = []string{"locale", "key", "file_path", "line", "col"}

// Location is one recorded call site of a key.
type Location struct {
	Locale   string `db:"locale"    json:"locale"`
	FilePath string `db:"file_path" json:"file"`
	Line     int32  `db:"line"      json:"line"`
	Column   int32  `db:"col"       json:"column"`
}

// Store handles PostgreSQL-backed key usage records.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new usage store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the usage table and its indexes.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create usage schema: %w", err)
	}
	log.Debug().Msg("Usage schema ensured")
	return nil
}

// Record replaces the rows of locale with occurrences, duplicates included.
func (s *Store) Record(ctx context.Context, locale string, occurrences []extractor.Occurrence) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin usage transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM key_usages WHERE locale = $1`, locale); err != nil {
		return 0, fmt.Errorf("clear usages of %s: %w", locale, err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"key_usages"}, columns, pgx.CopyFromRows(copyRows(locale, occurrences)))
	if err != nil {
		return 0, fmt.Errorf("copy usages of %s: %w", locale, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit usages of %s: %w", locale, err)
	}

	log.Info().Str("language", locale).Int64("rows", n).Msg("Recorded key usages")
	return n, nil
}

// Locations returns every recorded call site of key.
func (s *Store) Locations(ctx context.Context, key string) ([]Location, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT locale, file_path, line, col
		FROM key_usages
		WHERE key = $1
		ORDER BY locale, file_path, line, col
	`, key)
	if err != nil {
		return nil, fmt.Errorf("query usages of %s: %w", key, err)
	}

	locations, err := pgx.CollectRows(rows, pgx.RowToStructByName[Location])
	if err != nil {
		return nil, fmt.Errorf("scan usages of %s: %w", key, err)
	}
	return locations, nil
}

func copyRows(locale string, occurrences []extractor.Occurrence) [][]any {
	out := make([][]any, len(occurrences))
	for i, o := range occurrences {
		out[i] = []any{locale, o.Key, o.FilePath, int32(o.Line), int32(o.Column)}
	}
	return out
}
