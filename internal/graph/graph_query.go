package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// FileUsage is one call site of a key.
type FileUsage struct {
	Path   string `json:"file"`
	Line   int64  `json:"line"`
	Column int64  `json:"column"`
}

// GraphQuerier reads the key graph.
type GraphQuerier struct {
	driver neo4j.DriverWithContext
}

// NewGraphQuerier creates a new graph querier.
func NewGraphQuerier(driver neo4j.DriverWithContext) *GraphQuerier {
	return &GraphQuerier{driver: driver}
}

// FilesForKey lists the call sites of key ordered by file and position.
func (gq *GraphQuerier) FilesForKey(ctx context.Context, key string) ([]FileUsage, error) {
	session := gq.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (:Key {name: $key})-[u:USED_IN]->(f:SourceFile)
		RETURN f.path AS path, u.line AS line, u.column AS column
		ORDER BY path, line, column
	`, map[string]any{"key": key})
	if err != nil {
		return nil, fmt.Errorf("query files for %s: %w", key, err)
	}

	var files []FileUsage
	for result.Next(ctx) {
		record := result.Record()
		path, _ := record.Get("path")
		line, _ := record.Get("line")
		column, _ := record.Get("column")

		u := FileUsage{Path: fmt.Sprintf("%v", path)}
		u.Line, _ = line.(int64)
		u.Column, _ = column.(int64)
		files = append(files, u)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read files for %s: %w", key, err)
	}

	log.Debug().Str("key", key).Int("files", len(files)).Msg("Graph query complete")
	return files, nil
}

// OrphanKeys returns the catalog keys that no source file uses, in input
// order.
func (gq *GraphQuerier) OrphanKeys(ctx context.Context, catalogKeys []string) ([]string, error) {
	session := gq.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (k:Key)-[:USED_IN]->(:SourceFile)
		WHERE k.name IN $keys
		RETURN DISTINCT k.name AS name
	`, map[string]any{"keys": catalogKeys})
	if err != nil {
		return nil, fmt.Errorf("query used keys: %w", err)
	}

	used := make(map[string]struct{})
	for result.Next(ctx) {
		name, _ := result.Record().Get("name")
		used[fmt.Sprintf("%v", name)] = struct{}{}
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read used keys: %w", err)
	}

	return orphans(catalogKeys, used), nil
}

func orphans(keys []string, used map[string]struct{}) []string {
	var out []string
	for _, k := range keys {
		if _, ok := used[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}
