package graph

import (
	"context"
	"fmt"

	"i18n-autocomplete/internal/catalog"
	"i18n-autocomplete/internal/extractor"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// GraphBuilder publishes extraction results into the Neo4j key graph:
//
//	(:Key {name})-[:IN_NAMESPACE]->(:Namespace {name})
//	(:Key)-[:USED_IN {line, column}]->(:SourceFile {path})
type GraphBuilder struct {
	driver neo4j.DriverWithContext
}

// NewGraphBuilder creates a new graph builder.
func NewGraphBuilder(driver neo4j.DriverWithContext) *GraphBuilder {
	return &GraphBuilder{driver: driver}
}

// EnsureSchema creates constraints on the Neo4j database.
func (gb *GraphBuilder) EnsureSchema(ctx context.Context) error {
	session := gb.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (k:Key) REQUIRE k.name IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (n:Namespace) REQUIRE n.name IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (f:SourceFile) REQUIRE f.path IS UNIQUE",
	}

	for _, c := range constraints {
		if _, err := session.Run(ctx, c, nil); err != nil {
			return fmt.Errorf("create constraint: %w", err)
		}
	}

	log.Info().Msg("Graph schema ensured")
	return nil
}

// Publish replaces the USED_IN edges with the occurrences of result and
// merges every key into its namespace.
func (gb *GraphBuilder) Publish(ctx context.Context, result *extractor.Result) error {
	keys, usages := publishParams(result)

	session := gb.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, `MATCH (:Key)-[u:USED_IN]->(:SourceFile) DELETE u`, nil); err != nil {
			return nil, fmt.Errorf("clear usages: %w", err)
		}

		_, err := tx.Run(ctx, `
			UNWIND $keys AS row
			MERGE (k:Key {name: row.name})
			MERGE (n:Namespace {name: row.namespace})
			MERGE (k)-[:IN_NAMESPACE]->(n)
		`, map[string]any{"keys": keys})
		if err != nil {
			return nil, fmt.Errorf("merge keys: %w", err)
		}

		_, err = tx.Run(ctx, `
			UNWIND $usages AS row
			MATCH (k:Key {name: row.key})
			MERGE (f:SourceFile {path: row.file})
			CREATE (k)-[:USED_IN {line: row.line, column: row.column}]->(f)
		`, map[string]any{"usages": usages})
		if err != nil {
			return nil, fmt.Errorf("create usages: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", result.LanguageCode, err)
	}

	log.Info().
		Int("keys", len(keys)).
		Int("usages", len(usages)).
		Msg("Published key graph")
	return nil
}

// publishParams turns a result into the UNWIND rows of Publish.
func publishParams(result *extractor.Result) (keys, usages []map[string]any) {
	keys = make([]map[string]any, 0, len(result.Translations))
	for _, t := range result.Translations {
		keys = append(keys, map[string]any{
			"name":      t.Key,
			"namespace": catalog.Namespace(t.Key),
		})
	}

	usages = make([]map[string]any, 0, len(result.Occurrences))
	for _, o := range result.Occurrences {
		usages = append(usages, map[string]any{
			"key":    o.Key,
			"file":   o.FilePath,
			"line":   int64(o.Line),
			"column": int64(o.Column),
		})
	}
	return keys, usages
}
