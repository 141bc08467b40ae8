package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"i18n-autocomplete/internal/catalog"
	"i18n-autocomplete/internal/config"
	"i18n-autocomplete/internal/graph"
	"i18n-autocomplete/internal/pipeline"
	"i18n-autocomplete/internal/semantic"
	"i18n-autocomplete/internal/usage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	errNoDatabase = errors.New("database url is not configured (database.url or DATABASE_URL)")
	errNoNeo4j    = errors.New("neo4j uri is not configured (neo4j.uri or NEO4J_URI)")
)

// connectPostgres opens and pings the configured PostgreSQL pool.
func connectPostgres(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if cfg.Database.URL == "" {
		return nil, errNoDatabase
	}
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")
	return pool, nil
}

// connectNeo4j opens the configured Neo4j driver and verifies connectivity.
func connectNeo4j(ctx context.Context, cfg *config.Config) (neo4j.DriverWithContext, error) {
	if cfg.Neo4j.URI == "" {
		return nil, errNoNeo4j
	}
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4j.URI, neo4j.BasicAuth(cfg.Neo4j.User, cfg.Neo4j.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("connect Neo4j: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("verify Neo4j connectivity: %w", err)
	}
	log.Info().Msg("Connected to Neo4j")
	return driver, nil
}

// localeOf returns the --locale flag, defaulting to the primary locale.
func localeOf(cmd *cobra.Command, p *pipeline.Pipeline) string {
	if l, _ := cmd.Flags().GetString("locale"); l != "" {
		return l
	}
	return p.Config().Primary()
}

func (a *app) usageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Record and query key call sites in PostgreSQL",
	}

	record := &cobra.Command{
		Use:   "record",
		Short: "Extract every locale and store each call site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline()
			if err != nil {
				return err
			}
			ctx, cancel := setupContext()
			defer cancel()

			pool, err := connectPostgres(ctx, p.Config())
			if err != nil {
				return err
			}
			defer pool.Close()

			store := usage.NewStore(pool)
			if err := store.EnsureSchema(ctx); err != nil {
				return err
			}

			locales := p.Config().Languages
			if l, _ := cmd.Flags().GetString("locale"); l != "" {
				locales = []string{l}
			}
			for _, code := range locales {
				result, err := p.Scan(code)
				if err != nil {
					return err
				}
				n, err := store.Record(ctx, code, result.Occurrences)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d call sites\n", code, n)
			}
			return nil
		},
	}
	record.Flags().StringP("locale", "l", "", "Only this locale")

	where := &cobra.Command{
		Use:   "where <key>",
		Short: "List the recorded call sites of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := setupContext()
			defer cancel()

			pool, err := connectPostgres(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			locations, err := usage.NewStore(pool).Locations(ctx, args[0])
			if err != nil {
				return err
			}
			for _, l := range locations {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s:%d:%d\n", l.Locale, l.FilePath, l.Line, l.Column)
			}
			return nil
		},
	}

	cmd.AddCommand(record, where)
	return cmd
}

func (a *app) graphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Publish and query the key usage graph in Neo4j",
	}

	publish := &cobra.Command{
		Use:   "publish",
		Short: "Extract one locale and publish keys, namespaces and call sites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline()
			if err != nil {
				return err
			}
			ctx, cancel := setupContext()
			defer cancel()

			driver, err := connectNeo4j(ctx, p.Config())
			if err != nil {
				return err
			}
			defer driver.Close(ctx)

			result, err := p.Scan(localeOf(cmd, p))
			if err != nil {
				return err
			}
			builder := graph.NewGraphBuilder(driver)
			if err := builder.EnsureSchema(ctx); err != nil {
				return err
			}
			return builder.Publish(ctx, result)
		},
	}
	publish.Flags().StringP("locale", "l", "", "Locale to extract (default primary)")

	files := &cobra.Command{
		Use:   "files <key>",
		Short: "List the files that use a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := setupContext()
			defer cancel()

			driver, err := connectNeo4j(ctx, cfg)
			if err != nil {
				return err
			}
			defer driver.Close(ctx)

			usages, err := graph.NewGraphQuerier(driver).FilesForKey(ctx, args[0])
			if err != nil {
				return err
			}
			for _, u := range usages {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d\n", u.Path, u.Line, u.Column)
			}
			return nil
		},
	}

	orphans := &cobra.Command{
		Use:   "orphans",
		Short: "List keys of a main catalog that no source file uses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline()
			if err != nil {
				return err
			}
			ctx, cancel := setupContext()
			defer cancel()

			t, ok := p.Config().Target(localeOf(cmd, p))
			if !ok {
				return fmt.Errorf("language %q is not configured", localeOf(cmd, p))
			}

			driver, err := connectNeo4j(ctx, p.Config())
			if err != nil {
				return err
			}
			defer driver.Close(ctx)

			keys, err := graph.NewGraphQuerier(driver).OrphanKeys(ctx, catalog.Load(t.MainFilePath).Keys())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(keys, "\n"))
			return nil
		},
	}
	orphans.Flags().StringP("locale", "l", "", "Catalog locale (default primary)")

	cmd.AddCommand(publish, files, orphans)
	return cmd
}

// lookup wires the embedding client, cache and vector store.
func lookup(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (*semantic.Lookup, error) {
	if cfg.Embedding.APIKey == "" {
		return nil, errors.New("embedding api key is not configured (embedding.api_key or EMBEDDING_API_KEY)")
	}
	client := semantic.NewEmbeddingClient(cfg.Embedding.APIKey, cfg.Embedding.Model, cfg.Embedding.BaseURL, cfg.Embedding.Dimensions)

	cache := semantic.NewEmbeddingCache(pool, client.Model())
	if err := cache.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	if err := cache.Preload(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to preload embedding cache")
	}

	store := semantic.NewVectorStore(pool)
	if err := store.EnsureSchema(ctx, client.Dimensions()); err != nil {
		return nil, err
	}
	return semantic.NewLookup(client, cache, store), nil
}

func (a *app) similarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "similar",
		Short: "Find keys whose translation means roughly the same as a phrase",
	}

	index := &cobra.Command{
		Use:   "index",
		Short: "Embed the values of a main catalog into pgvector",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline()
			if err != nil {
				return err
			}
			ctx, cancel := setupContext()
			defer cancel()

			code := localeOf(cmd, p)
			t, ok := p.Config().Target(code)
			if !ok {
				return fmt.Errorf("language %q is not configured", code)
			}
			entries, err := catalog.Read(t.MainFilePath)
			if err != nil {
				return err
			}

			pool, err := connectPostgres(ctx, p.Config())
			if err != nil {
				return err
			}
			defer pool.Close()

			l, err := lookup(ctx, p.Config(), pool)
			if err != nil {
				return err
			}
			n, err := l.Index(ctx, t.Code, entries)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d values indexed\n", t.Code, n)
			return nil
		},
	}
	index.Flags().StringP("locale", "l", "", "Catalog locale (default primary)")

	query := &cobra.Command{
		Use:   "query <phrase>",
		Short: "Print the keys closest to a phrase",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, _ := cmd.Flags().GetInt("top")

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := setupContext()
			defer cancel()

			pool, err := connectPostgres(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			l, err := lookup(ctx, cfg, pool)
			if err != nil {
				return err
			}
			results, err := l.Similar(ctx, strings.Join(args, " "), k)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), results)
		},
	}
	query.Flags().IntP("top", "k", 5, "Number of results")

	cmd.AddCommand(index, query)
	return cmd
}
