package cli

import (
	"context"
	"errors"

	"i18n-autocomplete/internal/mcpserver"
	"i18n-autocomplete/internal/watch"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve completion and catalog commands as MCP tools over stdio",
		Long: `Starts an MCP server on stdin/stdout. The translation index is built once at
startup and rebuilt whenever a catalog file changes (unless --no-watch) or
the reload tool is called. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			noWatch, _ := cmd.Flags().GetBool("no-watch")

			p, err := a.pipeline()
			if err != nil {
				return err
			}
			ctx, cancel := setupContext()
			defer cancel()

			p.Reload()

			srv, err := mcpserver.New(p, Version)
			if err != nil {
				return err
			}

			if !noWatch {
				w := watch.New(p.Config().CatalogDir(), watch.DefaultDelay, func() {
					p.Reload()
				})
				go func() {
					if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
						log.Warn().Err(err).Msg("Catalog watcher stopped")
					}
				}()
			}

			log.Info().Str("workspace", p.Config().Workspace).Msg("MCP server listening on stdio")
			return srv.Run(ctx)
		},
	}
	cmd.Flags().Bool("no-watch", false, "Do not watch the catalog directory")
	return cmd
}
