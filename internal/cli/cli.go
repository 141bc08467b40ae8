package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"i18n-autocomplete/internal/config"
	"i18n-autocomplete/internal/pipeline"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Version is stamped at build time.
var Version = "dev"

// app carries the global flags shared by every command.
type app struct {
	workspace string
	logLevel  string
}

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "i18n-autocomplete",
		Short:         "Translation key extraction, catalog maintenance and completion for Flutter and TypeScript projects",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVarP(&a.workspace, "workspace", "w", ".", "Project root")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override log_level (debug, info, warn, error)")

	rootCmd.AddCommand(a.initCmd())
	rootCmd.AddCommand(a.extractCmd())
	rootCmd.AddCommand(a.analyzeCmd())
	rootCmd.AddCommand(a.mergeCmd())
	rootCmd.AddCommand(a.sortCmd())
	rootCmd.AddCommand(a.suggestCmd())
	rootCmd.AddCommand(a.languagesCmd())
	rootCmd.AddCommand(a.l10nCmd())
	rootCmd.AddCommand(a.yarnCmd())
	rootCmd.AddCommand(a.serveCmd())
	rootCmd.AddCommand(a.usageCmd())
	rootCmd.AddCommand(a.graphCmd())
	rootCmd.AddCommand(a.similarCmd())

	return rootCmd
}

// loadConfig reads the workspace configuration and applies its log level.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.workspace)
	if err != nil {
		return nil, err
	}

	level := cfg.Level()
	if a.logLevel != "" {
		if level, err = zerolog.ParseLevel(a.logLevel); err != nil {
			return nil, fmt.Errorf("log-level: %w", err)
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Debug().
		Str("workspace", cfg.Workspace).
		Str("catalog_dir", cfg.CatalogDir()).
		Strs("languages", cfg.Languages).
		Msg("Loaded configuration")
	return cfg, nil
}

func (a *app) pipeline() (*pipeline.Pipeline, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	return pipeline.New(cfg, nil), nil
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// summarize prints one line per locale and fails when any locale failed.
func summarize(w io.Writer, action string, results []pipeline.LocaleResult) error {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s: failed: %s\n", r.Locale, r.Error)
			continue
		}
		fmt.Fprintf(w, "%s: %d keys, %d files written\n", r.Locale, r.Keys, len(r.Written))
	}
	if n := pipeline.Failed(results); n > 0 {
		return fmt.Errorf("%s failed for %d of %d languages", action, n, len(results))
	}
	return nil
}
