package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"i18n-autocomplete/internal/config"
	"i18n-autocomplete/internal/pipeline"
	"i18n-autocomplete/internal/suggest"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func (a *app) initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file for the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			ws, err := filepath.Abs(a.workspace)
			if err != nil {
				return err
			}
			path, _ := config.Path(ws)
			cfg := config.Defaults(ws)
			if err := config.WriteDefault(path, cfg, force); err != nil {
				if errors.Is(err, os.ErrExist) {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
				return err
			}

			log.Info().Str("path", path).Str("project", string(cfg.ProjectType)).Msg("Wrote configuration")
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
	return cmd
}

func (a *app) extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract keys from source files and regenerate the partial and main catalogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			locale, _ := cmd.Flags().GetString("locale")

			p, err := a.pipeline()
			if err != nil {
				return err
			}
			ctx, cancel := setupContext()
			defer cancel()

			var results []pipeline.LocaleResult
			if locale != "" {
				results = []pipeline.LocaleResult{p.Extract(ctx, locale)}
			} else if results, err = p.ExtractAll(ctx); err != nil {
				return err
			}
			return summarize(cmd.OutOrStdout(), "extraction", results)
		},
	}
	cmd.Flags().StringP("locale", "l", "", "Only this locale")
	return cmd
}

func (a *app) analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Report extracted keys per locale and placeholder mismatches without writing files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			p, err := a.pipeline()
			if err != nil {
				return err
			}
			ctx, cancel := setupContext()
			defer cancel()

			report, err := p.Analyze(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), report)
			}
			report.WriteText(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the report as JSON")
	return cmd
}

func (a *app) mergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge namespace partial files into each main catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			locale, _ := cmd.Flags().GetString("locale")

			p, err := a.pipeline()
			if err != nil {
				return err
			}
			ctx, cancel := setupContext()
			defer cancel()

			var results []pipeline.LocaleResult
			if locale != "" {
				results = []pipeline.LocaleResult{p.Merge(ctx, locale)}
			} else if results, err = p.MergeAll(ctx); err != nil {
				return err
			}
			return summarize(cmd.OutOrStdout(), "merge", results)
		},
	}
	cmd.Flags().StringP("locale", "l", "", "Only this locale")
	return cmd
}

func (a *app) sortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sort",
		Short: "Sort the keys of every JSON translation file recursively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline()
			if err != nil {
				return err
			}

			res := p.Sort()
			if res.SortedFiles == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "All %d files already sorted (0 changed)\n", res.TotalFiles)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Sorted %d of %d files\n", res.SortedFiles, res.TotalFiles)
			}
			for _, f := range res.Failed {
				fmt.Fprintf(cmd.OutOrStdout(), "failed: %s\n", f)
			}
			return nil
		},
	}
}

func (a *app) suggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Print completions for one editor line as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			line, _ := cmd.Flags().GetString("line")
			prev, _ := cmd.Flags().GetString("previous-line")
			column, _ := cmd.Flags().GetInt("column")
			if column < 0 {
				column = utf8.RuneCountInString(line)
			}

			p, err := a.pipeline()
			if err != nil {
				return err
			}
			cfg := p.Config()
			d, err := cfg.Dialect()
			if err != nil {
				return err
			}
			engine, err := suggest.New(d, suggest.WithAssetPrefix(cfg.AssetPath))
			if err != nil {
				return err
			}

			idx, err := p.Reload()
			if err != nil {
				log.Warn().Err(err).Msg("Suggesting without catalogs")
			}
			out := engine.Suggest(suggest.Request{Line: line, PreviousLine: prev, Column: column}, idx,
				suggest.LoadAssetFiles(cfg.Workspace, cfg.AssetPath))
			if out == nil {
				out = []suggest.Suggestion{}
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().String("line", "", "Text of the cursor line")
	cmd.Flags().String("previous-line", "", "Text of the line above the cursor")
	cmd.Flags().Int("column", -1, "Cursor character offset (default end of line)")
	return cmd
}

func (a *app) languagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "Manage configured languages",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <code>",
		Short: "Append a language to the configuration file if absent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := filepath.Abs(a.workspace)
			if err != nil {
				return err
			}
			path, _ := config.Path(ws)
			changed, err := config.AddLanguage(path, args[0])
			if err != nil {
				return err
			}
			if !changed {
				log.Info().Str("language", args[0]).Msg("Language already configured")
				return nil
			}
			log.Info().Str("language", args[0]).Str("path", path).Msg("Language added")
			return nil
		},
	})
	return cmd
}
