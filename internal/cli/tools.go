package cli

import (
	"i18n-autocomplete/internal/tooling"

	"github.com/spf13/cobra"
)

// toolCmd runs one external command in the workspace and reloads the index.
func (a *app) toolCmd(use, short string, build func() tooling.Command) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline()
			if err != nil {
				return err
			}
			ctx, cancel := setupContext()
			defer cancel()
			return p.RunTool(ctx, build())
		},
	}
}

func (a *app) l10nCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "l10n",
		Short: "Run supa_l10n_manager in a Flutter workspace",
	}
	cmd.AddCommand(a.toolCmd("merge", "dart run supa_l10n_manager merge", tooling.L10nMerge))

	extract := &cobra.Command{
		Use:   "extract",
		Short: "dart run supa_l10n_manager extract --locale <code> (every configured locale by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			locale, _ := cmd.Flags().GetString("locale")

			p, err := a.pipeline()
			if err != nil {
				return err
			}
			ctx, cancel := setupContext()
			defer cancel()

			if locale != "" {
				return p.RunTool(ctx, tooling.L10nExtract(locale))
			}
			return summarize(cmd.OutOrStdout(), "l10n extract", p.RunToolPerLocale(ctx, tooling.L10nExtract))
		},
	}
	extract.Flags().StringP("locale", "l", "", "Only this locale")
	cmd.AddCommand(extract)

	return cmd
}

func (a *app) yarnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yarn",
		Short: "Run react3l translate in a Node.js workspace",
	}
	cmd.AddCommand(a.toolCmd("extract", "react3l translate extract -i src/ -o src/locales/ -p src/locales/", tooling.YarnExtract))
	cmd.AddCommand(a.toolCmd("merge", "yarn react3l translate merge -i src/ -o src/locales/ -p src/locales/", tooling.YarnMerge))
	return cmd
}
