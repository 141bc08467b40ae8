package pipeline

import (
	"context"

	"i18n-autocomplete/internal/tooling"

	"github.com/rs/zerolog/log"
)

// RunTool executes an external localization CLI in the workspace root and
// reloads the index afterwards, whether or not the tool succeeded.
func (p *Pipeline) RunTool(ctx context.Context, cmd tooling.Command) error {
	_, err := tooling.NewRunner(p.cfg.Workspace).Run(ctx, cmd)
	if err != nil {
		log.Error().Err(err).Str("command", cmd.String()).Msg("Error executing command")
	}
	p.Reload()
	return err
}

// RunToolPerLocale runs one command per configured locale. A failing locale
// is logged and does not stop the remaining ones.
func (p *Pipeline) RunToolPerLocale(ctx context.Context, build func(locale string) tooling.Command) []LocaleResult {
	runner := tooling.NewRunner(p.cfg.Workspace)
	results := make([]LocaleResult, 0, len(p.cfg.Languages))
	for _, code := range p.cfg.Languages {
		r := LocaleResult{Locale: code}
		if _, err := runner.Run(ctx, build(code)); err != nil {
			log.Error().Err(err).Str("language", code).Msg("Error executing command")
			r.fail(err)
		}
		results = append(results, r)
	}
	p.Reload()
	return results
}
