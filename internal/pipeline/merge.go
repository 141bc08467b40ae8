package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"i18n-autocomplete/internal/catalog"
	"i18n-autocomplete/internal/config"
	"i18n-autocomplete/internal/index"

	"github.com/rs/zerolog/log"
)

// ErrNoPartials is returned when a locale has no partial catalog to merge.
var ErrNoPartials = errors.New("no partial catalogs")

func (p *Pipeline) mergeTarget(_ context.Context, t config.LanguageTarget) LocaleResult {
	r := LocaleResult{Locale: t.Code}

	if info, err := os.Stat(t.TargetDir); err != nil || !info.IsDir() {
		r.fail(fmt.Errorf("%w: %s", index.ErrNoCatalogDir, t.TargetDir))
		log.Warn().Str("dir", t.TargetDir).Msg("Partial directory does not exist")
		return r
	}

	partials, err := catalog.LoadPartials(t.TargetDir)
	if err != nil {
		r.fail(err)
		return r
	}
	if len(partials) == 0 {
		r.fail(fmt.Errorf("%w: %s", ErrNoPartials, t.TargetDir))
		log.Warn().Str("dir", t.TargetDir).Msg("No partial JSON files found")
		return r
	}

	merged := catalog.MergeNamespacedPartialsIntoMain(partials, catalog.Load(t.MainFilePath))
	changed, err := catalog.Write(t.MainFilePath, merged)
	if err != nil {
		r.fail(err)
		return r
	}
	r.Keys = len(merged)
	if changed {
		r.Written = []string{t.MainFilePath}
	}

	log.Info().
		Str("language", t.Code).
		Int("partials", len(partials)).
		Int("keys", len(merged)).
		Bool("changed", changed).
		Msg("Merged partial files")
	return r
}

// Merge folds the partial files of one locale into its main catalog, then
// reloads the index.
func (p *Pipeline) Merge(ctx context.Context, code string) LocaleResult {
	t, err := p.target(code)
	if err != nil {
		r := LocaleResult{Locale: code}
		r.fail(err)
		return r
	}
	r := p.mergeTarget(ctx, t)
	p.Reload()
	return r
}

// MergeAll merges every locale, then reloads the index once.
func (p *Pipeline) MergeAll(ctx context.Context) ([]LocaleResult, error) {
	results, err := p.forEachLocale(ctx, p.mergeTarget)
	if err != nil {
		return nil, err
	}
	log.Info().Int("languages", len(results)).Int("failed", Failed(results)).Msg("Merged translation files")
	p.Reload()
	return results, nil
}
