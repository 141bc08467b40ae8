package pipeline

import (
	"context"
	"path/filepath"

	"i18n-autocomplete/internal/catalog"
	"i18n-autocomplete/internal/config"
	"i18n-autocomplete/internal/extractor"

	"github.com/rs/zerolog/log"
)

// extractTarget scans and extracts one locale without writing anything.
func (p *Pipeline) extractTarget(t config.LanguageTarget) (*extractor.Result, error) {
	ex, err := extractor.New(t.Dialect, t.CustomRegex)
	if err != nil {
		return nil, err
	}
	files := p.scanner.Scan(t.SourceDirs)
	log.Info().Str("language", t.Code).Int("files", len(files)).Msg("Scanning source files")

	result := ex.Extract(t.Code, files)
	log.Info().
		Str("language", t.Code).
		Int("unique", len(result.Translations)).
		Int("files", result.TotalFiles).
		Int("matches", result.TotalMatches).
		Msg("Extracted translations")
	return result, nil
}

// Scan extracts one locale without writing catalogs.
func (p *Pipeline) Scan(code string) (*extractor.Result, error) {
	t, err := p.target(code)
	if err != nil {
		return nil, err
	}
	return p.extractTarget(t)
}

// generate writes the namespace partial files and the main catalog of one
// locale from an extraction result.
func (p *Pipeline) generate(t config.LanguageTarget, result *extractor.Result) ([]string, error) {
	keys := result.Keys()
	var written []string

	existing := make(map[string]catalog.Catalog)
	for ns := range catalog.GroupByNamespace(keys) {
		existing[ns] = catalog.Load(filepath.Join(t.TargetDir, ns+".json"))
	}
	for ns, c := range catalog.MergeExtractedIntoPartials(existing, keys) {
		path := filepath.Join(t.TargetDir, ns+".json")
		changed, err := catalog.Write(path, c)
		if err != nil {
			return written, err
		}
		if changed {
			written = append(written, path)
		}
		log.Debug().Str("path", path).Int("keys", len(c)).Bool("changed", changed).Msg("Updated partial file")
	}

	merged := catalog.MergeExtractedIntoMain(catalog.Load(t.MainFilePath), keys)
	changed, err := catalog.Write(t.MainFilePath, merged)
	if err != nil {
		return written, err
	}
	if changed {
		written = append(written, t.MainFilePath)
	}
	log.Info().Str("path", t.MainFilePath).Int("keys", len(merged)).Bool("changed", changed).Msg("Updated main file")

	return written, nil
}

func (p *Pipeline) extractAndGenerate(_ context.Context, t config.LanguageTarget) LocaleResult {
	r := LocaleResult{Locale: t.Code}
	result, err := p.extractTarget(t)
	if err != nil {
		r.fail(err)
		return r
	}
	r.Result = result
	r.Files = result.TotalFiles
	r.Matches = result.TotalMatches
	r.Keys = len(result.Translations)

	written, err := p.generate(t, result)
	r.Written = written
	if err != nil {
		r.fail(err)
	}
	return r
}

// Extract runs extract-and-generate for one locale, then reloads the index.
func (p *Pipeline) Extract(ctx context.Context, code string) LocaleResult {
	t, err := p.target(code)
	if err != nil {
		r := LocaleResult{Locale: code}
		r.fail(err)
		return r
	}
	r := p.extractAndGenerate(ctx, t)
	p.Reload()
	return r
}

// ExtractAll runs extract-and-generate for every locale, then reloads the
// index once.
func (p *Pipeline) ExtractAll(ctx context.Context) ([]LocaleResult, error) {
	results, err := p.forEachLocale(ctx, p.extractAndGenerate)
	if err != nil {
		return nil, err
	}
	log.Info().Int("languages", len(results)).Int("failed", Failed(results)).Msg("Translation extraction completed for all languages")
	p.Reload()
	return results, nil
}
