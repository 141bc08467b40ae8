package pipeline

import (
	"context"
	"fmt"
	"io"

	"i18n-autocomplete/internal/catalog"
	"i18n-autocomplete/internal/config"
	"i18n-autocomplete/internal/extractor"
	"i18n-autocomplete/internal/placeholder"
)

// SampleSize is the number of keys listed per locale in a report.
const SampleSize = 10

// Report is the result of a dry-run extraction over every locale.
type Report struct {
	Locales           []LocaleReport      `json:"locales"`
	TotalFiles        int                 `json:"totalFiles"`
	TotalTranslations int                 `json:"totalTranslations"`
	Placeholders      []placeholder.Issue `json:"placeholderIssues,omitempty"`
}

// LocaleReport summarizes one locale.
type LocaleReport struct {
	Locale  string                 `json:"locale"`
	Files   int                    `json:"files"`
	Unique  int                    `json:"unique"`
	Matches int                    `json:"matches"`
	Samples []extractor.Occurrence `json:"samples"`
	More    int                    `json:"more"`
	Error   string                 `json:"error,omitempty"`
}

func (p *Pipeline) analyzeTarget(_ context.Context, t config.LanguageTarget) LocaleResult {
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
	return r
}

// Analyze extracts every locale without writing files and checks the
// placeholders of each catalog against the primary locale.
func (p *Pipeline) Analyze(ctx context.Context) (*Report, error) {
	results, err := p.forEachLocale(ctx, p.analyzeTarget)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, r := range results {
		lr := LocaleReport{Locale: r.Locale, Error: r.Error}
		if r.Result != nil {
			lr.Files = r.Result.TotalFiles
			lr.Unique = len(r.Result.Translations)
			lr.Matches = r.Result.TotalMatches
			lr.Samples = r.Result.Translations[:min(SampleSize, lr.Unique)]
			lr.More = lr.Unique - len(lr.Samples)
		}
		report.TotalFiles += lr.Files
		report.TotalTranslations += lr.Unique
		report.Locales = append(report.Locales, lr)
	}

	report.Placeholders = p.checkPlaceholders()
	return report, nil
}

func (p *Pipeline) checkPlaceholders() []placeholder.Issue {
	targets, err := p.cfg.LanguageTargets()
	if err != nil {
		return nil
	}
	primaryCode := p.cfg.Primary()

	var primary catalog.Catalog
	others := make(map[string]catalog.Catalog)
	for _, t := range targets {
		c := catalog.Load(t.MainFilePath)
		if t.Code == primaryCode {
			primary = c
			continue
		}
		others[t.Code] = c
	}
	if primary == nil {
		return nil
	}
	return placeholder.Check(primary, others)
}

// WriteText renders the report the way the analyze command prints it.
func (r *Report) WriteText(w io.Writer) {
	fmt.Fprintln(w, "=== Translation Analysis Results ===")
	fmt.Fprintf(w, "Total files scanned: %d\n", r.TotalFiles)
	fmt.Fprintf(w, "Total unique translations found: %d\n", r.TotalTranslations)
	fmt.Fprintln(w)

	for _, l := range r.Locales {
		fmt.Fprintf(w, "Language: %s\n", l.Locale)
		if l.Error != "" {
			fmt.Fprintf(w, "  Error: %s\n\n", l.Error)
			continue
		}
		fmt.Fprintf(w, "  Files: %d\n", l.Files)
		fmt.Fprintf(w, "  Unique translations: %d\n", l.Unique)
		fmt.Fprintf(w, "  Total matches: %d\n", l.Matches)
		fmt.Fprintln(w, "  Sample translations:")
		for _, s := range l.Samples {
			fmt.Fprintf(w, "    %s (%s:%d)\n", s.Key, s.FilePath, s.Line)
		}
		if l.More > 0 {
			fmt.Fprintf(w, "    ... and %d more\n", l.More)
		}
		fmt.Fprintln(w)
	}

	if len(r.Placeholders) > 0 {
		fmt.Fprintln(w, "Placeholder mismatches:")
		for _, issue := range r.Placeholders {
			fmt.Fprintf(w, "  [%s] %s missing=%v extra=%v\n", issue.Locale, issue.Key, issue.Missing, issue.Extra)
		}
	}
}
