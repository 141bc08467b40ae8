// Package pipeline runs the catalog commands: extract, analyze, merge, sort
// and index reload. Every multi-locale command processes locales
// independently so that one failing locale never stops the others.
package pipeline

import (
	"context"
	"fmt"

	"i18n-autocomplete/internal/config"
	"i18n-autocomplete/internal/extractor"
	"i18n-autocomplete/internal/index"
	"i18n-autocomplete/internal/scanner"
	"i18n-autocomplete/internal/worker"

	"github.com/rs/zerolog/log"
)

// Pipeline binds the commands to one workspace configuration and the
// process-wide index store.
type Pipeline struct {
	cfg     *config.Config
	store   *index.Store
	scanner *scanner.Scanner
}

// New creates a Pipeline. store may be shared with a suggestion server.
func New(cfg *config.Config, store *index.Store) *Pipeline {
	var opts []scanner.Option
	if !cfg.NoGitignore {
		opts = append(opts, scanner.WithGitignore())
	}
	if store == nil {
		store = index.NewStore()
	}
	return &Pipeline{
		cfg:     cfg,
		store:   store,
		scanner: scanner.New(cfg.Workspace, cfg.ExcludePatterns, opts...),
	}
}

// Config returns the workspace configuration.
func (p *Pipeline) Config() *config.Config { return p.cfg }

// Store returns the index store the pipeline publishes to.
func (p *Pipeline) Store() *index.Store { return p.store }

// LocaleResult is the outcome of one locale step.
type LocaleResult struct {
	Locale  string            `json:"locale"`
	Files   int               `json:"files"`
	Matches int               `json:"matches"`
	Keys    int               `json:"keys"`
	Written []string          `json:"written,omitempty"`
	Err     error             `json:"-"`
	Error   string            `json:"error,omitempty"`
	Result  *extractor.Result `json:"-"`
}

func (r *LocaleResult) fail(err error) {
	r.Err = err
	r.Error = err.Error()
}

// Reload rebuilds the translation index from the catalog directory and
// publishes it. Failures are logged; the previous index stays in place.
func (p *Pipeline) Reload() (*index.TranslationIndex, error) {
	idx, err := p.store.Reload(p.cfg.CatalogDir(), p.cfg.Primary())
	if err != nil {
		log.Warn().Err(err).Msg("Translation index not reloaded")
		return nil, err
	}
	return idx, nil
}

// forEachLocale runs fn for every configured locale on the worker pool.
// Results keep the configured locale order.
func (p *Pipeline) forEachLocale(ctx context.Context, fn func(context.Context, config.LanguageTarget) LocaleResult) ([]LocaleResult, error) {
	targets, err := p.cfg.LanguageTargets()
	if err != nil {
		return nil, err
	}

	pool := worker.NewPool(p.cfg.Workers, func(ctx context.Context, t config.LanguageTarget) (LocaleResult, error) {
		r := fn(ctx, t)
		return r, r.Err
	}, func(t config.LanguageTarget) string { return t.Code })

	tasks := pool.Execute(ctx, targets)
	results := make([]LocaleResult, len(tasks))
	for i, task := range tasks {
		results[i] = task.Result
		results[i].Locale = task.Input.Code
		if task.Err != nil && results[i].Err == nil {
			results[i].fail(task.Err)
		}
	}
	return results, nil
}

// target resolves one locale code against the configuration.
func (p *Pipeline) target(code string) (config.LanguageTarget, error) {
	if _, err := p.cfg.Dialect(); err != nil {
		return config.LanguageTarget{}, err
	}
	t, ok := p.cfg.Target(code)
	if !ok {
		return config.LanguageTarget{}, fmt.Errorf("language %q is not configured", code)
	}
	return t, nil
}

// Failed counts results carrying an error.
func Failed(results []LocaleResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
