package pipeline

import (
	"os"
	"path/filepath"

	"i18n-autocomplete/internal/catalog"

	"github.com/rs/zerolog/log"
)

// commonCatalogDirs are sorted in addition to the configured catalog dir.
var commonCatalogDirs = []string{
	"locales",
	"i18n",
	"translations",
	"lang",
	"languages",
	"src/locales",
	"src/i18n",
	"src/translations",
	"src/lang",
	"src/languages",
	"assets/locales",
	"assets/i18n",
	"assets/translations",
	"public/locales",
	"public/i18n",
	"public/translations",
}

// SortResult reports a sort run.
type SortResult struct {
	TotalFiles  int      `json:"totalFiles"`
	SortedFiles int      `json:"sortedFiles"`
	Failed      []string `json:"failed,omitempty"`
}

// sortDirs returns the existing directories to sort: the catalog dir, each
// locale's partial dir, and the common translation dirs, without duplicates.
func (p *Pipeline) sortDirs() []string {
	candidates := []string{p.cfg.CatalogDir()}
	if targets, err := p.cfg.LanguageTargets(); err == nil {
		for _, t := range targets {
			candidates = append(candidates, t.TargetDir)
		}
	}
	for _, d := range commonCatalogDirs {
		candidates = append(candidates, p.cfg.Resolve(d))
	}

	seen := make(map[string]bool)
	var dirs []string
	for _, d := range candidates {
		d = filepath.Clean(d)
		if seen[d] {
			continue
		}
		seen[d] = true
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// Sort rewrites every JSON file of the translation directories with keys
// sorted at every depth. Files already sorted are not touched. A file that
// fails to parse is reported and skipped.
func (p *Pipeline) Sort() SortResult {
	var res SortResult

	for _, dir := range p.sortDirs() {
		files, err := catalog.ListJSON(dir)
		if err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("Could not list translation directory")
			continue
		}
		res.TotalFiles += len(files)

		for _, f := range files {
			changed, err := catalog.SortFile(f)
			if err != nil {
				log.Warn().Err(err).Str("file", filepath.Base(f)).Msg("Failed to sort")
				res.Failed = append(res.Failed, f)
				continue
			}
			if changed {
				res.SortedFiles++
				log.Debug().Str("file", f).Msg("Sorted")
			}
		}
	}

	log.Info().Int("total", res.TotalFiles).Int("sorted", res.SortedFiles).Msg("Sorted JSON translation files")
	p.Reload()
	return res
}
