package suggest

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"
)

// LoadAssetFiles lists every file under workspace/assetPath. Paths are
// slash-separated and keep the assetPath prefix ("assets/images/a.png").
// A missing asset directory yields nil.
func LoadAssetFiles(workspace, assetPath string) []string {
	if assetPath == "" {
		return nil
	}
	root := filepath.Join(workspace, assetPath)
	if _, err := os.Stat(root); err != nil {
		return nil
	}

	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Skipping asset entry")
			return nil
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(workspace, path)
		if err != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("root", root).Msg("Asset listing incomplete")
	}

	sort.Strings(files)
	return files
}
