package scanner

import (
	"os"
	"path/filepath"

	"i18n-autocomplete/internal/dialect"

	"github.com/rs/zerolog/log"
	ignore "github.com/sabhiram/go-gitignore"
)

// SourceFile is one source file discovered by a scan pass.
type SourceFile struct {
	// Path is the absolute file path.
	Path string
	// RelativePath is slash-separated and relative to the workspace root,
	// starting with the source directory it was found under.
	RelativePath string
	Content      string
	Dialect      dialect.Dialect
}

// Scanner walks source directories of one workspace.
type Scanner struct {
	root      string
	excludes  []Glob
	gitignore *ignore.GitIgnore
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithGitignore prunes entries matched by the workspace .gitignore, if any.
func WithGitignore() Option {
	return func(s *Scanner) {
		s.gitignore = LoadGitignore(s.root)
	}
}

// New creates a Scanner rooted at the workspace directory. Exclude patterns
// that fail to compile are logged and ignored.
func New(root string, excludePatterns []string, opts ...Option) *Scanner {
	s := &Scanner{root: root}
	for _, p := range excludePatterns {
		g, err := CompileGlob(p)
		if err != nil {
			log.Warn().Err(err).Str("pattern", p).Msg("Ignoring invalid exclude pattern")
			continue
		}
		s.excludes = append(s.excludes, g)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadGitignore loads .gitignore from root if it exists.
func LoadGitignore(root string) *ignore.GitIgnore {
	gitignorePath := filepath.Join(root, ".gitignore")

	if _, err := os.Stat(gitignorePath); err == nil {
		if gitignore, err := ignore.CompileIgnoreFile(gitignorePath); err == nil {
			return gitignore
		}
		log.Warn().Str("path", gitignorePath).Msg("Could not compile .gitignore")
	}

	return nil
}

// Scan walks every source directory (absolute, or relative to the root)
// and returns the files whose extension maps to a known dialect. Missing
// directories are skipped; unreadable entries are logged and skipped. Scan
// never fails as a whole.
func (s *Scanner) Scan(sourceDirs []string) []SourceFile {
	var files []SourceFile

	for _, dir := range sourceDirs {
		abs := dir
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(s.root, dir)
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			log.Debug().Str("dir", dir).Msg("Source directory not found, skipping")
			continue
		}
		files = append(files, s.scanDir(abs)...)
	}

	log.Debug().Int("count", len(files)).Strs("dirs", sourceDirs).Msg("Discovered source files")
	return files
}

func (s *Scanner) scanDir(dir string) []SourceFile {
	var files []SourceFile

	_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if path != dir && s.excluded(rel, info.IsDir()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			return nil
		}

		d := dialect.FromPath(path)
		if d == dialect.Unknown {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error reading source file")
			return nil
		}

		files = append(files, SourceFile{
			Path:         path,
			RelativePath: rel,
			Content:      string(content),
			Dialect:      d,
		})
		return nil
	})

	return files
}

// excluded reports whether a workspace-relative path is pruned by an
// exclude glob or the .gitignore. Directories are also tested with a
// trailing slash so that `**/dist/**` prunes the dist directory itself.
func (s *Scanner) excluded(rel string, isDir bool) bool {
	for _, g := range s.excludes {
		if g.Match(rel) || (isDir && g.Match(rel+"/")) {
			return true
		}
	}
	if s.gitignore == nil {
		return false
	}
	return s.gitignore.MatchesPath(rel) || (isDir && s.gitignore.MatchesPath(rel+"/"))
}
