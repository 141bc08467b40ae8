package config

import (
	"errors"
	"path/filepath"
	"strings"

	"i18n-autocomplete/internal/dialect"
)

var (
	ErrNoWorkspace    = errors.New("no workspace")
	ErrUnknownProject = errors.New("unknown project type")
)

// DefaultFileName is the config file looked up in the workspace root.
const DefaultFileName = ".i18n-autocomplete.yaml"

// DefaultExcludePatterns are applied when exclude_patterns is not set.
var DefaultExcludePatterns = []string{
	"**/*.test.ts",
	"**/*.test.js",
	"**/*.test.dart",
	"**/node_modules/**",
	"**/dist/**",
	"**/build/**",
}

// Config is the root configuration.
type Config struct {
	// Workspace is the project root; every relative path below resolves
	// against it.
	Workspace string `yaml:"-"`

	JSONPath        string            `yaml:"json_path,omitempty"        env:"I18N_JSON_PATH"`
	AssetPath       string            `yaml:"asset_path,omitempty"       env:"I18N_ASSET_PATH"`
	Languages       []string          `yaml:"languages"                  env:"I18N_LANGUAGES"        env-default:"en,vi"`
	SourceDirs      []string          `yaml:"source_dirs"                env:"I18N_SOURCE_DIRS"      env-default:"src/"`
	ExcludePatterns []string          `yaml:"exclude_patterns"           env:"I18N_EXCLUDE_PATTERNS" env-default:"**/*.test.ts,**/*.test.js,**/*.test.dart,**/node_modules/**,**/dist/**,**/build/**"`
	ProjectLanguage string            `yaml:"project_language,omitempty" env:"I18N_PROJECT_LANGUAGE"`
	Regex           map[string]string `yaml:"regex,omitempty"            env:"I18N_REGEX"`
	PrimaryLocale   string            `yaml:"primary_locale,omitempty"   env:"I18N_PRIMARY_LOCALE"`
	NoGitignore     bool              `yaml:"no_gitignore,omitempty"     env:"I18N_NO_GITIGNORE"`
	Workers         int               `yaml:"workers"                    env:"I18N_WORKERS"          env-default:"4"`
	LogLevel        string            `yaml:"log_level"                  env:"I18N_LOG_LEVEL"        env-default:"info"`
	Database        DatabaseConfig    `yaml:"database,omitempty"`
	Neo4j           Neo4jConfig       `yaml:"neo4j,omitempty"`
	Embedding       EmbeddingConfig   `yaml:"embedding,omitempty"`
	ProjectType     ProjectType       `yaml:"-"`
}

// DatabaseConfig holds the PostgreSQL connection used by the usage and
// semantic stores. An empty URL disables both.
type DatabaseConfig struct {
	URL string `yaml:"url,omitempty" env:"DATABASE_URL"`
}

// Neo4jConfig holds the key graph connection. An empty URI disables it.
type Neo4jConfig struct {
	URI      string `yaml:"uri,omitempty"      env:"NEO4J_URI"`
	User     string `yaml:"user,omitempty"     env:"NEO4J_USER"     env-default:"neo4j"`
	Password string `yaml:"password,omitempty" env:"NEO4J_PASSWORD"`
}

// EmbeddingConfig configures the OpenAI-compatible embedding endpoint.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key,omitempty"  env:"EMBEDDING_API_KEY"`
	BaseURL    string `yaml:"base_url,omitempty" env:"EMBEDDING_BASE_URL"   env-default:"https://api.openai.com/v1"`
	Model      string `yaml:"model,omitempty"    env:"EMBEDDING_MODEL"      env-default:"text-embedding-3-small"`
	Dimensions int    `yaml:"dimensions,omitempty" env:"EMBEDDING_DIMENSIONS" env-default:"1024"`
}

// LanguageTarget is the per-locale view of the configuration.
type LanguageTarget struct {
	Code string
	// SourceDirs are absolute scan roots.
	SourceDirs []string
	// TargetDir holds the locale's namespace partial files.
	TargetDir string
	// MainFilePath is the locale's merged catalog.
	MainFilePath string
	Dialect      dialect.Dialect
	// CustomRegex overrides the dialect call pattern when set.
	CustomRegex string
}

// Dialect returns the source dialect from project_language, or from the
// detected project type.
func (c *Config) Dialect() (dialect.Dialect, error) {
	if c.ProjectLanguage != "" {
		return dialect.Parse(c.ProjectLanguage)
	}
	if c.ProjectType == ProjectFlutter {
		return dialect.Dart, nil
	}
	return dialect.TypeScript, nil
}

// Resolve returns p joined to the workspace unless it is absolute.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Workspace, p)
}

// CatalogDir is the absolute catalog directory.
func (c *Config) CatalogDir() string {
	return c.Resolve(c.JSONPath)
}

// LanguageTargets derives one target per configured locale.
func (c *Config) LanguageTargets() ([]LanguageTarget, error) {
	d, err := c.Dialect()
	if err != nil {
		return nil, err
	}

	dirs := make([]string, len(c.SourceDirs))
	for i, s := range c.SourceDirs {
		dirs[i] = c.Resolve(s)
	}

	targets := make([]LanguageTarget, 0, len(c.Languages))
	for _, code := range c.Languages {
		targets = append(targets, LanguageTarget{
			Code:         code,
			SourceDirs:   dirs,
			TargetDir:    filepath.Join(c.CatalogDir(), code),
			MainFilePath: filepath.Join(c.CatalogDir(), code+".json"),
			Dialect:      d,
			CustomRegex:  c.Regex[code],
		})
	}
	return targets, nil
}

// Target returns the language target for one locale code.
func (c *Config) Target(code string) (LanguageTarget, bool) {
	targets, err := c.LanguageTargets()
	if err != nil {
		return LanguageTarget{}, false
	}
	for _, t := range targets {
		if strings.EqualFold(t.Code, code) {
			return t, true
		}
	}
	return LanguageTarget{}, false
}

// Primary returns the primary locale, defaulting to the first language.
func (c *Config) Primary() string {
	if c.PrimaryLocale != "" {
		return c.PrimaryLocale
	}
	if len(c.Languages) > 0 {
		return c.Languages[0]
	}
	return ""
}
