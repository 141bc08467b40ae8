package config

import (
	"os"
	"path/filepath"
	"testing"

	"i18n-autocomplete/internal/dialect"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"I18N_CONFIG", "I18N_JSON_PATH", "I18N_LANGUAGES", "I18N_PROJECT_LANGUAGE", "I18N_PRIMARY_LOCALE", "I18N_WORKERS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadFlutterDefaults(t *testing.T) {
	cleanEnv(t)
	ws := t.TempDir()
	writeFile(t, filepath.Join(ws, "pubspec.yaml"), "name: app\n")

	cfg, err := Load(ws)
	require.NoError(t, err)

	assert.Equal(t, ProjectFlutter, cfg.ProjectType)
	assert.Equal(t, "assets/i18n", cfg.JSONPath)
	assert.Equal(t, "assets", cfg.AssetPath)
	assert.Equal(t, []string{"en", "vi"}, cfg.Languages)
	assert.Equal(t, []string{"src/"}, cfg.SourceDirs)
	assert.Equal(t, DefaultExcludePatterns, cfg.ExcludePatterns)
	assert.Equal(t, 4, cfg.Workers)

	d, err := cfg.Dialect()
	require.NoError(t, err)
	assert.Equal(t, dialect.Dart, d)
}

func TestLoadYAMLOverrides(t *testing.T) {
	cleanEnv(t)
	ws := t.TempDir()
	writeFile(t, filepath.Join(ws, "package.json"), "{}")
	writeFile(t, filepath.Join(ws, DefaultFileName), `
json_path: i18n
languages: [en, fr, de]
source_dirs: [app/, lib/]
project_language: typescript
primary_locale: fr
regex:
  de: "\\$t\\('([^']+)'\\)"
`)

	cfg, err := Load(ws)
	require.NoError(t, err)

	assert.Equal(t, ProjectNodeJS, cfg.ProjectType)
	assert.Equal(t, "i18n", cfg.JSONPath)
	assert.Equal(t, "src/assets", cfg.AssetPath)
	assert.Equal(t, "fr", cfg.Primary())

	targets, err := cfg.LanguageTargets()
	require.NoError(t, err)
	require.Len(t, targets, 3)

	de := targets[2]
	assert.Equal(t, "de", de.Code)
	assert.Equal(t, filepath.Join(cfg.Workspace, "i18n", "de"), de.TargetDir)
	assert.Equal(t, filepath.Join(cfg.Workspace, "i18n", "de.json"), de.MainFilePath)
	assert.Equal(t, []string{filepath.Join(cfg.Workspace, "app"), filepath.Join(cfg.Workspace, "lib")}, de.SourceDirs)
	assert.Equal(t, dialect.TypeScript, de.Dialect)
	assert.Equal(t, `\$t\('([^']+)'\)`, de.CustomRegex)
	assert.Empty(t, targets[0].CustomRegex)

	fr, ok := cfg.Target("FR")
	assert.True(t, ok)
	assert.Equal(t, "fr", fr.Code)
	_, ok = cfg.Target("ja")
	assert.False(t, ok)
}

func TestLoadEnvWins(t *testing.T) {
	cleanEnv(t)
	ws := t.TempDir()
	writeFile(t, filepath.Join(ws, "pubspec.yaml"), "name: app\n")
	writeFile(t, filepath.Join(ws, DefaultFileName), "json_path: yaml/path\n")
	t.Setenv("I18N_JSON_PATH", "env/path")

	cfg, err := Load(ws)
	require.NoError(t, err)
	assert.Equal(t, "env/path", cfg.JSONPath)
}

func TestLoadErrors(t *testing.T) {
	cleanEnv(t)

	_, err := Load("")
	assert.ErrorIs(t, err, ErrNoWorkspace)

	_, err = Load(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrNoWorkspace)

	_, err = Load(t.TempDir())
	assert.ErrorIs(t, err, ErrUnknownProject)

	ws := t.TempDir()
	writeFile(t, filepath.Join(ws, "package.json"), "{}")
	writeFile(t, filepath.Join(ws, DefaultFileName), "project_language: cobol\n")
	_, err = Load(ws)
	assert.ErrorIs(t, err, dialect.ErrUnknownDialect)

	t.Setenv("I18N_CONFIG", filepath.Join(ws, "nope.yaml"))
	_, err = Load(ws)
	assert.Error(t, err)
}

func TestDetectProject(t *testing.T) {
	ws := t.TempDir()
	assert.Equal(t, ProjectUnknown, DetectProject(ws))

	writeFile(t, filepath.Join(ws, "package.json"), "{}")
	assert.Equal(t, ProjectNodeJS, DetectProject(ws))

	writeFile(t, filepath.Join(ws, "pubspec.yaml"), "name: app\n")
	assert.Equal(t, ProjectFlutter, DetectProject(ws))
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	cleanEnv(t)
	ws := t.TempDir()
	writeFile(t, filepath.Join(ws, "pubspec.yaml"), "name: app\n")
	path := filepath.Join(ws, DefaultFileName)

	require.NoError(t, WriteDefault(path, Defaults(ws), false))
	assert.ErrorIs(t, WriteDefault(path, Defaults(ws), false), os.ErrExist)
	require.NoError(t, WriteDefault(path, Defaults(ws), true))

	cfg, err := Load(ws)
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/"}, cfg.SourceDirs)
	assert.Equal(t, "dart", cfg.ProjectLanguage)
	assert.Equal(t, "assets/i18n", cfg.JSONPath)
}

func TestAddLanguage(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	writeFile(t, path, "# project locales\njson_path: i18n\nlanguages:\n  - en\n")

	changed, err := AddLanguage(path, "fr")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = AddLanguage(path, "fr")
	require.NoError(t, err)
	assert.False(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# project locales")
	assert.Contains(t, string(data), "- fr")
	assert.Contains(t, string(data), "json_path: i18n")
}

func TestAddLanguageCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)

	changed, err := AddLanguage(path, "ja")
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "languages:\n  - en\n  - vi\n  - ja\n", string(data))
}
