package config

import (
	"os"
	"path/filepath"
)

// ProjectType is detected from marker files in the workspace root.
type ProjectType string

const (
	ProjectUnknown ProjectType = "unknown"
	ProjectFlutter ProjectType = "flutter"
	ProjectNodeJS  ProjectType = "nodejs"
)

// DetectProject checks for pubspec.yaml, then package.json.
func DetectProject(workspace string) ProjectType {
	if exists(filepath.Join(workspace, "pubspec.yaml")) {
		return ProjectFlutter
	}
	if exists(filepath.Join(workspace, "package.json")) {
		return ProjectNodeJS
	}
	return ProjectUnknown
}

// DefaultPaths returns the catalog and asset paths for a project type.
func DefaultPaths(p ProjectType) (jsonPath, assetPath string) {
	switch p {
	case ProjectFlutter:
		return "assets/i18n", "assets"
	case ProjectNodeJS:
		return "src/locales", "src/assets"
	default:
		return "", ""
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
