package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Defaults returns the configuration init writes for a workspace.
func Defaults(workspace string) *Config {
	project := DetectProject(workspace)
	jsonPath, assetPath := DefaultPaths(project)
	if jsonPath == "" {
		jsonPath, assetPath = DefaultPaths(ProjectFlutter)
	}

	cfg := &Config{
		Workspace:       workspace,
		JSONPath:        jsonPath,
		AssetPath:       assetPath,
		Languages:       []string{"en", "vi"},
		SourceDirs:      []string{"src/"},
		ExcludePatterns: slices.Clone(DefaultExcludePatterns),
		Workers:         4,
		LogLevel:        "info",
		ProjectType:     project,
	}
	switch project {
	case ProjectFlutter:
		cfg.SourceDirs = []string{"lib/"}
		cfg.ProjectLanguage = "dart"
	case ProjectNodeJS:
		cfg.ProjectLanguage = "typescript"
	}
	return cfg
}

// WriteDefault writes cfg as YAML to path. An existing file is only
// replaced when force is set.
func WriteDefault(path string, cfg *Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("write config %s: %w", path, os.ErrExist)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// AddLanguage appends code to the languages list of the YAML file at path,
// keeping the rest of the document (comments included) intact. A missing
// file is created with the default language list plus code. It reports
// whether the file changed.
func AddLanguage(path, code string) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		data = nil
	} else if err != nil {
		return false, fmt.Errorf("read config: %w", err)
	}

	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return false, fmt.Errorf("parse config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return false, fmt.Errorf("parse config: top-level value is not a mapping")
	}

	languages := mappingValue(root, "languages")
	if languages == nil {
		languages = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, c := range []string{"en", "vi"} {
			languages.Content = append(languages.Content, scalar(c))
		}
		root.Content = append(root.Content, scalar("languages"), languages)
	}
	if languages.Kind != yaml.SequenceNode {
		return false, fmt.Errorf("languages is not a list")
	}
	for _, n := range languages.Content {
		if n.Value == code {
			return false, nil
		}
	}
	languages.Content = append(languages.Content, scalar(code))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return false, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return false, fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
