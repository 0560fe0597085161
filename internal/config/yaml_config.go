package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the config.yaml file. It carries
// the auto-approval templates seeded for users on first login, which are
// easier to manage in YAML than env vars.
type YAMLConfig struct {
	DefaultTemplates []TemplateConfig `yaml:"default_templates"`
}

// TemplateConfig defines one seeded auto-approval template.
type TemplateConfig struct {
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description,omitempty"`
	ChangeKinds   []string `yaml:"change_kinds"`
	FileType      string   `yaml:"file_type,omitempty"` // empty matches any document type
	MinConfidence float64  `yaml:"min_confidence"`
	MaxChangeSize int      `yaml:"max_change_size,omitempty"`
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
