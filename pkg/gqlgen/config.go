// Package gqlgen keeps a gqlgen.yml in step with the emitted schema files so
// gqlgen picks up each transpiled model and binds it to its Go type.
package gqlgen

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is a read-only view of the gqlgen.yml keys the transpiler cares
// about. Edits go through Document so the rest of the file survives.
type Config struct {
	Schema   StringList          `yaml:"schema,omitempty"`
	Exec     PackageConfig       `yaml:"exec,omitempty"`
	Model    PackageConfig       `yaml:"model,omitempty"`
	Resolver ResolverConfig      `yaml:"resolver,omitempty"`
	Autobind []string            `yaml:"autobind,omitempty"`
	Models   map[string]TypeBind `yaml:"models,omitempty"`
}

// PackageConfig names a generated file and its package.
type PackageConfig struct {
	Filename string `yaml:"filename,omitempty"`
	Package  string `yaml:"package,omitempty"`
}

// ResolverConfig configures resolver generation.
type ResolverConfig struct {
	Filename         string `yaml:"filename,omitempty"`
	Package          string `yaml:"package,omitempty"`
	Layout           string `yaml:"layout,omitempty"`
	Dir              string `yaml:"dir,omitempty"`
	FilenameTemplate string `yaml:"filename_template,omitempty"`
}

// TypeBind binds a GraphQL type to one or more Go types.
type TypeBind struct {
	Model StringList `yaml:"model,omitempty"`
}

// StringList accepts either a single string or a list in YAML and writes a
// single element back as a plain string.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = StringList{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	}
	return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
}

// MarshalYAML implements yaml.Marshaler.
func (s StringList) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	return []string(s), nil
}

// Load reads a gqlgen.yml. A missing file yields an empty config.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading gqlgen config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing gqlgen config: %w", err)
		}
	}
	if cfg.Models == nil {
		cfg.Models = make(map[string]TypeBind)
	}
	return cfg, nil
}
