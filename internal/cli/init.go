// Package cli implements the CLI command handlers.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nexus-db/transpiler/pkg/core/emitter"
	"github.com/nexus-db/transpiler/pkg/errors"
)

// Config represents the transpiler configuration file.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Models   ModelsConfig   `yaml:"models"`
	Output   OutputConfig   `yaml:"output"`
	GQLGen   GQLGenConfig   `yaml:"gqlgen"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Dialect      string `yaml:"dialect"`                  // sqlite, postgres, mysql
	URL          string `yaml:"url"`                      // Connection string, overridden by DATABASE_URL
	Schema       string `yaml:"schema,omitempty"`         // PostgreSQL schema; empty means public
	MaxOpenConns int    `yaml:"max_open_conns,omitempty"` // Pool limit; 0 keeps the default
}

// ModelsConfig tells the transpiler where models live.
type ModelsConfig struct {
	// Namespaces are import paths tried in order when a model is given by
	// its bare type name.
	Namespaces []string `yaml:"namespaces,omitempty"`

	// Sources are directories whose Go files are parsed for @return
	// annotations on model methods.
	Sources []string `yaml:"sources"`
}

// OutputConfig holds schema output settings.
type OutputConfig struct {
	Dir       string `yaml:"dir"`            // Directory schema files are written to
	Extension string `yaml:"extension"`      // File extension, including the dot
	Stub      string `yaml:"stub,omitempty"` // Custom stub; empty uses the built-in one
}

// GQLGenConfig controls gqlgen.yml updates.
type GQLGenConfig struct {
	Config string `yaml:"config,omitempty"` // Path to gqlgen.yml; empty disables updates
}

// DefaultConfigFile is read unless --config says otherwise.
const DefaultConfigFile = "transpiler.yml"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Dialect: "sqlite",
			URL:     "file:./app.db",
		},
		Models: ModelsConfig{
			Sources: []string{"./models"},
		},
		Output: OutputConfig{
			Dir:       emitter.DefaultDir,
			Extension: emitter.DefaultExtension,
		},
	}
}

// LoadConfig reads path on top of the defaults. DATABASE_URL, when set,
// replaces database.url.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrConfigInvalid, "config file %s not found", path).
				WithSuggestion(errors.Suggestions[errors.ErrConfigInvalid])
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Newf(errors.ErrConfigInvalid, "parsing %s: %v", path, err)
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		config.Database.URL = url
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that the settings needed by every command are present.
func (c *Config) Validate() error {
	if c.Database.Dialect == "" {
		return errors.New(errors.ErrConfigInvalid, "database.dialect is required")
	}
	if c.Database.URL == "" {
		return errors.New(errors.ErrConfigInvalid, "database.url is required").
			WithSuggestion("Set database.url or the DATABASE_URL environment variable")
	}
	if c.Output.Dir == "" {
		return errors.New(errors.ErrConfigInvalid, "output.dir is required")
	}
	return nil
}

const configHeader = `# transpiler configuration
#
# database.url may be left empty and provided through DATABASE_URL
# (a .env file in the working directory is loaded automatically).
`

// Init writes a default configuration file into dir.
func Init(dir string) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}

	configPath := filepath.Join(dir, DefaultConfigFile)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", DefaultConfigFile)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, append([]byte(configHeader), data...), 0644); err != nil {
		return err
	}
	fmt.Printf("✓ Created %s\n", configPath)

	fmt.Println("\nNext steps:")
	fmt.Println("  1. Point database.url at your database")
	fmt.Println("  2. Register your models in cmd/transpiler/main.go")
	fmt.Println("  3. Run 'transpiler transpile <Model>'")

	return nil
}
