package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/nexus-db/transpiler/pkg/core/container"
	"github.com/nexus-db/transpiler/pkg/core/metadata"
)

// Models holds the models and value types a binary was built with.
type Models struct {
	Container *container.Container
	Types     *metadata.TypeRegistry
}

// NewModels registers each model with both the container and the type
// registry.
func NewModels(models ...any) *Models {
	m := &Models{
		Container: container.New(),
		Types:     metadata.NewTypeRegistry(),
	}
	m.Register(models...)
	return m
}

// Register adds models that can be transpiled and appear in relationships.
func (m *Models) Register(models ...any) {
	m.Container.Register(models...)
	for _, model := range models {
		m.Types.RegisterValue(model)
	}
}

// RegisterTypes adds types that may appear in relationships but are not
// transpiled themselves.
func (m *Models) RegisterTypes(values ...any) {
	for _, v := range values {
		m.Types.RegisterValue(v)
	}
}

// App is what every command runs against.
type App struct {
	Config *Config
	Models *Models
	Logger *slog.Logger
	Out    io.Writer
}

// NewApp loads the config at configPath and builds an App writing progress
// to stdout and diagnostics to stderr.
func NewApp(configPath string, models *Models, verbose bool) (*App, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return &App{
		Config: config,
		Models: models,
		Logger: NewLogger(os.Stderr, verbose),
		Out:    os.Stdout,
	}, nil
}

// NewLogger creates the diagnostics logger. Verbose output includes the
// strategy chosen for every resolved method.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
