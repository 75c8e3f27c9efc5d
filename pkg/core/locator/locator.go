// Package locator finds a model from user input, trying the name as given
// and then under each configured namespace.
package locator

import (
	"log/slog"

	"github.com/nexus-db/transpiler/pkg/core/container"
	"github.com/nexus-db/transpiler/pkg/errors"
)

// Locator resolves model names through a container.
type Locator struct {
	container  *container.Container
	namespaces []string
	logger     *slog.Logger
}

// New creates a locator searching the given namespaces in order.
func New(c *container.Container, namespaces []string, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{
		container:  c,
		namespaces: namespaces,
		logger:     logger,
	}
}

// FindModel returns a new instance of the model matching input. The input is
// first tried as a fully qualified name, then as "<namespace>.<input>" for
// every namespace. A MODEL_NOT_FOUND error means no candidate matched.
func (l *Locator) FindModel(input string) (any, error) {
	m, err := l.container.Make(input)
	if err == nil {
		return m, nil
	}
	l.logger.Warn("did not find model at path", slog.String("path", input))

	for _, ns := range l.namespaces {
		candidate := ns + "." + input
		m, err := l.container.Make(candidate)
		if err != nil {
			l.logger.Warn("did not find model at path", slog.String("path", candidate))
			continue
		}
		l.logger.Info("found a matching model", slog.String("path", candidate))
		return m, nil
	}

	suggestion := errors.SuggestSimilar(container.ShortName(input), l.container.ShortNames())
	if suggestion == "" {
		suggestion = errors.Suggestions[errors.ErrModelNotFound]
	}
	return nil, errors.Newf(errors.ErrModelNotFound, "failed to find a model matching %s", input).
		WithContext(input).
		WithSuggestion(suggestion)
}

// ClassName returns the type name from a fully qualified model name.
func ClassName(fqn string) string {
	return container.ShortName(fqn)
}
