package cli

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/nexus-db/transpiler/pkg/core/container"
	"github.com/nexus-db/transpiler/pkg/core/emitter"
	"github.com/nexus-db/transpiler/pkg/core/graphtype"
	"github.com/nexus-db/transpiler/pkg/core/locator"
	"github.com/nexus-db/transpiler/pkg/core/model"
	"github.com/nexus-db/transpiler/pkg/core/resolver"
	"github.com/nexus-db/transpiler/pkg/dialects"
	"github.com/nexus-db/transpiler/pkg/errors"
	"github.com/nexus-db/transpiler/pkg/gqlgen"
)

// TranspileOptions configures a transpile run.
type TranspileOptions struct {
	NoOverwrite     bool // Keep an existing schema file
	NoRelationships bool // Skip resolving relationship methods
	Probe           bool // Call model methods when nothing else describes them
}

// Transpile writes the GraphQL schema file for the model named by input.
// A model that cannot be found or an existing file with NoOverwrite ends the
// run with a message rather than an error.
func Transpile(ctx context.Context, app *App, input string, opts TranspileOptions) error {
	m, ok, err := app.findModel(input)
	if !ok {
		return err
	}
	typeName := model.TypeName(m)

	em, err := emitter.New(app.Config.Output.Dir, app.Config.Output.Extension, app.Config.Output.Stub)
	if err != nil {
		return err
	}
	if opts.NoOverwrite && em.Exists(typeName) {
		fmt.Fprintf(app.Out, "✗ %s already exists, leaving it untouched\n", em.FilePath(typeName))
		return nil
	}

	fields, err := app.modelFields(ctx, m)
	if err != nil {
		return err
	}

	if !opts.NoRelationships {
		if _, err := app.relationships(m, opts.Probe); err != nil {
			return err
		}
	}

	content := em.Render(emitter.Document{
		ModelName:  typeName,
		PrimaryKey: model.KeyName(m),
		Fields:     fields,
	})
	path, err := em.Write(typeName, content, !opts.NoOverwrite)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "✓ Wrote %s\n", path)

	if cfg := app.Config.GQLGen.Config; cfg != "" {
		goType := container.QualifiedName(reflect.TypeOf(m))
		changed, err := gqlgen.RegisterModel(cfg, path, typeName, goType)
		if err != nil {
			return fmt.Errorf("updating %s: %w", cfg, err)
		}
		if changed {
			fmt.Fprintf(app.Out, "✓ Bound %s to %s in %s\n", typeName, goType, cfg)
		}
	}

	return nil
}

// findModel locates a model, printing the error when there is none.
// ok is false when the caller should stop; err is set only for failures
// other than a missing model.
func (a *App) findModel(input string) (any, bool, error) {
	loc := locator.New(a.Models.Container, a.Config.Models.Namespaces, a.Logger)
	m, err := loc.FindModel(input)
	if err == nil {
		return m, true, nil
	}

	if te, ok := errors.As(err); ok && te.Code == errors.ErrModelNotFound {
		fmt.Fprint(a.Out, te.Print())
		return nil, false, nil
	}
	return nil, false, err
}

// modelFields introspects the model's table and maps its columns.
func (a *App) modelFields(ctx context.Context, m any) ([]graphtype.Field, error) {
	dialect, err := dialects.ForName(a.Config.Database.Dialect)
	if err != nil {
		return nil, err
	}
	if dialect, err = dialects.InSchema(dialect, a.Config.Database.Schema); err != nil {
		return nil, err
	}

	pool := dialects.DefaultPoolConfig()
	if n := a.Config.Database.MaxOpenConns; n > 0 {
		pool.MaxOpenConns = n
	}
	conn, err := dialects.Open(ctx, dialect, a.Config.Database.URL, pool)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	conn.Logger = a.Logger

	table := model.TableName(m)
	if err := conn.RequireTable(ctx, table); err != nil {
		return nil, err
	}

	columns, primaryKey, err := conn.Columns(ctx, table)
	if err != nil {
		return nil, err
	}

	keyName := model.KeyName(m)
	if primaryKey != "" && primaryKey != keyName {
		a.Logger.Warn("model key differs from the table's primary key",
			slog.String("table", table),
			slog.String("key", keyName),
			slog.String("primary_key", primaryKey))
	}

	return graphtype.NewMapper(a.Logger).ColumnTypesToGraphTypes(columns, keyName), nil
}

// relationships resolves every relationship method of m and logs what was
// found. The schema's relationship block is not generated from them.
func (a *App) relationships(m any, probe bool) ([]resolver.Relationship, error) {
	docs, err := resolver.ParseDocs(a.Config.Models.Sources...)
	if err != nil {
		return nil, err
	}

	inspector := resolver.NewReflectInspector(docs)
	r := resolver.New(inspector, a.Models.Types,
		resolver.WithLogger(a.Logger),
		resolver.WithInvocation(probe))

	rels, err := r.Relationships(m, inspector.Methods(m))
	if err != nil {
		return nil, err
	}
	for _, rel := range rels {
		a.Logger.Info("resolved relationship",
			slog.String("method", rel.Method.String()),
			slog.String("signature", rel.Signature.String()))
	}
	return rels, nil
}
