package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/nexus-db/transpiler/pkg/core/model"
	"github.com/nexus-db/transpiler/pkg/core/resolver"
)

// Signatures prints what each method of a model returns, or of every
// registered model when input is empty. Nothing touches the database.
func Signatures(app *App, input string, probe bool) error {
	docs, err := resolver.ParseDocs(app.Config.Models.Sources...)
	if err != nil {
		return err
	}

	inspector := resolver.NewReflectInspector(docs)
	r := resolver.New(inspector, app.Models.Types,
		resolver.WithLogger(app.Logger),
		resolver.WithInvocation(probe))

	var models []any
	if input == "" {
		app.Models.Container.Each(func(_ string, m any) {
			models = append(models, m)
		})
	} else {
		m, ok, err := app.findModel(input)
		if !ok {
			return err
		}
		models = append(models, m)
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	for _, m := range models {
		fmt.Fprintf(w, "%s (%s)\n", model.TypeName(m), model.TableName(m))

		for _, method := range inspector.Methods(m) {
			sig, err := r.ResolveReturnType(m, method)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "  %s\t%s\n", method.Name, sig.String())
		}
	}
	return w.Flush()
}

// List prints every registered model with its table and key.
func List(app *App) error {
	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tTABLE\tKEY")
	app.Models.Container.Each(func(name string, m any) {
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, model.TableName(m), model.KeyName(m))
	})
	return w.Flush()
}
