package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/nexus-db/transpiler/examples/blog/models"
	"github.com/nexus-db/transpiler/internal/cli"
	"github.com/nexus-db/transpiler/pkg/errors"
)

var version = "0.1.0"

var (
	configPath string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "transpiler",
		Short: "Transpiler - GraphQL schemas from your database models",
		Long: `Transpiler turns a model into a Lighthouse-style GraphQL schema file:
  • Fields and column enums read from the live table (PostgreSQL, SQLite, MySQL)
  • Relationship return types resolved from @return doc comments and Go types
  • Optional gqlgen.yml binding for each generated file`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", cli.DefaultConfigFile, "Path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log how every method was resolved")

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(transpileCmd())
	rootCmd.AddCommand(signaturesCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(devCmd())

	if err := rootCmd.Execute(); err != nil {
		if te, ok := errors.As(err); ok {
			fmt.Fprint(os.Stderr, te.Print())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// registeredModels is the set of models this binary can transpile, plus the
// value types their methods may return.
func registeredModels() *cli.Models {
	m := cli.NewModels(models.All()...)
	m.RegisterTypes(models.Types()...)
	return m
}

func newApp() (*cli.App, error) {
	return cli.NewApp(configPath, registeredModels(), verbose)
}

// initCmd writes a default config file
func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a transpiler.yml with default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return cli.Init(dir)
		},
	}
}

func addTranspileFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-overwrite", false, "Keep an existing schema file")
	cmd.Flags().Bool("no-relationships", false, "Skip resolving relationship methods")
	cmd.Flags().Bool("probe", false, "Call model methods that nothing else describes (may have side effects)")
}

func transpileOptions(cmd *cobra.Command) cli.TranspileOptions {
	noOverwrite, _ := cmd.Flags().GetBool("no-overwrite")
	noRelationships, _ := cmd.Flags().GetBool("no-relationships")
	probe, _ := cmd.Flags().GetBool("probe")
	return cli.TranspileOptions{
		NoOverwrite:     noOverwrite,
		NoRelationships: noRelationships,
		Probe:           probe,
	}
}

// transpileCmd generates the schema file for one model
func transpileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transpile <model>",
		Aliases: []string{"graphql:transpile"},
		Short:   "Generate the GraphQL schema file for a model",
		Long: `Generates a GraphQL schema file for a model.

The model may be given as its full import path (example.com/app/models.Post)
or as a bare type name, which is looked up in each configured namespace.

Examples:
  transpiler transpile Post                   # Write graphql/models/Post.graphql
  transpiler transpile Post --no-overwrite    # Leave an existing file alone
  transpiler transpile Comment --probe        # Call methods to find polymorphic types`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return cli.Transpile(context.Background(), app, args[0], transpileOptions(cmd))
		},
	}
	addTranspileFlags(cmd)
	return cmd
}

// signaturesCmd shows resolved return types without touching the database
func signaturesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signatures [model]",
		Short: "Show the resolved return type of each model method",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			probe, _ := cmd.Flags().GetBool("probe")
			return cli.Signatures(app, input, probe)
		},
	}
	cmd.Flags().Bool("probe", false, "Call model methods that nothing else describes (may have side effects)")
	return cmd
}

// listCmd prints the registered models
func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the models this binary was built with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return cli.List(app)
		},
	}
}

// devCmd re-runs transpile on every change
func devCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev <model>",
		Short: "Watch the config, stub and model sources and re-transpile on change",
		Long: `Transpiles a model, then watches the config file, a custom stub and the
Go files in models.sources, transpiling again whenever one changes.
Use Ctrl+C to stop.

Examples:
  transpiler dev Post                  # Start watching with defaults
  transpiler dev Post --poll           # Use polling (for network drives)
  transpiler dev Post --interval 1s    # Set debounce interval`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			opts := cli.DefaultDevOptions()
			opts.Transpile = transpileOptions(cmd)
			opts.Poll, _ = cmd.Flags().GetBool("poll")
			opts.Interval, _ = cmd.Flags().GetDuration("interval")

			return cli.Dev(app, args[0], configPath, opts)
		},
	}

	addTranspileFlags(cmd)
	cmd.Flags().Bool("poll", false, "Use polling instead of OS events (for network drives)")
	cmd.Flags().Duration("interval", 500*time.Millisecond, "Debounce interval for changes")
	return cmd
}
