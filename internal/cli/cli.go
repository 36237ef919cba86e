// Package cli implements the grafed command-line interface.
//
// Every command loads a .sfc document, runs it through the routing engine
// and prints the result. All commands accept --config for a TOML settings
// file and --verbose (-v) for debug logging; the logger travels to commands
// through context.Context.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"grafed/config"
	"grafed/document"
	"grafed/editor"
)

// ErrInvalidDiagram is returned by commands whose checks found errors.
var ErrInvalidDiagram = errors.New("diagram is invalid")

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a CLI logging to w.
func New(w io.Writer) *CLI {
	return &CLI{
		Logger: newLogger(w, log.InfoLevel),
		Config: config.Default(),
	}
}

// RootCommand creates the root command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "grafed",
		Short:             "Route and check GRAFCET and GSRSM diagrams",
		Long:              `grafed routes the connections of GRAFCET and GSRSM diagrams orthogonally, checks them against their anchor rules and previews them in the terminal.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML configuration file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.routeCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.lintCommand())
	root.AddCommand(c.divergenceCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	return root
}

// setup loads the configuration, applies the log level and attaches the
// logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.verbose {
		level = log.DebugLevel
	}
	c.Logger.SetLevel(level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// open loads the document at path into a store configured from c.Config.
func (c *CLI) open(ctx context.Context, path string) (*document.Document, *editor.Store, error) {
	logger := loggerFromContext(ctx)

	doc, err := document.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("loaded document", "path", path, "name", doc.Name, "elements", len(doc.Elements))

	sizes := c.Config.Sizes
	store := editor.NewStore(doc.Elements,
		editor.WithLogger(logger),
		editor.WithRouteCache(c.Config.Routing.CacheSize),
		editor.WithHistoryCapacity(c.Config.History.Capacity),
		editor.WithSizes(editor.Sizes{
			Step:        sizes.Step.Size(),
			Transition:  sizes.Transition.Size(),
			Gate:        sizes.Gate.Size(),
			ActionBlock: sizes.ActionBlock.Size(),
		}),
	)
	return doc, store, nil
}
