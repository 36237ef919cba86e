package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"grafed/canvas"
	"grafed/terminal"
)

// previewOpts holds the scale flags shared by render and view. Zero means
// the configured scale.
type previewOpts struct {
	scaleX float64
	scaleY float64
}

func (o *previewOpts) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&o.scaleX, "scale-x", 0, "canvas units per terminal column")
	cmd.Flags().Float64Var(&o.scaleY, "scale-y", 0, "canvas units per terminal row")
}

// preview routes the document at path and rasterises it.
func (c *CLI) preview(ctx context.Context, path string, o previewOpts) (*canvas.MatrixCanvas, string, error) {
	doc, store, err := c.open(ctx, path)
	if err != nil {
		return nil, "", err
	}
	if repaired := store.EnforceAll(); len(repaired) > 0 {
		loggerFromContext(ctx).Debug("re-routed before preview", "connections", repaired)
	}

	scaleX, scaleY := c.Config.Preview.ScaleX, c.Config.Preview.ScaleY
	if o.scaleX > 0 {
		scaleX = o.scaleX
	}
	if o.scaleY > 0 {
		scaleY = o.scaleY
	}
	m, err := canvas.NewPreview(scaleX, scaleY).Render(store.Elements())
	if err != nil {
		return nil, "", fmt.Errorf("render %s: %w", path, err)
	}

	title := doc.Name
	if title == "" {
		title = path
	}
	return m, title, nil
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts previewOpts
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Print a text preview of the routed diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := c.preview(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), m.String())
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

func (c *CLI) viewCommand() *cobra.Command {
	var opts previewOpts
	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Browse the routed diagram in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !stdoutIsTerminal() {
				return fmt.Errorf("view needs a terminal; use render instead")
			}
			m, title, err := c.preview(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return terminal.View(cmd.Context(), m, title, loggerFromContext(cmd.Context()))
		},
	}
	opts.register(cmd)
	return cmd
}
