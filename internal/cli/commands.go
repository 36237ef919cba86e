package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"grafed/core"
	"grafed/divergence"
	"grafed/document"
	"grafed/validation"
)

func (c *CLI) routeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "route FILE",
		Short: "Re-route every invalid connection and write the document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			start := time.Now()

			doc, store, err := c.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			repaired := store.EnforceAll()
			doc.Elements = store.Elements()
			logger.Infof("Routed %d connections (%s)", len(repaired), time.Since(start).Round(time.Millisecond))

			if output == "" || output == "-" {
				return document.Save(cmd.OutOrStdout(), doc)
			}
			if err := document.SaveFile(output, doc); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			logger.Info("wrote document", "path", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check connections against their anchors and lint the diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := c.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			invalid := validation.Invalid(store.ValidateAll())
			for _, r := range invalid {
				fmt.Fprintf(out, "connection %s: %s\n", r.ConnectionID, strings.Join(r.Violations, "; "))
			}
			report := store.Lint()
			printIssues(out, report)

			if len(invalid) > 0 || report.HasErrors() {
				return fmt.Errorf("%w: %d invalid connections, %d lint errors",
					ErrInvalidDiagram, len(invalid), report.Count(validation.SeverityError))
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	}
}

func (c *CLI) lintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lint FILE",
		Short: "Report structural problems in the diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := c.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			report := store.Lint()
			printIssues(cmd.OutOrStdout(), report)
			fmt.Fprintf(cmd.OutOrStdout(), "%d errors, %d warnings\n",
				report.Count(validation.SeverityError), report.Count(validation.SeverityWarning))
			if report.HasErrors() {
				return ErrInvalidDiagram
			}
			return nil
		},
	}
}

func printIssues(w io.Writer, report validation.Report) {
	for _, issue := range report.Issues {
		fmt.Fprintln(w, issue.String())
	}
}

func (c *CLI) divergenceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "divergence FILE ELEMENT_ID",
		Short: "Show the nearest divergence above an element",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := c.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			id := args[1]
			if _, ok := store.GetElementByID(id); !ok {
				return fmt.Errorf("%w: %s", core.ErrElementNotFound, id)
			}
			printDivergence(cmd.OutOrStdout(), id, store.NearestOpenDivergence(id))
			return nil
		},
	}
}

func printDivergence(w io.Writer, id string, res divergence.Result) {
	if res.Start == nil {
		fmt.Fprintf(w, "no divergence above %s\n", id)
		return
	}
	fmt.Fprintf(w, "type:  %s\n", res.Type)
	fmt.Fprintf(w, "start: %s\n", res.Start.ID)
	fmt.Fprintf(w, "open:  %t\n", res.IsOpen)
	for _, b := range res.Branches {
		state := "closed"
		if b.Open {
			state = "open"
		}
		fmt.Fprintf(w, "branch %s -> %s (%s)\n", b.Start.ID, b.Tip.ID, state)
	}
}

func stdoutIsTerminal() bool {
	return isTerminal(os.Stdout)
}

// isTerminal reports whether f is a terminal, including Cygwin and MSYS ptys.
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
