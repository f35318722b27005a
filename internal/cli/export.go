package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/structlab/structlab/pkg/export"
	"github.com/structlab/structlab/pkg/snapshot"
)

// exportCommand creates the export command that renders a snapshot JSON
// file (as produced by the HTTP snapshot endpoints or the archive) to
// Graphviz DOT or SVG.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output     string
		undirected bool
		weights    bool
	)

	cmd := &cobra.Command{
		Use:   "export <snapshot.json>",
		Short: "Render a snapshot file to Graphviz DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := snapshot.ReadFile(args[0])
			if err != nil {
				return err
			}

			dot := export.ToDOT(snap, export.Options{
				Directed:    !undirected,
				ShowWeights: weights,
			})

			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), dot)
				return nil
			}

			var data []byte
			switch ext := strings.ToLower(filepath.Ext(output)); ext {
			case ".dot", ".gv":
				data = []byte(dot)
			case ".svg":
				data, err = export.RenderSVG(cmd.Context(), dot)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported output extension %q (want .dot, .gv or .svg)", ext)
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			c.Logger.Info("wrote export", "path", output, "bytes", len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.dot, .gv or .svg); stdout when omitted")
	cmd.Flags().BoolVar(&undirected, "undirected", false, "draw undirected edges")
	cmd.Flags().BoolVar(&weights, "weights", false, "label edges with weights")
	return cmd
}
