package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/refnetlabs/refnet/pkg/errors"
	"github.com/refnetlabs/refnet/pkg/network"
	"github.com/refnetlabs/refnet/pkg/render"
)

// renderCommand creates the render command for network diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output    string
		format    string
		showReach bool
		highlight string
	)

	cmd := &cobra.Command{
		Use:   "render [network.json]",
		Short: "Render a referral network as a diagram",
		Long: `Render a referral network as a Graphviz diagram.

Root users (those nobody referred) are drawn with a bold outline. Use
--highlight to mark specific users, e.g. the seed set from
'analyze coverage'.

Examples:
  refnet render network.json                      # network.svg
  refnet render network.json -f dot               # DOT source to stdout
  refnet render network.json --highlight a,b -o seeds.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if err := errors.ValidateNetworkPath(input); err != nil {
				return err
			}
			g, err := network.ReadNetworkFile(input)
			if err != nil {
				return fmt.Errorf("load network %s: %w", input, err)
			}

			opts := render.Options{ShowReach: showReach}
			if highlight != "" {
				opts.Highlight = strings.Split(highlight, ",")
			}
			dot := render.ToDOT(g, opts)

			switch format {
			case "dot":
				if output == "" {
					fmt.Print(dot)
					return nil
				}
				if err := os.WriteFile(output, []byte(dot), 0644); err != nil {
					return fmt.Errorf("write output %s: %w", output, err)
				}
			case "svg":
				spinner := newSpinnerWithContext(cmd.Context(), "Rendering diagram...")
				spinner.Start()
				svg, err := render.RenderSVG(dot)
				if err != nil {
					spinner.StopWithError("Rendering failed")
					return fmt.Errorf("render svg: %w", err)
				}
				spinner.Stop()

				if output == "" {
					base := strings.TrimSuffix(input, filepath.Ext(input))
					output = base + ".svg"
				}
				if err := os.WriteFile(output, svg, 0644); err != nil {
					return fmt.Errorf("write output %s: %w", output, err)
				}
			default:
				return fmt.Errorf("invalid format: %q (must be one of: svg, dot)", format)
			}

			printSuccess("Rendered %d users", g.Len())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.svg, stdout for dot)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg (default), dot")
	cmd.Flags().BoolVar(&showReach, "reach", false, "include each user's total reach in labels")
	cmd.Flags().StringVar(&highlight, "highlight", "", "comma-separated users to highlight")

	return cmd
}
