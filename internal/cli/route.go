package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/structlab/structlab/pkg/route"
)

// routeCommand creates the route command that plans a path between two
// stations of the fixed network and prints it.
func (c *CLI) routeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "route <from> <to>",
		Short: "Plan the fastest route between two stations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			network := route.Manila()
			src, dst := args[0], args[1]
			for _, station := range []string{src, dst} {
				if !network.Has(station) {
					return fmt.Errorf("unknown station %q (try %q for the full list)", station, appName+" stations")
				}
			}

			path := network.ShortestPath(src, dst)
			if len(path.Stations) == 0 {
				c.Logger.Warn("no route between stations", "from", src, "to", dst)
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(path.Stations, " → "))
			fmt.Fprintf(cmd.OutOrStdout(), "%d min, %.1f km, %d stops\n",
				path.Minutes, float64(path.Meters)/1000, len(path.Stations)-1)
			return nil
		},
	}
}

// stationsCommand creates the stations command that lists the fixed
// network's stations.
func (c *CLI) stationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stations",
		Short: "List the stations of the fixed network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, station := range route.Manila().Stations() {
				fmt.Fprintln(cmd.OutOrStdout(), station)
			}
			return nil
		},
	}
}
