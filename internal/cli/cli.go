// Package cli implements the structlab command-line interface.
//
// The main commands are:
//   - serve: Run the sandbox HTTP server
//   - route: Plan a route between two stations of the fixed network
//   - stations: List the stations of the fixed network
//   - export: Render a snapshot file to Graphviz DOT or SVG
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/structlab/structlab/pkg/buildinfo"
)

const appName = "structlab"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Structlab is an in-memory structure sandbox and route planner",
		Long:         `Structlab hosts editable tree forests, a binary search tree and an ad-hoc graph behind an HTTP API, plus a shortest-path planner for the Metro Manila rail network.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.routeCommand())
	root.AddCommand(c.stationsCommand())
	root.AddCommand(c.exportCommand())

	return root
}
