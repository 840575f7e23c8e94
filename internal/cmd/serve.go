package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hargabyte/pyr/internal/mcp"
)

var (
	serveTools   []string
	serveTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an MCP server exposing declaration queries over stdio",
	Long: `Starts a Model Context Protocol server on stdio. Agents can then call
pyr_function, pyr_class, pyr_enum, pyr_module, and pyr_dump as tools
instead of shelling out to the CLI.`,
	Example: `  pyr serve                       # All tools, current directory
  pyr serve --tools pyr_function,pyr_class
  pyr serve --timeout 10m         # Exit after 10 minutes idle`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := mcp.New(mcp.Config{
			DefaultTarget: primaryTarget(),
			Tools:         serveTools,
			Timeout:       serveTimeout,
		})
		if err != nil {
			return err
		}

		if verbose {
			fmt.Fprintf(os.Stderr, "pyr: serving MCP tools %v for %s\n", s.ListTools(), primaryTarget())
		}
		return s.ServeStdio()
	},
}

func init() {
	serveCmd.Flags().StringSliceVar(&serveTools, "tools", nil, "Tools to expose (default: all)")
	serveCmd.Flags().DurationVar(&serveTimeout, "timeout", 0, "Exit after this much inactivity (0 = never)")
	rootCmd.AddCommand(serveCmd)
}
