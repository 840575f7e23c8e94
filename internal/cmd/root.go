// Package cmd contains all CLI commands for pyr.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Version is the current version of pyr
	Version = "0.1.0"

	// Global flags
	verbose      bool
	targetPaths  []string
	formatFlag   string
	alphabetical bool
	noCache      bool
	forAgents    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pyr",
	Short: "Python declaration explorer",
	Long: `pyr extracts the public shape of Python code: function signatures,
classes with their methods and fields, enums with their members, and
annotated module variables, each with its line number.

It parses source with tree-sitter, so it works on code that does not
import cleanly, and it never executes anything.

Output Format:
  All commands print YAML by default, preserving source order.
  Use --format=json for JSON, --alphabetical to sort by name.

Pattern matching:
  Name patterns cascade: case-sensitive prefix matches win over
  case-insensitive ones, which win over substring matches.

Examples:
  pyr function get            # Functions whose name matches "get"
  pyr class -t src/ Repo      # Classes matching "Repo" under src/
  pyr enum --public           # Public enums with their members
  pyr module                  # Package and module tree
  pyr dump                    # Every declaration
  pyr serve                   # Expose the same queries over MCP

See 'pyr <command> --help' for command-specific options.`,
	Version: Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringSliceVarP(&targetPaths, "target", "t", []string{"."}, "File or directory to scan (repeatable)")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "", "Output format (yaml|json), overrides config")
	rootCmd.PersistentFlags().BoolVar(&alphabetical, "alphabetical", false, "Sort declarations by name instead of source order")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Bypass the extraction cache")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.Flags().BoolVar(&forAgents, "for-agents", false, "Output machine-readable capability discovery JSON")

	// Set custom help function to intercept --for-agents flag
	originalHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if forAgents {
			outputAgentHelp(cmd)
			return
		}
		originalHelp(cmd, args)
	})
}

// CommandInfo represents a command for agent discovery
type CommandInfo struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Usage       string        `json:"usage"`
	Flags       []FlagInfo    `json:"flags,omitempty"`
	Subcommands []CommandInfo `json:"subcommands,omitempty"`
	Examples    []string      `json:"examples,omitempty"`
}

// FlagInfo represents a command flag for agent discovery
type FlagInfo struct {
	Name        string `json:"name"`
	Shorthand   string `json:"shorthand,omitempty"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Default     string `json:"default,omitempty"`
}

// outputAgentHelp outputs machine-readable JSON describing all commands
func outputAgentHelp(cmd *cobra.Command) {
	root := buildCommandInfo(cmd.Root())

	payload := map[string]interface{}{
		"version":      Version,
		"commands":     root.Subcommands,
		"global_flags": root.Flags,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(payload)
}

// buildCommandInfo recursively builds command information for agent discovery
func buildCommandInfo(cmd *cobra.Command) CommandInfo {
	info := CommandInfo{
		Name:        cmd.Name(),
		Description: cmd.Short,
		Usage:       cmd.UseLine(),
	}

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		info.Flags = append(info.Flags, FlagInfo{
			Name:        f.Name,
			Shorthand:   f.Shorthand,
			Description: f.Usage,
			Type:        f.Value.Type(),
			Default:     f.DefValue,
		})
	})

	for _, sub := range cmd.Commands() {
		if !sub.Hidden {
			info.Subcommands = append(info.Subcommands, buildCommandInfo(sub))
		}
	}

	if cmd.Example != "" {
		for _, line := range strings.Split(cmd.Example, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed != "" {
				info.Examples = append(info.Examples, trimmed)
			}
		}
	}

	return info
}
