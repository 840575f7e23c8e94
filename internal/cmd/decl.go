package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hargabyte/pyr/internal/extract"
	"github.com/hargabyte/pyr/internal/output"
	"github.com/hargabyte/pyr/internal/pipeline"
)

// The four declaration listing commands share their flag surface and
// pipeline; they differ in which declarations they keep and how the
// document is shaped.

type declCommand struct {
	use     string
	aliases []string
	short   string
	example string
	kind    func(extract.Decl) bool
	build   func(mods []*extract.Module, alphabetical bool) *output.Map
}

func newDeclCommand(spec declCommand) *cobra.Command {
	var publicOnly, privateOnly bool

	cmd := &cobra.Command{
		Use:     spec.use,
		Aliases: spec.aliases,
		Short:   spec.short,
		Example: spec.example,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunContext()
			if err != nil {
				return err
			}

			mods, err := r.extract()
			if err != nil {
				return err
			}
			relativizeModules(mods, targetPaths)

			vis := pipeline.VisibilityFromFlags(publicOnly, privateOnly)
			selected := pipeline.Select(mods, args, spec.kind, vis)
			return r.write(spec.build(selected, r.alphabetical))
		},
	}

	cmd.Flags().BoolVar(&publicOnly, "public", false, "Only public names (no leading underscore)")
	cmd.Flags().BoolVar(&privateOnly, "private", false, "Only private and dunder names")
	return cmd
}

func init() {
	rootCmd.AddCommand(newDeclCommand(declCommand{
		use:     "function [pattern...]",
		aliases: []string{"fn", "func"},
		short:   "List function signatures",
		example: `  pyr function              # All functions under the target
  pyr function get set      # Functions matching "get" or "set"
  pyr fn --private          # Underscore-prefixed functions`,
		kind:  pipeline.Functions,
		build: output.FunctionsDocument,
	}))

	rootCmd.AddCommand(newDeclCommand(declCommand{
		use:     "class [pattern...]",
		aliases: []string{"cls"},
		short:   "List classes with their methods and fields",
		example: `  pyr class                 # All classes under the target
  pyr class Repo            # Classes matching "Repo"`,
		kind:  pipeline.Classes,
		build: output.ClassesDocument,
	}))

	rootCmd.AddCommand(newDeclCommand(declCommand{
		use:   "enum [pattern...]",
		short: "List enums with their members",
		example: `  pyr enum                  # All enums under the target
  pyr enum Status --format=json`,
		kind:  pipeline.Enums,
		build: output.EnumsDocument,
	}))

	rootCmd.AddCommand(newDeclCommand(declCommand{
		use:   "dump [pattern...]",
		short: "List every declaration: functions, classes, enums, and module variables",
		example: `  pyr dump                  # Everything under the target
  pyr dump -t src/ --alphabetical`,
		kind:  pipeline.AnyDecl,
		build: output.DumpDocument,
	}))
}
