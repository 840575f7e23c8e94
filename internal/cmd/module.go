package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hargabyte/pyr/internal/modtree"
	"github.com/hargabyte/pyr/internal/output"
	"github.com/hargabyte/pyr/internal/pattern"
	"github.com/hargabyte/pyr/internal/walk"
)

var moduleCmd = &cobra.Command{
	Use:     "module [pattern...]",
	Aliases: []string{"tree"},
	Short:   "Show the package and module tree",
	Example: `  pyr module                # Tree for the current directory
  pyr module auth           # Only modules matching "auth"
  pyr module -t src/ --format=json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunContext()
		if err != nil {
			return err
		}

		walker, err := walk.New(r.cfg.Scan.Exclude)
		if err != nil {
			return err
		}
		var files []string
		for _, target := range targetPaths {
			collected, err := walker.Collect(target)
			if err != nil {
				return err
			}
			files = append(files, collected...)
		}

		tree := modtree.Build(files, primaryTarget())
		if len(args) > 0 {
			matched := pattern.Filter(tree.ModuleNames(), func(s string) string { return s }, args)
			keep := make(map[string]bool, len(matched))
			for _, name := range matched {
				keep[name] = true
			}
			tree = tree.Prune(keep)
		}

		doc := output.NewMap().Set("modules", tree)
		return r.write(doc)
	},
}

func init() {
	rootCmd.AddCommand(moduleCmd)
}
