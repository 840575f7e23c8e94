package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hargabyte/pyr/internal/config"
	"github.com/hargabyte/pyr/internal/extract"
	"github.com/hargabyte/pyr/internal/output"
	"github.com/hargabyte/pyr/internal/pipeline"
)

// runContext resolves the effective settings for one command run:
// config file values overridden by flags.
type runContext struct {
	cfg          *config.Config
	format       output.Format
	alphabetical bool
	out          io.Writer
}

// primaryTarget is the first --target value. Config discovery, the
// cache, and the module tree root all anchor on it.
func primaryTarget() string {
	if len(targetPaths) == 0 {
		return "."
	}
	return targetPaths[0]
}

func newRunContext() (*runContext, error) {
	cfg, err := config.Load(primaryTarget())
	if err != nil {
		return nil, err
	}

	formatValue := cfg.Output.Format
	if formatFlag != "" {
		formatValue = formatFlag
	}
	format := output.DefaultFormat
	if formatValue != "" {
		format, err = output.ParseFormat(formatValue)
		if err != nil {
			return nil, err
		}
	}

	return &runContext{
		cfg:          cfg,
		format:       format,
		alphabetical: alphabetical || cfg.Output.Alphabetical,
		out:          os.Stdout,
	}, nil
}

// extract runs the pipeline over all target flags.
func (r *runContext) extract() ([]*extract.Module, error) {
	result, err := pipeline.Run(pipeline.Options{
		Targets:     targetPaths,
		Excludes:    r.cfg.Scan.Exclude,
		EnumMarkers: r.cfg.Enums.Markers,
		UseCache:    r.cfg.Cache.Enabled && !noCache,
		Verbose:     verbose,
	})
	if err != nil {
		return nil, err
	}
	return result.Modules, nil
}

// write renders a document in the effective format.
func (r *runContext) write(doc interface{}) error {
	return output.Write(r.out, doc, r.format)
}

// relativizeModules rewrites module paths relative to the first target
// they sit under, so listings stay readable for deep targets. Paths
// outside every target are kept as-is.
func relativizeModules(mods []*extract.Module, bases []string) {
	for _, mod := range mods {
		for _, base := range bases {
			rel, err := filepath.Rel(base, mod.Path)
			if err != nil || strings.HasPrefix(rel, "..") {
				continue
			}
			mod.Path = filepath.ToSlash(rel)
			break
		}
	}
}
