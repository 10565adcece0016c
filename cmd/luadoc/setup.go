package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/upsun/luadoc"
	"github.com/upsun/luadoc/pkg/collect"
	"github.com/upsun/luadoc/pkg/docs"
	"github.com/upsun/luadoc/pkg/files"
)

type noteFunc func(format string, args ...any)

// noter returns a function that prints a note to stderr.
func noter(stderr io.Writer) noteFunc {
	faint := color.New(color.Faint)
	return func(format string, args ...any) {
		faint.Fprintf(stderr, format+"\n", args...) //nolint:errcheck
	}
}

// verboseNoter returns a noter if verbose output is enabled, and nil otherwise.
func verboseNoter(g *globalFlags, stderr io.Writer) noteFunc {
	if !g.verbose {
		return nil
	}
	return noter(stderr)
}

// scanFlags are the flags of commands that scan source files.
type scanFlags struct {
	ref        string
	ignore     []string
	extensions []string
	strict     bool
	lookahead  int
	category   string
}

// apply overrides configuration values with the flags that were set.
func (f *scanFlags) apply(cnf *luadoc.Config) error {
	cnf.Ignore = append(cnf.Ignore, f.ignore...)
	if len(f.extensions) > 0 {
		cnf.Extensions = f.extensions
	}
	if f.strict {
		cnf.Strict = true
	}
	if f.lookahead > 0 {
		cnf.Lookahead = f.lookahead
	}
	if f.category != "" {
		cnf.DefaultCategory = f.category
	}
	return cnf.Validate()
}

func loadConfig(g *globalFlags) (*luadoc.Config, error) {
	return luadoc.LoadConfig(g.configPath)
}

// setupFileSystem opens a local directory or clones a Git repository.
func setupFileSystem(ctx context.Context, source, ref string, stderr io.Writer) (fs.FS, error) {
	if files.IsLocal(source) {
		return files.LocalFS(source)
	}
	noter(stderr)("Cloning repository: %s", source)
	return files.Clone(ctx, source, ref)
}

// scanSource collects documentation from the source files at a path or Git URL.
func scanSource(
	ctx context.Context,
	source string,
	ref string,
	cnf *luadoc.Config,
	note noteFunc,
	stderr io.Writer,
) (*docs.Documentation, error) {
	fsys, err := setupFileSystem(ctx, source, ref, stderr)
	if err != nil {
		return nil, err
	}
	d, results, err := collect.NewCollector(cnf.CollectorConfig(note)).Collect(ctx, fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	noter(stderr)("Found %d functions in %d categories (%d files)", d.Len(), len(d.Categories()), len(results))
	return d, nil
}

// loadDocumentation reads a documentation file, or scans a directory or Git URL.
func loadDocumentation(
	ctx context.Context,
	g *globalFlags,
	source string,
	sf *scanFlags,
	stderr io.Writer,
) (*docs.Documentation, error) {
	if docs.IsDocsFile(source) {
		return docs.Load(source)
	}
	cnf, err := loadConfig(g)
	if err != nil {
		return nil, err
	}
	if err := sf.apply(cnf); err != nil {
		return nil, err
	}
	return scanSource(ctx, source, sf.ref, cnf, verboseNoter(g, stderr), stderr)
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ref, "ref", "",
		"Git reference to clone, when the source is a Git URL (default: the remote's default branch).")
	cmd.Flags().StringSliceVar(&f.ignore, "ignore", []string{},
		"Paths (or patterns) to ignore, adding to defaults.")
	cmd.Flags().StringSliceVar(&f.extensions, "ext", []string{},
		"File extensions to scan (default: from configuration, or .lua).")
	cmd.Flags().BoolVar(&f.strict, "strict", false,
		"Only accept explicitly tagged lines inside doc blocks.")
	cmd.Flags().IntVar(&f.lookahead, "lookahead", 0,
		"Lines searched for a declaration after a doc block (default: from configuration, or 3).")
	cmd.Flags().StringVar(&f.category, "default-category", "",
		"Category for functions without a dotted name or class (default: from configuration, or Global).")
}

func sourceArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return "."
}
