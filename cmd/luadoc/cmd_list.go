package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/upsun/luadoc/pkg/docs"
	"github.com/upsun/luadoc/pkg/filter"
	"github.com/upsun/luadoc/pkg/markdown"
)

func listCmd(g *globalFlags) *cobra.Command {
	var sf scanFlags
	var patterns []string
	var where string
	var plain bool
	cmd := &cobra.Command{
		Use:   "list [source]",
		Short: "List documented functions",
		Long: `List documented functions from a documentation file, a directory or a Git URL.

Functions can be selected by category with --filter (wildcard patterns), and
with a CEL expression using --where, for example:

    luadoc list --filter 'Vector*' --where 'params.exists(p, p.type == "number")'`,
		Args:          cobra.RangeArgs(0, 1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), g, sourceArg(args, 0), &sf, patterns, where, plain,
				cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	sf.register(cmd)
	cmd.Flags().StringSliceVar(&patterns, "filter", []string{},
		"Only list categories matching the wildcard pattern(s), separated by commas.")
	cmd.Flags().StringVar(&where, "where", "",
		"Only list functions for which this CEL expression is true.")
	cmd.Flags().BoolVar(&plain, "plain", false,
		"Output plain tab-separated values with header row.")
	return cmd
}

func runList(
	ctx context.Context,
	g *globalFlags,
	source string,
	sf *scanFlags,
	patterns []string,
	where string,
	plain bool,
	stdout, stderr io.Writer,
) error {
	d, err := loadDocumentation(ctx, g, source, sf, stderr)
	if err != nil {
		return err
	}
	d, err = selectFunctions(d, patterns, where)
	if err != nil {
		return err
	}

	if d.Len() == 0 {
		fmt.Fprintln(stderr, "No documented functions found.")
		return nil
	}

	if plain {
		outputListPlain(d, stdout)
		return nil
	}

	tbl := table.NewWriter()
	if width := getTerminalWidth(stdout); width > 0 {
		tbl.SetAllowedRowLength(width)
	}
	tbl.AppendHeader(table.Row{"Category", "Function", "Signature", "Description"})
	for _, category := range d.Categories() {
		for _, fn := range d.Functions(category) {
			tbl.AppendRow(table.Row{category, fn.Name, markdown.Signature(category, fn), fn.Description})
		}
	}
	fmt.Fprintln(stdout, tbl.Render())
	return nil
}

func selectFunctions(d *docs.Documentation, patterns []string, where string) (*docs.Documentation, error) {
	predicates := []filter.Predicate{filter.Categories(patterns...)}
	if strings.TrimSpace(where) != "" {
		ev, err := filter.NewEvaluator(nil)
		if err != nil {
			return nil, err
		}
		if _, err := ev.Compile(where); err != nil {
			return nil, fmt.Errorf("invalid --where expression: %w", err)
		}
		predicates = append(predicates, filter.Where(ev, where))
	}
	return filter.Apply(d, predicates...)
}
