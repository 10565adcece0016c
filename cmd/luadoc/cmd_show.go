package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/upsun/luadoc/pkg/docs"
	"github.com/upsun/luadoc/pkg/markdown"
)

func showCmd(g *globalFlags) *cobra.Command {
	var sf scanFlags
	var raw bool
	cmd := &cobra.Command{
		Use:   "show [source] [category]",
		Short: "Show documentation in the terminal",
		Args:  cobra.RangeArgs(0, 2),
		ValidArgsFunction: func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 && docs.IsDocsFile(args[0]) {
				if d, err := docs.Load(args[0]); err == nil {
					return categoryNames(d, toComplete), cobra.ShellCompDirectiveNoFileComp
				}
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var category string
			if len(args) > 1 {
				category = args[1]
			}
			return runShow(cmd.Context(), g, sourceArg(args, 0), category, &sf, raw, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	sf.register(cmd)
	cmd.Flags().BoolVar(&raw, "raw", false, "Output Markdown without terminal formatting.")
	return cmd
}

func runShow(
	ctx context.Context,
	g *globalFlags,
	source, category string,
	sf *scanFlags,
	raw bool,
	stdout, stderr io.Writer,
) error {
	d, err := loadDocumentation(ctx, g, source, sf, stderr)
	if err != nil {
		return err
	}

	var md string
	if category != "" {
		if !d.Has(category) {
			return fmt.Errorf("category not found: %s (available: %s)", category, strings.Join(d.Categories(), ", "))
		}
		var sb strings.Builder
		markdown.WriteCategory(&sb, category, d.Functions(category))
		md = sb.String()
	} else {
		cnf, err := loadConfig(g)
		if err != nil {
			return err
		}
		md = markdown.Generate(d, cnf.Title)
	}

	width := getTerminalWidth(stdout)
	if raw || width == 0 {
		fmt.Fprint(stdout, md)
		return nil
	}
	out, err := markdown.Render(md, min(width, 120), "")
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, out)
	return nil
}

// categoryNames lists the categories starting with prefix.
func categoryNames(d *docs.Documentation, prefix string) []string {
	var names []string
	for _, c := range d.Categories() {
		if strings.HasPrefix(c, prefix) {
			names = append(names, c)
		}
	}
	return names
}
