package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/upsun/luadoc/pkg/docs"
)

func scanCmd(g *globalFlags) *cobra.Command {
	var sf scanFlags
	var output, format string
	cmd := &cobra.Command{
		Use:   "scan [path|git-url]",
		Short: "Scan source files and write a documentation file",
		Args:  cobra.RangeArgs(0, 1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveFilterDirs
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), g, sourceArg(args, 0), &sf, output, format, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "",
		`Documentation file to write, or "-" for stdout (default: docs_file from configuration).`)
	cmd.Flags().StringVar(&format, "format", "",
		"Output format: json or yaml (default: from the output file extension).")
	return cmd
}

func runScan(
	ctx context.Context,
	g *globalFlags,
	source string,
	sf *scanFlags,
	output, format string,
	stdout, stderr io.Writer,
) error {
	cnf, err := loadConfig(g)
	if err != nil {
		return err
	}
	if err := sf.apply(cnf); err != nil {
		return err
	}
	d, err := scanSource(ctx, source, sf.ref, cnf, verboseNoter(g, stderr), stderr)
	if err != nil {
		return err
	}

	if output == "" {
		output = cnf.DocsFile
	}
	f := docs.FormatFromPath(output)
	if format != "" {
		if f, err = docs.ParseFormat(format); err != nil {
			return err
		}
	}
	if output == "-" {
		return docs.Encode(stdout, d, f)
	}
	if err := docs.SaveFormat(output, d, f); err != nil {
		return err
	}
	noter(stderr)("Wrote %s", output)
	return nil
}
