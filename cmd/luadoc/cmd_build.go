package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/upsun/luadoc/pkg/docs"
	"github.com/upsun/luadoc/pkg/files"
	"github.com/upsun/luadoc/pkg/site"
)

func buildCmd(g *globalFlags) *cobra.Command {
	var sf scanFlags
	var output, docsFile string
	cmd := &cobra.Command{
		Use:   "build [path|git-url]",
		Short: "Scan source files and build the HTML site",
		Args:  cobra.RangeArgs(0, 1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveFilterDirs
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), g, sourceArg(args, 0), &sf, output, docsFile, cmd.ErrOrStderr())
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "",
		"Site output directory, replaced on each build (default: output from configuration).")
	cmd.Flags().StringVar(&docsFile, "docs", "",
		"Also write the documentation file to this path.")
	return cmd
}

func runBuild(
	ctx context.Context,
	g *globalFlags,
	source string,
	sf *scanFlags,
	output, docsFile string,
	stderr io.Writer,
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
	if docsFile != "" {
		if err := docs.Save(docsFile, d); err != nil {
			return err
		}
		noter(stderr)("Wrote %s", docsFile)
	}

	if output == "" {
		output = cnf.Output
	}
	opts := cnf.SiteOptions(verboseNoter(g, stderr))
	if files.IsLocal(source) {
		opts.Protected = append(opts.Protected, source)
	}
	r, err := site.NewRenderer(opts)
	if err != nil {
		return err
	}
	if err := r.Build(output, d); err != nil {
		return err
	}
	noter(stderr)("Documentation generated in %s", output)
	return nil
}
