package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/upsun/luadoc/pkg/docs"
	"github.com/upsun/luadoc/pkg/site"
)

func renderCmd(g *globalFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render [docs-file]",
		Short: "Build the HTML site from a documentation file",
		Args:  cobra.RangeArgs(0, 1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return []string{"json", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var docsFile string
			if len(args) > 0 {
				docsFile = args[0]
			}
			return runRender(g, docsFile, output, cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "",
		"Site output directory, replaced on each build (default: output from configuration).")
	return cmd
}

func runRender(g *globalFlags, docsFile, output string, stderr io.Writer) error {
	cnf, err := loadConfig(g)
	if err != nil {
		return err
	}
	if docsFile == "" {
		docsFile = cnf.DocsFile
	}
	if output == "" {
		output = cnf.Output
	}

	d, err := docs.Load(docsFile)
	if err != nil {
		return err
	}
	r, err := site.NewRenderer(cnf.SiteOptions(verboseNoter(g, stderr)))
	if err != nil {
		return err
	}
	if err := r.Build(output, d); err != nil {
		return err
	}
	noter(stderr)("Documentation generated in %s", output)
	return nil
}
