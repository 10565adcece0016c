package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/upsun/luadoc/pkg/docs"
)

func validateCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [docs-file]",
		Short: "Validate a documentation file against the schema",
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
			return runValidate(g, docsFile, cmd.OutOrStdout())
		},
	}
	return cmd
}

func runValidate(g *globalFlags, docsFile string, stdout io.Writer) error {
	if docsFile == "" {
		cnf, err := loadConfig(g)
		if err != nil {
			return err
		}
		docsFile = cnf.DocsFile
	}

	f, err := os.Open(docsFile)
	if err != nil {
		return err
	}
	defer f.Close()

	// Decoding validates JSON against the schema, and checks the structure of YAML.
	d, err := docs.Decode(f, docs.FormatFromPath(docsFile))
	if err != nil {
		return fmt.Errorf("%s: %w", docsFile, err)
	}
	fmt.Fprintf(stdout, "%s is valid: %d functions in %d categories\n", docsFile, d.Len(), len(d.Categories()))
	return nil
}
