package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/upsun/luadoc/pkg/filter"
)

func queryCmd(g *globalFlags) *cobra.Command {
	var sf scanFlags
	var raw bool
	cmd := &cobra.Command{
		Use:   "query <jq-expression> [source]",
		Short: "Query documentation with a jq expression",
		Long: `Run a jq expression over the JSON form of the documentation, for example:

    luadoc query 'keys'
    luadoc query '.Vector[] | select(.returns == []) | .name' --raw`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd.Context(), g, args[0], sourceArg(args, 1), &sf, raw, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	sf.register(cmd)
	cmd.Flags().BoolVarP(&raw, "raw", "r", false, "Output strings without JSON quotes.")
	return cmd
}

func runQuery(
	ctx context.Context,
	g *globalFlags,
	expr, source string,
	sf *scanFlags,
	raw bool,
	stdout, stderr io.Writer,
) error {
	d, err := loadDocumentation(ctx, g, source, sf, stderr)
	if err != nil {
		return err
	}
	results, err := filter.Query(ctx, d, expr)
	if err != nil {
		return err
	}
	return writeQueryResults(results, raw, stdout)
}

func writeQueryResults(results []any, raw bool, stdout io.Writer) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	for _, v := range results {
		if s, ok := v.(string); ok && raw {
			fmt.Fprintln(stdout, s)
			continue
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}
