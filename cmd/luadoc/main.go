package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("Error: ")+err.Error())
		stop()
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var g globalFlags
	cmd := &cobra.Command{
		Use:   "luadoc",
		Short: "Extract documentation from annotated Lua comments and build a static site",
		Long: `luadoc scans Lua sources for doc blocks such as:

    --@desc Adds two vectors.
    --@param other:Vector the vector to add
    --@return Vector, the sum
    function Vector.add(self, other)

and turns them into a documentation file (docs.json) or a static HTML site.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "",
		"Path to a configuration file (default: luadoc.toml in the working directory, if any).")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false,
		"Print progress for each file and function.")

	cmd.AddCommand(
		scanCmd(&g),
		buildCmd(&g),
		renderCmd(&g),
		listCmd(&g),
		queryCmd(&g),
		showCmd(&g),
		validateCmd(&g),
	)
	return cmd
}
