package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	verbose bool
}

// newLogger returns a text logger on w. --verbose lowers the level to debug.
func (o *rootOptions) newLogger(w io.Writer, level slog.Level) *slog.Logger {
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "spvopt",
		Short:         "SPIR-V optimizer",
		Long:          "Optimize, assemble and disassemble SPIR-V modules.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every pass to stderr")

	cmd.AddCommand(newOptimizeCommand(opts))
	cmd.AddCommand(newAsCommand(opts))
	cmd.AddCommand(newDisCommand(opts))
	cmd.AddCommand(newPassesCommand())

	return cmd
}
