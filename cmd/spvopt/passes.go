package main

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/spvopt/opt"
)

func newPassesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "passes",
		Short: "List the registered passes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := opt.DefaultPipeline()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, info := range opt.Passes() {
				mark := ""
				if slices.Contains(defaults, info.Name) {
					mark = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, mark, info.Description)
			}
			return w.Flush()
		},
	}
}
