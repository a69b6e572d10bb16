package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand(r *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taskflow %s\n", r.version)
		},
	}
}
