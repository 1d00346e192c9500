package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Заполняются через -ldflags при сборке
var (
	version = "1.0.0"
	commit  = "none"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pcb-inspector %s (commit %s)\n", version, commit)
		},
	}
}
