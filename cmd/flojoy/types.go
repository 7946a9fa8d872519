package main

import (
	"github.com/aretw0/flojoy/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Print the data container types and their keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cmd, tui.TypesMarkdown())
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
