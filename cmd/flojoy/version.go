package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/flojoy"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of flojoy",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "flojoy version %s\n", strings.TrimSpace(flojoy.Version))
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
