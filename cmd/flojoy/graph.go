package main

import (
	"fmt"

	"github.com/aretw0/flojoy"
	"github.com/aretw0/flojoy/internal/pipeline"
	"github.com/aretw0/flojoy/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <pipeline>",
	Short: "Export the pipeline graph visualization",
	Long:  `Outputs a Mermaid diagram (graph LR) of the jobs of a pipeline and the inputs connecting them.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := pipeline.Load(args[0], flojoy.NewJobID)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(p, nil))
		return err
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
