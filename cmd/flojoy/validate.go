package main

import (
	"fmt"

	"github.com/aretw0/flojoy"
	"github.com/aretw0/flojoy/internal/nodes"
	"github.com/aretw0/flojoy/internal/pipeline"
	"github.com/aretw0/flojoy/internal/presentation/tui"
	"github.com/aretw0/flojoy/internal/validator"
	"github.com/aretw0/flojoy/pkg/registry"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check data container or pipeline files",
	Long: `Validates data container files (JSON or YAML) against the container schema.
With --pipeline the files are pipelines, checked for unknown nodes, bad
controls and dependencies on jobs that are not dispatched earlier.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		isPipeline, _ := cmd.Flags().GetBool("pipeline")
		status := tui.NewStatus(cmd.OutOrStdout())

		var err error
		if isPipeline {
			err = validatePipelines(args)
		} else {
			err = validator.ValidateContainers(args)
		}
		if err != nil {
			status.Fail("Validation failed: %v", err)
			return err
		}
		status.OK("%d file(s) valid", len(args))
		return nil
	},
}

func init() {
	validateCmd.Flags().Bool("pipeline", false, "Treat the files as pipelines")
	rootCmd.AddCommand(validateCmd)
}

func validatePipelines(paths []string) error {
	reg := registry.NewRegistry()
	nodes.Register(reg)
	for _, path := range paths {
		p, err := pipeline.Load(path, flojoy.NewJobID)
		if err != nil {
			return err
		}
		if err := validator.ValidatePipeline(p, reg); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}
