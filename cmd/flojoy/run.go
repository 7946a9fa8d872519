package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/flojoy"
	"github.com/aretw0/flojoy/internal/nodes"
	"github.com/aretw0/flojoy/internal/pipeline"
	"github.com/aretw0/flojoy/internal/presentation/graph"
	"github.com/aretw0/flojoy/internal/presentation/tui"
	"github.com/aretw0/flojoy/internal/validator"
	"github.com/aretw0/flojoy/pkg/domain"
	"github.com/aretw0/flojoy/pkg/job"
	"github.com/aretw0/flojoy/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// resultLimit caps the result column of the run report.
const resultLimit = 60

var runCmd = &cobra.Command{
	Use:   "run <pipeline>",
	Short: "Run a pipeline of jobs with the built-in nodes",
	Long: `Runs the jobs of a pipeline file in the order they are listed and prints,
for each job, its status, its result and the flow instructions it returned.
Job memory is cleared afterwards unless --keep is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().Bool("keep", false, "Keep job results in the store after the run")
	runCmd.Flags().Bool("metrics", false, "Print store and input resolution metrics")
	runCmd.Flags().Bool("banner", false, "Print the banner before the report")
	runCmd.Flags().Bool("graph", false, "Append a Mermaid graph colored by job status")
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	flags := cmd.Flags()
	keep, _ := flags.GetBool("keep")
	showMetrics, _ := flags.GetBool("metrics")
	showGraph, _ := flags.GetBool("graph")
	if banner, _ := flags.GetBool("banner"); banner {
		tui.PrintBanner(cmd.ErrOrStderr())
	}

	p, err := pipeline.Load(args[0], flojoy.NewJobID)
	if err != nil {
		return err
	}
	reg := registry.NewRegistry()
	nodes.Register(reg)
	if err := validator.ValidatePipeline(p, reg); err != nil {
		return err
	}

	metrics := prometheus.NewRegistry()
	rt, closeStore, err := newRuntime(ctx, cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, closeStore())
	}()
	bound, err := reg.Bind(rt)
	if err != nil {
		return err
	}

	outcomes := pipeline.Run(ctx, rt, bound, p)
	if !keep {
		if err := rt.Clear(ctx); err != nil {
			logger.WarnContext(ctx, "failed to clear job memory", "error", err)
		}
	}

	report := tui.RunReport(p.Name, rows(outcomes))
	if showMetrics {
		report += metricsMarkdown(metrics)
	}
	if showGraph {
		report += "\n```mermaid\n" + graph.GenerateMermaid(p, overlay(outcomes)) + "```\n"
	}
	if err := render(cmd, report); err != nil {
		return err
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(outcomes))
	}
	return nil
}

func rows(outcomes []pipeline.Outcome) []tui.JobRow {
	out := make([]tui.JobRow, 0, len(outcomes))
	for _, o := range outcomes {
		row := tui.JobRow{JobID: o.Job.ID, Node: o.Job.Node, Status: "ok"}
		if o.Err != nil {
			row.Status = "failed"
			row.Result = o.Err.Error()
			out = append(out, row)
			continue
		}
		if env, ok := o.Result.(*domain.Envelope); ok {
			row.NextNodes = env.FlowToNodes
			row.Directions = job.NextDirections(o.Result)
		}
		if dc, err := job.Resolve(o.Result); err == nil && dc != nil {
			row.Result = flojoy.DumpString(dc, resultLimit)
		}
		out = append(out, row)
	}
	return out
}

func overlay(outcomes []pipeline.Outcome) *graph.GraphOverlay {
	o := &graph.GraphOverlay{}
	for _, out := range outcomes {
		if out.Err != nil {
			o.Failed = append(o.Failed, out.Job.ID)
		} else {
			o.Succeeded = append(o.Succeeded, out.Job.ID)
		}
	}
	return o
}

// metricsMarkdown lists every counter sample gathered from g.
func metricsMarkdown(g prometheus.Gatherer) string {
	families, err := g.Gather()
	if err != nil {
		return fmt.Sprintf("\nmetrics unavailable: %v\n", err)
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			lines = append(lines, fmt.Sprintf("| %s | %s | %g |",
				mf.GetName(), strings.Join(labels, ", "), m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)

	var sb strings.Builder
	sb.WriteString("\n## Metrics\n\n| metric | labels | value |\n|---|---|---|\n")
	for _, l := range lines {
		sb.WriteString(l + "\n")
	}
	return sb.String()
}
