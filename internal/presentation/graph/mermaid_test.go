package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/flojoy/internal/pipeline"
	"github.com/aretw0/flojoy/internal/presentation/graph"
	"github.com/aretw0/flojoy/pkg/job"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		jobs     []pipeline.Job
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name: "Job Shapes",
			jobs: []pipeline.Job{
				{ID: "lin", Node: "LINSPACE"},
				{ID: "scope", Node: "SCOPE", Init: true},
			},
			contains: []string{
				"lin[\"LINSPACE<br/>lin\"]",
				"scope[[\"SCOPE<br/>scope\"]]",
			},
			excludes: []string{"classDef"},
		},
		{
			name: "ID Sanitization",
			jobs: []pipeline.Job{
				{ID: "job-1.a/b", Node: "TEXT"},
			},
			contains: []string{"job_1_a_b[\"TEXT<br/>job-1.a/b\"]"},
		},
		{
			name: "Dependency Arrows",
			jobs: []pipeline.Job{
				{ID: "a", Node: "CONSTANT"},
				{ID: "b", Node: "ADD", Previous: []job.Dependency{
					{JobID: "a", InputName: "default", Edge: "default"},
					{JobID: "a", InputName: "in", Multiple: true},
				}},
				{ID: "c", Node: "END", Previous: []job.Dependency{
					{JobID: "b", InputName: "default", Edge: "true"},
				}},
			},
			contains: []string{
				"a -- \"default\" --> b",
				"a == \"in\" ==> b",
				"b -. \"true: default\" .-> c",
			},
		},
		{
			name: "Overlay",
			jobs: []pipeline.Job{{ID: "a-1", Node: "X"}, {ID: "b", Node: "Y"}},
			overlay: &graph.GraphOverlay{
				Succeeded: []string{"a-1", "a-1"},
				Failed:    []string{"b"},
			},
			contains: []string{
				"classDef ok",
				"class a_1 ok;",
				"class b failed;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(&pipeline.Pipeline{Jobs: tt.jobs}, tt.overlay)
			if !strings.HasPrefix(out, "graph LR\n") {
				t.Errorf("missing header:\n%s", out)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("expected %q in:\n%s", want, out)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(out, bad) {
					t.Errorf("unexpected %q in:\n%s", bad, out)
				}
			}
			if tt.overlay != nil && strings.Count(out, "class a_1 ok;") != 1 {
				t.Errorf("overlay classes must be deduplicated:\n%s", out)
			}
		})
	}
}
