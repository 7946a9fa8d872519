package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/flojoy/internal/pipeline"
	"github.com/aretw0/flojoy/pkg/domain"
)

// GraphOverlay contains run outcomes to visualize on the graph.
type GraphOverlay struct {
	Succeeded []string
	Failed    []string
}

// GenerateMermaid produces a Mermaid flowchart of a pipeline. Each job is a
// box labelled with its node; each dependency is an arrow into the job,
// labelled with the input port and, when it is not the default, the edge:
// - Plain dependency: -->
// - Multiple input port: ==>
// - Edge of a flow controlled result: -.->
func GenerateMermaid(p *pipeline.Pipeline, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, j := range p.Jobs {
		safeID := sanitizeMermaidID(j.ID)
		opener, closer := "[", "]"
		if j.Init {
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s<br/>%s\"%s\n", safeID, opener, j.Node, j.ID, closer)

		for _, dep := range j.Previous {
			label := strings.ReplaceAll(dep.InputName, "\"", "'")
			arrow := fmt.Sprintf("-- \"%s\" -->", label)
			switch {
			case dep.Edge != "" && dep.Edge != domain.DefaultEdge:
				arrow = fmt.Sprintf("-. \"%s: %s\" .->", strings.ReplaceAll(dep.Edge, "\"", "'"), label)
			case dep.Multiple:
				arrow = fmt.Sprintf("== \"%s\" ==>", label)
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(dep.JobID), arrow, safeID)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef ok fill:#dcfce7,stroke:#166534,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#fee2e2,stroke:#991b1b,stroke-width:3px,color:#000;\n")
		writeClass(&sb, overlay.Succeeded, "ok")
		writeClass(&sb, overlay.Failed, "failed")
	}

	return sb.String()
}

func writeClass(sb *strings.Builder, ids []string, class string) {
	seen := make(map[string]bool)
	for _, id := range ids {
		safeID := sanitizeMermaidID(id)
		if safeID == "" || seen[safeID] {
			continue
		}
		seen[safeID] = true
		fmt.Fprintf(sb, "    class %s %s;\n", safeID, class)
	}
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
