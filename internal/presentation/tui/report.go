package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/flojoy/pkg/container"
)

// TypesMarkdown renders the data container schema as a markdown table.
func TypesMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# Data container types\n\n")
	sb.WriteString("| type | required | optional |\n")
	sb.WriteString("|---|---|---|\n")
	for _, t := range container.Types() {
		required, optional, _ := container.Keys(t)
		fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", t, keyList(required), keyList(optional))
	}
	sb.WriteString("\nEvery type also accepts `extra`. Parametric types need a non-decreasing `t`.\n")
	return sb.String()
}

func keyList(keys []string) string {
	if len(keys) == 0 {
		return "-"
	}
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = "`" + k + "`"
	}
	return strings.Join(quoted, ", ")
}

// JobRow is one line of a run report.
type JobRow struct {
	JobID      string
	Node       string
	Status     string
	Result     string
	NextNodes  []string
	Directions []string
}

// RunReport renders the outcome of a pipeline run as markdown.
func RunReport(title string, rows []JobRow) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	sb.WriteString("| job | node | status | next | result |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(&sb, "| `%s` | %s | %s | %s | %s |\n",
			r.JobID, r.Node, r.Status, next(r), escape(r.Result))
	}
	return sb.String()
}

func next(r JobRow) string {
	var parts []string
	if r.NextNodes != nil {
		parts = append(parts, "nodes: "+listOrNone(r.NextNodes))
	}
	if r.Directions != nil {
		parts = append(parts, "directions: "+listOrNone(r.Directions))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "; ")
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func escape(s string) string {
	return strings.NewReplacer("|", "\\|", "\n", " ").Replace(s)
}
