package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/flojoy/pkg/job"
	"github.com/aretw0/flojoy/pkg/params"
	"gopkg.in/yaml.v3"
)

// Pipeline is a job set in the order a scheduler dispatched it.
type Pipeline struct {
	Name string
	Jobs []Job
}

// Job is one node invocation.
type Job struct {
	ID       string
	Node     string
	NodeID   string
	JobsetID string
	// Init runs the node's init function before the job.
	Init     bool
	Controls map[string]params.Control
	Previous []job.Dependency
}

type rawPipeline struct {
	Name string   `yaml:"name" json:"name"`
	Jobs []rawJob `yaml:"jobs" json:"jobs"`
}

type rawJob struct {
	ID       string `yaml:"id" json:"id"`
	Node     string `yaml:"node" json:"node"`
	NodeID   string `yaml:"node_id" json:"node_id"`
	Init     bool   `yaml:"init" json:"init"`
	Controls any    `yaml:"ctrls" json:"ctrls"`
	Previous any    `yaml:"previous" json:"previous"`
}

// Load reads a pipeline file, JSON when it ends in .json and YAML
// otherwise. Jobs without an id get newID(); node ids default to
// "<node>-<job id>". Every job shares one jobset id.
func Load(path string, newID func() string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline: %w", err)
	}
	var raw rawPipeline
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return fromRaw(raw, newID)
}

func fromRaw(raw rawPipeline, newID func() string) (*Pipeline, error) {
	p := &Pipeline{Name: raw.Name}
	if p.Name == "" {
		p.Name = "pipeline"
	}
	jobsetID := newID()

	for i, rj := range raw.Jobs {
		j := Job{
			ID:       rj.ID,
			Node:     rj.Node,
			NodeID:   rj.NodeID,
			JobsetID: jobsetID,
			Init:     rj.Init,
		}
		if j.ID == "" {
			j.ID = newID()
		}
		if j.NodeID == "" {
			j.NodeID = j.Node + "-" + j.ID
		}

		var err error
		if j.Controls, err = params.DecodeControls(rj.Controls); err != nil {
			return nil, fmt.Errorf("job %d (%s): %w", i, j.ID, err)
		}
		if j.Previous, err = job.DecodeDependencies(rj.Previous); err != nil {
			return nil, fmt.Errorf("job %d (%s): %w", i, j.ID, err)
		}
		p.Jobs = append(p.Jobs, j)
	}
	return p, nil
}
