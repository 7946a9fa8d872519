package validator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/flojoy/internal/pipeline"
	"github.com/aretw0/flojoy/pkg/container"
	"github.com/aretw0/flojoy/pkg/params"
	"github.com/aretw0/flojoy/pkg/registry"
	"gopkg.in/yaml.v3"
)

// ValidatePipeline checks that every job names a registered node, that job
// ids are unique, that dependencies point at jobs dispatched earlier and
// that control values parse. All problems are reported together.
func ValidatePipeline(p *pipeline.Pipeline, reg *registry.Registry) error {
	var errors []string
	seen := make(map[string]bool)

	for i, j := range p.Jobs {
		where := fmt.Sprintf("job %d (%s)", i, j.ID)

		if seen[j.ID] {
			errors = append(errors, fmt.Sprintf("%s: duplicate job id", where))
		}
		if _, ok := reg.Lookup(j.Node); !ok {
			errors = append(errors, fmt.Sprintf("%s: unknown node '%s'", where, j.Node))
		}
		for _, dep := range j.Previous {
			if !seen[dep.JobID] {
				errors = append(errors, fmt.Sprintf("%s: input '%s' depends on '%s', which is not dispatched before it", where, dep.InputName, dep.JobID))
			}
		}
		for id, c := range j.Controls {
			if _, err := params.Format(c.Value, c.Type); err != nil {
				errors = append(errors, fmt.Sprintf("%s: control '%s': %v", where, id, err))
			}
		}
		seen[j.ID] = true
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}

// LoadContainer reads a data container from a JSON or YAML file. YAML
// files use the same layout as the JSON encoding.
func LoadContainer(path string) (*container.DataContainer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read container: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) != ".json" {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("failed to convert %s: %w", filepath.Base(path), err)
		}
	}

	var dc container.DataContainer
	if err := json.Unmarshal(data, &dc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return &dc, nil
}

// ValidateContainers loads and validates every file, reporting all
// failures together.
func ValidateContainers(paths []string) error {
	var errors []string
	for _, path := range paths {
		dc, err := LoadContainer(path)
		if err == nil {
			err = dc.Validate()
		}
		if err != nil {
			errors = append(errors, fmt.Sprintf("%s: %v", path, err))
		}
	}
	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}
