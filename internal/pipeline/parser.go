package pipeline

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	jobctlerrors "github.com/kderr/jobctl/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Parse loads a pipeline description file from disk, validates it, and
// returns the resulting model (§4.B input).
func Parse(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, jobctlerrors.NewParseError(path, 0, err)
	}

	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, jobctlerrors.NewParseError(path, extractLine(err), err)
	}

	if err := validatorInstance().Struct(&p); err != nil {
		return nil, jobctlerrors.NewValidationError("pipeline", err.Error(), err)
	}

	if err := attachScriptTools(data, &p); err != nil {
		return nil, jobctlerrors.NewParseError(path, extractLine(err), err)
	}

	return &p, nil
}

// scriptNodeSpec is the YAML shape of an already-resolved shell-script tool
// (§1's external tool/script parser is out of scope; this is the minimal
// concrete case most pipelines use and maps directly onto ScriptTool).
type scriptNodeSpec struct {
	ID     string `yaml:"id"`
	Script *struct {
		Interpreter string   `yaml:"interpreter"`
		Command     string   `yaml:"command"`
		Inputs      []string `yaml:"inputs,omitempty"`
		Outputs     []string `yaml:"outputs,omitempty"`
	} `yaml:"script,omitempty"`
}

// attachScriptTools does a second decode pass over the raw YAML to pick up
// the optional `script:` block per node and wires a ScriptTool into each
// matching Node.Tool. Nodes without a script block are left with a nil Tool
// for an external resolver to fill in.
func attachScriptTools(data []byte, p *Pipeline) error {
	var raw struct {
		Nodes []scriptNodeSpec `yaml:"nodes"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}

	byID := make(map[string]scriptNodeSpec, len(raw.Nodes))
	for _, n := range raw.Nodes {
		byID[n.ID] = n
	}

	for i := range p.Nodes {
		spec, ok := byID[p.Nodes[i].ID]
		if !ok || spec.Script == nil {
			continue
		}
		p.Nodes[i].Tool = &ScriptTool{
			ToolName:        p.Nodes[i].ID,
			ToolInterpreter: spec.Script.Interpreter,
			ToolCommand:     spec.Script.Command,
			Inputs:          spec.Script.Inputs,
			Outputs:         spec.Script.Outputs,
		}
	}
	return nil
}

// ParseProfileSpec loads a profile spec file (§6 "Profile spec file") keyed
// by tool name.
func ParseProfileSpec(path string) (ProfileSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, jobctlerrors.NewParseError(path, 0, err)
	}

	spec := ProfileSpec{}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, jobctlerrors.NewParseError(path, extractLine(err), err)
	}

	return spec, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}
