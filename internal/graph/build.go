package graph

import (
	"path/filepath"
	"time"

	"github.com/kderr/jobctl/internal/job"
	"github.com/kderr/jobctl/internal/pipeline"
	jobctlerrors "github.com/kderr/jobctl/pkg/errors"
)

// Build expands a Pipeline into a Graph of Jobs (§4.B). It is pure with
// respect to persistent state: it neither reads nor writes the Store.
func Build(p *pipeline.Pipeline, spec pipeline.ProfileSpec, threadsOverrides map[string]int) (*Graph, error) {
	if spec == nil {
		spec = pipeline.ProfileSpec{}
	}
	if threadsOverrides == nil {
		threadsOverrides = map[string]int{}
	}

	g := New()

	// 1. Materialize one Job per pipeline node.
	for _, node := range p.Nodes {
		if node.Tool == nil {
			return nil, jobctlerrors.NewValidationError(node.ID, "node has no resolved tool", nil)
		}

		profile := spec.Resolve(node.Tool.Name(), p.Settings, threadsOverrides[node.ID])

		j := job.NewJob(p.Name, node.Tool.Name())
		j.Interpreter = node.Tool.Interpreter()
		j.Command = node.Tool.Command()
		j.InputFiles = append([]string(nil), node.Tool.InputFiles()...)
		j.OutputFiles = append([]string(nil), node.Tool.OutputFiles()...)
		j.AdditionalOptions = node.AdditionalOptions

		j.Queue = profile.Queue
		j.Priority = profile.Priority
		j.Threads = profile.Threads
		j.Account = profile.Account
		j.WorkingDirectory = profile.WorkingDirectory
		// profile.MaxTime is in minutes (§6 profile spec file), Job.MaxTime a duration.
		j.MaxTime = time.Duration(profile.MaxTime) * time.Minute
		j.MaxMemory = profile.MaxMemory

		g.Add(&Node{PipelineNodeID: node.ID, Job: j})
	}

	// Wire group chaining separately from Dependencies (§4.C).
	for _, node := range p.Nodes {
		if node.GroupFrom == "" {
			continue
		}
		succ, ok := g.ByPipelineNodeID(node.ID)
		if !ok {
			continue
		}
		pred, ok := g.ByPipelineNodeID(node.GroupFrom)
		if !ok {
			return nil, jobctlerrors.NewValidationError(node.ID, "group_from references unknown node "+node.GroupFrom, nil)
		}
		succ.GroupPred = pred
		pred.GroupSucc = succ
	}

	// 2. Wire each edge's producer into the consumer's Dependencies.
	for _, edge := range p.Edges {
		from, ok := g.ByPipelineNodeID(edge.From)
		if !ok {
			return nil, jobctlerrors.NewValidationError("edges", "edge references unknown node "+edge.From, nil)
		}
		to, ok := g.ByPipelineNodeID(edge.To)
		if !ok {
			return nil, jobctlerrors.NewValidationError("edges", "edge references unknown node "+edge.To, nil)
		}
		to.DependsOn = append(to.DependsOn, from)
		from.Children = append(from.Children, to)
	}

	// 4. Validate every job's options; abort on the first error.
	for _, n := range g.Nodes {
		if err := validateJob(n); err != nil {
			return nil, err
		}
	}

	// 5. Check output collisions, resolved relative to working directory.
	if err := checkOutputCollisions(g.Nodes); err != nil {
		return nil, err
	}

	if cycle := detectCycle(g.Nodes); cycle != nil {
		return nil, jobctlerrors.NewValidationError("dependencies", "cycle detected: "+joinIDs(cycle), nil)
	}

	return g, nil
}

func validateJob(n *Node) error {
	if n.Job.Command == "" {
		return jobctlerrors.NewValidationError(n.PipelineNodeID, "job has no command", nil)
	}
	if n.Job.Interpreter == "" {
		return jobctlerrors.NewValidationError(n.PipelineNodeID, "job has no interpreter", nil)
	}
	return nil
}

// resolveOutputPath normalizes an output path against a job's working
// directory: absolute paths are kept as-is, relative paths are resolved
// against the working directory. Symlink-equivalent paths are deliberately
// not collapsed (see DESIGN.md Open Question on path normalization).
func resolveOutputPath(workingDirectory, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(workingDirectory, path))
}

func checkOutputCollisions(nodes []*Node) error {
	seen := make(map[string]string, len(nodes))
	for _, n := range nodes {
		for _, out := range n.Job.OutputFiles {
			resolved := resolveOutputPath(n.Job.WorkingDirectory, out)
			if owner, ok := seen[resolved]; ok && owner != n.PipelineNodeID {
				return jobctlerrors.NewValidationError(resolved, "output path already produced by job "+owner, nil)
			}
			seen[resolved] = n.PipelineNodeID
		}
	}
	return nil
}

func joinIDs(nodes []*Node) string {
	result := ""
	for i, n := range nodes {
		if i > 0 {
			result += " -> "
		}
		result += n.PipelineNodeID
	}
	return result
}
