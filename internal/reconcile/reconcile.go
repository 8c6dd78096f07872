package reconcile

import (
	"context"
	"path/filepath"

	"github.com/kderr/jobctl/internal/graph"
	"github.com/kderr/jobctl/internal/job"
	"github.com/kderr/jobctl/internal/store"
)

// ConflictReport names the already-active job a skipped parent's outputs
// collided with, so a caller can report it the way pyjip's submit() reports
// already_running conflicts (SPEC_FULL §10).
type ConflictReport struct {
	ParentPipelineNodeID string
	ConflictingJobID      job.ID
	Path                  string
}

// Result is what the Reconciler hands to the Submission/Local Execution
// Engines: the surviving subgraph in topological order, plus any reported
// collisions for skipped parents.
type Result struct {
	Jobs      []*graph.Node
	Conflicts []ConflictReport
}

// Reconciler implements §4.E: given a freshly built job set, decide which
// jobs actually need to run given DB state and filesystem outputs.
type Reconciler struct {
	Store store.Store
}

// New returns a Reconciler backed by s.
func New(s store.Store) *Reconciler {
	return &Reconciler{Store: s}
}

// Reconcile computes the set of nodes from g that must actually be
// submitted/run. force=true bypasses all skipping.
func (r *Reconciler) Reconcile(ctx context.Context, g *graph.Graph, force bool) (*Result, error) {
	parents := graph.Parents(g.Nodes)

	activePaths := map[string]*job.Job{}
	if !force {
		active, err := r.Store.ActiveWithOutputs(ctx)
		if err != nil {
			return nil, err
		}
		for _, j := range active {
			for _, out := range j.OutputFiles {
				activePaths[normalizePath(j.WorkingDirectory, out)] = j
			}
		}
	}

	var survivingSubgraphs [][]*graph.Node
	var conflicts []ConflictReport

	for _, p := range parents {
		sub := graph.Subgraph(p)

		if !force && allDone(sub) {
			continue
		}

		skip := false
		if !force {
			for _, member := range sub {
				for _, out := range member.Job.OutputFiles {
					path := normalizePath(member.Job.WorkingDirectory, out)
					if existing, ok := activePaths[path]; ok {
						conflicts = append(conflicts, ConflictReport{
							ParentPipelineNodeID: p.PipelineNodeID,
							ConflictingJobID:     existing.ID,
							Path:                 path,
						})
						skip = true
					}
				}
			}
		}
		if skip {
			continue
		}

		survivingSubgraphs = append(survivingSubgraphs, sub)
	}

	union := unionNodes(survivingSubgraphs)
	ordered, err := graph.TopologicalOrder(union)
	if err != nil {
		return nil, err
	}

	return &Result{Jobs: ordered, Conflicts: conflicts}, nil
}

func allDone(nodes []*graph.Node) bool {
	for _, n := range nodes {
		if n.Job.State != job.StateDone {
			return false
		}
	}
	return true
}

func unionNodes(subgraphs [][]*graph.Node) []*graph.Node {
	seen := map[*graph.Node]bool{}
	var union []*graph.Node
	for _, sub := range subgraphs {
		for _, n := range sub {
			if seen[n] {
				continue
			}
			seen[n] = true
			union = append(union, n)
		}
	}
	return union
}

// normalizePath resolves an output path relative to workingDirectory (or
// keeps it as-is if already absolute). Symlink-equivalent paths are
// deliberately not collapsed — see DESIGN.md's Open Question decision.
func normalizePath(workingDirectory, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(workingDirectory, path))
}
