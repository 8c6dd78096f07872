package graph

import "github.com/kderr/jobctl/internal/job"

// Node wraps a Job with the in-memory edges the builder and algorithms need
// before persistence assigns real job.IDs. DependsOn/Children mirror the
// externally visible dependency relation (§3); GroupPred/GroupSucc track
// piped/streamed group chaining (§4.C) separately so group linkage never
// leaks into Job.Dependencies.
type Node struct {
	PipelineNodeID string
	Job            *job.Job

	DependsOn []*Node
	Children  []*Node

	GroupPred *Node
	GroupSucc *Node
}

// Graph is the built job set: nodes keyed by their originating pipeline node
// id, produced by Build and consumed by the graph algorithms, the Group
// Engine, the Reconciler, and the Submission/Local Execution Engines.
type Graph struct {
	Nodes []*Node

	byID map[string]*Node
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{byID: make(map[string]*Node)}
}

// Add registers n in the graph, indexed by its pipeline node id.
func (g *Graph) Add(n *Node) {
	if g.byID == nil {
		g.byID = make(map[string]*Node)
	}
	g.Nodes = append(g.Nodes, n)
	g.byID[n.PipelineNodeID] = n
}

// ByPipelineNodeID looks up a node by the pipeline node id it was built from.
func (g *Graph) ByPipelineNodeID(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}
