package graph

import "github.com/kderr/jobctl/internal/job"

// Parents returns the nodes in the given set with no incoming dependency
// from within that same set (§4.D). The graph need not be connected; more
// than one parent is normal.
func Parents(nodes []*Node) []*Node {
	in := make(map[*Node]bool, len(nodes))
	for _, n := range nodes {
		in[n] = true
	}

	var parents []*Node
	for _, n := range nodes {
		hasInternalDep := false
		for _, dep := range predecessorsOf(n) {
			if in[dep] {
				hasInternalDep = true
				break
			}
		}
		if !hasInternalDep {
			parents = append(parents, n)
		}
	}
	return parents
}

// Subgraph returns the transitive closure of children starting at start,
// including start itself, visiting each node exactly once even when the
// graph contains diamonds.
func Subgraph(start *Node) []*Node {
	seen := map[*Node]bool{start: true}
	order := []*Node{start}

	queue := []*Node{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		children := append([]*Node{}, n.Children...)
		if n.GroupSucc != nil {
			children = append(children, n.GroupSucc)
		}

		for _, child := range children {
			if seen[child] {
				continue
			}
			seen[child] = true
			order = append(order, child)
			queue = append(queue, child)
		}
	}
	return order
}

// TopologicalOrder returns a linear extension of the dependency DAG over
// nodes, keeping group members contiguous and in group order (§4.C, §4.D).
// Kahn's algorithm drives the base order; DependsOn and GroupPred edges both
// count toward in-degree so a node never precedes an upstream dependency or
// its group predecessor.
func TopologicalOrder(nodes []*Node) ([]*Node, error) {
	in := make(map[*Node]bool, len(nodes))
	for _, n := range nodes {
		in[n] = true
	}

	indegree := make(map[*Node]int, len(nodes))
	for _, n := range nodes {
		count := 0
		for _, dep := range predecessorsOf(n) {
			if in[dep] {
				count++
			}
		}
		indegree[n] = count
	}

	var ready []*Node
	for _, n := range nodes {
		if indegree[n] == 0 {
			ready = append(ready, n)
		}
	}

	order := make([]*Node, 0, len(nodes))
	var last *Node

	removeFromReady := func(target *Node) bool {
		for i, n := range ready {
			if n == target {
				ready = append(ready[:i], ready[i+1:]...)
				return true
			}
		}
		return false
	}

	for len(order) < len(nodes) {
		var next *Node

		// Keep group chains contiguous: if the last emitted node has a
		// group successor that's now ready, emit it before anything else.
		if last != nil && last.GroupSucc != nil && in[last.GroupSucc] {
			if removeFromReady(last.GroupSucc) {
				next = last.GroupSucc
			}
		}

		if next == nil {
			if len(ready) == 0 {
				return nil, &cycleError{}
			}
			next = ready[0]
			ready = ready[1:]
		}

		order = append(order, next)
		last = next

		for _, child := range next.Children {
			if !in[child] {
				continue
			}
			indegree[child]--
			if indegree[child] == 0 {
				ready = append(ready, child)
			}
		}
		if next.GroupSucc != nil && in[next.GroupSucc] {
			indegree[next.GroupSucc]--
			if indegree[next.GroupSucc] == 0 && !containsNode(ready, next.GroupSucc) {
				ready = append(ready, next.GroupSucc)
			}
		}
	}

	return order, nil
}

func containsNode(nodes []*Node, target *Node) bool {
	for _, n := range nodes {
		if n == target {
			return true
		}
	}
	return false
}

type cycleError struct{}

func (e *cycleError) Error() string {
	return "topological order: graph contains a cycle"
}

// FinalizeIDs assigns job.IDs to every node in order (which must already be a
// valid topological order), stamping each job's Dependencies and group-link
// IDs from its already-assigned predecessors before requesting its own ID.
// This single helper is reused by both the Local Execution Engine
// (sequential counter) and the Submission Engine (DB autoincrement) — see
// DESIGN.md for the reasoning behind sharing it.
func FinalizeIDs(order []*Node, assign func(*job.Job) (job.ID, error)) error {
	for _, n := range order {
		deps := make([]job.ID, 0, len(n.DependsOn))
		for _, dep := range n.DependsOn {
			deps = append(deps, dep.Job.ID)
		}
		n.Job.Dependencies = deps

		// GroupPred is finalized earlier in topological order (it's a
		// dependency of n), so its ID is already known. GroupSucc is not:
		// it is back-patched once its own turn assigns it an ID.
		if n.GroupPred != nil {
			n.Job.GroupFrom = n.GroupPred.Job.ID
		}

		id, err := assign(n.Job)
		if err != nil {
			return err
		}
		n.Job.ID = id

		if n.GroupPred != nil {
			n.GroupPred.Job.GroupTo = id
		}
	}
	return nil
}
