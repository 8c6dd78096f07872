package group

import "github.com/kderr/jobctl/internal/graph"

// Group is a maximal chain of jobs linked by group_from/group_to edges
// (§4.C): a shell pipeline (`a | b | c`) that must execute as one process
// and therefore submit as a single cluster entry. Members is ordered head to
// tail.
type Group struct {
	Members []*graph.Node
}

// Head is the group's first member: the job whose GroupPred is unset.
func (g *Group) Head() *graph.Node {
	if len(g.Members) == 0 {
		return nil
	}
	return g.Members[0]
}

// Dependencies returns the group's externally visible dependencies: the
// union of all members' DependsOn, minus the members themselves.
func (g *Group) Dependencies() []*graph.Node {
	inGroup := g.memberSet()

	seen := map[*graph.Node]bool{}
	var deps []*graph.Node
	for _, m := range g.Members {
		for _, dep := range m.DependsOn {
			if inGroup[dep] || seen[dep] {
				continue
			}
			seen[dep] = true
			deps = append(deps, dep)
		}
	}
	return deps
}

// Children returns the group's externally visible children: the union of
// all members' Children, minus the members themselves.
func (g *Group) Children() []*graph.Node {
	inGroup := g.memberSet()

	seen := map[*graph.Node]bool{}
	var children []*graph.Node
	for _, m := range g.Members {
		for _, child := range m.Children {
			if inGroup[child] || seen[child] {
				continue
			}
			seen[child] = true
			children = append(children, child)
		}
	}
	return children
}

func (g *Group) memberSet() map[*graph.Node]bool {
	set := make(map[*graph.Node]bool, len(g.Members))
	for _, m := range g.Members {
		set[m] = true
	}
	return set
}

// CreateGroups walks nodes in topological order and partitions them into
// groups: a node with GroupPred set joins its predecessor's group; a node
// with no GroupPred starts a new group as its head. The returned sequence's
// order respects the external dependency DAG because it is derived directly
// from the topological order supplied by the caller.
func CreateGroups(order []*graph.Node) []*Group {
	headOf := make(map[*graph.Node]*Group, len(order))
	var groups []*Group

	for _, n := range order {
		if n.GroupPred == nil {
			g := &Group{Members: []*graph.Node{n}}
			groups = append(groups, g)
			headOf[n] = g
			continue
		}

		g, ok := headOf[n.GroupPred]
		if !ok {
			// Defensive: a predecessor not yet seen means order was not a
			// valid topological order. Treat n as its own group head rather
			// than panicking.
			g = &Group{Members: []*graph.Node{n}}
			groups = append(groups, g)
			headOf[n] = g
			continue
		}
		g.Members = append(g.Members, n)
		headOf[n] = g
	}

	return groups
}
