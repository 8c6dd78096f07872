package graph

// detectCycle returns the nodes participating in a dependency cycle, or nil
// if the graph is acyclic. Group-chain edges (GroupPred) participate in the
// search too: a group pipe cycle is a dependency cycle in every sense the
// builder cares about.
func detectCycle(nodes []*Node) []*Node {
	visiting := make(map[*Node]bool, len(nodes))
	visited := make(map[*Node]bool, len(nodes))
	var stack []*Node

	var cycle []*Node
	var dfs func(*Node) bool
	dfs = func(n *Node) bool {
		visiting[n] = true
		stack = append(stack, n)

		preds := predecessorsOf(n)
		for _, dep := range preds {
			if visited[dep] {
				continue
			}
			if visiting[dep] {
				idx := indexOf(stack, dep)
				if idx >= 0 {
					cycle = append([]*Node{}, stack[idx:]...)
					cycle = append(cycle, dep)
				}
				return true
			}
			if dfs(dep) {
				return true
			}
		}

		visiting[n] = false
		visited[n] = true
		stack = stack[:len(stack)-1]
		return false
	}

	for _, n := range nodes {
		if visited[n] {
			continue
		}
		if dfs(n) {
			break
		}
	}

	return cycle
}

func predecessorsOf(n *Node) []*Node {
	preds := append([]*Node{}, n.DependsOn...)
	if n.GroupPred != nil {
		preds = append(preds, n.GroupPred)
	}
	return preds
}

func indexOf(stack []*Node, target *Node) int {
	for i, n := range stack {
		if n == target {
			return i
		}
	}
	return -1
}
