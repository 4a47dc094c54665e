package tree

// FindAncestors returns the root ancestors of focus: the parentless people
// its ancestor line ends in. A married couple without parents contributes
// only the partner reached first. When the walk cannot find any root, as in
// a graph where the focus is its own ancestor, focus itself is returned.
func FindAncestors(focus *GraphNode) []*GraphNode {
	if focus == nil {
		return nil
	}

	var ancestors []*GraphNode
	visited := make(map[*GraphNode]bool)
	findAncestors(&ancestors, focus, visited)

	if len(ancestors) == 0 {
		return []*GraphNode{focus}
	}
	return ancestors
}

func findAncestors(ancestors *[]*GraphNode, n *GraphNode, visited map[*GraphNode]bool) {
	if n == nil || visited[n] {
		return
	}
	visited[n] = true

	if len(n.Parents) == 0 {
		if containsNode(*ancestors, n) {
			return
		}
		for _, spouse := range n.Spouses {
			if containsNode(*ancestors, spouse) || visited[spouse] {
				return
			}
		}
		*ancestors = append(*ancestors, n)
		return
	}

	for _, parent := range n.Parents {
		// A spouse that was taken as a root is reachable through this line.
		for _, spouse := range n.Spouses {
			*ancestors = removeNode(*ancestors, spouse)
		}
		findAncestors(ancestors, parent, visited)
	}
}

func removeNode(list []*GraphNode, n *GraphNode) []*GraphNode {
	for i, q := range list {
		if q == n {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
