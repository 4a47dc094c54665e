// Package tree turns the family graph into a strict tree anchored at a
// focus person.
//
// The family graph is not a tree: a person has up to two parents and any
// number of spouses. The reconstructor walks up from the focus to its root
// ancestors, then descends from each of them, inserting a hidden union node
// under every couple so that shared children hang off one node. A person
// reachable through two lines of descent is materialized once and moved
// under the last line that reaches it.
package tree

// GraphNode is one person of the reduced family graph.
type GraphNode struct {
	ID       string
	Name     string
	Parents  []*GraphNode
	Spouses  []*GraphNode
	Children []*GraphNode
}

// otherParent returns the parent of child that is not p.
func otherParent(child, p *GraphNode) *GraphNode {
	for _, parent := range child.Parents {
		if parent != p {
			return parent
		}
	}
	return nil
}

// AddChild links child under parent, and makes co-parents spouses.
func (n *GraphNode) AddChild(child *GraphNode) {
	if n == nil || child == nil || n == child || containsNode(n.Children, child) {
		return
	}
	n.Children = append(n.Children, child)
	if !containsNode(child.Parents, n) {
		child.Parents = append(child.Parents, n)
	}
	for _, co := range child.Parents {
		if co != n {
			n.AddSpouse(co)
		}
	}
}

// AddSpouse records a symmetric spouse edge.
func (n *GraphNode) AddSpouse(spouse *GraphNode) {
	if n == nil || spouse == nil || n == spouse {
		return
	}
	if !containsNode(n.Spouses, spouse) {
		n.Spouses = append(n.Spouses, spouse)
	}
	if !containsNode(spouse.Spouses, n) {
		spouse.Spouses = append(spouse.Spouses, n)
	}
}

func containsNode(list []*GraphNode, n *GraphNode) bool {
	for _, q := range list {
		if q == n {
			return true
		}
	}
	return false
}
