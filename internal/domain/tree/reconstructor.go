package tree

import (
	"log/slog"
	"sort"
)

// RootID is the id of the hidden super-root every root ancestor hangs off.
const RootID = "root"

// UnionName is the display name of union nodes.
const UnionName = "Union"

// Node is one node of the reconstructed tree. Union nodes and the super-root
// are Hidden; nodes directly under the super-root, union nodes and spouse
// nodes have NoParent set since no parent edge is drawn to them.
type Node struct {
	Seq      int
	ID       string
	Name     string
	Hidden   bool
	NoParent bool
	Width    float64
	Height   float64

	Children []*Node
	Parent   *Node

	// UnionNode is set on spouse nodes: the union they are attached through.
	UnionNode *Node
}

// IsUnion reports whether n is a synthetic union node.
func (n *Node) IsUnion() bool {
	return n.Hidden && n.ID != RootID
}

// Link joins a person to a spouse through their union node. Number counts
// the unions of Source, starting at 1.
type Link struct {
	Source *Node
	Target *Node
	Union  *Node
	Number int
}

// Options configures a Tree.
type Options struct {
	// Sizer computes node geometry. Defaults to FixedSizer(DefaultNodeWidth, DefaultNodeHeight).
	Sizer NodeSizer
	// OnClick is invoked by Click before the tree refocuses.
	OnClick func(*Node)
	Logger  *slog.Logger
}

// Tree is a focus-anchored reconstruction of a family graph. Nodes are
// memoized by person id and union key, so refocusing reuses node identities
// for everyone still reachable. It is not safe for concurrent use.
type Tree struct {
	graph []*GraphNode
	byID  map[string]*GraphNode
	opts  Options

	root     *Node
	focus    *GraphNode
	siblings []Link
	nextSeq  int

	persons map[string]*Node
	unions  map[string]*Node
	spouses map[string]*Node

	// per build
	built      map[string]*Node
	builtUnion map[string]*Node
	linkCount  map[*Node]int
}

// New reconstructs the tree of graph around focusID. An unknown focusID
// falls back to the first person of graph.
func New(graph []*GraphNode, focusID string, opts Options) *Tree {
	if opts.Sizer == nil {
		opts.Sizer = FixedSizer(DefaultNodeWidth, DefaultNodeHeight)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	t := &Tree{
		graph:   graph,
		byID:    make(map[string]*GraphNode, len(graph)),
		opts:    opts,
		persons: make(map[string]*Node),
		unions:  make(map[string]*Node),
		spouses: make(map[string]*Node),
	}
	for _, n := range graph {
		if n != nil {
			t.byID[n.ID] = n
		}
	}
	t.root = &Node{Seq: t.seq(), ID: RootID, Hidden: true}

	t.build(focusID)
	return t
}

// Root returns the hidden super-root.
func (t *Tree) Root() *Node {
	return t.root
}

// Focus returns the person the tree is currently anchored at, or nil for an
// empty graph.
func (t *Tree) Focus() *GraphNode {
	return t.focus
}

// ChangeFocus rebuilds the tree around id.
func (t *Tree) ChangeFocus(id string) {
	t.build(id)
}

// Click reports n to the click callback and refocuses on it. Hidden nodes
// are ignored.
func (t *Tree) Click(n *Node) {
	if n == nil || n.Hidden {
		return
	}
	if t.opts.OnClick != nil {
		t.opts.OnClick(n)
	}
	t.ChangeFocus(n.ID)
}

// Siblings returns the spouse links of the current tree.
func (t *Tree) Siblings() []Link {
	reachable := make(map[*Node]bool)
	for _, n := range t.Nodes() {
		reachable[n] = true
	}

	out := make([]Link, 0, len(t.siblings))
	for _, l := range t.siblings {
		if reachable[l.Source] && reachable[l.Target] {
			out = append(out, l)
		}
	}
	return out
}

// Nodes flattens the tree in post-order; the super-root comes last.
func (t *Tree) Nodes() []*Node {
	var out []*Node
	flatten(t.root, &out)
	return out
}

func flatten(n *Node, out *[]*Node) {
	for _, c := range n.Children {
		flatten(c, out)
	}
	*out = append(*out, n)
}

// Find returns the node materialized for person id in the current tree, or
// nil. Spouse nodes are not returned.
func (t *Tree) Find(id string) *Node {
	return t.built[id]
}

// NodeSize returns the largest width and height of the visible nodes.
func (t *Tree) NodeSize() (width, height float64) {
	for _, n := range t.Nodes() {
		if n.Hidden {
			continue
		}
		width = max(width, n.Width)
		height = max(height, n.Height)
	}
	return width, height
}

func (t *Tree) seq() int {
	s := t.nextSeq
	t.nextSeq++
	return s
}

func (t *Tree) build(focusID string) {
	t.root.Children = nil
	t.siblings = nil
	t.built = make(map[string]*Node)
	t.builtUnion = make(map[string]*Node)
	t.linkCount = make(map[*Node]int)

	focus := t.byID[focusID]
	if focus == nil && len(t.graph) > 0 {
		focus = t.graph[0]
		t.opts.Logger.Warn("focus not found, using first person",
			slog.String("focus", focusID),
			slog.String("fallback", focus.ID))
	}
	t.focus = focus
	if focus == nil {
		return
	}

	for _, ancestor := range FindAncestors(focus) {
		t.reconstruct(ancestor, nil)
	}
	t.resize()
}

// reconstruct materializes person under parent (the super-root when nil)
// and descends into their children.
func (t *Tree) reconstruct(person *GraphNode, parent *Node) *Node {
	if parent == nil {
		parent = t.root
	}

	if node, ok := t.built[person.ID]; ok {
		t.attach(node, parent)
		node.NoParent = node.Parent == t.root
		return node
	}

	node := t.persons[person.ID]
	if node == nil {
		node = &Node{Seq: t.seq(), ID: person.ID}
		t.persons[person.ID] = node
	}
	node.Name = person.Name
	node.Children = nil
	node.NoParent = parent == t.root
	t.built[person.ID] = node
	t.attach(node, parent)

	for _, child := range person.Children {
		if other := otherParent(child, person); other != nil {
			t.reconstruct(child, t.union(node, person, other))
		} else {
			t.reconstruct(child, node)
		}
	}
	return node
}

// union returns the union node of person and other for this build, creating
// it next to node together with a spouse node for other.
func (t *Tree) union(node *Node, person, other *GraphNode) *Node {
	key := UnionKey(person.ID, other.ID)
	if u, ok := t.builtUnion[key]; ok {
		return u
	}

	u := t.unions[key]
	if u == nil {
		u = &Node{Seq: t.seq(), ID: key, Name: UnionName, Hidden: true, NoParent: true}
		t.unions[key] = u
	}
	u.Children = nil
	t.builtUnion[key] = u

	spouseKey := key + "/" + other.ID
	spouse := t.spouses[spouseKey]
	if spouse == nil {
		spouse = &Node{Seq: t.seq(), ID: other.ID, NoParent: true}
		t.spouses[spouseKey] = spouse
	}
	spouse.Name = other.Name
	spouse.Children = nil
	spouse.UnionNode = u

	parent := node.Parent
	if parent == nil {
		parent = t.root
	}
	t.attach(u, parent)
	t.attach(spouse, parent)

	t.linkCount[node]++
	t.siblings = append(t.siblings, Link{
		Source: node,
		Target: spouse,
		Union:  u,
		Number: t.linkCount[node],
	})
	return u
}

// attach moves n under parent. Moves that would make n its own ancestor are
// refused, which keeps the result a tree even when the graph has a cycle.
func (t *Tree) attach(n, parent *Node) {
	if n.Parent == parent && containsChild(parent, n) {
		return
	}
	for p := parent; p != nil; p = p.Parent {
		if p == n {
			t.opts.Logger.Debug("refusing to attach node under its descendant",
				slog.String("node", n.ID),
				slog.String("parent", parent.ID))
			return
		}
	}

	if old := n.Parent; old != nil {
		old.Children = removeChild(old.Children, n)
	}
	n.Parent = parent
	parent.Children = append(parent.Children, n)
}

func (t *Tree) resize() {
	for _, n := range t.Nodes() {
		if n.Hidden {
			n.Width, n.Height = 0, 0
			continue
		}
		n.Width, n.Height = t.opts.Sizer(n)
	}
}

// UnionKey returns the key of the union between two people, independent of
// argument order.
func UnionKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return "m_" + ids[0] + "_" + ids[1]
}

func containsChild(parent, n *Node) bool {
	for _, c := range parent.Children {
		if c == n {
			return true
		}
	}
	return false
}

func removeChild(list []*Node, n *Node) []*Node {
	for i, c := range list {
		if c == n {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
