package handlers

import (
	"context"

	"github.com/ersonp/family-core/internal/domain/registry"
	"github.com/ersonp/family-core/internal/domain/services"
	"github.com/ersonp/family-core/internal/domain/tree"
)

// TreeHandler builds family trees for display.
type TreeHandler struct {
	familyAccess
	sizer tree.NodeSizer
}

// NewTreeHandler creates a new tree handler. A nil sizer uses the default
// node size.
func NewTreeHandler(families *services.FamilyService, opts services.ImportOptions, sizer tree.NodeSizer) *TreeHandler {
	return &TreeHandler{
		familyAccess: familyAccess{families: families, opts: opts},
		sizer:        sizer,
	}
}

// TreeNode is the serializable form of a tree node.
type TreeNode struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Hidden   bool        `json:"hidden,omitempty"`
	NoParent bool        `json:"noParent,omitempty"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Union    string      `json:"union,omitempty"`
	Children []*TreeNode `json:"children,omitempty"`
}

// SiblingLink joins two spouses through their union node.
type SiblingLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Union  string `json:"union"`
	Number int    `json:"number"`
}

// TreeView is a reconstructed tree ready for rendering. NodeWidth and
// NodeHeight are the largest visible node size, the spacing the layout
// should reserve per node.
type TreeView struct {
	Focus      string        `json:"focus,omitempty"`
	Root       *TreeNode     `json:"root"`
	Siblings   []SiblingLink `json:"siblings"`
	NodeWidth  float64       `json:"nodeWidth"`
	NodeHeight float64       `json:"nodeHeight"`
}

// Handle reconstructs the tree of family around focusID. An empty focusID
// uses the stored focus person.
func (h *TreeHandler) Handle(ctx context.Context, family, focusID string) (*TreeView, error) {
	reg, err := h.load(ctx, family)
	if err != nil {
		return nil, err
	}
	return h.View(reg, focusID), nil
}

// View reconstructs the tree of reg around focusID without touching the
// store. An empty focusID uses the focus of reg.
func (h *TreeHandler) View(reg *registry.Registry, focusID string) *TreeView {
	if focusID == "" && reg.Focus() != nil {
		focusID = reg.Focus().ID
	}

	t := tree.New(reg.Graph(), focusID, tree.Options{Sizer: h.sizer})
	return NewTreeView(t)
}

// NewTreeView converts a reconstructed tree into its serializable form.
func NewTreeView(t *tree.Tree) *TreeView {
	view := &TreeView{
		Root:     convertNode(t.Root()),
		Siblings: make([]SiblingLink, 0),
	}
	if focus := t.Focus(); focus != nil {
		view.Focus = focus.ID
	}
	view.NodeWidth, view.NodeHeight = t.NodeSize()
	for _, l := range t.Siblings() {
		view.Siblings = append(view.Siblings, SiblingLink{
			Source: l.Source.ID,
			Target: l.Target.ID,
			Union:  l.Union.ID,
			Number: l.Number,
		})
	}
	return view
}

func convertNode(n *tree.Node) *TreeNode {
	out := &TreeNode{
		ID:       n.ID,
		Name:     n.Name,
		Hidden:   n.Hidden,
		NoParent: n.NoParent,
		Width:    n.Width,
		Height:   n.Height,
	}
	if n.UnionNode != nil {
		out.Union = n.UnionNode.ID
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, convertNode(c))
	}
	return out
}
