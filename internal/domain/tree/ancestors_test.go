package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(nodes []*GraphNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestFindAncestors(t *testing.T) {
	t.Run("parentless couple yields one root", func(t *testing.T) {
		p := people("A", "B")
		p["A"].AddSpouse(p["B"])

		assert.Equal(t, []string{"A"}, ids(FindAncestors(p["A"])))
		assert.Equal(t, []string{"B"}, ids(FindAncestors(p["B"])))
	})

	t.Run("child of parentless couple", func(t *testing.T) {
		p := people("A", "B", "C")
		p["A"].AddChild(p["C"])
		p["B"].AddChild(p["C"])

		assert.Equal(t, []string{"A"}, ids(FindAncestors(p["C"])))
	})

	t.Run("spouse with parents replaces provisional root", func(t *testing.T) {
		p := people("PB", "A", "B", "C")
		p["PB"].AddChild(p["B"])
		p["A"].AddChild(p["C"])
		p["B"].AddChild(p["C"])

		assert.Equal(t, []string{"PB"}, ids(FindAncestors(p["C"])))
	})

	t.Run("two unrelated lines", func(t *testing.T) {
		p := people("PA", "PB", "A", "B", "C")
		p["PA"].AddChild(p["A"])
		p["PB"].AddChild(p["B"])
		p["A"].AddChild(p["C"])
		p["B"].AddChild(p["C"])

		assert.Equal(t, []string{"PA", "PB"}, ids(FindAncestors(p["C"])))
	})

	t.Run("cousin marriage reaches shared root once", func(t *testing.T) {
		p, _ := cousins()

		assert.Equal(t, []string{"G1"}, ids(FindAncestors(p["Z"])))
	})

	t.Run("cycle falls back to focus", func(t *testing.T) {
		p := people("A", "B")
		p["A"].Parents = []*GraphNode{p["B"]}
		p["B"].Parents = []*GraphNode{p["A"]}

		assert.Equal(t, []string{"A"}, ids(FindAncestors(p["A"])))
	})

	t.Run("nil focus", func(t *testing.T) {
		assert.Nil(t, FindAncestors(nil))
	})
}

func TestGraphNode_AddChildLinksCoParents(t *testing.T) {
	p := people("A", "B", "C")
	p["A"].AddChild(p["C"])
	p["B"].AddChild(p["C"])
	p["B"].AddChild(p["C"])

	assert.Equal(t, []string{"A", "B"}, ids(p["C"].Parents))
	assert.Equal(t, []string{"C"}, ids(p["B"].Children))
	assert.Equal(t, []string{"B"}, ids(p["A"].Spouses))
	assert.Equal(t, []string{"A"}, ids(p["B"].Spouses))
}
