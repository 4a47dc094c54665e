package tree

import (
	"math"
	"unicode/utf8"
)

// Default node geometry.
const (
	DefaultNodeWidth  = 150
	DefaultNodeHeight = 40
	DefaultLineHeight = 20
)

// NodeSizer computes the width and height of a visible node.
type NodeSizer func(n *Node) (width, height float64)

// FixedSizer gives every node the same size.
func FixedSizer(width, height float64) NodeSizer {
	return func(*Node) (float64, float64) {
		return width, height
	}
}

// TextSizer sizes nodes by wrapping their name into lines of at most
// charsPerLine characters.
func TextSizer(width, lineHeight float64, charsPerLine int) NodeSizer {
	if charsPerLine < 1 {
		charsPerLine = 1
	}
	return func(n *Node) (float64, float64) {
		lines := math.Ceil(float64(utf8.RuneCountInString(n.Name)) / float64(charsPerLine))
		return width, max(lines, 1) * lineHeight
	}
}
