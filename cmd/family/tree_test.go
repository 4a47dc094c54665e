package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ersonp/family-core/internal/application/handlers"
)

func TestRenderTree(t *testing.T) {
	tests := []struct {
		name string
		view *handlers.TreeView
		want string
	}{
		{
			name: "empty",
			view: &handlers.TreeView{Root: &handlers.TreeNode{ID: "root", Hidden: true}},
			want: "Empty tree.\n",
		},
		{
			name: "couple with children",
			view: &handlers.TreeView{
				Focus: "B",
				Root: &handlers.TreeNode{ID: "root", Hidden: true, Children: []*handlers.TreeNode{
					{ID: "B", Name: "Bob"},
					{ID: "m_A_B", Hidden: true, Children: []*handlers.TreeNode{
						{ID: "C", Name: "Carl", Children: []*handlers.TreeNode{
							{ID: "E", Name: "Eve"},
						}},
						{ID: "D", Name: "Dana"},
					}},
					{ID: "A", Name: "Alice", Union: "m_A_B"},
				}},
				Siblings: []handlers.SiblingLink{{Source: "B", Target: "A", Union: "m_A_B", Number: 1}},
			},
			want: "Bob (B) *\n" +
				"[Bob + Alice]\n" +
				"├── Carl (C)\n" +
				"│   └── Eve (E)\n" +
				"└── Dana (D)\n" +
				"Alice (A), spouse\n",
		},
		{
			name: "second union is numbered",
			view: &handlers.TreeView{
				Focus: "B",
				Root: &handlers.TreeNode{ID: "root", Hidden: true, Children: []*handlers.TreeNode{
					{ID: "B", Name: "Bob"},
					{ID: "m_B_F", Hidden: true},
					{ID: "F", Name: "Fay", Union: "m_B_F"},
				}},
				Siblings: []handlers.SiblingLink{{Source: "B", Target: "F", Union: "m_B_F", Number: 2}},
			},
			want: "Bob (B) *\n" +
				"[Bob + Fay]\n" +
				"Fay (F), spouse #2\n",
		},
		{
			name: "union without link",
			view: &handlers.TreeView{
				Root: &handlers.TreeNode{ID: "root", Hidden: true, Children: []*handlers.TreeNode{
					{ID: "m_X_Y", Hidden: true, Children: []*handlers.TreeNode{{ID: "Z", Name: "Zoe"}}},
				}},
			},
			want: "[m_X_Y]\n" +
				"└── Zoe (Z)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			renderTree(&buf, tt.view)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
