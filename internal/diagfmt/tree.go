package diagfmt

import (
	"io"
	"strings"
)

type treeNode struct {
	label    string
	children []*treeNode
}

func (n *treeNode) add(label string) *treeNode {
	child := &treeNode{label: label}
	n.children = append(n.children, child)
	return child
}

// renderTree печатает дерево с псевдографикой:
//
//	root
//	├─ a
//	│  └─ b
//	└─ c
func renderTree(w io.Writer, root *treeNode) error {
	var sb strings.Builder
	sb.WriteString(root.label)
	sb.WriteByte('\n')
	renderChildren(&sb, root, "")
	_, err := io.WriteString(w, sb.String())
	return err
}

func renderChildren(sb *strings.Builder, n *treeNode, prefix string) {
	for i, c := range n.children {
		last := i == len(n.children)-1
		sb.WriteString(prefix)
		if last {
			sb.WriteString("└─ ")
		} else {
			sb.WriteString("├─ ")
		}
		sb.WriteString(c.label)
		sb.WriteByte('\n')
		next := prefix + "│  "
		if last {
			next = prefix + "   "
		}
		renderChildren(sb, c, next)
	}
}
