// pkg/btree/node.go
package btree

import "sqlscope/pkg/types"

// Node is a single B+tree node. Nodes live in the owning tree's arena
// and reference each other by id, never by pointer, so a tree can be
// snapshotted for rendering without chasing an object graph.
type Node struct {
	ID       int
	Keys     []types.Value
	Values   []int // row ids, leaf nodes only
	Children []int // child node ids, internal nodes only
	Leaf     bool
}

// snapshot returns a deep copy safe to hand to callers.
func (n *Node) snapshot() Node {
	out := Node{ID: n.ID, Leaf: n.Leaf}
	out.Keys = append([]types.Value(nil), n.Keys...)
	out.Values = append([]int(nil), n.Values...)
	out.Children = append([]int(nil), n.Children...)
	return out
}

// TreeView is a recursive rendering of the tree, one entry per node,
// with the node's depth and its position among siblings.
type TreeView struct {
	ID       int
	Keys     []types.Value
	Leaf     bool
	Level    int
	Position int
	Children []*TreeView
}
