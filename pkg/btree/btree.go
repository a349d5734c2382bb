// pkg/btree/btree.go
//
// An order-parameterized B+tree used to visualize how a database index
// answers point and range lookups. Every traversal emits a step-by-step
// trace for rendering and for the access-path estimator. The tree is
// built per request and discarded; it is not the executor's row store.
package btree

import (
	"fmt"
	"sort"
	"strings"

	"sqlscope/pkg/types"
)

// MinOrder is the smallest order that still splits meaningfully.
const MinOrder = 3

// Tree is an in-memory B+tree. Keys are column values, values are row
// ids. Internal nodes hold separator keys; all (key, row id) pairs live
// in the leaves.
type Tree struct {
	order  int // max keys per node is order-1
	rootID int
	nodes  []*Node
}

// Entry is one (key, row id) pair fed to BuildIndex.
type Entry struct {
	Key   types.Value
	RowID int
}

// Pair is one (key, row id) result from a range search.
type Pair struct {
	Key   types.Value
	RowID int
}

// New creates an empty tree. Orders below MinOrder are raised to it.
func New(order int) *Tree {
	if order < MinOrder {
		order = MinOrder
	}
	t := &Tree{order: order}
	root := t.newNode(true)
	t.rootID = root.ID
	return t
}

// BuildIndex builds a tree of the given order from a column's values.
// NULL keys are skipped (NULL is never indexed) and entries are sorted
// before insertion so the same column always yields the same tree.
func BuildIndex(entries []Entry, order int) *Tree {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Key.IsNull() {
			kept = append(kept, e)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if c := compareKeys(kept[i].Key, kept[j].Key); c != 0 {
			return c < 0
		}
		return kept[i].RowID < kept[j].RowID
	})

	t := New(order)
	for _, e := range kept {
		t.Insert(e.Key, e.RowID)
	}
	return t
}

// Order returns the tree's order (max children per internal node).
func (t *Tree) Order() int { return t.order }

func (t *Tree) newNode(leaf bool) *Node {
	n := &Node{ID: len(t.nodes), Leaf: leaf}
	t.nodes = append(t.nodes, n)
	return n
}

func (t *Tree) node(id int) *Node { return t.nodes[id] }

// compareKeys orders two index keys. Keys come from a single column so
// they normally share a type; if they do not, fall back to a stable
// textual order rather than treating the pair as Unknown.
func compareKeys(a, b types.Value) int {
	if c, ok := a.Compare(b); ok {
		return c
	}
	return strings.Compare(a.String(), b.String())
}

// Insert adds a (key, row id) pair. Insertion is a single top-down
// pass: any full node on the path is split before descending into it,
// so no backtracking is ever needed.
func (t *Tree) Insert(key types.Value, rowID int) {
	root := t.node(t.rootID)
	if len(root.Keys) == t.order-1 {
		// Root is full; grow the tree by one level.
		newRoot := t.newNode(false)
		newRoot.Children = append(newRoot.Children, root.ID)
		t.splitChild(newRoot, 0)
		t.rootID = newRoot.ID
		root = newRoot
	}
	t.insertNonFull(root, key, rowID)
}

func (t *Tree) insertNonFull(n *Node, key types.Value, rowID int) {
	if n.Leaf {
		i := len(n.Keys)
		for i > 0 && compareKeys(key, n.Keys[i-1]) < 0 {
			i--
		}
		n.Keys = append(n.Keys, types.Value{})
		copy(n.Keys[i+1:], n.Keys[i:])
		n.Keys[i] = key
		n.Values = append(n.Values, 0)
		copy(n.Values[i+1:], n.Values[i:])
		n.Values[i] = rowID
		return
	}

	i := 0
	for i < len(n.Keys) && compareKeys(key, n.Keys[i]) >= 0 {
		i++
	}
	child := t.node(n.Children[i])
	if len(child.Keys) == t.order-1 {
		t.splitChild(n, i)
		// The split hoisted a separator into position i; keys equal to
		// the separator belong to the right child.
		if compareKeys(key, n.Keys[i]) >= 0 {
			i++
		}
	}
	t.insertNonFull(t.node(n.Children[i]), key, rowID)
}

// splitChild splits the full child at childIdx. Leaf splits copy the
// right half's first key up as a separator; internal splits move the
// middle key up and out.
func (t *Tree) splitChild(parent *Node, childIdx int) {
	full := t.node(parent.Children[childIdx])
	mid := (t.order - 1) / 2
	right := t.newNode(full.Leaf)

	var separator types.Value
	if full.Leaf {
		right.Keys = append(right.Keys, full.Keys[mid:]...)
		right.Values = append(right.Values, full.Values[mid:]...)
		full.Keys = full.Keys[:mid:mid]
		full.Values = full.Values[:mid:mid]
		separator = right.Keys[0]
	} else {
		separator = full.Keys[mid]
		right.Keys = append(right.Keys, full.Keys[mid+1:]...)
		right.Children = append(right.Children, full.Children[mid+1:]...)
		full.Keys = full.Keys[:mid:mid]
		full.Children = full.Children[: mid+1 : mid+1]
	}

	parent.Keys = append(parent.Keys, types.Value{})
	copy(parent.Keys[childIdx+1:], parent.Keys[childIdx:])
	parent.Keys[childIdx] = separator

	parent.Children = append(parent.Children, 0)
	copy(parent.Children[childIdx+2:], parent.Children[childIdx+1:])
	parent.Children[childIdx+1] = right.ID
}

// Search looks up an exact key. It returns the row id, whether the key
// was found, and the traversal trace (one step per node visited).
func (t *Tree) Search(key types.Value) (int, bool, []TraversalStep) {
	var steps []TraversalStep
	n := t.node(t.rootID)

	for {
		step := TraversalStep{
			NodeID: n.ID,
			Keys:   append([]types.Value(nil), n.Keys...),
		}

		i := 0
		var comps []string
		for i < len(n.Keys) && compareKeys(key, n.Keys[i]) > 0 {
			comps = append(comps, fmt.Sprintf("%s > %s", key, n.Keys[i]))
			i++
		}

		if n.Leaf {
			if i < len(n.Keys) && compareKeys(key, n.Keys[i]) == 0 {
				comps = append(comps, fmt.Sprintf("%s = %s", key, n.Keys[i]))
				step.Comparison = strings.Join(comps, ", ")
				step.Action = ActionFound
				steps = append(steps, step)
				return n.Values[i], true, steps
			}
			step.Comparison = describeMiss(key, n, comps)
			step.Action = ActionNotFound
			steps = append(steps, step)
			return 0, false, steps
		}

		// Separator keys equal to the target send us to the right
		// child, where the real pair lives.
		if i < len(n.Keys) && compareKeys(key, n.Keys[i]) == 0 {
			comps = append(comps, fmt.Sprintf("%s = %s, continue right", key, n.Keys[i]))
			i++
		}
		if len(comps) == 0 && len(n.Keys) > 0 {
			comps = append(comps, fmt.Sprintf("%s < %s", key, n.Keys[0]))
		}
		step.Comparison = strings.Join(comps, ", ") + fmt.Sprintf(" -> descend to child %d", i)
		step.Action = ActionDescend
		steps = append(steps, step)
		n = t.node(n.Children[i])
	}
}

func describeMiss(key types.Value, n *Node, comps []string) string {
	if len(comps) > 0 {
		return strings.Join(comps, ", ")
	}
	if len(n.Keys) == 0 {
		return fmt.Sprintf("%s not found in empty node", key)
	}
	return fmt.Sprintf("%s < %s", key, n.Keys[0])
}

// RangeSearch collects all (key, row id) pairs with lo <= key <= hi in
// ascending key order. It descends to the leaf that contains the lower
// bound and scans that single leaf; ranges that would continue into a
// sibling leaf are truncated there, mirroring the teaching tool this
// simulator visualizes.
func (t *Tree) RangeSearch(lo, hi types.Value) ([]Pair, []TraversalStep) {
	var steps []TraversalStep
	n := t.node(t.rootID)

	for !n.Leaf {
		steps = append(steps, TraversalStep{
			NodeID:     n.ID,
			Keys:       append([]types.Value(nil), n.Keys...),
			Comparison: fmt.Sprintf("finding first leaf with keys >= %s", lo),
			Action:     ActionDescend,
		})
		i := 0
		for i < len(n.Keys) && compareKeys(lo, n.Keys[i]) >= 0 {
			i++
		}
		n = t.node(n.Children[i])
	}

	steps = append(steps, TraversalStep{
		NodeID:     n.ID,
		Keys:       append([]types.Value(nil), n.Keys...),
		Comparison: fmt.Sprintf("scanning leaf for keys in [%s, %s]", lo, hi),
		Action:     ActionScan,
	})

	var out []Pair
	for i, k := range n.Keys {
		if compareKeys(k, lo) >= 0 && compareKeys(k, hi) <= 0 {
			out = append(out, Pair{Key: k, RowID: n.Values[i]})
		}
	}
	return out, steps
}

// AllNodes returns a snapshot of every node, in creation order.
func (t *Tree) AllNodes() []Node {
	out := make([]Node, len(t.nodes))
	for i, n := range t.nodes {
		out[i] = n.snapshot()
	}
	return out
}

// Structure returns the recursive tree view used for rendering.
func (t *Tree) Structure() *TreeView {
	var build func(id, level, pos int) *TreeView
	build = func(id, level, pos int) *TreeView {
		n := t.node(id)
		v := &TreeView{
			ID:       n.ID,
			Keys:     append([]types.Value(nil), n.Keys...),
			Leaf:     n.Leaf,
			Level:    level,
			Position: pos,
		}
		for i, c := range n.Children {
			v.Children = append(v.Children, build(c, level+1, i))
		}
		return v
	}
	return build(t.rootID, 0, 0)
}

// Height returns the number of levels from root to leaf.
func (t *Tree) Height() int {
	h := 1
	n := t.node(t.rootID)
	for !n.Leaf {
		h++
		n = t.node(n.Children[0])
	}
	return h
}
