package btree

import (
	"testing"

	"sqlscope/pkg/types"
)

func intEntries(keys ...int) []Entry {
	out := make([]Entry, len(keys))
	for i, k := range keys {
		out[i] = Entry{Key: types.NewInt(int64(k)), RowID: k * 10}
	}
	return out
}

func TestTree_SearchFindsEveryInsertedKey(t *testing.T) {
	for _, order := range []int{3, 4, 5, 8} {
		keys := make([]int, 0, 200)
		for k := 1; k <= 200; k++ {
			keys = append(keys, k)
		}
		tree := BuildIndex(intEntries(keys...), order)

		for _, k := range keys {
			got, ok, steps := tree.Search(types.NewInt(int64(k)))
			if !ok {
				t.Fatalf("order %d: key %d not found", order, k)
			}
			if got != k*10 {
				t.Errorf("order %d: key %d -> row %d, want %d", order, k, got, k*10)
			}
			if len(steps) == 0 {
				t.Errorf("order %d: key %d produced no trace", order, k)
			}
			if last := steps[len(steps)-1]; last.Action != ActionFound {
				t.Errorf("order %d: key %d trace ends in %q", order, k, last.Action)
			}
		}
	}
}

func TestTree_SearchMiss(t *testing.T) {
	tree := BuildIndex(intEntries(2, 4, 6, 8, 10, 12, 14), 4)

	for _, k := range []int{1, 3, 5, 7, 9, 11, 13, 15, 100} {
		_, ok, steps := tree.Search(types.NewInt(int64(k)))
		if ok {
			t.Errorf("key %d reported found, was never inserted", k)
		}
		if last := steps[len(steps)-1]; last.Action != ActionNotFound {
			t.Errorf("key %d trace ends in %q, want not_found", k, last.Action)
		}
	}
}

func TestTree_TraceBoundedByHeight(t *testing.T) {
	tree := BuildIndex(intEntries(rangeInts(1, 500)...), 4)
	h := tree.Height()

	for _, k := range []int{1, 250, 500, 999} {
		_, _, steps := tree.Search(types.NewInt(int64(k)))
		if len(steps) > h+1 {
			t.Errorf("key %d: trace length %d exceeds height+1 = %d", k, len(steps), h+1)
		}
	}
}

func TestTree_TraceGrowsWithHeight(t *testing.T) {
	small := BuildIndex(intEntries(1, 2, 3), 4)
	big := BuildIndex(intEntries(rangeInts(1, 300)...), 4)

	if small.Height() >= big.Height() {
		t.Fatalf("expected height to grow: small %d, big %d", small.Height(), big.Height())
	}

	_, _, smallSteps := small.Search(types.NewInt(2))
	_, _, bigSteps := big.Search(types.NewInt(150))
	if len(bigSteps) <= len(smallSteps) {
		t.Errorf("trace did not grow with height: %d vs %d", len(smallSteps), len(bigSteps))
	}
}

func TestTree_NodeInvariants(t *testing.T) {
	tree := BuildIndex(intEntries(rangeInts(1, 300)...), 5)

	for _, n := range tree.AllNodes() {
		if len(n.Keys) > tree.Order()-1 {
			t.Errorf("node %d has %d keys, max is %d", n.ID, len(n.Keys), tree.Order()-1)
		}
		if n.Leaf {
			if len(n.Values) != len(n.Keys) {
				t.Errorf("leaf %d: %d values for %d keys", n.ID, len(n.Values), len(n.Keys))
			}
			if len(n.Children) != 0 {
				t.Errorf("leaf %d has children", n.ID)
			}
		} else if len(n.Children) != len(n.Keys)+1 {
			t.Errorf("internal %d: %d children for %d keys", n.ID, len(n.Children), len(n.Keys))
		}
	}
}

func TestTree_RangeSearchWithinLeaf(t *testing.T) {
	// Order 8 keeps keys 1..5 inside a single leaf.
	tree := BuildIndex(intEntries(1, 2, 3, 4, 5), 8)

	pairs, steps := tree.RangeSearch(types.NewInt(2), types.NewInt(4))
	want := []int{2, 3, 4}
	if len(pairs) != len(want) {
		t.Fatalf("got %d pairs, want %d", len(pairs), len(want))
	}
	for i, p := range pairs {
		if p.Key.Int() != int64(want[i]) {
			t.Errorf("pair %d key = %v, want %d", i, p.Key, want[i])
		}
		if p.RowID != want[i]*10 {
			t.Errorf("pair %d row = %d, want %d", i, p.RowID, want[i]*10)
		}
	}
	if last := steps[len(steps)-1]; last.Action != ActionScan {
		t.Errorf("range trace ends in %q, want scan", last.Action)
	}
}

func TestTree_RangeSearchEmpty(t *testing.T) {
	tree := BuildIndex(intEntries(10, 20, 30), 8)
	pairs, _ := tree.RangeSearch(types.NewInt(11), types.NewInt(19))
	if len(pairs) != 0 {
		t.Errorf("expected empty range result, got %v", pairs)
	}
}

func TestBuildIndex_SkipsNullKeys(t *testing.T) {
	entries := []Entry{
		{Key: types.NewInt(1), RowID: 1},
		{Key: types.NewNull(), RowID: 2},
		{Key: types.NewInt(3), RowID: 3},
	}
	tree := BuildIndex(entries, 4)

	if _, ok, _ := tree.Search(types.NewInt(1)); !ok {
		t.Error("key 1 missing")
	}
	if _, ok, _ := tree.Search(types.NewInt(3)); !ok {
		t.Error("key 3 missing")
	}
	root := tree.Structure()
	if !root.Leaf || len(root.Keys) != 2 {
		t.Errorf("expected a single leaf with 2 keys, got leaf=%v keys=%v", root.Leaf, root.Keys)
	}
}

func TestTree_StructureLevels(t *testing.T) {
	tree := BuildIndex(intEntries(rangeInts(1, 50)...), 4)
	view := tree.Structure()

	if view.Level != 0 {
		t.Errorf("root level = %d", view.Level)
	}
	if tree.Height() < 2 {
		t.Fatal("expected a multi-level tree")
	}
	for i, c := range view.Children {
		if c.Level != 1 {
			t.Errorf("child level = %d, want 1", c.Level)
		}
		if c.Position != i {
			t.Errorf("child position = %d, want %d", c.Position, i)
		}
	}
}

func TestTree_TextKeys(t *testing.T) {
	entries := []Entry{
		{Key: types.NewText("delivered"), RowID: 1},
		{Key: types.NewText("pending"), RowID: 2},
		{Key: types.NewText("shipped"), RowID: 3},
	}
	tree := BuildIndex(entries, 4)

	row, ok, _ := tree.Search(types.NewText("pending"))
	if !ok || row != 2 {
		t.Errorf("search(pending) = %d, %v", row, ok)
	}
	if _, ok, _ := tree.Search(types.NewText("cancelled")); ok {
		t.Error("cancelled should not be found")
	}
}

func rangeInts(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}
