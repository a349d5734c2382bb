// pkg/sql/executor/sort.go
package executor

import (
	"sort"
	"strings"

	"sqlscope/pkg/sql/parser"
	"sqlscope/pkg/types"
)

// sortRows sorts in place, stably, by each ORDER BY term in turn.
// NULLs sort first ascending and last descending. Values that do not
// compare fall back to their rendered text.
func sortRows(rows []*types.Row, terms []parser.OrderBy) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, t := range terms {
			av, _ := lookup(rows[i], t.Column)
			bv, _ := lookup(rows[j], t.Column)
			cmp := compareForSort(av, bv)
			if cmp == 0 {
				continue
			}
			if t.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareForSort(a, b types.Value) int {
	switch {
	case a.IsNull() && b.IsNull():
		return 0
	case a.IsNull():
		return -1
	case b.IsNull():
		return 1
	}
	if cmp, ok := a.Compare(b); ok {
		return cmp
	}
	return strings.Compare(a.String(), b.String())
}
