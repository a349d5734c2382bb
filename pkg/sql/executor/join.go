// pkg/sql/executor/join.go
package executor

import (
	"strings"

	"sqlscope/pkg/sql/parser"
	"sqlscope/pkg/types"
)

// applyJoin nested-loop joins the accumulated rows against one joined
// table. Combined rows carry the right table's columns both prefixed
// (table.col and alias.col) and bare where the name is still free, so
// later clauses can reference either form. NULL join keys never match.
func applyJoin(left []*types.Row, right []*types.Row, rightCols []string, j parser.JoinClause, leftNames []string) []*types.Row {
	if strings.EqualFold(j.Type, "CROSS") || j.On == "" {
		var out []*types.Row
		for _, l := range left {
			for _, r := range right {
				out = append(out, combineRows(l, r, rightCols, j))
			}
		}
		return out
	}

	leftRef, rightCol := parseJoinOn(j.On, j.Table, j.Alias)

	var out []*types.Row
	rightMatched := make([]bool, len(right))

	for _, l := range left {
		lv, _ := lookup(l, leftRef)
		matched := false
		for i, r := range right {
			rv, _ := lookup(r, rightCol)
			if lv.Equal(rv) {
				matched = true
				rightMatched[i] = true
				out = append(out, combineRows(l, r, rightCols, j))
			}
		}
		if !matched && strings.EqualFold(j.Type, "LEFT") {
			out = append(out, combineRows(l, nil, rightCols, j))
		}
	}

	if strings.EqualFold(j.Type, "RIGHT") {
		var leftCols []string
		if len(left) > 0 {
			leftCols = left[0].Columns()
		}
		for i, r := range right {
			if rightMatched[i] {
				continue
			}
			nr := types.NewRow()
			for _, c := range leftCols {
				nr.Set(c, types.NewNull())
			}
			appendRight(nr, r, rightCols, j)
			out = append(out, nr)
		}
	}

	return out
}

// combineRows merges a left row with a right row; a nil right row
// null-fills the right columns (LEFT JOIN miss).
func combineRows(l *types.Row, r *types.Row, rightCols []string, j parser.JoinClause) *types.Row {
	nr := l.Clone()
	appendRight(nr, r, rightCols, j)
	return nr
}

func appendRight(nr *types.Row, r *types.Row, rightCols []string, j parser.JoinClause) {
	for _, c := range rightCols {
		v := types.NewNull()
		if r != nil {
			v = r.Value(c)
		}
		nr.Set(j.Table+"."+c, v)
		if j.Alias != "" {
			nr.Set(j.Alias+"."+c, v)
		}
		if !nr.Has(c) {
			nr.Set(c, v)
		}
	}
}

// parseJoinOn reads "x.a = y.b" and decides which side belongs to the
// joined table by its qualifier. Falls back to joining on id when the
// clause is not in that shape.
func parseJoinOn(on, rightTable, rightAlias string) (leftRef, rightCol string) {
	parts := strings.SplitN(on, "=", 2)
	if len(parts) != 2 {
		return "id", "id"
	}
	a := strings.ToLower(strings.TrimSpace(parts[0]))
	b := strings.ToLower(strings.TrimSpace(parts[1]))
	if a == "" || b == "" {
		return "id", "id"
	}

	isRight := func(ref string) bool {
		i := strings.LastIndexByte(ref, '.')
		if i < 0 {
			return false
		}
		q := ref[:i]
		return q == rightTable || (rightAlias != "" && q == rightAlias)
	}

	switch {
	case isRight(b):
		return a, bareColumn(b)
	case isRight(a):
		return b, bareColumn(a)
	default:
		// No qualifier names the joined table; assume written order.
		return a, bareColumn(b)
	}
}
