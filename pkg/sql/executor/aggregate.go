// pkg/sql/executor/aggregate.go
package executor

import (
	"strings"

	"sqlscope/pkg/types"
)

var aggregateFuncs = map[string]bool{
	"COUNT": true, "SUM": true, "AVG": true, "MIN": true, "MAX": true,
}

// parseAggregate recognizes "FN(arg)" for the supported aggregate
// functions. arg is "*" or a column name with any qualifier stripped.
func parseAggregate(expr string) (fn, arg string, ok bool) {
	if src, _, aliased := splitAlias(expr); aliased {
		expr = src
	}
	expr = strings.TrimSpace(expr)
	open := strings.IndexByte(expr, '(')
	if open <= 0 || !strings.HasSuffix(expr, ")") {
		return "", "", false
	}
	fn = strings.ToUpper(strings.TrimSpace(expr[:open]))
	if !aggregateFuncs[fn] {
		return "", "", false
	}
	arg = strings.TrimSpace(expr[open+1 : len(expr)-1])
	if arg != "*" {
		arg = bareColumn(strings.ToLower(arg))
	}
	return fn, arg, true
}

func isAggregate(expr string) bool {
	_, _, ok := parseAggregate(expr)
	return ok
}

func hasAggregates(exprs []string) bool {
	for _, e := range exprs {
		if isAggregate(e) {
			return true
		}
	}
	return false
}

// computeAggregate evaluates one aggregate over a group. NULLs are
// ignored everywhere except COUNT(*). SUM and AVG of an empty input
// yield 0; MIN and MAX yield NULL.
func computeAggregate(fn, arg string, rows []*types.Row) types.Value {
	if fn == "COUNT" && arg == "*" {
		return types.NewInt(int64(len(rows)))
	}

	var vals []types.Value
	for _, r := range rows {
		if v, ok := lookup(r, arg); ok && !v.IsNull() {
			vals = append(vals, v)
		}
	}

	switch fn {
	case "COUNT":
		return types.NewInt(int64(len(vals)))
	case "SUM":
		if len(vals) == 0 {
			return types.NewInt(0)
		}
		sum := vals[0]
		for _, v := range vals[1:] {
			if s, ok := sum.Arith('+', v); ok {
				sum = s
			}
		}
		return sum
	case "AVG":
		if len(vals) == 0 {
			return types.NewInt(0)
		}
		total := 0.0
		for _, v := range vals {
			total += v.AsFloat()
		}
		return types.NewFloat(total / float64(len(vals)))
	case "MIN", "MAX":
		if len(vals) == 0 {
			return types.NewNull()
		}
		best := vals[0]
		for _, v := range vals[1:] {
			cmp, ok := v.Compare(best)
			if !ok {
				continue
			}
			if (fn == "MIN" && cmp < 0) || (fn == "MAX" && cmp > 0) {
				best = v
			}
		}
		return best
	}
	return types.NewNull()
}

// groupRows groups by the given columns and evaluates the aggregate
// select expressions per group. Each output row carries the group
// columns plus every aggregate, stored under both its alias and its
// source expression so HAVING can find it either way. Group order
// follows first appearance.
func groupRows(rows []*types.Row, groupCols, selectCols []string) []*types.Row {
	type group struct {
		key  string
		rows []*types.Row
	}
	index := make(map[string]int)
	var groups []*group

	for _, r := range rows {
		var parts []string
		for _, c := range groupCols {
			v, _ := lookup(r, c)
			parts = append(parts, v.String())
		}
		key := strings.Join(parts, "\x00")
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, &group{key: key})
		}
		groups[i].rows = append(groups[i].rows, r)
	}

	out := make([]*types.Row, 0, len(groups))
	for _, g := range groups {
		gr := types.NewRow()
		first := g.rows[0]
		for _, c := range groupCols {
			v, _ := lookup(first, c)
			gr.Set(bareColumn(c), v)
		}
		setAggregates(gr, selectCols, g.rows)
		out = append(out, gr)
	}
	return out
}

// aggregateAll treats the whole input as one group for aggregate
// queries without GROUP BY.
func aggregateAll(rows []*types.Row, selectCols []string) []*types.Row {
	gr := types.NewRow()
	setAggregates(gr, selectCols, rows)
	if gr.Len() == 0 {
		return nil
	}
	return []*types.Row{gr}
}

func setAggregates(gr *types.Row, selectCols []string, rows []*types.Row) {
	for _, expr := range selectCols {
		fn, arg, ok := parseAggregate(expr)
		if !ok {
			continue
		}
		v := computeAggregate(fn, arg, rows)
		source, alias, aliased := splitAlias(expr)
		gr.Set(strings.TrimSpace(source), v)
		if aliased {
			gr.Set(alias, v)
		}
	}
}
