// pkg/sql/executor/eval.go
package executor

import (
	"regexp"
	"strconv"
	"strings"

	"sqlscope/pkg/sql/parser"
	"sqlscope/pkg/types"
)

var aliasSplit = regexp.MustCompile(`(?i)\s+AS\s+`)

// splitAlias splits "expr AS alias" into its parts. ok is false when
// the expression carries no alias.
func splitAlias(expr string) (source, alias string, ok bool) {
	parts := aliasSplit.Split(expr, 2)
	if len(parts) != 2 {
		return expr, "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

// lookup finds a value in the row by name, trying the exact name, the
// lowercased name, and the qualifier-stripped name in that order.
func lookup(row *types.Row, name string) (types.Value, bool) {
	if v, ok := row.Get(name); ok {
		return v, true
	}
	if v, ok := row.Get(strings.ToLower(name)); ok {
		return v, true
	}
	if bare := bareColumn(name); bare != name {
		if v, ok := row.Get(bare); ok {
			return v, true
		}
		if v, ok := row.Get(strings.ToLower(bare)); ok {
			return v, true
		}
	}
	return types.NewNull(), false
}

// literal parses a standalone literal: number, quoted string, TRUE,
// FALSE, NULL. Anything else reads as text.
func literal(s string) types.Value {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if q := s[0]; (q == '\'' || q == '"') && s[len(s)-1] == q {
			return types.NewText(s[1 : len(s)-1])
		}
	}
	switch strings.ToUpper(s) {
	case "TRUE":
		return types.NewBool(true)
	case "FALSE":
		return types.NewBool(false)
	case "NULL":
		return types.NewNull()
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return types.NewInt(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return types.NewFloat(f)
	}
	return types.NewText(s)
}

// arithExpr matches "col op number" with an optional table qualifier,
// the arithmetic shape the projection supports.
var arithExpr = regexp.MustCompile(`^([A-Za-z_][\w.]*)\s*([+\-*/])\s*(\d+(?:\.\d+)?)$`)

// evaluate resolves one select expression against a row: a stored
// value (including aggregate results), simple column arithmetic, a
// column reference, or a literal.
func evaluate(expr string, row *types.Row) types.Value {
	if src, _, ok := splitAlias(expr); ok {
		expr = src
	}
	expr = strings.TrimSpace(expr)

	if v, ok := lookup(row, expr); ok {
		return v
	}

	if m := arithExpr.FindStringSubmatch(expr); m != nil {
		col, ok := lookup(row, m[1])
		if !ok {
			return types.NewNull()
		}
		out, ok := col.Arith(m[2][0], literal(m[3]))
		if !ok {
			return types.NewNull()
		}
		return out
	}

	// An unresolved function call yields NULL rather than its own text.
	if strings.ContainsRune(expr, '(') {
		return types.NewNull()
	}

	return literal(expr)
}

// filterRows keeps the rows matching every condition. A NULL on either
// side of a comparison is no match, as is a type mismatch.
func filterRows(rows []*types.Row, conds []parser.Condition) []*types.Row {
	out := rows[:0:0]
	for _, r := range rows {
		if matchesAll(r, conds) {
			out = append(out, r)
		}
	}
	return out
}

func matchesAll(row *types.Row, conds []parser.Condition) bool {
	for _, c := range conds {
		if !matchCondition(row, c) {
			return false
		}
	}
	return true
}

func matchCondition(row *types.Row, c parser.Condition) bool {
	rv, _ := lookup(row, c.Column)

	switch c.Op {
	case "IS NULL":
		return rv.IsNull()
	case "IS NOT NULL":
		return !rv.IsNull()
	}

	if rv.IsNull() {
		return false
	}

	switch c.Op {
	case "IN":
		for _, v := range c.Values {
			if rv.Equal(v) {
				return true
			}
		}
		return false
	case "LIKE":
		return likeMatch(rv.String(), c.Value.Text())
	}

	cmp, ok := rv.Compare(c.Value)
	if !ok {
		return false
	}
	switch c.Op {
	case "=":
		return cmp == 0
	case "!=", "<>":
		return cmp != 0
	case "<":
		return cmp < 0
	case ">":
		return cmp > 0
	case "<=":
		return cmp <= 0
	case ">=":
		return cmp >= 0
	}
	return false
}

// likeMatch implements SQL LIKE: % matches any run, _ one character,
// case-insensitively.
func likeMatch(s, pattern string) bool {
	p := regexp.QuoteMeta(pattern)
	p = strings.ReplaceAll(p, "%", ".*")
	p = strings.ReplaceAll(p, "_", ".")
	re, err := regexp.Compile(`(?is)^` + p + `$`)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

// filterHaving applies post-aggregation predicates. The aggregate
// value is looked up by the expression text the grouping stage stored.
func filterHaving(rows []*types.Row, conds []parser.HavingCondition) []*types.Row {
	out := rows[:0:0]
	for _, r := range rows {
		keep := true
		for _, h := range conds {
			rv, ok := lookup(r, h.Expr)
			if !ok {
				keep = false
				break
			}
			cmp, known := rv.Compare(h.Value)
			if !known || !compareOp(cmp, h.Op) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}

func compareOp(cmp int, op string) bool {
	switch op {
	case "=":
		return cmp == 0
	case "!=", "<>":
		return cmp != 0
	case "<":
		return cmp < 0
	case ">":
		return cmp > 0
	case "<=":
		return cmp <= 0
	case ">=":
		return cmp >= 0
	}
	return false
}
