// pkg/sql/parser/parser.go
//
// A clause-extraction parser for the executable SQL subset. It is not
// a general SQL parser: it peels a WITH prefix, classifies the
// statement, and pulls each clause out of the main query body using a
// depth-tracked token scan. Parse never returns an error; anything it
// cannot make sense of is left empty and reported by the executor.
package parser

import (
	"strconv"
	"strings"

	"sqlscope/pkg/types"
)

var comparisonOps = map[string]bool{
	"=": true, "<>": true, "!=": true,
	"<": true, ">": true, "<=": true, ">=": true,
}

// Parse turns a SQL string into its structured form. It is a pure
// function with no side effects.
func Parse(sql string) *ParsedQuery {
	q := &ParsedQuery{Limit: -1, Aliases: make(map[string]string)}
	sql = strings.TrimSpace(sql)
	q.Raw = sql
	q.Main = sql
	if sql == "" {
		return q
	}

	hadWith := false
	if sc := newScanner(sql); sc.wordIs(0, "WITH") {
		hadWith = true
		q.CTEs, q.Main, q.Recursive = extractCTEs(sql)
	}

	q.Kind = classify(q.Main, hadWith)
	extractClauses(q, q.Main)
	return q
}

func classify(main string, hadWith bool) QueryKind {
	sc := newScanner(main)
	switch {
	case sc.wordIs(0, "SELECT"):
		return KindSelect
	case sc.wordIs(0, "INSERT"):
		return KindInsert
	case sc.wordIs(0, "UPDATE"):
		return KindUpdate
	case sc.wordIs(0, "DELETE"):
		return KindDelete
	case hadWith:
		// A WITH prefix whose main query went unrecognized still
		// reads as a SELECT pipeline.
		return KindSelect
	default:
		return KindUnknown
	}
}

// extractClauses fills in the clause fields from the main query body.
// Each clause is located by its top-level keyword; keywords inside
// parentheses belong to subexpressions and are ignored.
func extractClauses(q *ParsedQuery, main string) {
	sc := newScanner(main)

	selIdx := sc.keyword(0, "SELECT")
	fromIdx := sc.keyword(0, "FROM")
	whereIdx := sc.keyword(0, "WHERE")
	groupIdx := sc.keyword(0, "GROUP", "BY")
	havingIdx := sc.keyword(0, "HAVING")
	orderIdx := sc.keyword(0, "ORDER", "BY")
	limitIdx := sc.keyword(0, "LIMIT")

	clauseStarts := []int{fromIdx, whereIdx, groupIdx, havingIdx, orderIdx, limitIdx}

	if selIdx >= 0 {
		end := nextBoundary(selIdx, clauseStarts, len(sc.toks))
		for _, r := range sc.splitCommas(selIdx+1, end) {
			if expr := sc.text(r[0], r[1]); expr != "" {
				q.Columns = append(q.Columns, expr)
			}
		}
	}
	if len(q.Columns) == 0 {
		q.Columns = []string{"*"}
	}

	if fromIdx >= 0 {
		fromEnd := nextBoundary(fromIdx, clauseStarts, len(sc.toks))
		extractFrom(q, sc, fromIdx+1, fromEnd)
	}

	if whereIdx >= 0 {
		end := nextBoundary(whereIdx, clauseStarts, len(sc.toks))
		q.Where = extractConditions(sc, whereIdx+1, end)
	}

	if groupIdx >= 0 {
		end := nextBoundary(groupIdx, clauseStarts, len(sc.toks))
		for _, r := range sc.splitCommas(groupIdx+2, end) {
			if col := sc.text(r[0], r[1]); col != "" {
				q.GroupBy = append(q.GroupBy, strings.ToLower(col))
			}
		}
	}

	if havingIdx >= 0 {
		end := nextBoundary(havingIdx, clauseStarts, len(sc.toks))
		q.Having = extractHaving(sc, havingIdx+1, end)
	}

	if orderIdx >= 0 {
		end := nextBoundary(orderIdx, clauseStarts, len(sc.toks))
		for _, r := range sc.splitCommas(orderIdx+2, end) {
			if ob, ok := parseOrderTerm(sc, r[0], r[1]); ok {
				q.OrderBy = append(q.OrderBy, ob)
			}
		}
	}

	if limitIdx >= 0 && limitIdx+1 < len(sc.toks) {
		t := sc.toks[limitIdx+1]
		if t.kind == tokNumber {
			if n, err := strconv.Atoi(t.text); err == nil {
				q.Limit = n
			}
		}
	}
}

// nextBoundary returns the smallest clause start greater than after,
// or max when no clause follows.
func nextBoundary(after int, starts []int, max int) int {
	best := max
	for _, s := range starts {
		if s > after && s < best {
			best = s
		}
	}
	return best
}

// extractFrom parses the FROM section: primary table with optional
// alias, then each JOIN block with type, table, alias, and ON text.
func extractFrom(q *ParsedQuery, sc *scanner, start, end int) {
	joinStarts := findJoins(sc, start, end)

	primaryEnd := end
	if len(joinStarts) > 0 {
		primaryEnd = joinStarts[0].block
	}
	table, alias := parseTableRef(sc, start, primaryEnd)
	if table == "" {
		return
	}
	q.Tables = append(q.Tables, table)
	if alias != "" {
		q.Aliases[alias] = table
	}

	for n, js := range joinStarts {
		segEnd := end
		if n+1 < len(joinStarts) {
			segEnd = joinStarts[n+1].block
		}
		j := parseJoin(sc, js, segEnd)
		if j.Table == "" {
			continue
		}
		q.Joins = append(q.Joins, j)
		q.Tables = append(q.Tables, j.Table)
		if j.Alias != "" {
			q.Aliases[j.Alias] = j.Table
		}
	}
}

type joinStart struct {
	block    int // first token of the join block (type modifier or JOIN)
	joinWord int // index of the JOIN keyword itself
	joinType string
}

var joinModifiers = map[string]bool{
	"INNER": true, "LEFT": true, "RIGHT": true, "CROSS": true, "FULL": true, "OUTER": true,
}

func findJoins(sc *scanner, start, end int) []joinStart {
	var out []joinStart
	for i := start; i < end && i < len(sc.toks); i++ {
		if sc.depth[i] != 0 || !sc.wordIs(i, "JOIN") {
			continue
		}
		js := joinStart{block: i, joinWord: i, joinType: "INNER"}
		// Walk back over the join-type modifiers.
		for k := i - 1; k >= start; k-- {
			if sc.toks[k].kind != tokWord || !joinModifiers[strings.ToUpper(sc.toks[k].text)] {
				break
			}
			js.block = k
		}
		if js.block < js.joinWord {
			mod := strings.ToUpper(sc.toks[js.block].text)
			if mod != "OUTER" {
				js.joinType = mod
			}
		}
		out = append(out, js)
	}
	return out
}

// parseTableRef reads "table [AS] [alias]" and returns both lowercased.
func parseTableRef(sc *scanner, start, end int) (table, alias string) {
	if start >= end || start >= len(sc.toks) || sc.toks[start].kind != tokWord {
		return "", ""
	}
	table = strings.ToLower(sc.toks[start].text)
	i := start + 1
	if sc.wordIs(i, "AS") {
		i++
	}
	if i < end && i < len(sc.toks) && sc.toks[i].kind == tokWord {
		w := strings.ToUpper(sc.toks[i].text)
		if !joinModifiers[w] && w != "ON" && w != "JOIN" {
			alias = strings.ToLower(sc.toks[i].text)
		}
	}
	return table, alias
}

func parseJoin(sc *scanner, js joinStart, segEnd int) JoinClause {
	j := JoinClause{Type: js.joinType}
	i := js.joinWord + 1
	if i >= segEnd || i >= len(sc.toks) || sc.toks[i].kind != tokWord {
		return j
	}
	j.Table = strings.ToLower(sc.toks[i].text)
	i++
	if sc.wordIs(i, "AS") {
		i++
	}
	if i < segEnd && i < len(sc.toks) && sc.toks[i].kind == tokWord && !sc.wordIs(i, "ON") {
		j.Alias = strings.ToLower(sc.toks[i].text)
		i++
	}
	if sc.wordIs(i, "ON") {
		j.On = sc.text(i+1, segEnd)
	}
	return j
}

// extractConditions splits a predicate region on top-level AND/OR and
// parses each piece. OR segments are kept in the same list; the
// executor applies the whole list conjunctively, matching the teaching
// tool's simplified WHERE semantics.
func extractConditions(sc *scanner, start, end int) []Condition {
	var out []Condition
	segStart := start
	flush := func(to int) {
		if c, ok := parseCondition(sc, segStart, to); ok {
			out = append(out, c)
		}
	}
	for i := start; i < end && i < len(sc.toks); i++ {
		if sc.depth[i] == 0 && (sc.wordIs(i, "AND") || sc.wordIs(i, "OR")) {
			flush(i)
			segStart = i + 1
		}
	}
	flush(end)
	return out
}

// parseCondition recognizes one predicate of the supported shapes:
// col op literal, col LIKE 'pat', col IN (...), col IS [NOT] NULL.
func parseCondition(sc *scanner, start, end int) (Condition, bool) {
	if start >= end || start >= len(sc.toks) || sc.toks[start].kind != tokWord {
		return Condition{}, false
	}
	c := Condition{Column: strings.ToLower(sc.toks[start].text)}
	i := start + 1
	if i >= end || i >= len(sc.toks) {
		return Condition{}, false
	}

	switch {
	case sc.wordIs(i, "IS"):
		if sc.wordIs(i+1, "NOT") && sc.wordIs(i+2, "NULL") {
			c.Op = "IS NOT NULL"
			return c, true
		}
		if sc.wordIs(i+1, "NULL") {
			c.Op = "IS NULL"
			return c, true
		}
		return Condition{}, false

	case sc.wordIs(i, "LIKE"):
		if i+1 >= end || i+1 >= len(sc.toks) {
			return Condition{}, false
		}
		c.Op = "LIKE"
		c.Value = types.NewText(sc.toks[i+1].text)
		return c, true

	case sc.wordIs(i, "IN"):
		if i+1 >= len(sc.toks) || sc.toks[i+1].kind != tokLParen {
			return Condition{}, false
		}
		close := sc.matchParen(i + 1)
		if close < 0 {
			return Condition{}, false
		}
		c.Op = "IN"
		for _, r := range sc.splitCommas(i+2, close) {
			if v, ok := literalRange(sc, r[0], r[1]); ok {
				c.Values = append(c.Values, v)
			}
		}
		return c, true

	case sc.toks[i].kind == tokOp && comparisonOps[sc.toks[i].text]:
		c.Op = sc.toks[i].text
		v, ok := literalRange(sc, i+1, end)
		if !ok {
			return Condition{}, false
		}
		c.Value = v
		return c, true
	}

	return Condition{}, false
}

// extractHaving parses aggregate comparisons like "COUNT(*) > 2",
// split on top-level AND.
func extractHaving(sc *scanner, start, end int) []HavingCondition {
	var out []HavingCondition
	segStart := start
	flush := func(to int) {
		if h, ok := parseHavingTerm(sc, segStart, to); ok {
			out = append(out, h)
		}
	}
	for i := start; i < end && i < len(sc.toks); i++ {
		if sc.depth[i] == 0 && sc.wordIs(i, "AND") {
			flush(i)
			segStart = i + 1
		}
	}
	flush(end)
	return out
}

func parseHavingTerm(sc *scanner, start, end int) (HavingCondition, bool) {
	opIdx := -1
	for i := start; i < end && i < len(sc.toks); i++ {
		if sc.depth[i] == 0 && sc.toks[i].kind == tokOp && comparisonOps[sc.toks[i].text] {
			opIdx = i
			break
		}
	}
	if opIdx < 0 || opIdx == start {
		return HavingCondition{}, false
	}
	v, ok := literalRange(sc, opIdx+1, end)
	if !ok {
		return HavingCondition{}, false
	}
	return HavingCondition{
		Expr:  sc.text(start, opIdx),
		Op:    sc.toks[opIdx].text,
		Value: v,
	}, true
}

func parseOrderTerm(sc *scanner, start, end int) (OrderBy, bool) {
	if start >= end || start >= len(sc.toks) {
		return OrderBy{}, false
	}
	last := end - 1
	if last >= len(sc.toks) {
		last = len(sc.toks) - 1
	}
	ob := OrderBy{}
	if sc.wordIs(last, "DESC") {
		ob.Desc = true
		end = last
	} else if sc.wordIs(last, "ASC") {
		end = last
	}
	col := sc.text(start, end)
	if col == "" {
		return OrderBy{}, false
	}
	ob.Column = strings.ToLower(col)
	return ob, true
}

// literalRange parses a literal value from the token range, handling
// a leading unary minus.
func literalRange(sc *scanner, start, end int) (types.Value, bool) {
	if start >= end || start >= len(sc.toks) {
		return types.NewNull(), false
	}
	t := sc.toks[start]
	if t.kind == tokOp && t.text == "-" && start+1 < end && start+1 < len(sc.toks) && sc.toks[start+1].kind == tokNumber {
		v := numberValue(sc.toks[start+1].text)
		neg, _ := v.Arith('*', types.NewInt(-1))
		return neg, true
	}
	return literalValue(t)
}

func literalValue(t tok) (types.Value, bool) {
	switch t.kind {
	case tokNumber:
		return numberValue(t.text), true
	case tokString:
		return types.NewText(t.text), true
	case tokWord:
		switch strings.ToUpper(t.text) {
		case "TRUE":
			return types.NewBool(true), true
		case "FALSE":
			return types.NewBool(false), true
		case "NULL":
			return types.NewNull(), true
		default:
			// Bare words compare as text, the way the teaching tool
			// treated unquoted values.
			return types.NewText(t.text), true
		}
	default:
		return types.NewNull(), false
	}
}

func numberValue(s string) types.Value {
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return types.NewNull()
		}
		return types.NewFloat(f)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return types.NewNull()
	}
	return types.NewInt(n)
}
