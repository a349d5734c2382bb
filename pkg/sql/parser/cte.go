// pkg/sql/parser/cte.go
package parser

import "strings"

// extractCTEs peels a leading WITH [RECURSIVE] prefix into its named
// definitions and the main query. Each definition's body is located by
// matching its AS (...) parentheses at depth, so nested subqueries and
// nested CTE bodies cannot truncate the extraction. A definition is
// marked recursive when the WITH is RECURSIVE and the body mentions its
// own name.
//
// Returns (definitions, main query text, recursive flag). Unrecognized
// structure degrades to returning whatever was extracted so far with
// the remainder as the main query.
func extractCTEs(sql string) ([]CTEDefinition, string, bool) {
	sc := newScanner(sql)
	i := 0
	if !sc.wordIs(i, "WITH") {
		return nil, sql, false
	}
	i++
	recursive := false
	if sc.wordIs(i, "RECURSIVE") {
		recursive = true
		i++
	}

	var ctes []CTEDefinition
	for {
		if i >= len(sc.toks) || sc.toks[i].kind != tokWord {
			return ctes, sc.text(i, len(sc.toks)), recursive
		}
		name := strings.ToLower(sc.toks[i].text)
		i++

		// Optional explicit output column list: name (col, col, ...)
		var cols []string
		if i < len(sc.toks) && sc.toks[i].kind == tokLParen {
			close := sc.matchParen(i)
			if close < 0 {
				return ctes, "", recursive
			}
			for _, r := range sc.splitCommas(i+1, close) {
				if c := sc.text(r[0], r[1]); c != "" {
					cols = append(cols, strings.ToLower(c))
				}
			}
			i = close + 1
		}

		if !sc.wordIs(i, "AS") {
			return ctes, sc.text(i, len(sc.toks)), recursive
		}
		i++
		if i >= len(sc.toks) || sc.toks[i].kind != tokLParen {
			return ctes, sc.text(i, len(sc.toks)), recursive
		}
		close := sc.matchParen(i)
		if close < 0 {
			return ctes, "", recursive
		}
		body := sc.text(i+1, close)

		ctes = append(ctes, CTEDefinition{
			Name:      name,
			Query:     body,
			Columns:   cols,
			Recursive: recursive && containsWord(body, name),
		})
		i = close + 1

		if i < len(sc.toks) && sc.toks[i].kind == tokComma {
			i++
			continue
		}
		return ctes, sc.text(i, len(sc.toks)), recursive
	}
}

// SplitUnionAll splits a CTE body at its first top-level UNION ALL into
// anchor and recursive member texts. ok is false when the body has no
// top-level UNION ALL.
func SplitUnionAll(body string) (anchor, recur string, ok bool) {
	sc := newScanner(body)
	idx := sc.keyword(0, "UNION", "ALL")
	if idx < 0 {
		return "", "", false
	}
	return sc.text(0, idx), sc.text(idx+2, len(sc.toks)), true
}
