// pkg/sql/executor/cte.go
package executor

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"sqlscope/pkg/sql/parser"
	"sqlscope/pkg/types"
)

// materializeCTEs executes each WITH definition in order and registers
// the result as a virtual table. Definitions may reference earlier
// ones; a forward reference reads as an unknown table.
func (e *Executor) materializeCTEs(ctes []parser.CTEDefinition, res *Result) ([]CTEInfo, error) {
	infos := make([]CTEInfo, 0, len(ctes))
	for _, cte := range ctes {
		var (
			rows []*types.Row
			cols []string
			err  error
		)
		if cte.Recursive {
			rows, cols, err = e.runRecursiveCTE(cte, res)
		} else {
			rows, cols, err = e.runSimpleCTE(cte)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "cte %q", cte.Name)
		}

		e.cteRows[cte.Name] = rows
		e.cteCols[cte.Name] = cols
		e.cteSeq = append(e.cteSeq, cte.Name)

		infos = append(infos, CTEInfo{
			Name:      cte.Name,
			RowCount:  len(rows),
			Columns:   cols,
			Recursive: cte.Recursive,
		})
	}
	return infos, nil
}

func (e *Executor) runSimpleCTE(cte parser.CTEDefinition) ([]*types.Row, []string, error) {
	parsed := parser.Parse(cte.Query)
	if err := e.validate(parsed); err != nil {
		return nil, nil, err
	}
	rows, cols, err := e.run(parsed)
	if err != nil {
		return nil, nil, err
	}
	if len(cte.Columns) > 0 {
		rows, cols = renameColumns(rows, cols, cte.Columns)
	}
	return rows, cols, nil
}

// runRecursiveCTE evaluates anchor UNION ALL recursive-member by
// fixpoint iteration: the anchor seeds the working set, then the
// recursive member re-runs against the previous iteration's rows until
// it produces nothing or the depth ceiling is hit. Hitting the ceiling
// truncates the result and records a warning rather than failing.
func (e *Executor) runRecursiveCTE(cte parser.CTEDefinition, res *Result) ([]*types.Row, []string, error) {
	anchorSQL, recurSQL, ok := parser.SplitUnionAll(cte.Query)
	if !ok {
		// Self-reference without UNION ALL; treat as a plain CTE.
		return e.runSimpleCTE(cte)
	}

	anchor := parser.Parse(anchorSQL)
	if err := e.validate(anchor); err != nil {
		return nil, nil, err
	}
	rows, cols, err := e.run(anchor)
	if err != nil {
		return nil, nil, errors.Wrap(err, "anchor")
	}
	if len(cte.Columns) > 0 {
		rows, cols = renameColumns(rows, cols, cte.Columns)
	}
	if len(rows) == 0 {
		return rows, cols, nil
	}

	all := rows
	current := rows

	for depth := 0; ; depth++ {
		if depth >= e.maxDepth {
			if res != nil {
				res.Warnings = append(res.Warnings, fmt.Sprintf(
					"recursive cte %q stopped after %d iterations; results are truncated", cte.Name, e.maxDepth))
			}
			break
		}

		// The recursive member sees only the previous iteration.
		e.cteRows[cte.Name] = current
		e.cteCols[cte.Name] = cols

		recur := parser.Parse(recurSQL)
		next, nextCols, err := e.run(recur)
		if err != nil {
			return nil, nil, errors.Wrap(err, "recursive member")
		}
		if len(next) == 0 {
			break
		}

		// Column identity is positional: the recursive member's i-th
		// output feeds the anchor's i-th column.
		mapped := make([]*types.Row, 0, len(next))
		for _, r := range next {
			nr := types.NewRow()
			for i, c := range cols {
				if i < len(nextCols) {
					nr.Set(c, r.Value(nextCols[i]))
				} else {
					nr.Set(c, types.NewNull())
				}
			}
			mapped = append(mapped, nr)
		}

		all = append(all, mapped...)
		current = mapped
	}

	// The finished CTE exposes every accumulated row. Registration in
	// cteSeq is the caller's job.
	e.cteRows[cte.Name] = all
	e.cteCols[cte.Name] = cols
	return all, cols, nil
}

// renameColumns applies an explicit CTE column list positionally.
func renameColumns(rows []*types.Row, cols, names []string) ([]*types.Row, []string) {
	out := make([]*types.Row, 0, len(rows))
	for _, r := range rows {
		nr := types.NewRow()
		for i, name := range names {
			if i < len(cols) {
				nr.Set(name, r.Value(cols[i]))
			} else {
				nr.Set(name, types.NewNull())
			}
		}
		out = append(out, nr)
	}
	lower := make([]string, len(names))
	for i, n := range names {
		lower[i] = strings.ToLower(n)
	}
	return out, lower
}
