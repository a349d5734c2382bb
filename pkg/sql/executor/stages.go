// pkg/sql/executor/stages.go
package executor

import (
	"fmt"
	"strings"

	"sqlscope/pkg/sql/parser"
	"sqlscope/pkg/sql/sqlerrors"
	"sqlscope/pkg/types"
)

// Stage is one step of the logical execution order, with the row
// counts flowing through it. Inactive stages are present so the full
// order is always visible.
type Stage struct {
	Name        string
	Clause      string
	Description string
	InputRows   int
	OutputRows  int
	Active      bool
}

// Simulate runs the query stage by stage and reports what each logical
// step did. The stage order is the order SQL evaluates clauses in, not
// the order they are written.
func (e *Executor) Simulate(query string) ([]Stage, error) {
	e.cteRows = make(map[string][]*types.Row)
	e.cteCols = make(map[string][]string)
	e.cteSeq = nil

	if strings.TrimSpace(query) == "" {
		return nil, sqlerrors.NewEmptyQuery()
	}

	q := parser.Parse(query)
	if len(q.CTEs) > 0 {
		if _, err := e.materializeCTEs(q.CTEs, &Result{}); err != nil {
			return nil, err
		}
	}
	if err := e.validate(q); err != nil {
		return nil, err
	}
	if len(q.Tables) == 0 {
		return nil, nil
	}

	var stages []Stage
	primary := q.Tables[0]
	rows, _ := e.tableData(primary)

	stages = append(stages, Stage{
		Name:        "FROM",
		Clause:      "FROM " + primary,
		Description: fmt.Sprintf("Load all %d rows from %s", len(rows), primary),
		OutputRows:  len(rows),
		Active:      true,
	})

	leftNames := []string{strings.ToLower(primary)}
	if a := aliasFor(q, primary); a != "" {
		leftNames = append(leftNames, a)
	}
	for _, j := range q.Joins {
		rightRows, rightCols := e.tableData(j.Table)
		before := len(rows)
		rows = applyJoin(rows, rightRows, rightCols, j, leftNames)
		leftNames = append(leftNames, j.Table)
		if j.Alias != "" {
			leftNames = append(leftNames, j.Alias)
		}
		stages = append(stages, Stage{
			Name:        "JOIN",
			Clause:      fmt.Sprintf("%s JOIN %s", j.Type, j.Table),
			Description: fmt.Sprintf("Join with %s (%d rows)", j.Table, len(rightRows)),
			InputRows:   before,
			OutputRows:  len(rows),
			Active:      true,
		})
	}

	if len(q.Where) > 0 {
		before := len(rows)
		rows = filterRows(rows, q.Where)
		stages = append(stages, Stage{
			Name:        "WHERE",
			Clause:      "WHERE " + describeConditions(q.Where),
			Description: fmt.Sprintf("Filter: %d rows -> %d rows", before, len(rows)),
			InputRows:   before,
			OutputRows:  len(rows),
			Active:      true,
		})
	} else {
		stages = append(stages, inactiveStage("WHERE", "No WHERE clause, every row passes through", len(rows)))
	}

	if len(q.GroupBy) > 0 {
		before := len(rows)
		rows = groupRows(rows, q.GroupBy, q.Columns)
		stages = append(stages, Stage{
			Name:        "GROUP BY",
			Clause:      "GROUP BY " + strings.Join(q.GroupBy, ", "),
			Description: fmt.Sprintf("Group %d rows into %d groups", before, len(rows)),
			InputRows:   before,
			OutputRows:  len(rows),
			Active:      true,
		})
	} else if hasAggregates(q.Columns) {
		before := len(rows)
		rows = aggregateAll(rows, q.Columns)
		stages = append(stages, Stage{
			Name:        "GROUP BY",
			Clause:      "GROUP BY (implicit)",
			Description: fmt.Sprintf("Aggregate %d rows into one group", before),
			InputRows:   before,
			OutputRows:  len(rows),
			Active:      true,
		})
	} else {
		stages = append(stages, inactiveStage("GROUP BY", "No grouping, rows remain individual", len(rows)))
	}

	if len(q.Having) > 0 {
		before := len(rows)
		rows = filterHaving(rows, q.Having)
		stages = append(stages, Stage{
			Name:        "HAVING",
			Clause:      "HAVING " + describeHaving(q.Having),
			Description: fmt.Sprintf("Filter groups: %d -> %d", before, len(rows)),
			InputRows:   before,
			OutputRows:  len(rows),
			Active:      true,
		})
	} else {
		stages = append(stages, inactiveStage("HAVING", "No HAVING, every group passes through", len(rows)))
	}

	desc := "Select all columns"
	if !q.SelectsStar() {
		desc = fmt.Sprintf("Project %d column(s)", len(q.Columns))
	}
	stages = append(stages, Stage{
		Name:        "SELECT",
		Clause:      "SELECT " + strings.Join(q.Columns, ", "),
		Description: desc,
		InputRows:   len(rows),
		OutputRows:  len(rows),
		Active:      true,
	})

	if len(q.OrderBy) > 0 {
		sortRows(rows, q.OrderBy)
		stages = append(stages, Stage{
			Name:        "ORDER BY",
			Clause:      "ORDER BY " + describeOrder(q.OrderBy),
			Description: fmt.Sprintf("Sort %d rows", len(rows)),
			InputRows:   len(rows),
			OutputRows:  len(rows),
			Active:      true,
		})
	} else {
		stages = append(stages, inactiveStage("ORDER BY", "No sorting applied", len(rows)))
	}

	if q.HasLimit() {
		before := len(rows)
		if len(rows) > q.Limit {
			rows = rows[:q.Limit]
		}
		stages = append(stages, Stage{
			Name:        "LIMIT",
			Clause:      fmt.Sprintf("LIMIT %d", q.Limit),
			Description: fmt.Sprintf("Take first %d of %d rows", q.Limit, before),
			InputRows:   before,
			OutputRows:  len(rows),
			Active:      true,
		})
	} else {
		stages = append(stages, inactiveStage("LIMIT", "Return all rows", len(rows)))
	}

	return stages, nil
}

func inactiveStage(name, desc string, rows int) Stage {
	return Stage{
		Name:        name,
		Clause:      name + " (none)",
		Description: desc,
		InputRows:   rows,
		OutputRows:  rows,
	}
}

func describeConditions(conds []parser.Condition) string {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		switch c.Op {
		case "IS NULL", "IS NOT NULL":
			parts = append(parts, c.Column+" "+c.Op)
		case "IN":
			vals := make([]string, 0, len(c.Values))
			for _, v := range c.Values {
				vals = append(vals, v.String())
			}
			parts = append(parts, fmt.Sprintf("%s IN (%s)", c.Column, strings.Join(vals, ", ")))
		default:
			parts = append(parts, fmt.Sprintf("%s %s %s", c.Column, c.Op, c.Value.String()))
		}
	}
	return strings.Join(parts, " AND ")
}

func describeHaving(conds []parser.HavingCondition) string {
	parts := make([]string, 0, len(conds))
	for _, h := range conds {
		parts = append(parts, fmt.Sprintf("%s %s %s", h.Expr, h.Op, h.Value.String()))
	}
	return strings.Join(parts, " AND ")
}

func describeOrder(terms []parser.OrderBy) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		dir := "ASC"
		if t.Desc {
			dir = "DESC"
		}
		parts = append(parts, t.Column+" "+dir)
	}
	return strings.Join(parts, ", ")
}
