// pkg/sql/executor/executor.go

// Package executor runs parsed SELECT queries against an in-memory
// dataset. The pipeline is the logical SQL order: scan, joins, WHERE,
// GROUP BY, HAVING, ORDER BY, LIMIT, projection. CTEs are materialized
// up front as virtual tables, recursive ones by fixpoint iteration.
package executor

import (
	"strings"
	"time"

	"sqlscope/pkg/dataset"
	"sqlscope/pkg/sql/parser"
	"sqlscope/pkg/sql/sqlerrors"
	"sqlscope/pkg/types"
)

// DefaultMaxRecursionDepth bounds recursive CTE iteration when the
// caller does not set one.
const DefaultMaxRecursionDepth = 100

// Options configures an Executor.
type Options struct {
	// MaxRecursionDepth caps recursive CTE iterations. Zero means
	// DefaultMaxRecursionDepth.
	MaxRecursionDepth int
}

// Catalog is the table source the executor reads from.
type Catalog interface {
	Table(name string) (*dataset.Table, bool)
	Tables() []string
	Columns(name string) []string
}

// CTEInfo summarizes one materialized CTE.
type CTEInfo struct {
	Name      string
	RowCount  int
	Columns   []string
	Recursive bool
}

// Result is the outcome of one query execution.
type Result struct {
	Rows     []*types.Row
	Columns  []string
	RowCount int
	Elapsed  time.Duration
	Query    string
	Warnings []string
	CTEs     []CTEInfo
}

// Executor runs queries against a catalog. It is not safe for
// concurrent use; each Execute call resets the CTE registry.
type Executor struct {
	catalog  Catalog
	maxDepth int

	cteRows map[string][]*types.Row
	cteCols map[string][]string
	cteSeq  []string
}

// New creates an executor over the given catalog.
func New(catalog Catalog, opts Options) *Executor {
	depth := opts.MaxRecursionDepth
	if depth <= 0 {
		depth = DefaultMaxRecursionDepth
	}
	return &Executor{catalog: catalog, maxDepth: depth}
}

// Execute parses and runs one query. Errors are *sqlerrors.Error for
// anything the user can fix.
func (e *Executor) Execute(query string) (*Result, error) {
	start := time.Now()

	e.cteRows = make(map[string][]*types.Row)
	e.cteCols = make(map[string][]string)
	e.cteSeq = nil

	if strings.TrimSpace(query) == "" {
		return nil, sqlerrors.NewEmptyQuery()
	}

	parsed := parser.Parse(query)

	res := &Result{Query: query}

	if len(parsed.CTEs) > 0 {
		infos, err := e.materializeCTEs(parsed.CTEs, res)
		if err != nil {
			return nil, err
		}
		res.CTEs = infos
	}

	if err := e.validate(parsed); err != nil {
		return nil, err
	}

	rows, cols, err := e.run(parsed)
	if err != nil {
		return nil, err
	}

	res.Rows = rows
	res.Columns = cols
	res.RowCount = len(rows)
	res.Elapsed = time.Since(start)
	return res, nil
}

// validate checks the main query against the catalog and the CTE
// registry before running it.
func (e *Executor) validate(q *parser.ParsedQuery) error {
	switch q.Kind {
	case parser.KindSelect:
	case parser.KindInsert, parser.KindUpdate, parser.KindDelete:
		return sqlerrors.NewUnsupported(
			q.Kind.String()+" statements",
			"This engine is read-only; query the sample tables with SELECT.")
	default:
		return sqlerrors.NewSyntax(q.Raw)
	}

	// A SELECT with no FROM evaluates literals.
	if len(q.Tables) == 0 {
		return nil
	}

	known := append(e.catalog.Tables(), e.cteSeq...)
	for _, t := range q.Tables {
		if !containsFold(known, t) {
			return sqlerrors.NewUnknownTable(t, known)
		}
	}

	avail := e.availableColumns(q.Tables)
	if !q.SelectsStar() {
		for _, expr := range q.Columns {
			name := baseColumnName(expr)
			if name == "" || name == "*" || isAggregate(expr) {
				continue
			}
			if !containsFold(avail, name) && !looksLikeLiteral(name) {
				return sqlerrors.NewUnknownColumn(name, q.Tables[0], avail)
			}
		}
	}
	for _, c := range q.Where {
		name := bareColumn(c.Column)
		if name != "" && !containsFold(avail, name) {
			return sqlerrors.NewUnknownColumn(name, q.Tables[0], avail)
		}
	}
	return nil
}

// availableColumns collects the columns of the named tables, CTEs
// first since they shadow base tables.
func (e *Executor) availableColumns(tables []string) []string {
	var out []string
	for _, t := range tables {
		name := strings.ToLower(t)
		if cols, ok := e.cteCols[name]; ok {
			out = append(out, cols...)
			continue
		}
		out = append(out, e.catalog.Columns(name)...)
	}
	return out
}

// tableData returns the rows and columns for a table name, checking
// the CTE registry before the catalog. Rows are shared, not copied;
// the pipeline never mutates source rows.
func (e *Executor) tableData(name string) ([]*types.Row, []string) {
	lower := strings.ToLower(name)
	if rows, ok := e.cteRows[lower]; ok {
		return rows, e.cteCols[lower]
	}
	if t, ok := e.catalog.Table(lower); ok {
		return t.Rows, t.Columns
	}
	return nil, nil
}

// run executes the SELECT pipeline for one parsed query.
func (e *Executor) run(q *parser.ParsedQuery) ([]*types.Row, []string, error) {
	if len(q.Tables) == 0 {
		return literalSelect(q)
	}

	primary := q.Tables[0]
	rows, _ := e.tableData(primary)

	leftNames := []string{strings.ToLower(primary)}
	if a := aliasFor(q, primary); a != "" {
		leftNames = append(leftNames, a)
	}
	for _, j := range q.Joins {
		rightRows, rightCols := e.tableData(j.Table)
		rows = applyJoin(rows, rightRows, rightCols, j, leftNames)
		leftNames = append(leftNames, j.Table)
		if j.Alias != "" {
			leftNames = append(leftNames, j.Alias)
		}
	}

	if len(q.Where) > 0 {
		rows = filterRows(rows, q.Where)
	}

	if len(q.GroupBy) > 0 {
		rows = groupRows(rows, q.GroupBy, q.Columns)
	} else if hasAggregates(q.Columns) {
		rows = aggregateAll(rows, q.Columns)
	}

	if len(q.Having) > 0 {
		rows = filterHaving(rows, q.Having)
	}

	if len(q.OrderBy) > 0 {
		sortRows(rows, q.OrderBy)
	}

	if q.HasLimit() && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}

	return e.project(rows, q, primary)
}

// aliasFor finds the alias bound to a table, "" when none.
func aliasFor(q *parser.ParsedQuery, table string) string {
	for a, t := range q.Aliases {
		if t == strings.ToLower(table) {
			return a
		}
	}
	return ""
}

// project maps pipeline rows onto the requested select list.
func (e *Executor) project(rows []*types.Row, q *parser.ParsedQuery, primary string) ([]*types.Row, []string, error) {
	if q.SelectsStar() {
		cols := e.starColumns(primary, rows)
		out := make([]*types.Row, 0, len(rows))
		for _, r := range rows {
			nr := types.NewRow()
			for _, c := range cols {
				nr.Set(c, r.Value(c))
			}
			out = append(out, nr)
		}
		return out, cols, nil
	}

	cols := make([]string, len(q.Columns))
	for i, expr := range q.Columns {
		if _, alias, ok := splitAlias(expr); ok {
			cols[i] = alias
		} else {
			cols[i] = expr
		}
	}

	out := make([]*types.Row, 0, len(rows))
	for _, r := range rows {
		nr := types.NewRow()
		for i, expr := range q.Columns {
			nr.Set(cols[i], evaluate(expr, r))
		}
		out = append(out, nr)
	}
	return out, cols, nil
}

// starColumns resolves "*" to the primary table's column list, falling
// back to the first row's columns for derived inputs.
func (e *Executor) starColumns(primary string, rows []*types.Row) []string {
	lower := strings.ToLower(primary)
	if cols, ok := e.cteCols[lower]; ok {
		return cols
	}
	if cols := e.catalog.Columns(lower); cols != nil {
		return cols
	}
	if len(rows) > 0 {
		return rows[0].Columns()
	}
	return nil
}

// literalSelect evaluates a FROM-less select list, e.g. SELECT 1 AS n.
func literalSelect(q *parser.ParsedQuery) ([]*types.Row, []string, error) {
	if q.SelectsStar() {
		return nil, nil, sqlerrors.NewNoTables(q.Raw)
	}
	row := types.NewRow()
	var cols []string
	for _, expr := range q.Columns {
		valText, name, ok := splitAlias(expr)
		if !ok {
			valText, name = expr, expr
		}
		row.Set(name, literal(valText))
		cols = append(cols, name)
	}
	return []*types.Row{row}, cols, nil
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// bareColumn strips a table qualifier.
func bareColumn(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// baseColumnName extracts the column a select expression refers to:
// the qualifier-stripped name, the aliased source, or a function's
// argument. Empty for expressions with no single source column.
func baseColumnName(expr string) string {
	if src, _, ok := splitAlias(expr); ok {
		expr = src
	}
	if open := strings.IndexByte(expr, '('); open >= 0 {
		close := strings.LastIndexByte(expr, ')')
		if close <= open {
			return ""
		}
		inner := strings.TrimSpace(expr[open+1 : close])
		if inner == "*" {
			return ""
		}
		return bareColumn(inner)
	}
	if strings.ContainsAny(expr, "+-*/") {
		return ""
	}
	return bareColumn(strings.TrimSpace(expr))
}

// looksLikeLiteral reports whether the name is a numeric or quoted
// literal rather than a column reference.
func looksLikeLiteral(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return c == '\'' || c == '"' || (c >= '0' && c <= '9')
}
