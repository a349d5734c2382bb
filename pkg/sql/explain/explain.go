// pkg/sql/explain/explain.go

// Package explain simulates EXPLAIN output: per-table access-path
// classification with row estimates and teaching annotations. The
// estimates are deliberately heuristic; everything numeric lives in
// the cost model.
package explain

import (
	"fmt"
	"strings"

	"sqlscope/pkg/dataset"
	"sqlscope/pkg/sql/parser"
)

// Severity grades an annotation.
const (
	SeverityInfo    = "info"
	SeverityCaution = "caution"
	SeverityWarning = "warning"
)

// Row is one table's entry in the simulated EXPLAIN output.
type Row struct {
	ID           int
	SelectType   string
	Table        string
	AccessType   string
	PossibleKeys []string
	Key          string // "" when no index is used
	KeyLen       int
	Ref          string
	Rows         int
	Filtered     float64
	Extra        []string
}

// Rating grades the access type: good, caution, or bad.
func (r *Row) Rating() string {
	switch r.AccessType {
	case AccessConst, AccessEqRef, AccessRef, AccessRange:
		return "good"
	case AccessIndex:
		return "caution"
	case AccessAll:
		return "bad"
	default:
		return "caution"
	}
}

// Annotation is a severity-tagged explanation of one EXPLAIN field,
// with a concrete remediation when the severity is elevated.
type Annotation struct {
	Field          string
	Value          string
	Explanation    string
	Recommendation string
	Severity       string
}

// Schema is the index and table metadata the estimator reads.
type Schema interface {
	Table(name string) (*dataset.Table, bool)
	Indexes(name string) []dataset.Index
}

// Explain parses and analyzes one query.
func Explain(sql string, schema Schema) ([]Row, []Annotation) {
	return ExplainParsed(parser.Parse(sql), schema)
}

// ExplainParsed analyzes an already-parsed query: one Row per table in
// FROM/JOIN order, plus annotations.
func ExplainParsed(q *parser.ParsedQuery, schema Schema) ([]Row, []Annotation) {
	var rows []Row
	var notes []Annotation

	for i, table := range q.Tables {
		total := 0
		if t, ok := schema.Table(table); ok {
			total = len(t.Rows)
		}
		indexes := schema.Indexes(table)

		access, key := classify(q, table, i > 0, indexes)

		possible := make([]string, 0, len(indexes))
		for _, ix := range indexes {
			possible = append(possible, ix.Name)
		}

		row := Row{
			ID:           i + 1,
			SelectType:   selectType(q),
			Table:        table,
			AccessType:   access,
			PossibleKeys: possible,
			Key:          key,
			Rows:         defaultCost.rows(access, total),
			Filtered:     defaultCost.filtered(len(q.Where)),
			Extra:        extraNotes(q, access),
		}
		if key != "" {
			row.KeyLen = 4 * len(key)
			if access == AccessConst || access == AccessRef || access == AccessEqRef {
				row.Ref = "const"
			}
		}
		rows = append(rows, row)
		notes = append(notes, annotate(row, q)...)
	}

	return rows, notes
}

func selectType(q *parser.ParsedQuery) string {
	if len(q.CTEs) > 0 {
		return "PRIMARY"
	}
	return "SIMPLE"
}

// classify picks the access type and index for one table. Join targets
// reached through a unique index classify as eq_ref; WHERE predicates
// drive const/ref/range; a select list fully covered by indexed
// columns allows an index-only scan; everything else is a full scan.
func classify(q *parser.ParsedQuery, table string, joined bool, indexes []dataset.Index) (string, string) {
	byColumn := make(map[string]dataset.Index, len(indexes))
	for _, ix := range indexes {
		byColumn[ix.Column] = ix
	}

	if joined {
		if col := joinColumnFor(q, table); col != "" {
			if ix, ok := byColumn[col]; ok {
				if ix.Unique {
					return AccessEqRef, ix.Name
				}
				return AccessRef, ix.Name
			}
		}
	}

	for _, c := range q.Where {
		ix, ok := byColumn[bareColumn(c.Column)]
		if !ok {
			continue
		}
		switch c.Op {
		case "=":
			if ix.Unique {
				return AccessConst, ix.Name
			}
			return AccessRef, ix.Name
		case ">", "<", ">=", "<=":
			return AccessRange, ix.Name
		}
	}

	if !q.SelectsStar() && len(q.Columns) > 0 && coveredByIndexes(q.Columns, byColumn) {
		return AccessIndex, indexes[0].Name
	}

	return AccessAll, ""
}

// joinColumnFor finds the column of this table named in its join's ON
// clause.
func joinColumnFor(q *parser.ParsedQuery, table string) string {
	for _, j := range q.Joins {
		if j.Table != table {
			continue
		}
		names := []string{j.Table}
		if j.Alias != "" {
			names = append(names, j.Alias)
		}
		for _, side := range strings.SplitN(j.On, "=", 2) {
			ref := strings.ToLower(strings.TrimSpace(side))
			i := strings.LastIndexByte(ref, '.')
			if i < 0 {
				continue
			}
			for _, n := range names {
				if ref[:i] == n {
					return ref[i+1:]
				}
			}
		}
	}
	return ""
}

func coveredByIndexes(columns []string, byColumn map[string]dataset.Index) bool {
	for _, expr := range columns {
		name := bareColumn(strings.ToLower(strings.TrimSpace(expr)))
		if _, ok := byColumn[name]; !ok {
			return false
		}
	}
	return true
}

func bareColumn(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func extraNotes(q *parser.ParsedQuery, access string) []string {
	var extra []string
	if len(q.Where) > 0 && access == AccessAll {
		extra = append(extra, "Using where")
	}
	if len(q.OrderBy) > 0 {
		extra = append(extra, "Using filesort")
	}
	if len(q.GroupBy) > 0 && len(q.OrderBy) > 0 {
		extra = append(extra, "Using temporary")
	}
	if access == AccessRange {
		extra = append(extra, "Using index condition")
	}
	return extra
}

var accessExplanations = map[string]string{
	AccessConst: "One row match using a PRIMARY KEY or UNIQUE index. Very efficient.",
	AccessEqRef: "One row read per join using a unique index.",
	AccessRef:   "All rows with a matching index value are read. Good for non-unique indexes.",
	AccessRange: "Index range scan. Retrieves rows in a given range.",
	AccessIndex: "Full index scan. Reads the entire index, better than ALL.",
	AccessAll:   "Full table scan. Reads every row in the table. Usually bad for large tables.",
}

func annotate(row Row, q *parser.ParsedQuery) []Annotation {
	var notes []Annotation

	typeNote := Annotation{
		Field:       "type",
		Value:       row.AccessType,
		Explanation: accessExplanations[row.AccessType],
		Severity:    SeverityInfo,
	}
	if row.AccessType == AccessAll {
		typeNote.Severity = SeverityWarning
		if col := firstWhereColumn(q); col != "" {
			typeNote.Recommendation = fmt.Sprintf(
				"Add an index: CREATE INDEX idx_%s_%s ON %s (%s)", row.Table, col, row.Table, col)
		} else {
			typeNote.Recommendation = "Consider adding an index on the filtered columns"
		}
	}
	notes = append(notes, typeNote)

	if row.Key != "" {
		notes = append(notes, Annotation{
			Field:       "key",
			Value:       row.Key,
			Explanation: fmt.Sprintf("Using index %q to find rows", row.Key),
			Severity:    SeverityInfo,
		})
	} else if len(row.PossibleKeys) > 0 {
		notes = append(notes, Annotation{
			Field:          "key",
			Value:          "NULL",
			Explanation:    "No index used despite available indexes",
			Recommendation: "The query's conditions do not match any indexed column",
			Severity:       SeverityCaution,
		})
	}

	rowsNote := Annotation{
		Field:       "rows",
		Value:       fmt.Sprintf("%d", row.Rows),
		Explanation: fmt.Sprintf("Estimated %d rows examined", row.Rows),
		Severity:    SeverityInfo,
	}
	if row.Rows > 100 {
		rowsNote.Severity = SeverityCaution
	}
	notes = append(notes, rowsNote)

	for _, item := range row.Extra {
		switch item {
		case "Using filesort":
			notes = append(notes, Annotation{
				Field:          "Extra",
				Value:          item,
				Explanation:    "An extra sorting pass is needed",
				Recommendation: "An index matching the ORDER BY columns would avoid the sort",
				Severity:       SeverityCaution,
			})
		case "Using temporary":
			notes = append(notes, Annotation{
				Field:          "Extra",
				Value:          item,
				Explanation:    "A temporary table is created for this query",
				Recommendation: "Usually caused by GROUP BY and ORDER BY on different columns",
				Severity:       SeverityCaution,
			})
		case "Using where":
			notes = append(notes, Annotation{
				Field:       "Extra",
				Value:       item,
				Explanation: "Rows are filtered after being read from the table",
				Severity:    SeverityInfo,
			})
		}
	}

	return notes
}

func firstWhereColumn(q *parser.ParsedQuery) string {
	if len(q.Where) == 0 {
		return ""
	}
	return bareColumn(q.Where[0].Column)
}
