// pkg/sql/parser/ast.go
package parser

import "sqlscope/pkg/types"

// QueryKind classifies a statement by its leading keyword. Only
// SELECT statements are executable; the rest are recognized so the
// executor can report them as unsupported instead of guessing.
type QueryKind int

const (
	KindUnknown QueryKind = iota
	KindSelect
	KindInsert
	KindUpdate
	KindDelete
)

func (k QueryKind) String() string {
	switch k {
	case KindSelect:
		return "SELECT"
	case KindInsert:
		return "INSERT"
	case KindUpdate:
		return "UPDATE"
	case KindDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// Condition is one WHERE predicate: column, operator, comparison value.
// For IN the value list is in Values; for IS [NOT] NULL the value is
// unused.
type Condition struct {
	Column string
	Op     string // =, <>, !=, <, >, <=, >=, LIKE, IN, IS NULL, IS NOT NULL
	Value  types.Value
	Values []types.Value // IN list
}

// HavingCondition is a post-aggregation predicate. Expr is the raw
// aggregate expression text, e.g. "COUNT(*)" or "SUM(salary)".
type HavingCondition struct {
	Expr  string
	Op    string
	Value types.Value
}

// OrderBy is one ORDER BY term.
type OrderBy struct {
	Column string
	Desc   bool
}

// JoinClause is one JOIN target with its raw ON condition text.
type JoinClause struct {
	Type  string // INNER, LEFT, RIGHT, CROSS
	Table string
	Alias string
	On    string
}

// CTEDefinition is one named sub-query from a WITH prefix. Recursive
// is set when the definition references its own name.
type CTEDefinition struct {
	Name      string
	Query     string
	Columns   []string
	Recursive bool
}

// ParsedQuery is the structured form of one SQL string. Parse never
// fails: unrecognized structure leaves the affected fields empty and
// the executor decides what to report.
type ParsedQuery struct {
	Kind      QueryKind
	Raw       string
	Main      string // main query text with any WITH prefix removed
	Tables    []string
	Columns   []string // raw select-list expressions, "*" for a bare star
	Where     []Condition
	GroupBy   []string
	Having    []HavingCondition
	OrderBy   []OrderBy
	Limit     int // -1 when absent
	Joins     []JoinClause
	CTEs      []CTEDefinition
	Recursive bool
	Aliases   map[string]string // alias -> table name
}

// HasLimit reports whether the query carries a LIMIT clause.
func (q *ParsedQuery) HasLimit() bool { return q.Limit >= 0 }

// SelectsStar reports whether the select list is a bare "*".
func (q *ParsedQuery) SelectsStar() bool {
	return len(q.Columns) == 1 && q.Columns[0] == "*"
}
