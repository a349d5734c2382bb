package parser

import (
	"testing"

	"sqlscope/pkg/types"
)

func TestParse_BasicSelect(t *testing.T) {
	q := Parse("SELECT id, name FROM employees WHERE salary > 70000 ORDER BY name DESC LIMIT 5")

	if q.Kind != KindSelect {
		t.Fatalf("kind = %v", q.Kind)
	}
	if len(q.Tables) != 1 || q.Tables[0] != "employees" {
		t.Errorf("tables = %v", q.Tables)
	}
	if len(q.Columns) != 2 || q.Columns[0] != "id" || q.Columns[1] != "name" {
		t.Errorf("columns = %v", q.Columns)
	}
	if len(q.Where) != 1 {
		t.Fatalf("where = %v", q.Where)
	}
	w := q.Where[0]
	if w.Column != "salary" || w.Op != ">" || w.Value.Int() != 70000 {
		t.Errorf("condition = %+v", w)
	}
	if len(q.OrderBy) != 1 || q.OrderBy[0].Column != "name" || !q.OrderBy[0].Desc {
		t.Errorf("order by = %v", q.OrderBy)
	}
	if q.Limit != 5 {
		t.Errorf("limit = %d", q.Limit)
	}
}

func TestParse_StarAndCase(t *testing.T) {
	q := Parse("select * from Employees")
	if !q.SelectsStar() {
		t.Errorf("columns = %v, want *", q.Columns)
	}
	if len(q.Tables) != 1 || q.Tables[0] != "employees" {
		t.Errorf("tables = %v, want lowercased employees", q.Tables)
	}
}

func TestParse_CommasInsideFunctionsDoNotSplit(t *testing.T) {
	q := Parse("SELECT name, ROUND(salary, 2) AS pay, COUNT(*) FROM employees")
	want := []string{"name", "ROUND(salary, 2) AS pay", "COUNT(*)"}
	if len(q.Columns) != len(want) {
		t.Fatalf("columns = %v, want %v", q.Columns, want)
	}
	for i := range want {
		if q.Columns[i] != want[i] {
			t.Errorf("column[%d] = %q, want %q", i, q.Columns[i], want[i])
		}
	}
}

func TestParse_WhereOperators(t *testing.T) {
	tests := []struct {
		sql    string
		column string
		op     string
	}{
		{"SELECT * FROM t WHERE a = 1", "a", "="},
		{"SELECT * FROM t WHERE a <> 1", "a", "<>"},
		{"SELECT * FROM t WHERE a != 1", "a", "!="},
		{"SELECT * FROM t WHERE a <= 10", "a", "<="},
		{"SELECT * FROM t WHERE a >= 10", "a", ">="},
		{"SELECT * FROM t WHERE name LIKE 'Al%'", "name", "LIKE"},
		{"SELECT * FROM t WHERE status IN ('pending', 'shipped')", "status", "IN"},
		{"SELECT * FROM t WHERE phone IS NULL", "phone", "IS NULL"},
		{"SELECT * FROM t WHERE phone IS NOT NULL", "phone", "IS NOT NULL"},
	}
	for _, tt := range tests {
		q := Parse(tt.sql)
		if len(q.Where) != 1 {
			t.Errorf("%s: got %d conditions", tt.sql, len(q.Where))
			continue
		}
		w := q.Where[0]
		if w.Column != tt.column || w.Op != tt.op {
			t.Errorf("%s: condition = %+v", tt.sql, w)
		}
	}
}

func TestParse_InValues(t *testing.T) {
	q := Parse("SELECT * FROM orders WHERE status IN ('pending', 'shipped', 'delivered')")
	if len(q.Where) != 1 || q.Where[0].Op != "IN" {
		t.Fatalf("where = %v", q.Where)
	}
	vals := q.Where[0].Values
	if len(vals) != 3 {
		t.Fatalf("IN values = %v", vals)
	}
	if vals[0].Text() != "pending" || vals[2].Text() != "delivered" {
		t.Errorf("IN values = %v", vals)
	}
}

func TestParse_MultipleAndConditions(t *testing.T) {
	q := Parse("SELECT * FROM employees WHERE salary > 50000 AND department_id = 2")
	if len(q.Where) != 2 {
		t.Fatalf("where = %v", q.Where)
	}
	if q.Where[0].Column != "salary" || q.Where[1].Column != "department_id" {
		t.Errorf("where = %v", q.Where)
	}
}

func TestParse_NullLiteralComparison(t *testing.T) {
	q := Parse("SELECT * FROM employees WHERE phone = NULL")
	if len(q.Where) != 1 {
		t.Fatalf("where = %v", q.Where)
	}
	if !q.Where[0].Value.IsNull() {
		t.Errorf("value = %v, want NULL", q.Where[0].Value)
	}
}

func TestParse_Joins(t *testing.T) {
	q := Parse(`SELECT e.name, d.name FROM employees e
		LEFT JOIN departments d ON e.department_id = d.id
		JOIN orders o ON o.employee_id = e.id`)

	if len(q.Tables) != 3 {
		t.Fatalf("tables = %v", q.Tables)
	}
	if len(q.Joins) != 2 {
		t.Fatalf("joins = %v", q.Joins)
	}
	if q.Joins[0].Type != "LEFT" || q.Joins[0].Table != "departments" || q.Joins[0].Alias != "d" {
		t.Errorf("join[0] = %+v", q.Joins[0])
	}
	if q.Joins[0].On != "e.department_id = d.id" {
		t.Errorf("join[0].On = %q", q.Joins[0].On)
	}
	if q.Joins[1].Type != "INNER" || q.Joins[1].Table != "orders" {
		t.Errorf("join[1] = %+v", q.Joins[1])
	}
	if q.Aliases["e"] != "employees" || q.Aliases["d"] != "departments" || q.Aliases["o"] != "orders" {
		t.Errorf("aliases = %v", q.Aliases)
	}
}

func TestParse_GroupByHaving(t *testing.T) {
	q := Parse("SELECT department_id, COUNT(*) FROM employees GROUP BY department_id HAVING COUNT(*) > 2")

	if len(q.GroupBy) != 1 || q.GroupBy[0] != "department_id" {
		t.Errorf("group by = %v", q.GroupBy)
	}
	if len(q.Having) != 1 {
		t.Fatalf("having = %v", q.Having)
	}
	h := q.Having[0]
	if h.Expr != "COUNT(*)" || h.Op != ">" || h.Value.Int() != 2 {
		t.Errorf("having = %+v", h)
	}
}

func TestParse_NonSelectKinds(t *testing.T) {
	tests := []struct {
		sql  string
		kind QueryKind
	}{
		{"INSERT INTO t VALUES (1)", KindInsert},
		{"UPDATE t SET a = 1", KindUpdate},
		{"DELETE FROM t", KindDelete},
		{"CREATE TABLE t (a INT)", KindUnknown},
		{"", KindUnknown},
	}
	for _, tt := range tests {
		if q := Parse(tt.sql); q.Kind != tt.kind {
			t.Errorf("%q: kind = %v, want %v", tt.sql, q.Kind, tt.kind)
		}
	}
}

func TestParse_LiteralSelectHasNoTables(t *testing.T) {
	q := Parse("SELECT 1 AS n")
	if q.Kind != KindSelect {
		t.Fatalf("kind = %v", q.Kind)
	}
	if len(q.Tables) != 0 {
		t.Errorf("tables = %v, want none", q.Tables)
	}
	if len(q.Columns) != 1 || q.Columns[0] != "1 AS n" {
		t.Errorf("columns = %v", q.Columns)
	}
}

func TestParse_NegativeLiteral(t *testing.T) {
	q := Parse("SELECT * FROM t WHERE balance < -100")
	if len(q.Where) != 1 {
		t.Fatalf("where = %v", q.Where)
	}
	if q.Where[0].Value.Int() != -100 {
		t.Errorf("value = %v, want -100", q.Where[0].Value)
	}
}

func TestParse_FloatLiteral(t *testing.T) {
	q := Parse("SELECT * FROM products WHERE price >= 599.99")
	if len(q.Where) != 1 {
		t.Fatalf("where = %v", q.Where)
	}
	v := q.Where[0].Value
	if v.Type() != types.TypeFloat || v.Float() != 599.99 {
		t.Errorf("value = %v", v)
	}
}

func TestParse_SubqueryKeywordsIgnored(t *testing.T) {
	// FROM/WHERE inside parentheses must not be mistaken for the
	// outer query's clauses.
	q := Parse("SELECT name FROM employees WHERE department_id IN (SELECT id FROM departments WHERE budget > 100)")
	if len(q.Tables) != 1 || q.Tables[0] != "employees" {
		t.Errorf("tables = %v", q.Tables)
	}
}
