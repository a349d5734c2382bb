// pkg/sql/analyzer/analyzer.go

// Package analyzer bundles execution, anti-pattern detection, EXPLAIN
// simulation, and optimization suggestions into one report. A failed
// execution does not abort the rest of the analysis; the static checks
// still run on whatever parsed.
package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"sqlscope/pkg/dataset"
	"sqlscope/pkg/sql/executor"
	"sqlscope/pkg/sql/explain"
	"sqlscope/pkg/sql/parser"
	"sqlscope/pkg/sql/sqlerrors"
)

// Issue severities.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Overall ratings.
const (
	RatingGood     = "good"
	RatingWarning  = "warning"
	RatingCritical = "critical"
)

// Issue is one detected anti-pattern.
type Issue struct {
	Severity    string
	Title       string
	Description string
	Fix         string
}

// IndexRecommendation is one suggested index with ready-to-run DDL.
type IndexRecommendation struct {
	Type    string // "WHERE filter", "ORDER BY", "Composite", "Covering"
	Table   string
	Columns []string
	SQL     string
	Reason  string
}

// Rewrite is a suggested restructuring of the query.
type Rewrite struct {
	Pattern     string
	Rewritten   string
	Reason      string
	Improvement string
}

// Analysis is the full report for one query.
type Analysis struct {
	Parsed *parser.ParsedQuery
	Result *executor.Result
	Err    *sqlerrors.Error

	Issues          []Issue
	OverallSeverity string // good, warning, critical

	ExplainRows  []explain.Row
	Annotations  []explain.Annotation
	AccessRating string // good, caution, bad

	IndexRecommendations []IndexRecommendation
	Rewrites             []Rewrite
	OptimizedQuery       string // "" when no mechanical rewrite applies
	Tips                 []string
}

// Source is the catalog and index metadata the analyzer reads.
// *dataset.Dataset satisfies it.
type Source interface {
	executor.Catalog
	explain.Schema
}

// maxRecommendations caps the index suggestion list.
const maxRecommendations = 3

// Analyze runs the full pipeline on one query: parse, execute, detect
// issues, simulate EXPLAIN, and collect suggestions.
func Analyze(sql string, src Source) *Analysis {
	a := &Analysis{OverallSeverity: RatingGood, AccessRating: "good"}

	if strings.TrimSpace(sql) == "" {
		a.Err = sqlerrors.NewEmptyQuery()
		return a
	}

	a.Parsed = parser.Parse(sql)

	exec := executor.New(src, executor.Options{})
	res, err := exec.Execute(sql)
	if err != nil {
		if qe := sqlerrors.AsError(err); qe != nil {
			a.Err = qe
		} else {
			a.Err = sqlerrors.NewSyntax(sql)
		}
	} else {
		a.Result = res
	}

	a.Issues = detectIssues(sql, a.Parsed)
	a.OverallSeverity = overallSeverity(a.Issues)

	if len(a.Parsed.Tables) > 0 {
		a.ExplainRows, a.Annotations = explain.ExplainParsed(a.Parsed, src)
		a.AccessRating = accessRating(a.ExplainRows)
	}

	a.IndexRecommendations = recommendIndexes(a.Parsed, src)
	a.Rewrites = suggestRewrites(sql, a.Parsed)
	a.OptimizedQuery = optimizedQuery(sql, a.Issues)
	a.Tips = collectTips(a)

	return a
}

var (
	columnFuncs = []string{"YEAR(", "MONTH(", "DATE(", "UPPER(", "LOWER(", "CONCAT("}

	leadingWildcard = regexp.MustCompile(`(?i)LIKE\s+['"]%`)
	yearEquals      = regexp.MustCompile(`(?i)YEAR\((\w+)\)\s*=\s*(\d{4})`)
)

// detectIssues runs the static anti-pattern checks. The checks are
// textual on purpose: they fire even when the executor cannot run the
// query.
func detectIssues(sql string, q *parser.ParsedQuery) []Issue {
	var issues []Issue
	upper := strings.ToUpper(sql)

	if q.SelectsStar() {
		issues = append(issues, Issue{
			Severity:    SeverityWarning,
			Title:       "SELECT * Usage",
			Description: "Fetching all columns when you might only need specific ones.",
			Fix:         "List only the columns you need: SELECT id, name, salary FROM ...",
		})
	}

	for _, fn := range columnFuncs {
		if strings.Contains(upper, fn) {
			issues = append(issues, Issue{
				Severity:    SeverityError,
				Title:       fmt.Sprintf("Function on Column: %s)", fn),
				Description: "Applying a function to a column prevents index usage; every row must be scanned.",
				Fix:         fmt.Sprintf("Rewrite to compare against a range instead of using %s)", fn),
			})
			break
		}
	}

	if leadingWildcard.MatchString(sql) {
		issues = append(issues, Issue{
			Severity:    SeverityError,
			Title:       "Leading Wildcard LIKE",
			Description: "LIKE '%value' or LIKE '%value%' cannot use B-tree indexes.",
			Fix:         "Use a trailing wildcard LIKE 'value%' or consider a FULLTEXT index",
		})
	}

	if strings.Contains(upper, " OR ") && distinctWhereColumns(q) > 1 {
		issues = append(issues, Issue{
			Severity:    SeverityWarning,
			Title:       "OR on Different Columns",
			Description: "OR conditions on different columns often prevent efficient index usage.",
			Fix:         "Consider a UNION of separate queries, each using its own index",
		})
	}

	if strings.Contains(upper, "NOT IN") {
		issues = append(issues, Issue{
			Severity:    SeverityWarning,
			Title:       "NOT IN Usage",
			Description: "NOT IN behaves unexpectedly with NULL values and may not use indexes efficiently.",
			Fix:         "Use NOT EXISTS for safer NULL handling",
		})
	}

	if len(q.OrderBy) > 0 && !q.HasLimit() {
		issues = append(issues, Issue{
			Severity:    SeverityWarning,
			Title:       "ORDER BY Without LIMIT",
			Description: "Sorting all rows without a LIMIT can be expensive for large tables.",
			Fix:         "Add LIMIT to retrieve only the rows you need",
		})
	}

	if strings.Contains(upper, "DISTINCT") {
		issues = append(issues, Issue{
			Severity:    SeverityInfo,
			Title:       "DISTINCT Usage",
			Description: "DISTINCT sorts or hashes all results. Sometimes it papers over a JOIN that produces duplicates.",
			Fix:         "Verify DISTINCT is necessary or fix the JOIN logic",
		})
	}

	if i := strings.Index(upper, "SELECT"); i >= 0 && strings.Contains(upper[i+6:], "SELECT") {
		issues = append(issues, Issue{
			Severity:    SeverityInfo,
			Title:       "Subquery Detected",
			Description: "Subqueries can sometimes be rewritten as JOINs for better performance.",
			Fix:         "Consider whether a JOIN would be more efficient",
		})
	}

	if len(q.Where) == 0 && len(q.Tables) > 0 {
		issues = append(issues, Issue{
			Severity:    SeverityInfo,
			Title:       "No WHERE Clause",
			Description: "The query scans the entire table. Fine for small tables.",
			Fix:         "Add filtering conditions if you need specific rows",
		})
	}

	return issues
}

func distinctWhereColumns(q *parser.ParsedQuery) int {
	seen := make(map[string]struct{}, len(q.Where))
	for _, c := range q.Where {
		seen[strings.ToLower(c.Column)] = struct{}{}
	}
	return len(seen)
}

// overallSeverity rolls issue severities up to one rating.
func overallSeverity(issues []Issue) string {
	rating := RatingGood
	for _, is := range issues {
		switch is.Severity {
		case SeverityError:
			return RatingCritical
		case SeverityWarning:
			rating = RatingWarning
		}
	}
	return rating
}

// accessRating is the worst per-table rating in the simulated EXPLAIN.
func accessRating(rows []explain.Row) string {
	rating := "good"
	for i := range rows {
		switch rows[i].Rating() {
		case "bad":
			return "bad"
		case "caution":
			rating = "caution"
		}
	}
	return rating
}

// recommendIndexes suggests indexes for the first table: single-column
// WHERE filters, the ORDER BY prefix, a WHERE+ORDER BY composite, and
// a covering index for small select lists. Capped at three.
func recommendIndexes(q *parser.ParsedQuery, src Source) []IndexRecommendation {
	if len(q.Tables) == 0 {
		return nil
	}
	table := q.Tables[0]

	indexed := make(map[string]struct{})
	for _, ix := range src.Indexes(table) {
		indexed[ix.Column] = struct{}{}
	}

	var recs []IndexRecommendation

	var whereCols []string
	for _, c := range q.Where {
		col := bareColumn(c.Column)
		if col == "" {
			continue
		}
		whereCols = append(whereCols, col)
		if _, ok := indexed[col]; ok {
			continue
		}
		recs = append(recs, IndexRecommendation{
			Type:    "WHERE filter",
			Table:   table,
			Columns: []string{col},
			SQL:     fmt.Sprintf("CREATE INDEX idx_%s_%s ON %s (%s);", table, col, table, col),
			Reason:  fmt.Sprintf("The query filters on %q; an index would speed up row lookup", col),
		})
	}

	if len(q.OrderBy) > 0 {
		orderCols := make([]string, 0, len(q.OrderBy))
		for _, o := range q.OrderBy {
			orderCols = append(orderCols, bareColumn(o.Column))
		}
		if _, ok := indexed[orderCols[0]]; !ok {
			recs = append(recs, IndexRecommendation{
				Type:    "ORDER BY",
				Table:   table,
				Columns: orderCols,
				SQL: fmt.Sprintf("CREATE INDEX idx_%s_%s ON %s (%s);",
					table, strings.Join(orderCols, "_"), table, strings.Join(orderCols, ", ")),
				Reason: "An index on the ORDER BY columns avoids a filesort",
			})
		}

		if len(whereCols) > 0 {
			composite := append([]string{}, whereCols...)
			for _, col := range orderCols {
				if !contains(composite, col) {
					composite = append(composite, col)
				}
			}
			if len(composite) > 1 {
				recs = append(recs, IndexRecommendation{
					Type:    "Composite",
					Table:   table,
					Columns: composite,
					SQL: fmt.Sprintf("CREATE INDEX idx_%s_composite ON %s (%s);",
						table, table, strings.Join(composite, ", ")),
					Reason: "A composite index covers both WHERE and ORDER BY in one structure",
				})
			}
		}
	}

	if !q.SelectsStar() && len(q.Columns) > 0 && len(q.Columns) <= 5 {
		needed := append([]string{}, whereCols...)
		for _, expr := range q.Columns {
			if col := selectedColumn(expr); col != "" && !contains(needed, col) {
				needed = append(needed, col)
			}
		}
		sort.Strings(needed)
		if len(needed) > 1 && len(needed) <= 5 {
			recs = append(recs, IndexRecommendation{
				Type:    "Covering",
				Table:   table,
				Columns: needed,
				SQL: fmt.Sprintf("CREATE INDEX idx_%s_covering ON %s (%s);",
					table, table, strings.Join(needed, ", ")),
				Reason: "A covering index holds every needed column, so the query is answered from the index alone",
			})
		}
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

var (
	aliasSplit = regexp.MustCompile(`(?i)\s+AS\s+`)
	funcArg    = regexp.MustCompile(`^\w+\(([^)]+)\)$`)
)

// selectedColumn extracts the source column of a select expression:
// alias stripped, qualifier stripped, function unwrapped. Empty for
// "*" arguments and literals.
func selectedColumn(expr string) string {
	expr = strings.TrimSpace(expr)
	if parts := aliasSplit.Split(expr, 2); len(parts) == 2 {
		expr = strings.TrimSpace(parts[0])
	}
	if m := funcArg.FindStringSubmatch(expr); m != nil {
		expr = strings.TrimSpace(m[1])
		// ROUND(salary, 2): only the first argument names a column.
		if i := strings.IndexByte(expr, ','); i >= 0 {
			expr = strings.TrimSpace(expr[:i])
		}
	}
	if expr == "*" || expr == "" {
		return ""
	}
	if _, err := strconv.ParseFloat(expr, 64); err == nil {
		return ""
	}
	return bareColumn(expr)
}

// suggestRewrites proposes structural rewrites for the detected
// patterns. The YEAR() rewrite is the only one concrete enough to
// apply mechanically; see optimizedQuery.
func suggestRewrites(sql string, q *parser.ParsedQuery) []Rewrite {
	var rewrites []Rewrite
	upper := strings.ToUpper(sql)

	if q.SelectsStar() && len(q.Tables) > 0 {
		rewrites = append(rewrites, Rewrite{
			Pattern:     "SELECT *",
			Rewritten:   fmt.Sprintf("SELECT id, name, ... FROM %s", q.Tables[0]),
			Reason:      "Specify only the needed columns",
			Improvement: "Reduces data transfer and enables covering indexes",
		})
	}

	if m := yearEquals.FindStringSubmatch(sql); m != nil {
		col := m[1]
		year, _ := strconv.Atoi(m[2])
		rewrites = append(rewrites, Rewrite{
			Pattern:     fmt.Sprintf("YEAR(%s) = %d", col, year),
			Rewritten:   fmt.Sprintf("%s >= '%d-01-01' AND %s < '%d-01-01'", col, year, col, year+1),
			Reason:      "Avoid a function on the column",
			Improvement: "Allows index usage on the date column",
		})
	}

	if leadingWildcard.MatchString(sql) {
		rewrites = append(rewrites, Rewrite{
			Pattern:     "LIKE '%value%'",
			Rewritten:   "LIKE 'value%' (if possible) or use a FULLTEXT index",
			Reason:      "A leading wildcard prevents B-tree index usage",
			Improvement: "A trailing wildcard can use a B-tree index",
		})
	}

	if strings.Contains(upper, "NOT IN") {
		rewrites = append(rewrites, Rewrite{
			Pattern:     "NOT IN (subquery)",
			Rewritten:   "NOT EXISTS (SELECT 1 FROM ... WHERE ...)",
			Reason:      "NOT IN can silently match nothing when the list contains NULL",
			Improvement: "NOT EXISTS handles NULLs correctly and may be faster",
		})
	}

	if strings.Contains(upper, " OR ") && distinctWhereColumns(q) > 1 {
		rewrites = append(rewrites, Rewrite{
			Pattern:     "WHERE col1 = x OR col2 = y",
			Rewritten:   "(SELECT ... WHERE col1 = x) UNION (SELECT ... WHERE col2 = y)",
			Reason:      "OR on different columns prevents single index usage",
			Improvement: "UNION lets each branch use its own index",
		})
	}

	return rewrites
}

// optimizedQuery applies the one rewrite that is safe to do
// mechanically: replacing YEAR(col) = yyyy with a date range. SELECT *
// cannot be rewritten without knowing which columns the user wants.
func optimizedQuery(sql string, issues []Issue) string {
	if len(issues) == 0 {
		return ""
	}
	for _, is := range issues {
		if is.Title == "SELECT * Usage" {
			return ""
		}
	}
	m := yearEquals.FindStringSubmatch(sql)
	if m == nil {
		return ""
	}
	col := m[1]
	year, _ := strconv.Atoi(m[2])
	replacement := fmt.Sprintf("%s >= '%d-01-01' AND %s < '%d-01-01'", col, year, col, year+1)
	return strings.Replace(sql, m[0], replacement, 1)
}

// collectTips derives short performance tips from the rest of the
// analysis. Always returns at least one.
func collectTips(a *Analysis) []string {
	var tips []string

	if a.AccessRating == "bad" {
		tips = append(tips, "Consider adding indexes on filtered columns to avoid full table scans")
	}
	for _, is := range a.Issues {
		if is.Title == "SELECT * Usage" {
			tips = append(tips, "Selecting specific columns reduces I/O and memory usage")
			break
		}
	}
	filesort, temporary := false, false
	for i := range a.ExplainRows {
		for _, item := range a.ExplainRows[i].Extra {
			switch item {
			case "Using filesort":
				filesort = true
			case "Using temporary":
				temporary = true
			}
		}
	}
	if filesort {
		tips = append(tips, "Add an index matching your ORDER BY to avoid a filesort")
	}
	if temporary {
		tips = append(tips, "GROUP BY and ORDER BY on different columns cause temporary tables")
	}
	if a.Result != nil && a.Result.RowCount > 100 {
		tips = append(tips, "Consider adding LIMIT if you do not need all rows")
	}

	if len(tips) == 0 {
		tips = append(tips, "Query looks reasonable. Check actual execution time on production data.")
	}
	return tips
}

func bareColumn(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var _ Source = (*dataset.Dataset)(nil)
