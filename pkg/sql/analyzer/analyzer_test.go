package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlscope/pkg/dataset"
	"sqlscope/pkg/sql/sqlerrors"
)

func issueTitles(a *Analysis) []string {
	out := make([]string, 0, len(a.Issues))
	for _, is := range a.Issues {
		out = append(out, is.Title)
	}
	return out
}

func TestAnalyze_CleanQuery(t *testing.T) {
	a := Analyze("SELECT name FROM employees WHERE id = 5", dataset.Sample())

	require.Nil(t, a.Err)
	require.NotNil(t, a.Result)
	assert.Equal(t, 1, a.Result.RowCount)

	assert.Empty(t, a.Issues)
	assert.Equal(t, RatingGood, a.OverallSeverity)
	assert.Equal(t, "good", a.AccessRating)
	assert.Empty(t, a.OptimizedQuery)
	assert.Equal(t, []string{"Query looks reasonable. Check actual execution time on production data."}, a.Tips)
}

func TestAnalyze_SelectStar(t *testing.T) {
	a := Analyze("SELECT * FROM employees", dataset.Sample())

	require.Nil(t, a.Err)
	assert.Contains(t, issueTitles(a), "SELECT * Usage")
	assert.Contains(t, issueTitles(a), "No WHERE Clause")
	assert.Equal(t, RatingWarning, a.OverallSeverity)

	require.NotEmpty(t, a.Rewrites)
	assert.Equal(t, "SELECT *", a.Rewrites[0].Pattern)
	assert.Contains(t, a.Tips, "Selecting specific columns reduces I/O and memory usage")
	assert.Empty(t, a.OptimizedQuery)
}

func TestAnalyze_YearFunctionRewrite(t *testing.T) {
	a := Analyze("SELECT name FROM employees WHERE YEAR(hire_date) = 2020", dataset.Sample())

	assert.Equal(t, RatingCritical, a.OverallSeverity)
	assert.Contains(t, issueTitles(a), "Function on Column: YEAR()")

	var year *Rewrite
	for i := range a.Rewrites {
		if a.Rewrites[i].Pattern == "YEAR(hire_date) = 2020" {
			year = &a.Rewrites[i]
		}
	}
	require.NotNil(t, year)
	assert.Equal(t, "hire_date >= '2020-01-01' AND hire_date < '2021-01-01'", year.Rewritten)

	assert.Equal(t,
		"SELECT name FROM employees WHERE hire_date >= '2020-01-01' AND hire_date < '2021-01-01'",
		a.OptimizedQuery)
}

func TestAnalyze_LeadingWildcard(t *testing.T) {
	a := Analyze("SELECT name FROM employees WHERE name LIKE '%son'", dataset.Sample())

	assert.Contains(t, issueTitles(a), "Leading Wildcard LIKE")
	assert.Equal(t, RatingCritical, a.OverallSeverity)
}

func TestAnalyze_NotIn(t *testing.T) {
	a := Analyze("SELECT name FROM employees WHERE department_id NOT IN (1, 2)", dataset.Sample())

	assert.Contains(t, issueTitles(a), "NOT IN Usage")

	var rw *Rewrite
	for i := range a.Rewrites {
		if a.Rewrites[i].Pattern == "NOT IN (subquery)" {
			rw = &a.Rewrites[i]
		}
	}
	require.NotNil(t, rw)
	assert.Contains(t, rw.Rewritten, "NOT EXISTS")
}

func TestAnalyze_OrderByWithoutLimit(t *testing.T) {
	a := Analyze("SELECT name FROM employees ORDER BY salary", dataset.Sample())

	assert.Contains(t, issueTitles(a), "ORDER BY Without LIMIT")
	assert.Contains(t, a.Tips, "Add an index matching your ORDER BY to avoid a filesort")

	withLimit := Analyze("SELECT name FROM employees ORDER BY salary LIMIT 5", dataset.Sample())
	assert.NotContains(t, issueTitles(withLimit), "ORDER BY Without LIMIT")
}

func TestAnalyze_ExecutionErrorDoesNotAbort(t *testing.T) {
	a := Analyze("SELECT * FROM employes", dataset.Sample())

	require.NotNil(t, a.Err)
	assert.Equal(t, sqlerrors.KindUnknownTable, a.Err.Kind)
	assert.Contains(t, a.Err.Suggestion, "employees")

	// Static analysis still runs on the parsed query.
	assert.Contains(t, issueTitles(a), "SELECT * Usage")
	assert.NotEmpty(t, a.Rewrites)
	assert.NotEmpty(t, a.Tips)
}

func TestAnalyze_EmptyQuery(t *testing.T) {
	a := Analyze("   ", dataset.Sample())

	require.NotNil(t, a.Err)
	assert.Equal(t, sqlerrors.KindEmptyQuery, a.Err.Kind)
	assert.Nil(t, a.Result)
	assert.Nil(t, a.Parsed)
}

func TestAnalyze_IndexRecommendationsCapped(t *testing.T) {
	a := Analyze("SELECT name FROM employees WHERE email = 'x' ORDER BY hire_date", dataset.Sample())

	require.Len(t, a.IndexRecommendations, 3)
	assert.Equal(t, "WHERE filter", a.IndexRecommendations[0].Type)
	assert.Equal(t, "ORDER BY", a.IndexRecommendations[1].Type)
	assert.Equal(t, "Composite", a.IndexRecommendations[2].Type)

	assert.Equal(t, "CREATE INDEX idx_employees_email ON employees (email);", a.IndexRecommendations[0].SQL)
	assert.Equal(t, []string{"email", "hire_date"}, a.IndexRecommendations[2].Columns)
}

func TestAnalyze_NoRecommendationForIndexedColumn(t *testing.T) {
	a := Analyze("SELECT name FROM employees WHERE salary > 80000 ORDER BY salary LIMIT 5", dataset.Sample())

	for _, rec := range a.IndexRecommendations {
		assert.NotEqual(t, "WHERE filter", rec.Type, "salary is already indexed")
		assert.NotEqual(t, "ORDER BY", rec.Type, "salary is already indexed")
	}
}

func TestAnalyze_CoveringRecommendation(t *testing.T) {
	a := Analyze("SELECT name, phone FROM employees", dataset.Sample())

	require.Len(t, a.IndexRecommendations, 1)
	rec := a.IndexRecommendations[0]
	assert.Equal(t, "Covering", rec.Type)
	assert.Equal(t, []string{"name", "phone"}, rec.Columns)
	assert.Equal(t, "CREATE INDEX idx_employees_covering ON employees (name, phone);", rec.SQL)
}

func TestAnalyze_AccessRatingBadOnFullScan(t *testing.T) {
	a := Analyze("SELECT name FROM employees WHERE phone = '555-0100'", dataset.Sample())

	assert.Equal(t, "bad", a.AccessRating)
	assert.Contains(t, a.Tips, "Consider adding indexes on filtered columns to avoid full table scans")
}

func TestAnalyze_OrOnDifferentColumns(t *testing.T) {
	a := Analyze("SELECT name FROM employees WHERE salary > 90000 OR department_id = 2", dataset.Sample())

	assert.Contains(t, issueTitles(a), "OR on Different Columns")
}

func TestAnalyze_SubqueryDetected(t *testing.T) {
	a := Analyze(
		"WITH high AS (SELECT name FROM employees WHERE salary > 100000) SELECT * FROM high",
		dataset.Sample())

	assert.Contains(t, issueTitles(a), "Subquery Detected")
}
