// pkg/cli/render.go
package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"sqlscope/pkg/btree"
	"sqlscope/pkg/sql/analyzer"
	"sqlscope/pkg/sql/executor"
	"sqlscope/pkg/sql/explain"
	"sqlscope/pkg/sql/sqlerrors"
)

// newTable builds a tablewriter with the house style: plain headers,
// no wrapping, left alignment.
func newTable(w io.Writer, headers []string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.SetHeader(headers)
	return t
}

// renderResult prints a query result as a table with a row-count
// footer, plus any CTE summaries and warnings.
func renderResult(w io.Writer, res *executor.Result) {
	for _, cte := range res.CTEs {
		kind := "cte"
		if cte.Recursive {
			kind = "recursive cte"
		}
		fmt.Fprintf(w, "-- %s %s: %s rows (%s)\n",
			kind, cte.Name, humanize.Comma(int64(cte.RowCount)), strings.Join(cte.Columns, ", "))
	}

	if len(res.Columns) > 0 {
		t := newTable(w, res.Columns)
		for _, row := range res.Rows {
			cells := make([]string, 0, len(res.Columns))
			for _, col := range res.Columns {
				cells = append(cells, row.Value(col).String())
			}
			t.Append(cells)
		}
		t.Render()
	}

	fmt.Fprintf(w, "%s row(s) in %s\n", humanize.Comma(int64(res.RowCount)), res.Elapsed)
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
}

var explainHeaders = []string{
	"id", "select_type", "table", "type", "possible_keys",
	"key", "key_len", "ref", "rows", "filtered", "Extra",
}

// renderExplain prints the simulated EXPLAIN table and its
// annotations, elevated severities first.
func renderExplain(w io.Writer, rows []explain.Row, notes []explain.Annotation) {
	t := newTable(w, explainHeaders)
	for _, r := range rows {
		t.Append([]string{
			strconv.Itoa(r.ID),
			r.SelectType,
			r.Table,
			r.AccessType,
			orNull(strings.Join(r.PossibleKeys, ",")),
			orNull(r.Key),
			orNull(nonZero(r.KeyLen)),
			orNull(r.Ref),
			strconv.Itoa(r.Rows),
			fmt.Sprintf("%.2f", r.Filtered),
			strings.Join(r.Extra, "; "),
		})
	}
	t.Render()

	for _, n := range notes {
		fmt.Fprintf(w, "[%s] %s = %s: %s\n", n.Severity, n.Field, n.Value, n.Explanation)
		if n.Recommendation != "" {
			fmt.Fprintf(w, "        %s\n", n.Recommendation)
		}
	}
}

// renderStages prints the execution pipeline, one line per stage.
func renderStages(w io.Writer, stages []executor.Stage) {
	if len(stages) == 0 {
		fmt.Fprintln(w, "(no pipeline: query reads no tables)")
		return
	}
	for i, s := range stages {
		marker := " "
		if !s.Active {
			marker = "-"
		}
		fmt.Fprintf(w, "%d. %s %-9s %s\n", i+1, marker, s.Name, s.Description)
		if s.Active {
			fmt.Fprintf(w, "     %s rows in, %s rows out\n",
				humanize.Comma(int64(s.InputRows)), humanize.Comma(int64(s.OutputRows)))
		}
	}
}

// renderAnalysis prints the full analyzer report.
func renderAnalysis(w io.Writer, a *analyzer.Analysis) {
	if a.Err != nil {
		renderError(w, a.Err)
	}
	if a.Result != nil {
		renderResult(w, a.Result)
	}

	fmt.Fprintf(w, "\noverall: %s, access: %s\n", a.OverallSeverity, a.AccessRating)

	if len(a.Issues) > 0 {
		fmt.Fprintln(w, "\nIssues:")
		for _, is := range a.Issues {
			fmt.Fprintf(w, "  [%s] %s: %s\n", is.Severity, is.Title, is.Description)
			if is.Fix != "" {
				fmt.Fprintf(w, "        fix: %s\n", is.Fix)
			}
		}
	}

	if len(a.ExplainRows) > 0 {
		fmt.Fprintln(w, "\nEXPLAIN:")
		renderExplain(w, a.ExplainRows, a.Annotations)
	}

	if len(a.IndexRecommendations) > 0 {
		fmt.Fprintln(w, "\nIndex recommendations:")
		for _, rec := range a.IndexRecommendations {
			fmt.Fprintf(w, "  %-12s %s\n", rec.Type, rec.SQL)
			fmt.Fprintf(w, "               %s\n", rec.Reason)
		}
	}

	if len(a.Rewrites) > 0 {
		fmt.Fprintln(w, "\nRewrites:")
		for _, rw := range a.Rewrites {
			fmt.Fprintf(w, "  %s\n    -> %s\n       %s\n", rw.Pattern, rw.Rewritten, rw.Improvement)
		}
	}

	if a.OptimizedQuery != "" {
		fmt.Fprintf(w, "\nOptimized query:\n  %s\n", a.OptimizedQuery)
	}

	if len(a.Tips) > 0 {
		fmt.Fprintln(w, "\nTips:")
		for _, tip := range a.Tips {
			fmt.Fprintf(w, "  - %s\n", tip)
		}
	}
}

// renderTree prints the tree structure level by level.
func renderTree(w io.Writer, t *btree.Tree) {
	fmt.Fprintf(w, "order %d, height %d\n", t.Order(), t.Height())
	renderTreeView(w, t.Structure())
}

func renderTreeView(w io.Writer, v *btree.TreeView) {
	if v == nil {
		return
	}
	keys := make([]string, 0, len(v.Keys))
	for _, k := range v.Keys {
		keys = append(keys, k.String())
	}
	kind := "node"
	if v.Leaf {
		kind = "leaf"
	}
	fmt.Fprintf(w, "%s%s %d: [%s]\n", strings.Repeat("  ", v.Level), kind, v.ID, strings.Join(keys, " | "))
	for _, child := range v.Children {
		renderTreeView(w, child)
	}
}

// renderTrace prints a traversal step by step.
func renderTrace(w io.Writer, steps []btree.TraversalStep) {
	for i, s := range steps {
		fmt.Fprintf(w, "%d. node %d [%s]: %s\n", i+1, s.NodeID, s.Action, s.Comparison)
	}
}

// renderCandidates prints the access-path comparison, cheapest first.
func renderCandidates(w io.Writer, cands []explain.Candidate) {
	t := newTable(w, []string{"index", "column", "type", "rows", "chosen"})
	for _, c := range cands {
		chosen := ""
		if c.Chosen {
			chosen = "<--"
		}
		t.Append([]string{c.Index, c.Column, c.AccessType, strconv.Itoa(c.Rows), chosen})
	}
	t.Render()
}

// renderError prints an error with its suggestion when it carries one.
func renderError(w io.Writer, err error) {
	if qe := sqlerrors.AsError(err); qe != nil {
		fmt.Fprintf(w, "%s: %s\n", qe.Severity, qe.Message)
		if qe.Suggestion != "" {
			fmt.Fprintf(w, "hint: %s\n", qe.Suggestion)
		}
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

func orNull(s string) string {
	if s == "" {
		return "NULL"
	}
	return s
}

func nonZero(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
