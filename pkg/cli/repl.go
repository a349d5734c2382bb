// pkg/cli/repl.go
package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"sqlscope/pkg/btree"
	"sqlscope/pkg/dataset"
	"sqlscope/pkg/sql/analyzer"
	"sqlscope/pkg/sql/executor"
	"sqlscope/pkg/sql/explain"
	"sqlscope/pkg/sql/parser"
	"sqlscope/pkg/types"
)

// defaultTreeOrder is the B+tree order the .btree command builds with.
const defaultTreeOrder = 4

// REPL is an interactive loop over the sample dataset. SQL statements
// run through the executor; a leading EXPLAIN switches to the
// access-path simulation; dot commands expose the teaching tools.
type REPL struct {
	data      *dataset.Dataset
	exec      *executor.Executor
	shell     *Shell
	output    io.Writer
	errOutput io.Writer
	exit      bool
}

// NewREPL creates a REPL reading from input. Errors go to errOutput,
// everything else to output.
func NewREPL(input io.Reader, output, errOutput io.Writer) *REPL {
	if errOutput == nil {
		errOutput = output
	}
	data := dataset.Sample()
	return &REPL{
		data:      data,
		exec:      executor.New(data, executor.Options{}),
		shell:     NewShell(input, output),
		output:    output,
		errOutput: errOutput,
	}
}

// Run reads and executes statements until EOF or .exit.
func (r *REPL) Run() {
	fmt.Fprintln(r.output, "sqlscope: an in-memory SQL playground")
	fmt.Fprintln(r.output, `Enter ".help" for usage hints.`)

	for !r.exit {
		stmt, eof := r.shell.ReadStatement()
		stmt = strings.TrimSpace(stmt)

		if stmt != "" {
			if strings.HasPrefix(stmt, ".") {
				r.dotCommand(stmt)
			} else {
				r.runSQL(strings.TrimSuffix(stmt, ";"))
			}
		}
		if eof {
			fmt.Fprintln(r.output)
			break
		}
	}
}

// runSQL executes one SQL statement, routing EXPLAIN to the simulator.
func (r *REPL) runSQL(sql string) {
	if rest, ok := cutPrefixFold(sql, "EXPLAIN"); ok {
		rows, notes := explain.Explain(rest, r.data)
		if len(rows) == 0 {
			fmt.Fprintln(r.errOutput, "nothing to explain: the query reads no tables")
			return
		}
		renderExplain(r.output, rows, notes)
		return
	}

	res, err := r.exec.Execute(sql)
	if err != nil {
		renderError(r.errOutput, err)
		return
	}
	renderResult(r.output, res)
}

func (r *REPL) dotCommand(cmd string) {
	parts := strings.Fields(cmd)
	rest := strings.TrimSpace(strings.TrimPrefix(cmd, parts[0]))

	switch strings.ToLower(parts[0]) {
	case ".exit", ".quit":
		r.exit = true
	case ".help":
		r.printHelp()
	case ".tables":
		for _, name := range r.data.Tables() {
			fmt.Fprintln(r.output, name)
		}
	case ".schema":
		if len(parts) > 1 {
			r.showSchema(parts[1])
		} else {
			for _, name := range r.data.Tables() {
				r.showSchema(name)
			}
		}
	case ".indexes":
		r.showIndexes(parts[1:])
	case ".analyze":
		if rest == "" {
			fmt.Fprintln(r.errOutput, "usage: .analyze <query>")
			return
		}
		renderAnalysis(r.output, analyzer.Analyze(strings.TrimSuffix(rest, ";"), r.data))
	case ".stages":
		if rest == "" {
			fmt.Fprintln(r.errOutput, "usage: .stages <query>")
			return
		}
		stages, err := r.exec.Simulate(strings.TrimSuffix(rest, ";"))
		if err != nil {
			renderError(r.errOutput, err)
			return
		}
		renderStages(r.output, stages)
	case ".btree":
		r.btreeCommand(parts[1:])
	case ".compare":
		if rest == "" {
			fmt.Fprintln(r.errOutput, "usage: .compare <query>")
			return
		}
		q := parser.Parse(strings.TrimSuffix(rest, ";"))
		if len(q.Tables) == 0 {
			fmt.Fprintln(r.errOutput, "nothing to compare: the query reads no tables")
			return
		}
		renderCandidates(r.output, explain.CompareIndexes(q, r.data, q.Tables[0]))
	default:
		fmt.Fprintf(r.errOutput, "unknown command: %s\n", parts[0])
		fmt.Fprintln(r.errOutput, `Use ".help" for usage hints.`)
	}
}

// btreeCommand builds an index over one column and optionally traces a
// point or range lookup through it.
func (r *REPL) btreeCommand(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(r.errOutput, "usage: .btree <table> <column> [key | lo hi]")
		return
	}
	table, column := args[0], args[1]

	t, ok := r.data.Table(table)
	if !ok {
		fmt.Fprintf(r.errOutput, "no such table: %s\n", table)
		return
	}
	if !containsFold(t.Columns, column) {
		fmt.Fprintf(r.errOutput, "no such column: %s.%s\n", table, column)
		return
	}

	tree := buildColumnIndex(t, column, defaultTreeOrder)
	renderTree(r.output, tree)

	switch len(args) {
	case 2:
	case 3:
		rowID, found, steps := tree.Search(parseKey(args[2]))
		renderTrace(r.output, steps)
		if found {
			fmt.Fprintf(r.output, "found: row %d\n", rowID)
		} else {
			fmt.Fprintln(r.output, "not found")
		}
	default:
		pairs, steps := tree.RangeSearch(parseKey(args[2]), parseKey(args[3]))
		renderTrace(r.output, steps)
		fmt.Fprintf(r.output, "%d key(s) in range\n", len(pairs))
	}
}

// buildColumnIndex feeds one column's values into a fresh tree.
func buildColumnIndex(t *dataset.Table, column string, order int) *btree.Tree {
	entries := make([]btree.Entry, 0, len(t.Rows))
	for i, row := range t.Rows {
		entries = append(entries, btree.Entry{Key: row.Value(column), RowID: i})
	}
	return btree.BuildIndex(entries, order)
}

// parseKey interprets a command argument as an int, float, or text key.
func parseKey(s string) types.Value {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return types.NewInt(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return types.NewFloat(f)
	}
	return types.NewText(strings.Trim(s, "'\""))
}

func (r *REPL) showSchema(table string) {
	t, ok := r.data.Table(table)
	if !ok {
		fmt.Fprintf(r.errOutput, "no such table: %s\n", table)
		return
	}
	fmt.Fprintf(r.output, "%s (%s)\n", t.Name, strings.Join(t.Columns, ", "))
}

func (r *REPL) showIndexes(args []string) {
	tables := args
	if len(tables) == 0 {
		tables = r.data.Tables()
	}
	for _, name := range tables {
		for _, ix := range r.data.Indexes(name) {
			kind := "index"
			if ix.Unique {
				kind = "unique index"
			}
			fmt.Fprintf(r.output, "%s: %s %s (%s)\n", name, kind, ix.Name, ix.Column)
		}
	}
}

func (r *REPL) printHelp() {
	fmt.Fprint(r.output, `
.analyze <query>             Full query analysis: issues, EXPLAIN, suggestions
.btree <table> <col> [k]     Build a B+tree on a column, optionally trace a lookup
.compare <query>             Cost every index for the query's first table
.exit / .quit                Exit
.help                        Show this help message
.indexes [table]             List indexes
.schema [table]              Show table columns
.stages <query>              Show the execution pipeline stage by stage
.tables                      List tables

SQL statements end with a semicolon. Prefix with EXPLAIN for the
access-path simulation.
`)
}

// cutPrefixFold strips a case-insensitive word prefix followed by
// whitespace.
func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) > len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		rest := s[len(prefix):]
		if trimmed := strings.TrimLeft(rest, " \t\n"); trimmed != rest {
			return trimmed, true
		}
	}
	return s, false
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
