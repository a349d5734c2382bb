// pkg/cli/root.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sqlscope/pkg/dataset"
	"sqlscope/pkg/sql/analyzer"
	"sqlscope/pkg/sql/executor"
	"sqlscope/pkg/sql/explain"
	"sqlscope/pkg/sql/parser"
)

// NewRootCommand builds the sqlscope command tree. With no subcommand
// it starts the interactive REPL.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "sqlscope",
		Short: "An in-memory SQL playground with EXPLAIN and B+tree simulation",
		Long: `sqlscope runs SELECT queries against a built-in sample dataset and
shows how a database would execute them: pipeline stages, access-path
estimates, index traversals, and optimization suggestions.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			repl := NewREPL(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			repl.Run()
			return nil
		},
	}

	root.AddCommand(newRunCommand())
	root.AddCommand(newExplainCommand())
	root.AddCommand(newAnalyzeCommand())
	root.AddCommand(newStagesCommand())
	root.AddCommand(newBtreeCommand())
	root.AddCommand(newCompareCommand())
	root.AddCommand(newTablesCommand())
	return root
}

func newCompareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <query>",
		Short: "Cost every index of the query's first table against each other",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := parser.Parse(joinQuery(args))
			if len(q.Tables) == 0 {
				return fmt.Errorf("nothing to compare: the query reads no tables")
			}
			renderCandidates(cmd.OutOrStdout(), explain.CompareIndexes(q, dataset.Sample(), q.Tables[0]))
			return nil
		},
	}
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <query>",
		Short: "Execute a query against the sample dataset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := dataset.Sample()
			exec := executor.New(data, executor.Options{})
			res, err := exec.Execute(joinQuery(args))
			if err != nil {
				renderError(cmd.ErrOrStderr(), err)
				return err
			}
			renderResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newExplainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <query>",
		Short: "Simulate EXPLAIN for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, notes := explain.Explain(joinQuery(args), dataset.Sample())
			if len(rows) == 0 {
				return fmt.Errorf("nothing to explain: the query reads no tables")
			}
			renderExplain(cmd.OutOrStdout(), rows, notes)
			return nil
		},
	}
}

func newAnalyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <query>",
		Short: "Run the full analysis: execution, issues, EXPLAIN, suggestions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderAnalysis(cmd.OutOrStdout(), analyzer.Analyze(joinQuery(args), dataset.Sample()))
			return nil
		},
	}
}

func newStagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stages <query>",
		Short: "Show the execution pipeline stage by stage",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := dataset.Sample()
			exec := executor.New(data, executor.Options{})
			stages, err := exec.Simulate(joinQuery(args))
			if err != nil {
				renderError(cmd.ErrOrStderr(), err)
				return err
			}
			renderStages(cmd.OutOrStdout(), stages)
			return nil
		},
	}
}

func newBtreeCommand() *cobra.Command {
	var order int
	var search string
	var rangeLo, rangeHi string

	cmd := &cobra.Command{
		Use:   "btree <table> <column>",
		Short: "Build a B+tree over a column and trace lookups through it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := dataset.Sample()
			t, ok := data.Table(args[0])
			if !ok {
				return fmt.Errorf("no such table: %s", args[0])
			}
			if !containsFold(t.Columns, args[1]) {
				return fmt.Errorf("no such column: %s.%s", args[0], args[1])
			}

			out := cmd.OutOrStdout()
			tree := buildColumnIndex(t, args[1], order)
			renderTree(out, tree)

			if search != "" {
				rowID, found, steps := tree.Search(parseKey(search))
				renderTrace(out, steps)
				if found {
					fmt.Fprintf(out, "found: row %d\n", rowID)
				} else {
					fmt.Fprintln(out, "not found")
				}
			}
			if rangeLo != "" || rangeHi != "" {
				pairs, steps := tree.RangeSearch(parseKey(rangeLo), parseKey(rangeHi))
				renderTrace(out, steps)
				fmt.Fprintf(out, "%d key(s) in range\n", len(pairs))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&order, "order", defaultTreeOrder, "tree order (max children per node)")
	cmd.Flags().StringVar(&search, "search", "", "trace a point lookup for this key")
	cmd.Flags().StringVar(&rangeLo, "from", "", "range search lower bound")
	cmd.Flags().StringVar(&rangeHi, "to", "", "range search upper bound")
	return cmd
}

func newTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the sample tables with their columns and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := dataset.Sample()
			out := cmd.OutOrStdout()
			for _, name := range data.Tables() {
				t, _ := data.Table(name)
				fmt.Fprintf(out, "%s (%d rows): %s\n", name, len(t.Rows), strings.Join(t.Columns, ", "))
				for _, ix := range data.Indexes(name) {
					kind := "index"
					if ix.Unique {
						kind = "unique index"
					}
					fmt.Fprintf(out, "  %s %s (%s)\n", kind, ix.Name, ix.Column)
				}
			}
			return nil
		},
	}
}

// joinQuery lets the query be passed as one quoted argument or as bare
// words.
func joinQuery(args []string) string {
	return strings.TrimSuffix(strings.TrimSpace(strings.Join(args, " ")), ";")
}
