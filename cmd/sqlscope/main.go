// cmd/sqlscope/main.go
//
// sqlscope - an in-memory SQL playground.
//
// Usage:
//
//	sqlscope                 interactive shell over the sample dataset
//	sqlscope run <query>     execute one query
//	sqlscope explain <query> simulate EXPLAIN
//	sqlscope analyze <query> full analysis with suggestions
//	sqlscope btree <t> <c>   build and trace a B+tree index
package main

import (
	"os"

	"sqlscope/pkg/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
