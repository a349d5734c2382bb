// pkg/sql/explain/compare.go
package explain

import (
	"sort"

	"sqlscope/pkg/dataset"
	"sqlscope/pkg/sql/parser"
)

// Candidate is one possible access path for a table, costed under the
// same model the primary explain uses.
type Candidate struct {
	Index      string // index name, "(no index)" for the bare scan
	Column     string
	AccessType string
	Rows       int
	Chosen     bool
}

// CompareIndexes costs the query against every index the table
// advertises, plus the index-free scan, and ranks them cheapest first.
// Because it shares the cost model with ExplainParsed, the candidate
// marked Chosen always agrees with the primary explain's estimate.
func CompareIndexes(q *parser.ParsedQuery, schema Schema, table string) []Candidate {
	total := 0
	if t, ok := schema.Table(table); ok {
		total = len(t.Rows)
	}
	indexes := schema.Indexes(table)

	joined := len(q.Tables) > 0 && q.Tables[0] != table
	chosenAccess, chosenKey := classify(q, table, joined, indexes)

	out := make([]Candidate, 0, len(indexes)+1)
	for _, ix := range indexes {
		access := accessUnderIndex(q, table, joined, ix)
		out = append(out, Candidate{
			Index:      ix.Name,
			Column:     ix.Column,
			AccessType: access,
			Rows:       defaultCost.rows(access, total),
			Chosen:     ix.Name == chosenKey,
		})
	}
	out = append(out, Candidate{
		Index:      "(no index)",
		AccessType: AccessAll,
		Rows:       defaultCost.rows(AccessAll, total),
		Chosen:     chosenKey == "" && chosenAccess == AccessAll,
	})

	sort.SliceStable(out, func(i, j int) bool { return out[i].Rows < out[j].Rows })
	return out
}

// accessUnderIndex classifies the access path as if the given index
// were the only one available.
func accessUnderIndex(q *parser.ParsedQuery, table string, joined bool, ix dataset.Index) string {
	if joined {
		if col := joinColumnFor(q, table); col == ix.Column {
			if ix.Unique {
				return AccessEqRef
			}
			return AccessRef
		}
	}
	for _, c := range q.Where {
		if bareColumn(c.Column) != ix.Column {
			continue
		}
		switch c.Op {
		case "=":
			if ix.Unique {
				return AccessConst
			}
			return AccessRef
		case ">", "<", ">=", "<=":
			return AccessRange
		}
	}
	return AccessAll
}
