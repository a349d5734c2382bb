package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlscope/pkg/dataset"
	"sqlscope/pkg/sql/parser"
)

func TestCompareIndexes_RanksCheapestFirst(t *testing.T) {
	ds := dataset.Sample()
	q := parser.Parse("SELECT name FROM employees WHERE id = 7")

	cands := CompareIndexes(q, ds, "employees")
	require.NotEmpty(t, cands)

	assert.Equal(t, "PRIMARY", cands[0].Index)
	assert.Equal(t, AccessConst, cands[0].AccessType)
	assert.Equal(t, 1, cands[0].Rows)
	assert.True(t, cands[0].Chosen)

	for i := 1; i < len(cands); i++ {
		assert.GreaterOrEqual(t, cands[i].Rows, cands[i-1].Rows, "candidates must be sorted by cost")
	}
}

func TestCompareIndexes_IncludesBareScan(t *testing.T) {
	ds := dataset.Sample()
	q := parser.Parse("SELECT name FROM employees WHERE salary > 90000")

	cands := CompareIndexes(q, ds, "employees")

	var scan *Candidate
	for i := range cands {
		if cands[i].Index == "(no index)" {
			scan = &cands[i]
		}
	}
	require.NotNil(t, scan)
	assert.Equal(t, AccessAll, scan.AccessType)
	assert.Equal(t, 20, scan.Rows)
	assert.False(t, scan.Chosen)
}

func TestCompareIndexes_AgreesWithPrimaryExplain(t *testing.T) {
	ds := dataset.Sample()
	queries := []string{
		"SELECT * FROM employees WHERE id = 3",
		"SELECT name FROM employees WHERE salary > 60000",
		"SELECT name FROM employees WHERE department_id = 1",
		"SELECT name FROM employees WHERE email = 'x'",
		"SELECT id FROM orders WHERE status = 'pending'",
	}
	for _, sql := range queries {
		q := parser.Parse(sql)
		rows, _ := ExplainParsed(q, ds)
		require.Len(t, rows, 1, sql)

		cands := CompareIndexes(q, ds, q.Tables[0])
		var chosen *Candidate
		for i := range cands {
			if cands[i].Chosen {
				chosen = &cands[i]
			}
		}
		require.NotNil(t, chosen, sql)
		assert.Equal(t, rows[0].AccessType, chosen.AccessType, sql)
		assert.Equal(t, rows[0].Rows, chosen.Rows, sql)
	}
}

func TestCompareIndexes_UnchosenNoIndexWhenIndexWins(t *testing.T) {
	ds := dataset.Sample()
	q := parser.Parse("SELECT id FROM orders WHERE customer_id = 1")

	cands := CompareIndexes(q, ds, "orders")
	var chosen []string
	for _, c := range cands {
		if c.Chosen {
			chosen = append(chosen, c.Index)
		}
	}
	require.Equal(t, []string{"idx_customer"}, chosen)
}
