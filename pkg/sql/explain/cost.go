// pkg/sql/explain/cost.go
package explain

// Access types, in roughly descending quality.
const (
	AccessConst = "const"
	AccessEqRef = "eq_ref"
	AccessRef   = "ref"
	AccessRange = "range"
	AccessIndex = "index"
	AccessAll   = "ALL"
)

// costModel holds the estimation heuristics. The constants are tuned
// for demonstration, not measured; keeping them in one place means the
// classification logic never embeds a magic number, and the primary
// explain path and the index comparison path cannot drift apart.
type costModel struct {
	// rangeSelectivity is the fraction of a table a range predicate is
	// assumed to examine.
	rangeSelectivity float64
	// refDivisor: a non-unique index lookup is assumed to match
	// 1/refDivisor of the table.
	refDivisor int
	// minFiltered and maxFiltered clamp the filtered percentage.
	minFiltered float64
	maxFiltered float64
}

var defaultCost = costModel{
	rangeSelectivity: 0.30,
	refDivisor:       10,
	minFiltered:      10.0,
	maxFiltered:      100.0,
}

// rows estimates how many rows an access type examines on a table of
// the given size.
func (c costModel) rows(access string, total int) int {
	switch access {
	case AccessConst:
		return 1
	case AccessEqRef, AccessRef:
		return maxInt(1, total/c.refDivisor)
	case AccessRange:
		return maxInt(1, int(float64(total)*c.rangeSelectivity))
	default: // index, ALL
		return total
	}
}

// filtered estimates the percentage of examined rows surviving the
// WHERE clause: more predicates, more filtering.
func (c costModel) filtered(condCount int) float64 {
	if condCount == 0 {
		return c.maxFiltered
	}
	f := 100.0 / float64(condCount+1)
	if f < c.minFiltered {
		return c.minFiltered
	}
	if f > c.maxFiltered {
		return c.maxFiltered
	}
	return f
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
