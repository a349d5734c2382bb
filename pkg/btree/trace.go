// pkg/btree/trace.go
package btree

import "sqlscope/pkg/types"

// StepAction tags what happened at one node during a traversal.
type StepAction string

const (
	ActionCompare  StepAction = "compare"
	ActionDescend  StepAction = "descend"
	ActionFound    StepAction = "found"
	ActionNotFound StepAction = "not_found"
	ActionScan     StepAction = "scan"
)

// TraversalStep records one node visit during search or range search.
// Comparison is a human-readable account of the key comparisons made at
// the node, used by the visualization layer.
type TraversalStep struct {
	NodeID     int
	Keys       []types.Value
	Comparison string
	Action     StepAction
}
