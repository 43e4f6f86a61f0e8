package models

// ClauseOp is the comparison operator of a single filter clause
type ClauseOp string

const (
	// ClauseOpOverlaps matches when the user's array field shares at least one
	// element with the clause values (set intersection, not subset).
	ClauseOpOverlaps ClauseOp = "overlaps"

	// ClauseOpIn matches when the user's scalar field equals any clause value
	ClauseOpIn ClauseOp = "in"

	ClauseOpGTE ClauseOp = "gte"
	ClauseOpLTE ClauseOp = "lte"

	// ClauseOpNotDisabled matches when the named opt-out flag is false
	ClauseOpNotDisabled ClauseOp = "not_disabled"
)

// Clause is one atomic filter condition over the user population. The store
// evaluates an ordered clause list as a logical AND.
type Clause struct {
	// Column is the users table column the clause applies to. Columns are only
	// ever produced by the compiler from a closed set, never from user input.
	Column string   `json:"column"`
	Op     ClauseOp `json:"op"`
	Values []string `json:"values,omitempty"`
	Bound  int      `json:"bound,omitempty"`
}

// OverlapsClause builds an array-intersection clause
func OverlapsClause(column string, values []string) Clause {
	return Clause{Column: column, Op: ClauseOpOverlaps, Values: values}
}

// InClause builds a membership clause
func InClause(column string, values []string) Clause {
	return Clause{Column: column, Op: ClauseOpIn, Values: values}
}

// GTEClause builds an inclusive lower-bound clause
func GTEClause(column string, bound int) Clause {
	return Clause{Column: column, Op: ClauseOpGTE, Bound: bound}
}

// LTEClause builds an inclusive upper-bound clause
func LTEClause(column string, bound int) Clause {
	return Clause{Column: column, Op: ClauseOpLTE, Bound: bound}
}

// NotDisabledClause builds a channel-eligibility clause
func NotDisabledClause(column string) Clause {
	return Clause{Column: column, Op: ClauseOpNotDisabled}
}
