// Package smt defines the solver collaborator interface the proof loop
// drives (spec §4.11, §1's "SMT solver" box) plus two implementations: a
// z3 subprocess client for real use, and an in-memory fake for tests that
// do not want to shell out to an external binary.
package smt

import "context"

// CheckResult is the three-valued outcome of a satisfiability query.
type CheckResult int

const (
	Unknown CheckResult = iota
	Sat
	Unsat
)

func (r CheckResult) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// FunctionEntry is one row of a function symbol's model table: the
// argument literals it was evaluated at, and the result.
type FunctionEntry struct {
	Args  []string
	Value string
}

// ModelResult is a satisfying assignment returned after a Sat check:
// nullary symbols map directly to their literal value, non-nullary symbols
// map to a table of (args, value) rows (spec §4.11's "seed the e-graph
// from the solver model").
type ModelResult struct {
	Nullary   map[string]string
	Functions map[string][]FunctionEntry
}

// Solver is the collaborator the proof loop pushes/pops/queries. Context
// carries the cooperative-cancellation token checked between depths and
// before each solver call (spec §5's REDESIGN FLAG).
type Solver interface {
	// Push saves a restore point.
	Push(ctx context.Context) error
	// Pop restores the most recent Push point, discarding anything loaded
	// or asserted since.
	Pop(ctx context.Context) error
	// Load asserts the given SMT-LIB2 script text (sort/function
	// declarations and assertions) into the current scope.
	Load(ctx context.Context, script string) error
	// CheckSat queries satisfiability of everything currently loaded.
	CheckSat(ctx context.Context) (CheckResult, error)
	// Model returns a satisfying assignment; only valid immediately after
	// a CheckSat that returned Sat.
	Model(ctx context.Context) (ModelResult, error)
	// Close releases any underlying process/connection.
	Close() error
}
