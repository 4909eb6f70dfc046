// Package refine turns e-graph conflict candidates into lemmas the model's
// init/trans relations can absorb, and drives the bounded-model-checking
// proof loop that ties the front end, abstractor, e-graph, and solver
// together (spec §4.9, §4.10, §4.11).
package refine

import (
	"github.com/stsforge/stsmc/ir"
	"github.com/stsforge/stsmc/visit"
)

// Span is the classification of how many distinct frames a candidate
// lemma's frame-indexed symbols span (spec §4.9).
type Span int

const (
	// ConstantSpan lemmas mention at most one frame index (or none): safe
	// to instantiate directly, they don't relate two states.
	ConstantSpan Span = iota
	// InductiveSpan lemmas mention exactly two adjacent frames i, i+1:
	// safe to instantiate as a step of the transition relation.
	InductiveSpan
	// ProphecySpan lemmas mention three or more distinct frames, or two
	// non-adjacent ones: these would require seeing into the future of
	// the unrolling to justify, so they are rejected rather than
	// instantiated (spec §1 Non-goals, §9).
	ProphecySpan
)

func (s Span) String() string {
	switch s {
	case ConstantSpan:
		return "constant"
	case InductiveSpan:
		return "inductive"
	default:
		return "prophecy"
	}
}

// frameIndices collects every distinct frame index carried by a
// frame-indexed symbol occurring anywhere in t.
func frameIndices(t ir.Term, delim byte) map[int]bool {
	return visit.Fold(t, func(n ir.Term, children []map[int]bool) map[int]bool {
		out := map[int]bool{}
		for _, c := range children {
			for k := range c {
				out[k] = true
			}
		}
		if app, ok := n.(ir.App); ok && len(app.Args) == 0 {
			if _, idx, ok := app.Fn.Frame(delim); ok {
				out[idx] = true
			}
		}
		return out
	})
}

// Classify reports the Span of t under the given frame delimiter.
func Classify(t ir.Term, delim byte) Span {
	indices := frameIndices(t, delim)
	if len(indices) <= 1 {
		return ConstantSpan
	}
	min, max := minMax(indices)
	if max-min == 1 && len(indices) == 2 {
		return InductiveSpan
	}
	return ProphecySpan
}

func minMax(indices map[int]bool) (min, max int) {
	first := true
	for k := range indices {
		if first {
			min, max = k, k
			first = false
			continue
		}
		if k < min {
			min = k
		}
		if k > max {
			max = k
		}
	}
	return min, max
}
