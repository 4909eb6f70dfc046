package refine

import (
	"fmt"

	"github.com/stsforge/stsmc/ir"
	"github.com/stsforge/stsmc/sts"
	"github.com/stsforge/stsmc/visit"
)

// Instantiate rewrites a ConstantSpan or InductiveSpan candidate term back
// into the model's own current/next vocabulary, dropping frame indices
// (spec §4.10): a constant-span lemma becomes a statement about the
// current-frame symbols alone; an inductive-span lemma's lower frame
// becomes the current-frame symbols and its upper frame becomes their
// ":next" counterparts, ready for Model.AddInstantiation.
//
// Instantiate rejects a ProphecySpan term outright — callers are expected
// to have already filtered by Classify and to report ProphecyRequired
// instead of calling this (spec §7).
func Instantiate(m *sts.Model, t ir.Term, delim byte) (ir.Term, error) {
	span := Classify(t, delim)
	if span == ProphecySpan {
		return nil, fmt.Errorf("refine: cannot instantiate a prophecy-span term: %s", t)
	}

	indices := frameIndices(t, delim)
	lo := 0
	hasLo := false
	for k := range indices {
		if !hasLo || k < lo {
			lo = k
			hasLo = true
		}
	}

	out, _, err := visit.TransformUp(t, func(n ir.Term) (ir.Term, visit.TreeIdentity, error) {
		app, ok := n.(ir.App)
		if !ok || len(app.Args) != 0 {
			return n, visit.SameTree, nil
		}
		base, idx, ok := app.Fn.Frame(delim)
		if !ok {
			return n, visit.SameTree, nil
		}
		switch {
		case !hasLo || idx == lo:
			return ir.Sym(base), visit.NewTree, nil
		case idx == lo+1:
			v, found := m.Variable(base)
			if !found {
				return n, visit.SameTree, fmt.Errorf("refine: %s has no next-frame counterpart to instantiate into", base)
			}
			return ir.Sym(v.Next), visit.NewTree, nil
		default:
			return n, visit.SameTree, fmt.Errorf("refine: frame index %d out of range for span of term %s", idx, t)
		}
	})
	return out, err
}
