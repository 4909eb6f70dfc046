package passes

import (
	"github.com/stsforge/stsmc/ir"
	"github.com/stsforge/stsmc/visit"
)

// CanonicalizeBoolean rewrites every application of "and"/"or" so its
// arity is exactly 2: arity 1 collapses to its single argument, arity ≥ 3
// right-folds, e.g. (and a b c d) -> (and a (and b (and c d))) (spec §4.3).
// Idempotent, and commutes with FlattenLets (order of application is
// free), since it only ever looks at and/or application shape.
func CanonicalizeBoolean(t ir.Term) ir.Term {
	return visit.Rewrite(t, func(n ir.Term) (ir.Term, visit.TreeIdentity) {
		fn, args, ok := ir.IsAndOr(n)
		switch {
		case !ok || len(args) == 2:
			return n, visit.SameTree
		case len(args) == 1:
			return args[0], visit.NewTree
		default:
			return rightFold(fn, args), visit.NewTree
		}
	})
}

// rightFold builds (fn a[0] (fn a[1] (fn a[2] ... a[n-1]))).
func rightFold(fn ir.Symbol, args []ir.Term) ir.Term {
	if len(args) == 1 {
		return args[0]
	}
	return ir.App{Fn: fn, Args: []ir.Term{args[0], rightFold(fn, args[1:])}}
}
