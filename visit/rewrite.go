package visit

import "github.com/stsforge/stsmc/ir"

// NodeFunc is the per-node rewrite callback used by TransformUp. It
// reports whether it replaced the node (NewTree) or left it as-is
// (SameTree) so TransformUp can avoid rebuilding unchanged ancestors — the
// exact signature and contract of the teacher's sql/transform.NodeFunc.
//
// A NodeFunc that only cares about a handful of term shapes type-switches
// on its argument and falls through to "return t, SameTree, nil" for
// everything else: that fallthrough *is* the "default rewriter is the
// identity" behavior spec §4.1 describes — there is no separate identity
// type to wire up.
type NodeFunc func(t ir.Term) (ir.Term, TreeIdentity, error)

// TransformUp applies f to every sub-term of t, children before parents
// (bottom-up), and returns the resulting term along with whether anything
// in the tree actually changed. If no descendant changed, the original t
// is returned unchanged (same Go value), preserving the canonical identity
// invariant of spec §4.1.
func TransformUp(t ir.Term, f NodeFunc) (ir.Term, TreeIdentity, error) {
	if t == nil {
		return t, SameTree, nil
	}

	children := t.Children()
	same := SameTree
	var newChildren []ir.Term
	if len(children) > 0 {
		newChildren = make([]ir.Term, len(children))
		for i, c := range children {
			nc, id, err := TransformUp(c, f)
			if err != nil {
				return nil, SameTree, err
			}
			newChildren[i] = nc
			if id == NewTree {
				same = NewTree
			}
		}
	}

	node := t
	if same == NewTree {
		node = t.WithChildren(newChildren)
	}

	result, id, err := f(node)
	if err != nil {
		return nil, SameTree, err
	}
	if id == NewTree {
		same = NewTree
	}
	return result, same, nil
}

// Rewrite is TransformUp without the error return, for rewrite rules that
// cannot fail (the common case for the passes in package passes).
func Rewrite(t ir.Term, f func(ir.Term) (ir.Term, TreeIdentity)) ir.Term {
	result, _, _ := TransformUp(t, func(n ir.Term) (ir.Term, TreeIdentity, error) {
		r, id := f(n)
		return r, id, nil
	})
	return result
}

// Fold accumulates a value of arbitrary type T bottom-up over t: every
// sub-term is visited exactly once, children before the term that
// contains them, and combine receives the term together with the already-
// folded results of its children in order. This is spec §4.1's "term
// visitor" traversal mode.
func Fold[T any](t ir.Term, combine func(t ir.Term, children []T) T) T {
	children := t.Children()
	results := make([]T, len(children))
	for i, c := range children {
		results[i] = Fold(c, combine)
	}
	return combine(t, results)
}
