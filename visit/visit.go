// Package visit provides the traversal framework that every later
// transformation (let-flattening, boolean canonicalization, array
// abstraction, frame renaming) is built on. It mirrors the teacher's
// sql/transform package: a top-down Walk/Inspect pair for read-only
// traversal and a bottom-up TransformUp/NodeFunc pair for rewriting, the
// latter reporting whether the tree actually changed so unchanged sub-trees
// keep their canonical identity.
package visit

import "github.com/stsforge/stsmc/ir"

// TreeIdentity reports whether a rewrite produced a new tree or returned
// the original unchanged, so callers can skip re-deriving anything keyed
// on term identity (e.g. a cache) when nothing actually changed.
type TreeIdentity bool

const (
	SameTree TreeIdentity = false
	NewTree  TreeIdentity = true
)

// Visitor is visited once per node, top-down, during Walk. Returning nil
// stops descent into that node's children; returning a (possibly the same)
// Visitor continues with it for the children.
type Visitor interface {
	Visit(t ir.Term) Visitor
}

type visitorFunc func(ir.Term) Visitor

func (f visitorFunc) Visit(t ir.Term) Visitor { return f(t) }

// VisitorFunc adapts a plain function to a Visitor.
func VisitorFunc(f func(ir.Term) Visitor) Visitor { return visitorFunc(f) }

// Walk traverses t top-down, depth-first, calling v.Visit on every node
// including a trailing nil sentinel after each node's children, matching
// the teacher's sql/transform.Walk (whose tests assert on the trailing
// nils: they mark "no more siblings at this level" to a stateful visitor).
func Walk(v Visitor, t ir.Term) {
	if v == nil || t == nil {
		return
	}
	w := v.Visit(t)
	if w == nil {
		return
	}
	for _, c := range t.Children() {
		Walk(w, c)
	}
	w.Visit(nil)
}

type inspectorFunc func(ir.Term) bool

func (f inspectorFunc) Visit(t ir.Term) Visitor {
	if f(t) {
		return f
	}
	return nil
}

// Inspect is Walk for a plain predicate function: return false from f to
// stop descending into that node's children.
func Inspect(t ir.Term, f func(ir.Term) bool) {
	Walk(inspectorFunc(f), t)
}
