// Package passes holds the small, total, idempotent rewrite passes that
// run once over a whole model before anything domain-specific (array
// abstraction, frame renaming) happens: the let-flattener (spec §4.2) and
// the boolean n-ary canonicalizer (spec §4.3). Neither returns an error,
// since spec §4.2/§4.3 state neither pass can fail on a well-formed term;
// the let-flattener is a direct recursive walk rather than a
// visit.Rewrite caller.
package passes

import (
	"github.com/stsforge/stsmc/ir"
)

// FlattenLets eliminates every Let node from t by substituting each
// binding into the remainder of the let block (and ultimately the body) in
// declaration order, so a later binding may reference an earlier one.
// Substitution is capture-avoiding: a quantifier or inner let that
// re-binds a name shadows the outer binding for its own body.
//
// FlattenLets is idempotent: the output contains no Let nodes, and running
// it again is a no-op (spec §8, "Let-flattener idempotence").
func FlattenLets(t ir.Term) ir.Term {
	return flatten(t, nil)
}

// scope is a cons-list of active substitutions, innermost first. Lookup
// walks front-to-back so a later (more specific) push shadows an earlier
// one for the same name — the scope push/pop spec §9 calls out as the
// single canonical design, replacing the "with scope / without scope"
// duplication of the original source.
type scope struct {
	name ir.Symbol
	term ir.Term
	next *scope
}

func (s *scope) lookup(name ir.Symbol) (ir.Term, bool) {
	for c := s; c != nil; c = c.next {
		if c.name == name {
			return c.term, true
		}
	}
	return nil, false
}

func flatten(t ir.Term, sc *scope) ir.Term {
	switch n := t.(type) {
	case ir.App:
		if n.Fn == "" {
			return n
		}
		if repl, ok := sc.lookup(n.Fn); ok && len(n.Args) == 0 {
			return repl
		}
		args := flattenChildren(n.Args, sc)
		return ir.App{Fn: n.Fn, Args: args}

	case ir.Let:
		inner := sc
		for _, b := range n.Bindings {
			// Earlier bindings are visible to this binding's term; this
			// binding is not yet visible to itself (no recursive lets).
			flatBody := flatten(b.Term, inner)
			inner = &scope{name: b.Name, term: flatBody, next: inner}
		}
		return flatten(n.Body, inner)

	case ir.Quant:
		shadowed := shadowQuantified(sc, n.Binders)
		return ir.Quant{Kind: n.Kind, Binders: n.Binders, Body: flatten(n.Body, shadowed)}

	case ir.Match:
		cases := make([]ir.MatchCase, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = ir.MatchCase{
				Pattern: flatten(c.Pattern, sc),
				Result:  flatten(c.Result, sc),
			}
		}
		return ir.Match{Scrutinee: flatten(n.Scrutinee, sc), Cases: cases}

	case ir.Attributed:
		return ir.Attributed{Term: flatten(n.Term, sc), Attrs: n.Attrs}

	default:
		// Const, Id, and anything else with no bound-name concern.
		children := t.Children()
		if len(children) == 0 {
			return t
		}
		return t.WithChildren(flattenChildren(children, sc))
	}
}

func flattenChildren(children []ir.Term, sc *scope) []ir.Term {
	out := make([]ir.Term, len(children))
	for i, c := range children {
		out[i] = flatten(c, sc)
	}
	return out
}

// shadowQuantified removes any scope entries shadowed by a quantifier's own
// binder names, so a let-bound name is not substituted inside a quantifier
// that rebinds it (the capture-avoidance invariant of spec §4.2).
func shadowQuantified(sc *scope, binders []ir.SortedVar) *scope {
	if sc == nil || len(binders) == 0 {
		return sc
	}
	bound := make(map[ir.Symbol]bool, len(binders))
	for _, b := range binders {
		bound[b.Name] = true
	}
	// Filter, preserving relative order of the remaining entries.
	var kept []*scope
	for c := sc; c != nil; c = c.next {
		if !bound[c.name] {
			kept = append(kept, c)
		}
	}
	var head *scope
	for i := len(kept) - 1; i >= 0; i-- {
		head = &scope{name: kept[i].name, term: kept[i].term, next: head}
	}
	return head
}
