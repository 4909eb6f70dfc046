package sts

import (
	"github.com/cespare/xxhash/v2"

	"github.com/stsforge/stsmc/ir"
	"github.com/stsforge/stsmc/visit"
)

// VarDecl is one ground function declaration in an unrolled bundle: a
// frame-indexed mutable variable/action, or an unframed immutable one.
type VarDecl struct {
	Symbol ir.Symbol
	Sort   ir.Sort
}

// Bundle is the ground SMT-LIB-shaped output of unrolling a Model to depth
// k (spec §4.5): sorts and non-nullary functions carried through verbatim,
// one VarDecl per mutable state variable/action per frame (plus one copy
// total for each immutable variable), and k+1 assertions — the renamed
// init term at frame 0 followed by the renamed trans term for each step
// 0..k-1. NegProp, if requested, is the renamed, negated invar-property at
// frame k.
type Bundle struct {
	Sorts      []ir.DeclareSort
	Functions  []ir.DeclareFun
	VarDecls   []VarDecl
	Assertions []ir.Term
	NegProp    ir.Term // nil unless requested
}

// symbolInterner deduplicates the frame-indexed symbols produced while
// unrolling, the way a hash-consing front end avoids re-allocating
// structurally identical names; xxhash gives a cheap, stable key for the
// (base, frame) pair without pulling in the heavier structural hasher
// package ir already uses for term identity.
type symbolInterner struct {
	seen map[uint64]ir.Symbol
}

func newSymbolInterner() *symbolInterner {
	return &symbolInterner{seen: map[uint64]ir.Symbol{}}
}

func (si *symbolInterner) intern(base ir.Symbol, frame int, delim byte) ir.Symbol {
	h := xxhash.New()
	_, _ = h.Write([]byte(base))
	_, _ = h.Write([]byte{delim})
	_, _ = h.Write([]byte{byte(frame), byte(frame >> 8), byte(frame >> 16), byte(frame >> 24)})
	key := h.Sum64()
	if s, ok := si.seen[key]; ok {
		return s
	}
	s := ir.WithFrame(base, frame, delim)
	si.seen[key] = s
	return s
}

// renamer rewrites bare nullary-symbol occurrences in a term so that a
// mutable state variable or action's current-frame name becomes
// "name@frame" and a variable's next-frame name becomes "name@(frame+1)".
// Immutable variables and any symbol not recognized as a variable or
// action (function symbols, bound/quantified names) are left untouched.
type renamer struct {
	model  *Model
	frame  int
	intern *symbolInterner
}

func (m *Model) newRenamer(frame int, intern *symbolInterner) *renamer {
	return &renamer{model: m, frame: frame, intern: intern}
}

func (r *renamer) rename(t ir.Term) (ir.Term, error) {
	out, _, err := visit.TransformUp(t, func(n ir.Term) (ir.Term, visit.TreeIdentity, error) {
		app, ok := n.(ir.App)
		if !ok || len(app.Args) != 0 {
			return n, visit.SameTree, nil
		}
		for _, v := range r.model.Variables {
			if v.Immutable {
				continue
			}
			if app.Fn == v.Name {
				return ir.Sym(r.intern.intern(v.Name, r.frame, r.model.FrameDelim)), visit.NewTree, nil
			}
			if app.Fn == v.Next {
				return ir.Sym(r.intern.intern(v.Name, r.frame+1, r.model.FrameDelim)), visit.NewTree, nil
			}
		}
		for _, a := range r.model.Actions {
			if app.Fn == a.Name {
				return ir.Sym(r.intern.intern(a.Name, r.frame, r.model.FrameDelim)), visit.NewTree, nil
			}
		}
		return n, visit.SameTree, nil
	})
	return out, err
}

// Unroll builds the ground SMT bundle for depth k (spec §4.5): the
// assertion count invariant is k+1 (the init term plus one trans term per
// step 0..k-1). withProp additionally produces the negated invariant
// property at frame k, for the proof loop's "does ¬prop hold at depth k"
// query.
func (m *Model) Unroll(k int, withProp bool) (*Bundle, error) {
	b := &Bundle{Sorts: append([]ir.DeclareSort(nil), m.Sorts...), Functions: append([]ir.DeclareFun(nil), m.Functions...)}
	intern := newSymbolInterner()

	for frame := 0; frame <= k; frame++ {
		for _, v := range m.Variables {
			if v.Immutable {
				continue
			}
			b.VarDecls = append(b.VarDecls, VarDecl{Symbol: intern.intern(v.Name, frame, m.FrameDelim), Sort: v.Sort})
		}
		for _, a := range m.Actions {
			b.VarDecls = append(b.VarDecls, VarDecl{Symbol: intern.intern(a.Name, frame, m.FrameDelim), Sort: a.Sort})
		}
	}
	for _, v := range m.Variables {
		if v.Immutable {
			b.VarDecls = append(b.VarDecls, VarDecl{Symbol: v.Name, Sort: v.Sort})
		}
	}

	// Axioms hold at every frame they mention: conjoining the frame-0 and
	// frame-(step+1) instances into init/trans keeps the k+1 assertion
	// count invariant (spec §8) intact instead of growing it per axiom.
	initRenamer := m.newRenamer(0, intern)
	init, err := initRenamer.rename(m.Init.Term)
	if err != nil {
		return nil, err
	}
	for _, ax := range m.Axioms {
		axTerm, err := initRenamer.rename(ax.Term)
		if err != nil {
			return nil, err
		}
		init = ir.And(init, axTerm)
	}
	b.Assertions = append(b.Assertions, init)

	for step := 0; step < k; step++ {
		r := m.newRenamer(step, intern)
		trans, err := r.rename(m.Trans.Term)
		if err != nil {
			return nil, err
		}
		nextRenamer := m.newRenamer(step+1, intern)
		for _, ax := range m.Axioms {
			axTerm, err := nextRenamer.rename(ax.Term)
			if err != nil {
				return nil, err
			}
			trans = ir.And(trans, axTerm)
		}
		b.Assertions = append(b.Assertions, trans)
	}

	if withProp {
		propRenamer := m.newRenamer(k, intern)
		prop, err := propRenamer.rename(m.Prop.Term)
		if err != nil {
			return nil, err
		}
		b.NegProp = ir.Not(prop)
	}
	return b, nil
}
