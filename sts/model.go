package sts

import (
	"fmt"

	"github.com/stsforge/stsmc/ir"
)

// Variable is one state variable of the system: a current-frame symbol, its
// next-frame counterpart, and the sort both share (spec §3). Immutable
// marks a variable that is not frame-duplicated across an unrolling — an
// input or parameter rather than genuine mutable state — per the explicit
// :immutable attribute convention (see DESIGN.md's Open Question decision;
// the teacher's sql/plan nodes similarly carry an explicit flag rather than
// inferring a property from naming).
type Variable struct {
	Name      ir.Symbol
	Next      ir.Symbol
	Sort      ir.Sort
	Immutable bool
}

// Action is a nullary action symbol available to the transition relation
// (spec §3). Actions are frame-duplicated the same way mutable Variables
// are, but have no next-state counterpart of their own.
type Action struct {
	Name ir.Symbol
	Sort ir.Sort
}

// Axiom is a side constraint asserted at every frame, independent of
// init/trans/prop (spec §3's ":axiom" witnesses).
type Axiom struct {
	Term ir.Term
}

// Model is a fully parsed and validated symbolic transition system: its
// sorts, uninterpreted functions, state variables, actions, axioms, and the
// three distinguished init/trans/invar-property terms.
type Model struct {
	Sorts     []ir.DeclareSort
	Functions []ir.DeclareFun // non-nullary declared functions
	Variables []Variable
	Actions   []Action
	Axioms    []Axiom

	Init ir.Attributed
	Trans ir.Attributed
	Prop  ir.Attributed

	FrameDelim byte
}

// declSet indexes declare-funs by name; nullary looks up only nullary
// ones, since only those can be state variables, actions, or next-state
// targets.
type declSet map[ir.Symbol]ir.DeclareFun

func (d declSet) nullary(name ir.Symbol) (ir.DeclareFun, bool) {
	df, ok := d[name]
	if !ok || len(df.Params) != 0 {
		return ir.DeclareFun{}, false
	}
	return df, true
}

// NewModel validates and classifies a raw command stream into a Model
// (spec §3, §6). The grammar convention this front end recognizes:
//
//   - a state variable is three commands: a nullary declare-fun for its
//     current-frame symbol, a nullary declare-fun for its next-frame
//     symbol, and a define-fun whose Attributed body is
//     "(! current :next next-name)" (optionally also carrying bare
//     ":immutable");
//   - an action is a nullary declare-fun plus a define-fun whose
//     Attributed body is "(! current :action)";
//   - a side axiom is a define-fun whose Attributed body carries ":axiom";
//     only the wrapped term is kept, the define-fun's own name is
//     discarded;
//   - the model's init/trans/invar-property are the last three commands,
//     each a define-fun whose body carries ":init", ":trans", and
//     ":invar-property" respectively, in that order.
//
// Any other shape is a StructureError-flavored parse failure (spec §6,
// §7): this function returns a plain error and leaves Kind classification
// to the caller (package stsmc wraps it with the right error Kind).
func NewModel(cmds []ir.Command, frameDelim byte) (*Model, error) {
	if len(cmds) < 3 {
		return nil, fmt.Errorf("sts: model requires at least init/trans/invar-property, got %d commands", len(cmds))
	}

	m := &Model{FrameDelim: frameDelim}
	decls := declSet{}

	body := cmds[:len(cmds)-3]
	for _, c := range body {
		switch n := c.(type) {
		case ir.DeclareSort:
			m.Sorts = append(m.Sorts, n)
		case ir.DeclareFun:
			if _, dup := decls[n.Name]; dup {
				return nil, fmt.Errorf("sts: %s declared more than once", n.Name)
			}
			decls[n.Name] = n
			if len(n.Params) != 0 {
				m.Functions = append(m.Functions, n)
			}
		case ir.DefineFun:
			if err := m.classifyWitness(n, decls); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("sts: unexpected command %s before init/trans/invar-property", c)
		}
	}

	tail := cmds[len(cmds)-3:]
	kinds := []string{":init", ":trans", ":invar-property"}
	dests := []*ir.Attributed{&m.Init, &m.Trans, &m.Prop}
	for i, c := range tail {
		df, ok := c.(ir.DefineFun)
		if !ok {
			return nil, fmt.Errorf("sts: final command %d must be define-fun, got %s", i, c)
		}
		at, ok := df.Body.(ir.Attributed)
		if !ok {
			return nil, fmt.Errorf("sts: final command %d body must carry %s", i, kinds[i])
		}
		if _, ok := at.Attr(kinds[i]); !ok {
			return nil, fmt.Errorf("sts: final command %d must carry %s, found %s", i, kinds[i], at)
		}
		*dests[i] = at
	}

	if err := m.validateNextTargets(decls); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) classifyWitness(df ir.DefineFun, decls declSet) error {
	at, ok := df.Body.(ir.Attributed)
	if !ok {
		return fmt.Errorf("sts: define-fun %s must have an attributed body", df.Name)
	}

	// :next and :action witnesses wrap a bare current-frame symbol; :axiom
	// wraps an arbitrary side-condition term (spec §3's "an Axiom is a term
	// extracted from a :axiom witness").
	if next, ok := at.Attr(":next"); ok {
		inner, ok := at.Term.(ir.App)
		if !ok || len(inner.Args) != 0 {
			return fmt.Errorf("sts: define-fun %s's :next witness must wrap a bare symbol", df.Name)
		}
		current := inner.Fn
		if next.Value == "" {
			return fmt.Errorf("sts: %s's :next attribute requires a target symbol", df.Name)
		}
		if _, ok := decls.nullary(current); !ok {
			return fmt.Errorf("sts: %s's :next witness references undeclared current symbol %s", df.Name, current)
		}
		_, immutable := at.Attr(":immutable")
		m.Variables = append(m.Variables, Variable{
			Name:      current,
			Next:      ir.Symbol(next.Value),
			Sort:      df.Result,
			Immutable: immutable,
		})
		return nil
	}
	if _, ok := at.Attr(":action"); ok {
		inner, ok := at.Term.(ir.App)
		if !ok || len(inner.Args) != 0 {
			return fmt.Errorf("sts: define-fun %s's :action witness must wrap a bare symbol", df.Name)
		}
		current := inner.Fn
		if _, ok := decls.nullary(current); !ok {
			return fmt.Errorf("sts: %s's :action witness references undeclared symbol %s", df.Name, current)
		}
		m.Actions = append(m.Actions, Action{Name: current, Sort: df.Result})
		return nil
	}
	if _, ok := at.Attr(":axiom"); ok {
		m.Axioms = append(m.Axioms, Axiom{Term: at.Term})
		return nil
	}
	return fmt.Errorf("sts: define-fun %s carries no recognized witness attribute (:next, :action, :axiom)", df.Name)
}

func (m *Model) validateNextTargets(decls declSet) error {
	for _, v := range m.Variables {
		if _, ok := decls.nullary(v.Next); !ok {
			return fmt.Errorf("sts: variable %s's :next target %s was never declared", v.Name, v.Next)
		}
	}
	return nil
}

// Variable looks up a state variable by its current-frame name.
func (m *Model) Variable(name ir.Symbol) (Variable, bool) {
	for _, v := range m.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// addConjunct appends lemma to body's argument list if body is already an
// "and" application, otherwise wraps body and lemma in a fresh "and" (spec
// §4.11: "the instantiation is pushed onto the argument list inside the
// and").
func addConjunct(body ir.Term, lemma ir.Term) ir.Term {
	if app, ok := body.(ir.App); ok && app.Fn == "and" {
		args := make([]ir.Term, len(app.Args)+1)
		copy(args, app.Args)
		args[len(app.Args)] = lemma
		return ir.App{Fn: "and", Args: args}
	}
	return ir.And(body, lemma)
}

// AddInstantiation conjoins lemma into both the init and trans relations,
// preserving their outer attribute annotations (spec §4.11).
func (m *Model) AddInstantiation(lemma ir.Term) {
	m.Init = ir.Attributed{Term: addConjunct(m.Init.Term, lemma), Attrs: m.Init.Attrs}
	m.Trans = ir.Attributed{Term: addConjunct(m.Trans.Term, lemma), Attrs: m.Trans.Attrs}
}

// Commands reconstructs a full command stream for m, in the shape NewModel
// accepts back: sort and function declarations, then one declare-fun pair
// plus a :next-witnessed define-fun per variable, one declare-fun plus an
// :action-witnessed define-fun per action, one :axiom-witnessed define-fun
// per axiom, and finally the :init/:trans/:invar-property define-funs.
// Used by the CLI's model-dump flags (spec §6) to serialize a model after
// array abstraction or after refinement back to the input syntax.
func (m *Model) Commands() []ir.Command {
	var cmds []ir.Command
	for _, s := range m.Sorts {
		cmds = append(cmds, s)
	}
	for _, f := range m.Functions {
		cmds = append(cmds, f)
	}
	for i, v := range m.Variables {
		cmds = append(cmds, ir.DeclareFun{Name: v.Name, Result: v.Sort})
		cmds = append(cmds, ir.DeclareFun{Name: v.Next, Result: v.Sort})
		attrs := []ir.Attr{{Keyword: ":next", Value: string(v.Next)}}
		if v.Immutable {
			attrs = append(attrs, ir.Attr{Keyword: ":immutable"})
		}
		cmds = append(cmds, ir.DefineFun{
			Name:   ir.Symbol(fmt.Sprintf("var%d-witness", i)),
			Result: v.Sort,
			Body:   ir.Attributed{Term: ir.Sym(v.Name), Attrs: attrs},
		})
	}
	for i, a := range m.Actions {
		cmds = append(cmds, ir.DeclareFun{Name: a.Name, Result: a.Sort})
		cmds = append(cmds, ir.DefineFun{
			Name:   ir.Symbol(fmt.Sprintf("action%d-witness", i)),
			Result: a.Sort,
			Body:   ir.Attributed{Term: ir.Sym(a.Name), Attrs: []ir.Attr{{Keyword: ":action"}}},
		})
	}
	for i, ax := range m.Axioms {
		cmds = append(cmds, ir.DefineFun{
			Name:   ir.Symbol(fmt.Sprintf("axiom%d-witness", i)),
			Result: ir.Simple("Bool"),
			Body:   ir.Attributed{Term: ax.Term, Attrs: []ir.Attr{{Keyword: ":axiom"}}},
		})
	}
	cmds = append(cmds,
		ir.DefineFun{Name: "init-fn", Result: ir.Simple("Bool"), Body: m.Init},
		ir.DefineFun{Name: "trans-fn", Result: ir.Simple("Bool"), Body: m.Trans},
		ir.DefineFun{Name: "prop-fn", Result: ir.Simple("Bool"), Body: m.Prop},
	)
	return cmds
}
