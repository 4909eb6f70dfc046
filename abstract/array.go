// Package abstract eliminates the built-in Array theory (spec §4.4),
// replacing the parametric Array sort and its select/store/const-array
// operators with a family of uninterpreted sorts and function symbols, one
// triple per distinct (index, value) sort pair that actually occurs in the
// model.
package abstract

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/stsforge/stsmc/ir"
	"github.com/stsforge/stsmc/visit"
)

// Built-in operator names recognized on the parametric Array sort.
const (
	SelectOp = "select"
	StoreOp  = "store"
	ConstOp  = "const-array"
)

// ArrayType is one concrete (index, value) instantiation of the built-in
// Array sort, together with the uninterpreted sort and function symbols
// synthesized for it.
type ArrayType struct {
	Index, Value ir.Sort

	Sort     ir.Sort
	Read     ir.Symbol
	Write    ir.Symbol
	ConstArr ir.Symbol
}

func key(index, value ir.Sort) string { return index.String() + "," + value.String() }

func synth(index, value ir.Sort) ArrayType {
	suffix := fmt.Sprintf("%s-%s", index.String(), value.String())
	name := "Array-" + suffix
	return ArrayType{
		Index:    index,
		Value:    value,
		Sort:     ir.Simple(name),
		Read:     ir.Symbol("Read-" + suffix),
		Write:    ir.Symbol("Write-" + suffix),
		ConstArr: ir.Symbol("ConstArr-" + suffix),
	}
}

// Abstractor rewrites the Array theory out of a model's sorts and terms.
//
// Current simplification (spec §4.4): only (Int,Int) arrays are emitted by
// default. arrayTypes is the extension point for additional pairs — set
// it explicitly to allow other index/value sorts; Sort, Term and
// ConstArray otherwise reject any Array instantiation they did not expect.
type Abstractor struct {
	arrayTypes map[string]ArrayType
}

// NewAbstractor builds an Abstractor that accepts only the given
// (index, value) pairs. With no arguments it defaults to the documented
// (Int,Int)-only limitation.
func NewAbstractor(pairs ...[2]ir.Sort) *Abstractor {
	a := &Abstractor{arrayTypes: map[string]ArrayType{}}
	if len(pairs) == 0 {
		pairs = [][2]ir.Sort{{ir.Simple("Int"), ir.Simple("Int")}}
	}
	for _, p := range pairs {
		a.arrayTypes[key(p[0], p[1])] = synth(p[0], p[1])
	}
	return a
}

// Lookup returns the synthesized ArrayType for (index, value), if allowed.
func (a *Abstractor) Lookup(index, value ir.Sort) (ArrayType, bool) {
	at, ok := a.arrayTypes[key(index, value)]
	return at, ok
}

// Types returns every synthesized ArrayType, for emitting fresh sort/
// function declarations.
func (a *Abstractor) Types() []ArrayType {
	out := make([]ArrayType, 0, len(a.arrayTypes))
	for _, at := range a.arrayTypes {
		out = append(out, at)
	}
	return out
}

// Sort rewrites s: the built-in Array sort becomes the synthesized
// uninterpreted sort for its (index, value) pair; every other sort is
// returned unchanged (but its parameters are still rewritten, in case a
// sort is itself parameterized over an Array).
func (a *Abstractor) Sort(s ir.Sort) (ir.Sort, error) {
	if idx, val, ok := s.IsArray(); ok {
		at, known := a.Lookup(idx, val)
		if !known {
			return ir.Sort{}, fmt.Errorf("abstract: array type (Array %s %s) not configured for this abstractor", idx, val)
		}
		return at.Sort, nil
	}
	if len(s.Args) == 0 {
		return s, nil
	}
	args := make([]ir.Sort, len(s.Args))
	for i, a2 := range s.Args {
		rewritten, err := a.Sort(a2)
		if err != nil {
			return ir.Sort{}, err
		}
		args[i] = rewritten
	}
	return ir.Sort{Name: s.Name, Args: args}, nil
}

// Term rewrites every select/store application in t into the
// corresponding synthesized function symbol; select and store resolve
// their array type from the array argument via arraySortOf. const-array
// applications are checked for arity and otherwise left unchanged: Term
// has no sort to resolve them with, and an ir.Id "as" annotation is not
// consulted. ConstArray rewrites one once its sort is known.
func (a *Abstractor) Term(t ir.Term, arraySortOf func(arg ir.Term) (ir.Sort, bool)) (ir.Term, error) {
	out, _, err := visit.TransformUp(t, func(n ir.Term) (ir.Term, visit.TreeIdentity, error) {
		app, ok := n.(ir.App)
		if !ok {
			return n, visit.SameTree, nil
		}
		switch app.Fn {
		case SelectOp:
			if len(app.Args) != 2 {
				return n, visit.SameTree, fmt.Errorf("abstract: select expects 2 args, got %d", len(app.Args))
			}
			arrSort, ok := arraySortOf(app.Args[0])
			if !ok {
				return n, visit.SameTree, fmt.Errorf("abstract: cannot determine array sort of %s", app.Args[0])
			}
			idx, val, ok := arrSort.IsArray()
			if !ok {
				return n, visit.SameTree, fmt.Errorf("abstract: %s is not an Array sort", arrSort)
			}
			at, known := a.Lookup(idx, val)
			if !known {
				return n, visit.SameTree, fmt.Errorf("abstract: array type (Array %s %s) not configured for this abstractor", idx, val)
			}
			return ir.App{Fn: at.Read, Args: app.Args}, visit.NewTree, nil

		case StoreOp:
			if len(app.Args) != 3 {
				return n, visit.SameTree, fmt.Errorf("abstract: store expects 3 args, got %d", len(app.Args))
			}
			arrSort, ok := arraySortOf(app.Args[0])
			if !ok {
				return n, visit.SameTree, fmt.Errorf("abstract: cannot determine array sort of %s", app.Args[0])
			}
			idx, val, ok := arrSort.IsArray()
			if !ok {
				return n, visit.SameTree, fmt.Errorf("abstract: %s is not an Array sort", arrSort)
			}
			at, known := a.Lookup(idx, val)
			if !known {
				return n, visit.SameTree, fmt.Errorf("abstract: array type (Array %s %s) not configured for this abstractor", idx, val)
			}
			return ir.App{Fn: at.Write, Args: app.Args}, visit.NewTree, nil

		case ConstOp:
			// const-array is unary: its operand is the fill value; its
			// result sort is not known here, so the application is left
			// as-is for ConstArray (see Model's equality pass).
			if len(app.Args) != 1 {
				return n, visit.SameTree, fmt.Errorf("abstract: const-array expects 1 arg, got %d", len(app.Args))
			}
			return n, visit.SameTree, nil // resolved by ConstArray below once sort is known

		default:
			return n, visit.SameTree, nil
		}
	})
	return out, err
}

// ConstArray builds the abstracted constant-array application
// ConstArr-I-V(fill) once the result's (Array I V) sort is known, coercing
// fill's literal representation with cast so differing underlying literal
// shapes (int vs int64 vs string-encoded number) collapse consistently.
func (a *Abstractor) ConstArray(index, value ir.Sort, fill ir.Term) (ir.Term, error) {
	at, known := a.Lookup(index, value)
	if !known {
		return nil, fmt.Errorf("abstract: array type (Array %s %s) not configured for this abstractor", index, value)
	}
	if c, ok := fill.(ir.Const); ok {
		if n, err := cast.ToInt64E(c.Value); err == nil {
			fill = ir.Int(n)
		}
	}
	return ir.App{Fn: at.ConstArr, Args: []ir.Term{fill}}, nil
}
