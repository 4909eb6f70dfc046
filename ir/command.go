package ir

import (
	"fmt"
	"strings"
)

// Command is one top-level form of the input file. The STS checker accepts
// exactly the four variants below; any other command form is a parse
// error (spec §6).
type Command interface {
	fmt.Stringer
}

// DeclareSort declares an uninterpreted sort of the given arity.
type DeclareSort struct {
	Name  string
	Arity int
}

func (d DeclareSort) String() string {
	return fmt.Sprintf("(declare-sort %s %d)", d.Name, d.Arity)
}

// DeclareFun declares an uninterpreted function symbol. Params is empty for
// a nullary (state-variable-like) declaration.
type DeclareFun struct {
	Name   Symbol
	Params []Sort
	Result Sort
}

func (d DeclareFun) String() string {
	parts := make([]string, len(d.Params))
	for i, p := range d.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(declare-fun %s (%s) %s)", d.Name, strings.Join(parts, " "), d.Result.String())
}

// DefineFun defines a function by name, signature, and body term. The body
// is frequently an Attributed term carrying one of :next, :action, :axiom,
// :init, :trans, or :invar-property.
type DefineFun struct {
	Name   Symbol
	Params []SortedVar
	Result Sort
	Body   Term
}

func (d DefineFun) String() string {
	parts := make([]string, len(d.Params))
	for i, p := range d.Params {
		parts[i] = fmt.Sprintf("(%s %s)", p.Name, p.Sort.String())
	}
	return fmt.Sprintf("(define-fun %s (%s) %s %s)", d.Name, strings.Join(parts, " "), d.Result.String(), d.Body.String())
}

// Assert asserts a term as an axiom/constraint of the script.
type Assert struct {
	Term Term
}

func (a Assert) String() string {
	return fmt.Sprintf("(assert %s)", a.Term.String())
}
