// Package egraph implements a small congruence-closure e-graph over the
// ground array theory produced by package abstract, used not to optimize
// terms but to discover which not-yet-equal subterms a round of congruence
// closure would merge — each such merge becomes a candidate ground lemma
// for the refine package's instantiation loop (spec §4.6, §4.7).
package egraph

import (
	"github.com/mitchellh/hashstructure/v2"

	"github.com/stsforge/stsmc/ir"
)

// ClassID names an e-class. The zero value never denotes a real class.
type ClassID int

// ENode is one node of the e-graph: either a literal constant, or the
// application of an operator symbol to an ordered list of child e-classes.
// A bare symbol occurrence (ir.App with no arguments) is represented as an
// ENode with zero children, same as any other nullary application.
type ENode struct {
	IsConst  bool
	Value    interface{} // valid iff IsConst
	Op       ir.Symbol   // valid iff !IsConst
	Children []ClassID
}

func (n ENode) hashKey() uint64 {
	h, err := hashstructure.Hash(n, hashstructure.FormatV2, nil)
	if err != nil {
		panic("egraph: enode hash: " + err.Error())
	}
	return h
}

// constNode builds a leaf ENode for a literal value.
func constNode(v interface{}) ENode { return ENode{IsConst: true, Value: v} }

// appNode builds an ENode for an operator application.
func appNode(op ir.Symbol, children ...ClassID) ENode {
	return ENode{Op: op, Children: append([]ClassID(nil), children...)}
}
