// Package interp exports a sequent interpolant for a completed UNSAT
// bounded-model-checking run: it labels each unrolled frame assertion as
// an interpolation group, drives an external interpolating solver over
// the same subprocess-pipe shape smt.Z3 uses, and parses the resulting
// interpolant terms back into this package's term language.
package interp

import (
	"github.com/stsforge/stsmc/ir"
	"github.com/stsforge/stsmc/sts"
)

// Group is one sequent-interpolation partition: a single conjunct of the
// unrolled bundle, tagged with a group label.
type Group struct {
	Label string
	Term  ir.Term
}

// Labels produces n base-26 labels (A, B, ..., Z, AA, AB, ...), the way
// spreadsheet columns are numbered — short and never colliding with a
// model's own symbol names since they are uppercase-letters-only.
func Labels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = label(i)
	}
	return out
}

func label(i int) string {
	var b []byte
	for {
		b = append([]byte{byte('A' + i%26)}, b...)
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	return string(b)
}

// GroupsFromBundle assigns one interpolation group per unrolled frame
// assertion, in order, plus a final group for the negated property when
// present: the sequent A_0, A_1, ..., A_k, ¬P that a BMC UNSAT result
// certifies unsatisfiable, and whose consecutive cut points a sequent
// interpolant separates.
func GroupsFromBundle(b *sts.Bundle) []Group {
	n := len(b.Assertions)
	if b.NegProp != nil {
		n++
	}
	labels := Labels(n)
	groups := make([]Group, 0, n)
	for i, a := range b.Assertions {
		groups = append(groups, Group{Label: labels[i], Term: a})
	}
	if b.NegProp != nil {
		groups = append(groups, Group{Label: labels[len(b.Assertions)], Term: b.NegProp})
	}
	return groups
}
