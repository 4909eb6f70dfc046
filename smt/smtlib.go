package smt

import (
	"fmt"
	"strings"

	"github.com/stsforge/stsmc/sts"
)

// RenderBundle renders a ground bundle (spec §4.5) as an SMT-LIB2 script:
// sort declarations, function declarations, frame-indexed variable
// declarations, and one assert per ground assertion, in that order. This
// is what Solver.Load is handed once per depth.
func RenderBundle(b *sts.Bundle) string {
	var sb strings.Builder
	for _, s := range b.Sorts {
		fmt.Fprintf(&sb, "(declare-sort %s %d)\n", s.Name, s.Arity)
	}
	for _, f := range b.Functions {
		fmt.Fprintf(&sb, "%s\n", f.String())
	}
	for _, v := range b.VarDecls {
		fmt.Fprintf(&sb, "(declare-fun %s () %s)\n", v.Symbol, v.Sort.String())
	}
	for _, a := range b.Assertions {
		fmt.Fprintf(&sb, "(assert %s)\n", a.String())
	}
	if b.NegProp != nil {
		fmt.Fprintf(&sb, "(assert %s)\n", b.NegProp.String())
	}
	return sb.String()
}
