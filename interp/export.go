package interp

import (
	"fmt"
	"strings"

	"github.com/stsforge/stsmc/sts"
)

// RenderRequest renders b's declarations plus one labeled assertion per
// group, a check-sat, and a request for every sequential cut-point
// interpolant: interpolant i separates groups[0:i+1] from the rest, so
// len(groups)-1 interpolants come back for a len(groups)-group sequent.
func RenderRequest(b *sts.Bundle, groups []Group) string {
	var sb strings.Builder
	sb.WriteString("(set-option :produce-interpolants true)\n")
	for _, s := range b.Sorts {
		fmt.Fprintf(&sb, "(declare-sort %s %d)\n", s.Name, s.Arity)
	}
	for _, f := range b.Functions {
		fmt.Fprintf(&sb, "%s\n", f.String())
	}
	for _, v := range b.VarDecls {
		fmt.Fprintf(&sb, "(declare-fun %s () %s)\n", v.Symbol, v.Sort.String())
	}
	for _, g := range groups {
		fmt.Fprintf(&sb, "(assert (! %s :interpolation-group %s))\n", g.Term.String(), g.Label)
	}
	sb.WriteString("(check-sat)\n")
	if len(groups) > 1 {
		cut := groups[0].Label
		for i := 1; i < len(groups); i++ {
			fmt.Fprintf(&sb, "(get-interpolant %s)\n", cut)
			cut = cut + " " + groups[i].Label
		}
	}
	return sb.String()
}
