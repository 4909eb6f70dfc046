package interp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stsforge/stsmc/ir"
	"github.com/stsforge/stsmc/sts"
)

func TestRenderRequestIncludesGroupLabelsAndInterpolantRequests(t *testing.T) {
	b := &sts.Bundle{
		VarDecls: []sts.VarDecl{
			{Symbol: "x@0", Sort: ir.Simple("Int")},
			{Symbol: "x@1", Sort: ir.Simple("Int")},
		},
		Assertions: []ir.Term{ir.Eq(ir.Sym("x@0"), ir.Int(0)), ir.Eq(ir.Sym("x@1"), ir.Int(1))},
		NegProp:    ir.Not(ir.AppN(">=", ir.Sym("x@1"), ir.Int(0))),
	}
	groups := GroupsFromBundle(b)
	script := RenderRequest(b, groups)

	require.Contains(t, script, "(set-option :produce-interpolants true)")
	require.Contains(t, script, "(declare-fun x@0 () Int)")
	require.Contains(t, script, ":interpolation-group A")
	require.Contains(t, script, ":interpolation-group B")
	require.Contains(t, script, ":interpolation-group C")
	require.Contains(t, script, "(check-sat)")
	require.Contains(t, script, "(get-interpolant A)")
	require.Contains(t, script, "(get-interpolant A B)")
	require.Equal(t, 2, strings.Count(script, "(get-interpolant"))
}
