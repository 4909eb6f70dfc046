package passes

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stsforge/stsmc/ir"
)

func TestFlattenLetsSpecExample(t *testing.T) {
	// (let ((a 10) (b (+ a 10))) (<= a b)) -> (<= 10 (+ 10 10))
	term := ir.Let{
		Bindings: []ir.Binding{
			{Name: "a", Term: ir.Int(10)},
			{Name: "b", Term: ir.AppN("+", ir.Sym("a"), ir.Int(10))},
		},
		Body: ir.AppN("<=", ir.Sym("a"), ir.Sym("b")),
	}

	out := FlattenLets(term)
	require.Equal(t, "(<= 10 (+ 10 10))", out.String())
}

func TestFlattenLetsIdempotent(t *testing.T) {
	term := ir.Let{
		Bindings: []ir.Binding{{Name: "x", Term: ir.Int(1)}},
		Body:     ir.AppN("+", ir.Sym("x"), ir.Sym("x")),
	}
	once := FlattenLets(term)
	twice := FlattenLets(once)
	require.Equal(t, once.String(), twice.String())
}

func TestFlattenLetsCaptureAvoidance(t *testing.T) {
	// (let ((x 1)) (forall ((x Int)) (= x 2))) must not substitute the
	// inner, quantifier-bound x.
	term := ir.Let{
		Bindings: []ir.Binding{{Name: "x", Term: ir.Int(1)}},
		Body: ir.Quant{
			Kind:    ir.Forall,
			Binders: []ir.SortedVar{{Name: "x", Sort: ir.Simple("Int")}},
			Body:    ir.Eq(ir.Sym("x"), ir.Int(2)),
		},
	}
	out := FlattenLets(term)
	require.Equal(t, "(forall ((x Int)) (= x 2))", out.String())
}

func TestCanonicalizeBooleanSpecExample(t *testing.T) {
	term := ir.And(ir.Sym("a"), ir.Sym("b"), ir.Sym("c"), ir.Sym("d"))
	out := CanonicalizeBoolean(term)
	require.Equal(t, "(and a (and b (and c d)))", out.String())
}

func TestCanonicalizeBooleanArityOneCollapses(t *testing.T) {
	term := ir.App{Fn: "or", Args: []ir.Term{ir.Sym("a")}}
	out := CanonicalizeBoolean(term)
	require.Equal(t, "a", out.String())
}

func TestCanonicalizeBooleanIdempotent(t *testing.T) {
	term := ir.And(ir.Sym("a"), ir.Sym("b"), ir.Sym("c"))
	once := CanonicalizeBoolean(term)
	twice := CanonicalizeBoolean(once)
	require.Equal(t, once.String(), twice.String())
}

func TestCanonicalizeBooleanEveryAndOrIsBinary(t *testing.T) {
	term := ir.Or(ir.Sym("a"), ir.Sym("b"), ir.Sym("c"), ir.Sym("d"), ir.Sym("e"))
	out := CanonicalizeBoolean(term)

	var walk func(ir.Term)
	walk = func(n ir.Term) {
		if fn, args, ok := ir.IsAndOr(n); ok {
			require.Lenf(t, args, 2, "non-binary %s application", fn)
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(out)
}
