package abstract

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stsforge/stsmc/ir"
)

func TestSortRewritesArrayToUninterpretedSort(t *testing.T) {
	a := NewAbstractor()
	arr := ir.Param("Array", ir.Simple("Int"), ir.Simple("Int"))
	out, err := a.Sort(arr)
	require.NoError(t, err)
	require.Equal(t, "Array-Int-Int", out.Name)
	require.True(t, out.IsSimple())
}

func TestSortRejectsUnknownArrayPair(t *testing.T) {
	a := NewAbstractor() // default: (Int,Int) only
	arr := ir.Param("Array", ir.Simple("Int"), ir.Simple("Bool"))
	_, err := a.Sort(arr)
	require.Error(t, err)
}

func TestSortUnknownArrayPairAllowedWhenConfigured(t *testing.T) {
	a := NewAbstractor([2]ir.Sort{ir.Simple("Int"), ir.Simple("Bool")})
	arr := ir.Param("Array", ir.Simple("Int"), ir.Simple("Bool"))
	out, err := a.Sort(arr)
	require.NoError(t, err)
	require.Equal(t, "Array-Int-Bool", out.Name)
}

func TestTermRewritesSelectAndStore(t *testing.T) {
	a := NewAbstractor()
	arrSort := ir.Param("Array", ir.Simple("Int"), ir.Simple("Int"))
	arraySortOf := func(ir.Term) (ir.Sort, bool) { return arrSort, true }

	sel := ir.AppN(SelectOp, ir.Sym("arr"), ir.Int(0))
	out, err := a.Term(sel, arraySortOf)
	require.NoError(t, err)
	require.Equal(t, "(Read-Int-Int arr 0)", out.String())

	st := ir.AppN(StoreOp, ir.Sym("arr"), ir.Int(0), ir.Int(42))
	out, err = a.Term(st, arraySortOf)
	require.NoError(t, err)
	require.Equal(t, "(Write-Int-Int arr 0 42)", out.String())
}

func TestNoArraySortOrOperatorSurvivesAbstraction(t *testing.T) {
	a := NewAbstractor()
	arrSort := ir.Param("Array", ir.Simple("Int"), ir.Simple("Int"))
	arraySortOf := func(ir.Term) (ir.Sort, bool) { return arrSort, true }

	term := ir.Eq(
		ir.AppN(SelectOp, ir.AppN(StoreOp, ir.Sym("arr"), ir.Int(0), ir.Int(1)), ir.Int(0)),
		ir.Int(1),
	)
	out, err := a.Term(term, arraySortOf)
	require.NoError(t, err)

	s := out.String()
	require.NotContains(t, s, "select")
	require.NotContains(t, s, "store")
}

func TestConstArrayCoercesLiteral(t *testing.T) {
	a := NewAbstractor()
	out, err := a.ConstArray(ir.Simple("Int"), ir.Simple("Int"), ir.Const{Value: int(0)})
	require.NoError(t, err)
	require.Equal(t, "(ConstArr-Int-Int 0)", out.String())
}
