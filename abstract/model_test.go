package abstract

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stsforge/stsmc/ir"
	"github.com/stsforge/stsmc/sts"
)

func arraySrc() string {
	return `(declare-fun arr () (Array Int Int))
(declare-fun arr-next () (Array Int Int))
(define-fun arr-witness () (Array Int Int) (! arr :next arr-next))
(define-fun init-fn () Bool (! (= arr (const-array 0)) :init))
(define-fun trans-fn () Bool (! (= arr-next (store arr 0 1)) :trans))
(define-fun prop-fn () Bool (! (= (select arr 0) 0) :invar-property))`
}

func TestAbstractModelEliminatesArraySort(t *testing.T) {
	m, err := sts.NewModel(mustParse(t, arraySrc()), '@')
	require.NoError(t, err)

	a := NewAbstractor()
	require.NoError(t, Model(m, a))

	require.Equal(t, "Array-Int-Int", m.Variables[0].Sort.Name)
	require.Contains(t, m.Init.Term.String(), "ConstArr-Int-Int")
	require.Contains(t, m.Trans.Term.String(), "Write-Int-Int")
	require.Contains(t, m.Prop.Term.String(), "Read-Int-Int")
	require.NotContains(t, m.Init.Term.String(), "const-array")
	require.NotContains(t, m.Trans.Term.String(), "store")
	require.NotContains(t, m.Prop.Term.String(), "select")

	var sawSort bool
	for _, s := range m.Sorts {
		if s.Name == "Array-Int-Int" {
			sawSort = true
		}
	}
	require.True(t, sawSort)
}

func mustParse(t *testing.T, src string) []ir.Command {
	t.Helper()
	cmds, err := sts.ParseCommands(src)
	require.NoError(t, err)
	return cmds
}
