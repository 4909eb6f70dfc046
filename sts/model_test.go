package sts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stsforge/stsmc/ir"
)

const counterModel = `
(declare-fun x () Int)
(declare-fun x-next () Int)
(define-fun x-witness () Int (! x :next x-next))
(declare-fun tick () Bool)
(define-fun tick-witness () Bool (! tick :action))
(define-fun ax () Bool (! (>= x 0) :axiom))
(define-fun init-fn () Bool (! (= x 0) :init))
(define-fun trans-fn () Bool (! (= x-next (+ x 1)) :trans))
(define-fun prop-fn () Bool (! (>= x 0) :invar-property))
`

func parseCounter(t *testing.T) *Model {
	t.Helper()
	m, err := ParseModel(counterModel, ir.DefaultFrameDelim)
	require.NoError(t, err)
	return m
}

func TestParseModelClassifiesWitnesses(t *testing.T) {
	m := parseCounter(t)
	require.Len(t, m.Variables, 1)
	require.Equal(t, ir.Symbol("x"), m.Variables[0].Name)
	require.Equal(t, ir.Symbol("x-next"), m.Variables[0].Next)
	require.False(t, m.Variables[0].Immutable)

	require.Len(t, m.Actions, 1)
	require.Equal(t, ir.Symbol("tick"), m.Actions[0].Name)

	require.Len(t, m.Axioms, 1)
	require.Equal(t, "(>= x 0)", m.Axioms[0].Term.String())

	require.Equal(t, "(= x 0)", m.Init.Term.String())
	require.Equal(t, "(= x-next (+ x 1))", m.Trans.Term.String())
	require.Equal(t, "(>= x 0)", m.Prop.Term.String())
}

func TestParseModelRejectsUndeclaredNextTarget(t *testing.T) {
	src := `
(declare-fun x () Int)
(define-fun x-witness () Int (! x :next x-next))
(define-fun init-fn () Bool (! (= x 0) :init))
(define-fun trans-fn () Bool (! true :trans))
(define-fun prop-fn () Bool (! true :invar-property))
`
	_, err := ParseModel(src, ir.DefaultFrameDelim)
	require.Error(t, err)
}

func TestParseModelRejectsWrongTailOrder(t *testing.T) {
	src := `
(declare-fun x () Int)
(define-fun init-fn () Bool (! (= x 0) :trans))
(define-fun trans-fn () Bool (! true :init))
(define-fun prop-fn () Bool (! true :invar-property))
`
	_, err := ParseModel(src, ir.DefaultFrameDelim)
	require.Error(t, err)
}

func TestImmutableVariableRecognized(t *testing.T) {
	src := `
(declare-fun p () Int)
(declare-fun p-next () Int)
(define-fun p-witness () Int (! p :next p-next :immutable))
(define-fun init-fn () Bool (! true :init))
(define-fun trans-fn () Bool (! (= p-next p) :trans))
(define-fun prop-fn () Bool (! true :invar-property))
`
	m, err := ParseModel(src, ir.DefaultFrameDelim)
	require.NoError(t, err)
	require.True(t, m.Variables[0].Immutable)
}

func TestAddInstantiationConjoinsIntoInitAndTrans(t *testing.T) {
	m := parseCounter(t)
	m.AddInstantiation(ir.AppN("=", ir.Int(1), ir.Int(1)))
	require.Contains(t, m.Init.Term.String(), "(= 1 1)")
	require.Contains(t, m.Trans.Term.String(), "(= 1 1)")
}

func TestCommandsRoundTripsThroughNewModel(t *testing.T) {
	m := parseCounter(t)
	cmds := m.Commands()

	m2, err := NewModel(cmds, ir.DefaultFrameDelim)
	require.NoError(t, err)
	require.Len(t, m2.Variables, 1)
	require.Equal(t, ir.Symbol("x"), m2.Variables[0].Name)
	require.Equal(t, ir.Symbol("x-next"), m2.Variables[0].Next)
	require.Len(t, m2.Actions, 1)
	require.Len(t, m2.Axioms, 1)
	require.Equal(t, m.Init.Term.String(), m2.Init.Term.String())
	require.Equal(t, m.Trans.Term.String(), m2.Trans.Term.String())
	require.Equal(t, m.Prop.Term.String(), m2.Prop.Term.String())
}
