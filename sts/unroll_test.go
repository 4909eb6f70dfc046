package sts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stsforge/stsmc/ir"
)

func TestUnrollAssertionCountIsDepthPlusOne(t *testing.T) {
	m := parseCounter(t)
	for _, k := range []int{0, 1, 5} {
		b, err := m.Unroll(k, false)
		require.NoError(t, err)
		require.Lenf(t, b.Assertions, k+1, "depth %d", k)
	}
}

func TestUnrollVarDeclCountMutableVsImmutable(t *testing.T) {
	src := `
(declare-fun x () Int)
(declare-fun x-next () Int)
(define-fun x-witness () Int (! x :next x-next))
(declare-fun p () Int)
(declare-fun p-next () Int)
(define-fun p-witness () Int (! p :next p-next :immutable))
(define-fun init-fn () Bool (! (= x 0) :init))
(define-fun trans-fn () Bool (! (= x-next (+ x p)) :trans))
(define-fun prop-fn () Bool (! true :invar-property))
`
	m, err := ParseModel(src, ir.DefaultFrameDelim)
	require.NoError(t, err)

	k := 3
	b, err := m.Unroll(k, false)
	require.NoError(t, err)
	// one mutable var x per frame (k+1 frames), plus one immutable p total.
	require.Len(t, b.VarDecls, (k+1)+1)
}

func plainCounter(t *testing.T) *Model {
	t.Helper()
	src := `
(declare-fun x () Int)
(declare-fun x-next () Int)
(define-fun x-witness () Int (! x :next x-next))
(define-fun init-fn () Bool (! (= x 0) :init))
(define-fun trans-fn () Bool (! (= x-next (+ x 1)) :trans))
(define-fun prop-fn () Bool (! (>= x 0) :invar-property))
`
	m, err := ParseModel(src, ir.DefaultFrameDelim)
	require.NoError(t, err)
	return m
}

func TestUnrollRenamesCurrentAndNextOccurrences(t *testing.T) {
	m := plainCounter(t)
	b, err := m.Unroll(2, false)
	require.NoError(t, err)

	require.Equal(t, "(= x@0 0)", b.Assertions[0].String())
	require.Equal(t, "(= x@1 (+ x@0 1))", b.Assertions[1].String())
	require.Equal(t, "(= x@2 (+ x@1 1))", b.Assertions[2].String())
}

func TestUnrollWithPropNegatesAtFinalFrame(t *testing.T) {
	m := plainCounter(t)
	b, err := m.Unroll(2, true)
	require.NoError(t, err)
	require.Equal(t, "(not (>= x@2 0))", b.NegProp.String())
}

func TestUnrollAxiomConjoinedIntoInitAndTrans(t *testing.T) {
	m := parseCounter(t)
	b, err := m.Unroll(1, false)
	require.NoError(t, err)
	require.Equal(t, "(and (= x@0 0) (>= x@0 0))", b.Assertions[0].String())
	require.Equal(t, "(and (= x@1 (+ x@0 1)) (>= x@1 0))", b.Assertions[1].String())
}

func TestUnrollImmutableVariableNeverFrameIndexed(t *testing.T) {
	src := `
(declare-fun p () Int)
(declare-fun p-next () Int)
(define-fun p-witness () Int (! p :next p-next :immutable))
(define-fun init-fn () Bool (! true :init))
(define-fun trans-fn () Bool (! (>= p 0) :trans))
(define-fun prop-fn () Bool (! true :invar-property))
`
	m, err := ParseModel(src, ir.DefaultFrameDelim)
	require.NoError(t, err)
	b, err := m.Unroll(1, false)
	require.NoError(t, err)
	require.Equal(t, "(>= p 0)", b.Assertions[1].String())
}
