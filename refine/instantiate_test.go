package refine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stsforge/stsmc/ir"
	"github.com/stsforge/stsmc/sts"
)

func counterModelForInstantiate(t *testing.T) *sts.Model {
	t.Helper()
	src := `
(declare-fun x () Int)
(declare-fun x-next () Int)
(define-fun x-witness () Int (! x :next x-next))
(define-fun init-fn () Bool (! (= x 0) :init))
(define-fun trans-fn () Bool (! (= x-next (+ x 1)) :trans))
(define-fun prop-fn () Bool (! (>= x 0) :invar-property))
`
	m, err := sts.ParseModel(src, ir.DefaultFrameDelim)
	require.NoError(t, err)
	return m
}

func TestInstantiateConstantSpanDropsFrame(t *testing.T) {
	m := counterModelForInstantiate(t)
	term := ir.AppN(">=", ir.Sym("x@7"), ir.Int(0))
	out, err := Instantiate(m, term, '@')
	require.NoError(t, err)
	require.Equal(t, "(>= x 0)", out.String())
}

func TestInstantiateInductiveSpanMapsToNext(t *testing.T) {
	m := counterModelForInstantiate(t)
	term := ir.Eq(ir.Sym("x@4"), ir.AppN("+", ir.Sym("x@3"), ir.Int(1)))
	out, err := Instantiate(m, term, '@')
	require.NoError(t, err)
	require.Equal(t, "(= x-next (+ x 1))", out.String())
}

func TestInstantiateRejectsProphecySpan(t *testing.T) {
	m := counterModelForInstantiate(t)
	term := ir.Eq(ir.Sym("x@1"), ir.Sym("x@5"))
	_, err := Instantiate(m, term, '@')
	require.Error(t, err)
}
