package stsmc

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stsforge/stsmc/refine"
	"github.com/stsforge/stsmc/smt"
)

const counterSrc = `
(declare-fun x () Int)
(declare-fun x-next () Int)
(define-fun x-witness () Int (! x :next x-next))
(define-fun init-fn () Bool (! (= x 0) :init))
(define-fun trans-fn () Bool (! (= x-next (+ x 1)) :trans))
(define-fun prop-fn () Bool (! (>= x 0) :invar-property))
`

func TestLoadNormalizesAndAbstracts(t *testing.T) {
	c := New(Config{}, nil)
	m, ab, err := c.Load(counterSrc)
	require.NoError(t, err)
	require.Len(t, m.Variables, 1)
	require.NotNil(t, ab) // default (Int,Int) array type is always registered
}

func TestLoadRejectsMalformedInput(t *testing.T) {
	c := New(Config{}, nil)
	_, _, err := c.Load("(declare-fun x () Int)")
	require.Error(t, err)
	require.True(t, ErrStructure.Is(err))
}

func TestLoadRejectsUnparsableInput(t *testing.T) {
	c := New(Config{}, nil)
	_, _, err := c.Load("(declare-fun")
	require.Error(t, err)
	require.True(t, ErrParse.Is(err))
}

func TestCheckModelSafeWhenAlwaysUnsat(t *testing.T) {
	c := New(Config{Depth: 3, InnerCap: 5}, nil)
	m, ab, err := c.Load(counterSrc)
	require.NoError(t, err)

	solver := smt.NewFake(smt.Unsat, smt.Unsat, smt.Unsat)
	res, err := c.CheckModel(context.Background(), m, ab, solver)
	require.NoError(t, err)
	require.Equal(t, refine.Safe, res.Outcome)
}

func TestCheckModelTranslatesSolverUnknown(t *testing.T) {
	c := New(Config{Depth: 1, InnerCap: 3}, nil)
	m, ab, err := c.Load(counterSrc)
	require.NoError(t, err)

	solver := smt.NewFake(smt.Unknown)
	_, err = c.CheckModel(context.Background(), m, ab, solver)
	require.Error(t, err)
	require.True(t, ErrSolverUnknown.Is(err))
}

func TestCheckModelTranslatesStuck(t *testing.T) {
	c := New(Config{Depth: 1, InnerCap: 2}, nil)
	m, ab, err := c.Load(counterSrc)
	require.NoError(t, err)

	solver := smt.NewFake(smt.Sat, smt.Sat)
	_, err = c.CheckModel(context.Background(), m, ab, solver)
	require.Error(t, err)
	require.True(t, ErrStuck.Is(err))
}

func TestCheckModelDumpsInstantiatedModel(t *testing.T) {
	dir := t.TempDir()
	c := New(Config{Depth: 1, InnerCap: 2, DumpInstantiatedPath: dir + "/out.sts"}, nil)
	m, ab, err := c.Load(counterSrc)
	require.NoError(t, err)

	solver := smt.NewFake(smt.Unsat)
	_, err = c.CheckModel(context.Background(), m, ab, solver)
	require.NoError(t, err)

	data, readErr := os.ReadFile(dir + "/out.sts")
	require.NoError(t, readErr)
	require.Contains(t, string(data), "invar-property")
}
