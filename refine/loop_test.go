package refine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stsforge/stsmc/egraph"
	"github.com/stsforge/stsmc/ir"
	"github.com/stsforge/stsmc/smt"
	"github.com/stsforge/stsmc/sts"
)

func simpleModel(t *testing.T) *sts.Model {
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

func arrayModel(t *testing.T) *sts.Model {
	t.Helper()
	src := `
(declare-fun arr () Int)
(declare-fun arr-next () Int)
(define-fun arr-witness () Int (! arr :next arr-next))
(declare-fun Read-Int-Int (Int Int) Int)
(declare-fun ConstArr-Int-Int (Int) Int)
(define-fun init-fn () Bool (! (= arr 0) :init))
(define-fun trans-fn () Bool (! (= arr-next (Read-Int-Int arr 0)) :trans))
(define-fun prop-fn () Bool (! (>= arr 0) :invar-property))
`
	m, err := sts.ParseModel(src, ir.DefaultFrameDelim)
	require.NoError(t, err)
	return m
}

// TestSeedAndInstantiateUsesModelFunctionsForArrayConflict exercises the
// model-ingestion path for non-nullary symbols (spec §4.11): the conflict
// here only exists because the solver's own reported interpretation of
// ConstArr-Int-Int ties it back to arr's value, never from anything
// syntactically present in the unrolled bundle alone.
func TestSeedAndInstantiateUsesModelFunctionsForArrayConflict(t *testing.T) {
	m := arrayModel(t)
	bundle, err := m.Unroll(1, true)
	require.NoError(t, err)

	model := smt.ModelResult{
		Nullary: map[string]string{"arr@0": "0"},
		Functions: map[string][]smt.FunctionEntry{
			"ConstArr-Int-Int": {{Args: []string{"0"}, Value: "0"}},
		},
	}
	ops := []egraph.ArrayOps{{Read: "Read-Int-Int", Write: "Write-Int-Int", ConstArr: "ConstArr-Int-Int"}}

	used := map[string]bool{}
	result := &Result{}
	newCount, constCount, err := seedAndInstantiate(m, bundle, model, Options{ArrayOps: ops, FrameDelim: '@'}, used, result)
	require.NoError(t, err)
	require.Greater(t, newCount, 0)
	require.Equal(t, newCount, constCount)
}

// TestSeedAndInstantiateIgnoresFunctionsWithUnparseableArgs confirms an
// entry whose argument can't be read as a ground literal is skipped rather
// than seeded with a guessed representation.
func TestSeedAndInstantiateIgnoresFunctionsWithUnparseableArgs(t *testing.T) {
	m := arrayModel(t)
	bundle, err := m.Unroll(1, true)
	require.NoError(t, err)

	model := smt.ModelResult{
		Functions: map[string][]smt.FunctionEntry{
			"ConstArr-Int-Int": {{Args: []string{"as-array!0"}, Value: "0"}},
		},
	}
	ops := []egraph.ArrayOps{{Read: "Read-Int-Int", Write: "Write-Int-Int", ConstArr: "ConstArr-Int-Int"}}

	used := map[string]bool{}
	result := &Result{}
	newCount, _, err := seedAndInstantiate(m, bundle, model, Options{ArrayOps: ops, FrameDelim: '@'}, used, result)
	require.NoError(t, err)
	require.Equal(t, 0, newCount)
}

func TestRunSafeWhenAlwaysUnsat(t *testing.T) {
	m := simpleModel(t)
	solver := smt.NewFake(smt.Unsat, smt.Unsat, smt.Unsat)
	res, err := Run(context.Background(), m, solver, Options{Depth: 3, InnerCap: 10, FrameDelim: '@'})
	require.NoError(t, err)
	require.Equal(t, Safe, res.Outcome)
	require.Equal(t, 2, res.ReachedDepth)
}

func TestRunReturnsStuckWhenSatWithNoProgress(t *testing.T) {
	m := simpleModel(t)
	solver := smt.NewFake(smt.Sat, smt.Sat, smt.Sat)
	_, err := Run(context.Background(), m, solver, Options{Depth: 1, InnerCap: 3, FrameDelim: '@'})
	require.Error(t, err)
	var stuck *Stuck
	require.ErrorAs(t, err, &stuck)
}

func TestRunReturnsSolverUnknownError(t *testing.T) {
	m := simpleModel(t)
	solver := smt.NewFake(smt.Unknown)
	_, err := Run(context.Background(), m, solver, Options{Depth: 1, InnerCap: 3, FrameDelim: '@'})
	require.Error(t, err)
	var unk *SolverUnknown
	require.ErrorAs(t, err, &unk)
}

func TestRunRespectsContextCancellation(t *testing.T) {
	m := simpleModel(t)
	solver := smt.NewFake(smt.Unsat)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, m, solver, Options{Depth: 5, InnerCap: 3, FrameDelim: '@'})
	require.Error(t, err)
}
