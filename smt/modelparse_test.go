package smt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseModelResponseNullary(t *testing.T) {
	res := parseModelResponse(`(model (define-fun x () Int 5) (define-fun p () Bool true))`)
	require.Equal(t, "5", res.Nullary["x"])
	require.Equal(t, "true", res.Nullary["p"])
	require.Empty(t, res.Functions)
}

func TestParseModelResponseFunctionTable(t *testing.T) {
	res := parseModelResponse(`(model
  (define-fun Read-Int-Int ((x!0 Int) (x!1 Int)) Int
    (ite (and (= x!0 0) (= x!1 5)) 100
    (ite (and (= x!0 1) (= x!1 7)) 200
    0)))
)`)
	require.Empty(t, res.Nullary)
	entries := res.Functions["Read-Int-Int"]
	require.Len(t, entries, 2)
	require.Equal(t, []string{"0", "5"}, entries[0].Args)
	require.Equal(t, "100", entries[0].Value)
	require.Equal(t, []string{"1", "7"}, entries[1].Args)
	require.Equal(t, "200", entries[1].Value)
}

func TestParseModelResponseMixedNullaryAndFunction(t *testing.T) {
	res := parseModelResponse(`(model
  (define-fun a () Int 3)
  (define-fun Write-Int-Int ((x!0 Int) (x!1 Int) (x!2 Int)) Int
    (ite (and (= x!0 7) (= x!1 0) (= x!2 9)) 1
    0))
)`)
	require.Equal(t, "3", res.Nullary["a"])
	entries := res.Functions["Write-Int-Int"]
	require.Len(t, entries, 1)
	require.Equal(t, []string{"7", "0", "9"}, entries[0].Args)
	require.Equal(t, "1", entries[0].Value)
}
