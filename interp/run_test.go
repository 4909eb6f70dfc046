package interp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseResponseReadsOneLineInterpolants(t *testing.T) {
	out := "unsat\n(>= x 0)\n(= y 1)\n"
	terms, err := parseResponse(out, 2)
	require.NoError(t, err)
	require.Len(t, terms, 2)
	require.Equal(t, "(>= x 0)", terms[0].String())
	require.Equal(t, "(= y 1)", terms[1].String())
}

func TestParseResponseHandlesMultilineInterpolant(t *testing.T) {
	out := "unsat\n(and\n  (>= x 0)\n  (<= x 10))\n"
	terms, err := parseResponse(out, 1)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	require.Equal(t, "(and (>= x 0) (<= x 10))", terms[0].String())
}

func TestParseResponseRejectsSatVerdict(t *testing.T) {
	_, err := parseResponse("sat\n", 1)
	require.Error(t, err)
}

func TestParseResponseErrorsWhenTooFewInterpolants(t *testing.T) {
	_, err := parseResponse("unsat\n(>= x 0)\n", 2)
	require.Error(t, err)
}
