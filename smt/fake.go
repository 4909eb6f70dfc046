package smt

import "context"

// Fake is a deterministic, in-memory Solver for tests: it never actually
// checks satisfiability, it just replays a scripted sequence of results
// (one per CheckSat call), the way the teacher's fixture-driven test
// harnesses replace a real network/process collaborator with a scripted
// stand-in.
type Fake struct {
	Script []CheckResult
	Models []ModelResult

	calls     int
	loaded    []string
	stack     []int // lengths of loaded at each Push
	closed    bool
}

// NewFake builds a Fake that returns results in order, repeating the last
// result once the script is exhausted.
func NewFake(script ...CheckResult) *Fake {
	return &Fake{Script: script}
}

func (f *Fake) Push(_ context.Context) error {
	f.stack = append(f.stack, len(f.loaded))
	return nil
}

func (f *Fake) Pop(_ context.Context) error {
	if len(f.stack) == 0 {
		return nil
	}
	n := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	f.loaded = f.loaded[:n]
	return nil
}

func (f *Fake) Load(_ context.Context, script string) error {
	f.loaded = append(f.loaded, script)
	return nil
}

func (f *Fake) CheckSat(_ context.Context) (CheckResult, error) {
	if len(f.Script) == 0 {
		return Unknown, nil
	}
	idx := f.calls
	if idx >= len(f.Script) {
		idx = len(f.Script) - 1
	}
	f.calls++
	return f.Script[idx], nil
}

func (f *Fake) Model(_ context.Context) (ModelResult, error) {
	idx := f.calls - 1
	if idx < 0 {
		idx = 0
	}
	if idx < len(f.Models) {
		return f.Models[idx], nil
	}
	return ModelResult{Nullary: map[string]string{}, Functions: map[string][]FunctionEntry{}}, nil
}

func (f *Fake) Close() error {
	f.closed = true
	return nil
}

// Loaded returns every script string handed to Load since the last Pop
// unwound past it, for assertions in tests.
func (f *Fake) Loaded() []string { return f.loaded }
