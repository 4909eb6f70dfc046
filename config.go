package stsmc

import (
	"time"

	"github.com/opentracing/opentracing-go"

	"github.com/stsforge/stsmc/ir"
)

// Config configures one Checker run end-to-end: how deep to unroll, how
// many array types the abstractor should expect, which frame delimiter to
// use, and where (if anywhere) to dump intermediate models. Mirrors the
// CLI surface spec §6 describes, minus the parts (file I/O, exit codes)
// that belong to cmd/stsmc rather than the core.
type Config struct {
	// Depth is the BMC depth bound D: the loop tries depths 0..Depth-1
	// (spec §4.11, CLI's "-d", default 10).
	Depth int

	// InnerCap bounds the number of instantiation rounds tried at a single
	// depth before giving up (spec §4.11's "up to R times", CLI's "-b").
	InnerCap int

	// ArrayTypes restricts the abstractor to these (index, value) sort
	// pairs. Empty means the documented (Int,Int)-only default (spec
	// §4.4).
	ArrayTypes [][2]ir.Sort

	// FrameDelim is the single character separating a state-variable's
	// base name from its frame index (spec §3, default '@').
	FrameDelim byte

	// Z3Binary is the path to the z3 executable the solver shells out to.
	// Empty defaults to "z3" on $PATH.
	Z3Binary string

	// DumpAbstractedPath, if non-empty, receives the model's command
	// stream immediately after array abstraction and normalization, before
	// any BMC depth runs (spec §6's "dump the abstracted model to disk").
	DumpAbstractedPath string

	// DumpInstantiatedPath, if non-empty, receives the model's command
	// stream after the run completes, with every accepted instantiation
	// folded into init and trans (spec §6's "dump the instantiated model
	// after completion").
	DumpInstantiatedPath string

	// InterpolantBinary names an external interpolating-solver binary.
	// Checker does not read this field and exports no interpolants; the
	// CLI's --interpolate flag runs the exporter itself, once, after a
	// safe run.
	InterpolantBinary string

	// Tracer receives one span per BMC depth and per solver call; nil uses
	// opentracing's no-op tracer.
	Tracer opentracing.Tracer

	// Timeout bounds a single Check call; zero means no timeout. The
	// benchmark driver (package bench) applies its own per-file timeout
	// independently of this field — this one is for a single ad hoc CLI
	// invocation.
	Timeout time.Duration
}

func (c Config) frameDelim() byte {
	if c.FrameDelim == 0 {
		return ir.DefaultFrameDelim
	}
	return c.FrameDelim
}

func (c Config) depth() int {
	if c.Depth <= 0 {
		return 10
	}
	return c.Depth
}

func (c Config) innerCap() int {
	if c.InnerCap <= 0 {
		return 10
	}
	return c.InnerCap
}
