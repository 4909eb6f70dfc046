package refine

import (
	"context"
	"fmt"
	"strconv"

	"github.com/opentracing/opentracing-go"

	"github.com/stsforge/stsmc/egraph"
	"github.com/stsforge/stsmc/ir"
	"github.com/stsforge/stsmc/smt"
	"github.com/stsforge/stsmc/sts"
)

// Outcome is the final verdict the proof loop reaches.
type Outcome int

const (
	Unresolved Outcome = iota
	Safe
	Unsafe
)

// Options configures one run of the proof loop.
type Options struct {
	Depth      int            // BMC depths to try, 0..Depth-1
	InnerCap   int            // max instantiation rounds per depth before giving up
	ArrayOps   []egraph.ArrayOps
	FrameDelim byte
	Tracer     opentracing.Tracer // optional; NoopTracer used if nil
}

// Result summarizes a completed (or abandoned) run.
type Result struct {
	Outcome        Outcome
	ReachedDepth   int
	UsedInstances  int
	ConstInstances int
}

// Stuck is returned when an inner round at some depth discovers no new,
// non-prophecy candidates and the solver still reports Sat: the proof
// loop has made no progress and cannot continue without prophecy
// instantiations, which are out of scope (spec §1 Non-goals, §7).
type Stuck struct {
	Depth int
}

func (e *Stuck) Error() string {
	return fmt.Sprintf("refine: stuck at depth %d: no new instantiations and solver still reports sat", e.Depth)
}

// SolverUnknown wraps a solver response of "unknown" at a given depth
// (spec §7: fatal, no automatic retry).
type SolverUnknown struct {
	Depth int
}

func (e *SolverUnknown) Error() string {
	return fmt.Sprintf("refine: solver returned unknown at depth %d", e.Depth)
}

func tracer(opts Options) opentracing.Tracer {
	if opts.Tracer != nil {
		return opts.Tracer
	}
	return opentracing.NoopTracer{}
}

// Run drives the bounded-model-checking loop over m using solver: for each
// depth 0..Options.Depth-1, it checks ¬property against the unrolling,
// and on Sat seeds an e-graph from the model and the solver's own
// assignment, looks for conflicts, instantiates every non-prophecy
// candidate into m, and retries — up to Options.InnerCap rounds — before
// moving to the next depth once the solver reports Unsat (spec §4.11).
func Run(ctx context.Context, m *sts.Model, solver smt.Solver, opts Options) (Result, error) {
	tr := tracer(opts)
	used := map[string]bool{}
	result := Result{Outcome: Unresolved}

	for d := 0; d < opts.Depth; d++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		span := tr.StartSpan("refine.depth")
		span.SetTag("depth", d)

		outcome, err := proveDepth(opentracing.ContextWithSpan(ctx, span), m, solver, opts, d, used, &result)
		span.Finish()
		if err != nil {
			return result, err
		}
		result.ReachedDepth = d
		if outcome == Unsafe {
			result.Outcome = Unsafe
			return result, nil
		}
	}
	result.Outcome = Safe
	return result, nil
}

func proveDepth(ctx context.Context, m *sts.Model, solver smt.Solver, opts Options, d int, used map[string]bool, result *Result) (Outcome, error) {
	for iter := 0; iter < opts.InnerCap; iter++ {
		if err := ctx.Err(); err != nil {
			return Unresolved, err
		}

		bundle, err := m.Unroll(d, true)
		if err != nil {
			return Unresolved, err
		}
		if err := solver.Push(ctx); err != nil {
			return Unresolved, err
		}
		if err := solver.Load(ctx, smt.RenderBundle(bundle)); err != nil {
			_ = solver.Pop(ctx)
			return Unresolved, err
		}

		checkSpan, _ := opentracing.StartSpanFromContextWithTracer(ctx, tracer(opts), "refine.checksat")
		sat, err := solver.CheckSat(ctx)
		checkSpan.Finish()
		if err != nil {
			_ = solver.Pop(ctx)
			return Unresolved, err
		}

		switch sat {
		case smt.Unsat:
			_ = solver.Pop(ctx)
			return Safe, nil

		case smt.Unknown:
			_ = solver.Pop(ctx)
			return Unresolved, &SolverUnknown{Depth: d}

		case smt.Sat:
			modelResult, err := solver.Model(ctx)
			if err != nil {
				_ = solver.Pop(ctx)
				return Unresolved, err
			}
			newCount, constCount, err := seedAndInstantiate(m, bundle, modelResult, opts, used, result)
			_ = solver.Pop(ctx)
			if err != nil {
				return Unresolved, err
			}
			result.UsedInstances += newCount
			result.ConstInstances += constCount
			if newCount == 0 {
				return Unresolved, &Stuck{Depth: d}
			}
			continue
		}
	}
	return Unresolved, fmt.Errorf("refine: exceeded inner iteration cap (%d) at depth %d without resolving", opts.InnerCap, d)
}

// seedAndInstantiate builds an e-graph from the unrolled assertions plus
// the solver's own model values, looks for conflicts, and instantiates
// every new non-prophecy candidate directly into m.
func seedAndInstantiate(m *sts.Model, bundle *sts.Bundle, model smt.ModelResult, opts Options, used map[string]bool, result *Result) (newCount, constCount int, err error) {
	g := egraph.New()
	for _, a := range bundle.Assertions {
		if _, err := egraph.AddTerm(g, a); err != nil {
			return 0, 0, err
		}
	}
	if bundle.NegProp != nil {
		if _, err := egraph.AddTerm(g, bundle.NegProp); err != nil {
			return 0, 0, err
		}
	}
	for sym, val := range model.Nullary {
		symClass, err := egraph.AddTerm(g, ir.Sym(ir.Symbol(sym)))
		if err != nil {
			return 0, 0, err
		}
		lit, ok := parseLiteral(val)
		if !ok {
			continue
		}
		valClass := g.AddConst(lit)
		g.Merge(symClass, valClass)
	}
	for sym, entries := range model.Functions {
		for _, entry := range entries {
			valLit, ok := parseLiteral(entry.Value)
			if !ok {
				continue
			}
			args := make([]ir.Term, len(entry.Args))
			allArgsKnown := true
			for i, a := range entry.Args {
				argLit, ok := parseLiteral(a)
				if !ok {
					allArgsKnown = false
					break
				}
				args[i] = ir.Const{Value: argLit}
			}
			if !allArgsKnown {
				continue
			}
			appClass, err := egraph.AddTerm(g, ir.AppN(ir.Symbol(sym), args...))
			if err != nil {
				return 0, 0, err
			}
			valClass := g.AddConst(valLit)
			g.Merge(appClass, valClass)
		}
	}
	g.Rebuild()

	sched := egraph.NewConflictScheduler(g, opts.ArrayOps, egraph.DefaultCost(opts.FrameDelim))
	candidates, err := sched.Candidates()
	if err != nil {
		return 0, 0, err
	}

	for _, c := range candidates {
		key := c.Term.String()
		if used[key] {
			continue
		}
		span := Classify(c.Term, opts.FrameDelim)
		if span == ProphecySpan {
			continue
		}
		lemma, err := Instantiate(m, c.Term, opts.FrameDelim)
		if err != nil {
			continue
		}
		m.AddInstantiation(lemma)
		used[key] = true
		newCount++
		if span == ConstantSpan {
			constCount++
		}
	}
	return newCount, constCount, nil
}

// parseLiteral interprets a solver model value string as an integer or
// boolean ground literal; anything else is left unrecognized (the caller
// skips seeding that symbol rather than guessing its representation).
func parseLiteral(val string) (interface{}, bool) {
	switch val {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	if n, err := strconv.ParseInt(val, 10, 64); err == nil {
		return n, true
	}
	return nil, false
}
