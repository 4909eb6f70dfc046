package bench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	pkgerrors "github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/stsforge/stsmc/abstract"
	"github.com/stsforge/stsmc/egraph"
	"github.com/stsforge/stsmc/passes"
	"github.com/stsforge/stsmc/refine"
	"github.com/stsforge/stsmc/smt"
	"github.com/stsforge/stsmc/sts"
)

// Config configures one benchmark run: which files to visit and how long
// to give each one.
type Config struct {
	Dir     string
	Include []string // glob patterns matched against the base filename; empty means "all"
	Exclude []string // glob patterns matched against the base filename
	Timeout time.Duration
}

// Driver runs a Config's benchmark batch.
type Driver struct {
	cfg Config
}

// New builds a Driver.
func New(cfg Config) *Driver { return &Driver{cfg: cfg} }

// Run walks Dir, matches files against Include/Exclude, and invokes runOne
// for each with a per-file timeout (spec §5's "single-threaded and
// cooperative" driver: one worker goroutine per file, watched by a monitor
// select on a one-shot channel — not canceled out from under it if the
// timeout fires, though the proof loop's own cooperative ctx checks mean
// it unwinds itself shortly after, per the REDESIGN FLAG in spec §5).
func (d *Driver) Run(ctx context.Context, runOne func(ctx context.Context, path string) (refine.Result, error)) (*Report, error) {
	report := &Report{RunID: uuid.NewV4().String()}

	var errs *multierror.Error
	walkErr := filepath.Walk(d.cfg.Dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			errs = multierror.Append(errs, pkgerrors.Wrapf(err, "bench: walking %s", path))
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if !d.matches(info.Name()) {
			return nil
		}

		fr := FileResult{Example: path, Result: d.runOneWithTimeout(ctx, path, runOne)}
		report.Results = append(report.Results, fr)
		return nil
	})
	if walkErr != nil {
		errs = multierror.Append(errs, walkErr)
	}
	return report, errs.ErrorOrNil()
}

func (d *Driver) matches(name string) bool {
	if len(d.cfg.Include) > 0 {
		matched := false
		for _, pat := range d.cfg.Include {
			if ok, _ := filepath.Match(pat, name); ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, pat := range d.cfg.Exclude {
		if ok, _ := filepath.Match(pat, name); ok {
			return false
		}
	}
	return true
}

// runOneWithTimeout runs one file's proof loop on a worker goroutine,
// racing it against the configured timeout. A panic in the worker is
// recovered and reported as KindPanic rather than crashing the whole
// batch (spec §6's error taxonomy, §7).
func (d *Driver) runOneWithTimeout(ctx context.Context, path string, runOne func(context.Context, string) (refine.Result, error)) Result {
	type outcome struct {
		res        refine.Result
		err        error
		panicValue interface{}
	}
	done := make(chan outcome, 1)
	start := time.Now()

	fileCtx := ctx
	var cancel context.CancelFunc
	if d.cfg.Timeout > 0 {
		fileCtx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{panicValue: r}
			}
		}()
		res, err := runOne(fileCtx, path)
		done <- outcome{res: res, err: err}
	}()

	select {
	case o := <-done:
		if o.panicValue != nil {
			return Result{Kind: KindPanic, Message: fmt.Sprintf("%v", o.panicValue)}
		}
		if o.err != nil {
			return Result{Kind: KindError, Message: o.err.Error()}
		}
		return Result{
			Kind:           KindSuccess,
			Safe:           o.res.Outcome == refine.Safe,
			UsedInstances:  o.res.UsedInstances,
			ConstInstances: o.res.ConstInstances,
		}
	case <-fileCtx.Done():
		return Result{Kind: KindTimeout, Millis: time.Since(start).Milliseconds()}
	}
}

// StandardRunOne builds the default runOne callback: parse the file as an
// sts.Model, normalize it (let-flatten, boolean-canonicalize) and abstract
// its Array theory the same way a single ad hoc check does (package
// stsmc's Checker.Load), then drive refine.Run with opts, using newSolver
// to build a fresh solver per file (closed when the run finishes).
func StandardRunOne(opts refine.Options, newSolver func(context.Context) (smt.Solver, error)) func(context.Context, string) (refine.Result, error) {
	return func(ctx context.Context, path string) (refine.Result, error) {
		src, err := os.ReadFile(path)
		if err != nil {
			return refine.Result{}, pkgerrors.Wrapf(err, "bench: reading %s", path)
		}
		m, err := sts.ParseModel(string(src), opts.FrameDelim)
		if err != nil {
			return refine.Result{}, pkgerrors.Wrapf(err, "bench: parsing %s", path)
		}

		for i := range m.Axioms {
			m.Axioms[i].Term = passes.CanonicalizeBoolean(passes.FlattenLets(m.Axioms[i].Term))
		}
		m.Init.Term = passes.CanonicalizeBoolean(passes.FlattenLets(m.Init.Term))
		m.Trans.Term = passes.CanonicalizeBoolean(passes.FlattenLets(m.Trans.Term))
		m.Prop.Term = passes.CanonicalizeBoolean(passes.FlattenLets(m.Prop.Term))

		ab := abstract.NewAbstractor()
		if err := abstract.Model(m, ab); err != nil {
			return refine.Result{}, pkgerrors.Wrapf(err, "bench: abstracting %s", path)
		}
		if len(opts.ArrayOps) == 0 {
			for _, at := range ab.Types() {
				opts.ArrayOps = append(opts.ArrayOps, egraph.ArrayOps{Read: at.Read, Write: at.Write, ConstArr: at.ConstArr})
			}
		}

		solver, err := newSolver(ctx)
		if err != nil {
			return refine.Result{}, pkgerrors.Wrapf(err, "bench: building solver for %s", path)
		}
		defer solver.Close()
		return refine.Run(ctx, m, solver, opts)
	}
}
