package stsmc

import (
	"context"
	"errors"
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/stsforge/stsmc/abstract"
	"github.com/stsforge/stsmc/egraph"
	"github.com/stsforge/stsmc/passes"
	"github.com/stsforge/stsmc/refine"
	"github.com/stsforge/stsmc/smt"
	"github.com/stsforge/stsmc/sts"
)

// Checker is the single entry point that wires the front end, the array
// abstractor, the normalizing passes, and the refinement loop together
// (spec §2's fourteen components, assembled end to end). One Checker can
// drive many Check calls; it holds no per-run state of its own.
type Checker struct {
	cfg Config
	log *logrus.Entry
}

// New builds a Checker. A nil logger falls back to logrus's standard
// logger, matching the teacher's convention of threading an optional
// *logrus.Entry through long-lived components rather than using the
// global logger directly.
func New(cfg Config, log *logrus.Entry) *Checker {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Checker{cfg: cfg, log: log}
}

// Load parses, normalizes, and array-abstracts src into an sts.Model ready
// to unroll: let-bindings are flattened, n-ary and/or is canonicalized to
// binary, and the Array theory is abstracted into uninterpreted sorts and
// functions (spec §4.2, §4.3, §4.4, in that order — flattening first so
// the later passes never have to track lexical scope).
func (c *Checker) Load(src string) (*sts.Model, *abstract.Abstractor, error) {
	cmds, err := sts.ParseCommands(src)
	if err != nil {
		return nil, nil, ErrParse.Wrap(err, err.Error())
	}
	m, err := sts.NewModel(cmds, c.cfg.frameDelim())
	if err != nil {
		return nil, nil, ErrStructure.Wrap(err, err.Error())
	}

	for i := range m.Axioms {
		m.Axioms[i].Term = passes.CanonicalizeBoolean(passes.FlattenLets(m.Axioms[i].Term))
	}
	m.Init.Term = passes.CanonicalizeBoolean(passes.FlattenLets(m.Init.Term))
	m.Trans.Term = passes.CanonicalizeBoolean(passes.FlattenLets(m.Trans.Term))
	m.Prop.Term = passes.CanonicalizeBoolean(passes.FlattenLets(m.Prop.Term))

	ab := abstract.NewAbstractor(c.cfg.ArrayTypes...)
	if err := abstract.Model(m, ab); err != nil {
		return nil, nil, ErrStructure.Wrap(err, err.Error())
	}

	if c.cfg.DumpAbstractedPath != "" {
		if err := dumpModel(m, c.cfg.DumpAbstractedPath); err != nil {
			return nil, nil, err
		}
	}
	c.log.WithFields(logrus.Fields{
		"variables": len(m.Variables),
		"actions":   len(m.Actions),
		"axioms":    len(m.Axioms),
		"arrays":    len(ab.Types()),
	}).Debug("stsmc: model loaded")
	return m, ab, nil
}

// Check reads path and drives refine.Run to completion.
func (c *Checker) Check(ctx context.Context, path string) (refine.Result, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return refine.Result{}, pkgerrors.Wrapf(err, "stsmc: reading %s", path)
	}
	return c.CheckSource(ctx, string(src))
}

// CheckSource is Check without the file-read step, for callers that
// already have the model text in memory (the benchmark driver, tests). It
// starts a fresh z3 subprocess and delegates to CheckModel.
func (c *Checker) CheckSource(ctx context.Context, src string) (refine.Result, error) {
	m, ab, err := c.Load(src)
	if err != nil {
		return refine.Result{}, err
	}

	solver, err := smt.NewZ3(ctx, c.cfg.Z3Binary)
	if err != nil {
		return refine.Result{}, pkgerrors.Wrap(err, "stsmc: starting solver")
	}
	defer solver.Close()

	return c.CheckModel(ctx, m, ab, solver)
}

// CheckModel drives refine.Run over an already-loaded model against an
// arbitrary solver collaborator — the seam tests use to substitute
// smt.Fake for a real z3 subprocess. It translates the refine package's
// typed errors into this package's goerrors Kinds (spec §7's taxonomy) and
// honors DumpInstantiatedPath on the way out, even when the run ends in
// error.
func (c *Checker) CheckModel(ctx context.Context, m *sts.Model, ab *abstract.Abstractor, solver smt.Solver) (refine.Result, error) {
	var ops []egraph.ArrayOps
	for _, at := range ab.Types() {
		ops = append(ops, egraph.ArrayOps{Read: at.Read, Write: at.Write, ConstArr: at.ConstArr})
	}

	result, err := refine.Run(ctx, m, solver, refine.Options{
		Depth:      c.cfg.depth(),
		InnerCap:   c.cfg.innerCap(),
		ArrayOps:   ops,
		FrameDelim: c.cfg.frameDelim(),
		Tracer:     c.cfg.Tracer,
	})
	if err != nil {
		err = translateErr(err)
	}

	if c.cfg.DumpInstantiatedPath != "" {
		if dumpErr := dumpModel(m, c.cfg.DumpInstantiatedPath); dumpErr != nil && err == nil {
			err = dumpErr
		}
	}
	return result, err
}

// translateErr maps refine's typed errors onto this package's goerrors
// Kinds (spec §7): callers that want to branch on error kind use
// ErrSolverUnknown.Is(err) / ErrStuck.Is(err) rather than a type switch
// over refine's exported-but-package-specific error structs.
func translateErr(err error) error {
	var unknown *refine.SolverUnknown
	if errors.As(err, &unknown) {
		return ErrSolverUnknown.New(unknown.Depth)
	}
	var stuck *refine.Stuck
	if errors.As(err, &stuck) {
		return ErrStuck.New(stuck.Depth)
	}
	return err
}

func dumpModel(m *sts.Model, path string) error {
	var out string
	for _, cmd := range m.Commands() {
		out += cmd.String() + "\n"
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return pkgerrors.Wrapf(err, "stsmc: writing dump %s", path)
	}
	return nil
}
