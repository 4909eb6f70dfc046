// Command stsmc is the CLI surface spec §6 describes: a single-file check
// or a directory-wide benchmark sweep, both driving the same core proof
// loop (package refine) through the stsmc package's Checker.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stsforge/stsmc"
	"github.com/stsforge/stsmc/bench"
	"github.com/stsforge/stsmc/interp"
	"github.com/stsforge/stsmc/ir"
	"github.com/stsforge/stsmc/refine"
	"github.com/stsforge/stsmc/smt"
)

var (
	depth             int
	innerCap          int
	dumpAbstracted    string
	dumpInstantiated  string
	exportInterpolant bool
	interpolantBin    string
	z3Bin             string
	verbose           bool

	benchInclude []string
	benchExclude []string
	benchTimeout time.Duration
	benchConfig  string
)

func main() {
	log := logrus.New()

	root := &cobra.Command{
		Use:   "stsmc",
		Short: "Bounded model checker with equality-saturation-driven array refinement",
	}
	root.PersistentFlags().IntVarP(&depth, "depth", "d", 10, "BMC depth bound")
	root.PersistentFlags().IntVarP(&innerCap, "inner-cap", "b", 10, "max instantiation rounds per depth")
	root.PersistentFlags().StringVar(&z3Bin, "z3", "", "z3 binary path (default: z3 on $PATH)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	check := &cobra.Command{
		Use:   "check [model-file]",
		Short: "Run the proof loop over a single model file",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck(log),
	}
	check.Flags().StringVar(&dumpAbstracted, "dump-abstracted", "", "write the array-abstracted model here before checking")
	check.Flags().StringVar(&dumpInstantiated, "dump-instantiated", "", "write the model with accepted instantiations here after checking")
	check.Flags().BoolVar(&exportInterpolant, "interpolate", false, "after a safe run, export one sequent interpolant at the final depth reached (not one per unsat depth)")
	check.Flags().StringVar(&interpolantBin, "interpolant-binary", "smtinterpol", "external interpolating-solver binary")

	benchCmd := &cobra.Command{
		Use:   "bench [dir]",
		Short: "Run the proof loop over every matching file in a directory and emit a JSON report",
		Args:  cobra.ExactArgs(1),
		RunE:  runBench(log),
	}
	benchCmd.Flags().StringSliceVar(&benchInclude, "include", nil, "glob patterns matched against the base filename")
	benchCmd.Flags().StringSliceVar(&benchExclude, "exclude", nil, "glob patterns excluded by base filename")
	benchCmd.Flags().DurationVar(&benchTimeout, "timeout", 30*time.Second, "per-file timeout")
	benchCmd.Flags().StringVar(&benchConfig, "config", "", "YAML batch config file providing defaults (flags override)")

	root.AddCommand(check, benchCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCheck(log *logrus.Logger) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
		path := args[0]

		checker := stsmc.New(stsmc.Config{
			Depth:                depth,
			InnerCap:             innerCap,
			Z3Binary:             z3Bin,
			DumpAbstractedPath:   dumpAbstracted,
			DumpInstantiatedPath: dumpInstantiated,
		}, logrus.NewEntry(log))

		ctx := context.Background()
		result, err := checker.Check(ctx, path)
		if err != nil {
			return err
		}

		log.WithFields(logrus.Fields{
			"outcome":         outcomeString(result.Outcome),
			"reached_depth":   result.ReachedDepth,
			"used_instances":  result.UsedInstances,
			"const_instances": result.ConstInstances,
		}).Info("stsmc: check complete")

		if exportInterpolant && result.Outcome == refine.Safe {
			if err := exportFinalInterpolant(ctx, checker, path, interpolantBin, result.ReachedDepth, log); err != nil {
				log.WithError(err).Warn("stsmc: interpolant export failed")
			}
		}

		if result.Outcome == refine.Unsafe {
			os.Exit(1)
		}
		return nil
	}
}

// exportFinalInterpolant re-unrolls the model at its proved-safe depth and
// asks the interpolant exporter for a sequent interpolant, for a user who
// passed --interpolate (spec §6's optional interpolant-exporter
// collaborator).
func exportFinalInterpolant(ctx context.Context, checker *stsmc.Checker, path, binary string, reachedDepth int, log *logrus.Logger) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	m, _, err := checker.Load(string(src))
	if err != nil {
		return err
	}
	bundle, err := m.Unroll(reachedDepth, true)
	if err != nil {
		return err
	}
	exporter := interp.NewExporter(binary)
	terms, err := exporter.Export(ctx, bundle)
	if err != nil {
		return err
	}
	for i, t := range terms {
		log.Infof("stsmc: interpolant[%d]: %s", i, t.String())
	}
	return nil
}

func runBench(log *logrus.Logger) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
		dir := args[0]

		opts := refine.Options{
			Depth:      depth,
			InnerCap:   innerCap,
			FrameDelim: ir.DefaultFrameDelim,
		}

		bcfg := bench.Config{Dir: dir, Include: benchInclude, Exclude: benchExclude, Timeout: benchTimeout}
		if benchConfig != "" {
			fileCfg, err := bench.LoadConfig(benchConfig, dir)
			if err != nil {
				return err
			}
			if len(bcfg.Include) == 0 {
				bcfg.Include = fileCfg.Include
			}
			if len(bcfg.Exclude) == 0 {
				bcfg.Exclude = fileCfg.Exclude
			}
			if !cmd.Flags().Changed("timeout") && fileCfg.Timeout > 0 {
				bcfg.Timeout = fileCfg.Timeout
			}
		}

		driver := bench.New(bcfg)

		runOne := bench.StandardRunOne(opts, func(ctx context.Context) (smt.Solver, error) {
			return smt.NewZ3(ctx, z3Bin)
		})

		report, err := driver.Run(context.Background(), runOne)
		if err != nil {
			log.WithError(err).Warn("stsmc: bench run completed with errors")
		}
		if report == nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
}

func outcomeString(o refine.Outcome) string {
	switch o {
	case refine.Safe:
		return "safe"
	case refine.Unsafe:
		return "unsafe"
	default:
		return "unresolved"
	}
}
