package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"grnexport/internal/assembly"
	"grnexport/internal/checkpoint"
	"grnexport/internal/cli"
	"grnexport/internal/clibase"
	"grnexport/internal/cmdutil"
	"grnexport/internal/config"
	"grnexport/internal/engineexec"
	"grnexport/internal/filter"
	"grnexport/internal/grnerr"
	"grnexport/internal/inference"
	"grnexport/internal/model"
	"grnexport/internal/organism"
	"grnexport/internal/output"
	"grnexport/internal/version"
	"grnexport/internal/writers"
)

const name = "grnexport"

// Deps are the collaborators of a run. Nil fields get the defaults: the OS
// filesystem, file-checking assembly and the engine program for inference
// and filtering.
type Deps struct {
	Fs        afero.Fs
	Assembler assembly.Assembler
	Engine    inference.Engine
	Filter    filter.Stage
	NewRunID  func() string
}

// RunContext runs grnexport with the default collaborators.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	return RunWith(parent, argv, stdout, stderr, Deps{})
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// RunWith parses argv, runs the pipeline and returns the exit code.
func RunWith(parent context.Context, argv []string, stdout, stderr io.Writer, d Deps) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet(name)
	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		switch {
		case errors.Is(err, pflag.ErrHelp):
			clibase.PrintUsage(outw, fs, name, exitCodes)
			return flush(outw, stderr, 0)
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			clibase.PrintExamples(outw, name, examples)
			return flush(outw, stderr, 0)
		}
		_, _ = fmt.Fprintln(stderr, err)
		clibase.PrintUsage(outw, fs, name, exitCodes)
		return flush(outw, stderr, 2)
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "%s version %s (%s)\n", name, version.Version, version.GitSHA)
		return flush(outw, stderr, 0)
	}

	log := cmdutil.NewLogger(stderr, opts.Quiet, opts.Verbose)
	defer func() { _ = log.Sync() }()

	if err := run(parent, opts, d, log); err != nil {
		_, _ = fmt.Fprintln(stderr, grnerr.KindOf(err).Prefix(), err)
		return grnerr.ExitCode(err)
	}
	return 0
}

func flush(outw *bufio.Writer, stderr io.Writer, code int) int {
	if err := outw.Flush(); writers.IsBrokenPipe(err) {
		return code
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	return code
}

func run(ctx context.Context, opts cli.Options, d Deps, log *zap.SugaredLogger) error {
	// Nothing is read or written before the organism and config are known good.
	org, err := organism.Lookup(opts.Organism)
	if err != nil {
		return err
	}
	if d.Fs == nil {
		d.Fs = afero.NewOsFs()
	}
	cfg, err := config.Load(d.Fs, opts.ConfigFile)
	if err != nil {
		return err
	}
	for _, p := range []string{opts.Checkpoint, opts.GRN, opts.R2G, opts.Triplets} {
		if err := assembly.CheckOutputDir(d.Fs, p); err != nil {
			return err
		}
	}

	runID := uuid.NewString()
	if d.NewRunID != nil {
		runID = d.NewRunID()
	}
	log = log.With("run", runID)

	runner := engineexec.New(cfg.Engine.Command, cfg.TempDir, runID, log)
	runner.KeepWorkdir = cfg.Engine.KeepWorkdir
	defer func() {
		if err := runner.Cleanup(); err != nil {
			log.Warnw("engine workdir not removed", "dir", runner.Workdir(), "error", err)
		}
	}()
	if d.Assembler == nil {
		d.Assembler = assembly.Files{Fs: d.Fs}
	}
	if d.Engine == nil {
		d.Engine = &inference.Command{Runner: runner}
	}
	if d.Filter == nil {
		d.Filter = &filter.Command{Runner: runner}
	}

	src := model.Sources{Expression: opts.Input, TopicModel: opts.CistopicObj, MotifEnrichment: opts.MotifEnrichment}
	m, err := d.Assembler.Assemble(ctx, src)
	if err != nil {
		return err
	}
	log.Infow("inputs assembled", "organism", org.Key, "assembly", org.Assembly)

	guard := &checkpoint.Guard{Fs: d.Fs, Path: opts.Checkpoint, RunID: runID, Log: log}
	out := guard.Run(ctx, d.Engine, m, inference.NewParams(org, cfg, opts.Checkpoint))
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("inference: %w", err)
	}

	stageErr := func(stage string, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return fmt.Errorf("%s: %w", stage, cerr)
		}
		if !out.Failed() {
			return fmt.Errorf("%s: %w", stage, err)
		}
		return &grnerr.SecondaryError{Stage: stage, Err: err, Inference: out.Err, Checkpoint: out.Checkpoint}
	}

	if out.Failed() {
		if out.CheckpointErr != nil {
			return stageErr("checkpoint", out.CheckpointErr)
		}
		if err := gate(cfg, m); err != nil {
			return stageErr("export gate", err)
		}
		log.Warnw("continuing after inference failure", "checkpoint", out.Checkpoint, "tables", m.Summary())
	}

	if err := d.Filter.Apply(ctx, m); err != nil {
		return stageErr("filter", err)
	}
	log.Infow("filter applied", "tables", m.Summary())
	if dg := m.CheckTriplets(); dg.Any() {
		log.Warnw("triplets reference pairs missing from component tables", "tf2g", dg.TF2G, "r2g", dg.R2G)
	}

	for _, e := range []struct{ kind, path string }{
		{output.KindGRN, opts.GRN},
		{output.KindR2G, opts.R2G},
		{output.KindTriplets, opts.Triplets},
	} {
		n, err := writers.Export(d.Fs, e.kind, e.path, m)
		if err != nil {
			return stageErr("export "+e.kind, err)
		}
		log.Infow("export written", "kind", e.kind, "path", e.path, "rows", n)
	}
	if out.Failed() {
		log.Warnw("exports written after recovered inference failure", "checkpoint", out.Checkpoint)
	}
	return nil
}

var errExportSkipped = errors.New("export skipped")

// gate decides whether a run continues after a recovered inference
// failure: the policy must allow it and every exported table must exist.
func gate(cfg config.Config, m *model.Model) error {
	if cfg.OnInferenceFailure == config.PolicyStop {
		return fmt.Errorf("%w: on_inference_failure is %q", errExportSkipped, config.PolicyStop)
	}
	if err := m.Require(model.AllTables()...); err != nil {
		return fmt.Errorf("%w: %w", errExportSkipped, err)
	}
	return nil
}

func exitCodes(out io.Writer) {
	fmt.Fprintln(out, "Exit codes:")
	fmt.Fprintln(out, "  0  exports written (possibly after a recovered inference failure)")
	fmt.Fprintln(out, "  1  other failure")
	fmt.Fprintln(out, "  2  usage or configuration error")
	fmt.Fprintln(out, "  3  I/O error")
	fmt.Fprintln(out, "  4  schema error (missing table or column)")
	fmt.Fprintln(out, "  5  failure after a checkpointed inference failure, or export skipped")
	fmt.Fprintln(out, "  130 canceled")
}

func examples(out io.Writer) {
	fmt.Fprintln(out, "  # full run")
	fmt.Fprintln(out, "  grnexport -i multiome.h5mu -c cistopic_obj.pkl -m menr.pkl -o human \\")
	fmt.Fprintln(out, "    -s scplus_obj.ckpt -g grn.tsv -r r2g.tsv -t tri.tsv")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  # engine and paths from a config file, engine output shown")
	fmt.Fprintln(out, "  grnexport --config run.yaml --verbose -i ... -o human ...")
}
