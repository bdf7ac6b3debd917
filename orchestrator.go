package robot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ethereum-optimism/infra/op-robot/installer"
	"github.com/ethereum-optimism/infra/op-robot/metrics"
	"github.com/ethereum-optimism/infra/op-robot/reporting"
	"github.com/ethereum-optimism/infra/op-robot/runner"
	"github.com/ethereum-optimism/infra/op-robot/suites"
)

const tracerName = "github.com/ethereum-optimism/infra/op-robot"

// InstallHint is printed when the runner executable is missing
const InstallHint = "pip install robotframework robotframework-seleniumlibrary"

var bannerRule = strings.Repeat("=", 50)

// Orchestrator turns a RunConfig into a single runner invocation and reports
// the outcome on its output writer.
type Orchestrator struct {
	config    *Config
	executor  runner.Executor
	installer *installer.Installer
	out       io.Writer
	log       log.Logger
	tracer    trace.Tracer
	now       func() time.Time
	newRunID  func() string
}

// Option customises an Orchestrator
type Option func(*Orchestrator)

// WithExecutor replaces the process executor
func WithExecutor(e runner.Executor) Option {
	return func(o *Orchestrator) {
		o.executor = e
	}
}

// WithOutput redirects console output, stdout by default
func WithOutput(w io.Writer) Option {
	return func(o *Orchestrator) {
		o.out = w
	}
}

// WithClock sets the time source used for artifact names
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// WithRunIDs sets the generator of run IDs
func WithRunIDs(newRunID func() string) Option {
	return func(o *Orchestrator) {
		o.newRunID = newRunID
	}
}

// New creates an Orchestrator for config
func New(config *Config, opts ...Option) (*Orchestrator, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if config.Log == nil {
		return nil, errors.New("config logger is required")
	}

	o := &Orchestrator{
		config:   config,
		out:      os.Stdout,
		log:      config.Log,
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
		newRunID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.executor == nil {
		executor, err := runner.NewExecutor(o.log, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create executor: %w", err)
		}
		o.executor = executor
	}

	inst, err := installer.New(installer.Config{
		ProjectDir:   config.RobotDir,
		PythonBinary: config.PythonBinary,
		Executor:     o.executor,
		Out:          o.out,
		Log:          o.log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create installer: %w", err)
	}
	o.installer = inst

	return o, nil
}

// Execute performs the action selected by the config mode
func (o *Orchestrator) Execute(ctx context.Context) error {
	switch o.config.Mode {
	case ModeInstall:
		o.InstallDependencies(ctx)
		return nil
	case ModeList:
		return o.ListTestSuites()
	case ModeRun, "":
		_, err := o.RunTests(ctx, o.config.Run)
		return err
	default:
		return NewConfigError(fmt.Errorf("unknown mode %q", o.config.Mode))
	}
}

// RunTests runs the suites described by cfg and blocks until the runner exits.
// It returns nil only when the runner exited with code 0. Every failure is
// reported on the output writer before it is returned.
func (o *Orchestrator) RunTests(ctx context.Context, cfg runner.RunConfig) (*runner.Result, error) {
	if err := cfg.Validate(); err != nil {
		o.printf("Error: %v\n", err)
		return nil, NewConfigError(err)
	}
	defer o.writeMetrics()

	target := o.config.TestsDir
	if cfg.Suite != "" {
		path, err := suites.Resolve(o.config.TestsDir, cfg.Suite)
		if err != nil {
			if errors.Is(err, suites.ErrSuiteNotFound) {
				o.printf("Error: Test suite %s not found\n", suites.FileName(cfg.Suite))
				metrics.RecordError("suite_not_found")
				return nil, &SuiteNotFoundError{Suite: cfg.Suite, Path: filepath.Join(o.config.TestsDir, suites.FileName(cfg.Suite))}
			}
			o.printf("Error running tests: %v\n", err)
			return nil, NewExecutionError(err)
		}
		target = path
	}

	if err := reporting.EnsureDir(o.config.ReportsDir); err != nil {
		o.printf("Error running tests: %v\n", err)
		return nil, NewExecutionError(err)
	}

	runID := o.newRunID()
	started := o.now()
	artifacts := reporting.NewArtifacts(o.config.ReportsDir, started)
	cmd := runner.Command{
		Name: o.config.RobotBinary,
		Args: runner.BuildRobotArgs(cfg, artifacts.OutputFiles(), target),
		Dir:  o.config.RobotDir,
	}

	ctx, span := o.tracer.Start(ctx, "run-tests", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.String("suite", cfg.Suite),
		attribute.String("browser", cfg.Browser.String()),
		attribute.Bool("headless", cfg.Headless),
	))
	defer span.End()

	if o.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.Timeout)
		defer cancel()
	}

	o.log.Info("Running tests", "run_id", runID, "suite", cfg.Suite, "browser", cfg.Browser, "headless", cfg.Headless)
	o.printf("Running command: %s\n", cmd.String())

	res, err := o.executor.Run(ctx, cmd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "runner failed")
		metrics.RecordErrorDetails("run", err)
		if errors.Is(err, runner.ErrBinaryNotFound) {
			o.printf("Error: Robot Framework not found. Please install it with:\n")
			o.printf("%s\n", InstallHint)
			return nil, &ToolNotFoundError{Binary: o.config.RobotBinary, Err: err}
		}
		if res != nil {
			o.printOutput(res, artifacts)
		}
		o.printf("Error running tests: %v\n", err)
		return res, NewExecutionError(err)
	}

	o.printOutput(res, artifacts)

	if err := reporting.WriteConsoleLog(artifacts.Path(artifacts.Console), res.Stdout, res.Stderr); err != nil {
		o.log.Warn("Failed to write console log", "err", err)
	}
	reporting.WriteSummary(o.out, reporting.Summary{
		RunID:     runID,
		Config:    cfg,
		Result:    res,
		Artifacts: artifacts,
	})

	metrics.RecordRun(runID, cfg.Suite, cfg.Browser.String(), res.ExitCode, started, res.Duration)

	span.SetAttributes(attribute.Int("exit_code", res.ExitCode))
	o.log.Info("Test run completed", "run_id", runID, "exitCode", res.ExitCode, "duration", res.Duration)

	if !res.Success() {
		span.SetStatus(codes.Error, "tests failed")
		return res, NewTestFailureError(res.ExitCode)
	}
	return res, nil
}

// ListTestSuites prints the name of every suite in the tests directory
func (o *Orchestrator) ListTestSuites() error {
	names, err := suites.List(o.config.TestsDir)
	if err != nil {
		o.printf("Error: %v\n", err)
		return NewExecutionError(err)
	}
	o.printf("Available test suites:\n")
	for _, name := range names {
		o.printf("  - %s\n", name)
	}
	return nil
}

// InstallDependencies installs the Python packages needed by the suites
func (o *Orchestrator) InstallDependencies(ctx context.Context) {
	o.installer.Install(ctx)
}

func (o *Orchestrator) printOutput(res *runner.Result, artifacts reporting.Artifacts) {
	o.printf("\n%s\n", bannerRule)
	o.printf("ROBOT FRAMEWORK TEST RESULTS\n")
	o.printf("%s\n", bannerRule)
	o.printf("%s\n", res.Stdout)

	if res.Stderr != "" {
		o.printf("\nErrors:\n")
		o.printf("%s\n", res.Stderr)
	}

	o.printf("\nReports generated in: %s\n", artifacts.Dir)
	o.printf("- Log: %s\n", artifacts.Log)
	o.printf("- Report: %s\n", artifacts.Report)
}

func (o *Orchestrator) writeMetrics() {
	if o.config.MetricsTextfile == "" {
		return
	}
	if err := metrics.WriteTextfile(o.config.MetricsTextfile); err != nil {
		o.log.Warn("Failed to write metrics", "path", o.config.MetricsTextfile, "err", err)
	}
}

func (o *Orchestrator) printf(format string, args ...any) {
	fmt.Fprintf(o.out, format, args...)
}
