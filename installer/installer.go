// Package installer installs the Python tooling the suites depend on.
package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/infra/op-robot/runner"
)

const (
	// RequirementsFile is looked up in the project directory
	RequirementsFile = "requirements.txt"

	// DefaultPythonBinary runs pip as a module so it matches the interpreter
	DefaultPythonBinary = "python3"
)

// FallbackPackages are installed when the project has no requirements file
var FallbackPackages = []string{
	"robotframework",
	"robotframework-seleniumlibrary",
	"selenium",
	"webdriver-manager",
}

// Config configures an Installer
type Config struct {
	ProjectDir   string
	PythonBinary string
	Executor     runner.Executor
	Out          io.Writer // Receives the installer output as it runs
	Log          log.Logger
}

// Installer runs pip against the project requirements
type Installer struct {
	projectDir   string
	pythonBinary string
	executor     runner.Executor
	out          io.Writer
	log          log.Logger
}

// New creates an Installer
func New(cfg Config) (*Installer, error) {
	if cfg.ProjectDir == "" {
		return nil, errors.New("project directory cannot be empty")
	}
	if cfg.Executor == nil {
		return nil, errors.New("executor cannot be nil")
	}
	if cfg.Log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.PythonBinary == "" {
		cfg.PythonBinary = DefaultPythonBinary
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	return &Installer{
		projectDir:   cfg.ProjectDir,
		pythonBinary: cfg.PythonBinary,
		executor:     cfg.Executor,
		out:          cfg.Out,
		log:          cfg.Log,
	}, nil
}

// Command returns the pip invocation for the current state of the project
// directory: the requirements file when present, the fallback list otherwise.
func (i *Installer) Command() (runner.Command, bool, error) {
	args := []string{"-m", "pip", "install"}
	requirements := filepath.Join(i.projectDir, RequirementsFile)

	_, err := os.Stat(requirements)
	switch {
	case err == nil:
		args = append(args, "-r", requirements)
	case errors.Is(err, fs.ErrNotExist):
		args = append(args, FallbackPackages...)
	default:
		return runner.Command{}, false, fmt.Errorf("failed to stat %s: %w", requirements, err)
	}

	return runner.Command{
		Name:   i.pythonBinary,
		Args:   args,
		Dir:    i.projectDir,
		Stdout: i.out,
		Stderr: i.out,
	}, err == nil, nil
}

// Install runs pip. The output is streamed to the configured writer and the
// outcome is only logged; pip reports its own failures.
func (i *Installer) Install(ctx context.Context) {
	cmd, fromRequirements, err := i.Command()
	if err != nil {
		i.log.Warn("Could not determine dependencies to install", "err", err)
		return
	}

	if fromRequirements {
		fmt.Fprintln(i.out, "Installing dependencies...")
	} else {
		fmt.Fprintln(i.out, "Installing basic Robot Framework dependencies...")
	}

	res, err := i.executor.Run(ctx, cmd)
	if err != nil {
		i.log.Warn("Failed to run package installer", "cmd", i.pythonBinary, "err", err)
		return
	}
	i.log.Debug("Package installer finished", "exitCode", res.ExitCode, "duration", res.Duration)
}
