package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

var _ Executor = (*executor)(nil)

// ErrBinaryNotFound is returned when the executable of a Command cannot be located
var ErrBinaryNotFound = errors.New("executable not found")

// Executor runs a child process to completion and captures its output.
type Executor interface {
	// Run blocks until the command exits. A non-zero exit code is reported in
	// the Result and is not an error; errors mean the process could not be
	// started or waited on.
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// CmdBuilder creates the exec.Cmd for a command, plus a cleanup func
type CmdBuilder func(ctx context.Context, name string, arg ...string) (*exec.Cmd, func())

// DefaultCmdBuilder builds a command bound to ctx
func DefaultCmdBuilder(ctx context.Context, name string, arg ...string) (*exec.Cmd, func()) {
	return exec.CommandContext(ctx, name, arg...), func() {}
}

// Command is a single child process invocation
type Command struct {
	Name string
	Args []string
	Dir  string // Working directory; empty means the current one

	// Stdout and Stderr, when set, receive the output as it is produced.
	// The output is captured in the Result either way.
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line the way it would be typed
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result is the outcome of a finished child process
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Success reports whether the process exited with code 0
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

type executor struct {
	cmdBuilder CmdBuilder
	logger     log.Logger
}

// NewExecutor creates an Executor. A nil cmdBuilder uses DefaultCmdBuilder.
func NewExecutor(logger log.Logger, cmdBuilder CmdBuilder) (Executor, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cmdBuilder == nil {
		cmdBuilder = DefaultCmdBuilder
	}
	return &executor{
		cmdBuilder: cmdBuilder,
		logger:     logger,
	}, nil
}

func (e *executor) Run(ctx context.Context, c Command) (*Result, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if c.Name == "" {
		return nil, fmt.Errorf("command name cannot be empty")
	}

	cmd, cleanup := e.cmdBuilder(ctx, c.Name, c.Args...)
	defer cleanup()
	cmd.Dir = c.Dir

	var stdoutBuf, stderrBuf bytes.Buffer
	stdout, stderr := c.Stdout, c.Stderr
	if stdout != nil && stdout == stderr {
		shared := &lockedWriter{w: stdout}
		stdout, stderr = shared, shared
	}
	cmd.Stdout = teeWriter(&stdoutBuf, stdout)
	cmd.Stderr = teeWriter(&stderrBuf, stderr)

	e.logger.Debug("Starting process", "cmd", c.Name, "args", len(c.Args), "dir", c.Dir)
	startTime := time.Now()
	runErr := cmd.Run()
	duration := time.Since(startTime)

	result := &Result{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Duration: duration,
	}

	if runErr != nil {
		exitErr := &exec.ExitError{}
		switch {
		case errors.As(runErr, &exitErr):
			result.ExitCode = exitErr.ExitCode()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, fmt.Errorf("process %s interrupted: %w", c.Name, ctxErr)
			}
		case ctx.Err() != nil:
			return nil, fmt.Errorf("process %s interrupted: %w", c.Name, ctx.Err())
		case isLookupError(runErr):
			return nil, fmt.Errorf("%w: %s: %v", ErrBinaryNotFound, c.Name, runErr)
		default:
			return nil, fmt.Errorf("failed to run %s: %w", c.Name, runErr)
		}
	}

	e.logger.Debug("Process exited", "cmd", c.Name, "exitCode", result.ExitCode, "duration", duration)
	return result, nil
}

// isLookupError reports whether err came from resolving the executable,
// as opposed to starting it (e.g. a missing working directory).
func isLookupError(err error) bool {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return errors.Is(execErr.Err, exec.ErrNotFound) || errors.Is(execErr.Err, fs.ErrNotExist)
	}
	// Names with a path separator skip PATH lookup and fail in fork/exec
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Op != "chdir" && errors.Is(pathErr.Err, fs.ErrNotExist)
	}
	return false
}

func teeWriter(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

// lockedWriter serialises writes from the stdout and stderr copiers
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
