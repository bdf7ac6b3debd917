package robot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/infra/op-robot/runner"
)

var fixedTime = time.Date(2025, 6, 1, 14, 30, 15, 0, time.UTC)

// mockExecutor records every command and replies with a canned result
type mockExecutor struct {
	calls  []runner.Command
	result *runner.Result
	err    error
}

func (m *mockExecutor) Run(_ context.Context, cmd runner.Command) (*runner.Result, error) {
	m.calls = append(m.calls, cmd)
	if m.err != nil {
		return m.result, m.err
	}
	if m.result == nil {
		return &runner.Result{}, nil
	}
	return m.result, nil
}

func newTestConfig(t *testing.T, suiteFiles ...string) *Config {
	t.Helper()
	dir := t.TempDir()
	testsDir := filepath.Join(dir, TestsDirName)
	require.NoError(t, os.MkdirAll(testsDir, 0755))
	for _, name := range suiteFiles {
		require.NoError(t, os.WriteFile(filepath.Join(testsDir, name), []byte("*** Test Cases ***\n"), 0644))
	}
	return &Config{
		Mode:        ModeRun,
		RobotDir:    dir,
		TestsDir:    testsDir,
		ReportsDir:  filepath.Join(dir, ReportsDirName),
		RobotBinary: runner.DefaultRobotBinary,
		Run:         runner.RunConfig{Browser: runner.BrowserChrome, Headless: true},
		Log:         log.NewLogger(log.DiscardHandler()),
	}
}

func newTestOrchestrator(t *testing.T, cfg *Config, exec runner.Executor) (*Orchestrator, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	opts := []Option{
		WithOutput(&out),
		WithClock(func() time.Time { return fixedTime }),
		WithRunIDs(func() string { return "run-123" }),
	}
	if exec != nil {
		opts = append(opts, WithExecutor(exec))
	}
	o, err := New(cfg, opts...)
	require.NoError(t, err)
	return o, &out
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.EqualError(t, err, "config is required")

	_, err = New(&Config{RobotDir: "."})
	assert.EqualError(t, err, "config logger is required")

	o, err := New(newTestConfig(t))
	require.NoError(t, err)
	assert.NotNil(t, o.executor)
}

func TestRunTestsSuiteScenario(t *testing.T) {
	cfg := newTestConfig(t, "smoke.robot")
	exec := &mockExecutor{result: &runner.Result{Stdout: "1 test, 1 passed, 0 failed\n"}}
	o, out := newTestOrchestrator(t, cfg, exec)

	res, err := o.RunTests(context.Background(), runner.RunConfig{
		Suite:       "smoke",
		Browser:     runner.BrowserFirefox,
		Headless:    false,
		IncludeTags: []string{"login"},
	})
	require.NoError(t, err)
	require.True(t, res.Success())
	require.Len(t, exec.calls, 1)

	cmd := exec.calls[0]
	assert.Equal(t, runner.DefaultRobotBinary, cmd.Name)
	assert.Equal(t, cfg.RobotDir, cmd.Dir)

	joined := strings.Join(cmd.Args, " ")
	assert.Contains(t, joined, "--variable BROWSER:firefox")
	assert.Contains(t, joined, "--variable HEADLESS:False")
	assert.Contains(t, joined, "--include login")
	assert.True(t, strings.HasSuffix(cmd.Args[len(cmd.Args)-1], "smoke.robot"))
	assert.Contains(t, joined, "--outputdir "+cfg.ReportsDir)
	assert.Contains(t, joined, "--output output_20250601_143015.xml")
	assert.Contains(t, joined, "--log log_20250601_143015.html")
	assert.Contains(t, joined, "--report report_20250601_143015.html")

	printed := out.String()
	assert.Contains(t, printed, "Running command: robot --outputdir")
	assert.Contains(t, printed, "ROBOT FRAMEWORK TEST RESULTS")
	assert.Contains(t, printed, "1 test, 1 passed, 0 failed")
	assert.NotContains(t, printed, "Errors:")
	assert.Contains(t, printed, "Reports generated in: "+cfg.ReportsDir)
	assert.Contains(t, printed, "- Log: log_20250601_143015.html")
	assert.Contains(t, printed, "- Report: report_20250601_143015.html")
	assert.Contains(t, printed, "run-123")
}

func TestRunTestsWholeDirectory(t *testing.T) {
	cfg := newTestConfig(t)
	exec := &mockExecutor{}
	o, _ := newTestOrchestrator(t, cfg, exec)

	_, err := o.RunTests(context.Background(), runner.RunConfig{Browser: runner.BrowserChrome, Headless: true})
	require.NoError(t, err)
	require.Len(t, exec.calls, 1)
	args := exec.calls[0].Args
	assert.Equal(t, cfg.TestsDir, args[len(args)-1])

	info, err := os.Stat(cfg.ReportsDir)
	require.NoError(t, err, "reports directory should be created")
	assert.True(t, info.IsDir())
}

func TestRunTestsMissingSuite(t *testing.T) {
	cfg := newTestConfig(t, "homepage.robot")
	exec := &mockExecutor{}
	o, out := newTestOrchestrator(t, cfg, exec)

	res, err := o.RunTests(context.Background(), runner.RunConfig{Suite: "smoke", Browser: runner.BrowserChrome})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, IsSuiteNotFoundError(err))
	assert.Empty(t, exec.calls, "no process may be spawned for a missing suite")
	assert.Contains(t, out.String(), "Error: Test suite smoke.robot not found")

	var suiteErr *SuiteNotFoundError
	require.True(t, errors.As(err, &suiteErr))
	assert.Equal(t, filepath.Join(cfg.TestsDir, "smoke.robot"), suiteErr.Path)
}

func TestRunTestsInvalidBrowser(t *testing.T) {
	cfg := newTestConfig(t)
	exec := &mockExecutor{}
	o, _ := newTestOrchestrator(t, cfg, exec)

	_, err := o.RunTests(context.Background(), runner.RunConfig{Browser: "opera"})
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Empty(t, exec.calls)
}

func TestRunTestsToolNotFound(t *testing.T) {
	cfg := newTestConfig(t)
	exec := &mockExecutor{err: fmt.Errorf("%w: robot: executable file not found in $PATH", runner.ErrBinaryNotFound)}
	o, out := newTestOrchestrator(t, cfg, exec)

	var err error
	require.NotPanics(t, func() {
		_, err = o.RunTests(context.Background(), cfg.Run)
	})
	require.Error(t, err)
	assert.True(t, IsToolNotFoundError(err))
	assert.Contains(t, out.String(), "Robot Framework not found")
	assert.Contains(t, out.String(), InstallHint)
}

func TestRunTestsToolNotFoundRealExecutor(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.RobotBinary = "op-robot-missing-runner"
	o, out := newTestOrchestrator(t, cfg, nil)

	_, err := o.RunTests(context.Background(), cfg.Run)
	require.Error(t, err)
	assert.True(t, IsToolNotFoundError(err))
	assert.Contains(t, out.String(), InstallHint)
}

func TestRunTestsExecutionError(t *testing.T) {
	cfg := newTestConfig(t)
	exec := &mockExecutor{err: errors.New("fork/exec robot: permission denied")}
	o, out := newTestOrchestrator(t, cfg, exec)

	_, err := o.RunTests(context.Background(), cfg.Run)
	require.Error(t, err)
	assert.True(t, IsExecutionError(err))
	assert.False(t, IsToolNotFoundError(err))
	assert.Contains(t, out.String(), "Error running tests: fork/exec robot: permission denied")
}

func TestRunTestsExitCodes(t *testing.T) {
	tests := []struct {
		exitCode int
		success  bool
	}{
		{exitCode: 0, success: true},
		{exitCode: 1, success: false},
		{exitCode: 3, success: false},
		{exitCode: 252, success: false},
		{exitCode: -1, success: false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("exit %d", tt.exitCode), func(t *testing.T) {
			cfg := newTestConfig(t)
			exec := &mockExecutor{result: &runner.Result{ExitCode: tt.exitCode}}
			o, _ := newTestOrchestrator(t, cfg, exec)

			res, err := o.RunTests(context.Background(), cfg.Run)
			require.NotNil(t, res)
			if tt.success {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsTestFailureError(err))
			var failure *TestFailureError
			require.True(t, errors.As(err, &failure))
			assert.Equal(t, tt.exitCode, failure.ExitCode)
		})
	}
}

func TestRunTestsPrintsStderrAndWritesConsoleLog(t *testing.T) {
	cfg := newTestConfig(t)
	exec := &mockExecutor{result: &runner.Result{
		ExitCode: 1,
		Stdout:   "\x1b[31mFAIL\x1b[0m Contact Form\n",
		Stderr:   "[ ERROR ] Element not found\n",
	}}
	o, out := newTestOrchestrator(t, cfg, exec)

	_, err := o.RunTests(context.Background(), cfg.Run)
	require.Error(t, err)
	assert.Contains(t, out.String(), "Errors:\n[ ERROR ] Element not found")

	data, err := os.ReadFile(filepath.Join(cfg.ReportsDir, "console_20250601_143015.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "FAIL Contact Form")
	assert.Contains(t, string(data), "[ ERROR ] Element not found")
	assert.NotContains(t, string(data), "\x1b[")
}

func TestRunTestsWritesMetricsTextfile(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.MetricsTextfile = filepath.Join(t.TempDir(), "op_robot.prom")
	o, _ := newTestOrchestrator(t, cfg, &mockExecutor{})

	_, err := o.RunTests(context.Background(), cfg.Run)
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.MetricsTextfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `op_robot_run_exit_code{browser="chrome",run_id="run-123",suite="all"} 0`)
}

func TestRunTestsWritesMetricsTextfileOnEarlyFailure(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.MetricsTextfile = filepath.Join(t.TempDir(), "op_robot.prom")
	o, _ := newTestOrchestrator(t, cfg, &mockExecutor{})

	_, err := o.RunTests(context.Background(), runner.RunConfig{Suite: "smoke", Browser: runner.BrowserChrome})
	require.True(t, IsSuiteNotFoundError(err))

	data, err := os.ReadFile(cfg.MetricsTextfile)
	require.NoError(t, err)
	assert.Regexp(t, `op_robot_errors_total\{error="suite_not_found"\} [1-9]`, string(data))
}

// TestRunTestsWithScriptRunner runs a stand-in runner script through the real
// executor to check the whole argument list reaches the process.
func TestRunTestsWithScriptRunner(t *testing.T) {
	cfg := newTestConfig(t, "navigation.robot")
	script := filepath.Join(t.TempDir(), "robot")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nfor a in \"$@\"; do echo \"$a\"; done\necho warn >&2\nexit 2\n"), 0755))
	cfg.RobotBinary = script
	o, out := newTestOrchestrator(t, cfg, nil)

	res, err := o.RunTests(context.Background(), runner.RunConfig{
		Suite:     "navigation",
		Browser:   runner.BrowserSafari,
		Headless:  true,
		Variables: []string{"LIST:a,b"},
		BaseURL:   "http://localhost:4173",
	})
	require.Error(t, err)
	assert.True(t, IsTestFailureError(err))
	require.NotNil(t, res)
	assert.Equal(t, 2, res.ExitCode)

	lines := strings.Split(strings.TrimSpace(res.Stdout), "\n")
	assert.Contains(t, lines, "BROWSER:safari")
	assert.Contains(t, lines, "HEADLESS:True")
	assert.Contains(t, lines, "LIST:a,b")
	assert.Contains(t, lines, "BASE_URL:http://localhost:4173")
	assert.Equal(t, filepath.Join(cfg.TestsDir, "navigation.robot"), lines[len(lines)-1])
	assert.Equal(t, "warn\n", res.Stderr)
	assert.Contains(t, out.String(), "Errors:\nwarn")
}

func TestListTestSuites(t *testing.T) {
	t.Run("lists suite stems", func(t *testing.T) {
		cfg := newTestConfig(t, "homepage.robot", "contact.robot", "notes.txt")
		o, out := newTestOrchestrator(t, cfg, &mockExecutor{})

		require.NoError(t, o.ListTestSuites())
		assert.Equal(t, "Available test suites:\n  - contact\n  - homepage\n", out.String())
	})

	t.Run("empty directory prints only the header", func(t *testing.T) {
		cfg := newTestConfig(t)
		o, out := newTestOrchestrator(t, cfg, &mockExecutor{})

		require.NoError(t, o.ListTestSuites())
		assert.Equal(t, "Available test suites:\n", out.String())
	})

	t.Run("unreadable tests directory is reported", func(t *testing.T) {
		cfg := newTestConfig(t)
		require.NoError(t, os.RemoveAll(cfg.TestsDir))
		require.NoError(t, os.WriteFile(cfg.TestsDir, nil, 0644))
		o, out := newTestOrchestrator(t, cfg, &mockExecutor{})

		err := o.ListTestSuites()
		require.Error(t, err)
		assert.True(t, IsExecutionError(err))
		assert.Contains(t, out.String(), "Error: failed to read tests directory")
		assert.NotContains(t, out.String(), "Available test suites:")
	})
}

func TestExecuteModes(t *testing.T) {
	t.Run("list does not run anything", func(t *testing.T) {
		cfg := newTestConfig(t, "smoke.robot")
		cfg.Mode = ModeList
		exec := &mockExecutor{}
		o, out := newTestOrchestrator(t, cfg, exec)

		require.NoError(t, o.Execute(context.Background()))
		assert.Empty(t, exec.calls)
		assert.Contains(t, out.String(), "  - smoke")
	})

	t.Run("install runs pip only", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.Mode = ModeInstall
		cfg.PythonBinary = "python3"
		exec := &mockExecutor{result: &runner.Result{ExitCode: 1}}
		o, _ := newTestOrchestrator(t, cfg, exec)

		require.NoError(t, o.Execute(context.Background()), "install never fails the invocation")
		require.Len(t, exec.calls, 1)
		assert.Equal(t, "python3", exec.calls[0].Name)
		assert.Equal(t, []string{"-m", "pip", "install"}, exec.calls[0].Args[:3])
	})

	t.Run("run propagates the outcome", func(t *testing.T) {
		cfg := newTestConfig(t)
		exec := &mockExecutor{result: &runner.Result{ExitCode: 1}}
		o, _ := newTestOrchestrator(t, cfg, exec)

		err := o.Execute(context.Background())
		assert.True(t, IsTestFailureError(err))
		assert.Len(t, exec.calls, 1)
	})

	t.Run("unknown mode", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.Mode = "bogus"
		o, _ := newTestOrchestrator(t, cfg, &mockExecutor{})
		assert.True(t, IsConfigError(o.Execute(context.Background())))
	})
}

func TestRunTestsTimeout(t *testing.T) {
	cfg := newTestConfig(t)
	script := filepath.Join(t.TempDir(), "robot")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexec sleep 5\n"), 0755))
	cfg.RobotBinary = script
	cfg.Timeout = 100 * time.Millisecond
	o, out := newTestOrchestrator(t, cfg, nil)

	_, err := o.RunTests(context.Background(), cfg.Run)
	require.Error(t, err)
	assert.True(t, IsExecutionError(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, out.String(), "Error running tests:")
}
