package robot

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/infra/op-robot/flags"
	"github.com/ethereum-optimism/infra/op-robot/runner"
)

const (
	TestsDirName   = "tests"
	ReportsDirName = "reports"
)

// Mode is the single action an invocation performs
type Mode string

const (
	ModeRun     Mode = "run"
	ModeList    Mode = "list"
	ModeInstall Mode = "install"
)

// Config holds the application configuration
type Config struct {
	Mode            Mode
	RobotDir        string           // Project directory, absolute
	TestsDir        string           // <RobotDir>/tests
	ReportsDir      string           // <RobotDir>/reports
	RobotBinary     string           // Runner executable
	PythonBinary    string           // Interpreter used for pip
	Timeout         time.Duration    // Run timeout, 0 disables it
	MetricsTextfile string           // Prometheus textfile path, empty disables it
	Run             runner.RunConfig // What to run, only meaningful in ModeRun
	Log             log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log log.Logger) (*Config, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}

	robotDir := ctx.String(flags.RobotDir.Name)
	if robotDir == "" {
		return nil, errors.New("robot directory is required")
	}
	absRobotDir, err := filepath.Abs(robotDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for robot directory '%s': %w", robotDir, err)
	}

	mode := ModeRun
	switch {
	case ctx.Bool(flags.Install.Name):
		mode = ModeInstall
	case ctx.Bool(flags.List.Name):
		mode = ModeList
	}

	var fileCfg FileConfig
	if path := ctx.String(flags.ConfigFile.Name); path != "" {
		loaded, err := LoadFileConfig(path)
		if err != nil {
			return nil, err
		}
		fileCfg = *loaded
	}

	runCfg := buildRunConfig(ctx, &fileCfg)
	if mode == ModeRun {
		if err := runCfg.Validate(); err != nil {
			return nil, err
		}
	}

	robotBinary := ctx.String(flags.RobotBinary.Name)
	if robotBinary == "" {
		robotBinary = runner.DefaultRobotBinary
	}

	return &Config{
		Mode:            mode,
		RobotDir:        absRobotDir,
		TestsDir:        filepath.Join(absRobotDir, TestsDirName),
		ReportsDir:      filepath.Join(absRobotDir, ReportsDirName),
		RobotBinary:     robotBinary,
		PythonBinary:    ctx.String(flags.PythonBinary.Name),
		Timeout:         ctx.Duration(flags.Timeout.Name),
		MetricsTextfile: ctx.String(flags.MetricsTextfile.Name),
		Run:             runCfg,
		Log:             log,
	}, nil
}

// buildRunConfig merges the config file under the CLI flags. Scalars set on
// the command line win; tags and variables from the file come first, then the
// long flag forms, then the short ones.
func buildRunConfig(ctx *cli.Context, file *FileConfig) runner.RunConfig {
	browser := ctx.String(flags.Browser.Name)
	if !ctx.IsSet(flags.Browser.Name) && file.Browser != "" {
		browser = file.Browser
	}

	baseURL := ctx.String(flags.URL.Name)
	if !ctx.IsSet(flags.URL.Name) && file.URL != "" {
		baseURL = file.URL
	}

	headless := ctx.Bool(flags.Headless.Name)
	if !ctx.IsSet(flags.Headless.Name) && file.Headless != nil {
		headless = *file.Headless
	}
	headless = headless && !ctx.Bool(flags.Headed.Name)

	return runner.RunConfig{
		Suite:       ctx.String(flags.Suite.Name),
		Browser:     runner.Browser(browser),
		Headless:    headless,
		IncludeTags: slices.Concat(file.Include, flags.StringSlice(ctx, flags.Include, flags.IncludeShort)),
		ExcludeTags: slices.Concat(file.Exclude, flags.StringSlice(ctx, flags.Exclude, flags.ExcludeShort)),
		Variables:   slices.Concat(file.VariableList(), flags.StringSlice(ctx, flags.Variable, flags.VariableShort)),
		BaseURL:     baseURL,
	}
}
