package flags

import (
	"slices"

	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/infra/op-robot/installer"
	"github.com/ethereum-optimism/infra/op-robot/runner"
	opservice "github.com/ethereum-optimism/optimism/op-service"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
)

const EnvVarPrefix = "OP_ROBOT"

var (
	Suite = &cli.StringFlag{
		Name:    "suite",
		Aliases: []string{"s"},
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "SUITE"),
		Usage:   "Specific test suite to run (without .robot extension)",
	}
	Browser = &cli.StringFlag{
		Name:    "browser",
		Aliases: []string{"b"},
		Value:   string(runner.DefaultBrowser),
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "BROWSER"),
		Usage:   "Browser to use for testing: chrome, firefox, edge or safari",
	}
	Headless = &cli.BoolFlag{
		Name:    "headless",
		Value:   true,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "HEADLESS"),
		Usage:   "Run browser in headless mode",
	}
	Headed = &cli.BoolFlag{
		Name:    "headed",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "HEADED"),
		Usage:   "Run browser in headed mode (opposite of headless)",
	}
	Include = &cli.StringSliceFlag{
		Name:    "include",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "INCLUDE"),
		Usage:   "Include tests with specific tags (short: -i)",
	}
	IncludeShort = &cli.StringSliceFlag{
		Name:   "i",
		Hidden: true,
		Usage:  "Short form of --include",
	}
	Exclude = &cli.StringSliceFlag{
		Name:    "exclude",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "EXCLUDE"),
		Usage:   "Exclude tests with specific tags (short: -e)",
	}
	ExcludeShort = &cli.StringSliceFlag{
		Name:   "e",
		Hidden: true,
		Usage:  "Short form of --exclude",
	}
	Variable = &cli.StringSliceFlag{
		Name:    "variable",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "VARIABLE"),
		Usage:   "Set variable for test execution (format: NAME:VALUE) (short: -v)",
	}
	VariableShort = &cli.StringSliceFlag{
		Name:   "v",
		Hidden: true,
		Usage:  "Short form of --variable",
	}
	List = &cli.BoolFlag{
		Name:    "list",
		Aliases: []string{"l"},
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "LIST"),
		Usage:   "List available test suites",
	}
	Install = &cli.BoolFlag{
		Name:    "install",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "INSTALL"),
		Usage:   "Install required dependencies",
	}
	URL = &cli.StringFlag{
		Name:    "url",
		Value:   runner.DefaultBaseURL,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "URL"),
		Usage:   "Base URL for testing",
	}
	RobotDir = &cli.StringFlag{
		Name:    "robot-dir",
		Value:   ".",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "ROBOT_DIR"),
		Usage:   "Project directory containing the tests/ and reports/ directories",
	}
	RobotBinary = &cli.StringFlag{
		Name:    "robot-binary",
		Value:   runner.DefaultRobotBinary,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "ROBOT_BINARY"),
		Usage:   "Path to the Robot Framework runner",
	}
	PythonBinary = &cli.StringFlag{
		Name:    "python-binary",
		Value:   installer.DefaultPythonBinary,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "PYTHON_BINARY"),
		Usage:   "Python interpreter used to run pip for --install",
	}
	ConfigFile = &cli.StringFlag{
		Name:    "config",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "CONFIG"),
		Usage:   "Path to a YAML file with run defaults (eg. 'robot.yaml')",
	}
	Timeout = &cli.DurationFlag{
		Name:    "timeout",
		Value:   0,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "TIMEOUT"),
		Usage:   "Timeout for the whole test run (e.g. '30m'). Set to 0 or omit to wait indefinitely.",
	}
	MetricsTextfile = &cli.StringFlag{
		Name:    "metrics.textfile",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "METRICS_TEXTFILE"),
		Usage:   "Write run metrics in the Prometheus text format to this file",
	}
)

// urfave/cli refuses a slice flag given under both its name and an alias in
// one invocation, so the repeatable short forms are separate hidden flags.
// Read them back with StringSlice.
var shortFlags = []*cli.StringSliceFlag{
	IncludeShort,
	ExcludeShort,
	VariableShort,
}

var runFlags = []cli.Flag{
	Suite,
	Browser,
	Headless,
	Headed,
	Include,
	Exclude,
	Variable,
	URL,
}

var modeFlags = []cli.Flag{
	List,
	Install,
}

var optionalFlags = []cli.Flag{
	RobotDir,
	RobotBinary,
	PythonBinary,
	ConfigFile,
	Timeout,
	MetricsTextfile,
}

var Flags []cli.Flag

// IsShortForm reports whether f is the hidden short form of a slice flag
func IsShortForm(f cli.Flag) bool {
	for _, short := range shortFlags {
		if f.Names()[0] == short.Name {
			return true
		}
	}
	return false
}

// StringSlice returns the values of a repeatable flag given under its long
// form followed by those given under its short form
func StringSlice(ctx *cli.Context, long, short *cli.StringSliceFlag) []string {
	return slices.Concat(ctx.StringSlice(long.Name), ctx.StringSlice(short.Name))
}

func init() {
	optionalFlags = append(optionalFlags, oplog.CLIFlags(EnvVarPrefix)...)

	Flags = append(Flags, runFlags...)
	for _, f := range shortFlags {
		Flags = append(Flags, f)
	}
	Flags = append(Flags, modeFlags...)
	Flags = append(Flags, optionalFlags...)
}
