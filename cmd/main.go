package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	robot "github.com/ethereum-optimism/infra/op-robot"
	"github.com/ethereum-optimism/infra/op-robot/exitcodes"
	"github.com/ethereum-optimism/infra/op-robot/flags"
	"github.com/ethereum-optimism/optimism/devnet-sdk/telemetry"
	"github.com/ethereum-optimism/optimism/op-service/cliapp"
	"github.com/ethereum-optimism/optimism/op-service/ctxinterrupt"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := newApp()

	// Start telemetry
	ctx, shutdown, err := telemetry.SetupOpenTelemetry(
		context.Background(),
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Crit("Failed to setup open telemetry", "message", err)
	}
	defer shutdown()

	// Start CLI
	ctx = ctxinterrupt.WithSignalWaiterMain(ctx)
	err = app.RunContext(ctx, os.Args)
	if err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func newApp() *cli.App {
	// -v is taken by --variable
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}

	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "op-robot"
	app.Usage = "Robot Framework Test Runner"
	app.Description = "op-robot runs the Robot Framework browser suites of a web application and collects timestamped reports"
	app.Flags = cliapp.ProtectFlags(flags.Flags)
	app.DisableSliceFlagSeparator = true
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			// The orchestrator has already reported the failure on stdout
			cli.HandleExitCoder(cli.Exit("", exitcodes.Failure))
		}
	}
	return app
}

func run(ctx *cli.Context) error {
	logCfg := oplog.ReadCLIConfig(ctx)
	log := oplog.NewLogger(oplog.AppOut(ctx), logCfg)
	oplog.SetGlobalLogHandler(log.Handler())
	oplog.SetupDefaults()

	cfg, err := robot.NewConfig(ctx, log)
	if err != nil {
		fmt.Fprintf(ctx.App.Writer, "Error: %v\n", err)
		return robot.NewConfigError(fmt.Errorf("failed to create config: %w", err))
	}

	cfg.Log.Debug("Config", "config", cfg)

	orchestrator, err := robot.New(cfg)
	if err != nil {
		return robot.NewConfigError(fmt.Errorf("failed to create orchestrator: %w", err))
	}

	// The signal waiter installed in main only catches signals, so the run
	// context has to be cancelled explicitly to stop the runner child.
	runCtx := ctxinterrupt.WithCancelOnInterrupt(ctx.Context)
	if err := orchestrator.Execute(runCtx); err != nil {
		log.Debug("Invocation failed", "mode", cfg.Mode, "err", err)
		return err
	}
	return nil
}
