package reporting

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ethereum-optimism/infra/op-robot/runner"
)

// Summary describes a finished run for the console
type Summary struct {
	RunID     string
	Config    runner.RunConfig
	Result    *runner.Result
	Artifacts Artifacts
}

// WriteSummary renders the run summary table to w
func WriteSummary(w io.Writer, s Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("Robot Framework Run (%s)", formatDuration(s.Result.Duration)))

	t.AppendHeader(table.Row{"Run ID", "Suite", "Browser", "Headless", "Exit Code", "Duration", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Suite", WidthMax: 40, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Exit Code", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
	})

	t.AppendRow(table.Row{
		s.RunID,
		suiteLabel(s.Config.Suite),
		s.Config.Browser,
		runner.FormatBool(s.Config.Headless),
		s.Result.ExitCode,
		formatDuration(s.Result.Duration),
		getResultString(s.Result.Success()),
	})
	t.AppendFooter(table.Row{"Reports", s.Artifacts.Dir, "", "", "", "", ""})

	if s.Result.Success() {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	t.Render()
}

func suiteLabel(suite string) string {
	if suite == "" {
		return "(all)"
	}
	return suite
}

// getResultString returns a short status marker for a run
func getResultString(success bool) string {
	if success {
		return "✓ pass"
	}
	return "✗ fail"
}

// Helper function to format duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
