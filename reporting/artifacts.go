package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum-optimism/infra/op-robot/runner"
)

// TimestampLayout is the strftime %Y%m%d_%H%M%S equivalent used in file names.
// Two runs started in the same second share a timestamp.
const TimestampLayout = "20060102_150405"

// Artifacts are the timestamped files produced by one run, all inside Dir
type Artifacts struct {
	Dir       string
	Timestamp string
	Output    string // Robot output XML
	Log       string // Robot log HTML
	Report    string // Robot report HTML
	Console   string // Captured stdout/stderr of the runner
}

// NewArtifacts names the artifacts of a run started at t
func NewArtifacts(dir string, t time.Time) Artifacts {
	ts := t.Format(TimestampLayout)
	return Artifacts{
		Dir:       dir,
		Timestamp: ts,
		Output:    fmt.Sprintf("output_%s.xml", ts),
		Log:       fmt.Sprintf("log_%s.html", ts),
		Report:    fmt.Sprintf("report_%s.html", ts),
		Console:   fmt.Sprintf("console_%s.log", ts),
	}
}

// OutputFiles returns the subset of artifacts written by the runner itself
func (a Artifacts) OutputFiles() runner.OutputFiles {
	return runner.OutputFiles{
		Dir:    a.Dir,
		Output: a.Output,
		Log:    a.Log,
		Report: a.Report,
	}
}

// Path joins an artifact name with the artifacts directory
func (a Artifacts) Path(name string) string {
	return filepath.Join(a.Dir, name)
}

// EnsureDir creates the reports directory if it does not exist
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
