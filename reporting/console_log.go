package reporting

import (
	"fmt"
	"os"
	"strings"

	"github.com/acarl005/stripansi"
)

// WriteConsoleLog stores the runner's captured output in path, with ANSI
// colour codes removed. Stderr follows stdout under its own heading and is
// omitted when empty.
func WriteConsoleLog(path, stdout, stderr string) error {
	var b strings.Builder
	b.WriteString(stripansi.Strip(stdout))
	if stderr != "" {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n--- stderr ---\n")
		b.WriteString(stripansi.Strip(stderr))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write console log %s: %w", path, err)
	}
	return nil
}
