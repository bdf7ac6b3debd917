package runner

import (
	"fmt"
	"slices"
	"strings"
)

// Browser identifies the browser SeleniumLibrary should drive
type Browser string

const (
	BrowserChrome  Browser = "chrome"
	BrowserFirefox Browser = "firefox"
	BrowserEdge    Browser = "edge"
	BrowserSafari  Browser = "safari"
)

// DefaultBrowser is used when no browser is requested
const DefaultBrowser = BrowserChrome

// ValidBrowsers returns every supported browser, in display order
func ValidBrowsers() []Browser {
	return []Browser{BrowserChrome, BrowserFirefox, BrowserEdge, BrowserSafari}
}

// IsValid reports whether b is one of the supported browsers
func (b Browser) IsValid() bool {
	return slices.Contains(ValidBrowsers(), b)
}

func (b Browser) String() string {
	return string(b)
}

// RunConfig describes a single invocation of the test runner.
// It is built once from the CLI input and not modified afterwards.
type RunConfig struct {
	Suite       string   // Suite name without extension; empty runs the whole tests directory
	Browser     Browser  // Browser forwarded as the BROWSER variable
	Headless    bool     // Forwarded as the HEADLESS variable
	IncludeTags []string // One --include per tag
	ExcludeTags []string // One --exclude per tag
	Variables   []string // Free-form NAME:VALUE pairs
	BaseURL     string   // Forwarded as the BASE_URL variable
}

// Validate checks the browser choice. Variables and tags are passed through
// untouched and left for the runner to reject.
func (c RunConfig) Validate() error {
	if !c.Browser.IsValid() {
		names := make([]string, 0, len(ValidBrowsers()))
		for _, b := range ValidBrowsers() {
			names = append(names, b.String())
		}
		return fmt.Errorf("invalid browser %q, must be one of: %s", c.Browser, strings.Join(names, ", "))
	}
	return nil
}

// AllVariables returns the free-form variables followed by BASE_URL, which is
// forwarded even when empty
func (c RunConfig) AllVariables() []string {
	vars := slices.Clone(c.Variables)
	return append(vars, Variable(BaseURLVariable, c.BaseURL))
}

// Variable formats a NAME:VALUE pair the way the runner expects it
func Variable(name, value string) string {
	return name + ":" + value
}

// FormatBool renders a boolean the way the suites compare it (True/False)
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
