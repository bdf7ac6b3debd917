package runner

import "slices"

// OutputFiles are the artifact locations handed to the runner
type OutputFiles struct {
	Dir    string // --outputdir
	Output string // --output, relative to Dir
	Log    string // --log, relative to Dir
	Report string // --report, relative to Dir
}

// ArgsBuilder assembles an ordered argument list. Empty values are kept, so
// callers decide what is optional.
type ArgsBuilder struct {
	args []string
}

// NewArgsBuilder creates an empty builder
func NewArgsBuilder() *ArgsBuilder {
	return &ArgsBuilder{}
}

// Flag appends a flag followed by its value
func (b *ArgsBuilder) Flag(name, value string) *ArgsBuilder {
	b.args = append(b.args, name, value)
	return b
}

// Repeat appends the flag once per value, in order
func (b *ArgsBuilder) Repeat(name string, values []string) *ArgsBuilder {
	for _, v := range values {
		b.Flag(name, v)
	}
	return b
}

// Positional appends a bare argument
func (b *ArgsBuilder) Positional(arg string) *ArgsBuilder {
	b.args = append(b.args, arg)
	return b
}

// Build returns a copy of the arguments collected so far
func (b *ArgsBuilder) Build() []string {
	return slices.Clone(b.args)
}

// BuildRobotArgs returns the runner arguments for cfg. target is either a
// single suite file or the tests directory and always comes last.
func BuildRobotArgs(cfg RunConfig, files OutputFiles, target string) []string {
	return NewArgsBuilder().
		Flag(OutputDirFlag, files.Dir).
		Flag(OutputFlag, files.Output).
		Flag(LogFlag, files.Log).
		Flag(ReportFlag, files.Report).
		Flag(VariableFlag, Variable(BrowserVariable, cfg.Browser.String())).
		Flag(VariableFlag, Variable(HeadlessVariable, FormatBool(cfg.Headless))).
		Repeat(VariableFlag, cfg.AllVariables()).
		Repeat(IncludeFlag, cfg.IncludeTags).
		Repeat(ExcludeFlag, cfg.ExcludeTags).
		Positional(target).
		Build()
}
