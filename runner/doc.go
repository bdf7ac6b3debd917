// Package runner provides the pieces needed to invoke Robot Framework.
//
// The main components are:
//   - RunConfig: the options of a single run (suite, browser, tags, variables)
//   - ArgsBuilder: ordered assembly of the runner argument list
//   - Executor: runs a child process to completion and captures its output
//
// Nothing here decides how results are presented; that is left to callers.
package runner
