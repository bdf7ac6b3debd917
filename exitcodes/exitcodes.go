// Package exitcodes defines the standard exit codes used by op-robot.
package exitcodes

// Exit code constants used by op-robot.
//
// * Success (0): the runner exited 0, or a list/install invocation completed
// * Failure (1): anything else, including missing suites, a missing runner
// binary, execution errors and failing tests
const (
	Success = 0
	Failure = 1
)
