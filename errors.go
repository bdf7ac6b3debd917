package robot

import (
	"errors"
	"fmt"
)

// ConfigError represents invalid user input detected before anything runs,
// such as an unknown browser or an unreadable config file
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(err error) *ConfigError {
	return &ConfigError{Err: err}
}

// IsConfigError checks if the error is or wraps a ConfigError
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return err != nil && errors.As(err, &configErr)
}

// SuiteNotFoundError is returned when the requested suite file does not exist.
// No process is started in that case.
type SuiteNotFoundError struct {
	Suite string
	Path  string
}

func (e *SuiteNotFoundError) Error() string {
	return fmt.Sprintf("test suite %s not found at %s", e.Suite, e.Path)
}

// IsSuiteNotFoundError checks if the error is or wraps a SuiteNotFoundError
func IsSuiteNotFoundError(err error) bool {
	var suiteErr *SuiteNotFoundError
	return err != nil && errors.As(err, &suiteErr)
}

// ToolNotFoundError is returned when an external executable is not installed
type ToolNotFoundError struct {
	Binary string
	Err    error
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %v", e.Binary, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *ToolNotFoundError) Unwrap() error {
	return e.Err
}

// IsToolNotFoundError checks if the error is or wraps a ToolNotFoundError
func IsToolNotFoundError(err error) bool {
	var toolErr *ToolNotFoundError
	return err != nil && errors.As(err, &toolErr)
}

// ExecutionError represents any other failure to run the test runner
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution error: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// NewExecutionError creates a new ExecutionError
func NewExecutionError(err error) *ExecutionError {
	return &ExecutionError{Err: err}
}

// IsExecutionError checks if the error is or wraps an ExecutionError
func IsExecutionError(err error) bool {
	var execErr *ExecutionError
	return err != nil && errors.As(err, &execErr)
}

// TestFailureError is returned when the runner exits with a non-zero code
type TestFailureError struct {
	ExitCode int
}

func (e *TestFailureError) Error() string {
	return fmt.Sprintf("test failure: runner exited with code %d", e.ExitCode)
}

// NewTestFailureError creates a new TestFailureError
func NewTestFailureError(exitCode int) *TestFailureError {
	return &TestFailureError{ExitCode: exitCode}
}

// IsTestFailureError checks if the error is or wraps a TestFailureError
func IsTestFailureError(err error) bool {
	var testErr *TestFailureError
	return err != nil && errors.As(err, &testErr)
}
