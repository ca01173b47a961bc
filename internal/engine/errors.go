package engine

import (
	"fmt"
	"strings"
)

// InvocationError is returned when the engine binary can't be started or exits with a non-zero code.
type InvocationError struct {
	Command  Command
	ExitCode int // -1 when the process hasn't exited normally
	Stderr   string
	Err      error
}

func (e *InvocationError) Error() string {
	var message string
	if e.ExitCode < 0 {
		message = fmt.Sprintf("Failed to execute `%s`: %s", e.Command, e.Err)
	} else {
		message = fmt.Sprintf("`%s` exited with %d code", e.Command, e.ExitCode)
	}

	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		message += ": " + stderr
	}

	return message
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// ParseError is returned when the engine output doesn't match the expected shape.
type ParseError struct {
	Command Command
	Output  string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Got an unexpected output from `%s`: %s", e.Command, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ArgumentError is returned before invoking the engine when the caller passed invalid arguments.
type ArgumentError struct {
	Err error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("Invalid arguments: %s", e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// UnavailableError is returned on attribute access to a handle which has never been inspected successfully.
type UnavailableError struct {
	Kind      string
	Reference string
	Err       error
}

func (e *UnavailableError) Error() string {
	message := fmt.Sprintf("%s %q is unavailable", e.Kind, e.Reference)
	if e.Err != nil {
		message += ": " + e.Err.Error()
	}
	return message
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
