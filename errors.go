package main

import "fmt"

// ToolError is returned when an external tool (cargo fmt, cargo clippy)
// exits with a failure.
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// VerifyError wraps a failed post-rewrite verification.
type VerifyError struct {
	Err error
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("verification failed: %v", e.Err)
}

func (e *VerifyError) Unwrap() error {
	return e.Err
}
