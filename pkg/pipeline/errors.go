package pipeline

import (
	"fmt"
)

// PreconditionError indicates an agent was invoked before a field it requires was
// written. This is a graph-ordering bug: the workflow must never admit an agent
// whose upstream dependencies have not completed.
type PreconditionError struct {
	Agent string // Role that was invoked
	Field Field  // Required field that was missing
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("agent %q requires field %q which has not been produced", e.Agent, e.Field)
}

// AgentExecutionError indicates the completion endpoint call for an agent failed
// or returned unusable output. It is fatal to the run; no retry is attempted.
type AgentExecutionError struct {
	Agent string // Role that failed
	Err   error  // Underlying cause (transport error, bad status, malformed output)
}

func (e *AgentExecutionError) Error() string {
	return fmt.Sprintf("agent %q failed: %v", e.Agent, e.Err)
}

// Unwrap returns the underlying cause so callers can inspect it with errors.Is/As.
func (e *AgentExecutionError) Unwrap() error {
	return e.Err
}

// DoubleWriteError indicates a second write to a write-once state field.
// Each field has exactly one owning agent, so this can only happen if the
// workflow graph invoked the same agent twice.
type DoubleWriteError struct {
	Field Field
}

func (e *DoubleWriteError) Error() string {
	return fmt.Sprintf("field %q has already been written (fields are write-once)", e.Field)
}
