package orchestrator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies an OrchestrationError.
type ErrorKind int

const (
	// Unsupported marks a request the core has no handler for (an
	// unroutable task, an unsupported worker action).
	Unsupported ErrorKind = iota
	// PlanningFailed marks a Planner failure; it aborts OrchestratePrompt.
	PlanningFailed
	// ExecutionFailed marks a TaskWorker failure; it propagates as-is
	// and aborts the playbook.
	ExecutionFailed
	// Internal marks a failure in the orchestrator's own machinery
	// (a policy hook error).
	Internal
)

func (k ErrorKind) String() string {
	switch k {
	case Unsupported:
		return "unsupported"
	case PlanningFailed:
		return "planning failed"
	case ExecutionFailed:
		return "execution failed"
	case Internal:
		return "internal error"
	default:
		return "unknown"
	}
}

// OrchestrationError is the core's single error type: a Kind plus a
// message and an optional wrapped cause.
type OrchestrationError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

// NewUnsupported builds an Unsupported error for the named unhandled
// kind (a task action, a worker capability).
func NewUnsupported(what string) *OrchestrationError {
	return &OrchestrationError{Kind: Unsupported, Msg: what}
}

// NewPlanningFailed wraps a Planner failure.
func NewPlanningFailed(msg string, cause error) *OrchestrationError {
	return &OrchestrationError{Kind: PlanningFailed, Msg: msg, Err: cause}
}

// NewExecutionFailed wraps a TaskWorker failure.
func NewExecutionFailed(msg string, cause error) *OrchestrationError {
	return &OrchestrationError{Kind: ExecutionFailed, Msg: msg, Err: cause}
}

// NewInternal wraps an internal orchestrator failure.
func NewInternal(msg string, cause error) *OrchestrationError {
	return &OrchestrationError{Kind: Internal, Msg: msg, Err: cause}
}

// Error implements the error interface.
func (e *OrchestrationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s", e.Kind, e.Msg))
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Err))
	}
	return sb.String()
}

// Unwrap returns the wrapped cause, supporting errors.Is/errors.As.
func (e *OrchestrationError) Unwrap() error {
	return e.Err
}

// TaskError names the task that failed inside an aggregate
// ExecutionError.
type TaskError struct {
	TaskID string
	Err    error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s: %v", e.TaskID, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// ExecutionError aggregates every TaskError the scheduler observed
// while running a playbook's tasks concurrently.
type ExecutionError struct {
	TotalTasks int
	TaskErrors []*TaskError
}

// AddTask records one task failure.
func (e *ExecutionError) AddTask(taskID string, err error) {
	e.TaskErrors = append(e.TaskErrors, &TaskError{TaskID: taskID, Err: err})
}

func (e *ExecutionError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("execution failed: %d/%d tasks failed", len(e.TaskErrors), e.TotalTasks))
	for _, te := range e.TaskErrors {
		sb.WriteString(fmt.Sprintf("\n  - %s", te.Error()))
	}
	return sb.String()
}

// Unwrap returns every TaskError for errors.Is/errors.As traversal.
func (e *ExecutionError) Unwrap() []error {
	if len(e.TaskErrors) == 0 {
		return nil
	}
	out := make([]error, len(e.TaskErrors))
	for i, te := range e.TaskErrors {
		out[i] = te
	}
	return out
}

// IsTaskError reports whether err is or wraps a TaskError.
func IsTaskError(err error) bool {
	var te *TaskError
	return errors.As(err, &te)
}

// IsExecutionError reports whether err is or wraps an ExecutionError.
func IsExecutionError(err error) bool {
	var ee *ExecutionError
	return errors.As(err, &ee)
}
