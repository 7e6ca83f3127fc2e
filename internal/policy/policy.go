// Package policy implements the orchestrator's ExecutionPolicy hooks,
// the pluggable before/after observers run around every task dispatch.
package policy

import (
	"fmt"

	"github.com/harrison/orchestrator/internal/eventlog"
	"github.com/harrison/orchestrator/internal/models"
)

// ExecutionPolicy observes task execution without altering it: a
// non-nil error from either hook aborts the task the same way a
// TaskWorker error would.
type ExecutionPolicy interface {
	BeforeTask(task models.Task, events eventlog.EventBus) error
	AfterTask(task models.Task, events eventlog.EventBus) error
}

// NoopExecutionPolicy publishes an info event around each hook and
// otherwise does nothing.
type NoopExecutionPolicy struct{}

// BeforeTask publishes "policy:before:<id>".
func (NoopExecutionPolicy) BeforeTask(task models.Task, events eventlog.EventBus) error {
	events.Publish(eventlog.New(eventlog.KindInfo, fmt.Sprintf("policy:before:%s", task.ID)))
	return nil
}

// AfterTask publishes "policy:after:<id>".
func (NoopExecutionPolicy) AfterTask(task models.Task, events eventlog.EventBus) error {
	events.Publish(eventlog.New(eventlog.KindInfo, fmt.Sprintf("policy:after:%s", task.ID)))
	return nil
}

var _ ExecutionPolicy = NoopExecutionPolicy{}
