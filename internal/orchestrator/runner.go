package orchestrator

import (
	"fmt"
	"sync"

	"github.com/harrison/orchestrator/internal/eventlog"
	"github.com/harrison/orchestrator/internal/memory"
	"github.com/harrison/orchestrator/internal/models"
	"github.com/harrison/orchestrator/internal/policy"
	"github.com/harrison/orchestrator/internal/router"
	"github.com/harrison/orchestrator/internal/workspace"
)

// taskRunner is the TaskRunner a Scheduler drives: it wraps one task
// dispatch in the full observe/persist sequence (policy hooks, router
// choice, memory merge, workspace sync, events, metrics).
type taskRunner struct {
	events    eventlog.EventBus
	policy    policy.ExecutionPolicy
	mem       memory.Service
	metrics   Metrics
	cancel    CancelToken
	workspace workspace.Manager
	router    *router.BanditRouter

	workersMu *sync.Mutex
	workers   *[]TaskWorker

	sessionID string
}

func (r *taskRunner) publish(ev eventlog.Event, taskID string) {
	ev.TaskID = taskID
	ev.CorrelationID = r.sessionID
	r.events.Publish(ev)
}

// correlatedBus stamps every Event published through it (by policy
// hooks) with the run's session correlation id before forwarding it.
type correlatedBus struct {
	eventlog.EventBus
	sessionID string
}

func (b correlatedBus) Publish(ev eventlog.Event) {
	ev.CorrelationID = b.sessionID
	b.EventBus.Publish(ev)
}

// RunOne implements TaskRunner.
func (r *taskRunner) RunOne(task models.Task) error {
	if r.cancel.IsCanceled() {
		r.publish(eventlog.New(eventlog.KindWarn, "canceled"), task.ID)
		return nil
	}

	r.publish(eventlog.New(eventlog.KindProgress, "task:start"), task.ID)

	hookEvents := correlatedBus{EventBus: r.events, sessionID: r.sessionID}
	if err := r.policy.BeforeTask(task, hookEvents); err != nil {
		return NewInternal("policy before_task hook failed", err)
	}

	r.workersMu.Lock()
	workers := *r.workers
	decision := r.router.Choose(task, toRouterWorkers(workers))
	if decision.Index < 0 || decision.Index >= len(workers) {
		r.workersMu.Unlock()
		return NewUnsupported(fmt.Sprintf("no worker available for task %s", task.ID))
	}
	worker := workers[decision.Index]
	r.workersMu.Unlock()

	result, err := worker.Run(task)
	if err != nil {
		r.router.Observe(decision.Index, false)
		r.publish(eventlog.New(eventlog.KindError, fmt.Sprintf("worker %s failed: %v", worker.Name(), err)), task.ID)
		return NewExecutionFailed(fmt.Sprintf("worker %s", worker.Name()), err)
	}

	statePatch := map[string]any{"last_result": result}
	if patch, ok := result["memory_update"].(map[string]any); ok {
		statePatch = memory.DeepMerge(statePatch, patch)
	}
	snapshot := r.mem.Merge(memory.MemoryDelta{StatePatch: statePatch})

	if err := r.workspace.PersistMemory(snapshot); err != nil {
		r.publish(eventlog.New(eventlog.KindWarn, fmt.Sprintf("persist memory: %v", err)), task.ID)
	}
	if err := r.workspace.WriteTodoMD(snapshot); err != nil {
		r.publish(eventlog.New(eventlog.KindWarn, fmt.Sprintf("write todo.md: %v", err)), task.ID)
	}
	if err := r.workspace.WriteAgentsMD(snapshot); err != nil {
		r.publish(eventlog.New(eventlog.KindWarn, fmt.Sprintf("write agents.md: %v", err)), task.ID)
	}

	if err := r.policy.AfterTask(task, hookEvents); err != nil {
		return NewInternal("policy after_task hook failed", err)
	}

	success := true
	if v, present := result["success"]; present {
		if b, ok := v.(bool); ok {
			success = b
		}
	}
	r.router.Observe(decision.Index, success)
	r.metrics.Inc("tasks_completed")
	r.publish(eventlog.New(eventlog.KindProgress, "task:done"), task.ID)
	return nil
}
