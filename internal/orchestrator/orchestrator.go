// Package orchestrator implements the orchestrator core: the
// plan -> optimise -> schedule -> dispatch -> observe -> persist
// pipeline, realized as Orchestrator plus its supporting contracts
// (Planner, TaskWorker, Scheduler, Metrics, CancelToken).
package orchestrator

import (
	"fmt"
	"sync"

	"github.com/harrison/orchestrator/internal/config"
	"github.com/harrison/orchestrator/internal/eventlog"
	"github.com/harrison/orchestrator/internal/memory"
	"github.com/harrison/orchestrator/internal/models"
	"github.com/harrison/orchestrator/internal/optimizer"
	"github.com/harrison/orchestrator/internal/policy"
	"github.com/harrison/orchestrator/internal/router"
	"github.com/harrison/orchestrator/internal/workspace"

	"github.com/harrison/orchestrator/internal/ab"
)

// Orchestrator glues a Planner, a pool of TaskWorkers, and the core's
// supporting components into the plan -> optimise -> schedule ->
// dispatch -> observe -> persist pipeline. Construct one with
// NewBuilder; its zero value is not usable.
type Orchestrator struct {
	planner        Planner
	workersMu      sync.Mutex
	workers        []TaskWorker
	maxConcurrency int

	memory    memory.Service
	events    eventlog.EventBus
	policy    policy.ExecutionPolicy
	cfg       config.OrchestrationConfig
	cancel    CancelToken
	metrics   Metrics
	scheduler Scheduler
	optimizer optimizer.Optimizer
	workspace workspace.Manager
	router    *router.BanditRouter

	// sessionID stamps every Event's CorrelationID published during a
	// run, letting an external observer group one OrchestratePrompt /
	// ExecuteWithDelegation invocation's events together.
	sessionID string
}

// publish stamps event with this Orchestrator's session correlation id
// before handing it to the EventBus.
func (o *Orchestrator) publish(ev eventlog.Event) {
	ev.CorrelationID = o.sessionID
	o.events.Publish(ev)
}

// OrchestratePrompt loads any prior memory snapshot from the workspace,
// merges it in, refreshes AGENTS.md guidance, plans the prompt, and
// executes the resulting Playbook. A Planner failure aborts here with
// a PlanningFailed OrchestrationError.
func (o *Orchestrator) OrchestratePrompt(prompt string) error {
	if snapshot, ok := o.workspace.LoadMemory(); ok {
		o.memory.Merge(memory.MemoryDelta{StatePatch: snapshot.State, TodoAdd: snapshot.Todo})
	}
	_ = o.workspace.WriteAgentsMD(o.memory.Load())

	playbook, err := o.planner.PlanFromPrompt(prompt)
	if err != nil {
		return NewPlanningFailed("planner returned an error", err)
	}
	return o.ExecuteWithDelegation(playbook)
}

// ExecuteWithDelegation runs playbook to completion: it derives a
// reduced optimisation instance, invokes the configured Optimizer,
// publishes an A/B summary against the classical baseline, reconciles
// the result against declared dependencies, and drives the scheduler.
func (o *Orchestrator) ExecuteWithDelegation(playbook models.Playbook) error {
	o.publish(eventlog.New(eventlog.KindInfo, fmt.Sprintf("starting playbook: %s", playbook.Name)))

	if o.cancel.IsCanceled() {
		o.publish(eventlog.New(eventlog.KindWarn, "canceled"))
		return nil
	}

	tasks := playbook.Tasks
	inst := buildInstance(tasks, o.maxConcurrency)

	delta, err := o.optimizer.Optimize(inst)
	if err != nil {
		delta = identityDelta(tasks)
	}

	classical := optimizer.ClassicalOptimizer{}
	abResult := ab.Compare(classical, o.optimizer, inst)
	o.publish(eventlog.New(eventlog.KindInfo, fmt.Sprintf(
		"qc_ab:winner=%s classical_cost=%d qc_cost=%d confidence=%.2f",
		abResult.Winner, abResult.ClassicalCost, abResult.CandidateCost, delta.Confidence,
	)))

	ordered := applyOrder(tasks, delta.Order)
	ordered, hadCycle := TopoOrderWithHint(ordered)
	if hadCycle {
		o.publish(eventlog.New(eventlog.KindWarn, "dependency cycle detected; residual tasks appended in input order"))
	}

	target := ComputeConcurrency(o.maxConcurrency, len(ordered))
	o.publish(eventlog.New(eventlog.KindInfo, fmt.Sprintf("scheduler_target_concurrency=%d", target)))

	runner := &taskRunner{
		events:    o.events,
		policy:    o.policy,
		mem:       o.memory,
		metrics:   o.metrics,
		cancel:    o.cancel,
		workspace: o.workspace,
		workersMu: &o.workersMu,
		workers:   &o.workers,
		router:    o.router,
		sessionID: o.sessionID,
	}

	o.metrics.Inc("playbook_started")
	if err := o.scheduler.Run(ordered, target, runner); err != nil {
		o.publish(eventlog.New(eventlog.KindError, fmt.Sprintf("playbook failed: %v", err)))
		return NewExecutionFailed("playbook execution failed", err)
	}

	snapshot := o.memory.Load()
	_ = o.workspace.PersistMemory(snapshot)
	_ = o.workspace.WriteTodoMD(snapshot)
	o.publish(eventlog.New(eventlog.KindInfo, "playbook:done"))
	return nil
}

func buildInstance(tasks []models.Task, maxConcurrency int) optimizer.QuboInstance {
	qtasks := make([]optimizer.QuboTask, len(tasks))
	for i, t := range tasks {
		qtasks[i] = optimizer.QuboTask{
			ID:       t.ID,
			Priority: t.Priority(),
			Write:    t.NeedsWriteLock(),
		}
	}
	buckets := len(tasks)
	if buckets > 8 {
		buckets = 8
	}
	if buckets < 1 {
		buckets = 1
	}
	timeout := uint64(50)
	return optimizer.QuboInstance{
		Tasks:   qtasks,
		Horizon: optimizer.QuboHorizon{Buckets: uint32(buckets), Capacity: uint32(maxConcurrency), WriteCap: 1},
		Weights: optimizer.QuboWeights{Lateness: 1.0, Priority: 1.0, Fairness: 0.5, ReorderCost: 0.1},
		TimeoutMs: &timeout,
	}
}

func identityDelta(tasks []models.Task) optimizer.ScheduleDelta {
	order := make([]string, len(tasks))
	for i, t := range tasks {
		order[i] = t.ID
	}
	return optimizer.ScheduleDelta{Order: order, Confidence: 0.0}
}

// applyOrder reorders tasks per order, appending any task order omits
// in its original relative position at the end.
func applyOrder(tasks []models.Task, order []string) []models.Task {
	byID := make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	out := make([]models.Task, 0, len(tasks))
	seen := make(map[string]struct{}, len(tasks))
	for _, id := range order {
		if t, ok := byID[id]; ok {
			out = append(out, t)
			seen[id] = struct{}{}
		}
	}
	for _, t := range tasks {
		if _, ok := seen[t.ID]; !ok {
			out = append(out, t)
		}
	}
	return out
}

func toRouterWorkers(workers []TaskWorker) []router.Worker {
	out := make([]router.Worker, len(workers))
	for i, w := range workers {
		out[i] = w
	}
	return out
}
