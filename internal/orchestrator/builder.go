package orchestrator

import (
	"github.com/google/uuid"

	"github.com/harrison/orchestrator/internal/config"
	"github.com/harrison/orchestrator/internal/eventlog"
	"github.com/harrison/orchestrator/internal/memory"
	"github.com/harrison/orchestrator/internal/optimizer"
	"github.com/harrison/orchestrator/internal/policy"
	"github.com/harrison/orchestrator/internal/router"
	"github.com/harrison/orchestrator/internal/workspace"
)

// Builder assembles an Orchestrator from its collaborators, defaulting
// every unset one to an in-process, no-op implementation.
type Builder struct {
	cfg       config.OrchestrationConfig
	memory    memory.Service
	events    eventlog.EventBus
	policy    policy.ExecutionPolicy
	scheduler Scheduler
	optimizer optimizer.Optimizer
	workspace workspace.Manager
	metrics   Metrics
	cancel    *CancelSource
	router    *router.BanditRouter
	sessionID string
}

// NewBuilder returns a Builder seeded with cfg (zero-value is fine;
// use config.DefaultConfig() for the baseline).
func NewBuilder(cfg config.OrchestrationConfig) *Builder {
	return &Builder{cfg: cfg}
}

// WithMemory overrides the default InMemoryService.
func (b *Builder) WithMemory(m memory.Service) *Builder { b.memory = m; return b }

// WithEvents overrides the default InProcEventBus.
func (b *Builder) WithEvents(e eventlog.EventBus) *Builder { b.events = e; return b }

// WithPolicy overrides the default NoopExecutionPolicy.
func (b *Builder) WithPolicy(p policy.ExecutionPolicy) *Builder { b.policy = p; return b }

// WithScheduler overrides the default BoundedScheduler.
func (b *Builder) WithScheduler(s Scheduler) *Builder { b.scheduler = s; return b }

// WithOptimizer overrides the optimiser chosen from cfg.QCEndpoint.
func (b *Builder) WithOptimizer(o optimizer.Optimizer) *Builder { b.optimizer = o; return b }

// WithWorkspace overrides the default NoopManager.
func (b *Builder) WithWorkspace(w workspace.Manager) *Builder { b.workspace = w; return b }

// WithMetrics overrides the default NoopMetrics.
func (b *Builder) WithMetrics(m Metrics) *Builder { b.metrics = m; return b }

// WithCancelSource attaches a caller-owned CancelSource so the caller
// can cancel an in-flight run from another goroutine.
func (b *Builder) WithCancelSource(cs *CancelSource) *Builder { b.cancel = cs; return b }

// WithRouter overrides the default router.FromEnv() BanditRouter.
func (b *Builder) WithRouter(r *router.BanditRouter) *Builder { b.router = r; return b }

// WithSessionID overrides the random session correlation id every
// published Event is stamped with.
func (b *Builder) WithSessionID(id string) *Builder { b.sessionID = id; return b }

// Build returns an Orchestrator wired with planner and workers and
// every collaborator set on the Builder, defaulting the rest.
func (b *Builder) Build(planner Planner, workers []TaskWorker) *Orchestrator {
	maxConcurrency := b.cfg.MaxConcurrency
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	sessionID := b.sessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	o := &Orchestrator{
		planner:        planner,
		workers:        workers,
		maxConcurrency: maxConcurrency,
		cfg:            b.cfg,
		sessionID:      sessionID,
	}

	if b.memory != nil {
		o.memory = b.memory
	} else {
		o.memory = memory.NewInMemoryService()
	}

	if b.events != nil {
		o.events = b.events
	} else {
		o.events = eventlog.NewInProcEventBus()
	}

	if b.policy != nil {
		o.policy = b.policy
	} else {
		o.policy = policy.NoopExecutionPolicy{}
	}

	if b.scheduler != nil {
		o.scheduler = b.scheduler
	} else {
		o.scheduler = BoundedScheduler{}
	}

	if b.optimizer != nil {
		o.optimizer = b.optimizer
	} else if b.cfg.QCEndpoint != "" {
		o.optimizer = optimizer.NewHTTPOptimizer(b.cfg.QCEndpoint)
	} else {
		o.optimizer = optimizer.ClassicalOptimizer{}
	}

	if b.workspace != nil {
		o.workspace = b.workspace
	} else {
		o.workspace = workspace.NoopManager{}
	}

	if b.metrics != nil {
		o.metrics = b.metrics
	} else {
		o.metrics = NoopMetrics{}
	}

	if b.cancel != nil {
		o.cancel = b.cancel.Token()
	}

	if b.router != nil {
		o.router = b.router
	} else {
		o.router = router.FromEnv()
	}

	return o
}
