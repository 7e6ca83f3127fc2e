package orchestrator

import "github.com/harrison/orchestrator/internal/models"

// TaskWorker is the contract a concrete worker satisfies: name it for
// explicit routing, report whether it can handle a task, and run one.
// Workers are heterogeneous and discovered dynamically, so the core
// holds them as a plain slice of this interface rather than any
// inheritance hierarchy. Concrete workers (environment detection, patch
// application, review) are collaborators outside the core (examples live
// in internal/workers); only the interface the core consumes lives here.
type TaskWorker interface {
	Name() string
	CanHandle(task models.Task) bool
	Run(task models.Task) (map[string]any, error)
}

// Planner turns a natural-language prompt into a Playbook. Planner
// failures abort OrchestratePrompt.
type Planner interface {
	PlanFromPrompt(prompt string) (models.Playbook, error)
}
