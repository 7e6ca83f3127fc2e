// Package planner implements the orchestrator's default Planner
// strategies: SimplePlanner, a fixed two-task heuristic plan, and
// AutoPlanner, which defers to an optional LLM-backed Planner first and
// falls back to SimplePlanner on any failure or absence. The concrete
// LLM HTTP/CLI client is an external collaborator outside this
// package's scope, so AutoPlanner composes against the
// orchestrator.Planner interface rather than shipping one.
package planner

import (
	"github.com/harrison/orchestrator/internal/models"
	"github.com/harrison/orchestrator/internal/orchestrator"
)

// SimplePlanner produces a fixed, convention-driven plan for any
// prompt: detect the environment, then delegate the whole prompt to a
// worker named "ocodex" under a write lock. It never fails.
type SimplePlanner struct{}

// PlanFromPrompt implements orchestrator.Planner.
func (SimplePlanner) PlanFromPrompt(prompt string) (models.Playbook, error) {
	tasks := []models.Task{
		{
			ID:          "1",
			Description: "detect environment",
			Payload: map[string]any{
				"worker":           "env",
				"action":           "detect",
				"needs_write_lock": false,
			},
		},
		{
			ID:          "2",
			Description: "execute prompt",
			Payload: map[string]any{
				"worker":           "ocodex",
				"prompt":           prompt,
				"needs_write_lock": true,
			},
		},
	}
	return models.Playbook{Name: "simple-plan", Tasks: tasks}, nil
}

var _ orchestrator.Planner = SimplePlanner{}

// AutoPlanner tries an optional LLM-backed Planner first (nil when no
// such collaborator is configured) and falls back to SimplePlanner
// whenever the LLM planner is absent or errors.
type AutoPlanner struct {
	LLM    orchestrator.Planner // optional; nil disables the LLM attempt
	Simple SimplePlanner
}

// NewAutoPlanner returns an AutoPlanner that tries llm (which may be
// nil) before falling back to SimplePlanner.
func NewAutoPlanner(llm orchestrator.Planner) *AutoPlanner {
	return &AutoPlanner{LLM: llm}
}

// PlanFromPrompt implements orchestrator.Planner.
func (a *AutoPlanner) PlanFromPrompt(prompt string) (models.Playbook, error) {
	if a.LLM != nil {
		if p, err := a.LLM.PlanFromPrompt(prompt); err == nil {
			return p, nil
		}
	}
	return a.Simple.PlanFromPrompt(prompt)
}

var _ orchestrator.Planner = (*AutoPlanner)(nil)
