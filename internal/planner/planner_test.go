package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harrison/orchestrator/internal/models"
)

func TestSimplePlanner_ProducesFixedTwoTaskPlan(t *testing.T) {
	p := SimplePlanner{}
	playbook, err := p.PlanFromPrompt("build the thing")
	require.NoError(t, err)
	require.Len(t, playbook.Tasks, 2)
	require.Equal(t, "env", playbook.Tasks[0].Worker())
	require.False(t, playbook.Tasks[0].NeedsWriteLock())
	require.Equal(t, "ocodex", playbook.Tasks[1].Worker())
	require.True(t, playbook.Tasks[1].NeedsWriteLock())
	require.Equal(t, "build the thing", playbook.Tasks[1].Payload["prompt"])
}

type erroringPlanner struct{}

func (erroringPlanner) PlanFromPrompt(string) (models.Playbook, error) {
	return models.Playbook{}, errors.New("llm unavailable")
}

type fixedPlanner struct{ playbook models.Playbook }

func (p fixedPlanner) PlanFromPrompt(string) (models.Playbook, error) {
	return p.playbook, nil
}

func TestAutoPlanner_FallsBackToSimpleOnLLMError(t *testing.T) {
	ap := NewAutoPlanner(erroringPlanner{})
	playbook, err := ap.PlanFromPrompt("prompt")
	require.NoError(t, err)
	require.Equal(t, "simple-plan", playbook.Name)
}

func TestAutoPlanner_UsesLLMWhenItSucceeds(t *testing.T) {
	want := models.Playbook{Name: "from-llm"}
	ap := NewAutoPlanner(fixedPlanner{playbook: want})
	playbook, err := ap.PlanFromPrompt("prompt")
	require.NoError(t, err)
	require.Equal(t, "from-llm", playbook.Name)
}

func TestAutoPlanner_NilLLMFallsBackToSimple(t *testing.T) {
	ap := NewAutoPlanner(nil)
	playbook, err := ap.PlanFromPrompt("prompt")
	require.NoError(t, err)
	require.Equal(t, "simple-plan", playbook.Name)
}
