package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harrison/orchestrator/internal/models"
)

func taskWithDeps(id string, deps ...string) models.Task {
	var depsAny []any
	for _, d := range deps {
		depsAny = append(depsAny, d)
	}
	return models.Task{ID: id, Payload: map[string]any{"depends_on": depsAny}}
}

func TestTopoOrderWithHint_PrecedenceWinsOverOptimiserOrder(t *testing.T) {
	// B depends on A; the hint (input order) puts B before A, but
	// precedence must still put A first.
	tasks := []models.Task{
		taskWithDeps("B", "A"),
		taskWithDeps("A"),
	}

	ordered, hadCycle := TopoOrderWithHint(tasks)
	require.False(t, hadCycle)
	require.Equal(t, []string{"A", "B"}, ids(ordered))
}

func TestTopoOrderWithHint_TieBrokenByHintIndexThenLexical(t *testing.T) {
	tasks := []models.Task{
		taskWithDeps("c"),
		taskWithDeps("a"),
		taskWithDeps("b"),
	}
	ordered, hadCycle := TopoOrderWithHint(tasks)
	require.False(t, hadCycle)
	require.Equal(t, []string{"c", "a", "b"}, ids(ordered))
}

func TestTopoOrderWithHint_CycleResidueAppendedInInputOrder(t *testing.T) {
	tasks := []models.Task{
		taskWithDeps("x", "y"),
		taskWithDeps("y", "x"),
		taskWithDeps("ready"),
	}
	ordered, hadCycle := TopoOrderWithHint(tasks)
	require.True(t, hadCycle)
	require.Equal(t, []string{"ready", "x", "y"}, ids(ordered))
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
