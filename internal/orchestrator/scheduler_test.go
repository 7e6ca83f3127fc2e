package orchestrator

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/harrison/orchestrator/internal/models"
)

type recordingRunner struct {
	mu      sync.Mutex
	started []string
	fail    map[string]bool
}

func (r *recordingRunner) RunOne(task models.Task) error {
	time.Sleep(2 * time.Millisecond)
	r.mu.Lock()
	r.started = append(r.started, task.ID)
	fail := r.fail[task.ID]
	r.mu.Unlock()
	if fail {
		return fmt.Errorf("task %s failed", task.ID)
	}
	return nil
}

func TestBoundedScheduler_NeverRunsATaskBeforeItsDependency(t *testing.T) {
	tasks := []models.Task{
		taskWithDeps("A"),
		taskWithDeps("B", "A"),
		taskWithDeps("C", "B"),
	}

	runner := &recordingRunner{}
	err := BoundedScheduler{}.Run(tasks, 4, runner)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C"}, runner.started)
}

func TestBoundedScheduler_RunsIndependentTasksInTheSameWave(t *testing.T) {
	tasks := []models.Task{
		taskWithDeps("A"),
		taskWithDeps("B"),
	}
	waves := computeWaves(tasks)
	require.Len(t, waves, 1)
	require.Len(t, waves[0], 2)
}

func TestBoundedScheduler_WriteTaskNeverOverlapsAnyOtherTask(t *testing.T) {
	writeTask := models.Task{ID: "w", Payload: map[string]any{"needs_write_lock": true}}
	readA := models.Task{ID: "r1"}
	readB := models.Task{ID: "r2"}

	type interval struct{ start, end time.Time }
	var mu sync.Mutex
	intervals := map[string]interval{}
	runner := runnerFunc(func(task models.Task) error {
		start := time.Now()
		time.Sleep(5 * time.Millisecond)
		end := time.Now()
		mu.Lock()
		intervals[task.ID] = interval{start, end}
		mu.Unlock()
		return nil
	})

	err := BoundedScheduler{}.Run([]models.Task{writeTask, readA, readB}, 4, runner)
	require.NoError(t, err)
	require.Len(t, intervals, 3)

	w := intervals["w"]
	for _, id := range []string{"r1", "r2"} {
		other := intervals[id]
		overlaps := w.start.Before(other.end) && other.start.Before(w.end)
		require.False(t, overlaps, "write task overlapped with %s", id)
	}
}

func TestBoundedScheduler_AggregatesTaskFailures(t *testing.T) {
	tasks := []models.Task{taskWithDeps("A"), taskWithDeps("B")}
	runner := &recordingRunner{fail: map[string]bool{"A": true, "B": true}}

	err := BoundedScheduler{}.Run(tasks, 2, runner)
	require.Error(t, err)
	require.True(t, IsExecutionError(err))
}

func TestInProcessScheduler_StopsAtFirstError(t *testing.T) {
	tasks := []models.Task{taskWithDeps("A"), taskWithDeps("B"), taskWithDeps("C")}
	runner := &recordingRunner{fail: map[string]bool{"A": true}}

	err := InProcessScheduler{}.Run(tasks, 1, runner)
	require.Error(t, err)
	require.Equal(t, []string{"A"}, runner.started)
}

type runnerFunc func(models.Task) error

func (f runnerFunc) RunOne(task models.Task) error { return f(task) }
