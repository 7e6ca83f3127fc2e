package orchestrator

import (
	"sort"
	"sync"

	"github.com/harrison/orchestrator/internal/models"
)

// TaskRunner is what a Scheduler drives each task through.
type TaskRunner interface {
	RunOne(task models.Task) error
}

// Scheduler drives an already precedence-ordered task list through a
// TaskRunner.
type Scheduler interface {
	Run(tasks []models.Task, maxConcurrency int, runner TaskRunner) error
}

// InProcessScheduler runs tasks one at a time, in order. maxConcurrency
// is accepted but unused: the Scheduler interface admits the argument
// without requiring every implementation to act on it.
type InProcessScheduler struct{}

// Run executes every task in order, stopping at the first error.
func (InProcessScheduler) Run(tasks []models.Task, _ int, runner TaskRunner) error {
	for _, t := range tasks {
		if err := runner.RunOne(t); err != nil {
			return err
		}
	}
	return nil
}

// BoundedScheduler groups tasks into dependency waves (every task in a
// wave has had all of its DependsOn edges already satisfied) and runs
// each wave with up to maxConcurrency tasks in flight, gated so a
// needs_write_lock task runs alone: it waits for every other in-flight
// task in its wave to finish and blocks later tasks in the same wave
// from starting until it completes. Waves themselves always run in
// order, so precedence can never be violated by concurrency.
type BoundedScheduler struct{}

// Run executes tasks wave by wave. Every task error observed in a wave
// is collected into one *ExecutionError, returned once all of that
// wave's tasks finish; later waves do not start.
func (BoundedScheduler) Run(tasks []models.Task, maxConcurrency int, runner TaskRunner) error {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	for _, wave := range computeWaves(tasks) {
		if err := runWave(wave, maxConcurrency, runner); err != nil {
			return err
		}
	}
	return nil
}

func runWave(wave []models.Task, maxConcurrency int, runner TaskRunner) error {
	sem := make(chan struct{}, maxConcurrency)
	var writeGate sync.RWMutex
	var wg sync.WaitGroup
	exec := &ExecutionError{TotalTasks: len(wave)}
	var mu sync.Mutex

	for _, t := range wave {
		t := t
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if t.NeedsWriteLock() {
				writeGate.Lock()
				defer writeGate.Unlock()
			} else {
				writeGate.RLock()
				defer writeGate.RUnlock()
			}

			if err := runner.RunOne(t); err != nil {
				mu.Lock()
				exec.AddTask(t.ID, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(exec.TaskErrors) > 0 {
		return exec
	}
	return nil
}

// computeWaves groups tasks into dependency waves via Kahn's algorithm
// over each task's DependsOn edges, preserving tasks' relative input
// order (the already-reconciled executed order) within each wave; a
// task lands in the earliest wave its dependencies allow, so it can run
// ahead of a task that preceded it in the input. Any residual tasks
// left by a dependency cycle form a final
// wave in their original order, matching TopoOrderWithHint's cycle
// residue handling.
func computeWaves(tasks []models.Task) [][]models.Task {
	if len(tasks) == 0 {
		return nil
	}

	byID := make(map[string]models.Task, len(tasks))
	order := make(map[string]int, len(tasks))
	indeg := make(map[string]int, len(tasks))
	edges := make(map[string][]string, len(tasks))
	for i, t := range tasks {
		byID[t.ID] = t
		order[t.ID] = i
		if _, ok := indeg[t.ID]; !ok {
			indeg[t.ID] = 0
		}
	}
	for _, t := range tasks {
		for _, dep := range t.DependsOn() {
			if _, ok := byID[dep]; !ok {
				continue
			}
			edges[dep] = append(edges[dep], t.ID)
			indeg[t.ID]++
		}
	}

	var waves [][]models.Task
	for len(indeg) > 0 {
		var ids []string
		for id, d := range indeg {
			if d == 0 {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			var residue []string
			for id := range indeg {
				residue = append(residue, id)
			}
			sort.Slice(residue, func(i, j int) bool { return order[residue[i]] < order[residue[j]] })
			wave := make([]models.Task, 0, len(residue))
			for _, id := range residue {
				wave = append(wave, byID[id])
			}
			waves = append(waves, wave)
			break
		}

		sort.Slice(ids, func(i, j int) bool { return order[ids[i]] < order[ids[j]] })
		wave := make([]models.Task, 0, len(ids))
		for _, id := range ids {
			wave = append(wave, byID[id])
			delete(indeg, id)
		}
		for _, id := range ids {
			for _, child := range edges[id] {
				if _, ok := indeg[child]; ok {
					indeg[child]--
				}
			}
		}
		waves = append(waves, wave)
	}
	return waves
}
