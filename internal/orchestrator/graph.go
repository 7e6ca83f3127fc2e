package orchestrator

import (
	"sort"

	"github.com/harrison/orchestrator/internal/models"
)

// TopoOrderWithHint produces the executed order for tasks: a
// topological sort over each task's DependsOn edges, seeded by the
// tasks' existing order (the optimiser's suggestion), so that among
// dependency-ready tasks the earliest-suggested one goes first, ties
// broken lexically by id. Precedence always wins over the optimiser's
// preference: a task never runs before one of its dependencies, no
// matter what order the optimiser proposed. Any task that never
// becomes ready (a dependency cycle) is appended afterward in its
// original input order, the "cycle residue" the caller should warn
// about.
func TopoOrderWithHint(tasks []models.Task) ([]models.Task, bool) {
	index := make(map[string]int, len(tasks))
	byID := make(map[string]models.Task, len(tasks))
	for i, t := range tasks {
		index[t.ID] = i
		byID[t.ID] = t
	}

	indeg := make(map[string]int, len(tasks))
	edges := make(map[string][]string, len(tasks))
	for _, t := range tasks {
		if _, ok := indeg[t.ID]; !ok {
			indeg[t.ID] = 0
		}
		for _, dep := range t.DependsOn() {
			if _, exists := byID[dep]; !exists {
				continue
			}
			edges[dep] = append(edges[dep], t.ID)
			indeg[t.ID]++
		}
	}

	var ready []string
	for id, d := range indeg {
		if d == 0 {
			ready = append(ready, id)
		}
	}

	out := make([]models.Task, 0, len(tasks))
	done := make(map[string]struct{}, len(tasks))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool {
			ii, jj := index[ready[i]], index[ready[j]]
			if ii != jj {
				return ii < jj
			}
			return ready[i] < ready[j]
		})
		id := ready[0]
		ready = ready[1:]
		out = append(out, byID[id])
		done[id] = struct{}{}
		for _, child := range edges[id] {
			indeg[child]--
			if indeg[child] == 0 {
				ready = append(ready, child)
			}
		}
	}

	hadCycle := len(done) < len(tasks)
	if hadCycle {
		for _, t := range tasks {
			if _, ok := done[t.ID]; !ok {
				out = append(out, t)
			}
		}
	}
	return out, hadCycle
}
