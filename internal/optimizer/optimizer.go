// Package optimizer implements the orchestrator's schedule optimisers:
// the QuboInstance/ScheduleDelta exchange types, the in-process
// ClassicalOptimizer baseline, and the HTTPOptimizer sidecar client.
package optimizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// QuboTask describes one task as input to an Optimizer.
type QuboTask struct {
	ID          string   `json:"id"`
	Priority    int      `json:"priority"`
	Write       bool     `json:"write"`
	DependsOn   []string `json:"depends_on,omitempty"`
	Resources   []string `json:"resources,omitempty"`
	DeadlineMs  *uint64  `json:"deadline_ms,omitempty"`
	DurationMs  *uint64  `json:"duration_ms,omitempty"`
}

// QuboHorizon bounds the scheduling window an Optimizer reasons about.
type QuboHorizon struct {
	Buckets  uint32 `json:"buckets"`
	Capacity uint32 `json:"capacity"`
	WriteCap uint32 `json:"write_cap"`
}

// QuboWeights tunes an Optimizer's cost function.
type QuboWeights struct {
	Lateness    float64 `json:"lateness"`
	Priority    float64 `json:"priority"`
	Fairness    float64 `json:"fairness"`
	ReorderCost float64 `json:"reorder_cost"`
}

// QuboInstance is the full optimisation problem handed to an Optimizer.
type QuboInstance struct {
	Tasks     []QuboTask  `json:"tasks"`
	Horizon   QuboHorizon `json:"horizon"`
	Weights   QuboWeights `json:"weights"`
	Seed      *uint64     `json:"seed,omitempty"`
	MaxIter   *uint32     `json:"max_iter,omitempty"`
	TimeoutMs *uint64     `json:"timeout_ms,omitempty"`
}

// PriorityBump is an Optimizer's request to re-prioritise a task.
type PriorityBump struct {
	ID          string `json:"id"`
	NewPriority int    `json:"new_priority"`
}

// ScheduleDelta is an Optimizer's proposed reordering of a QuboInstance.
type ScheduleDelta struct {
	Order          []string       `json:"order"`
	PriorityBumps  []PriorityBump `json:"priority_bumps,omitempty"`
	Deferrals      []string       `json:"deferrals,omitempty"`
	Cancellations  []string       `json:"cancellations,omitempty"`
	Confidence     float64        `json:"confidence"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// Optimizer is the contract a quantum, classical, or remote scheduling
// optimiser satisfies.
type Optimizer interface {
	Optimize(inst QuboInstance) (ScheduleDelta, error)
}

// ClassicalOptimizer is the deterministic priority-greedy baseline the
// orchestrator always has available: a topological sort of the
// instance's dependency graph that, among ready tasks, prefers the
// highest priority, breaking ties lexically by id for determinism.
type ClassicalOptimizer struct{}

// Optimize runs the classical topological sort. It never fails: any
// cyclic remainder is appended to the order in id order as a fallback.
func (ClassicalOptimizer) Optimize(inst QuboInstance) (ScheduleDelta, error) {
	order := topoSortWithPriority(inst)
	return ScheduleDelta{Order: order, Confidence: 0.5}, nil
}

func topoSortWithPriority(inst QuboInstance) []string {
	deps := make(map[string]map[string]struct{}, len(inst.Tasks))
	prio := make(map[string]int, len(inst.Tasks))
	for _, t := range inst.Tasks {
		set := make(map[string]struct{}, len(t.DependsOn))
		for _, d := range t.DependsOn {
			set[d] = struct{}{}
		}
		deps[t.ID] = set
		prio[t.ID] = t.Priority
	}

	var ready []string
	for id, d := range deps {
		if len(d) == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]string, 0, len(deps))
	inOrder := make(map[string]struct{}, len(deps))
	remaining := make(map[string]struct{}, len(deps))
	for id := range deps {
		remaining[id] = struct{}{}
	}

	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool {
			pi, pj := prio[ready[i]], prio[ready[j]]
			if pi != pj {
				return pi > pj
			}
			return ready[i] < ready[j]
		})
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)
		inOrder[n] = struct{}{}
		delete(remaining, n)
		delete(deps, n)

		for id, d := range deps {
			delete(d, n)
			if len(d) == 0 {
				if _, already := inOrder[id]; already {
					continue
				}
				if containsString(ready, id) {
					continue
				}
				ready = append(ready, id)
			}
		}
	}

	// cycle fallback: append whatever never became ready, in id order
	// for determinism.
	if len(remaining) > 0 {
		leftover := make([]string, 0, len(remaining))
		for id := range remaining {
			leftover = append(leftover, id)
		}
		sort.Strings(leftover)
		order = append(order, leftover...)
	}
	return order
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// HTTPOptimizer delegates optimisation to a remote sidecar reachable at
// BaseURL, POSTing the instance to "{BaseURL}/optimize" and decoding a
// ScheduleDelta response at face value (no protocol version
// negotiation).
type HTTPOptimizer struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPOptimizer returns a sidecar client with a 30s default timeout.
func NewHTTPOptimizer(baseURL string) *HTTPOptimizer {
	return &HTTPOptimizer{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Optimize POSTs inst as JSON and decodes the sidecar's ScheduleDelta.
func (o *HTTPOptimizer) Optimize(inst QuboInstance) (ScheduleDelta, error) {
	body, err := json.Marshal(inst)
	if err != nil {
		return ScheduleDelta{}, fmt.Errorf("encode qubo instance: %w", err)
	}

	url := strings.TrimRight(o.BaseURL, "/") + "/optimize"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return ScheduleDelta{}, fmt.Errorf("build optimizer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return ScheduleDelta{}, fmt.Errorf("qc http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ScheduleDelta{}, fmt.Errorf("qc http error: status %d", resp.StatusCode)
	}

	var delta ScheduleDelta
	if err := json.NewDecoder(resp.Body).Decode(&delta); err != nil {
		return ScheduleDelta{}, fmt.Errorf("decode schedule delta: %w", err)
	}
	return delta, nil
}

var (
	_ Optimizer = ClassicalOptimizer{}
	_ Optimizer = (*HTTPOptimizer)(nil)
)
