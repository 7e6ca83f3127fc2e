// Package memory implements the orchestrator's versioned shared memory: a
// snapshot of arbitrary JSON state plus an ordered TODO list, updated by
// deep-merging per-task deltas.
package memory

import (
	"sync"
)

// TodoItem is one entry in a MemorySnapshot's todo list.
type TodoItem struct {
	Title    string   `json:"title" yaml:"title"`
	Status   string   `json:"status" yaml:"status"` // open|in_progress|done
	Assignee string   `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Priority string   `json:"priority,omitempty" yaml:"priority,omitempty"`
	Notes    []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// MemorySnapshot is the durable (state, todo) pair visible to later tasks
// and external observers.
type MemorySnapshot struct {
	State map[string]any `json:"state"`
	Todo  []TodoItem     `json:"todo"`
}

// Clone returns a deep-enough copy of the snapshot so callers cannot
// mutate Service-owned state through the returned value.
func (s MemorySnapshot) Clone() MemorySnapshot {
	out := MemorySnapshot{
		State: deepCopyMap(s.State),
		Todo:  make([]TodoItem, len(s.Todo)),
	}
	copy(out.Todo, s.Todo)
	return out
}

// MemoryDelta is what a completed task contributes to shared memory:
// a JSON state patch, new todo items, and status updates for existing
// todo items addressed by title.
type MemoryDelta struct {
	StatePatch map[string]any
	TodoAdd    []TodoItem
	TodoUpdate []TodoStatusUpdate
}

// TodoStatusUpdate updates the status of the todo item matching Title.
type TodoStatusUpdate struct {
	Title     string
	NewStatus string
}

// Service is the contract every shared-memory implementation satisfies:
// load the current snapshot, overwrite it, or atomically merge a delta in
// and return the result. Implementations must serialise concurrent
// merges; the orchestrator core relies on Merge never interleaving two
// deltas.
type Service interface {
	Load() MemorySnapshot
	Save(snapshot MemorySnapshot)
	Merge(delta MemoryDelta) MemorySnapshot
}

// InMemoryService is the default Service: a mutex-guarded snapshot held
// entirely in process memory.
type InMemoryService struct {
	mu       sync.Mutex
	snapshot MemorySnapshot
}

// NewInMemoryService returns an empty in-memory Service.
func NewInMemoryService() *InMemoryService {
	return &InMemoryService{snapshot: MemorySnapshot{State: map[string]any{}}}
}

// Load returns the current snapshot.
func (s *InMemoryService) Load() MemorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Clone()
}

// Save overwrites the current snapshot.
func (s *InMemoryService) Save(snapshot MemorySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot.Clone()
}

// Merge deep-merges delta into the snapshot and returns the result.
func (s *InMemoryService) Merge(delta MemoryDelta) MemorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.State == nil {
		s.snapshot.State = map[string]any{}
	}
	if delta.StatePatch != nil {
		s.snapshot.State = DeepMerge(s.snapshot.State, delta.StatePatch)
	}
	s.snapshot.Todo = append(s.snapshot.Todo, delta.TodoAdd...)
	for _, upd := range delta.TodoUpdate {
		for i := range s.snapshot.Todo {
			if s.snapshot.Todo[i].Title == upd.Title {
				s.snapshot.Todo[i].Status = upd.NewStatus
			}
		}
	}
	return s.snapshot.Clone()
}

// DeepMerge recursively merges patch into base: object keys merge,
// arrays concatenate, scalars (and type mismatches) overwrite. base is
// not mutated; a new map is returned.
func DeepMerge(base, patch map[string]any) map[string]any {
	out := deepCopyMap(base)
	for k, pv := range patch {
		bv, exists := out[k]
		if !exists {
			out[k] = pv
			continue
		}
		out[k] = mergeValue(bv, pv)
	}
	return out
}

func mergeValue(base, patch any) any {
	switch pv := patch.(type) {
	case map[string]any:
		if bv, ok := base.(map[string]any); ok {
			return DeepMerge(bv, pv)
		}
		return deepCopyMap(pv)
	case []any:
		if bv, ok := base.([]any); ok {
			out := make([]any, 0, len(bv)+len(pv))
			out = append(out, bv...)
			out = append(out, pv...)
			return out
		}
		return append([]any{}, pv...)
	default:
		return patch
	}
}

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch vv := v.(type) {
		case map[string]any:
			out[k] = deepCopyMap(vv)
		case []any:
			cp := make([]any, len(vv))
			copy(cp, vv)
			out[k] = cp
		default:
			out[k] = v
		}
	}
	return out
}
