// Package models holds the data types shared across the orchestrator core:
// Task and Playbook, the unit of dispatchable work and the ordered list a
// Planner produces from a prompt.
package models

import "encoding/json"

// Task is a unit of dispatchable work. Payload is an opaque JSON object;
// the orchestrator core recognises a handful of keys (priority,
// needs_write_lock, depends_on, worker) and passes the rest through
// untouched to whichever TaskWorker ends up running it.
type Task struct {
	ID          string         `json:"id" yaml:"id"`
	Description string         `json:"description" yaml:"description"`
	Payload     map[string]any `json:"payload" yaml:"payload"`
}

// Playbook is a named, ordered list of Tasks produced by a Planner.
type Playbook struct {
	Name  string `json:"name" yaml:"name"`
	Tasks []Task `json:"tasks" yaml:"tasks"`
}

// Priority returns payload["priority"] as an int, defaulting to 0.
// Higher values execute earlier.
func (t Task) Priority() int {
	return intField(t.Payload, "priority", 0)
}

// NeedsWriteLock returns payload["needs_write_lock"], defaulting to false.
func (t Task) NeedsWriteLock() bool {
	return boolField(t.Payload, "needs_write_lock", false)
}

// DependsOn returns payload["depends_on"] as a string slice.
func (t Task) DependsOn() []string {
	return stringSliceField(t.Payload, "depends_on")
}

// Worker returns the explicit routing name from payload["worker"], or "".
func (t Task) Worker() string {
	s, _ := t.Payload["worker"].(string)
	return s
}

func intField(m map[string]any, key string, def int) int {
	v, ok := m[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return def
		}
		return int(i)
	default:
		return def
	}
}

func boolField(m map[string]any, key string, def bool) bool {
	v, ok := m[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

func stringSliceField(m map[string]any, key string) []string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
