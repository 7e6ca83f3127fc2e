// Package workspace mirrors shared memory to on-disk artifacts a human
// or an external tool can read: a JSON snapshot, a TODO.md checklist,
// and an AGENTS.md guidance file.
package workspace

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/harrison/orchestrator/internal/filelock"
	"github.com/harrison/orchestrator/internal/memory"
)

// Manager is the contract for syncing shared memory to the workspace.
// Every write is best-effort: persistence errors are swallowed by the
// caller, never propagated, so callers are expected to log a returned
// error and continue rather than abort a playbook over it.
type Manager interface {
	PersistMemory(snapshot memory.MemorySnapshot) error
	WriteTodoMD(snapshot memory.MemorySnapshot) error
	WriteAgentsMD(snapshot memory.MemorySnapshot) error
	LoadMemory() (memory.MemorySnapshot, bool)
}

// NoopManager discards every write and never has a snapshot to load;
// it is the orchestrator's default when no workspace root is
// configured.
type NoopManager struct{}

func (NoopManager) PersistMemory(memory.MemorySnapshot) error { return nil }
func (NoopManager) WriteTodoMD(memory.MemorySnapshot) error   { return nil }
func (NoopManager) WriteAgentsMD(memory.MemorySnapshot) error { return nil }
func (NoopManager) LoadMemory() (memory.MemorySnapshot, bool) {
	return memory.MemorySnapshot{}, false
}

// Persistence writes shared-memory snapshots under Root/.orch and
// guidance files under Root, using flock-guarded atomic writes so
// concurrent orchestrator processes sharing a workspace never observe
// a torn file. Root is resolved once at construction time; nothing here
// reads or mutates process environment variables.
type Persistence struct {
	Root string
}

// NewPersistence returns a Manager rooted at root.
func NewPersistence(root string) *Persistence {
	return &Persistence{Root: root}
}

func (p *Persistence) orchDir() string {
	return filepath.Join(p.Root, ".orch")
}

// writeArtifact locks and atomically writes one workspace artifact
// (the memory snapshot, TODO.md, AGENTS.md) relative to Root.
func (p *Persistence) writeArtifact(relPath string, data []byte) error {
	return filelock.LockAndWrite(filepath.Join(p.Root, relPath), data)
}

// PersistMemory writes the snapshot as pretty JSON to .orch/memory.json.
func (p *Persistence) PersistMemory(snapshot memory.MemorySnapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode memory snapshot: %w", err)
	}
	return p.writeArtifact(filepath.Join(".orch", "memory.json"), data)
}

// LoadMemory reads .orch/memory.json, if present, as a starting
// snapshot for a new orchestrator run.
func (p *Persistence) LoadMemory() (memory.MemorySnapshot, bool) {
	data, err := os.ReadFile(filepath.Join(p.orchDir(), "memory.json"))
	if err != nil {
		return memory.MemorySnapshot{}, false
	}
	var snap memory.MemorySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return memory.MemorySnapshot{}, false
	}
	return snap, true
}

// WriteTodoMD renders the snapshot's todo list as a Markdown checklist
// to TODO.md.
func (p *Persistence) WriteTodoMD(snapshot memory.MemorySnapshot) error {
	var sb strings.Builder
	sb.WriteString("# TODO\n\n")
	for _, t := range snapshot.Todo {
		mark := " "
		if t.Status == "done" || t.Status == "complete" {
			mark = "x"
		}
		fmt.Fprintf(&sb, "- [%s] %s", mark, t.Title)
		if t.Assignee != "" {
			fmt.Fprintf(&sb, " (%s)", t.Assignee)
		}
		if t.Priority != "" {
			fmt.Fprintf(&sb, " [prio:%s]", t.Priority)
		}
		sb.WriteString("\n")
		for _, n := range t.Notes {
			fmt.Fprintf(&sb, "  - %s\n", n)
		}
	}
	sb.WriteString("\nGuidance: update this list as tasks complete.\n")
	return p.writeArtifact("TODO.md", []byte(sb.String()))
}

// WriteAgentsMD renders guidance derived from the snapshot's state
// (goal, pattern, roles, when present) to AGENTS.md. The rendered body
// is rendered with goldmark before writing; a document that fails to
// render is not written, and the error is returned to the caller.
func (p *Persistence) WriteAgentsMD(snapshot memory.MemorySnapshot) error {
	var sb strings.Builder
	sb.WriteString("# Orchestrator Guidance\n\n")
	if goal, ok := snapshot.State["goal"].(string); ok && goal != "" {
		fmt.Fprintf(&sb, "- Goal: %s\n", goal)
	}
	if pattern, ok := snapshot.State["pattern"].(string); ok && pattern != "" {
		fmt.Fprintf(&sb, "- Pattern: %s\n", pattern)
	}
	if roles, ok := snapshot.State["roles"].([]any); ok && len(roles) > 0 {
		sb.WriteString("- Roles:\n")
		for _, r := range roles {
			role, _ := r.(map[string]any)
			name, _ := role["name"].(string)
			title, _ := role["title"].(string)
			purpose, _ := role["purpose"].(string)
			fmt.Fprintf(&sb, "  - %s %s - %s\n", name, title, purpose)
		}
	}
	sb.WriteString("\nGuidelines\n- Prefer small, safe diffs.\n- Verify build/test before marking TODOs done.\n")

	body := sb.String()
	if err := goldmark.Convert([]byte(body), io.Discard); err != nil {
		return fmt.Errorf("render agents guidance: %w", err)
	}
	return p.writeArtifact("AGENTS.md", []byte(body))
}

var (
	_ Manager = (*Persistence)(nil)
	_ Manager = NoopManager{}
)
