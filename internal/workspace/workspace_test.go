package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harrison/orchestrator/internal/memory"
)

func TestPersistence_PersistAndLoadMemoryRoundTrip(t *testing.T) {
	root := t.TempDir()
	p := NewPersistence(root)

	snap := memory.MemorySnapshot{
		State: map[string]any{"goal": "ship it"},
		Todo:  []memory.TodoItem{{Title: "write tests", Status: "open"}},
	}

	require.NoError(t, p.PersistMemory(snap))

	loaded, ok := p.LoadMemory()
	require.True(t, ok)
	require.Equal(t, "ship it", loaded.State["goal"])
	require.Len(t, loaded.Todo, 1)
	require.Equal(t, "write tests", loaded.Todo[0].Title)
}

func TestPersistence_LoadMemoryMissingFileReturnsFalse(t *testing.T) {
	p := NewPersistence(t.TempDir())
	_, ok := p.LoadMemory()
	require.False(t, ok)
}

func TestPersistence_WriteTodoMDRendersChecklist(t *testing.T) {
	root := t.TempDir()
	p := NewPersistence(root)

	snap := memory.MemorySnapshot{
		Todo: []memory.TodoItem{
			{Title: "open task", Status: "open"},
			{Title: "done task", Status: "done", Assignee: "alice", Priority: "high"},
		},
	}
	require.NoError(t, p.WriteTodoMD(snap))

	data, err := os.ReadFile(filepath.Join(root, "TODO.md"))
	require.NoError(t, err)
	body := string(data)
	require.Contains(t, body, "- [ ] open task")
	require.Contains(t, body, "- [x] done task (alice) [prio:high]")
}

func TestPersistence_WriteAgentsMDRendersGoalAndPattern(t *testing.T) {
	root := t.TempDir()
	p := NewPersistence(root)

	snap := memory.MemorySnapshot{
		State: map[string]any{"goal": "ship it", "pattern": "plan-then-act"},
	}
	require.NoError(t, p.WriteAgentsMD(snap))

	data, err := os.ReadFile(filepath.Join(root, "AGENTS.md"))
	require.NoError(t, err)
	body := string(data)
	require.Contains(t, body, "Goal: ship it")
	require.Contains(t, body, "Pattern: plan-then-act")
}

func TestNoopManager_NeverWritesAndNeverHasASnapshot(t *testing.T) {
	var m NoopManager
	require.NoError(t, m.PersistMemory(memory.MemorySnapshot{}))
	require.NoError(t, m.WriteTodoMD(memory.MemorySnapshot{}))
	require.NoError(t, m.WriteAgentsMD(memory.MemorySnapshot{}))
	_, ok := m.LoadMemory()
	require.False(t, ok)
}
