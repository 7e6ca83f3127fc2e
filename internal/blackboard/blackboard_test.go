package blackboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInMemoryBlackboard_SetAndGet(t *testing.T) {
	b := NewInMemoryBlackboard()
	_, ok := b.Get("missing")
	require.False(t, ok)

	b.Set("count", 1)
	v, ok := b.Get("count")
	require.True(t, ok)
	require.Equal(t, 1, v)
}

func TestInMemoryBlackboard_MergeDeepMergesObjects(t *testing.T) {
	b := NewInMemoryBlackboard()
	b.Set("cfg", map[string]any{"a": 1, "b": 2})
	b.Merge("cfg", map[string]any{"b": 20, "c": 3})

	v, ok := b.Get("cfg")
	require.True(t, ok)
	require.Equal(t, map[string]any{"a": 1, "b": 20, "c": 3}, v)
}

func TestInMemoryBlackboard_MergeOnAbsentKeyActsAsSet(t *testing.T) {
	b := NewInMemoryBlackboard()
	b.Merge("fresh", map[string]any{"x": 1})

	v, ok := b.Get("fresh")
	require.True(t, ok)
	require.Equal(t, map[string]any{"x": 1}, v)
}

func TestInMemoryBlackboard_Snapshot(t *testing.T) {
	b := NewInMemoryBlackboard()
	b.Set("a", 1)
	b.Set("b", 2)

	snap := b.Snapshot()
	require.Equal(t, map[string]any{"a": 1, "b": 2}, snap)

	snap["a"] = 999
	v, _ := b.Get("a")
	require.Equal(t, 1, v)
}
