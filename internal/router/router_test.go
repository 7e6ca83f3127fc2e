package router

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harrison/orchestrator/internal/models"
)

type fakeWorker struct {
	name    string
	handles bool
}

func (w fakeWorker) Name() string                     { return w.name }
func (w fakeWorker) CanHandle(models.Task) bool        { return w.handles }

func TestChoose_ExplicitRoutingWins(t *testing.T) {
	r := NewBanditRouter(0)
	workers := []Worker{fakeWorker{name: "a"}, fakeWorker{name: "b", handles: true}}
	task := models.Task{Payload: map[string]any{"worker": "a"}}

	decision := r.Choose(task, workers)
	require.Equal(t, 0, decision.Index)
	require.Equal(t, "explicit", decision.Reason)
}

func TestChoose_CapabilityRoutingWhenNoExplicitMatch(t *testing.T) {
	r := NewBanditRouter(0)
	workers := []Worker{fakeWorker{name: "a"}, fakeWorker{name: "b", handles: true}}
	task := models.Task{}

	decision := r.Choose(task, workers)
	require.Equal(t, 1, decision.Index)
	require.Equal(t, "capability", decision.Reason)
}

func TestChoose_ExploitPicksHighestObservedSuccessRate(t *testing.T) {
	r := NewBanditRouter(0) // eps=0 disables exploration entirely
	workers := []Worker{fakeWorker{name: "a"}, fakeWorker{name: "b"}}
	task := models.Task{}

	r.Observe(0, false)
	r.Observe(0, false)
	r.Observe(1, true)

	decision := r.Choose(task, workers)
	require.Equal(t, 1, decision.Index)
	require.Equal(t, "exploit", decision.Reason)
}

func TestChoose_AlwaysExploresWhenEpsilonIsOne(t *testing.T) {
	r := NewBanditRouter(1)
	workers := []Worker{fakeWorker{name: "a"}, fakeWorker{name: "b"}}
	task := models.Task{}

	decision := r.Choose(task, workers)
	require.Equal(t, "explore", decision.Reason)
	require.True(t, decision.Index == 0 || decision.Index == 1)
}

func TestObserve_TracksTriesAndSuccesses(t *testing.T) {
	r := NewBanditRouter(0)
	r.Observe(0, true)
	r.Observe(0, false)
	st := r.stats[0]
	require.EqualValues(t, 2, st.tries)
	require.EqualValues(t, 1, st.success)
}
