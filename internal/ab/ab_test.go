package ab

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harrison/orchestrator/internal/optimizer"
)

type fixedOptimizer struct {
	delta optimizer.ScheduleDelta
	err   error
}

func (f fixedOptimizer) Optimize(optimizer.QuboInstance) (optimizer.ScheduleDelta, error) {
	return f.delta, f.err
}

func TestCompare_CandidateSpreadingWritesAcrossBuckets_Wins(t *testing.T) {
	inst := optimizer.QuboInstance{
		Tasks: []optimizer.QuboTask{
			{ID: "a", Priority: 1},
			{ID: "b", Priority: 10, Write: true},
			{ID: "c", Priority: 5, Write: true},
		},
		Horizon: optimizer.QuboHorizon{Buckets: 2, Capacity: 2, WriteCap: 1},
		Weights: optimizer.QuboWeights{Lateness: 1.0, Priority: 1.0},
	}

	// classical orders b,c,a, putting both writes in the first bucket;
	// the candidate keeps one write per bucket and avoids the penalty.
	classical := optimizer.ClassicalOptimizer{}
	candidate := fixedOptimizer{delta: optimizer.ScheduleDelta{
		Order: []string{"b", "a", "c"}, Confidence: 0.9,
	}}

	result := Compare(classical, candidate, inst)
	require.Equal(t, "qc", result.Winner)
	require.Less(t, result.CandidateCost, result.ClassicalCost)
}

func TestCompare_IdenticalOrdersTie(t *testing.T) {
	inst := optimizer.QuboInstance{
		Tasks: []optimizer.QuboTask{
			{ID: "a", Priority: 1},
			{ID: "b", Priority: 1},
		},
	}
	classical := optimizer.ClassicalOptimizer{}
	candidate := fixedOptimizer{delta: optimizer.ScheduleDelta{Order: []string{"a", "b"}}}

	result := Compare(classical, candidate, inst)
	require.Equal(t, "tie", result.Winner)
	require.Equal(t, result.ClassicalCost, result.CandidateCost)
}

func TestCompare_CandidateErrorFallsBackToClassical(t *testing.T) {
	inst := optimizer.QuboInstance{
		Tasks: []optimizer.QuboTask{{ID: "a", Priority: 1}, {ID: "b", Priority: 1}},
	}
	classical := optimizer.ClassicalOptimizer{}
	candidate := fixedOptimizer{err: assertErr{}}

	result := Compare(classical, candidate, inst)
	require.Equal(t, "tie", result.Winner)
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
