package orchestrator

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeConcurrency_NeverExceedsTaskCount(t *testing.T) {
	os.Unsetenv("ORCH_MAX_CONCURRENCY")
	require.Equal(t, 1, ComputeConcurrency(8, 1))
}

func TestComputeConcurrency_RespectsEnvOverride(t *testing.T) {
	t.Setenv("ORCH_MAX_CONCURRENCY", "2")
	require.Equal(t, 2, ComputeConcurrency(8, 10))
}

func TestComputeConcurrency_NeverBelowOne(t *testing.T) {
	os.Unsetenv("ORCH_MAX_CONCURRENCY")
	require.Equal(t, 1, ComputeConcurrency(0, 0))
}
