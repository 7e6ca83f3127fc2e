package orchestrator

import (
	"os"
	"runtime"
	"strconv"
)

// ComputeConcurrency derives a safe concurrency target from a
// configured cap, CPU availability, and workload size: it never
// exceeds the number of tasks, never exceeds the environment override
// ORCH_MAX_CONCURRENCY when set, and leaves one CPU free when the host
// has more than one.
func ComputeConcurrency(cap, totalTasks int) int {
	hardCap := cap
	if hardCap < 1 {
		hardCap = 1
	}
	if raw, ok := os.LookupEnv("ORCH_MAX_CONCURRENCY"); ok {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v < hardCap {
			hardCap = v
		}
	}

	cpuLimit := runtime.NumCPU() - 1
	if cpuLimit < 1 {
		cpuLimit = 1
	}

	limit := hardCap
	if cpuLimit < limit {
		limit = cpuLimit
	}
	taskLimit := totalTasks
	if taskLimit < 1 {
		taskLimit = 1
	}
	if taskLimit < limit {
		limit = taskLimit
	}
	return limit
}
