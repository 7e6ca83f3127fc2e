// Package ab implements the A/B comparator that pits a candidate
// optimiser (typically a remote quantum/sidecar optimiser) against the
// always-available ClassicalOptimizer baseline and picks the cheaper
// schedule.
package ab

import (
	"github.com/harrison/orchestrator/internal/optimizer"
)

// Result is the outcome of comparing two optimisers on one instance.
type Result struct {
	ClassicalCost int64
	CandidateCost int64
	Winner        string // "qc" | "classical" | "tie"
	CandidateDelta optimizer.ScheduleDelta
}

// Compare runs both optimisers against inst and reports which schedule
// costs less under costOrder; the Result always carries the candidate's
// delta, whichever side wins. If either optimiser errors, its
// output falls back to the identity order (classical's fallback) or,
// for the candidate, to the classical result.
func Compare(classical, candidate optimizer.Optimizer, inst optimizer.QuboInstance) Result {
	base, err := classical.Optimize(inst)
	if err != nil {
		ids := make([]string, 0, len(inst.Tasks))
		for _, t := range inst.Tasks {
			ids = append(ids, t.ID)
		}
		base = optimizer.ScheduleDelta{Order: ids, Confidence: 0.0}
	}

	cand, err := candidate.Optimize(inst)
	if err != nil {
		cand = base
	}

	classicalCost := costOrder(inst, base.Order)
	candidateCost := costOrder(inst, cand.Order)

	var winner string
	switch {
	case candidateCost < classicalCost:
		winner = "qc"
	case classicalCost < candidateCost:
		winner = "classical"
	default:
		winner = "tie"
	}

	return Result{
		ClassicalCost:  classicalCost,
		CandidateCost:  candidateCost,
		Winner:         winner,
		CandidateDelta: cand,
	}
}

// costOrder scores an order: position-weighted lateness proxy, minus a
// priority reward (priority times weight per task, independent of
// position, so equal for every ordering of the same tasks), plus a
// penalty for any capacity-sized bucket that exceeds its write cap.
func costOrder(inst optimizer.QuboInstance, order []string) int64 {
	prio := make(map[string]int, len(inst.Tasks))
	write := make(map[string]bool, len(inst.Tasks))
	for _, t := range inst.Tasks {
		prio[t.ID] = t.Priority
		write[t.ID] = t.Write
	}

	var cost int64
	for pos, id := range order {
		cost += int64(pos) * int64(inst.Weights.Lateness)
		cost -= int64(prio[id]) * int64(inst.Weights.Priority)
	}

	cap := int(inst.Horizon.Capacity)
	if cap < 1 {
		cap = 1
	}
	writeCap := int(inst.Horizon.WriteCap)
	for start := 0; start < len(order); start += cap {
		end := start + cap
		if end > len(order) {
			end = len(order)
		}
		writes := 0
		for _, id := range order[start:end] {
			if write[id] {
				writes++
			}
		}
		if writes > writeCap {
			cost += int64(float64(writes-writeCap) * 10.0)
		}
	}
	return cost
}
