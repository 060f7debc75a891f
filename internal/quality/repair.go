package quality

import (
	"context"
	"fmt"

	"cadence/internal/logging"
	"cadence/internal/types"
)

// Regenerator rebuilds the content of a flagged thread with stricter
// preferences. Implemented by the content generator.
type Regenerator interface {
	Regenerate(ctx context.Context, t types.Thread) (types.Thread, error)
}

// RepairResult is the outcome of the auto-repair loop.
type RepairResult struct {
	Threads    []types.Thread
	Report     *types.QualityReport
	PassesUsed int
}

// Repair runs the bounded auto-repair loop: regenerate flagged threads,
// then re-run the full check battery over the entire batch (so issues
// introduced by regeneration are caught), stopping early once the batch
// is clean or the pass budget is exhausted. Running out of passes is not
// an error; the caller gets the best-achieved report. Passes are
// inherently sequential.
func (e *Engine) Repair(ctx context.Context, threads []types.Thread, history []types.WeekHistory, regen Regenerator, passes int) (RepairResult, error) {
	log := logging.Get(logging.CategoryQuality)

	report := e.Evaluate(threads, history)
	used := 0
	for used < passes && !report.Clean() {
		flagged := make(map[string]bool)
		for _, id := range report.FlaggedPostIDs() {
			flagged[id] = true
		}
		log.Info("repair pass %d: %d flagged threads", used+1, len(flagged))

		for i := range threads {
			if !flagged[threads[i].Post.ID] {
				continue
			}
			fresh, err := regen.Regenerate(ctx, threads[i])
			if err != nil {
				return RepairResult{}, fmt.Errorf("repair pass %d: %w", used+1, err)
			}
			threads[i] = fresh
		}
		used++
		report = e.Evaluate(threads, history)
	}

	if !report.Clean() {
		log.Warn("repair budget exhausted after %d passes, %d issues remain", used, len(report.Issues))
	}
	return RepairResult{Threads: threads, Report: report, PassesUsed: used}, nil
}
