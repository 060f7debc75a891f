package generate

import "cadence/internal/types"

// replyDelays precomputes the delay-from-parent, in minutes, for n replies
// plus an optional author follow-up. The first reply waits the full
// post-delay window; later replies use the tighter spacing window.
func replyDelays(rng types.Rand, n int, followUp bool, cs types.ConstraintSet) []int {
	total := n
	if followUp {
		total++
	}
	delays := make([]int, total)
	for i := range delays {
		if i == 0 {
			delays[i] = randBetween(rng, cs.MinReplyDelayMin, cs.MaxReplyDelayMin)
		} else {
			delays[i] = randBetween(rng, cs.ReplySpacingMinMin, cs.ReplySpacingMaxMin)
		}
	}
	return delays
}

// randBetween returns lo + random(0, hi-lo). Degenerate windows collapse
// to lo.
func randBetween(rng types.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo)
}
