// Package assign picks one author and an ordered set of reactor personas
// per matched slot, under posting caps and no-repeat-pairing rules.
package assign

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"cadence/internal/logging"
	"cadence/internal/types"
)

// Assigner tracks per-persona usage across one run.
type Assigner struct {
	rng types.Rand

	postCount    map[string]int
	commentCount map[string]int
	lastPost     map[string]time.Time
	pairings     map[string]int // pairing key -> times paired this run
}

// NewAssigner creates an assigner drawing jitter from rng.
func NewAssigner(rng types.Rand) *Assigner {
	return &Assigner{
		rng:          rng,
		postCount:    make(map[string]int),
		commentCount: make(map[string]int),
		lastPost:     make(map[string]time.Time),
		pairings:     make(map[string]int),
	}
}

// Result carries the assigned slots plus diagnostics: slots dropped for
// lack of an eligible author, and slots where the pairing constraint had
// to be relaxed to find a reactor.
type Result struct {
	Slots   []types.AssignedSlot
	Dropped []string
	Relaxed []string
}

// Assign processes matched slots in order. It fails fast when fewer than
// two personas are supplied; every other shortfall is non-fatal.
func (a *Assigner) Assign(slots []types.MatchedSlot, personas []types.Persona, cs types.ConstraintSet) (Result, error) {
	log := logging.Get(logging.CategoryAssigner)
	if len(personas) < 2 {
		return Result{}, fmt.Errorf("persona assignment requires at least 2 personas, got %d", len(personas))
	}

	var out Result
	for _, slot := range slots {
		author, ok := a.pickAuthor(slot, personas, cs)
		if !ok {
			msg := fmt.Sprintf("no eligible author for slot %s in %s, slot dropped", slot.At.Format("Mon 15:04"), slot.Community.Name)
			log.Warn("%s", msg)
			out.Dropped = append(out.Dropped, msg)
			continue
		}

		reactors, relaxed := a.pickReactors(author, personas, cs)
		if len(reactors) == 0 {
			msg := fmt.Sprintf("no eligible reactors for slot %s, slot dropped", slot.At.Format("Mon 15:04"))
			log.Warn("%s", msg)
			out.Dropped = append(out.Dropped, msg)
			continue
		}
		if relaxed {
			msg := fmt.Sprintf("pairing constraint relaxed for slot %s (author %s)", slot.At.Format("Mon 15:04"), author.Handle)
			log.Warn("%s", msg)
			out.Relaxed = append(out.Relaxed, msg)
		}

		a.record(author, reactors, slot.At)
		out.Slots = append(out.Slots, types.AssignedSlot{
			MatchedSlot: slot,
			Author:      author,
			Reactors:    reactors,
		})
	}

	log.Info("assigned %d/%d slots", len(out.Slots), len(slots))
	return out, nil
}

// styleFit maps author style x thread type to a fit score.
var styleFit = map[types.PostingStyle]map[types.ThreadType]float64{
	types.StyleAsksQuestions: {
		types.ThreadQuestion: 1.0, types.ThreadAdvice: 0.5,
		types.ThreadStory: 0.6, types.ThreadDiscussion: 0.8,
	},
	types.StyleGivesAnswers: {
		types.ThreadQuestion: 0.3, types.ThreadAdvice: 1.0,
		types.ThreadStory: 0.6, types.ThreadDiscussion: 0.8,
	},
	types.StyleBalanced: {
		types.ThreadQuestion: 0.8, types.ThreadAdvice: 0.8,
		types.ThreadStory: 0.8, types.ThreadDiscussion: 0.8,
	},
}

// pickAuthor filters personas by weekly cap, minimum spacing, and the
// style gate, then scores survivors by -2*postCount + styleFit + jitter.
func (a *Assigner) pickAuthor(slot types.MatchedSlot, personas []types.Persona, cs types.ConstraintSet) (types.Persona, bool) {
	best := types.Persona{}
	bestScore := 0.0
	found := false

	for _, p := range personas {
		if a.postCount[p.ID] >= cs.MaxPostsPerPersonaPerWeek {
			continue
		}
		if last, ok := a.lastPost[p.ID]; ok {
			if slot.At.Sub(last) < time.Duration(cs.MinHoursBetweenPersonaPosts)*time.Hour {
				continue
			}
		}
		// An answerer only rarely opens a question thread.
		if p.Style == types.StyleGivesAnswers && slot.ThreadType == types.ThreadQuestion {
			if a.rng.Float64() >= 0.3 {
				continue
			}
		}

		score := -2*float64(a.postCount[p.ID]) + styleFit[p.Style][slot.ThreadType] + a.rng.Float64()
		if !found || score > bestScore {
			best, bestScore, found = p, score, true
		}
	}
	return best, found
}

// pickReactors selects 1..min(MaxPersonasPerThread-1, len(personas)-1, 3)
// reactors for the author. When the pairing filter empties the candidate
// pool, only the pairing constraint is relaxed (comment caps still hold)
// and the relaxation is reported.
func (a *Assigner) pickReactors(author types.Persona, personas []types.Persona, cs types.ConstraintSet) ([]types.Persona, bool) {
	maxReactors := cs.MaxPersonasPerThread - 1
	if n := len(personas) - 1; n < maxReactors {
		maxReactors = n
	}
	if maxReactors > 3 {
		maxReactors = 3
	}
	if maxReactors < 1 {
		return nil, false
	}
	target := 1 + a.rng.Intn(maxReactors)

	candidates := a.reactorCandidates(author, personas, cs, true)
	relaxed := false
	if len(candidates) == 0 && cs.NoRepeatedPairings {
		candidates = a.reactorCandidates(author, personas, cs, false)
		relaxed = len(candidates) > 0
	}
	if len(candidates) == 0 {
		return nil, false
	}

	type scored struct {
		p     types.Persona
		score float64
	}
	list := make([]scored, 0, len(candidates))
	for _, p := range candidates {
		s := -float64(a.commentCount[p.ID]) + complementScore(author, p) + a.rng.Float64()*0.5
		list = append(list, scored{p, s})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].score > list[j].score })

	var picked []types.Persona
	enforce := cs.NoRepeatedPairings && !relaxed
	for _, s := range list {
		if len(picked) >= target {
			break
		}
		// No back-to-back same persona in the reactor order.
		if len(picked) > 0 && picked[len(picked)-1].ID == s.p.ID {
			continue
		}
		// The candidate filter covers author pairings; reactor-reactor
		// pairings from earlier threads are checked against the picks.
		if enforce && a.pairedBefore(s.p, picked) {
			continue
		}
		picked = append(picked, s.p)
	}
	return picked, relaxed
}

// pairedBefore reports whether the candidate already shares a recorded
// pairing with any reactor picked so far.
func (a *Assigner) pairedBefore(candidate types.Persona, picked []types.Persona) bool {
	for _, q := range picked {
		if a.pairings[PairKey(candidate.ID, q.ID)] > 0 {
			return true
		}
	}
	return false
}

func (a *Assigner) reactorCandidates(author types.Persona, personas []types.Persona, cs types.ConstraintSet, enforcePairing bool) []types.Persona {
	var out []types.Persona
	for _, p := range personas {
		if p.ID == author.ID {
			continue
		}
		if a.commentCount[p.ID] >= cs.MaxCommentsPerPersonaPerWeek {
			continue
		}
		if enforcePairing && cs.NoRepeatedPairings && a.pairings[PairKey(author.ID, p.ID)] > 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}

// complementScore rewards asks/gives pairings and distinct expertise.
func complementScore(author, candidate types.Persona) float64 {
	a, c := author.Style, candidate.Style
	switch {
	case (a == types.StyleAsksQuestions && c == types.StyleGivesAnswers) ||
		(a == types.StyleGivesAnswers && c == types.StyleAsksQuestions):
		return 1.0
	case a == types.StyleGivesAnswers && c == types.StyleGivesAnswers:
		return 0.7
	}
	if tagJaccard(author.Expertise, candidate.Expertise) < 0.5 {
		return 0.8
	}
	return 0.5
}

// tagJaccard computes Jaccard similarity of two expertise tag sets.
func tagJaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[strings.ToLower(t)] = true
	}
	inter := 0
	union := len(set)
	for _, t := range b {
		if set[strings.ToLower(t)] {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// record updates counters, the author's last-post date, and every pairing
// key this thread creates: author with each reactor, and each
// reactor-reactor pair.
func (a *Assigner) record(author types.Persona, reactors []types.Persona, at time.Time) {
	a.postCount[author.ID]++
	a.lastPost[author.ID] = at
	for i, r := range reactors {
		a.commentCount[r.ID]++
		a.pairings[PairKey(author.ID, r.ID)]++
		for _, other := range reactors[i+1:] {
			a.pairings[PairKey(r.ID, other.ID)]++
		}
	}
}

// PairKey builds the order-independent pairing key for two persona ids.
func PairKey(idA, idB string) string {
	if idA > idB {
		idA, idB = idB, idA
	}
	return idA + ":" + idB
}
