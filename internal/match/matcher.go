// Package match assigns a target community and topic keywords to each
// allocated slot, under per-venue caps and keyword freshness decay.
package match

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"cadence/internal/logging"
	"cadence/internal/types"
)

// Matcher scores communities and keywords per slot.
type Matcher struct {
	rng types.Rand
}

// NewMatcher creates a matcher drawing jitter from rng.
func NewMatcher(rng types.Rand) *Matcher {
	return &Matcher{rng: rng}
}

// Result carries the matched slots plus diagnostics for slots that had to
// be dropped.
type Result struct {
	Slots   []types.MatchedSlot
	Dropped []string
}

// Match processes slots chronologically. A slot with no eligible venue is
// dropped and recorded in Dropped; it does not produce a post.
func (m *Matcher) Match(slots []types.TimeSlot, communities []types.Community, keywords []types.Keyword, history []types.WeekHistory, cs types.ConstraintSet) Result {
	log := logging.Get(logging.CategoryMatcher)
	timer := logging.StartTimer(logging.CategoryMatcher, "Match")
	defer timer.Stop()

	venueUsage := make(map[string]int)
	venueLastDay := make(map[string]int) // community id -> epoch day of last use
	keywordUsage := make(map[string]int)

	var out Result
	for _, slot := range slots {
		com, ok := m.pickCommunity(slot, communities, venueUsage, venueLastDay, cs)
		if !ok {
			msg := fmt.Sprintf("no eligible venue for slot %s, slot dropped", slot.At.Format("Mon 15:04"))
			log.Warn("%s", msg)
			out.Dropped = append(out.Dropped, msg)
			continue
		}
		venueUsage[com.ID]++
		venueLastDay[com.ID] = epochDay(slot.At)

		kws := m.pickKeywords(com, keywords, history, keywordUsage)
		for _, k := range kws {
			keywordUsage[k.ID]++
		}

		out.Slots = append(out.Slots, types.MatchedSlot{
			TimeSlot:   slot,
			Community:  com,
			Keywords:   kws,
			ThreadType: DeriveThreadType(kws),
		})
	}

	log.Info("matched %d/%d slots across %d venues", len(out.Slots), len(slots), len(venueUsage))
	return out
}

// pickCommunity filters venues by cap and spacing, then scores the
// survivors by -usage plus jitter so the least-used venue tends to win
// without deterministic starvation.
func (m *Matcher) pickCommunity(slot types.TimeSlot, communities []types.Community, usage map[string]int, lastDay map[string]int, cs types.ConstraintSet) (types.Community, bool) {
	best := types.Community{}
	bestScore := 0.0
	found := false

	for _, c := range communities {
		if usage[c.ID] >= cs.EffectiveVenueCap(c) {
			continue
		}
		if last, used := lastDay[c.ID]; used {
			if epochDay(slot.At)-last < cs.MinDaysBetweenVenuePosts {
				continue
			}
		}
		score := -float64(usage[c.ID]) + m.rng.Float64()
		if !found || score > bestScore {
			best, bestScore, found = c, score, true
		}
	}
	return best, found
}

// pickKeywords returns the top two keywords for the venue by combined
// relevance, freshness, usage, priority, and jitter.
func (m *Matcher) pickKeywords(com types.Community, keywords []types.Keyword, history []types.WeekHistory, usage map[string]int) []types.Keyword {
	type scored struct {
		kw    types.Keyword
		score float64
	}
	list := make([]scored, 0, len(keywords))
	for _, kw := range keywords {
		s := relevanceScore(kw, com) +
			categoryAffinity(kw.Category, com.Name) -
			freshnessPenalty(kw.ID, history) -
			float64(usage[kw.ID])*0.5 +
			float64(kw.Priority)*0.3 +
			m.rng.Float64()*0.5
		list = append(list, scored{kw, s})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].score > list[j].score })

	n := 2
	if len(list) < n {
		n = len(list)
	}
	picked := make([]types.Keyword, 0, n)
	for _, s := range list[:n] {
		picked = append(picked, s.kw)
	}
	return picked
}

// relevanceScore rewards word overlap between the keyword phrase and the
// venue name/description.
func relevanceScore(kw types.Keyword, com types.Community) float64 {
	venue := strings.ToLower(com.Name + " " + com.Description)
	score := 0.0
	for _, word := range strings.Fields(strings.ToLower(kw.Phrase)) {
		if len(word) > 3 && strings.Contains(venue, word) {
			score += 0.8
		}
	}
	return score
}

// categoryAffinity maps keyword categories to venue-name fragments that
// historically pair well with them.
var categoryFragments = map[types.KeywordCategory][]string{
	types.CategoryDiscovery:  {"news", "trending", "show"},
	types.CategoryComparison: {"review", "versus", "compare"},
	types.CategoryProblem:    {"help", "support", "ask"},
	types.CategoryUseCase:    {"dev", "engineering", "build"},
	types.CategoryAudience:   {"community", "group", "forum"},
}

func categoryAffinity(cat types.KeywordCategory, venueName string) float64 {
	name := strings.ToLower(venueName)
	for _, frag := range categoryFragments[cat] {
		if strings.Contains(name, frag) {
			return 0.6
		}
	}
	return 0
}

// freshnessPenalty accumulates prior-week topic usage with 1/n decay,
// most recent week first.
func freshnessPenalty(keywordID string, history []types.WeekHistory) float64 {
	penalty := 0.0
	for i, week := range history {
		penalty += float64(week.TopicUsage[keywordID]) / float64(i+1)
	}
	return penalty
}

// DeriveThreadType classifies the thread by the matched keyword text. Pure
// function of the keywords.
func DeriveThreadType(keywords []types.Keyword) types.ThreadType {
	text := ""
	for _, k := range keywords {
		text += " " + strings.ToLower(k.Phrase)
	}
	switch {
	case containsAny(text, "best", "how to", "what is", "which", "alternatives", "vs"):
		return types.ThreadQuestion
	case containsAny(text, "help", "need", "recommend", "tips"):
		return types.ThreadAdvice
	case containsAny(text, "experience", "tried", "review"):
		return types.ThreadStory
	default:
		return types.ThreadDiscussion
	}
}

// epochDay counts whole UTC days since the Unix epoch, so day gaps stay
// correct across a year boundary.
func epochDay(t time.Time) int {
	return int(t.Unix() / 86400)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
