// Package quality runs the heuristic check battery over a generated batch,
// derives batch and per-thread scores, and drives the bounded auto-repair
// loop back through content generation.
package quality

import (
	"fmt"
	"regexp"
	"strings"

	"cadence/internal/config"
	"cadence/internal/generate"
	"cadence/internal/types"
)

// Engine evaluates a batch of threads against the constraint set.
type Engine struct {
	cs    types.ConstraintSet
	prefs config.GenerationConfig
}

// NewEngine creates a quality engine.
func NewEngine(cs types.ConstraintSet, prefs config.GenerationConfig) *Engine {
	return &Engine{cs: cs, prefs: prefs}
}

var hypePhrases = []string{
	"game changer", "best ever", "highly recommend", "must have",
	"life changing", "revolutionary", "no brainer",
}

var dissentMarkers = []string{
	"but", "though", "however", "not sure", "depends", "maybe",
}

var gushingRe = regexp.MustCompile(`(?i)\b(love|amazing|great|perfect|excellent)\b`)

// findings accumulates results across checks.
type findings struct {
	issues      []types.Issue
	warnings    []types.Warning
	suggestions []string
}

func (f *findings) issue(kind types.IssueKind, sev types.Severity, msg string, postIDs ...string) {
	f.issues = append(f.issues, types.Issue{Kind: kind, Severity: sev, Message: msg, PostIDs: postIDs})
}

func (f *findings) warn(msg string, postIDs ...string) {
	f.warnings = append(f.warnings, types.Warning{Message: msg, PostIDs: postIDs})
}

// checkOverposting flags venues whose post count exceeds their effective
// weekly cap.
func (e *Engine) checkOverposting(threads []types.Thread, f *findings) {
	counts := make(map[string]int)
	venues := make(map[string]types.Community)
	postIDs := make(map[string][]string)
	var order []string // first-seen venue order keeps issue order stable
	for _, t := range threads {
		id := t.Slot.Community.ID
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
		venues[id] = t.Slot.Community
		postIDs[id] = append(postIDs[id], t.Post.ID)
	}
	for _, id := range order {
		n := counts[id]
		cap := e.cs.EffectiveVenueCap(venues[id])
		if n > cap {
			f.issue(types.IssueOverposting, types.SeverityHigh,
				fmt.Sprintf("%s has %d posts this week, cap is %d", venues[id].Name, n, cap),
				postIDs[id]...)
		}
	}
}

// checkDuplication flags lexically similar posts across the batch and
// repeated language between replies within a thread.
func (e *Engine) checkDuplication(threads []types.Thread, f *findings) {
	for i := 0; i < len(threads); i++ {
		for j := i + 1; j < len(threads); j++ {
			a := threads[i].Post.Title + " " + threads[i].Post.Body
			b := threads[j].Post.Title + " " + threads[j].Post.Body
			sim := lexicalSimilarity(a, b)
			if sim >= 0.5 {
				sev := types.SeverityMedium
				if sim > 0.8 {
					sev = types.SeverityHigh
				}
				f.issue(types.IssueDuplication, sev,
					fmt.Sprintf("posts %.0f%% similar", sim*100),
					threads[i].Post.ID, threads[j].Post.ID)
			}
		}
	}
	for _, t := range threads {
		for i := 0; i < len(t.Replies); i++ {
			for j := i + 1; j < len(t.Replies); j++ {
				if lexicalSimilarity(t.Replies[i].Text, t.Replies[j].Text) >= 0.5 {
					f.issue(types.IssueDuplication, types.SeverityMedium,
						"replies within a thread repeat the same language", t.Post.ID)
				}
			}
		}
	}
}

// checkPersonaCollision flags non-author pairs that interact too often and
// personas that author disproportionately.
func (e *Engine) checkPersonaCollision(threads []types.Thread, f *findings) {
	pairCount := make(map[string]int)
	pairPosts := make(map[string][]string)
	authorCount := make(map[string]int)
	var pairOrder, authorOrder []string
	for _, t := range threads {
		if authorCount[t.Slot.Author.ID] == 0 {
			authorOrder = append(authorOrder, t.Slot.Author.ID)
		}
		authorCount[t.Slot.Author.ID]++
		for i, a := range t.Slot.Reactors {
			for _, b := range t.Slot.Reactors[i+1:] {
				key := pairKey(a.ID, b.ID)
				if pairCount[key] == 0 {
					pairOrder = append(pairOrder, key)
				}
				pairCount[key]++
				pairPosts[key] = append(pairPosts[key], t.Post.ID)
			}
		}
	}
	for _, key := range pairOrder {
		if n := pairCount[key]; n > 2 {
			f.issue(types.IssueCollision, types.SeverityMedium,
				fmt.Sprintf("persona pair %s interacts %d times this week", key, n),
				pairPosts[key]...)
		}
	}
	if len(authorCount) > 0 {
		total := 0
		for _, n := range authorCount {
			total += n
		}
		avg := float64(total) / float64(len(authorCount))
		for _, id := range authorOrder {
			n := authorCount[id]
			if float64(n) > avg+1 || n > e.cs.MaxPostsPerPersonaPerWeek {
				f.issue(types.IssueCollision, types.SeverityLow,
					fmt.Sprintf("persona %s authors %d posts, above its share", id, n))
			}
		}
	}
}

// checkTiming flags suspiciously fast replies.
func (e *Engine) checkTiming(threads []types.Thread, f *findings) {
	for _, t := range threads {
		if len(t.Replies) == 0 {
			continue
		}
		if t.Replies[0].DelayMinutes < 10 {
			f.issue(types.IssueTiming, types.SeverityMedium,
				fmt.Sprintf("first reply arrives %d minutes after the post", t.Replies[0].DelayMinutes),
				t.Post.ID)
		}
		for i := 1; i < len(t.Replies); i++ {
			if t.Replies[i].DelayMinutes < 5 {
				f.issue(types.IssueTiming, types.SeverityMedium,
					"consecutive replies under 5 minutes apart", t.Post.ID)
			}
		}
	}
}

// promoScore computes the weighted promotional score for a thread.
func (e *Engine) promoScore(t types.Thread) int {
	score := 0
	all := t.Post.Title + " " + t.Post.Body
	for _, r := range t.Replies {
		all += " " + r.Text
	}
	if generate.ContainsCompany(all, e.prefs.CompanyName) {
		score += 4
	}
	lower := strings.ToLower(all)
	for _, phrase := range hypePhrases {
		score += strings.Count(lower, phrase)
	}
	gushing := 0
	dissent := false
	for _, r := range t.Replies {
		if gushingRe.MatchString(r.Text) {
			gushing++
		}
		if hasDissentMarker(r.Text) {
			dissent = true
		}
	}
	if gushing >= 2 {
		score += 2
	}
	if len(t.Replies) > 0 && !dissent {
		score++
	}
	return score
}

// checkPromo flags threads that read as coordinated promotion.
func (e *Engine) checkPromo(threads []types.Thread, f *findings) {
	for _, t := range threads {
		score := e.promoScore(t)
		allowed := e.cs.EffectiveMaxPromo(t.Slot.Community)
		switch {
		case score > allowed:
			f.issue(types.IssuePromo, types.SeverityHigh,
				fmt.Sprintf("promo score %d exceeds %s limit %d", score, t.Slot.Community.Name, allowed),
				t.Post.ID)
		case score > 4:
			f.warn(fmt.Sprintf("promo score %d is elevated for %s", score, t.Slot.Community.Name), t.Post.ID)
		}
	}
}

// checkVoice flags personas that read as the same writer, and suggests a
// wider cast when the run uses very few personas.
func (e *Engine) checkVoice(threads []types.Thread, f *findings) {
	content := make(map[string]string)
	var ids []string // first-seen persona order keeps issue order stable
	for _, t := range threads {
		for _, id := range threadPersonaIDs(t) {
			if c := t.PersonaContent(id); c != "" {
				if content[id] == "" {
					ids = append(ids, id)
				} else {
					content[id] += " "
				}
				content[id] += c
			}
		}
	}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if lexicalSimilarity(content[ids[i]], content[ids[j]]) > 0.5 {
				f.issue(types.IssueVoice, types.SeverityMedium,
					fmt.Sprintf("personas %s and %s read as the same writer", ids[i], ids[j]))
			}
		}
	}
	if len(ids) > 0 && len(ids) < 3 {
		f.suggestions = append(f.suggestions,
			"fewer than 3 distinct personas used this week; a wider cast reads more organic")
	}
}

// checkSofts runs the warning-only heuristics: over-agreement, low-effort
// content, and venue saturation against last week.
func (e *Engine) checkSofts(threads []types.Thread, history []types.WeekHistory, f *findings) {
	for _, t := range threads {
		if len(t.Replies) >= 2 {
			dissent := false
			for _, r := range t.Replies {
				if hasDissentMarker(r.Text) {
					dissent = true
					break
				}
			}
			if !dissent {
				f.warn("every reply agrees; threads read better with some pushback", t.Post.ID)
			}
		}
		if len(t.Post.Body) < 40 {
			f.warn("post body under 40 characters reads as low effort", t.Post.ID)
		}
		short := 0
		for _, r := range t.Replies {
			if len(r.Text) < 25 {
				short++
			}
		}
		if short >= 2 {
			f.warn("multiple replies under 25 characters read as low effort", t.Post.ID)
		}
	}

	if len(history) > 0 {
		thisWeek := make(map[string]int)
		venues := make(map[string]types.Community)
		var order []string
		for _, t := range threads {
			id := t.Slot.Community.ID
			if thisWeek[id] == 0 {
				order = append(order, id)
			}
			thisWeek[id]++
			venues[id] = t.Slot.Community
		}
		last := history[0]
		for _, id := range order {
			combined := thisWeek[id] + last.VenueUsage[id]
			if combined > 2*e.cs.EffectiveVenueCap(venues[id]) {
				f.warn(fmt.Sprintf("%s is saturated: %d posts across this week and last", venues[id].Name, combined))
			}
		}
	}
}

// checkVenueRules enforces per-venue daily caps and self-promotion bans.
func (e *Engine) checkVenueRules(threads []types.Thread, f *findings) {
	perDay := make(map[string]int) // venueID|date -> count
	for _, t := range threads {
		rules := t.Slot.Community.Rules
		if rules == nil {
			continue
		}
		if rules.MaxPostsPerDay > 0 {
			key := t.Slot.Community.ID + "|" + t.Post.ScheduledAt.Format("2006-01-02")
			perDay[key]++
			if perDay[key] > rules.MaxPostsPerDay {
				f.issue(types.IssueVenueRule, types.SeverityHigh,
					fmt.Sprintf("%s exceeds its daily post limit of %d", t.Slot.Community.Name, rules.MaxPostsPerDay),
					t.Post.ID)
			}
		}
		if !rules.AllowSelfPromotion {
			all := t.Post.Title + " " + t.Post.Body
			for _, r := range t.Replies {
				all += " " + r.Text
			}
			if generate.ContainsCompany(all, e.prefs.CompanyName) {
				f.issue(types.IssueVenueRule, types.SeverityHigh,
					fmt.Sprintf("company mention in %s, which disallows self-promotion", t.Slot.Community.Name),
					t.Post.ID)
			}
		}
	}
}

func hasDissentMarker(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range dissentMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func threadPersonaIDs(t types.Thread) []string {
	seen := map[string]bool{t.Slot.Author.ID: true}
	ids := []string{t.Slot.Author.ID}
	for _, r := range t.Slot.Reactors {
		if !seen[r.ID] {
			seen[r.ID] = true
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// lexicalSimilarity is Jaccard overlap over word tokens longer than 3
// characters.
func lexicalSimilarity(a, b string) float64 {
	as := tokenSet(a)
	bs := tokenSet(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}
	inter := 0
	for w := range as {
		if bs[w] {
			inter++
		}
	}
	union := len(as) + len(bs) - inter
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,!?;:\"'()")
		if len(w) > 3 {
			set[w] = true
		}
	}
	return set
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}
