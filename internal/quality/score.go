package quality

import (
	"math"

	"cadence/internal/generate"
	"cadence/internal/logging"
	"cadence/internal/types"
)

// Evaluate runs the full check battery over the batch and returns the
// quality report. Evaluating the same unchanged batch twice yields an
// identical report.
func (e *Engine) Evaluate(threads []types.Thread, history []types.WeekHistory) *types.QualityReport {
	timer := logging.StartTimer(logging.CategoryQuality, "Evaluate")
	defer timer.Stop()

	var f findings
	e.checkOverposting(threads, &f)
	e.checkDuplication(threads, &f)
	e.checkPersonaCollision(threads, &f)
	e.checkTiming(threads, &f)
	e.checkPromo(threads, &f)
	e.checkVoice(threads, &f)
	e.checkSofts(threads, history, &f)
	e.checkVenueRules(threads, &f)

	report := &types.QualityReport{
		Score:       batchScore(f, len(threads)),
		Issues:      f.issues,
		Warnings:    f.warnings,
		Suggestions: f.suggestions,
	}
	report.IssuesByPost = indexIssues(f.issues)
	report.WarningsByPost = indexWarnings(f.warnings)

	logging.Get(logging.CategoryQuality).Info("batch score %.1f with %d issues, %d warnings",
		report.Score, len(report.Issues), len(report.Warnings))
	return report
}

// batchScore starts at 10 and subtracts per finding: 2 per high issue, 1
// per medium, 0.5 per low, 0.3 per warning, with a 0.5 bonus for batches
// of 3+ threads. Clamped to [0,10], one decimal.
func batchScore(f findings, threadCount int) float64 {
	score := 10.0
	for _, is := range f.issues {
		switch is.Severity {
		case types.SeverityHigh:
			score -= 2
		case types.SeverityMedium:
			score -= 1
		case types.SeverityLow:
			score -= 0.5
		}
	}
	score -= 0.3 * float64(len(f.warnings))
	if threadCount >= 3 {
		score += 0.5
	}
	return clampRound(score)
}

// ScoreThread computes the per-post quality score: four 0-2.5 sub-scores
// for naturalness, engagement, subtlety, and timing.
func (e *Engine) ScoreThread(t types.Thread) (float64, map[string]float64) {
	breakdown := make(map[string]float64, 4)

	naturalness := 1.0
	if n := len(t.Post.Body); n >= 100 && n <= 600 {
		naturalness = 2.5
	}
	breakdown["naturalness"] = naturalness

	engagement := 1.0
	if n := len(t.Replies); n >= 2 && n <= 4 {
		engagement = 2.5
	} else if n == 0 {
		engagement = 0
	}
	breakdown["engagement"] = engagement

	subtlety := 0.0
	all := t.Post.Title + " " + t.Post.Body
	for _, r := range t.Replies {
		all += " " + r.Text
	}
	if !generate.ContainsCompany(all, e.prefs.CompanyName) {
		subtlety = 2.5
	}
	breakdown["subtlety"] = subtlety

	timing := 1.0
	if len(t.Replies) > 0 {
		total := 0
		for _, r := range t.Replies {
			total += r.DelayMinutes
		}
		avg := float64(total) / float64(len(t.Replies))
		if avg >= 30 && avg <= 120 {
			timing = 2.5
		}
	}
	breakdown["timing"] = timing

	return clampRound(naturalness + engagement + subtlety + timing), breakdown
}

// Annotate writes per-thread scores and the report's per-post findings
// back onto the posts for persistence and UI drill-down.
func (e *Engine) Annotate(threads []types.Thread, report *types.QualityReport) {
	for i := range threads {
		score, breakdown := e.ScoreThread(threads[i])
		threads[i].Post.QualityScore = score
		threads[i].Post.QualityBreakdown = breakdown

		threads[i].Post.Issues = nil
		for _, is := range report.IssuesByPost[threads[i].Post.ID] {
			threads[i].Post.Issues = append(threads[i].Post.Issues, is.Message)
		}
		threads[i].Post.Warnings = nil
		for _, w := range report.WarningsByPost[threads[i].Post.ID] {
			threads[i].Post.Warnings = append(threads[i].Post.Warnings, w.Message)
		}
	}
}

func indexIssues(issues []types.Issue) map[string][]types.Issue {
	idx := make(map[string][]types.Issue)
	for _, is := range issues {
		for _, id := range is.PostIDs {
			idx[id] = append(idx[id], is)
		}
	}
	return idx
}

func indexWarnings(warnings []types.Warning) map[string][]types.Warning {
	idx := make(map[string][]types.Warning)
	for _, w := range warnings {
		for _, id := range w.PostIDs {
			idx[id] = append(idx[id], w)
		}
	}
	return idx
}

func clampRound(score float64) float64 {
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return math.Round(score*10) / 10
}
