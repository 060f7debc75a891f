package types

// Severity grades a quality issue.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// IssueKind names the check that raised an issue.
type IssueKind string

const (
	IssueOverposting    IssueKind = "overposting"
	IssueDuplication    IssueKind = "duplication"
	IssueCollision      IssueKind = "persona_collision"
	IssueTiming         IssueKind = "timing"
	IssuePromo          IssueKind = "promotional"
	IssueVoice          IssueKind = "voice_consistency"
	IssueVenueRule      IssueKind = "venue_rule"
)

// Issue is one typed finding from the quality engine.
type Issue struct {
	Kind     IssueKind `json:"kind"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	PostIDs  []string  `json:"post_ids,omitempty"`
}

// Warning is a free-text advisory finding tagged with affected posts.
type Warning struct {
	Message string   `json:"message"`
	PostIDs []string `json:"post_ids,omitempty"`
}

// QualityReport is the batch-level verdict for one run.
type QualityReport struct {
	Score       float64   `json:"score"` // 0-10, one decimal
	Issues      []Issue   `json:"issues"`
	Warnings    []Warning `json:"warnings"`
	Suggestions []string  `json:"suggestions"`

	// Per-post drill-down indexes.
	IssuesByPost   map[string][]Issue   `json:"issues_by_post,omitempty"`
	WarningsByPost map[string][]Warning `json:"warnings_by_post,omitempty"`
}

// FlaggedPostIDs returns the deduplicated set of post ids referenced by any
// issue or warning, in first-seen order.
func (r *QualityReport) FlaggedPostIDs() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(ids []string) {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	for _, is := range r.Issues {
		add(is.PostIDs)
	}
	for _, w := range r.Warnings {
		add(w.PostIDs)
	}
	return out
}

// Clean reports whether the batch has neither issues nor warnings.
func (r *QualityReport) Clean() bool {
	return len(r.Issues) == 0 && len(r.Warnings) == 0
}
