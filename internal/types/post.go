package types

import "time"

// LifecycleStatus tracks a post or reply through its publishing lifecycle.
type LifecycleStatus string

const (
	StatusDraft     LifecycleStatus = "draft"
	StatusApproved  LifecycleStatus = "approved"
	StatusScheduled LifecycleStatus = "scheduled"
	StatusPosted    LifecycleStatus = "posted"
	StatusFailed    LifecycleStatus = "failed"
)

// Post is the finalized generated artifact for one slot.
type Post struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	CommunityID string          `json:"community_id"`
	PersonaID   string          `json:"persona_id"`
	Title       string          `json:"title"`
	Body        string          `json:"body"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	KeywordIDs  []string        `json:"keyword_ids"`
	ThreadType  ThreadType      `json:"thread_type"`
	Status      LifecycleStatus `json:"status"`

	// Populated by the quality engine.
	QualityScore     float64            `json:"quality_score,omitempty"`
	QualityBreakdown map[string]float64 `json:"quality_breakdown,omitempty"`
	Issues           []string           `json:"issues,omitempty"`
	Warnings         []string           `json:"warnings,omitempty"`
}

// Reply is one comment in a thread.
type Reply struct {
	ID            string          `json:"id"`
	OwnerID       string          `json:"owner_id"`
	PostID        string          `json:"post_id"`
	ParentReplyID string          `json:"parent_reply_id,omitempty"`
	PersonaID     string          `json:"persona_id"`
	Text          string          `json:"text"`
	ScheduledAt   time.Time       `json:"scheduled_at"`
	DelayMinutes  int             `json:"delay_minutes"` // from parent
	Status        LifecycleStatus `json:"status"`
}

// Thread bundles one post with its ordered replies and the slot that
// produced it. Ephemeral: never persisted as its own row.
type Thread struct {
	Post    Post
	Replies []Reply
	Slot    AssignedSlot
}

// PersonaContent concatenates everything a persona wrote in the thread.
// Used by voice-consistency checks.
func (t *Thread) PersonaContent(personaID string) string {
	var out string
	if t.Post.PersonaID == personaID {
		out = t.Post.Title + " " + t.Post.Body
	}
	for _, r := range t.Replies {
		if r.PersonaID == personaID {
			if out != "" {
				out += " "
			}
			out += r.Text
		}
	}
	return out
}
