// Package types defines the domain model shared by every pipeline stage:
// personas, communities, keywords, the slot refinement chain, generated
// posts and replies, constraint sets, and quality reports.
package types

import "time"

// PostingStyle describes how a persona tends to participate.
type PostingStyle string

const (
	StyleAsksQuestions PostingStyle = "asks_questions"
	StyleGivesAnswers  PostingStyle = "gives_answers"
	StyleBalanced      PostingStyle = "balanced"
)

// ValidPostingStyle reports whether s is a known style.
func ValidPostingStyle(s PostingStyle) bool {
	switch s {
	case StyleAsksQuestions, StyleGivesAnswers, StyleBalanced:
		return true
	}
	return false
}

// Persona is a synthetic author. Immutable during a planning run; mutated
// only between runs.
type Persona struct {
	ID        string       `json:"id"`
	OwnerID   string       `json:"owner_id"`
	Handle    string       `json:"handle"`
	Bio       string       `json:"bio"`
	Voice     []string     `json:"voice"`     // voice descriptors ("dry humor", "terse")
	Expertise []string     `json:"expertise"` // expertise tags
	Style     PostingStyle `json:"style"`

	// Simulated reputation, optional.
	AccountAgeDays int `json:"account_age_days,omitempty"`
	Karma          int `json:"karma,omitempty"`
}

// SensitivityTier scales constraint strictness for a community.
type SensitivityTier string

const (
	TierLow    SensitivityTier = "low"
	TierMedium SensitivityTier = "medium"
	TierHigh   SensitivityTier = "high"
)

// CommunityRules holds the optional per-venue posting rules.
type CommunityRules struct {
	MaxPostsPerDay     int  `json:"max_posts_per_day,omitempty"`
	AllowSelfPromotion bool `json:"allow_self_promotion"`
	MinReputation      int  `json:"min_reputation,omitempty"`
}

// Community is a target venue for posts.
type Community struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Rules       *CommunityRules `json:"rules,omitempty"`
	Sensitivity SensitivityTier `json:"sensitivity"`
	Dayparts    []Daypart       `json:"dayparts,omitempty"` // preferred dayparts
}

// KeywordCategory classifies the intent behind a topic keyword.
type KeywordCategory string

const (
	CategoryDiscovery  KeywordCategory = "discovery"
	CategoryComparison KeywordCategory = "comparison"
	CategoryProblem    KeywordCategory = "problem"
	CategoryUseCase    KeywordCategory = "use-case"
	CategoryAudience   KeywordCategory = "audience"
)

// Keyword is a topic phrase a post can target.
type Keyword struct {
	ID       string          `json:"id"`
	OwnerID  string          `json:"owner_id"`
	Phrase   string          `json:"phrase"`
	Category KeywordCategory `json:"category"`
	Priority int             `json:"priority"` // higher wins ties
}

// RiskTolerance scales several constraint fields up or down for a run.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// WeekHistory summarizes one prior week's activity for freshness decay and
// saturation checks. Callers pass most recent week first.
type WeekHistory struct {
	WeekNumber  int            `json:"week_number"`
	GeneratedAt time.Time      `json:"generated_at"`
	TopicUsage  map[string]int `json:"topic_usage"` // keyword id -> posts
	VenueUsage  map[string]int `json:"venue_usage"` // community id -> posts
	PostCount   int            `json:"post_count"`
	ReplyCount  int            `json:"reply_count"`
}
