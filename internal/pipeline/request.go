package pipeline

import (
	"fmt"
	"strings"
	"time"

	"cadence/internal/config"
	"cadence/internal/types"
)

// Request is one planning request: the roster, the venues, the topics,
// and the knobs for a single week.
type Request struct {
	OwnerID     string
	Personas    []types.Persona
	Communities []types.Community
	Keywords    []types.Keyword
	PostCount   int
	WeekStart   time.Time

	// Optional overrides; nil means use the planner's configured defaults.
	Constraints *types.ConstraintSet
	Generation  *config.GenerationConfig

	History []types.WeekHistory
	Risk    types.RiskTolerance

	// Seed fixes the run's random source when non-zero.
	Seed int64
}

// Response is the finalized output of one planning run.
type Response struct {
	Posts       []types.Post
	Replies     []types.Reply
	Report      *types.QualityReport
	WeekNumber  int
	GeneratedAt time.Time
	Trace       *Trace
}

// ValidationError aggregates every malformed-input finding for a request.
// Nothing is partially processed: the request either validates whole or
// fails with all field messages at once.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid planning request:\n  %s", strings.Join(e.Fields, "\n  "))
}

// validate checks the request against the resolved constraint set,
// aggregating every problem before any stage runs.
func validate(req Request, cs types.ConstraintSet) error {
	var fields []string
	if req.OwnerID == "" {
		fields = append(fields, "owner: owner id is required")
	}
	if len(req.Personas) < 2 {
		fields = append(fields, fmt.Sprintf("personas: at least 2 required, got %d", len(req.Personas)))
	}
	for _, p := range req.Personas {
		if !types.ValidPostingStyle(p.Style) {
			fields = append(fields, fmt.Sprintf("personas: %q has unknown posting style %q", p.Handle, p.Style))
		}
	}
	if len(req.Communities) == 0 {
		fields = append(fields, "communities: at least 1 required")
	}
	if len(req.Keywords) == 0 {
		fields = append(fields, "keywords: at least 1 required")
	}
	if req.PostCount <= 0 {
		fields = append(fields, fmt.Sprintf("post_count: must be positive, got %d", req.PostCount))
	}
	if req.WeekStart.IsZero() {
		fields = append(fields, "week_start: required")
	}

	// The week cannot hold more posts than the venues can absorb.
	capacity := 0
	for _, c := range req.Communities {
		capacity += cs.EffectiveVenueCap(c)
	}
	if len(req.Communities) > 0 && req.PostCount > capacity {
		fields = append(fields, fmt.Sprintf("post_count: %d exceeds total venue capacity %d (%d venues)",
			req.PostCount, capacity, len(req.Communities)))
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
