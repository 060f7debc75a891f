// Package pipeline wires the five stages into one synchronous planning
// run: slot allocation, community matching, persona assignment, content
// generation, and quality evaluation with optional auto-repair.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"cadence/internal/assign"
	"cadence/internal/config"
	"cadence/internal/generate"
	"cadence/internal/logging"
	"cadence/internal/match"
	"cadence/internal/quality"
	"cadence/internal/schedule"
	"cadence/internal/textgen"
	"cadence/internal/types"
)

// Planner executes planning requests against a configured text backend.
type Planner struct {
	client textgen.Client
	cfg    *config.Config
	mock   bool
}

// New creates a planner. mock marks the client as a mock backend, which
// makes generation tolerate backend failures with canned fallbacks.
func New(client textgen.Client, cfg *config.Config, mock bool) *Planner {
	return &Planner{client: client, cfg: cfg, mock: mock}
}

// Plan runs one planning request through the full pipeline. The pipeline
// never persists anything; committing the response is the caller's job,
// and a cancelled or failed run must commit nothing.
func (p *Planner) Plan(ctx context.Context, req Request) (*Response, error) {
	log := logging.Get(logging.CategoryBoot)

	cs := p.cfg.Constraints.ToConstraintSet()
	if req.Constraints != nil {
		cs = *req.Constraints
	}
	cs = cs.WithRisk(req.Risk)

	prefs := p.cfg.Generation
	if req.Generation != nil {
		prefs = *req.Generation
	}

	if err := validate(req, cs); err != nil {
		return nil, err
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := types.NewRand(seed)
	trace := newTrace()

	// Stage 1: slot allocation.
	slots := schedule.NewAllocator(rng).Allocate(req.PostCount, req.WeekStart)
	for _, s := range slots {
		trace.SlotDays = append(trace.SlotDays, s.At.Format("Mon"))
		trace.DaypartCounts[string(s.Daypart)]++
	}

	// Stage 2: community/keyword matching.
	matched := match.NewMatcher(rng).Match(slots, req.Communities, req.Keywords, req.History, cs)
	trace.DroppedSlots = append(trace.DroppedSlots, matched.Dropped...)
	for _, m := range matched.Slots {
		trace.VenueDistribution[m.Community.Name]++
		for _, k := range m.Keywords {
			trace.KeywordDistribution[k.Phrase]++
		}
	}

	// Stage 3: persona assignment.
	assigned, err := assign.NewAssigner(rng).Assign(matched.Slots, req.Personas, cs)
	if err != nil {
		return nil, err
	}
	trace.DroppedSlots = append(trace.DroppedSlots, assigned.Dropped...)
	trace.RelaxedPairings = assigned.Relaxed
	for _, a := range assigned.Slots {
		trace.PersonaDistribution[a.Author.Handle]++
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("planning cancelled: %w", err)
	}

	// Stage 4: content generation.
	gen := generate.NewGenerator(generate.Config{
		Client:      p.client,
		Rng:         rng,
		Prefs:       prefs,
		Constraints: cs,
		Temperature: p.cfg.LLM.Temperature,
		MaxTokens:   p.cfg.LLM.MaxTokens,
		Mock:        p.mock,
		OwnerID:     req.OwnerID,
		Workers:     4,
	})
	genStart := time.Now()
	threads, notes, err := gen.GenerateBatch(ctx, assigned.Slots)
	if err != nil {
		return nil, fmt.Errorf("content generation failed: %w", err)
	}
	trace.GenerationTime = time.Since(genStart)
	trace.GenerationNotes = notes

	// Stage 5: quality evaluation, with the bounded repair loop when
	// enabled.
	engine := quality.NewEngine(cs, prefs)
	var report *types.QualityReport
	if prefs.AutoRepair && prefs.RepairPasses > 0 {
		result, err := engine.Repair(ctx, threads, req.History, gen, prefs.RepairPasses)
		if err != nil {
			return nil, fmt.Errorf("auto-repair failed: %w", err)
		}
		threads = result.Threads
		report = result.Report
		trace.RepairPasses = result.PassesUsed
	} else {
		report = engine.Evaluate(threads, req.History)
	}
	engine.Annotate(threads, report)
	trace.IssueCount = len(report.Issues)
	trace.WarningCount = len(report.Warnings)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("planning cancelled: %w", err)
	}

	resp := &Response{
		Report:      report,
		WeekNumber:  weekNumber(req.WeekStart),
		GeneratedAt: time.Now(),
		Trace:       trace,
	}
	for _, t := range threads {
		resp.Posts = append(resp.Posts, t.Post)
		resp.Replies = append(resp.Replies, t.Replies...)
	}

	log.Info("planned week %d: %d posts, %d replies, score %.1f",
		resp.WeekNumber, len(resp.Posts), len(resp.Replies), report.Score)
	return resp, nil
}

// weekNumber resolves the ISO week of the week-start date.
func weekNumber(weekStart time.Time) int {
	_, week := weekStart.ISOWeek()
	return week
}
