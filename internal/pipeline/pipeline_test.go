package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"cadence/internal/config"
	"cadence/internal/textgen"
	"cadence/internal/types"
)

func TestMain(m *testing.M) {
	// go.opencensus.io starts a background worker in its package init
	// that can never be stopped; ignore it in the leak check.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

func validRequest() Request {
	return Request{
		OwnerID: "owner-1",
		Personas: []types.Persona{
			{ID: "p1", Handle: "asker", Style: types.StyleAsksQuestions, Expertise: []string{"infra"}},
			{ID: "p2", Handle: "answerer", Style: types.StyleGivesAnswers, Expertise: []string{"devtools"}},
			{ID: "p3", Handle: "balanced", Style: types.StyleBalanced, Expertise: []string{"docs"}},
		},
		Communities: []types.Community{
			{ID: "c1", Name: "r/devtools", Description: "developer tooling", Sensitivity: types.TierMedium},
			{ID: "c2", Name: "r/automation", Description: "workflow automation", Sensitivity: types.TierLow},
		},
		Keywords: []types.Keyword{
			{ID: "k1", Phrase: "best automation tools", Category: types.CategoryComparison, Priority: 2},
			{ID: "k2", Phrase: "how to monitor cron jobs", Category: types.CategoryProblem, Priority: 1},
			{ID: "k3", Phrase: "devtools for small teams", Category: types.CategoryAudience, Priority: 1},
		},
		PostCount: 3,
		WeekStart: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), // Monday
		Seed:      42,
	}
}

func testPlanner(seed int64) *Planner {
	cfg := config.DefaultConfig()
	cfg.Generation.CompanyName = "AcmeFlow"
	return New(textgen.NewMockClient(seed), cfg, true)
}

func TestPlanFullRun(t *testing.T) {
	p := testPlanner(42)
	resp, err := p.Plan(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Posts)
	assert.LessOrEqual(t, len(resp.Posts), 3)
	assert.NotEmpty(t, resp.Replies)
	require.NotNil(t, resp.Report)
	require.NotNil(t, resp.Trace)
	assert.Equal(t, 10, resp.WeekNumber)

	postIDs := make(map[string]bool)
	for _, post := range resp.Posts {
		postIDs[post.ID] = true
		assert.Equal(t, "owner-1", post.OwnerID)
		assert.Equal(t, types.StatusScheduled, post.Status)
		assert.NotEmpty(t, post.Title)
		assert.NotEmpty(t, post.Body)
		assert.NotZero(t, post.QualityScore, "quality annotation should run")
		assert.False(t, post.ScheduledAt.Before(validRequest().WeekStart))
	}
	for _, r := range resp.Replies {
		assert.True(t, postIDs[r.PostID], "reply %s references unknown post %s", r.ID, r.PostID)
	}
}

func TestPlanDeterministicWithSeed(t *testing.T) {
	req := validRequest()

	a, err := testPlanner(7).Plan(context.Background(), req)
	require.NoError(t, err)
	b, err := testPlanner(7).Plan(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, len(a.Posts), len(b.Posts))
	for i := range a.Posts {
		assert.Equal(t, a.Posts[i].Title, b.Posts[i].Title)
		assert.Equal(t, a.Posts[i].Body, b.Posts[i].Body)
		assert.True(t, a.Posts[i].ScheduledAt.Equal(b.Posts[i].ScheduledAt))
	}
}

func TestPlanValidationAggregatesAllFields(t *testing.T) {
	p := testPlanner(1)
	req := Request{
		Personas:  []types.Persona{{ID: "p1", Handle: "solo", Style: "shouting"}},
		PostCount: -1,
	}
	_, err := p.Plan(context.Background(), req)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	msg := verr.Error()
	assert.Contains(t, msg, "owner id is required")
	assert.Contains(t, msg, "at least 2 required")
	assert.Contains(t, msg, "unknown posting style")
	assert.Contains(t, msg, "communities: at least 1 required")
	assert.Contains(t, msg, "keywords: at least 1 required")
	assert.Contains(t, msg, "must be positive")
	assert.Contains(t, msg, "week_start: required")
}

func TestPlanValidationCapacity(t *testing.T) {
	p := testPlanner(1)
	req := validRequest()
	req.Communities = req.Communities[:1] // medium tier, cap 2
	req.PostCount = 5

	_, err := p.Plan(context.Background(), req)
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Error(), "exceeds total venue capacity")
}

func TestPlanRiskScalesCapacity(t *testing.T) {
	req := validRequest()
	req.Communities = req.Communities[:1] // medium tier, base cap 2
	req.PostCount = 3
	req.Risk = types.RiskHigh // cap becomes 3

	resp, err := testPlanner(3).Plan(context.Background(), req)
	require.NoError(t, err, "high risk should raise the venue cap enough for 3 posts")
	assert.NotEmpty(t, resp.Posts)

	req.Risk = types.RiskMedium
	_, err = testPlanner(3).Plan(context.Background(), req)
	require.Error(t, err, "medium risk keeps the cap at 2")
}

func TestPlanCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testPlanner(1).Plan(ctx, validRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPlanConstraintOverride(t *testing.T) {
	req := validRequest()
	cs := types.DefaultConstraints()
	cs.MaxPostsPerVenuePerWeek = 1 // capacity: c1 cap 1 + c2 (low tier) cap 2 = 3
	req.Constraints = &cs
	req.PostCount = 4

	_, err := testPlanner(2).Plan(context.Background(), req)
	require.Error(t, err)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestPlanAutoRepairRuns(t *testing.T) {
	req := validRequest()
	prefs := config.DefaultGenerationConfig()
	prefs.CompanyName = "AcmeFlow"
	prefs.AutoRepair = true
	prefs.RepairPasses = 2
	req.Generation = &prefs

	resp, err := testPlanner(5).Plan(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Trace)
	assert.LessOrEqual(t, resp.Trace.RepairPasses, 2)
}

func TestWeekNumber(t *testing.T) {
	assert.Equal(t, 10, weekNumber(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, weekNumber(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}
