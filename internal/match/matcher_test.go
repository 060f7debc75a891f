package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadence/internal/types"
)

func weekSlots(n int) []types.TimeSlot {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) // Monday
	slots := make([]types.TimeSlot, n)
	for i := range slots {
		at := start.AddDate(0, 0, i)
		slots[i] = types.TimeSlot{At: at, Weekday: at.Weekday(), Daypart: types.DaypartMorning}
	}
	return slots
}

func testCommunities() []types.Community {
	return []types.Community{
		{ID: "c1", Name: "r/devtools", Description: "developer tooling", Sensitivity: types.TierMedium},
		{ID: "c2", Name: "r/automation", Description: "workflow automation", Sensitivity: types.TierMedium},
	}
}

func testKeywords() []types.Keyword {
	return []types.Keyword{
		{ID: "k1", Phrase: "best automation tools", Category: types.CategoryComparison, Priority: 2},
		{ID: "k2", Phrase: "devtools for teams", Category: types.CategoryAudience, Priority: 1},
		{ID: "k3", Phrase: "tips for monitoring", Category: types.CategoryProblem, Priority: 1},
	}
}

func TestMatchRespectsVenueCap(t *testing.T) {
	m := NewMatcher(types.NewRand(5))
	cs := types.DefaultConstraints() // 2 per venue per week
	cs.MinDaysBetweenVenuePosts = 0

	res := m.Match(weekSlots(6), testCommunities(), testKeywords(), nil, cs)

	usage := make(map[string]int)
	for _, s := range res.Slots {
		usage[s.Community.ID]++
	}
	for id, n := range usage {
		assert.LessOrEqual(t, n, 2, "venue %s over cap", id)
	}
	// 6 slots against a total capacity of 4 drops 2.
	assert.Len(t, res.Slots, 4)
	assert.Len(t, res.Dropped, 2)
}

func TestMatchVenueSpacing(t *testing.T) {
	m := NewMatcher(types.NewRand(2))
	cs := types.DefaultConstraints()
	cs.MinDaysBetweenVenuePosts = 2

	single := []types.Community{testCommunities()[0]}
	res := m.Match(weekSlots(3), single, testKeywords(), nil, cs)

	require.Len(t, res.Slots, 2, "day 2 is within spacing of day 1")
	gap := res.Slots[1].At.YearDay() - res.Slots[0].At.YearDay()
	assert.GreaterOrEqual(t, gap, 2)
}

func TestMatchVenueSpacingAcrossYearEnd(t *testing.T) {
	m := NewMatcher(types.NewRand(3))
	cs := types.DefaultConstraints() // MinDaysBetweenVenuePosts 1

	// Dec 31 then Jan 2: a two-day gap, well clear of the spacing rule
	// even though the day-of-year counter resets in between.
	slots := []types.TimeSlot{
		{At: time.Date(2026, 12, 31, 9, 0, 0, 0, time.UTC), Weekday: time.Thursday, Daypart: types.DaypartMorning},
		{At: time.Date(2027, 1, 2, 9, 0, 0, 0, time.UTC), Weekday: time.Saturday, Daypart: types.DaypartMorning},
	}
	single := []types.Community{testCommunities()[0]}

	res := m.Match(slots, single, testKeywords(), nil, cs)
	assert.Len(t, res.Slots, 2)
	assert.Empty(t, res.Dropped)
}

func TestMatchKeywordCount(t *testing.T) {
	m := NewMatcher(types.NewRand(8))
	res := m.Match(weekSlots(2), testCommunities(), testKeywords(), nil, types.DefaultConstraints())
	for _, s := range res.Slots {
		assert.GreaterOrEqual(t, len(s.Keywords), 1)
		assert.LessOrEqual(t, len(s.Keywords), 2)
	}
}

func TestMatchSingleKeyword(t *testing.T) {
	m := NewMatcher(types.NewRand(8))
	one := testKeywords()[:1]
	res := m.Match(weekSlots(1), testCommunities(), one, nil, types.DefaultConstraints())
	require.Len(t, res.Slots, 1)
	assert.Len(t, res.Slots[0].Keywords, 1)
}

func TestMatchHistoryPenalizesStaleTopics(t *testing.T) {
	cs := types.DefaultConstraints()
	history := []types.WeekHistory{
		{WeekNumber: 10, TopicUsage: map[string]int{"k1": 6}},
	}
	// Across seeds, heavy recent usage of k1 should keep it from leading.
	leads := 0
	for seed := int64(0); seed < 10; seed++ {
		m := NewMatcher(types.NewRand(seed))
		res := m.Match(weekSlots(1), testCommunities(), testKeywords(), history, cs)
		require.Len(t, res.Slots, 1)
		if res.Slots[0].Keywords[0].ID == "k1" {
			leads++
		}
	}
	assert.Zero(t, leads, "a 6-point freshness penalty should bury k1")
}

func TestDeriveThreadType(t *testing.T) {
	cases := []struct {
		phrase string
		want   types.ThreadType
	}{
		{"best crm software", types.ThreadQuestion},
		{"how to deploy fast", types.ThreadQuestion},
		{"alternatives to spreadsheets", types.ThreadQuestion},
		{"need recommendations", types.ThreadAdvice},
		{"tips for onboarding", types.ThreadAdvice},
		{"my experience with sqlite", types.ThreadStory},
		{"tried three editors", types.ThreadStory},
		{"local first software", types.ThreadDiscussion},
	}
	for _, tc := range cases {
		got := DeriveThreadType([]types.Keyword{{Phrase: tc.phrase}})
		assert.Equal(t, tc.want, got, "phrase %q", tc.phrase)
	}
}

func TestDeriveThreadTypeFirstMatchWins(t *testing.T) {
	// "best" (question) outranks "tips" (advice) when both appear.
	kws := []types.Keyword{{Phrase: "best tips"}}
	assert.Equal(t, types.ThreadQuestion, DeriveThreadType(kws))
}

func TestMatchNoCommunities(t *testing.T) {
	m := NewMatcher(types.NewRand(1))
	res := m.Match(weekSlots(2), nil, testKeywords(), nil, types.DefaultConstraints())
	assert.Empty(t, res.Slots)
	assert.Len(t, res.Dropped, 2)
}
