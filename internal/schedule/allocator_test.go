package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadence/internal/types"
)

func monday() time.Time {
	// A known Monday.
	return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
}

func TestAllocateCount(t *testing.T) {
	for _, count := range []int{1, 3, 5, 7, 10} {
		a := NewAllocator(types.NewRand(42))
		slots := a.Allocate(count, monday())
		assert.Len(t, slots, count, "count=%d", count)
	}
}

func TestAllocateChronological(t *testing.T) {
	a := NewAllocator(types.NewRand(7))
	slots := a.Allocate(6, monday())
	require.Len(t, slots, 6)
	for i := 1; i < len(slots); i++ {
		assert.True(t, !slots[i].At.Before(slots[i-1].At),
			"slot %d (%s) before slot %d (%s)", i, slots[i].At, i-1, slots[i-1].At)
	}
}

func TestAllocateSpreadsDays(t *testing.T) {
	a := NewAllocator(types.NewRand(1))
	slots := a.Allocate(3, monday())
	require.Len(t, slots, 3)

	days := make(map[int]bool)
	for _, s := range slots {
		days[s.At.YearDay()] = true
	}
	assert.Len(t, days, 3, "3 posts should land on 3 distinct days")
}

func TestAllocateWeekdaysFirst(t *testing.T) {
	a := NewAllocator(types.NewRand(9))
	slots := a.Allocate(5, monday())
	for _, s := range slots {
		assert.NotEqual(t, time.Saturday, s.Weekday)
		assert.NotEqual(t, time.Sunday, s.Weekday)
	}
}

func TestAllocateWithinDaypartWindow(t *testing.T) {
	a := NewAllocator(types.NewRand(13))
	slots := a.Allocate(9, monday())
	for _, s := range slots {
		w, ok := daypartWindows[s.Daypart]
		require.True(t, ok, "unknown daypart %q", s.Daypart)
		h := s.At.Hour()
		assert.GreaterOrEqual(t, h, w.startHour)
		assert.Less(t, h, w.endHour)
	}
}

func TestAllocateMoreThanSevenRepeatsDays(t *testing.T) {
	a := NewAllocator(types.NewRand(3))
	slots := a.Allocate(10, monday())
	require.Len(t, slots, 10)

	perDay := make(map[int]int)
	for _, s := range slots {
		perDay[s.At.YearDay()]++
	}
	assert.Len(t, perDay, 7, "10 posts should cover all 7 days")
}

func TestAllocateZero(t *testing.T) {
	a := NewAllocator(types.NewRand(1))
	assert.Nil(t, a.Allocate(0, monday()))
	assert.Nil(t, a.Allocate(-1, monday()))
}

func TestAllocateDeterministicWithSeed(t *testing.T) {
	first := NewAllocator(types.NewRand(99)).Allocate(5, monday())
	second := NewAllocator(types.NewRand(99)).Allocate(5, monday())
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.True(t, first[i].At.Equal(second[i].At), "slot %d differs", i)
	}
}
