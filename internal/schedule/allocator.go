// Package schedule turns a requested weekly post count into concrete
// calendar timestamps, spread across days and dayparts.
package schedule

import (
	"sort"
	"time"

	"cadence/internal/logging"
	"cadence/internal/types"
)

// daypartWindow is the local-time window a daypart resolves into.
type daypartWindow struct {
	startHour int
	endHour   int // exclusive
}

var daypartWindows = map[types.Daypart]daypartWindow{
	types.DaypartMorning:   {8, 11},
	types.DaypartAfternoon: {12, 16},
	types.DaypartEvening:   {18, 22},
}

// Allocator produces TimeSlots for a week.
type Allocator struct {
	rng types.Rand
}

// NewAllocator creates an allocator drawing jitter from rng.
func NewAllocator(rng types.Rand) *Allocator {
	return &Allocator{rng: rng}
}

// Allocate returns exactly count TimeSlots in the week starting at
// weekStart, chronologically sorted. Weekdays are preferred over the
// weekend; dayparts are balanced with a soft preference for afternoon.
func (a *Allocator) Allocate(count int, weekStart time.Time) []types.TimeSlot {
	log := logging.Get(logging.CategoryAllocator)
	if count <= 0 {
		return nil
	}

	dayOffsets := a.selectDays(count)

	partUsage := make(map[types.Daypart]int)
	used := make(map[int64]bool)
	slots := make([]types.TimeSlot, 0, count)
	for _, offset := range dayOffsets {
		day := weekStart.AddDate(0, 0, offset)
		part := a.pickDaypart(partUsage)
		partUsage[part]++

		at := a.timeWithin(day, part)
		// Best effort: one re-roll on an exact collision.
		if used[at.Unix()] {
			at = a.timeWithin(day, part)
		}
		used[at.Unix()] = true

		slots = append(slots, types.TimeSlot{
			At:      at,
			Weekday: at.Weekday(),
			Daypart: part,
		})
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].At.Before(slots[j].At) })
	log.Info("allocated %d slots from %s", len(slots), weekStart.Format("2006-01-02"))
	return slots
}

// selectDays picks count day offsets (0=weekStart) from a priority list
// that places weekdays before the weekend. When count fits, a stride walk
// spreads the picks evenly; otherwise the list cycles with repeats.
func (a *Allocator) selectDays(count int) []int {
	// Offsets from a Monday week start: weekdays first, then weekend.
	priority := []int{0, 1, 2, 3, 4, 5, 6}

	var picked []int
	switch {
	case count <= 5:
		// Spread over the five weekdays with an interleaved stride.
		stride := 5 / count
		if stride < 1 {
			stride = 1
		}
		for i := 0; len(picked) < count; i += stride {
			picked = append(picked, priority[i%5])
		}
	case count <= 7:
		picked = append(picked, priority[:count]...)
	default:
		for i := 0; i < count; i++ {
			picked = append(picked, priority[i%7])
		}
	}

	sort.Ints(picked)
	return picked
}

// pickDaypart biases toward the least-used daypart so far, with a soft
// preference for afternoon when it would not over-concentrate.
func (a *Allocator) pickDaypart(usage map[types.Daypart]int) types.Daypart {
	minUsage := usage[types.DaypartMorning]
	for _, p := range types.AllDayparts() {
		if usage[p] < minUsage {
			minUsage = usage[p]
		}
	}
	// Afternoon has the highest baseline engagement.
	if usage[types.DaypartAfternoon] <= minUsage {
		return types.DaypartAfternoon
	}

	least := []types.Daypart{}
	for _, p := range types.AllDayparts() {
		if usage[p] == minUsage {
			least = append(least, p)
		}
	}
	return least[a.rng.Intn(len(least))]
}

// timeWithin resolves a daypart to a concrete time on the given day.
func (a *Allocator) timeWithin(day time.Time, part types.Daypart) time.Time {
	w := daypartWindows[part]
	hour := w.startHour + a.rng.Intn(w.endHour-w.startHour)
	minute := a.rng.Intn(60)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}
