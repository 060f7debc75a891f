package types

import "time"

// Daypart divides a day into three posting windows.
type Daypart string

const (
	DaypartMorning   Daypart = "morning"
	DaypartAfternoon Daypart = "afternoon"
	DaypartEvening   Daypart = "evening"
)

// AllDayparts in chronological order.
func AllDayparts() []Daypart {
	return []Daypart{DaypartMorning, DaypartAfternoon, DaypartEvening}
}

// ThreadType classifies the conversational shape of a thread.
type ThreadType string

const (
	ThreadQuestion   ThreadType = "question"
	ThreadAdvice     ThreadType = "advice"
	ThreadStory      ThreadType = "story"
	ThreadDiscussion ThreadType = "discussion"
)

// TimeSlot is the allocator's output: a bare scheduling point.
type TimeSlot struct {
	At      time.Time
	Weekday time.Weekday
	Daypart Daypart
}

// MatchedSlot attaches a venue and topics to a TimeSlot. The embedded
// TimeSlot is never mutated after matching.
type MatchedSlot struct {
	TimeSlot
	Community  Community
	Keywords   []Keyword // 1-2 entries
	ThreadType ThreadType
}

// AssignedSlot attaches the cast to a MatchedSlot. Invariant: Author never
// appears in Reactors, and 1 <= len(Reactors) <= MaxPersonasPerThread-1.
type AssignedSlot struct {
	MatchedSlot
	Author   Persona
	Reactors []Persona
}
