package pipeline

import "time"

// Trace is per-stage metadata for observability. It carries no behavioral
// contract; callers may ignore it entirely.
type Trace struct {
	SlotDays      []string       `json:"slot_days"`
	DaypartCounts map[string]int `json:"daypart_counts"`

	VenueDistribution   map[string]int `json:"venue_distribution"`
	KeywordDistribution map[string]int `json:"keyword_distribution"`
	PersonaDistribution map[string]int `json:"persona_distribution"`

	DroppedSlots    []string `json:"dropped_slots,omitempty"`
	RelaxedPairings []string `json:"relaxed_pairings,omitempty"`
	GenerationNotes []string `json:"generation_notes,omitempty"`

	GenerationTime time.Duration `json:"generation_time"`
	RepairPasses   int           `json:"repair_passes"`
	IssueCount     int           `json:"issue_count"`
	WarningCount   int           `json:"warning_count"`
}

func newTrace() *Trace {
	return &Trace{
		DaypartCounts:       make(map[string]int),
		VenueDistribution:   make(map[string]int),
		KeywordDistribution: make(map[string]int),
		PersonaDistribution: make(map[string]int),
	}
}
