package types

// ConstraintSet is the flat record of tunable limits a run operates under.
// One default set exists; callers override per run, and venue sensitivity
// tiers scale the per-venue fields.
type ConstraintSet struct {
	MaxPostsPerVenuePerWeek      int  `json:"max_posts_per_venue_per_week"`
	MinDaysBetweenVenuePosts     int  `json:"min_days_between_venue_posts"`
	MaxPostsPerPersonaPerWeek    int  `json:"max_posts_per_persona_per_week"`
	MaxCommentsPerPersonaPerWeek int  `json:"max_comments_per_persona_per_week"`
	MinHoursBetweenPersonaPosts  int  `json:"min_hours_between_persona_posts"`
	MaxPersonasPerThread         int  `json:"max_personas_per_thread"`
	NoRepeatedPairings           bool `json:"no_repeated_pairings"`
	MinReplyDelayMin             int  `json:"min_reply_delay_min"`
	MaxReplyDelayMin             int  `json:"max_reply_delay_min"`
	ReplySpacingMinMin           int  `json:"reply_spacing_min_min"`
	ReplySpacingMaxMin           int  `json:"reply_spacing_max_min"`
	MaxPromoScore                int  `json:"max_promo_score"`
}

// DefaultConstraints returns the baseline constraint set.
func DefaultConstraints() ConstraintSet {
	return ConstraintSet{
		MaxPostsPerVenuePerWeek:      2,
		MinDaysBetweenVenuePosts:     1,
		MaxPostsPerPersonaPerWeek:    2,
		MaxCommentsPerPersonaPerWeek: 5,
		MinHoursBetweenPersonaPosts:  24,
		MaxPersonasPerThread:         4,
		NoRepeatedPairings:           true,
		MinReplyDelayMin:             30,
		MaxReplyDelayMin:             180,
		ReplySpacingMinMin:           20,
		ReplySpacingMaxMin:           90,
		MaxPromoScore:                6,
	}
}

// WithRisk returns a copy scaled for the given risk tolerance. Low risk
// tightens limits by 1 (promo by 2), high risk loosens by the same amounts.
// Medium (or unknown) leaves the set unchanged.
func (c ConstraintSet) WithRisk(risk RiskTolerance) ConstraintSet {
	delta := 0
	switch risk {
	case RiskLow:
		delta = -1
	case RiskHigh:
		delta = 1
	case RiskMedium:
	}
	if delta == 0 {
		return c
	}
	c.MaxPostsPerVenuePerWeek = max(1, c.MaxPostsPerVenuePerWeek+delta)
	c.MaxPostsPerPersonaPerWeek = max(1, c.MaxPostsPerPersonaPerWeek+delta)
	c.MaxPersonasPerThread = max(2, c.MaxPersonasPerThread+delta)
	c.MaxPromoScore = max(0, c.MaxPromoScore+2*delta)
	return c
}

// EffectiveVenueCap returns the weekly post cap for a community after its
// sensitivity tier and any venue-specific daily rule are applied.
func (c ConstraintSet) EffectiveVenueCap(com Community) int {
	cap := c.MaxPostsPerVenuePerWeek
	switch com.Sensitivity {
	case TierHigh:
		cap--
	case TierLow:
		cap++
	case TierMedium:
	}
	if cap < 1 {
		cap = 1
	}
	return cap
}

// EffectiveMaxPromo returns the promo-score ceiling for a community after
// its sensitivity tier is applied.
func (c ConstraintSet) EffectiveMaxPromo(com Community) int {
	m := c.MaxPromoScore
	switch com.Sensitivity {
	case TierHigh:
		m -= 2
	case TierLow:
		m++
	case TierMedium:
	}
	if m < 0 {
		m = 0
	}
	return m
}
