package config

import "cadence/internal/types"

// ConstraintsConfig is the YAML-facing form of the runtime constraint set.
type ConstraintsConfig struct {
	MaxPostsPerVenuePerWeek      int  `yaml:"max_posts_per_venue_per_week"`
	MinDaysBetweenVenuePosts     int  `yaml:"min_days_between_venue_posts"`
	MaxPostsPerPersonaPerWeek    int  `yaml:"max_posts_per_persona_per_week"`
	MaxCommentsPerPersonaPerWeek int  `yaml:"max_comments_per_persona_per_week"`
	MinHoursBetweenPersonaPosts  int  `yaml:"min_hours_between_persona_posts"`
	MaxPersonasPerThread         int  `yaml:"max_personas_per_thread"`
	NoRepeatedPairings           bool `yaml:"no_repeated_pairings"`
	MinReplyDelayMin             int  `yaml:"min_reply_delay_min"`
	MaxReplyDelayMin             int  `yaml:"max_reply_delay_min"`
	ReplySpacingMinMin           int  `yaml:"reply_spacing_min_min"`
	ReplySpacingMaxMin           int  `yaml:"reply_spacing_max_min"`
	MaxPromoScore                int  `yaml:"max_promo_score"`
}

// DefaultConstraintsConfig mirrors types.DefaultConstraints.
func DefaultConstraintsConfig() ConstraintsConfig {
	return fromConstraintSet(types.DefaultConstraints())
}

// ToConstraintSet converts the config form into the runtime set.
func (c ConstraintsConfig) ToConstraintSet() types.ConstraintSet {
	return types.ConstraintSet{
		MaxPostsPerVenuePerWeek:      c.MaxPostsPerVenuePerWeek,
		MinDaysBetweenVenuePosts:     c.MinDaysBetweenVenuePosts,
		MaxPostsPerPersonaPerWeek:    c.MaxPostsPerPersonaPerWeek,
		MaxCommentsPerPersonaPerWeek: c.MaxCommentsPerPersonaPerWeek,
		MinHoursBetweenPersonaPosts:  c.MinHoursBetweenPersonaPosts,
		MaxPersonasPerThread:         c.MaxPersonasPerThread,
		NoRepeatedPairings:           c.NoRepeatedPairings,
		MinReplyDelayMin:             c.MinReplyDelayMin,
		MaxReplyDelayMin:             c.MaxReplyDelayMin,
		ReplySpacingMinMin:           c.ReplySpacingMinMin,
		ReplySpacingMaxMin:           c.ReplySpacingMaxMin,
		MaxPromoScore:                c.MaxPromoScore,
	}
}

func fromConstraintSet(s types.ConstraintSet) ConstraintsConfig {
	return ConstraintsConfig{
		MaxPostsPerVenuePerWeek:      s.MaxPostsPerVenuePerWeek,
		MinDaysBetweenVenuePosts:     s.MinDaysBetweenVenuePosts,
		MaxPostsPerPersonaPerWeek:    s.MaxPostsPerPersonaPerWeek,
		MaxCommentsPerPersonaPerWeek: s.MaxCommentsPerPersonaPerWeek,
		MinHoursBetweenPersonaPosts:  s.MinHoursBetweenPersonaPosts,
		MaxPersonasPerThread:         s.MaxPersonasPerThread,
		NoRepeatedPairings:           s.NoRepeatedPairings,
		MinReplyDelayMin:             s.MinReplyDelayMin,
		MaxReplyDelayMin:             s.MaxReplyDelayMin,
		ReplySpacingMinMin:           s.ReplySpacingMinMin,
		ReplySpacingMaxMin:           s.ReplySpacingMaxMin,
		MaxPromoScore:                s.MaxPromoScore,
	}
}
