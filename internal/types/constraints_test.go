package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithRisk(t *testing.T) {
	base := DefaultConstraints()

	low := base.WithRisk(RiskLow)
	assert.Equal(t, 1, low.MaxPostsPerVenuePerWeek)
	assert.Equal(t, 1, low.MaxPostsPerPersonaPerWeek)
	assert.Equal(t, 3, low.MaxPersonasPerThread)
	assert.Equal(t, 4, low.MaxPromoScore)

	high := base.WithRisk(RiskHigh)
	assert.Equal(t, 3, high.MaxPostsPerVenuePerWeek)
	assert.Equal(t, 5, high.MaxPersonasPerThread)
	assert.Equal(t, 8, high.MaxPromoScore)

	assert.Equal(t, base, base.WithRisk(RiskMedium))
	assert.Equal(t, base, base.WithRisk(""))
}

func TestWithRiskFloors(t *testing.T) {
	cs := ConstraintSet{
		MaxPostsPerVenuePerWeek:   1,
		MaxPostsPerPersonaPerWeek: 1,
		MaxPersonasPerThread:      2,
		MaxPromoScore:             1,
	}
	low := cs.WithRisk(RiskLow)
	assert.Equal(t, 1, low.MaxPostsPerVenuePerWeek)
	assert.Equal(t, 1, low.MaxPostsPerPersonaPerWeek)
	assert.Equal(t, 2, low.MaxPersonasPerThread)
	assert.Equal(t, 0, low.MaxPromoScore)
}

func TestEffectiveVenueCap(t *testing.T) {
	cs := DefaultConstraints() // base cap 2
	assert.Equal(t, 2, cs.EffectiveVenueCap(Community{Sensitivity: TierMedium}))
	assert.Equal(t, 1, cs.EffectiveVenueCap(Community{Sensitivity: TierHigh}))
	assert.Equal(t, 3, cs.EffectiveVenueCap(Community{Sensitivity: TierLow}))

	cs.MaxPostsPerVenuePerWeek = 1
	assert.Equal(t, 1, cs.EffectiveVenueCap(Community{Sensitivity: TierHigh}), "cap never drops below 1")
}

func TestEffectiveMaxPromo(t *testing.T) {
	cs := DefaultConstraints() // base 6
	assert.Equal(t, 6, cs.EffectiveMaxPromo(Community{Sensitivity: TierMedium}))
	assert.Equal(t, 4, cs.EffectiveMaxPromo(Community{Sensitivity: TierHigh}))
	assert.Equal(t, 7, cs.EffectiveMaxPromo(Community{Sensitivity: TierLow}))

	cs.MaxPromoScore = 1
	assert.Equal(t, 0, cs.EffectiveMaxPromo(Community{Sensitivity: TierHigh}), "floor at 0")
}

func TestValidPostingStyle(t *testing.T) {
	assert.True(t, ValidPostingStyle(StyleAsksQuestions))
	assert.True(t, ValidPostingStyle(StyleGivesAnswers))
	assert.True(t, ValidPostingStyle(StyleBalanced))
	assert.False(t, ValidPostingStyle("shouting"))
	assert.False(t, ValidPostingStyle(""))
}
