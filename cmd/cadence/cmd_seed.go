package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cadence/internal/store"
	"cadence/internal/types"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write example personas, communities, and keywords for an owner",
	Long: `seed populates the store with a small example roster so a plan run
works out of the box. Existing rows for the owner are left alone; seeded
rows get fresh IDs on every invocation.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	st, err := store.Open(databasePath())
	if err != nil {
		return err
	}
	defer st.Close()

	personas := []types.Persona{
		{
			ID:             uuid.NewString(),
			OwnerID:        ownerID,
			Handle:         "maya_builds",
			Bio:            "Indie developer shipping small tools",
			Voice:          []string{"dry humor", "terse"},
			Expertise:      []string{"automation", "devtools"},
			Style:          types.StyleGivesAnswers,
			AccountAgeDays: 740,
			Karma:          2100,
		},
		{
			ID:             uuid.NewString(),
			OwnerID:        ownerID,
			Handle:         "ops_jordan",
			Bio:            "SRE who asks too many questions",
			Voice:          []string{"curious", "informal"},
			Expertise:      []string{"infrastructure", "monitoring"},
			Style:          types.StyleAsksQuestions,
			AccountAgeDays: 410,
			Karma:          860,
		},
		{
			ID:             uuid.NewString(),
			OwnerID:        ownerID,
			Handle:         "sam_writes",
			Bio:            "Technical writer, occasional lurker",
			Voice:          []string{"thoughtful", "long-form"},
			Expertise:      []string{"documentation", "devtools"},
			Style:          types.StyleBalanced,
			AccountAgeDays: 1200,
			Karma:          3400,
		},
	}
	communities := []types.Community{
		{
			ID:          uuid.NewString(),
			OwnerID:     ownerID,
			Name:        "r/devtools",
			Description: "Tooling discussion for working developers",
			Sensitivity: types.TierMedium,
			Rules:       &types.CommunityRules{MaxPostsPerDay: 3, AllowSelfPromotion: false},
			Dayparts:    []types.Daypart{types.DaypartMorning, types.DaypartEvening},
		},
		{
			ID:          uuid.NewString(),
			OwnerID:     ownerID,
			Name:        "r/automation",
			Description: "Workflow automation, scripts, and glue code",
			Sensitivity: types.TierLow,
			Rules:       &types.CommunityRules{AllowSelfPromotion: true},
		},
	}
	keywords := []types.Keyword{
		{ID: uuid.NewString(), OwnerID: ownerID, Phrase: "best task automation tools", Category: types.CategoryComparison, Priority: 3},
		{ID: uuid.NewString(), OwnerID: ownerID, Phrase: "how to monitor cron jobs", Category: types.CategoryProblem, Priority: 2},
		{ID: uuid.NewString(), OwnerID: ownerID, Phrase: "automating weekly reports", Category: types.CategoryUseCase, Priority: 2},
		{ID: uuid.NewString(), OwnerID: ownerID, Phrase: "devtools for small teams", Category: types.CategoryAudience, Priority: 1},
	}

	for _, p := range personas {
		if err := st.UpsertPersona(p); err != nil {
			return err
		}
	}
	for _, c := range communities {
		if err := st.UpsertCommunity(c); err != nil {
			return err
		}
	}
	for _, k := range keywords {
		if err := st.UpsertKeyword(k); err != nil {
			return err
		}
	}

	fmt.Printf("Seeded %d personas, %d communities, %d keywords for owner %s\n",
		len(personas), len(communities), len(keywords), ownerID)
	return nil
}
