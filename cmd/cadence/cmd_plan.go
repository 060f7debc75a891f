package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cadence/internal/pipeline"
	"cadence/internal/store"
	"cadence/internal/textgen"
	"cadence/internal/types"
)

var (
	planPosts        int
	planWeekStart    string
	planMock         bool
	planSeed         int64
	planAutoRepair   bool
	planRepairPasses int
	planRisk         string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan one week of activity and persist the result",
	Long: `plan loads the owner's personas, communities, and keywords from the
store, runs the full planning pipeline for the requested week, prints the
schedule and quality report, and persists the finalized posts, replies,
and weekly history snapshot. Nothing is persisted if the run fails or is
interrupted.`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().IntVar(&planPosts, "posts", 3, "number of posts to plan")
	planCmd.Flags().StringVar(&planWeekStart, "week-start", "", "week start date (YYYY-MM-DD, defaults to next Monday)")
	planCmd.Flags().BoolVar(&planMock, "mock", false, "use the mock text backend (no network calls)")
	planCmd.Flags().Int64Var(&planSeed, "seed", 0, "random seed (0 = time-based)")
	planCmd.Flags().BoolVar(&planAutoRepair, "auto-repair", false, "enable the quality auto-repair loop")
	planCmd.Flags().IntVar(&planRepairPasses, "repair-passes", 0, "auto-repair pass budget (0 = config default)")
	planCmd.Flags().StringVar(&planRisk, "risk", "", "risk tolerance: low, medium, high")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	weekStart, err := resolveWeekStart(planWeekStart)
	if err != nil {
		return err
	}

	st, err := store.Open(databasePath())
	if err != nil {
		return err
	}
	defer st.Close()

	personas, err := st.ListPersonas(ownerID)
	if err != nil {
		return err
	}
	communities, err := st.ListCommunities(ownerID)
	if err != nil {
		return err
	}
	keywords, err := st.ListKeywords(ownerID)
	if err != nil {
		return err
	}
	records, err := st.ListHistory(ownerID)
	if err != nil {
		return err
	}

	client, mock, err := buildClient(ctx)
	if err != nil {
		return err
	}

	prefs := cfg.Generation
	if planAutoRepair {
		prefs.AutoRepair = true
	}
	if planRepairPasses > 0 {
		prefs.RepairPasses = planRepairPasses
	}

	req := pipeline.Request{
		OwnerID:     ownerID,
		Personas:    personas,
		Communities: communities,
		Keywords:    keywords,
		PostCount:   planPosts,
		WeekStart:   weekStart,
		Generation:  &prefs,
		History:     store.WeekHistories(records),
		Risk:        types.RiskTolerance(planRisk),
		Seed:        planSeed,
	}

	resp, err := pipeline.New(client, cfg, mock).Plan(ctx, req)
	if err != nil {
		var verr *pipeline.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%s", verr.Error())
		}
		return err
	}

	printResponse(resp)
	return commit(st, resp)
}

// buildClient selects the text backend from the --mock flag and the
// configured provider.
func buildClient(ctx context.Context) (textgen.Client, bool, error) {
	if planMock || cfg.LLM.Provider == "mock" {
		seed := cfg.LLM.MockSeed
		if seed == 0 {
			seed = planSeed
		}
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return textgen.NewMockClient(seed), true, nil
	}
	switch cfg.LLM.Provider {
	case "anthropic", "":
		ac := textgen.DefaultAnthropicConfig(cfg.LLM.APIKey)
		if cfg.LLM.Model != "" {
			ac.Model = cfg.LLM.Model
		}
		if cfg.LLM.BaseURL != "" {
			ac.BaseURL = cfg.LLM.BaseURL
		}
		ac.Timeout = cfg.LLM.ParsedTimeout()
		return textgen.NewAnthropicClientWithConfig(ac), false, nil
	case "gemini":
		client, err := textgen.NewGeminiClient(ctx, cfg.LLM.APIKey)
		if err != nil {
			return nil, false, err
		}
		return client, false, nil
	default:
		return nil, false, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

// resolveWeekStart parses the flag or defaults to the next Monday.
func resolveWeekStart(s string) (time.Time, error) {
	if s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --week-start %q: %w", s, err)
		}
		return t, nil
	}
	now := time.Now()
	daysUntilMonday := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	if daysUntilMonday == 0 {
		daysUntilMonday = 7
	}
	next := now.AddDate(0, 0, daysUntilMonday)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, now.Location()), nil
}

// commit persists a completed run: posts, replies, and the weekly
// snapshot. Only called after the pipeline finished without error.
func commit(st *store.Store, resp *pipeline.Response) error {
	for _, p := range resp.Posts {
		if err := st.UpsertPost(p); err != nil {
			return err
		}
	}
	for _, r := range resp.Replies {
		if err := st.UpsertReply(r); err != nil {
			return err
		}
	}

	topicUsage := make(map[string]int)
	venueUsage := make(map[string]int)
	for _, p := range resp.Posts {
		venueUsage[p.CommunityID]++
		for _, kid := range p.KeywordIDs {
			topicUsage[kid]++
		}
	}
	err := st.UpsertHistory(store.HistoryRecord{
		OwnerID:     ownerID,
		WeekNumber:  resp.WeekNumber,
		GeneratedAt: resp.GeneratedAt,
		Report:      resp.Report,
		PostCount:   len(resp.Posts),
		ReplyCount:  len(resp.Replies),
		TopicUsage:  topicUsage,
		VenueUsage:  venueUsage,
	})
	if err != nil {
		return err
	}
	logger.Info("run committed",
		zap.Int("week", resp.WeekNumber),
		zap.Int("posts", len(resp.Posts)),
		zap.Int("replies", len(resp.Replies)))
	return nil
}

func printResponse(resp *pipeline.Response) {
	fmt.Printf("Week %d: %d posts, %d replies, quality %.1f/10\n\n",
		resp.WeekNumber, len(resp.Posts), len(resp.Replies), resp.Report.Score)
	for _, p := range resp.Posts {
		fmt.Printf("  %s  [%s]  %s\n", p.ScheduledAt.Format("Mon 15:04"), p.ThreadType, p.Title)
	}
	if len(resp.Report.Issues) > 0 {
		fmt.Printf("\nIssues:\n")
		for _, is := range resp.Report.Issues {
			fmt.Printf("  [%s] %s\n", is.Severity, is.Message)
		}
	}
	for _, w := range resp.Report.Warnings {
		fmt.Printf("  warning: %s\n", w.Message)
	}
	for _, s := range resp.Report.Suggestions {
		fmt.Printf("  suggestion: %s\n", s)
	}
	if verbose && resp.Trace != nil {
		fmt.Printf("\nTrace: venues=%v dayparts=%v personas=%v repair_passes=%d\n",
			resp.Trace.VenueDistribution, resp.Trace.DaypartCounts,
			resp.Trace.PersonaDistribution, resp.Trace.RepairPasses)
		for _, d := range resp.Trace.DroppedSlots {
			fmt.Printf("  dropped: %s\n", d)
		}
		for _, r := range resp.Trace.RelaxedPairings {
			fmt.Printf("  relaxed: %s\n", r)
		}
	}
}
