package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cadence/internal/store"
	"cadence/internal/types"
)

var showReplies bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "List persisted posts for an owner",
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showReplies, "replies", false, "include replies under each post")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	st, err := store.Open(databasePath())
	if err != nil {
		return err
	}
	defer st.Close()

	posts, err := st.ListPosts(ownerID)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Printf("No posts for owner %s\n", ownerID)
		return nil
	}

	var replies []types.Reply
	if showReplies {
		replies, err = st.ListReplies(ownerID)
		if err != nil {
			return err
		}
	}
	byPost := make(map[string][]types.Reply)
	for _, r := range replies {
		byPost[r.PostID] = append(byPost[r.PostID], r)
	}

	for _, p := range posts {
		fmt.Printf("%s  [%s] %s  (%s, score %.1f)\n",
			p.ScheduledAt.Format("2006-01-02 15:04"), p.ThreadType, p.Title, p.Status, p.QualityScore)
		for _, r := range byPost[p.ID] {
			fmt.Printf("    +%dm %s\n", r.DelayMinutes, truncate(r.Text, 70))
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
